package locale

import (
	"os"
	"path/filepath"
	"testing"
)

func TestApplyPreservesCasePattern(t *testing.T) {
	m := TermMap{"oil": "petroleum"}
	cases := []struct {
		in, want string
	}{
		{"OIL prices rose", "PETROLEUM prices rose"},
		{"Oil prices rose", "Petroleum prices rose"},
		{"oil prices rose", "petroleum prices rose"},
	}
	for _, c := range cases {
		if got := Apply(c.in, m); got != c.want {
			t.Errorf("Apply(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestApplyWholeWordOnly(t *testing.T) {
	m := TermMap{"color": "colour"}
	in := "a colorful color chart"
	want := "a colorful colour chart"
	if got := Apply(in, m); got != want {
		t.Fatalf("Apply = %q, want %q", got, want)
	}
}

func TestApplyLongestTermWins(t *testing.T) {
	m := TermMap{"gas": "petrol", "gas station": "petrol station"}
	if got := Apply("the gas station", m); got != "the petrol station" {
		t.Fatalf("Apply = %q", got)
	}
}

func TestApplyEmptyMapUnchanged(t *testing.T) {
	if got := Apply("unchanged text", nil); got != "unchanged text" {
		t.Fatalf("Apply = %q", got)
	}
}

func TestApplyMultiWordReplacement(t *testing.T) {
	m := TermMap{"faucet": "tap"}
	if got := Apply("Faucet sales fell.", m); got != "Tap sales fell." {
		t.Fatalf("Apply = %q", got)
	}
}

func TestLoadLowercasesKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "terms.yaml")
	if err := os.WriteFile(path, []byte("Oil: petroleum\ngas: petrol\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if m["oil"] != "petroleum" || m["gas"] != "petrol" {
		t.Fatalf("loaded map wrong: %+v", m)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
