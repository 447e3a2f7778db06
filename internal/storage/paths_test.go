package storage

import "testing"

func TestStagePath(t *testing.T) {
	l := Layout{Root: "The_Big_Question", Domain: "Panelitix"}
	got := l.StagePath("Report", "run-1", "txt")
	want := "The_Big_Question/Panelitix/Ai_Responses/Report/run-1.txt"
	if got != want {
		t.Fatalf("StagePath = %q, want %q", got, want)
	}
}

func TestQuestionAssetPaths(t *testing.T) {
	l := Layout{Root: "R", Domain: "D"}
	if got, want := l.IndividualPath("run-1", 2, "What drives demand this quarter"), "R/D/Ai_Responses/Question_Assets/run-1/Individual_Question_Outputs/002_What_drives_demand_this_quarter.txt"; got != want {
		t.Errorf("IndividualPath = %q, want %q", got, want)
	}
	if got, want := l.CheckpointPath("run-1"), "R/D/Ai_Responses/Question_Assets/run-1/Individual_Question_Outputs/checkpoint.json"; got != want {
		t.Errorf("CheckpointPath = %q, want %q", got, want)
	}
	if got, want := l.MergedPath("run-1", "out.txt"), "R/D/Ai_Responses/Question_Assets/run-1/Merged_Question_Outputs/out.txt"; got != want {
		t.Errorf("MergedPath = %q, want %q", got, want)
	}
}

func TestNormalizeSegment(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"O'Brien-Smith", "OBrienSmith"},
		{"North West", "North_West"},
		{"  padded  words ", "padded_words"},
		{"plain", "plain"},
	}
	for _, c := range cases {
		if got := NormalizeSegment(c.in); got != c.want {
			t.Errorf("NormalizeSegment(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestMergedFilename(t *testing.T) {
	got := MergedFilename("Jane", "O'Neil", "Crude Oil", MergedQuestionJsons, "25/12/2025")
	want := "Jane_ONeil_Crude_Oil_Merged_Question_Jsons_25122025.txt"
	if got != want {
		t.Fatalf("MergedFilename = %q, want %q", got, want)
	}
}
