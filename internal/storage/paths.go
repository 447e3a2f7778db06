package storage

import (
	"fmt"
	"regexp"
	"strings"
)

// Storage path conventions. These are reproduced exactly for compatibility
// with downstream tooling that addresses artifacts by convention:
//
//	{root}/{domain}/Ai_Responses/{stage}/{run_id}.{ext}
//	{root}/{domain}/Ai_Responses/Question_Assets/{run_id}/Individual_Question_Outputs/...
//	{root}/{domain}/Ai_Responses/Question_Assets/{run_id}/Merged_Question_Outputs/...

const (
	aiResponsesDir = "Ai_Responses"
	questionAssets = "Question_Assets"

	IndividualOutputsDir = "Individual_Question_Outputs"
	MergedOutputsDir     = "Merged_Question_Outputs"
)

// MergedVariant names the merged-output flavor embedded in the filename.
type MergedVariant string

const (
	MergedQuestionJsons MergedVariant = "Merged_Question_Jsons"
	MergedImagePrompts  MergedVariant = "Merged_Image_Prompts"
)

type Layout struct {
	Root   string
	Domain string
}

func (l Layout) StagePath(stage, runID, ext string) string {
	return fmt.Sprintf("%s/%s/%s/%s/%s.%s", l.Root, l.Domain, aiResponsesDir, stage, runID, ext)
}

func (l Layout) QuestionAssetDir(runID, dir string) string {
	return fmt.Sprintf("%s/%s/%s/%s/%s/%s/", l.Root, l.Domain, aiResponsesDir, questionAssets, runID, dir)
}

func (l Layout) IndividualPath(runID string, index int, name string) string {
	return fmt.Sprintf("%s%03d_%s.txt", l.QuestionAssetDir(runID, IndividualOutputsDir), index, NormalizeSegment(name))
}

func (l Layout) CheckpointPath(runID string) string {
	return l.QuestionAssetDir(runID, IndividualOutputsDir) + "checkpoint.json"
}

func (l Layout) MergedPath(runID string, filename string) string {
	return l.QuestionAssetDir(runID, MergedOutputsDir) + filename
}

var nonWordRe = regexp.MustCompile(`[^\w ]`)

// NormalizeSegment strips non-word characters and joins the remaining words
// with underscores: `O'Brien-Smith` -> `OBrienSmith`, `North West` ->
// `North_West`.
func NormalizeSegment(s string) string {
	s = nonWordRe.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), "_")
}

// NormalizeDateSegment strips slashes and colons from a date for filename
// use: `25/12/2025` -> `25122025`.
func NormalizeDateSegment(s string) string {
	s = strings.NewReplacer("/", "", ":", "", " ", "_").Replace(s)
	return strings.TrimSpace(s)
}

// MergedFilename builds the canonical merged-output filename:
// {first}_{last}_{condition}_{variant}_{date}.txt with every segment
// normalized.
func MergedFilename(first, last, condition string, variant MergedVariant, date string) string {
	segments := []string{
		NormalizeSegment(first),
		NormalizeSegment(last),
		NormalizeSegment(condition),
		string(variant),
		NormalizeDateSegment(date),
	}
	return strings.Join(segments, "_") + ".txt"
}
