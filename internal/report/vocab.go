package report

import "strings"

// FieldKey is the literal label of a recognized field, without the trailing
// colon, e.g. "Report Title". The vocabulary is fixed at design time; the
// parser never promotes unknown labels to keys.
type FieldKey string

type KeyClass string

const (
	ClassIntro      KeyClass = "intro"
	ClassSection    KeyClass = "section"
	ClassSubSection KeyClass = "sub_section"
	ClassOutro      KeyClass = "outro"
)

type FormatRule string

const (
	RuleTitleCase     FormatRule = "title_case"
	RuleSentenceCase  FormatRule = "sentence_case"
	RuleParagraphCase FormatRule = "paragraph_case"
	RuleBulletList    FormatRule = "bullet_list"
	RuleDateNormalize FormatRule = "date_normalize"
	RuleVerbatim      FormatRule = "verbatim"
)

const (
	KeyReportTitle       FieldKey = "Report Title"
	KeyReportSubTitle    FieldKey = "Report Sub-Title"
	KeyExecutiveSummary  FieldKey = "Executive Summary"
	KeyKeyFindings       FieldKey = "Key Findings"
	KeyCallToAction      FieldKey = "Call to Action"
	KeyReportChangeTitle FieldKey = "Report Change Title"
	KeyReportChange      FieldKey = "Report Change"
	KeyReportTable       FieldKey = "Report Table"

	KeySectionTitle          FieldKey = "Section Title"
	KeySectionHeader         FieldKey = "Section Header"
	KeySectionSubHeader      FieldKey = "Section Sub-Header"
	KeySectionTheme          FieldKey = "Section Theme"
	KeySectionSummary        FieldKey = "Section Summary"
	KeySectionMakeup         FieldKey = "Section Makeup"
	KeySectionChange         FieldKey = "Section Change"
	KeySectionEffect         FieldKey = "Section Effect"
	KeySectionInsight        FieldKey = "Section Insight"
	KeySectionStatistic      FieldKey = "Section Statistic"
	KeySectionRecommendation FieldKey = "Section Recommendation"
	KeyArticleTitle          FieldKey = "Section Related Article Title"
	KeyArticleDate           FieldKey = "Section Related Article Date"
	KeyArticleSource         FieldKey = "Section Related Article Source"
	KeyArticleRelevance      FieldKey = "Section Related Article Relevance"

	KeySubSectionTitle          FieldKey = "Sub-Section Title"
	KeySubSectionHeader         FieldKey = "Sub-Section Header"
	KeySubSectionSubHeader      FieldKey = "Sub-Section Sub-Header"
	KeySubSectionTheme          FieldKey = "Sub-Section Theme"
	KeySubSectionSummary        FieldKey = "Sub-Section Summary"
	KeySubSectionMakeup         FieldKey = "Sub-Section Makeup"
	KeySubSectionChange         FieldKey = "Sub-Section Change"
	KeySubSectionEffect         FieldKey = "Sub-Section Effect"
	KeySubSectionInsight        FieldKey = "Sub-Section Insight"
	KeySubSectionStatistic      FieldKey = "Sub-Section Statistic"
	KeySubSectionRecommendation FieldKey = "Sub-Section Recommendation"

	KeySectionTables FieldKey = "Section Tables"

	KeyConclusion      FieldKey = "Conclusion"
	KeyRecommendations FieldKey = "Recommendations"
)

// SectionMarker is the header line prefix that opens a numbered section
// ("Section #: 3") or sub-section ("Section #: 3.1") context.
const SectionMarker = "Section #"

type KeySpec struct {
	Key    FieldKey
	Class  KeyClass
	Rule   FormatRule
	Opaque bool
}

// Vocabulary is the single source of truth for key order, class membership
// and formatting rules. Re-serialization follows this order, never input
// order.
var Vocabulary = []KeySpec{
	{KeyReportTitle, ClassIntro, RuleTitleCase, false},
	{KeyReportSubTitle, ClassIntro, RuleTitleCase, false},
	{KeyExecutiveSummary, ClassIntro, RuleParagraphCase, false},
	{KeyKeyFindings, ClassIntro, RuleBulletList, false},
	{KeyCallToAction, ClassIntro, RuleBulletList, false},
	{KeyReportChangeTitle, ClassIntro, RuleTitleCase, false},
	{KeyReportChange, ClassIntro, RuleParagraphCase, false},
	{KeyReportTable, ClassIntro, RuleVerbatim, true},

	{KeySectionTitle, ClassSection, RuleTitleCase, false},
	{KeySectionHeader, ClassSection, RuleTitleCase, false},
	{KeySectionSubHeader, ClassSection, RuleTitleCase, false},
	{KeySectionTheme, ClassSection, RuleTitleCase, false},
	{KeySectionSummary, ClassSection, RuleParagraphCase, false},
	{KeySectionMakeup, ClassSection, RuleSentenceCase, false},
	{KeySectionChange, ClassSection, RuleSentenceCase, false},
	{KeySectionEffect, ClassSection, RuleSentenceCase, false},
	{KeySectionInsight, ClassSection, RuleSentenceCase, false},
	{KeySectionStatistic, ClassSection, RuleSentenceCase, false},
	{KeySectionRecommendation, ClassSection, RuleBulletList, false},
	{KeyArticleTitle, ClassSection, RuleTitleCase, false},
	{KeyArticleDate, ClassSection, RuleDateNormalize, false},
	{KeyArticleSource, ClassSection, RuleTitleCase, false},
	{KeyArticleRelevance, ClassSection, RuleSentenceCase, false},

	{KeySubSectionTitle, ClassSubSection, RuleTitleCase, false},
	{KeySubSectionHeader, ClassSubSection, RuleTitleCase, false},
	{KeySubSectionSubHeader, ClassSubSection, RuleTitleCase, false},
	{KeySubSectionTheme, ClassSubSection, RuleTitleCase, false},
	{KeySubSectionSummary, ClassSubSection, RuleParagraphCase, false},
	{KeySubSectionMakeup, ClassSubSection, RuleSentenceCase, false},
	{KeySubSectionChange, ClassSubSection, RuleSentenceCase, false},
	{KeySubSectionEffect, ClassSubSection, RuleSentenceCase, false},
	{KeySubSectionInsight, ClassSubSection, RuleSentenceCase, false},
	{KeySubSectionStatistic, ClassSubSection, RuleSentenceCase, false},
	{KeySubSectionRecommendation, ClassSubSection, RuleBulletList, false},

	{KeySectionTables, ClassOutro, RuleVerbatim, true},
	{KeyConclusion, ClassOutro, RuleParagraphCase, false},
	{KeyRecommendations, ClassOutro, RuleBulletList, false},
}

var (
	keyIndex       = map[FieldKey]KeySpec{}
	introKeys      []FieldKey
	sectionKeys    []FieldKey
	subSectionKeys []FieldKey
	outroKeys      []FieldKey
)

func init() {
	for _, spec := range Vocabulary {
		keyIndex[spec.Key] = spec
		switch spec.Class {
		case ClassIntro:
			introKeys = append(introKeys, spec.Key)
		case ClassSection:
			sectionKeys = append(sectionKeys, spec.Key)
		case ClassSubSection:
			subSectionKeys = append(subSectionKeys, spec.Key)
		case ClassOutro:
			outroKeys = append(outroKeys, spec.Key)
		}
	}

	for _, key := range introKeys {
		columns = append(columns, Column(key))
	}
	for _, key := range outroKeys {
		columns = append(columns, Column(key))
	}
	columns = append(columns, ColumnSectionNo)
	for _, key := range sectionKeys {
		columns = append(columns, Column(key))
	}
	columns = append(columns, ColumnSubSectionNo)
	for _, key := range subSectionKeys {
		columns = append(columns, Column(key))
	}
}

func Lookup(key FieldKey) (KeySpec, bool) {
	spec, ok := keyIndex[key]
	return spec, ok
}

func IntroKeys() []FieldKey      { return introKeys }
func SectionKeys() []FieldKey    { return sectionKeys }
func SubSectionKeys() []FieldKey { return subSectionKeys }
func OutroKeys() []FieldKey      { return outroKeys }

// Column converts a vocabulary key to its CSV column name: lower snake case,
// spaces and hyphens to underscores. "Report Sub-Title" -> "report_sub_title".
func Column(key FieldKey) string {
	s := strings.ToLower(string(key))
	s = strings.ReplaceAll(s, "-", " ")
	return strings.Join(strings.Fields(s), "_")
}
