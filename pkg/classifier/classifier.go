// Package classifier derives unit, category and priority from free-text
// shift notes using ordered, first-match-wins rule tables.
package classifier

import (
	"regexp"
	"strings"

	"github.com/ekaya-inc/shiftlog/pkg/models"
)

// Result is the outcome of classifying one note. It is always fully populated.
type Result struct {
	Unit     string          `json:"unit"`
	Type     models.NoteType `json:"type"`
	Priority models.Priority `json:"priority"`
}

// Overrides carries caller-supplied values that bypass extraction.
type Overrides struct {
	Unit string
	Type models.NoteType
}

// unitPatterns are tried in order; the first match wins.
var unitPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bunit\s*[-#]?\s*(\d+[a-z]?)\b`),
	regexp.MustCompile(`(?i)\bu-?(\d+[a-z]?)\b`),
	regexp.MustCompile(`(?i)\breactor\s*[-#]?\s*(\d+[a-z]?)\b`),
	regexp.MustCompile(`(?i)\bpump\s*[-#]?\s*(\d+[a-z]?)\b`),
	regexp.MustCompile(`(?i)\btower\s*[-#]?\s*(\d+[a-z]?)\b`),
}

// keywordSet matches any of its words at the start of a word, so "repair"
// matches "repairs" and "repaired" but "normal" does not match "abnormal".
type keywordSet struct {
	words []string
	re    *regexp.Regexp
}

func newKeywordSet(words ...string) keywordSet {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return keywordSet{
		words: words,
		re:    regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)`),
	}
}

func (k keywordSet) match(text string) bool {
	return k.re.MatchString(text)
}

var (
	alertKeywords       = newKeywordSet("alert", "warning", "spike", "urgent", "critical", "emergency")
	maintenanceKeywords = newKeywordSet("maintenance", "repair", "inspection", "cleaning", "service", "fix")
	statusKeywords      = newKeywordSet("pressure", "temperature", "psi", "stable", "normal", "operating")

	criticalKeywords  = newKeywordSet("critical", "emergency", "shutdown", "failure")
	urgentKeywords    = newKeywordSet("urgent", "immediate", "alert")
	attentionKeywords = newKeywordSet("attention")
)

// categoryRule maps a keyword set to the category it assigns.
type categoryRule struct {
	keywords keywordSet
	category models.NoteType
}

// categoryRules is evaluated top to bottom. Safety language outranks
// maintenance language, which outranks routine status language.
var categoryRules = []categoryRule{
	{alertKeywords, models.NoteTypeAlert},
	{maintenanceKeywords, models.NoteTypeMaintenance},
	{statusKeywords, models.NoteTypeStatus},
}

// priorityRule assigns a priority when its predicate holds.
type priorityRule struct {
	name     string
	applies  func(text string, category models.NoteType) bool
	priority models.Priority
}

var priorityRules = []priorityRule{
	{
		name:     "critical-keywords",
		applies:  func(text string, _ models.NoteType) bool { return criticalKeywords.match(text) },
		priority: models.PriorityCritical,
	},
	{
		name: "urgent-or-alert",
		applies: func(text string, category models.NoteType) bool {
			return urgentKeywords.match(text) || category == models.NoteTypeAlert
		},
		priority: models.PriorityHigh,
	},
	{
		name: "maintenance-or-attention",
		applies: func(text string, category models.NoteType) bool {
			return category == models.NoteTypeMaintenance || attentionKeywords.match(text)
		},
		priority: models.PriorityMedium,
	},
}

// Classify extracts unit, category and priority from text. Valid overrides
// take precedence over extraction; an invalid type override is ignored.
func Classify(text string, overrides Overrides) Result {
	unit := strings.TrimSpace(overrides.Unit)
	if unit == "" {
		unit = ExtractUnit(text)
	}

	category := overrides.Type
	if !models.ValidNoteType(category) {
		category = Categorize(text)
	}

	return Result{
		Unit:     unit,
		Type:     category,
		Priority: DeterminePriority(text, category),
	}
}

// ExtractUnit returns the first unit identifier found in text, or
// models.GeneralUnit when none is present.
func ExtractUnit(text string) string {
	for _, re := range unitPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return strings.ToUpper(m[1])
		}
	}
	return models.GeneralUnit
}

// Categorize returns the category of the first matching rule, or general.
func Categorize(text string) models.NoteType {
	for _, rule := range categoryRules {
		if rule.keywords.match(text) {
			return rule.category
		}
	}
	return models.NoteTypeGeneral
}

// DeterminePriority returns the priority of the first applicable rule, or low.
func DeterminePriority(text string, category models.NoteType) models.Priority {
	for _, rule := range priorityRules {
		if rule.applies(text, category) {
			return rule.priority
		}
	}
	return models.PriorityLow
}
