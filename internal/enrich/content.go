// Package enrich holds the batch jobs that fill in exercise descriptions, keyword mappings and
// tutorial video links from external APIs.
package enrich

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"heartwellness/fitness-cms/internal/domain"
)

// SystemInstruction frames the model as a fitness expert writing structured markdown.
const SystemInstruction = "You are a professional fitness trainer and expert. Generate comprehensive, accurate, " +
	"and practical fitness exercise descriptions in markdown format. Use proper markdown headers (##), lists, " +
	"and emphasis. Structure the content with clear sections: What is [exercise]?, Tutorial, Common Mistakes, " +
	"Tips for Better Results, and Muscles Worked."

// DescriptionPrompt is the user prompt for one exercise.
func DescriptionPrompt(name string) string {
	return fmt.Sprintf("Generate %[1]s content, including:\n"+
		"- What is %[1]s?\n"+
		"- %[1]s Tutorial\n"+
		"- Common Mistakes\n"+
		"- Tips for Better Results\n"+
		"- Muscles Worked\n"+
		"Generate content directly, do not reply with other useless information.", name)
}

var (
	extraNewlines = regexp.MustCompile(`\n{3,}`)
	anyHeading    = regexp.MustCompile(`(?m)^#{1,6}[ \t]*(.+)$`)
	bulletMarker  = regexp.MustCompile(`(?m)^[ \t]*[-•][ \t]*`)
	numberMarker  = regexp.MustCompile(`(?m)^[ \t]*(\d+)\.[ \t]*`)
)

// NormalizeDescription tidies generated markdown. Wrapping quotes are removed, blank-line runs
// shrink to one and every heading becomes H2. A "# Name" title is added when the text does not
// start with a heading, and list markers are made uniform.
func NormalizeDescription(text, exerciseName string) string {
	text = strings.Trim(strings.TrimSpace(text), "\"'`")
	text = extraNewlines.ReplaceAllString(text, "\n\n")
	text = anyHeading.ReplaceAllString(text, "## ${1}")
	if !strings.HasPrefix(text, "#") {
		text = "# " + TitleCase(exerciseName) + "\n\n" + text
	}
	text = bulletMarker.ReplaceAllString(text, "- ")
	text = numberMarker.ReplaceAllString(text, "${1}. ")
	return strings.TrimSpace(text)
}

// TitleCase upper-cases the first letter of every word, where a word starts after any non-letter.
func TitleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		prevLetter = false
		b.WriteRune(r)
	}
	return b.String()
}

// headingRules are checked in order; the first set with a substring match wins.
var headingRules = []struct {
	contentType domain.ContentType
	terms       []string
}{
	{domain.ContentWhatIs, []string{"what is", "definition", "about"}},
	{domain.ContentTutorial, []string{"tutorial", "how to", "steps", "technique", "form"}},
	{domain.ContentMistakes, []string{"mistakes", "errors", "avoid", "common"}},
	{domain.ContentTips, []string{"tips", "better", "improve", "advice"}},
	{domain.ContentMuscles, []string{"muscles", "worked", "target", "primary", "secondary"}},
}

var headingMarkup = regexp.MustCompile("[#*_`]")

// CleanHeading strips inline markup and lower-cases a heading.
func CleanHeading(heading string) string {
	return strings.ToLower(strings.TrimSpace(headingMarkup.ReplaceAllString(heading, "")))
}

// ClassifyHeading maps a cleaned heading to the section it most likely introduces.
func ClassifyHeading(clean string) domain.ContentType {
	for _, rule := range headingRules {
		for _, term := range rule.terms {
			if strings.Contains(clean, term) {
				return rule.contentType
			}
		}
	}
	return domain.ContentOther
}

const (
	headingScore  = 1.0
	baselineScore = 0.8
)

var h2Heading = regexp.MustCompile(`(?m)^##[ \t]*(.+)$`)

// ExtractKeywords derives keyword mappings from the H2 headings of description, then adds the
// baseline keywords. The returned list holds every keyword once, in insertion order.
func ExtractKeywords(description, exerciseName, bodyPartName string) ([]domain.ContentKeywordMapping, []string) {
	var (
		mappings []domain.ContentKeywordMapping
		keywords []string
		seen     = map[string]bool{}
	)
	add := func(keyword string, ct domain.ContentType, score float64) {
		if keyword == "" || seen[keyword] {
			return
		}
		seen[keyword] = true
		keywords = append(keywords, keyword)
		mappings = append(mappings, domain.ContentKeywordMapping{Keyword: keyword, ContentType: ct, RelevanceScore: score})
	}

	for _, m := range h2Heading.FindAllStringSubmatch(description, -1) {
		clean := CleanHeading(m[1])
		if len([]rune(clean)) <= 2 {
			continue
		}
		add(clean, ClassifyHeading(clean), headingScore)
	}

	add(strings.ToLower(strings.TrimSpace(exerciseName)), domain.ContentOther, baselineScore)
	add(strings.ToLower(strings.TrimSpace(bodyPartName)), domain.ContentMuscles, baselineScore)
	for _, k := range []string{"exercise", "workout", "fitness", "training"} {
		add(k, domain.ContentOther, baselineScore)
	}
	return mappings, keywords
}

var (
	parenthesised  = regexp.MustCompile(`\([^)]*\)`)
	leadingArticle = regexp.MustCompile(`(?i)^(the\s+|a\s+)`)
)

// CleanSearchName prepares an exercise name for a video search query.
func CleanSearchName(name string) string {
	name = parenthesised.ReplaceAllString(name, "")
	name = leadingArticle.ReplaceAllString(strings.TrimSpace(name), "")
	name = strings.ReplaceAll(name, "-", " ")
	return strings.Join(strings.Fields(name), " ")
}

// QueryVariants lists the searches tried for one exercise, most specific first.
func QueryVariants(exerciseName, bodyPartName string) []string {
	name := CleanSearchName(exerciseName)
	return []string{
		name + " tutorial",
		name + " exercise",
		name + " how to",
		strings.TrimSpace(name+" "+bodyPartName) + " exercise",
		name + " workout",
	}
}
