package feedback

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/critiqlabs/critiq/pkg/types"
)

const (
	// DefaultScore is used when no SCORE line carries a numeric value.
	DefaultScore = 75

	// StructuredConfidence is assigned when at least one bulleted item was
	// captured under a section header.
	StructuredConfidence = 0.8

	// FallbackConfidence is assigned when the keyword heuristic produced
	// the record.
	FallbackConfidence = 0.5

	// fallbackSummaryLimit caps the summary taken from unstructured text.
	fallbackSummaryLimit = 200
)

// Keyword lists for the fallback heuristic. Counted as plain substrings,
// so "stronger" counts toward "strong" and "unclear" counts toward both
// "clear" and "unclear".
var (
	positiveKeywords = []string{"good", "great", "excellent", "well", "strong", "clear"}
	negativeKeywords = []string{"poor", "weak", "unclear", "missing", "needs", "should"}
)

// Fixed sequences emitted by the fallback heuristic.
var (
	fallbackStrengths    = []string{"Analysis provided in feedback text"}
	fallbackWeaknesses   = []string{"Detailed analysis not available in structured format"}
	fallbackImprovements = []string{"Consider requesting structured feedback format"}
)

var digitRun = regexp.MustCompile(`\d+`)

type section int

const (
	sectionNone section = iota
	sectionStrengths
	sectionWeaknesses
	sectionImprovements
)

// ParseStructuredFeedback converts free-form feedback text into a normalized
// record. It tolerates two input shapes: the SCORE/STRENGTHS/WEAKNESSES/
// IMPROVEMENTS/SUMMARY layout with "- " bullets, and arbitrary prose, which
// falls back to a keyword-counting heuristic. It never fails; every input,
// including the empty string, yields a usable record.
func ParseStructuredFeedback(text string) types.StructuredFeedback {
	fb := types.StructuredFeedback{Score: DefaultScore}
	current := sectionNone

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(line, "SCORE:"):
			// Only the first digit run counts, so "SCORE: 75/100" reads 75.
			// A SCORE line with no digits leaves the previous value alone.
			if m := digitRun.FindString(line[len("SCORE:"):]); m != "" {
				if n, err := strconv.Atoi(m); err == nil {
					fb.Score = clamp(n, 0, 100)
				} else {
					// Digit run too large for int; it can only be over 100.
					fb.Score = 100
				}
			}

		case strings.HasPrefix(line, "STRENGTHS:"):
			current = sectionStrengths

		case strings.HasPrefix(line, "WEAKNESSES:"):
			current = sectionWeaknesses

		case strings.HasPrefix(line, "IMPROVEMENTS:"):
			current = sectionImprovements

		case strings.HasPrefix(line, "SUMMARY:"):
			fb.Summary = strings.TrimSpace(line[len("SUMMARY:"):])
			current = sectionNone

		case strings.HasPrefix(line, "- ") && current != sectionNone:
			item := strings.TrimSpace(line[2:])
			if item == "" {
				continue
			}
			switch current {
			case sectionStrengths:
				fb.Strengths = append(fb.Strengths, item)
			case sectionWeaknesses:
				fb.Weaknesses = append(fb.Weaknesses, item)
			case sectionImprovements:
				fb.Improvements = append(fb.Improvements, item)
			}
		}
	}

	if len(fb.Strengths) == 0 && len(fb.Weaknesses) == 0 && len(fb.Improvements) == 0 {
		return fallbackFeedback(text)
	}

	fb.Confidence = StructuredConfidence
	return fb
}

// fallbackFeedback scores unstructured text by counting positive and negative
// keywords and returns the fixed fallback record around that score.
func fallbackFeedback(text string) types.StructuredFeedback {
	lowered := strings.ToLower(text)

	positive, negative := 0, 0
	for _, word := range positiveKeywords {
		positive += strings.Count(lowered, word)
	}
	for _, word := range negativeKeywords {
		negative += strings.Count(lowered, word)
	}

	summary := text
	if runes := []rune(summary); len(runes) > fallbackSummaryLimit {
		summary = string(runes[:fallbackSummaryLimit]) + "..."
	}

	return types.StructuredFeedback{
		Score:        clamp(60+(positive-negative)*10, 30, 90),
		Strengths:    append([]string(nil), fallbackStrengths...),
		Weaknesses:   append([]string(nil), fallbackWeaknesses...),
		Improvements: append([]string(nil), fallbackImprovements...),
		Summary:      summary,
		Confidence:   FallbackConfidence,
	}
}

// FormatStructuredFeedback renders a record in the canonical layout the
// parser recognizes. Parsing the rendering of a well-formed record yields
// the same record back.
func FormatStructuredFeedback(fb types.StructuredFeedback) string {
	var b strings.Builder

	b.WriteString("SCORE: ")
	b.WriteString(strconv.Itoa(fb.Score))
	b.WriteString("\nSTRENGTHS:\n")
	writeBullets(&b, fb.Strengths)
	b.WriteString("WEAKNESSES:\n")
	writeBullets(&b, fb.Weaknesses)
	b.WriteString("IMPROVEMENTS:\n")
	writeBullets(&b, fb.Improvements)
	if fb.Summary != "" {
		b.WriteString("SUMMARY: ")
		b.WriteString(fb.Summary)
		b.WriteString("\n")
	}

	return b.String()
}

func writeBullets(b *strings.Builder, items []string) {
	for _, item := range items {
		b.WriteString("- ")
		b.WriteString(item)
		b.WriteString("\n")
	}
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
