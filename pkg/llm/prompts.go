package llm

import (
	"os"
	"strings"
)

// DefaultStructuredPromptTemplate instructs the model to answer in the
// layout the feedback parser understands.
// Variables available: {PROMPT}
const DefaultStructuredPromptTemplate = `You are an experienced code reviewer. Analyze the submission below and reply in EXACTLY this format, nothing else:

SCORE: <integer 0-100>
STRENGTHS:
- <strength>
- <strength>
WEAKNESSES:
- <weakness>
- <weakness>
IMPROVEMENTS:
- <concrete suggestion>
- <concrete suggestion>
SUMMARY: <one sentence overall assessment>

Rules:
1. SCORE is a single integer, no fractions, no "/100"
2. Every list item starts with "- " on its own line
3. Keep items short and specific to the submission
4. Do not add sections beyond the five above

Submission:
{PROMPT}`

// GetStructuredPromptTemplate returns the prompt template from env var or default
func GetStructuredPromptTemplate() string {
	if customPrompt := os.Getenv("STRUCTURED_PROMPT_TEMPLATE"); customPrompt != "" {
		return customPrompt
	}
	return DefaultStructuredPromptTemplate
}

// BuildStructuredPrompt wraps the user prompt in the structured-format
// instruction template shared across all providers
func BuildStructuredPrompt(prompt string) string {
	return strings.ReplaceAll(GetStructuredPromptTemplate(), "{PROMPT}", prompt)
}
