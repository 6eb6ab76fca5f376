package types

// FeedbackRequest is the inbound request body: a single prompt to analyze.
// The prompt must be non-empty after trimming; the orchestrator enforces this.
type FeedbackRequest struct {
	Prompt string `json:"prompt"`
}

// FeedbackResponse carries the raw feedback text returned to the caller.
// Degraded is set when the placeholder path produced the text instead of
// a real provider call (only possible when explicitly enabled in config).
type FeedbackResponse struct {
	Feedback string `json:"feedback"`
	Degraded bool   `json:"degraded,omitempty"`
}

// StructuredFeedback is the normalized record parsed from raw feedback text.
// Score is always within [0,100]. The three sequences preserve the order of
// appearance in the source text and never contain empty strings. Confidence
// is 0.8 when the structured format was recognized and 0.5 when the keyword
// fallback produced the record.
type StructuredFeedback struct {
	Score        int      `json:"score"`
	Strengths    []string `json:"strengths"`
	Weaknesses   []string `json:"weaknesses"`
	Improvements []string `json:"improvements"`
	Summary      string   `json:"summary,omitempty"`
	Confidence   float64  `json:"confidence"`
}

// StructuredFeedbackResponse pairs the parsed record with the raw provider
// text so callers can diagnose parsing behavior.
type StructuredFeedbackResponse struct {
	Feedback   string             `json:"feedback"`
	Structured StructuredFeedback `json:"structured"`
	Degraded   bool               `json:"degraded,omitempty"`
}
