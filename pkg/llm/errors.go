package llm

import "fmt"

// InferenceError reports a failed call to a live feedback backend: a
// non-success HTTP status, a malformed or empty response body, or a
// transport failure. The message keeps a stable "<backend> inference
// failed" prefix so callers can identify the failing stage while the
// underlying detail is preserved.
type InferenceError struct {
	Backend    string // backend name, e.g. "ollama"
	StatusCode int    // HTTP status when the backend answered, 0 otherwise
	Message    string
	Err        error // underlying transport/decode error, may be nil
}

func (e *InferenceError) Error() string {
	msg := e.Message
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("status %d: %s", e.StatusCode, msg)
	}
	if e.Err != nil {
		if msg == "" {
			msg = e.Err.Error()
		} else {
			msg = fmt.Sprintf("%s: %v", msg, e.Err)
		}
	}
	return fmt.Sprintf("%s inference failed: %s", e.Backend, msg)
}

func (e *InferenceError) Unwrap() error {
	return e.Err
}
