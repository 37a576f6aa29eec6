package annotations

import "fmt"

// SyntaxError represents an inject tag value that does not parse
type SyntaxError struct {
	Tag    string // Raw tag value
	Column int    // Column within the tag value (1-based), 0 when unknown
	Msg    string // Error message
	Hint   string // Suggested fix
}

func (e *SyntaxError) Error() string {
	msg := fmt.Sprintf("invalid inject tag %q", e.Tag)
	if e.Column > 0 {
		msg = fmt.Sprintf("%s at column %d", msg, e.Column)
	}
	msg = fmt.Sprintf("%s: %s", msg, e.Msg)
	if e.Hint != "" {
		msg = fmt.Sprintf("%s. %s", msg, e.Hint)
	}
	return msg
}

// Suggestion returns the suggested fix
func (e *SyntaxError) Suggestion() string { return e.Hint }
