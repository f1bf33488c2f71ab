package importer

import "fmt"

// FeedbackKind classifies the single status message shown after an import.
type FeedbackKind string

const (
	FeedbackNone    FeedbackKind = "none"
	FeedbackSuccess FeedbackKind = "success"
	FeedbackError   FeedbackKind = "error"
)

// Feedback is the one-line message the page renders for the last import.
type Feedback struct {
	Message string       `json:"message"`
	Kind    FeedbackKind `json:"kind"`
	Code    string       `json:"code,omitempty"`
	Action  string       `json:"action,omitempty"`
}

// NoFeedback is the cleared state.
func NoFeedback() Feedback {
	return Feedback{Kind: FeedbackNone}
}

// SuccessFeedback reports n imported records.
func SuccessFeedback(n int) Feedback {
	return Feedback{
		Message: fmt.Sprintf("Sucesso: %d registos importados.", n),
		Kind:    FeedbackSuccess,
	}
}

// ErrorFeedback converts err through the error catalogue.
func ErrorFeedback(err error) Feedback {
	msg := MapError(err)
	return Feedback{
		Message: msg.Message,
		Kind:    FeedbackError,
		Code:    msg.Code,
		Action:  msg.Action,
	}
}

// IsNone reports whether nothing should be shown.
func (f Feedback) IsNone() bool {
	return f.Kind == FeedbackNone || f.Kind == ""
}
