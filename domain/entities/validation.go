package entities

import "fmt"

// FieldError represents a single violated constraint during manifest
// validation. Multiple simultaneous violations surface as independent
// FieldErrors, never short-circuited.
type FieldError struct {
	Field    string `json:"field"`
	Rule     string `json:"rule"`
	Expected string `json:"expected,omitempty"`
	Received string `json:"received,omitempty"`
}

func (e FieldError) String() string {
	s := fmt.Sprintf("%s: %s", e.Field, e.Rule)
	if e.Expected != "" {
		s += fmt.Sprintf(" (expected %s", e.Expected)
		if e.Received != "" {
			s += fmt.Sprintf(", got %s", e.Received)
		}
		s += ")"
	}
	return s
}

// ValidationResult is the outcome of running a manifest through the
// validation pipeline.
type ValidationResult struct {
	Valid  bool
	Errors []FieldError
}
