// Package errors provides the registry's error taxonomy. All types support
// unwrapping via errors.As() and errors.Is(); load errors and warnings carry
// machine-readable codes so callers can render diagnostics without parsing
// messages.
package errors

import (
	stdErrors "errors"
	"fmt"
	"strings"

	"github.com/membench/membench/domain/entities"
)

// Code identifies a class of load-time failure or warning.
type Code string

const (
	CodeInvalidManifest       Code = "INVALID_MANIFEST"
	CodeMissingManifest       Code = "MISSING_MANIFEST"
	CodeMissingAdapter        Code = "MISSING_ADAPTER"
	CodeImportFailed          Code = "IMPORT_FAILED"
	CodeInvalidInterface      Code = "INVALID_INTERFACE"
	CodeNameMismatch          Code = "NAME_MISMATCH"
	CodeMissingDeclaredMethod Code = "MISSING_DECLARED_METHOD"
	CodeCapabilityMismatch    Code = "CAPABILITY_MISMATCH"
	CodeDuplicateName         Code = "DUPLICATE_NAME"
)

// Validation rule names used in FieldError.Rule for pipeline-level failures.
const (
	RuleUnsupportedVersion = "unsupported_version"
	RuleInvalidJSON        = "invalid_json"
)

// ErrProvidersRootMissing is the only hard initialization failure: the
// providers root directory does not exist at all.
var ErrProvidersRootMissing = stdErrors.New("providers root directory not found")

// ManifestValidationError aggregates every constraint a manifest violated.
type ManifestValidationError struct {
	Path   string
	Errors []entities.FieldError
}

func (e *ManifestValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.String())
	}
	return fmt.Sprintf("manifest %s invalid: %s", e.Path, strings.Join(parts, "; "))
}

// NewUnsupportedVersionError builds the dedicated field error for a
// manifest_version outside the supported set. The message enumerates every
// supported version so the author knows what to migrate to.
func NewUnsupportedVersionError(path, received string) *ManifestValidationError {
	return &ManifestValidationError{
		Path: path,
		Errors: []entities.FieldError{{
			Field:    "manifest_version",
			Rule:     RuleUnsupportedVersion,
			Expected: "one of [" + strings.Join(entities.SupportedManifestVersions, ", ") + "]",
			Received: received,
		}},
	}
}

// LoadError is fatal for a single candidate only: the candidate is skipped
// and initialization of the remaining candidates continues.
type LoadError struct {
	Provider string
	Code     Code
	Message  string
	Cause    error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("provider %s: %s: %s: %v", e.Provider, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("provider %s: %s: %s", e.Provider, e.Code, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// LoadWarning is a non-fatal diagnostic: the candidate is skipped (or
// registered with a caveat) and the process continues.
type LoadWarning struct {
	Provider string
	Code     Code
	Message  string
}

func (w LoadWarning) String() string {
	return fmt.Sprintf("provider %s: %s: %s", w.Provider, w.Code, w.Message)
}

// UnsupportedOperationError is raised at call time when a caller invokes an
// operation the adapter never declared, e.g. delete_memory on a
// legacy-wrapped adapter. It is the only error in this package that crosses
// the registry boundary at runtime rather than during loading.
type UnsupportedOperationError struct {
	Provider  string
	Operation string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("provider %q does not support operation %q", e.Provider, e.Operation)
}
