// Package validation implements the multi-stage manifest validation
// pipeline: version gate, structural JSON-Schema stage, then semantic
// struct-tag stage. Each stage accumulates field-level errors instead of
// short-circuiting on the first violation.
package validation

import (
	"encoding/json"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/membench/membench/application/manifest"
	"github.com/membench/membench/domain/entities"
	domerrors "github.com/membench/membench/domain/errors"
	"github.com/membench/membench/domain/ports"
)

// ManifestValidator validates raw manifest documents. It is pure over its
// input: no filesystem or network access, safe for concurrent use once
// constructed.
type ManifestValidator struct {
	parser   ports.ManifestParser
	validate *validator.Validate

	compileOnce sync.Once
	schemas     map[string]*jsonschema.Schema
	compileErr  error
}

// Option configures the ManifestValidator.
type Option func(*ManifestValidator)

// WithParser sets a custom manifest parser.
func WithParser(p ports.ManifestParser) Option {
	return func(v *ManifestValidator) {
		v.parser = p
	}
}

// NewManifestValidator creates a validator with the default JSON parser.
func NewManifestValidator(opts ...Option) *ManifestValidator {
	v := &ManifestValidator{
		parser:   manifest.NewParser(),
		validate: newSemanticValidator(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

var _ ports.ManifestValidator = (*ManifestValidator)(nil)

// newSemanticValidator builds the go-playground validator used by the
// semantic stage, reporting fields by their JSON names.
func newSemanticValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Validate runs the full pipeline over raw manifest bytes. path is only used
// for error reporting. On failure the error is a
// *errors.ManifestValidationError with one FieldError per violated
// constraint.
func (v *ManifestValidator) Validate(raw []byte, path string) (*entities.ProviderManifest, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &domerrors.ManifestValidationError{
			Path: path,
			Errors: []entities.FieldError{{
				Field:    "$",
				Rule:     domerrors.RuleInvalidJSON,
				Expected: "valid JSON document",
				Received: err.Error(),
			}},
		}
	}

	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, &domerrors.ManifestValidationError{
			Path: path,
			Errors: []entities.FieldError{{
				Field:    "$",
				Rule:     "type",
				Expected: "object",
				Received: fmt.Sprintf("%T", doc),
			}},
		}
	}

	// The version gate runs before full schema validation so an unsupported
	// version produces a dedicated error naming the supported set, instead of
	// a generic schema mismatch.
	version, _ := obj["manifest_version"].(string)
	if !slices.Contains(entities.SupportedManifestVersions, version) {
		return nil, domerrors.NewUnsupportedVersionError(path, version)
	}

	var fieldErrs []entities.FieldError

	sch, err := v.schemaFor(version)
	if err != nil {
		return nil, fmt.Errorf("manifest schema for version %s: %w", version, err)
	}
	if err := sch.Validate(doc); err != nil {
		fieldErrs = append(fieldErrs, schemaFieldErrors(err)...)
	}

	m, err := v.parser.Parse(raw)
	if err != nil {
		fieldErrs = append(fieldErrs, entities.FieldError{
			Field:    "$",
			Rule:     domerrors.RuleInvalidJSON,
			Expected: "decodable manifest document",
			Received: err.Error(),
		})
		return nil, &domerrors.ManifestValidationError{Path: path, Errors: fieldErrs}
	}

	if err := v.validate.Struct(m); err != nil {
		fieldErrs = append(fieldErrs, semanticFieldErrors(err)...)
	}

	if len(fieldErrs) > 0 {
		return nil, &domerrors.ManifestValidationError{Path: path, Errors: fieldErrs}
	}
	return m, nil
}

func (v *ManifestValidator) schemaFor(version string) (*jsonschema.Schema, error) {
	v.compileOnce.Do(func() {
		v.schemas, v.compileErr = compileSchemas()
	})
	if v.compileErr != nil {
		return nil, v.compileErr
	}
	sch, ok := v.schemas[version]
	if !ok {
		return nil, fmt.Errorf("no schema compiled for version %s", version)
	}
	return sch, nil
}

// schemaFieldErrors flattens a jsonschema validation error into one
// FieldError per leaf cause.
func schemaFieldErrors(err error) []entities.FieldError {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []entities.FieldError{{Field: "$", Rule: "schema", Received: err.Error()}}
	}

	var out []entities.FieldError
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			out = append(out, entities.FieldError{
				Field:    pointerToPath(e.InstanceLocation),
				Rule:     keywordRule(e.KeywordLocation),
				Expected: e.Message,
			})
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(ve)
	return out
}

// semanticFieldErrors maps go-playground violations to FieldErrors using
// JSON field names.
func semanticFieldErrors(err error) []entities.FieldError {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []entities.FieldError{{Field: "$", Rule: "struct", Received: err.Error()}}
	}
	out := make([]entities.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		// Namespace is "ProviderManifest.provider.name"; drop the root type.
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		out = append(out, entities.FieldError{
			Field:    field,
			Rule:     fe.Tag(),
			Expected: fe.Param(),
			Received: fmt.Sprintf("%v", fe.Value()),
		})
	}
	return out
}

// pointerToPath turns a JSON pointer like "/provider/name" into the dotted
// field path "provider.name". The document root is "$".
func pointerToPath(ptr string) string {
	if ptr == "" || ptr == "/" {
		return "$"
	}
	return strings.ReplaceAll(strings.TrimPrefix(ptr, "/"), "/", ".")
}

func keywordRule(keywordLocation string) string {
	parts := strings.Split(keywordLocation, "/")
	if len(parts) == 0 {
		return "schema"
	}
	return parts[len(parts)-1]
}
