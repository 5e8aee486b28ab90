package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/membench/membench/domain/entities"
	domerrors "github.com/membench/membench/domain/errors"
	"github.com/membench/membench/internal/testutil"
)

func validationError(t *testing.T, err error) *domerrors.ManifestValidationError {
	t.Helper()
	require.Error(t, err)
	var mve *domerrors.ManifestValidationError
	require.True(t, errors.As(err, &mve), "expected ManifestValidationError, got %T: %v", err, err)
	return mve
}

func hasFieldError(errs []entities.FieldError, field string) bool {
	for _, fe := range errs {
		if fe.Field == field {
			return true
		}
	}
	return false
}

func TestValidManifestPasses(t *testing.T) {
	v := NewManifestValidator()
	doc := testutil.ValidManifest("acme").Bytes(t)

	m, err := v.Validate(doc, "providers/acme/manifest.json")
	require.NoError(t, err)
	assert.Equal(t, "acme", m.Provider.Name)
	assert.Equal(t, "1", m.ManifestVersion)
}

func TestUnsupportedVersionListsSupportedSet(t *testing.T) {
	v := NewManifestValidator()
	doc := testutil.ValidManifest("acme")
	doc["manifest_version"] = "99"

	_, err := v.Validate(doc.Bytes(t), "manifest.json")
	mve := validationError(t, err)

	require.Len(t, mve.Errors, 1)
	fe := mve.Errors[0]
	assert.Equal(t, "manifest_version", fe.Field)
	assert.Equal(t, domerrors.RuleUnsupportedVersion, fe.Rule)
	assert.Equal(t, "99", fe.Received)
	for _, supported := range entities.SupportedManifestVersions {
		assert.Contains(t, fe.Expected, supported)
	}
	// The rendered message also enumerates the supported versions.
	for _, supported := range entities.SupportedManifestVersions {
		assert.Contains(t, mve.Error(), supported)
	}
}

func TestMissingVersionIsUnsupported(t *testing.T) {
	v := NewManifestValidator()
	doc := testutil.ValidManifest("acme")
	delete(doc, "manifest_version")

	_, err := v.Validate(doc.Bytes(t), "manifest.json")
	mve := validationError(t, err)
	require.Len(t, mve.Errors, 1)
	assert.Equal(t, "manifest_version", mve.Errors[0].Field)
	assert.Equal(t, domerrors.RuleUnsupportedVersion, mve.Errors[0].Rule)
}

func TestMissingRequiredFieldSurfacesFieldPath(t *testing.T) {
	v := NewManifestValidator()
	doc := testutil.ValidManifest("acme")
	provider := doc["provider"].(map[string]any)
	delete(provider, "name")

	_, err := v.Validate(doc.Bytes(t), "manifest.json")
	mve := validationError(t, err)
	assert.True(t,
		hasFieldError(mve.Errors, "provider.name") || hasFieldError(mve.Errors, "provider"),
		"expected a field error under provider.name, got %v", mve.Errors)
}

func TestInvalidEnumValue(t *testing.T) {
	v := NewManifestValidator()
	doc := testutil.ValidManifest("acme")
	doc["semantic_properties"].(map[string]any)["update_strategy"] = "whenever"

	_, err := v.Validate(doc.Bytes(t), "manifest.json")
	mve := validationError(t, err)
	assert.True(t, hasFieldError(mve.Errors, "semantic_properties.update_strategy"),
		"expected field error for semantic_properties.update_strategy, got %v", mve.Errors)
}

func TestNegativeConvergenceWaitRejected(t *testing.T) {
	v := NewManifestValidator()
	doc := testutil.ValidManifest("acme")
	doc["conformance_tests"] = map[string]any{
		"expected_behavior": map[string]any{"convergence_wait_ms": -5},
	}

	_, err := v.Validate(doc.Bytes(t), "manifest.json")
	mve := validationError(t, err)
	assert.True(t,
		hasFieldError(mve.Errors, "conformance_tests.expected_behavior.convergence_wait_ms"),
		"expected field error for convergence_wait_ms, got %v", mve.Errors)
}

func TestMultipleViolationsSurfaceIndependently(t *testing.T) {
	v := NewManifestValidator()
	doc := testutil.ValidManifest("acme")
	provider := doc["provider"].(map[string]any)
	provider["type"] = "quantum"
	delete(provider, "version")
	doc["semantic_properties"].(map[string]any)["delete_strategy"] = "never"

	_, err := v.Validate(doc.Bytes(t), "manifest.json")
	mve := validationError(t, err)

	assert.True(t, hasFieldError(mve.Errors, "provider.type"),
		"missing provider.type violation: %v", mve.Errors)
	assert.True(t, hasFieldError(mve.Errors, "semantic_properties.delete_strategy"),
		"missing delete_strategy violation: %v", mve.Errors)
	assert.True(t,
		hasFieldError(mve.Errors, "provider.version") || hasFieldError(mve.Errors, "provider"),
		"missing provider.version violation: %v", mve.Errors)
	assert.GreaterOrEqual(t, len(mve.Errors), 3)
}

func TestUnknownFieldsAccepted(t *testing.T) {
	v := NewManifestValidator()
	doc := testutil.ValidManifest("acme")
	doc["x_vendor_extension"] = map[string]any{"anything": true}
	doc["capabilities"].(map[string]any)["future_block"] = []any{"a", "b"}

	m, err := v.Validate(doc.Bytes(t), "manifest.json")
	require.NoError(t, err)
	assert.Contains(t, m.Extra, "x_vendor_extension")
	assert.Contains(t, m.Capabilities.Extra, "future_block")
}

func TestMalformedJSON(t *testing.T) {
	v := NewManifestValidator()
	_, err := v.Validate([]byte(`{"manifest_version": `), "broken.json")
	mve := validationError(t, err)
	require.Len(t, mve.Errors, 1)
	assert.Equal(t, "$", mve.Errors[0].Field)
	assert.Equal(t, domerrors.RuleInvalidJSON, mve.Errors[0].Rule)
}

func TestNonObjectDocument(t *testing.T) {
	v := NewManifestValidator()
	_, err := v.Validate([]byte(`["not", "a", "manifest"]`), "weird.json")
	mve := validationError(t, err)
	require.Len(t, mve.Errors, 1)
	assert.Equal(t, "$", mve.Errors[0].Field)
	assert.Equal(t, "type", mve.Errors[0].Rule)
}

func TestWrongTypeForCoreOperation(t *testing.T) {
	v := NewManifestValidator()
	doc := testutil.ValidManifest("acme")
	core := doc["capabilities"].(map[string]any)["core_operations"].(map[string]any)
	core["add_memory"] = "yes"

	_, err := v.Validate(doc.Bytes(t), "manifest.json")
	mve := validationError(t, err)
	assert.True(t,
		hasFieldError(mve.Errors, "capabilities.core_operations.add_memory"),
		"expected type violation for add_memory, got %v", mve.Errors)
}
