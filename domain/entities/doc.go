// Package entities contains the core domain types of the provider registry:
// the provider manifest and its capability vocabulary, the memory record
// types exchanged with adapters, and the structured validation results
// produced by the manifest validator.
package entities
