// Package ports defines the interfaces through which the registry core talks
// to adapters and to its own pluggable stages (manifest parsing, validation,
// module resolution). Concrete implementations live under application/ and
// infrastructure/.
package ports
