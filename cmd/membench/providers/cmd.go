// Package providers implements the provider-facing CLI commands. The list
// command renders whatever the registry loaded plus the full diagnostic
// list; one malformed plugin never turns into a process failure, only a
// missing providers root does.
package providers

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/membench/membench/application/manifest"
	"github.com/membench/membench/domain/entities"
	"github.com/membench/membench/host"
	"github.com/membench/membench/host/registry"
	"github.com/membench/membench/infrastructure/modules"
	wazerores "github.com/membench/membench/infrastructure/wazero"
)

// New creates the providers command group.
func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "providers",
		Short: "Inspect memory provider plugins",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newListCmd())
	return cmd
}

func newListCmd() *cobra.Command {
	var (
		dir    string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Discover, validate, and list provider plugins",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			wasmResolver := wazerores.NewResolver(ctx)
			defer func() { _ = wasmResolver.Close(ctx) }()

			reg := registry.New(dir, registry.WithLoader(host.NewLoader(
				host.WithDefaultResolver(modules.NewResolver()),
				host.WithResolver(".wasm", wasmResolver),
			)))

			result, err := reg.Initialize(ctx)
			if err != nil {
				return err
			}

			if asJSON {
				return renderJSON(cmd, result)
			}
			return renderTable(cmd, result)
		},
	}
	cmd.Flags().StringVar(&dir, "dir", ".", "directory containing the providers/ root")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit JSON instead of a table")
	return cmd
}

func renderTable(cmd *cobra.Command, result *registry.Result) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tTYPE\tVERSION\tCORE OPS")
	for _, e := range result.Providers {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			e.Manifest.Provider.Name,
			e.Manifest.Provider.Type,
			e.Manifest.Provider.Version,
			coreOps(e.Manifest.Capabilities.CoreOperations),
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	errOut := cmd.ErrOrStderr()
	for _, warn := range result.Warnings {
		fmt.Fprintln(errOut, "warning:", warn.String())
	}
	for _, loadErr := range result.Errors {
		fmt.Fprintln(errOut, "error:", loadErr.Error())
	}
	return nil
}

type providerJSON struct {
	Name               string                      `json:"name"`
	Type               string                      `json:"type"`
	Version            string                      `json:"version"`
	Capabilities       entities.Capabilities       `json:"capabilities"`
	SemanticProperties entities.SemanticProperties `json:"semantic_properties"`
	ConformanceTests   *entities.ConformanceTests  `json:"conformance_tests,omitempty"`
	ManifestHash       string                      `json:"manifest_hash"`
}

func renderJSON(cmd *cobra.Command, result *registry.Result) error {
	out := struct {
		Providers []providerJSON `json:"providers"`
		Warnings  []string       `json:"warnings,omitempty"`
		Errors    []string       `json:"errors,omitempty"`
	}{Providers: []providerJSON{}}

	for _, e := range result.Providers {
		hash, err := manifest.Hash(e.Manifest)
		if err != nil {
			return fmt.Errorf("failed to hash manifest for %s: %w", e.Manifest.Provider.Name, err)
		}
		out.Providers = append(out.Providers, providerJSON{
			Name:               e.Manifest.Provider.Name,
			Type:               e.Manifest.Provider.Type,
			Version:            e.Manifest.Provider.Version,
			Capabilities:       e.Manifest.Capabilities,
			SemanticProperties: e.Manifest.SemanticProperties,
			ConformanceTests:   e.Manifest.ConformanceTests,
			ManifestHash:       hash,
		})
	}
	for _, warn := range result.Warnings {
		out.Warnings = append(out.Warnings, warn.String())
	}
	for _, loadErr := range result.Errors {
		out.Errors = append(out.Errors, loadErr.Error())
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func coreOps(ops entities.CoreOperations) string {
	var names []string
	if ops.AddMemory {
		names = append(names, "add")
	}
	if ops.RetrieveMemory {
		names = append(names, "retrieve")
	}
	if ops.DeleteMemory {
		names = append(names, "delete")
	}
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ",")
}
