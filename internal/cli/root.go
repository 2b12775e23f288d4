// Package cli wires configuration, logging, storage and metrics into the
// sembako command tree.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// BuildInfo is the version metadata stamped into the binary at link time.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
}

// IO bundles the streams commands read from and write to.
type IO struct {
	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer
}

type globalFlags struct {
	ConfigFile    string
	StorageDriver string
	LogLevel      string
}

type commandDeps struct {
	io      IO
	build   BuildInfo
	globals *globalFlags
}

// NewRootCommand builds the sembako command. Without a subcommand it starts
// the interactive menu.
func NewRootCommand(streams IO, build BuildInfo) *cobra.Command {
	deps := commandDeps{io: streams, build: build, globals: &globalFlags{}}

	cmd := &cobra.Command{
		Use:           "sembako",
		Short:         "Manage sembako aid recipients",
		Long:          "Interactive record manager for sembako (staple food aid) recipients.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := runShell(cmd.Context(), deps)
			if errors.Is(err, context.Canceled) {
				// Interrupted by a signal; leave like option 5.
				return nil
			}
			return mapCommandError(err)
		},
	}
	cmd.SetIn(streams.In)
	cmd.SetOut(streams.Out)
	cmd.SetErr(streams.ErrOut)

	flags := cmd.PersistentFlags()
	flags.StringVar(&deps.globals.ConfigFile, "config", "", "Path to a YAML config file")
	flags.StringVar(&deps.globals.StorageDriver, "storage-driver", "", "Storage driver: mysql|postgres|sqlite|memory")
	flags.StringVar(&deps.globals.LogLevel, "log-level", "", "Log level: debug|info|warn|error")

	cmd.AddCommand(newExportCommand(deps))
	cmd.AddCommand(newExportsCommand(deps))
	cmd.AddCommand(newVersionCommand(deps))
	return cmd
}

func newVersionCommand(deps commandDeps) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "version",
		Short:   "Print build version information",
		Example: "  sembako version\n  sembako version --json",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if asJSON {
				enc := json.NewEncoder(deps.io.Out)
				enc.SetIndent("", "  ")
				return mapCommandError(enc.Encode(deps.build))
			}
			_, err := fmt.Fprintf(deps.io.Out, "version=%s commit=%s build_time=%s\n", deps.build.Version, deps.build.Commit, deps.build.BuildTime)
			return mapCommandError(err)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print version as JSON")
	return cmd
}
