package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"sembako/internal/blob"
	"sembako/internal/core"
	"sembako/internal/export"
)

func newExportCommand(deps commandDeps) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:     "export",
		Short:   "Write the stored recipient list to the blob store",
		Example: "  sembako export\n  sembako export --format csv",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return usageErrorf("%v", err)
			}
			ctx := cmd.Context()
			rt, err := loadRuntime(deps)
			if err != nil {
				return mapCommandError(err)
			}
			defer func() { _ = rt.Close() }()

			store, err := core.OpenStore(ctx, rt.cfg.Storage)
			if err != nil {
				return &ExitError{Code: ExitCodeStorage, Err: err}
			}
			defer func() { _ = store.Close() }()
			blobs, err := blob.Open(ctx, rt.cfg.Blob)
			if err != nil {
				return mapCommandError(err)
			}

			info, err := export.NewExporter(store, blobs).Export(ctx, f)
			if err != nil {
				rt.logger.Error("export failed", "format", string(f), "error", err)
				return mapCommandError(err)
			}
			rt.logger.Info("export stored", "key", info.Key, "driver", string(blobs.Driver()), "size", info.Size)
			_, err = fmt.Fprintln(deps.io.Out, info.Key)
			return mapCommandError(err)
		},
	}
	cmd.Flags().StringVar(&format, "format", string(export.FormatJSON), "Export format: json|csv")
	return cmd
}

func newExportsCommand(deps commandDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exports",
		Short: "List stored recipient exports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			rt, err := loadRuntime(deps)
			if err != nil {
				return mapCommandError(err)
			}
			defer func() { _ = rt.Close() }()

			blobs, err := blob.Open(ctx, rt.cfg.Blob)
			if err != nil {
				return mapCommandError(err)
			}
			infos, err := export.NewExporter(nil, blobs).List(ctx)
			if err != nil {
				return mapCommandError(err)
			}
			for _, info := range infos {
				if _, err := fmt.Fprintf(deps.io.Out, "%s\t%d\t%s\n", info.Key, info.Size, info.LastModified.UTC().Format("2006-01-02T15:04:05Z")); err != nil {
					return mapCommandError(err)
				}
			}
			return nil
		},
	}
	cmd.AddCommand(newExportsShowCommand(deps))
	return cmd
}

func newExportsShowCommand(deps commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:     "show <key>",
		Short:   "Print the recipients stored in a JSON export",
		Example: "  sembako exports show exports/recipients-20240305T083000Z-<id>.json",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rt, err := loadRuntime(deps)
			if err != nil {
				return mapCommandError(err)
			}
			defer func() { _ = rt.Close() }()

			blobs, err := blob.Open(ctx, rt.cfg.Blob)
			if err != nil {
				return mapCommandError(err)
			}
			recipients, err := export.NewExporter(nil, blobs).Load(ctx, args[0])
			if errors.Is(err, export.ErrUnsupportedFormat) {
				return usageErrorf("%v", err)
			}
			if err != nil {
				return mapCommandError(err)
			}
			for _, r := range recipients {
				if _, err := fmt.Fprintf(deps.io.Out, "%d. %s\n", r.ID, r.Details()); err != nil {
					return mapCommandError(err)
				}
			}
			return nil
		},
	}
}
