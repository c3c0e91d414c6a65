package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/ssargent/osrkit/pkg/archive"
	"github.com/ssargent/osrkit/pkg/compress"
	"github.com/ssargent/osrkit/pkg/osr"
)

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file...>",
		Short: "Import replays into the archive",
		Long: `Decode replays and store them in the archive under the configured data
directory. Replays whose score hash is already archived are skipped.

Example:
  osrtool import ~/osu/Replays/*.osr`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := sessionFrom(cmd)
			if err != nil {
				return err
			}

			a, err := rt.openArchive()
			if err != nil {
				return err
			}
			defer a.Close()

			var failed int
			for _, path := range args {
				raw, err := os.ReadFile(filepath.Clean(path))
				if err != nil {
					rt.logger.Error().Err(err).Str("file", path).Msg("failed to read replay")
					failed++
					continue
				}

				entry, err := a.Put(raw)
				switch {
				case errors.Is(err, archive.ErrDuplicate):
					cmd.Printf("skipped %s: already archived as %s\n", path, entry.ID)
				case err != nil:
					rt.logger.Error().Err(err).Str("file", path).Msg("failed to import replay")
					failed++
				default:
					cmd.Printf("imported %s as %s\n", path, entry.ID)
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d replays failed to import", failed, len(args))
			}
			return nil
		},
	}
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List archived replays",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := sessionFrom(cmd)
			if err != nil {
				return err
			}

			a, err := rt.openArchive()
			if err != nil {
				return err
			}
			defer a.Close()

			entries, err := a.List()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tPLAYER\tMODE\tSCORE\tCOMBO\tMODS\tFRAMES\tSTORED")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\t%d\t%s\n",
					e.ID, e.Player, e.Mode, e.TotalScore, e.MaxCombo, e.Mods, e.Frames,
					e.StoredAt.Format(time.RFC3339))
			}
			return w.Flush()
		},
	}
}

func newExportCmd() *cobra.Command {
	exportCmd := &cobra.Command{
		Use:   "export <id> <out>",
		Short: "Write an archived replay to a file",
		Long: `Write an archived replay to a file. The stored bytes are copied verbatim
unless the export engine differs from the codec engine, in which case the
replay is re-encoded.

Example:
  osrtool export 0ujsswThIGTUYm2K8FjOOfXtY1K out.osr`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := sessionFrom(cmd)
			if err != nil {
				return err
			}

			engineName, _ := cmd.Flags().GetString("engine")
			if engineName == "" {
				engineName = rt.cfg.Archive.ExportEngine
			}
			engine, err := compress.Lookup(engineName)
			if err != nil {
				return err
			}

			a, err := rt.openArchive()
			if err != nil {
				return err
			}
			defer a.Close()

			if engine.Name() == rt.codec.Engine() {
				raw, err := a.Raw(args[0])
				if err != nil {
					return err
				}
				if err := os.WriteFile(args[1], raw, 0600); err != nil {
					return fmt.Errorf("failed to write replay: %w", err)
				}
			} else {
				rp, err := a.Get(args[0])
				if err != nil {
					return err
				}
				out := osr.NewCodec(osr.WithEngine(engine), osr.WithLogger(rt.logger))
				if err := out.WriteFile(args[1], rp); err != nil {
					return err
				}
			}

			cmd.Printf("exported %s to %s (%s)\n", args[0], args[1], engine.Name())
			return nil
		},
	}

	exportCmd.Flags().String("engine", "", "Frame compression engine (default archive.export_engine)")
	return exportCmd
}
