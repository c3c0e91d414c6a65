package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ssargent/osrkit/pkg/replay"
)

func newCSVCmd() *cobra.Command {
	csvCmd := &cobra.Command{
		Use:   "csv <file>",
		Short: "Print replay frames as CSV",
		Long: `Decode a replay and print its cursor frames as CSV with the columns
time, mouse_x, mouse_y and button_state.

Example:
  osrtool csv replay.osr --no-header`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := sessionFrom(cmd)
			if err != nil {
				return err
			}

			rp, err := rt.codec.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("could not parse osr: %w", err)
			}

			noHeader, _ := cmd.Flags().GetBool("no-header")
			return replay.WriteFramesCSV(cmd.OutOrStdout(), rp.Frames, !noHeader)
		},
	}

	csvCmd.Flags().Bool("no-header", false, "Omit the header row")
	return csvCmd
}
