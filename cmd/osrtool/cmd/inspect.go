package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/ssargent/osrkit/pkg/api"
	"github.com/ssargent/osrkit/pkg/replay"
)

// inspectField prints one replay field when its flag is set.
type inspectField struct {
	flag  string
	usage string
	print func(w io.Writer, rp *replay.Replay)
}

var inspectFields = []inspectField{
	{"mods", "Show mods used", func(w io.Writer, rp *replay.Replay) {
		fmt.Fprintf(w, "mods: 0x%X (%s)\n", uint32(rp.Mods), rp.Mods)
	}},
	{"username", "Show username", func(w io.Writer, rp *replay.Replay) {
		fmt.Fprintf(w, "username: %s\n", rp.Username.String)
	}},
	{"hash", "Show replay hash", func(w io.Writer, rp *replay.Replay) {
		fmt.Fprintf(w, "hash: %s\n", rp.ScoreHash)
	}},
	{"beatmap-hash", "Show beatmap hash", func(w io.Writer, rp *replay.Replay) {
		fmt.Fprintf(w, "beatmap hash: %s\n", rp.BeatmapHash)
	}},
	{"count-300", "Show 300 count", func(w io.Writer, rp *replay.Replay) {
		fmt.Fprintf(w, "300s: %d\n", rp.Count300)
	}},
	{"count-100", "Show 100 count", func(w io.Writer, rp *replay.Replay) {
		fmt.Fprintf(w, "100s: %d\n", rp.Count100)
	}},
	{"count-50", "Show 50 count", func(w io.Writer, rp *replay.Replay) {
		fmt.Fprintf(w, "50s: %d\n", rp.Count50)
	}},
	{"count-miss", "Show miss count", func(w io.Writer, rp *replay.Replay) {
		fmt.Fprintf(w, "misses: %d\n", rp.CountMiss)
	}},
	{"score", "Show score", func(w io.Writer, rp *replay.Replay) {
		fmt.Fprintf(w, "score: %d\n", rp.TotalScore)
	}},
	{"max-combo", "Show max combo", func(w io.Writer, rp *replay.Replay) {
		fmt.Fprintf(w, "max combo: %d\n", rp.MaxCombo)
	}},
}

func newInspectCmd() *cobra.Command {
	inspectCmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Show fields of a replay",
		Long: `Decode a replay and print selected fields. Without field flags a full
summary is printed.

Examples:
  osrtool inspect replay.osr
  osrtool inspect replay.osr --mods --score --max-combo
  osrtool inspect replay.osr --csv > frames.csv
  osrtool inspect replay.osr --json`,
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

			out := cmd.OutOrStdout()
			asJSON, _ := cmd.Flags().GetBool("json")
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(api.NewReplaySummary(rp))
			}

			asCSV, _ := cmd.Flags().GetBool("csv")
			if asCSV {
				if err := replay.WriteFramesCSV(out, rp.Frames, true); err != nil {
					return fmt.Errorf("could not write csv: %w", err)
				}
			}

			selected := false
			for _, f := range inspectFields {
				if on, _ := cmd.Flags().GetBool(f.flag); on {
					f.print(out, rp)
					selected = true
				}
			}

			if !selected && !asCSV {
				return printSummary(out, rp)
			}
			return nil
		},
	}

	inspectCmd.Flags().Bool("csv", false, "Output csv-formatted frames")
	inspectCmd.Flags().Bool("json", false, "Output a JSON summary")
	for _, f := range inspectFields {
		inspectCmd.Flags().Bool(f.flag, false, f.usage)
	}
	return inspectCmd
}

func printSummary(out io.Writer, rp *replay.Replay) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "mode:\t%s\n", rp.Mode)
	fmt.Fprintf(w, "version:\t%d\n", rp.Version)
	fmt.Fprintf(w, "player:\t%s\n", rp.Player())
	fmt.Fprintf(w, "beatmap hash:\t%s\n", rp.BeatmapHash)
	fmt.Fprintf(w, "hash:\t%s\n", rp.ScoreHash)
	fmt.Fprintf(w, "score:\t%d\n", rp.TotalScore)
	fmt.Fprintf(w, "max combo:\t%d\n", rp.MaxCombo)
	fmt.Fprintf(w, "perfect:\t%t\n", rp.Perfect)
	fmt.Fprintf(w, "hits:\t%d/%d/%d/%d (geki %d, katu %d)\n",
		rp.Count300, rp.Count100, rp.Count50, rp.CountMiss, rp.CountGeki, rp.CountKatu)
	fmt.Fprintf(w, "mods:\t%s\n", rp.Mods)
	fmt.Fprintf(w, "played at:\t%s\n", rp.PlayedAt().Format(time.RFC3339))
	fmt.Fprintf(w, "online id:\t%d\n", rp.OnlineID)
	fmt.Fprintf(w, "frames:\t%d (%s)\n", len(rp.Frames), rp.Duration())
	fmt.Fprintf(w, "health points:\t%d\n", len(rp.Health))
	return w.Flush()
}
