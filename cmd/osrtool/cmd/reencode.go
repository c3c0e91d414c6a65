package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ssargent/osrkit/pkg/compress"
	"github.com/ssargent/osrkit/pkg/osr"
)

func newReencodeCmd() *cobra.Command {
	reencodeCmd := &cobra.Command{
		Use:   "reencode <in> <out>",
		Short: "Decode a replay and write it back out",
		Long: `Decode a replay and encode it again, optionally with a different frame
compression engine. Only lzma output is readable by the game client.

Examples:
  osrtool reencode in.osr out.osr
  osrtool reencode in.osr small.osr --engine zstd`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := sessionFrom(cmd)
			if err != nil {
				return err
			}

			rp, err := rt.codec.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("could not parse osr: %w", err)
			}

			out := rt.codec
			if name, _ := cmd.Flags().GetString("engine"); name != "" {
				engine, err := compress.Lookup(name)
				if err != nil {
					return err
				}
				out = osr.NewCodec(osr.WithEngine(engine), osr.WithLogger(rt.logger))
			}

			if out.Engine() != compress.DefaultEngine {
				rt.logger.Warn().Str("engine", out.Engine()).Msg("output is not readable by the game client")
			}

			if err := out.WriteFile(args[1], rp); err != nil {
				return fmt.Errorf("could not write osr: %w", err)
			}

			rt.logger.Info().
				Str("in", args[0]).
				Str("out", args[1]).
				Str("engine", out.Engine()).
				Int("frames", len(rp.Frames)).
				Msg("re-encoded replay")
			return nil
		},
	}

	reencodeCmd.Flags().String("engine", "", fmt.Sprintf("Frame compression engine %v (default from config)", compress.Names()))
	return reencodeCmd
}
