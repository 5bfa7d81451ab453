package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jpfielding/stego.go/pkg/imageio"
	"github.com/jpfielding/stego.go/pkg/logging"
	"github.com/jpfielding/stego.go/pkg/stego"
	"github.com/jpfielding/stego.go/pkg/util"
)

// NewDecodeCmd recovers a payload from an encoded image
func NewDecodeCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode",
		Short: "extract a payload from the LSBs of an image",
		Long:  "Reads the LSBs of the selected channels in raster order, then the length prefix, then exactly that many payload bytes. Use the same channel count as encode.",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, _ := cmd.Flags().GetString("input")
			out, _ := cmd.Flags().GetString("output")
			if in == "" || out == "" {
				return cmd.Usage()
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			g, _, err := imageio.Load(in)
			if err != nil {
				return err
			}
			opts := codecOptions(cmd, cfg, g)
			ctx := logging.AppendCtx(ctx, slog.String("cmd", "decode"))
			payload, err := stego.DecodeContext(ctx, g, opts)
			if err != nil {
				return fmt.Errorf("decode %s: %w", in, err)
			}
			if err := imageio.WriteAll(out, payload); err != nil {
				return err
			}
			slog.InfoContext(ctx, "decoded",
				slog.String("input", in),
				slog.String("output", out),
				slog.Int("channels", opts.Channels),
				slog.Int("bytes", len(payload)),
				slog.String("md5", util.Md5ThenHex(payload)),
				slog.String("payload", util.PayloadID(payload)))
			return nil
		},
	}
	pf := cmd.PersistentFlags()
	pf.StringP("input", "i", "", "input (encoded) image filename")
	pf.StringP("output", "o", "", "payload output filename ('-' for stdout)")
	addCodecFlags(pf, false)
	return cmd
}
