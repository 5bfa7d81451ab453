package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"code.cloudfoundry.org/bytefmt"
	"github.com/spf13/cobra"

	"github.com/jpfielding/stego.go/pkg/imageio"
	"github.com/jpfielding/stego.go/pkg/logging"
	"github.com/jpfielding/stego.go/pkg/stego"
	"github.com/jpfielding/stego.go/pkg/util"
)

// NewEncodeCmd hides a payload file in a cover image
func NewEncodeCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "hide a payload in the LSBs of an image",
		Long:  "Writes a 32-bit length prefix and the payload bits into the lowest bit of the selected channels of each pixel, in raster order.",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, _ := cmd.Flags().GetString("input")
			payloadPath, _ := cmd.Flags().GetString("file")
			out, _ := cmd.Flags().GetString("output")
			if in == "" || payloadPath == "" || out == "" {
				return cmd.Usage()
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			// fail on a lossy output before doing any work
			if _, err := imageio.FormatFromPath(out); err != nil {
				return err
			}

			cover, format, err := imageio.Load(in)
			if err != nil {
				return err
			}
			payload, err := imageio.ReadAll(payloadPath)
			if err != nil {
				return err
			}

			opts := codecOptions(cmd, cfg, cover)
			ctx := logging.AppendCtx(ctx,
				slog.String("cmd", "encode"),
				slog.String("payload", util.PayloadID(payload)))
			encoded, err := stego.EncodeContext(ctx, cover, payload, opts)
			if err != nil {
				return fmt.Errorf("encode %s: %w", in, err)
			}
			if err := imageio.Save(encoded, out); err != nil {
				return err
			}
			slog.InfoContext(ctx, "encoded",
				slog.String("input", in),
				slog.String("inputFormat", format),
				slog.String("output", out),
				slog.Int("channels", opts.Channels),
				slog.String("size", bytefmt.ByteSize(uint64(len(payload)))),
				slog.String("md5", util.Md5ThenHex(payload)),
				slog.String("capacity", bytefmt.ByteSize(uint64(stego.MaxPayload(cover, opts.Channels)))))
			return nil
		},
	}
	pf := cmd.PersistentFlags()
	pf.StringP("input", "i", "", "input (cover) image filename")
	pf.StringP("file", "f", "", "payload filename ('-' for stdin)")
	pf.StringP("output", "o", "", "output image filename (png, bmp or tiff)")
	addCodecFlags(pf, true)
	return cmd
}
