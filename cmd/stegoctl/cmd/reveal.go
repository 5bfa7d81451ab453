package cmd

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jpfielding/stego.go/pkg/config"
	"github.com/jpfielding/stego.go/pkg/imageio"
	"github.com/jpfielding/stego.go/pkg/stego"
)

// NewRevealCmd renders the LSB plane of an image
func NewRevealCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reveal",
		Short: "render the LSB plane of an image",
		Long:  "Maps the lowest bit of each selected channel to 0 or 255 so embedded regions become visible.",
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
			channels := revealChannels(cmd, cfg, g)
			plane, err := stego.RevealPlane(g, channels)
			if err != nil {
				return err
			}
			if err := imageio.Save(plane, out); err != nil {
				return err
			}
			slog.InfoContext(ctx, "revealed", "input", in, "output", out, "channels", channels)
			return nil
		},
	}
	pf := cmd.PersistentFlags()
	pf.StringP("input", "i", "", "image filename")
	pf.StringP("output", "o", "", "output image filename (png, bmp or tiff)")
	pf.IntP("channels", "c", stego.DefaultChannels, "number of leading color channels to render (alpha is kept unless set explicitly)")
	return cmd
}

// revealChannels leaves the alpha channel out of the rendered plane unless
// channels was set on the command line
func revealChannels(cmd *cobra.Command, cfg *config.Config, g *stego.Grid) int {
	channels := codecOptions(cmd, cfg, g).Channels
	hasAlpha := g.Channels == 2 || g.Channels == 4
	if !cmd.Flags().Changed("channels") && hasAlpha && channels >= g.Channels {
		return g.Channels - 1
	}
	return channels
}
