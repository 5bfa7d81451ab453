package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jpfielding/stego.go/pkg/config"
	"github.com/jpfielding/stego.go/pkg/logging"
	"github.com/jpfielding/stego.go/pkg/stego"
)

func NewRoot(ctx context.Context, gitsha string) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "stegoctl",
		Short:        "hide and recover payloads in the least-significant bits of images",
		Long:         "stegoctl embeds a length-prefixed payload in the LSBs of lossless images and extracts it again",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			level, ok := logging.ParseLevel(cfg.Log.Level)
			var w io.Writer = cmd.ErrOrStderr()
			if cfg.Log.File != "" {
				w = io.MultiWriter(w, logging.RotatingWriter(cfg.Log.File, cfg.Log.MaxSizeMB, cfg.Log.MaxBackups, cfg.Log.MaxAgeDays))
			}
			slog.SetDefault(logging.Logger(w, strings.EqualFold(cfg.Log.Format, "json"), level))
			if !ok {
				slog.WarnContext(ctx, "Invalid log level, defaulting to INFO", "level", cfg.Log.Level)
			}
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			printCommandTree(cmd.OutOrStdout(), cmd, 0)
		},
	}
	cmd.AddCommand(
		NewVersionCmd(ctx, gitsha),
		NewEncodeCmd(ctx),
		NewDecodeCmd(ctx),
		NewCapacityCmd(ctx),
		NewRevealCmd(ctx),
	)
	pf := cmd.PersistentFlags()
	pf.String("config", "", "config file (yaml, toml or json)")
	pf.String("log-level", "INFO", "Log level (DEBUG, INFO, WARN, ERROR)")
	pf.String("log-format", "text", "Log format (text|json)")
	pf.String("log-file", "", "also write logs to this rotated file")
	return cmd
}

func printCommandTree(w io.Writer, cmd *cobra.Command, indent int) {
	fmt.Fprintln(w, strings.Repeat("\t", indent), cmd.Use+":", cmd.Short)
	for _, subCmd := range cmd.Commands() {
		printCommandTree(w, subCmd, indent+1)
	}
}

func NewVersionCmd(ctx context.Context, gitsha string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "git sha for this build",
		Long:  "git sha for this build",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), gitsha)
		},
	}
	return cmd
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	file, _ := cmd.Flags().GetString("config")
	return config.Load(file, cmd.Flags())
}

// addCodecFlags registers the flags shared by commands that read or write LSBs
func addCodecFlags(pf *pflag.FlagSet, withTruncate bool) {
	pf.IntP("channels", "c", stego.DefaultChannels, "number of leading color channels per pixel carrying bits")
	pf.Int("workers", runtime.NumCPU(), "concurrent pixel bands")
	if withTruncate {
		pf.Bool("truncate", false, "embed only what fits instead of failing when the payload is too large")
	}
}

// codecOptions resolves the codec options for grid. Unless channels was set on the
// command line, the default is lowered to the channels the image actually has.
func codecOptions(cmd *cobra.Command, cfg *config.Config, g *stego.Grid) *stego.Options {
	opts := cfg.Options()
	if !cmd.Flags().Changed("channels") && opts.Channels > g.Channels {
		opts.Channels = g.Channels
	}
	return opts
}
