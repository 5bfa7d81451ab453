package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"code.cloudfoundry.org/bytefmt"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/jpfielding/stego.go/pkg/imageio"
	"github.com/jpfielding/stego.go/pkg/stego"
)

// NewCapacityCmd reports how much an image can carry per channel count
func NewCapacityCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "capacity",
		Short: "report LSB capacity of an image",
		Long:  "Prints capacity bits, maximum payload and the length prefix currently stored for each usable channel count.",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, _ := cmd.Flags().GetString("input")
			if in == "" && len(args) > 0 {
				in = args[0]
			}
			if in == "" {
				return cmd.Usage()
			}
			g, format, err := imageio.Load(in)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s: %s %dx%d, %d channels\n", in, format, g.Width, g.Height, g.Channels)
			report(w, g)
			return nil
		},
	}
	pf := cmd.PersistentFlags()
	pf.StringP("input", "i", "", "image filename")
	return cmd
}

func report(w io.Writer, g *stego.Grid) {
	header := []string{"channels", "capacity bits", "max payload", "prefix", "prefix fits"}
	var data [][]string
	for channels := 1; channels <= g.Channels; channels++ {
		maxPayload := stego.MaxPayload(g, channels)
		prefix, fits := "-", "-"
		if length, err := stego.HeaderLength(g, channels); err == nil {
			prefix = strconv.FormatUint(uint64(length), 10)
			fits = strconv.FormatBool(uint64(length) <= uint64(maxPayload))
		}
		data = append(data, []string{
			strconv.Itoa(channels),
			strconv.Itoa(stego.Capacity(g, channels)),
			bytefmt.ByteSize(uint64(maxPayload)),
			prefix,
			fits,
		})
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetBorder(true)
	table.AppendBulk(data)
	table.Render()
}
