package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"rfm-segmentation/pkg/rfm"
)

var gridCmd = &cobra.Command{
	Use:   "grid",
	Short: "Print the recency/frequency segment grid",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printGrid(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(gridCmd)
}

// printGrid prints recency 5 on top so Champions sit top right.
func printGrid(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprint(tw, "R \\ F")
	for f := 1; f <= rfm.Quintiles; f++ {
		fmt.Fprintf(tw, "\t%d", f)
	}
	fmt.Fprintln(tw)

	grid := rfm.Grid()
	for r := rfm.Quintiles; r >= 1; r-- {
		fmt.Fprintf(tw, "%d", r)
		for f := 1; f <= rfm.Quintiles; f++ {
			fmt.Fprintf(tw, "\t%s", grid[r-1][f-1])
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}
