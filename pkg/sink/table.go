package sink

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"rfm-segmentation/pkg/models"
)

// Table prints an aligned text table.
type Table struct {
	Out io.Writer
	// Limit caps the customer rows printed; 0 prints all.
	Limit int
	// SummaryOnly skips the customer rows.
	SummaryOnly bool
}

// Write implements the sink contract.
func (s *Table) Write(_ context.Context, res *models.RunResult) error {
	tw := tabwriter.NewWriter(s.Out, 0, 0, 2, ' ', 0)

	if !s.SummaryOnly {
		fmt.Fprintln(tw, "CUSTOMER\tRECENCY\tFREQUENCY\tMONETARY\tRFM\tSEGMENT")
		for i, c := range res.Customers {
			if s.Limit > 0 && i >= s.Limit {
				fmt.Fprintf(tw, "… %d more\t\t\t\t\t\n", len(res.Customers)-s.Limit)
				break
			}
			fmt.Fprintf(tw, "%s\t%d\t%d\t%.2f\t%s\t%s\n",
				c.CustomerID, c.RecencyDays, c.Frequency, c.Monetary, c.RFMScore, c.Segment)
		}
		fmt.Fprintln(tw)
	}

	fmt.Fprintln(tw, "SEGMENT\tCUSTOMERS\tSHARE\tRECENCY\tFREQUENCY\tMONETARY")
	for _, sm := range res.Summary {
		fmt.Fprintf(tw, "%s\t%d\t%.1f%%\t%.1f\t%.1f\t%.2f\n",
			sm.Segment, sm.Customers, sm.Share*100, sm.MeanRecency, sm.MeanFrequency, sm.MeanMonetary)
	}
	return tw.Flush()
}
