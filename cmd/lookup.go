package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"rfm-segmentation/pkg/models"
	"rfm-segmentation/pkg/rfm"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <customer-id>",
	Short: "Run the segmentation and print one customer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireConfig(); err != nil {
			return err
		}
		applySegmentFlags(cmd, cfg)

		src, db, err := openSource(cfg)
		if err != nil {
			return err
		}
		if db != nil {
			defer db.Close()
		}
		res, err := runPipeline(cmd.Context(), src, cfg)
		if err != nil {
			return err
		}

		id := models.NormalizeCustomerID(args[0])
		c, ok := rfm.Find(res.Customers, id)
		if !ok {
			return fmt.Errorf("customer %s not found among %d scored customers", id, len(res.Customers))
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "customer_id: %s\n", c.CustomerID)
		fmt.Fprintf(out, "as_of: %s\n", res.AsOf.Format("2006-01-02"))
		fmt.Fprintf(out, "recency_days: %d\n", c.RecencyDays)
		fmt.Fprintf(out, "frequency: %d\n", c.Frequency)
		fmt.Fprintf(out, "monetary: %.2f\n", c.Monetary)
		fmt.Fprintf(out, "rfm_score: %s\n", c.RFMScore)
		fmt.Fprintf(out, "segment: %s\n", c.Segment)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lookupCmd)
	addSourceFlags(lookupCmd)
}
