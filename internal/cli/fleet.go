package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"fleet-reliability/internal/app"
)

var (
	fleetInput string
	fleetDate  string
)

var fleetCmd = &cobra.Command{
	Use:   "fleet",
	Short: "Project month-end availability for every equipment row",
	RunE: func(cmd *cobra.Command, args []string) error {
		date := time.Now().UTC()
		if fleetDate != "" {
			parsed, err := time.Parse("2006-01-02", fleetDate)
			if err != nil {
				return fmt.Errorf("invalid --date value: %w", err)
			}
			date = parsed
		}

		return getApp().Fleet(app.FleetOptions{
			Input: fleetInput,
			Date:  date,
		})
	},
}

func init() {
	fleetCmd.Flags().StringVar(&fleetInput, "input", "", "CSV or XLSX fleet table")
	fleetCmd.Flags().StringVar(&fleetDate, "date", "", "Report date (YYYY-MM-DD, defaults to today)")
}
