package cli

import (
	"github.com/spf13/cobra"

	"fleet-reliability/internal/app"
)

var (
	kpisHistoryPath string
	kpisPersist     bool
)

var kpisCmd = &cobra.Command{
	Use:   "kpis",
	Short: "Retrofit reliability KPIs onto historical accounting periods",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().KPIs(cmd.Context(), app.KPIOptions{
			HistoryPath: kpisHistoryPath,
			Persist:     kpisPersist,
		})
	},
}

func init() {
	kpisCmd.Flags().StringVar(&kpisHistoryPath, "history", "", "Historical maintenance table (defaults to config)")
	kpisCmd.Flags().BoolVar(&kpisPersist, "persist", false, "Persist the retrofitted periods to the database")
}
