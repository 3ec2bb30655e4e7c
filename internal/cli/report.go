package cli

import (
	"github.com/spf13/cobra"

	"fleet-reliability/internal/app"
)

var (
	reportWorkbook string
	reportHTMLPath string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Aggregate a stoppage workbook into fleet and machine summaries",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Report(app.ReportOptions{
			Workbook: reportWorkbook,
			HTMLPath: reportHTMLPath,
		})
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportWorkbook, "workbook", "", "XLSX workbook with stoppage sheets")
	reportCmd.Flags().StringVar(&reportHTMLPath, "html", "", "Path to write the rendered HTML report")
}
