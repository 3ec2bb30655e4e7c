package cli

import (
	"github.com/spf13/cobra"

	"fleet-reliability/internal/app"
)

var (
	showKind  string
	showLimit int
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print recently persisted KPI periods or recommendations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Show(cmd.Context(), app.ShowOptions{
			Kind:  showKind,
			Limit: showLimit,
		})
	},
}

func init() {
	showCmd.Flags().StringVar(&showKind, "kind", "kpis", "What to show: kpis or recommendations")
	showCmd.Flags().IntVar(&showLimit, "limit", 20, "Maximum rows to print")
}
