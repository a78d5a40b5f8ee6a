package commands

import (
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var windowCount *int

func init() {
	windowCount = windowCmd.Flags().IntP("count", "n", 6, "How many fetch times to print.")
	rootCmd.AddCommand(windowCmd)
}

var windowCmd = &cobra.Command{
	Use:   "window [-n <count>]",
	Short: "Prints the next times the configured window allows a fetch.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig(false)
		window := windowFromConfig(cfg)

		now := time.Now()
		t := newTable()
		t.AppendHeader(table.Row{"Window time", "Local time", "In"})
		for _, next := range window.Next(now, *windowCount) {
			t.AppendRow(table.Row{
				next.Format("2006-01-02 15:04 MST"),
				next.Local().Format("2006-01-02 15:04 MST"),
				next.Sub(now).Truncate(time.Minute).String(),
			})
		}
		t.Render()
	},
}
