package commands

import (
	"context"
	"fmt"
	"strings"

	"socsbot/internal/components/serviceutil"
	"socsbot/internal/history"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

var (
	historyDb    *string
	historyLimit *int
)

func init() {
	historyDb = historyCmd.Flags().String("db", "history.db", "The sqlite database scrapes were recorded in.")
	historyLimit = historyCmd.Flags().IntP("count", "n", 10, "How many scrapes to print.")
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history [--db <path/to/history.db>] [-n <count>]",
	Short: "Prints the scrapes recorded with scrape --db, newest first.",
	Run: func(cmd *cobra.Command, args []string) {
		entries, err := readHistory(cmd.Context(), *historyDb, *historyLimit)
		if err != nil {
			serviceutil.Fatal("failed to read history", err)
		}

		t := newTable()
		t.AppendHeader(table.Row{"ID", "Fetched at", "Found", "Items"})
		t.SetColumnConfigs([]table.ColumnConfig{
			{Number: 4, WidthMax: 60, WidthMaxEnforcer: text.WrapSoft},
		})
		for _, entry := range entries {
			t.AppendRow(table.Row{
				entry.ID,
				entry.FetchedAt.Format("2006-01-02 15:04:05"),
				entry.Found,
				strings.Join(entry.Items, "\n"),
			})
		}
		t.Render()
	},
}

func readHistory(ctx context.Context, path string, limit int) ([]history.Entry, error) {
	db, err := history.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	defer db.Close()

	return history.NewStore(db).Recent(ctx, limit)
}
