package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"socsbot/internal/components/serviceutil"
	"socsbot/internal/components/telemetry"
	"socsbot/internal/config"
	"socsbot/internal/history"
	"socsbot/internal/scrapers/socs"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	scrapeCookie *string
	scrapeDb     *string
)

func init() {
	scrapeCookie = scrapeCmd.Flags().String("cookie", "", "The session cookie to send, defaults to the configured cookie.")
	scrapeDb = scrapeCmd.Flags().String("db", "", "A sqlite database to record the scrape result in.")
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--cookie <name=value>] [--db <path/to/history.db>]",
	Short: "Fetches the competition page once and prints the extracted list.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig(false)
		if cfg.Site == "" {
			serviceutil.Fatal("cannot scrape", fmt.Errorf("%w: site", config.ErrMissing))
		}

		client, err := socs.NewClient(socs.ClientOptions{
			Site:             cfg.Site,
			CloudflareBypass: cfg.CloudflareBypass,
		}, telemetry.SlogAPI{})
		if err != nil {
			serviceutil.Fatal("failed to create client", err)
		}

		cookie := cfg.Cookie
		if *scrapeCookie != "" {
			cookie = *scrapeCookie
		}

		t1 := time.Now()
		document, err := client.Fetch(cmd.Context(), cookie)
		if err != nil {
			serviceutil.Fatal("failed to fetch page", err)
		}
		slog.Info("fetched page", "bytes", len(document), "seconds", time.Since(t1).Seconds())

		items, found := socs.Extract(document)
		if *scrapeDb != "" {
			id, err := recordScrape(cmd.Context(), *scrapeDb, history.Entry{
				FetchedAt: t1,
				Found:     found,
				Items:     items,
			})
			if err != nil {
				serviceutil.Fatal("failed to record scrape", err)
			}
			slog.Info("recorded scrape", "db", *scrapeDb, "id", id)
		}
		if !found {
			slog.Warn("competition list not found on page, the cookie may be expired")
			return
		}

		t := newTable()
		t.AppendHeader(table.Row{"#", "Competition"})
		for i, item := range items {
			t.AppendRow(table.Row{i + 1, item})
		}
		t.AppendFooter(table.Row{"", len(items)})
		t.Render()
	},
}

func recordScrape(ctx context.Context, path string, entry history.Entry) (int64, error) {
	db, err := history.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open history db: %w", err)
	}
	defer db.Close()

	return history.NewStore(db).Record(ctx, entry)
}
