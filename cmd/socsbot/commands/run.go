package commands

import (
	"context"
	"log/slog"
	"time"

	"socsbot/internal/bot"
	botcommands "socsbot/internal/commands"
	"socsbot/internal/components/chrono"
	"socsbot/internal/components/serviceutil"
	"socsbot/internal/components/telemetry"
	"socsbot/internal/notify"
	"socsbot/internal/poller"
	"socsbot/internal/scrapers/socs"
	"socsbot/internal/state"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Connects to telegram and starts watching the competition list.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		cfg := loadConfig(true)

		otelSetup, err := telemetry.Setup(ctx, "socsbot", cfg.Otlp)
		if err != nil {
			serviceutil.Fatal("failed to setup otel", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
			defer cancel()
			err := otelSetup.Shutdown(shutdownCtx)
			if err != nil {
				slog.Warn("failed to shutdown otel", "err", err.Error())
			}
		}()
		telemetry.InstrumentPerfStats(ctx, time.Second*30)

		tel := telemetry.SlogAPI{}
		bot.UseSlog()

		api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
		if err != nil {
			serviceutil.Fatal("failed to connect to telegram", err)
		}

		messengers := notify.Multi{bot.NewMessenger(api)}
		if cfg.Email.Enabled() {
			messengers = append(messengers, notify.NewEmailMessenger(notify.EmailOptions{
				Server:       cfg.Email.Server,
				Port:         cfg.Email.Port,
				EmailAddress: cfg.Email.EmailAddress,
				Password:     cfg.Email.Password,
				To:           cfg.Email.To,
			}))
			slog.Info("mirroring notifications to email", "recipients", len(cfg.Email.To))
		}
		sender := notify.NewSender(messengers, tel)

		client, err := socs.NewClient(socs.ClientOptions{
			Site:             cfg.Site,
			CloudflareBypass: cfg.CloudflareBypass,
		}, tel)
		if err != nil {
			serviceutil.Fatal("failed to create page fetcher", err)
		}

		window := windowFromConfig(cfg)
		st := state.New(cfg.ChannelId, cfg.Cookie)
		p := poller.New(
			poller.Options{
				Window:   window,
				Interval: cfg.TickInterval(),
			},
			st,
			client,
			socs.Extract,
			sender,
			chrono.NewStandardTime(window.Location),
			tel,
		)

		dispatcher := botcommands.NewDispatcher(st, sender, tel)
		b := bot.New(api, dispatcher, func(ctx context.Context) {
			if p.Start(ctx) {
				slog.Info("poll loop started", "interval", cfg.TickInterval().String())
			}
		}, cfg.AllowedChatIds, tel)

		err = b.Run(ctx)
		if err != nil {
			serviceutil.Fatal("bot stopped", err)
		}
		slog.Info("bot stopped")
	},
}
