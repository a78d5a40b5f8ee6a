// Package bot connects the command dispatcher and the notifier to telegram.
package bot

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"socsbot/internal/commands"
	"socsbot/internal/components/assert"
	"socsbot/internal/components/telemetry"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	report_bot_register_commands = "bot.register-commands"
	report_bot_reply             = "bot.reply"
	report_bot_dispatch          = "bot.dispatch"
)

// API is the part of *tgbotapi.BotAPI the bot uses.
type API interface {
	GetMe() (tgbotapi.User, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Dispatcher runs a named command and returns its reply.
type Dispatcher interface {
	Dispatch(ctx context.Context, name string, args []string) (string, error)
}

// ReadyFunc is invoked once the bot has verified its identity with telegram.
type ReadyFunc func(ctx context.Context)

type Bot struct {
	api          API
	dispatcher   Dispatcher
	onReady      ReadyFunc
	allowedChats []int64
	tel          telemetry.API
}

// New creates a bot that only serves the chats in allowedChats, messages from any
// other chat are dropped.
func New(api API, dispatcher Dispatcher, onReady ReadyFunc, allowedChats []int64, tel telemetry.API) Bot {
	assert.NotNil(api, "api")
	assert.NotNil(dispatcher, "dispatcher")
	assert.NotNil(onReady, "onReady")
	assert.NotNil(tel, "telemetry")

	return Bot{
		api:          api,
		dispatcher:   dispatcher,
		onReady:      onReady,
		allowedChats: slices.Clone(allowedChats),
		tel:          telemetry.NewScopedAPI("bot", tel),
	}
}

func (b Bot) registerCommands() {
	botCommands := make([]tgbotapi.BotCommand, len(commands.Specs))
	for i, spec := range commands.Specs {
		description := spec.Description
		if len(spec.Args) > 0 {
			description = fmt.Sprintf("%s (<%s>)", description, strings.Join(spec.Args, "> <"))
		}
		botCommands[i] = tgbotapi.BotCommand{
			Command:     spec.Name,
			Description: description,
		}
	}

	// commands are only advertised inside the allowed chats
	for _, chat := range b.allowedChats {
		_, err := b.api.Request(tgbotapi.NewSetMyCommandsWithScope(
			tgbotapi.NewBotCommandScopeChat(chat),
			botCommands...,
		))
		if err != nil {
			b.tel.ReportWarning(report_bot_register_commands, err, chat)
		}
	}
}

// Run verifies the token, registers the commands, signals ready and then serves
// updates until ctx is cancelled.
func (b Bot) Run(ctx context.Context) error {
	me, err := b.api.GetMe()
	if err != nil {
		return fmt.Errorf("telegram get me: %w", err)
	}
	b.tel.ReportDebug("connected", me.UserName)

	b.registerCommands()
	b.onReady(ctx)

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 30
	updateConfig.AllowedUpdates = []string{"message"}
	updates := b.api.GetUpdatesChan(updateConfig)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.HandleUpdate(ctx, update)
		}
	}
}

// HandleUpdate answers a single telegram update.
func (b Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.Chat == nil {
		return
	}
	if !slices.Contains(b.allowedChats, msg.Chat.ID) {
		b.tel.ReportDebug("dropping message from chat that is not allowed", msg.Chat.ID)
		return
	}

	if !msg.IsCommand() {
		if strings.TrimSpace(msg.Text) == "!hello" {
			b.reply(msg, "world!")
		}
		return
	}

	name := msg.Command()
	args := strings.Fields(msg.CommandArguments())

	reply, err := b.dispatcher.Dispatch(ctx, name, args)
	if errors.Is(err, commands.ErrUnknownCommand) && reply == "" {
		b.tel.ReportDebug("ignoring unknown command", name)
		return
	}
	if err != nil {
		b.tel.ReportDebug(report_bot_dispatch, name, err)
	}
	if reply == "" {
		return
	}
	b.reply(msg, reply)
}

func (b Bot) reply(to *tgbotapi.Message, text string) {
	out := tgbotapi.NewMessage(to.Chat.ID, text)
	out.ReplyToMessageID = to.MessageID

	_, err := b.api.Send(out)
	if err != nil {
		b.tel.ReportBroken(report_bot_reply, err, to.Chat.ID)
	}
}
