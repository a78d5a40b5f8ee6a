package bot

import (
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type slogLogger struct{}

func (slogLogger) Println(v ...any) {
	slog.Debug(strings.TrimSuffix(fmt.Sprintln(v...), "\n"), "source", "telegram")
}

func (slogLogger) Printf(format string, v ...any) {
	slog.Debug(fmt.Sprintf(format, v...), "source", "telegram")
}

// UseSlog routes the telegram client's internal logging (ex. long polling retries)
// to slog at debug level.
func UseSlog() {
	_ = tgbotapi.SetLogger(slogLogger{})
}
