package bot

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"socsbot/internal/notify"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// MaxMessageLength is the telegram limit on the text of a single message.
const MaxMessageLength = 4096

// Messenger delivers notifications as HTML telegram messages, split over several
// messages when the list does not fit in one.
type Messenger struct {
	api API
}

func NewMessenger(api API) Messenger {
	return Messenger{api: api}
}

func (m Messenger) Deliver(ctx context.Context, channel int64, msg notify.Message) error {
	for i, chunk := range splitMessage(notify.RenderHTML(msg), MaxMessageLength) {
		if err := ctx.Err(); err != nil {
			return err
		}

		out := tgbotapi.NewMessage(channel, chunk)
		out.ParseMode = tgbotapi.ModeHTML
		out.DisableWebPagePreview = true

		_, err := m.api.Send(out)
		if err != nil {
			return fmt.Errorf("telegram send (part %d): %w", i+1, err)
		}
	}
	return nil
}

// splitMessage splits text on line boundaries into chunks of at most limit bytes.
// Lines longer than limit are cut without splitting a rune or an HTML entity.
func splitMessage(text string, limit int) []string {
	var chunks []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
		}
	}

	for _, line := range strings.Split(text, "\n") {
		for len(line) > limit {
			flush()
			cut := cutPoint(line, limit)
			chunks = append(chunks, line[:cut])
			line = line[cut:]
		}

		needed := len(line)
		if current.Len() > 0 {
			needed++
		}
		if current.Len()+needed > limit {
			flush()
		}
		if current.Len() > 0 {
			current.WriteByte('\n')
		}
		current.WriteString(line)
	}
	flush()
	return chunks
}

func cutPoint(line string, limit int) int {
	cut := limit
	for cut > 0 && !utf8.RuneStart(line[cut]) {
		cut--
	}
	amp := strings.LastIndexByte(line[:cut], '&')
	if amp >= 0 && !strings.Contains(line[amp:cut], ";") {
		cut = amp
	}
	if cut == 0 {
		return limit
	}
	return cut
}
