// Package notify formats the competition list into a titled message and delivers
// it to the configured sinks.
package notify

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"socsbot/internal/components/assert"
	"socsbot/internal/components/telemetry"
	"socsbot/pkg/htmlutil"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	report_sender_send = "sender.send"
)

var tracer = otel.Tracer("socsbot/notify")

const ListTitle = "Latest SOCS List"

// Field is a single entry of a Message, the list entries have an empty Name.
type Field struct {
	Name  string
	Value string
}

type Message struct {
	Title  string
	Fields []Field
}

// NewListMessage builds the message posted for a list, one untitled field per entry.
func NewListMessage(list []string) Message {
	fields := make([]Field, len(list))
	for i, item := range list {
		fields[i] = Field{Value: item}
	}
	return Message{Title: ListTitle, Fields: fields}
}

func fieldText(f Field) string {
	value := htmlutil.CleanText(f.Value)
	if f.Name == "" {
		return value
	}
	return fmt.Sprintf("%s: %s", htmlutil.CleanText(f.Name), value)
}

// RenderHTML renders the message with the subset of HTML telegram accepts, a bold title
// followed by one line per field.
func RenderHTML(msg Message) string {
	var out strings.Builder
	out.WriteString("<b>")
	out.WriteString(html.EscapeString(msg.Title))
	out.WriteString("</b>")
	for _, f := range msg.Fields {
		out.WriteString("\n• ")
		out.WriteString(html.EscapeString(fieldText(f)))
	}
	return out.String()
}

// RenderText renders the message as plain text.
func RenderText(msg Message) string {
	var out strings.Builder
	out.WriteString(msg.Title)
	out.WriteString("\n")
	for _, f := range msg.Fields {
		out.WriteString("\n- ")
		out.WriteString(fieldText(f))
	}
	return out.String()
}

// Messenger delivers a message to an output channel.
type Messenger interface {
	Deliver(ctx context.Context, channel int64, msg Message) error
}

// Multi delivers to every messenger, a failing messenger does not stop the others.
type Multi []Messenger

func (m Multi) Deliver(ctx context.Context, channel int64, msg Message) error {
	var errs []error
	for _, messenger := range m {
		err := messenger.Deliver(ctx, channel, msg)
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Sender posts lists to a channel. Delivery failures are reported and swallowed so
// callers (the poll loop in particular) carry on regardless.
type Sender struct {
	messenger Messenger
	tel       telemetry.API
}

func NewSender(messenger Messenger, tel telemetry.API) Sender {
	assert.NotNil(messenger, "messenger")
	assert.NotNil(tel, "telemetry")

	return Sender{
		messenger: messenger,
		tel:       telemetry.NewScopedAPI("notify", tel),
	}
}

func (s Sender) Send(ctx context.Context, channel int64, list []string) {
	ctx, span := tracer.Start(ctx, "sender:Send")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("channel", channel),
		attribute.Int("entries", len(list)),
	)

	err := s.messenger.Deliver(ctx, channel, NewListMessage(list))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to deliver")
		s.tel.ReportBroken(report_sender_send, err, channel)
		return
	}
	s.tel.ReportDebug("list sent", channel, len(list))
}
