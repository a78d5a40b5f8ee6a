package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/jordan-wright/email"
)

type EmailOptions struct {
	Server       string
	Port         int
	EmailAddress string
	Password     string
	To           []string
}

// EmailMessenger mirrors notifications to a fixed list of addresses, the channel id is ignored.
type EmailMessenger struct {
	opts EmailOptions
	// send is swapped out in tests
	send func(mail *email.Email, addr string, auth smtp.Auth) error
}

func NewEmailMessenger(opts EmailOptions) EmailMessenger {
	return EmailMessenger{
		opts: opts,
		send: func(mail *email.Email, addr string, auth smtp.Auth) error {
			return mail.Send(addr, auth)
		},
	}
}

func (m EmailMessenger) compose(msg Message) *email.Email {
	mail := email.NewEmail()
	mail.From = fmt.Sprintf("socsbot <%s>", m.opts.EmailAddress)
	mail.To = m.opts.To
	mail.Subject = msg.Title
	mail.Text = []byte(RenderText(msg))
	return mail
}

func (m EmailMessenger) Deliver(ctx context.Context, _ int64, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	mail := m.compose(msg)
	addr := fmt.Sprintf("%s:%d", m.opts.Server, m.opts.Port)

	var auth smtp.Auth
	if m.opts.Password != "" {
		auth = smtp.PlainAuth("", m.opts.EmailAddress, m.opts.Password, m.opts.Server)
	}

	err := m.send(mail, addr, auth)
	if err != nil && auth != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = m.send(mail, addr, nil)
	}
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}
