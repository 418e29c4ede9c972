package notify

import (
	"context"
	"fmt"
	"net"
	"net/mail"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"optistore/internal/apperr"
)

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type SMTPSender struct {
	addr     string
	auth     smtp.Auth
	from     string
	sendMail sendMailFunc
}

// NewSMTPSender authenticates with PLAIN auth when a username is set.
func NewSMTPSender(host string, port int, username, password, from string) *SMTPSender {
	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}
	return &SMTPSender{
		addr:     net.JoinHostPort(host, strconv.Itoa(port)),
		auth:     auth,
		from:     from,
		sendMail: smtp.SendMail,
	}
}

func (s *SMTPSender) Channel() Channel { return ChannelEmail }

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	to, err := mail.ParseAddress(strings.TrimSpace(msg.To))
	if err != nil {
		return fmt.Errorf("%w: email %q", ErrInvalidRecipient, msg.To)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	body := buildMessage(s.from, to.Address, msg.Subject, msg.Body, time.Now())
	if err := s.sendMail(s.addr, s.auth, s.from, []string{to.Address}, body); err != nil {
		return fmt.Errorf("%w: email to %s: %v", apperr.ErrExternalService, to.Address, err)
	}
	return nil
}

func buildMessage(from, to, subject, body string, now time.Time) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("Date: " + now.Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return []byte(b.String())
}
