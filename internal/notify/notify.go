// Package notify delivers outbound customer messages over SMS and email.
package notify

import (
	"context"
	"errors"
)

type Channel string

const (
	ChannelSMS   Channel = "sms"
	ChannelEmail Channel = "email"
)

// ErrInvalidRecipient is returned before any network call when the
// destination address cannot be used.
var ErrInvalidRecipient = errors.New("invalid recipient")

type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers one message to one recipient.
type Sender interface {
	Channel() Channel
	Send(ctx context.Context, msg Message) error
}
