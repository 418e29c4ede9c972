package notify

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"optistore/internal/apperr"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

// messageCreator is the part of the Twilio REST API the sender uses.
type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

type TwilioSender struct {
	api  messageCreator
	from string
}

func NewTwilioSender(accountSID, authToken, from string) *TwilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioSender{api: client.Api, from: from}
}

func (s *TwilioSender) Channel() Channel { return ChannelSMS }

func (s *TwilioSender) Send(ctx context.Context, msg Message) error {
	to := NormalizePhone(msg.To)
	if !phonePattern.MatchString(to) {
		return fmt.Errorf("%w: phone %q", ErrInvalidRecipient, msg.To)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(msg.Body)

	if _, err := s.api.CreateMessage(params); err != nil {
		return fmt.Errorf("%w: sms to %s: %v", apperr.ErrExternalService, to, err)
	}
	return nil
}

// NormalizePhone strips spaces, dashes and brackets.
func NormalizePhone(phone string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')', '.':
			return -1
		}
		return r
	}, strings.TrimSpace(phone))
}
