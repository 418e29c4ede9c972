package notify

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"

	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"optistore/internal/apperr"
)

type fakeTwilio struct {
	sent []*twilioApi.CreateMessageParams
	err  error
}

func (f *fakeTwilio) CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, params)
	return &twilioApi.ApiV2010Message{}, nil
}

func TestTwilioSender(t *testing.T) {
	api := &fakeTwilio{}
	s := &TwilioSender{api: api, from: "+15550001111"}
	ctx := context.Background()

	if err := s.Send(ctx, Message{To: "+91 98765-43210", Body: "Sale this week"}); err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(api.sent) != 1 || *api.sent[0].To != "+919876543210" || *api.sent[0].From != "+15550001111" {
		t.Fatalf("unexpected params: %+v", api.sent)
	}

	if err := s.Send(ctx, Message{To: "call me", Body: "x"}); !errors.Is(err, ErrInvalidRecipient) {
		t.Fatalf("got %v, want invalid recipient", err)
	}
	if len(api.sent) != 1 {
		t.Fatalf("invalid phone must not reach the API")
	}

	api.err = errors.New("twilio down")
	if err := s.Send(ctx, Message{To: "9876543210", Body: "x"}); !errors.Is(err, apperr.ErrExternalService) {
		t.Fatalf("got %v, want external service error", err)
	}
}

func TestSMTPSender(t *testing.T) {
	var gotTo []string
	var gotMsg string
	s := NewSMTPSender("smtp.example.com", 587, "", "", "shop@example.com")
	s.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		if addr != "smtp.example.com:587" || from != "shop@example.com" {
			t.Fatalf("addr=%s from=%s", addr, from)
		}
		gotTo = to
		gotMsg = string(msg)
		return nil
	}
	ctx := context.Background()

	if err := s.Send(ctx, Message{To: "Asha <asha@example.com>", Subject: "Promotional Message", Body: "20% off\nthis week"}); err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(gotTo) != 1 || gotTo[0] != "asha@example.com" {
		t.Fatalf("to = %v", gotTo)
	}
	if !strings.Contains(gotMsg, "Subject: Promotional Message\r\n") || !strings.Contains(gotMsg, "20% off\r\nthis week") {
		t.Fatalf("message not built as expected:\n%s", gotMsg)
	}

	if err := s.Send(ctx, Message{To: "not-an-email"}); !errors.Is(err, ErrInvalidRecipient) {
		t.Fatalf("got %v, want invalid recipient", err)
	}

	s.sendMail = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("relay refused") }
	if err := s.Send(ctx, Message{To: "asha@example.com"}); !errors.Is(err, apperr.ErrExternalService) {
		t.Fatalf("got %v, want external service error", err)
	}
}
