package service

import (
	"context"
	"log"
	"strings"

	"github.com/google/uuid"

	"optistore/internal/apperr"
	"optistore/internal/metrics"
	"optistore/internal/model"
	"optistore/internal/notify"
	"optistore/internal/repository"
)

const PromotionSubject = "Promotional Message"

// DeliveryFailure records one recipient that could not be reached.
type DeliveryFailure struct {
	CustomerID uuid.UUID      `json:"customer_id"`
	Customer   string         `json:"customer"`
	Channel    notify.Channel `json:"channel"`
	Recipient  string         `json:"recipient"`
	Error      string         `json:"error"`
}

// PromotionResult counts delivered messages and lists every failure.
type PromotionResult struct {
	Sent     int               `json:"sent"`
	Failures []DeliveryFailure `json:"failures"`
}

type PromotionService interface {
	Send(ctx context.Context, caller model.Caller, message string) (*PromotionResult, error)
}

type promotionService struct {
	customerRepo repository.CustomerRepository
	senders      []notify.Sender
}

// NewPromotionService fans out over the given senders; a nil sender is
// skipped, so an unconfigured channel is simply not used.
func NewPromotionService(cRepo repository.CustomerRepository, senders ...notify.Sender) PromotionService {
	active := make([]notify.Sender, 0, len(senders))
	for _, sender := range senders {
		if sender != nil {
			active = append(active, sender)
		}
	}
	return &promotionService{customerRepo: cRepo, senders: active}
}

// Send messages every customer of caller on each channel they have a
// contact for. One call per recipient; a failed recipient is recorded and
// the batch carries on.
func (s *promotionService) Send(ctx context.Context, caller model.Caller, message string) (*PromotionResult, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apperr.Invalid("message", "required", "is required")
	}

	customers, err := s.customerRepo.Search(ctx, caller.AccountID, "")
	if err != nil {
		return nil, err
	}

	result := &PromotionResult{Failures: []DeliveryFailure{}}
	for _, sender := range s.senders {
		channel := sender.Channel()
		for i := range customers {
			customer := &customers[i]
			to := contactFor(customer, channel)
			if to == "" {
				continue
			}

			err := sender.Send(ctx, notify.Message{To: to, Subject: PromotionSubject, Body: message})
			if err != nil {
				log.Printf("Failed to send %s to %s: %v", channel, customer.FullName(), err)
				metrics.Notifications.WithLabelValues(string(channel), "failed").Inc()
				result.Failures = append(result.Failures, DeliveryFailure{
					CustomerID: customer.ID,
					Customer:   customer.FullName(),
					Channel:    channel,
					Recipient:  to,
					Error:      err.Error(),
				})
				continue
			}
			metrics.Notifications.WithLabelValues(string(channel), "sent").Inc()
			result.Sent++
		}
	}
	return result, nil
}

func contactFor(customer *model.Customer, channel notify.Channel) string {
	switch channel {
	case notify.ChannelSMS:
		return customer.PhoneNumber()
	case notify.ChannelEmail:
		return strings.TrimSpace(customer.Email)
	}
	return ""
}
