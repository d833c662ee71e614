package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/titilda/supersanta/internal/models"
	"github.com/titilda/supersanta/internal/notify"
	"github.com/titilda/supersanta/internal/storage"
)

// MessageService relays anonymous messages from a giver to their
// assigned recipient. The recipient only ever sees the campaign name,
// never the sender.
type MessageService struct {
	store    storage.Store
	notifier notify.Notifier
}

// NewMessageService creates a MessageService with the given storage and
// notification backends.
func NewMessageService(store storage.Store, notifier notify.Notifier) *MessageService {
	return &MessageService{store: store, notifier: notifier}
}

// Send relays text from the sender to their assigned recipient.
//
// A sender can hold assignments in several started campaigns at once
// (one per group). When that happens Send does not guess: it returns the
// candidate list so the gateway can ask the user to pick one by number
// and call SendTo. With exactly one assignment the message is delivered
// immediately and the returned slice is nil.
func (s *MessageService) Send(ctx context.Context, senderID, text string) ([]models.StartedAssignment, error) {
	assignments, err := s.store.ListStartedAssignments(ctx, senderID)
	if err != nil {
		return nil, err
	}

	switch len(assignments) {
	case 0:
		return nil, ErrNoStartedCampaigns
	case 1:
		return nil, s.deliver(ctx, assignments[0], text)
	default:
		return assignments, nil
	}
}

// SendTo relays text within the sender's index-th started campaign
// (1-based, in the order Send returned them).
func (s *MessageService) SendTo(ctx context.Context, senderID string, index int, text string) error {
	assignments, err := s.store.ListStartedAssignments(ctx, senderID)
	if err != nil {
		return err
	}
	if len(assignments) == 0 {
		return ErrNoStartedCampaigns
	}
	if index < 1 || index > len(assignments) {
		return ErrInvalidCampaignIndex
	}
	return s.deliver(ctx, assignments[index-1], text)
}

// deliver DMs the recipient without revealing the sender.
func (s *MessageService) deliver(ctx context.Context, assignment models.StartedAssignment, text string) error {
	dm := fmt.Sprintf(
		"Your Secret Santa in campaign **%s** has sent you a message:\n%s",
		assignment.CampaignName, text,
	)
	if err := s.notifier.DirectMessage(ctx, assignment.RecipientID, dm); err != nil {
		notificationsFailed.Inc()
		slog.Error("Could not deliver anonymous message",
			"group_id", assignment.GroupID,
			"recipient_id", assignment.RecipientID,
			"error", err,
		)
		return ErrDeliveryFailed
	}

	notificationsSent.Inc()
	slog.Debug("Anonymous message delivered", "group_id", assignment.GroupID, "recipient_id", assignment.RecipientID)
	return nil
}
