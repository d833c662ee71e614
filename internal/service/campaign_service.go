package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/titilda/supersanta/internal/models"
	"github.com/titilda/supersanta/internal/notify"
	"github.com/titilda/supersanta/internal/santa"
	"github.com/titilda/supersanta/internal/storage"
)

// minMembers is the smallest campaign that can start. A two-person
// campaign can only produce the trivial mutual swap, which defeats the
// point of a secret draw.
const minMembers = 3

// defaultNotifyDelay spaces out post-start DMs so the gateway does not
// trip the platform's rate limits.
const defaultNotifyDelay = 500 * time.Millisecond

// CampaignService guards the campaign lifecycle: create, join, leave,
// start, delete. Every operation runs its checks and writes inside one
// per-group transaction, so concurrent requests for the same group are
// linearized and partial updates cannot happen.
type CampaignService struct {
	store       storage.Store
	notifier    notify.Notifier
	notifyDelay time.Duration
}

// NewCampaignService creates a CampaignService with the given storage and
// notification backends.
func NewCampaignService(store storage.Store, notifier notify.Notifier) *CampaignService {
	return &CampaignService{
		store:       store,
		notifier:    notifier,
		notifyDelay: defaultNotifyDelay,
	}
}

// SetNotifyDelay overrides the pause between post-start DMs. Tests set
// it to zero.
func (s *CampaignService) SetNotifyDelay(d time.Duration) {
	s.notifyDelay = d
}

// Create opens a new campaign for the group and enrolls the requester as
// its organizer.
func (s *CampaignService) Create(ctx context.Context, groupID, requesterID, name string) error {
	slog.Info("Create campaign request", "group_id", groupID, "requester_id", requesterID, "name", name)

	err := s.store.WithGroupTx(ctx, groupID, func(tx storage.Tx) error {
		if err := tx.CreateCampaign(ctx, &models.Campaign{
			GroupID: groupID,
			Name:    name,
			State:   models.StateAwaiting,
		}); err != nil {
			if errors.Is(err, storage.ErrAlreadyExists) {
				return ErrCampaignExists
			}
			return err
		}

		return tx.AddMember(ctx, &models.Membership{
			UserID:      requesterID,
			GroupID:     groupID,
			IsOrganizer: true,
		})
	})
	if err != nil {
		slog.Warn("Create campaign rejected", "group_id", groupID, "error", err)
		return err
	}

	campaignsCreated.Inc()
	slog.Info("Campaign created", "group_id", groupID, "name", name, "organizer_id", requesterID)
	return nil
}

// Join enrolls a user in the group's campaign.
func (s *CampaignService) Join(ctx context.Context, groupID, userID string) error {
	slog.Info("Join request", "group_id", groupID, "user_id", userID)

	err := s.store.WithGroupTx(ctx, groupID, func(tx storage.Tx) error {
		campaign, err := tx.GetCampaign(ctx, groupID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return ErrNoCampaign
			}
			return err
		}
		if campaign.State != models.StateAwaiting {
			return ErrCampaignStarted
		}

		if err := tx.AddMember(ctx, &models.Membership{
			UserID:  userID,
			GroupID: groupID,
		}); err != nil {
			if errors.Is(err, storage.ErrAlreadyExists) {
				return ErrAlreadyJoined
			}
			return err
		}
		return nil
	})
	if err != nil {
		slog.Warn("Join rejected", "group_id", groupID, "user_id", userID, "error", err)
		return err
	}

	slog.Info("Member joined", "group_id", groupID, "user_id", userID)
	return nil
}

// Leave removes a user from the group's campaign. The organizer cannot
// leave, and nobody can leave once the campaign has started.
func (s *CampaignService) Leave(ctx context.Context, groupID, userID string) error {
	slog.Info("Leave request", "group_id", groupID, "user_id", userID)

	err := s.store.WithGroupTx(ctx, groupID, func(tx storage.Tx) error {
		organizer, err := tx.IsOrganizer(ctx, groupID, userID)
		if err != nil {
			return err
		}
		if organizer {
			return ErrIsOrganizer
		}

		campaign, err := tx.GetCampaign(ctx, groupID)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return err
		}
		if campaign != nil && campaign.State != models.StateAwaiting {
			return ErrCampaignStarted
		}

		if err := tx.RemoveMember(ctx, groupID, userID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return ErrNotAMember
			}
			return err
		}
		return nil
	})
	if err != nil {
		slog.Warn("Leave rejected", "group_id", groupID, "user_id", userID, "error", err)
		return err
	}

	slog.Info("Member left", "group_id", groupID, "user_id", userID)
	return nil
}

// Start draws assignments for the group's campaign and flips it to the
// started state. The membership check, organizer check, state check,
// draw, and write-back all commit in one transaction; afterwards each
// giver is privately notified of their recipient, best-effort.
func (s *CampaignService) Start(ctx context.Context, groupID, requesterID string) ([]models.Assignment, error) {
	slog.Info("Start request", "group_id", groupID, "requester_id", requesterID)

	var (
		assignments  []models.Assignment
		campaignName string
	)
	err := s.store.WithGroupTx(ctx, groupID, func(tx storage.Tx) error {
		members, err := tx.ListMembers(ctx, groupID)
		if err != nil {
			return err
		}
		if len(members) < minMembers {
			if len(members) == 0 {
				return ErrNoMembers
			}
			return ErrInsufficientMembers
		}

		organizer, err := tx.IsOrganizer(ctx, groupID, requesterID)
		if err != nil {
			return err
		}
		if !organizer {
			return ErrNotOrganizer
		}

		campaign, err := tx.GetCampaign(ctx, groupID)
		if err != nil {
			return err
		}
		if campaign.State != models.StateAwaiting {
			return ErrWrongState
		}
		campaignName = campaign.Name

		if err := tx.SetCampaignState(ctx, groupID, models.StateStarted); err != nil {
			return err
		}

		assignments, err = santa.Assignments(members)
		if err != nil {
			return err
		}
		for _, a := range assignments {
			if err := tx.RecordAssignment(ctx, groupID, a.GiverID, a.RecipientID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		slog.Warn("Start rejected", "group_id", groupID, "requester_id", requesterID, "error", err)
		return nil, err
	}

	campaignsStarted.Inc()
	slog.Info("Campaign started", "group_id", groupID, "name", campaignName, "members", len(assignments))

	s.notifyAssignments(ctx, campaignName, assignments)

	return assignments, nil
}

// Delete removes the campaign along with all memberships and recipient
// records for the group.
func (s *CampaignService) Delete(ctx context.Context, groupID, requesterID string) error {
	slog.Info("Delete request", "group_id", groupID, "requester_id", requesterID)

	err := s.store.WithGroupTx(ctx, groupID, func(tx storage.Tx) error {
		organizer, err := tx.IsOrganizer(ctx, groupID, requesterID)
		if err != nil {
			return err
		}
		if !organizer {
			return ErrNotOrganizer
		}
		return tx.DeleteCampaign(ctx, groupID)
	})
	if err != nil {
		slog.Warn("Delete rejected", "group_id", groupID, "requester_id", requesterID, "error", err)
		return err
	}

	campaignsDeleted.Inc()
	slog.Info("Campaign deleted", "group_id", groupID)
	return nil
}

// Members lists the user IDs enrolled in the group's campaign, in join
// order.
func (s *CampaignService) Members(ctx context.Context, groupID string) ([]string, error) {
	var members []string
	err := s.store.WithGroupTx(ctx, groupID, func(tx storage.Tx) error {
		if _, err := tx.GetCampaign(ctx, groupID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return ErrNoCampaign
			}
			return err
		}
		var err error
		members, err = tx.ListMembers(ctx, groupID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return members, nil
}

// Assignments returns the committed pairs of a started campaign along
// with the campaign name. Used by the printable assignment sheet export.
func (s *CampaignService) Assignments(ctx context.Context, groupID string) (string, []models.Assignment, error) {
	var campaignName string
	err := s.store.WithGroupTx(ctx, groupID, func(tx storage.Tx) error {
		campaign, err := tx.GetCampaign(ctx, groupID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return ErrNoCampaign
			}
			return err
		}
		if campaign.State != models.StateStarted {
			return ErrNotStarted
		}
		campaignName = campaign.Name
		return nil
	})
	if err != nil {
		return "", nil, err
	}

	assignments, err := s.store.ListGroupAssignments(ctx, groupID)
	if err != nil {
		return "", nil, err
	}
	return campaignName, assignments, nil
}

// notifyAssignments DMs every giver their recipient. The assignments are
// already committed; a failed send is logged and skipped, never undone.
// Sends are sequential with a small pause to stay under platform rate
// limits.
func (s *CampaignService) notifyAssignments(ctx context.Context, campaignName string, assignments []models.Assignment) {
	for i, a := range assignments {
		if i > 0 && s.notifyDelay > 0 {
			time.Sleep(s.notifyDelay)
		}

		text := fmt.Sprintf(
			"Your Secret Santa assignment in campaign **%s** is: <@%s>. You can message them anonymously with /santa message <message>.",
			campaignName, a.RecipientID,
		)
		if err := s.notifier.DirectMessage(ctx, a.GiverID, text); err != nil {
			notificationsFailed.Inc()
			slog.Error("Could not deliver assignment DM", "giver_id", a.GiverID, "error", err)
			continue
		}
		notificationsSent.Inc()
	}
}
