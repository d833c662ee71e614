// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/titilda/supersanta/internal/models"
)

var (
	// ErrNotFound is returned when a campaign or membership does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrAlreadyExists is returned when a uniqueness constraint would be
	// violated (duplicate campaign for a group, duplicate membership).
	ErrAlreadyExists = errors.New("record already exists")
)

// Tx is the set of operations available inside one group transaction.
// Every check-then-write sequence of the campaign state machine runs
// against a Tx so reads and writes see a single consistent snapshot.
type Tx interface {
	// GetCampaign returns the campaign for a group, or ErrNotFound.
	GetCampaign(ctx context.Context, groupID string) (*models.Campaign, error)

	// CreateCampaign inserts a new campaign. Returns ErrAlreadyExists if
	// the group already hosts one.
	CreateCampaign(ctx context.Context, campaign *models.Campaign) error

	// DeleteCampaign removes the campaign and, transitively, all
	// memberships and recipient records for the group.
	DeleteCampaign(ctx context.Context, groupID string) error

	// ListMembers returns the user IDs of all members, ordered by join time.
	ListMembers(ctx context.Context, groupID string) ([]string, error)

	// HasMember reports whether the user is enrolled in the group's campaign.
	HasMember(ctx context.Context, groupID, userID string) (bool, error)

	// IsOrganizer reports whether the user holds the organizer membership.
	IsOrganizer(ctx context.Context, groupID, userID string) (bool, error)

	// AddMember inserts a membership. Returns ErrAlreadyExists for a
	// duplicate (user, group) pair.
	AddMember(ctx context.Context, membership *models.Membership) error

	// RemoveMember deletes a membership. Returns ErrNotFound if the user
	// is not a member.
	RemoveMember(ctx context.Context, groupID, userID string) error

	// SetCampaignState updates the campaign lifecycle state.
	SetCampaignState(ctx context.Context, groupID string, state models.CampaignState) error

	// RecordAssignment creates the recipient record for recipientID and
	// links it to the giver's membership.
	RecordAssignment(ctx context.Context, groupID, giverID, recipientID string) error
}

// Store is the interface for campaign persistence.
//
// WithGroupTx is the only way to mutate campaign state: it acquires the
// exclusive per-group lock, opens a transaction, runs fn, and commits if
// fn returns nil or rolls back otherwise. The lock is held until the
// transaction finishes, so concurrent operations on the same group are
// linearized while different groups never block each other.
//
// The abstraction allows swapping storage backends (SQLite, PostgreSQL
// with advisory locks, etc.) without changing the service layer.
type Store interface {
	WithGroupTx(ctx context.Context, groupID string, fn func(tx Tx) error) error

	// ListStartedAssignments returns, for every started campaign the
	// giver participates in, the campaign and the giver's assigned
	// recipient. Read-only, used by the anonymous message relay.
	ListStartedAssignments(ctx context.Context, giverID string) ([]models.StartedAssignment, error)

	// ListGroupAssignments returns all committed (giver, recipient)
	// pairs of a group, in join order. Empty for campaigns that have
	// not started. Read-only, used by the assignment sheet export.
	ListGroupAssignments(ctx context.Context, groupID string) ([]models.Assignment, error)

	// Close releases any resources held by the store.
	Close() error
}
