package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/titilda/supersanta/internal/models"
	"github.com/titilda/supersanta/internal/storage"
)

// sqliteTx implements storage.Tx over one open database transaction.
type sqliteTx struct {
	tx *sql.Tx
}

var _ storage.Tx = (*sqliteTx)(nil)

// GetCampaign retrieves the campaign for a group.
func (t *sqliteTx) GetCampaign(ctx context.Context, groupID string) (*models.Campaign, error) {
	campaign := &models.Campaign{}
	err := t.tx.QueryRowContext(ctx,
		"SELECT group_id, name, state, created_at FROM campaigns WHERE group_id = ?",
		groupID,
	).Scan(&campaign.GroupID, &campaign.Name, &campaign.State, &campaign.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}
	return campaign, nil
}

// CreateCampaign inserts a new campaign row.
func (t *sqliteTx) CreateCampaign(ctx context.Context, campaign *models.Campaign) error {
	if campaign.State == "" {
		campaign.State = models.StateAwaiting
	}
	if campaign.CreatedAt == 0 {
		campaign.CreatedAt = time.Now().Unix()
	}

	_, err := t.tx.ExecContext(ctx,
		"INSERT INTO campaigns (group_id, name, state, created_at) VALUES (?, ?, ?, ?)",
		campaign.GroupID, campaign.Name, campaign.State, campaign.CreatedAt,
	)
	if isUniqueViolation(err) {
		return storage.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("failed to insert campaign: %w", err)
	}
	return nil
}

// DeleteCampaign removes the campaign; memberships and recipient records
// go with it via the schema's cascade rules.
func (t *sqliteTx) DeleteCampaign(ctx context.Context, groupID string) error {
	res, err := t.tx.ExecContext(ctx, "DELETE FROM campaigns WHERE group_id = ?", groupID)
	if err != nil {
		return fmt.Errorf("failed to delete campaign: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ListMembers returns all member user IDs for a group in join order.
func (t *sqliteTx) ListMembers(ctx context.Context, groupID string) ([]string, error) {
	rows, err := t.tx.QueryContext(ctx,
		"SELECT user_id FROM memberships WHERE group_id = ? ORDER BY joined_at, user_id",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []string
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, userID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}
	return members, nil
}

// HasMember reports whether the user has a membership in the group.
func (t *sqliteTx) HasMember(ctx context.Context, groupID, userID string) (bool, error) {
	var one int
	err := t.tx.QueryRowContext(ctx,
		"SELECT 1 FROM memberships WHERE group_id = ? AND user_id = ?",
		groupID, userID,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return true, nil
}

// IsOrganizer reports whether the user holds the organizer membership.
func (t *sqliteTx) IsOrganizer(ctx context.Context, groupID, userID string) (bool, error) {
	var one int
	err := t.tx.QueryRowContext(ctx,
		"SELECT 1 FROM memberships WHERE group_id = ? AND user_id = ? AND is_organizer = 1",
		groupID, userID,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check organizer: %w", err)
	}
	return true, nil
}

// AddMember inserts a membership row.
func (t *sqliteTx) AddMember(ctx context.Context, membership *models.Membership) error {
	if membership.JoinedAt == 0 {
		membership.JoinedAt = time.Now().Unix()
	}

	_, err := t.tx.ExecContext(ctx,
		"INSERT INTO memberships (user_id, group_id, is_organizer, joined_at) VALUES (?, ?, ?, ?)",
		membership.UserID, membership.GroupID, membership.IsOrganizer, membership.JoinedAt,
	)
	if isUniqueViolation(err) {
		return storage.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("failed to insert membership: %w", err)
	}
	return nil
}

// RemoveMember deletes a membership row.
func (t *sqliteTx) RemoveMember(ctx context.Context, groupID, userID string) error {
	res, err := t.tx.ExecContext(ctx,
		"DELETE FROM memberships WHERE group_id = ? AND user_id = ?",
		groupID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check removed rows: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// SetCampaignState updates the campaign lifecycle state.
func (t *sqliteTx) SetCampaignState(ctx context.Context, groupID string, state models.CampaignState) error {
	res, err := t.tx.ExecContext(ctx,
		"UPDATE campaigns SET state = ? WHERE group_id = ?",
		state, groupID,
	)
	if err != nil {
		return fmt.Errorf("failed to set campaign state: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated rows: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// RecordAssignment creates the recipient record and links it to the
// giver's membership in one step.
func (t *sqliteTx) RecordAssignment(ctx context.Context, groupID, giverID, recipientID string) error {
	slotID := uuid.New().String()

	_, err := t.tx.ExecContext(ctx,
		"INSERT INTO recipients (id, user_id, group_id) VALUES (?, ?, ?)",
		slotID, recipientID, groupID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert recipient record: %w", err)
	}

	res, err := t.tx.ExecContext(ctx,
		"UPDATE memberships SET recipient_id = ? WHERE group_id = ? AND user_id = ?",
		slotID, groupID, giverID,
	)
	if err != nil {
		return fmt.Errorf("failed to link recipient to membership: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check linked rows: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ListGroupAssignments returns the committed pairs of one group.
func (s *SQLiteStore) ListGroupAssignments(ctx context.Context, groupID string) ([]models.Assignment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT m.user_id, r.user_id
		FROM memberships m
		INNER JOIN recipients r ON r.id = m.recipient_id
		WHERE m.group_id = ?
		ORDER BY m.joined_at, m.user_id`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list group assignments: %w", err)
	}
	defer rows.Close()

	var assignments []models.Assignment
	for rows.Next() {
		var a models.Assignment
		if err := rows.Scan(&a.GiverID, &a.RecipientID); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate assignments: %w", err)
	}
	return assignments, nil
}

// ListStartedAssignments returns the giver's assignment in every started
// campaign they participate in, oldest campaign first.
func (s *SQLiteStore) ListStartedAssignments(ctx context.Context, giverID string) ([]models.StartedAssignment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT m.group_id, c.name, r.user_id
		FROM memberships m
		INNER JOIN recipients r ON r.id = m.recipient_id
		INNER JOIN campaigns c ON c.group_id = m.group_id AND c.state = 'started'
		WHERE m.user_id = ?
		ORDER BY c.created_at, c.group_id`,
		giverID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list started assignments: %w", err)
	}
	defer rows.Close()

	var assignments []models.StartedAssignment
	for rows.Next() {
		var a models.StartedAssignment
		if err := rows.Scan(&a.GroupID, &a.CampaignName, &a.RecipientID); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate assignments: %w", err)
	}
	return assignments, nil
}
