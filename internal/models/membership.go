package models

// Membership is one participant's enrollment in a campaign. Unique per
// (user, group) pair.
type Membership struct {
	// UserID is the chat-platform identifier of the participant.
	UserID string

	// GroupID ties the membership to its campaign.
	GroupID string

	// IsOrganizer is true for exactly one membership per campaign: the
	// user who created it. Set at creation time and never changed.
	IsOrganizer bool

	// RecipientID references the recipient record assigned to this
	// member. Empty until the campaign starts.
	RecipientID string

	// JoinedAt is the Unix timestamp when the user joined.
	JoinedAt int64
}

// Recipient is one gift-recipient slot, created at start time and
// referenced by exactly one membership.
type Recipient struct {
	// ID is the unique identifier of the slot (UUID format).
	ID string

	// UserID is the participant who receives the gift.
	UserID string

	// GroupID scopes the slot to its campaign.
	GroupID string
}
