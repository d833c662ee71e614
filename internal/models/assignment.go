package models

// Assignment pairs a giver with the participant they must gift.
type Assignment struct {
	// GiverID is the participant who gives the gift.
	GiverID string

	// RecipientID is the participant who receives it. Never equal to
	// GiverID for a committed assignment.
	RecipientID string
}

// StartedAssignment is an assignment joined with its campaign, as seen
// by the anonymous message relay: one row per started campaign in which
// the giver participates.
type StartedAssignment struct {
	GroupID      string
	CampaignName string
	RecipientID  string
}
