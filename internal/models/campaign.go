package models

// CampaignState is the lifecycle state of a campaign.
type CampaignState string

const (
	// StateAwaiting means the campaign is collecting members and has not
	// been started yet.
	StateAwaiting CampaignState = "awaiting"

	// StateStarted means assignments have been drawn and persisted.
	// There is no transition out of this state; campaigns are deleted
	// rather than reset.
	StateStarted CampaignState = "started"
)

// Campaign represents one Secret Santa event scoped to a single group.
// A group can host at most one campaign at a time, so the group ID is
// also the campaign's identity.
type Campaign struct {
	// GroupID is the chat-platform group the campaign belongs to.
	GroupID string

	// Name is the display name chosen by the organizer.
	Name string

	// State is the current lifecycle state.
	State CampaignState

	// CreatedAt is the Unix timestamp when the campaign was created.
	CreatedAt int64
}
