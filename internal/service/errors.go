package service

import "errors"

// Every rejected operation surfaces as exactly one of these errors, so
// the gateway can show the user a specific reason rather than a generic
// failure. The messages are the user-facing texts.
var (
	// ErrCampaignExists rejects creating a second campaign in a group.
	ErrCampaignExists = errors.New("there is already a campaign in this group")

	// ErrNoCampaign rejects operations against a group with no campaign.
	ErrNoCampaign = errors.New("there is no Secret Santa campaign in this group")

	// ErrAlreadyJoined rejects a second join by the same user.
	ErrAlreadyJoined = errors.New("you have already joined the campaign")

	// ErrCampaignStarted rejects join and leave once assignments are drawn.
	ErrCampaignStarted = errors.New("the campaign has already started")

	// ErrIsOrganizer rejects the organizer leaving their own campaign.
	ErrIsOrganizer = errors.New("you are the organizer; delete the campaign instead of leaving")

	// ErrNotAMember rejects leaving a campaign the user never joined.
	ErrNotAMember = errors.New("you are not part of the campaign in this group")

	// ErrNotOrganizer rejects start and delete by anyone but the organizer.
	ErrNotOrganizer = errors.New("only the organizer may do that")

	// ErrNoMembers rejects starting when nobody has joined any campaign,
	// or none exists. Distinct from ErrInsufficientMembers so the user
	// learns there is nothing to start at all.
	ErrNoMembers = errors.New("no members have joined a campaign or none exists")

	// ErrInsufficientMembers rejects starting below the three-member floor.
	ErrInsufficientMembers = errors.New("you need at least 3 members to start the campaign")

	// ErrWrongState rejects starting a campaign that is not awaiting.
	ErrWrongState = errors.New("the campaign is not awaiting a start")

	// ErrNotStarted rejects exporting the assignment sheet before the
	// draw has happened.
	ErrNotStarted = errors.New("the campaign has not started yet")

	// ErrNoStartedCampaigns rejects the message relay for users with no
	// assignment in any started campaign.
	ErrNoStartedCampaigns = errors.New("you are not part of any started campaigns")

	// ErrInvalidCampaignIndex rejects an out-of-range campaign number in
	// the indexed message relay.
	ErrInvalidCampaignIndex = errors.New("invalid campaign number")

	// ErrDeliveryFailed reports that an anonymous message could not reach
	// its recipient.
	ErrDeliveryFailed = errors.New("the message could not be delivered")
)
