// Package models defines the core domain models for the Secret Santa
// coordinator.
//
//   - Campaign: one gift exchange per group, with a two-state lifecycle
//     (awaiting -> started)
//   - Membership: a participant's enrollment, including organizer status
//     and the post-start recipient reference
//   - Recipient: a gift-recipient slot created when assignments are drawn
//   - Assignment: a (giver, recipient) pair produced by the draw
//
// Participants are identified by the opaque user IDs the chat platform
// hands us; the coordinator never resolves display names itself. All
// relationships use ID strings rather than pointers to avoid circular
// references.
package models
