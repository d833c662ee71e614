package sqlite

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/titilda/supersanta/internal/models"
	"github.com/titilda/supersanta/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// seedCampaign creates a campaign with an organizer and optional extra members.
func seedCampaign(t *testing.T, store *SQLiteStore, groupID, organizerID string, members ...string) {
	t.Helper()

	err := store.WithGroupTx(context.Background(), groupID, func(tx storage.Tx) error {
		if err := tx.CreateCampaign(context.Background(), &models.Campaign{
			GroupID: groupID,
			Name:    "Test Campaign",
		}); err != nil {
			return err
		}
		if err := tx.AddMember(context.Background(), &models.Membership{
			UserID: organizerID, GroupID: groupID, IsOrganizer: true, JoinedAt: 1,
		}); err != nil {
			return err
		}
		for i, m := range members {
			if err := tx.AddMember(context.Background(), &models.Membership{
				UserID: m, GroupID: groupID, JoinedAt: int64(2 + i),
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to seed campaign: %v", err)
	}
}

func TestCampaignLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("GetCampaign returns ErrNotFound for unknown group", func(t *testing.T) {
		err := store.WithGroupTx(ctx, "nope", func(tx storage.Tx) error {
			_, err := tx.GetCampaign(ctx, "nope")
			return err
		})
		if err != storage.ErrNotFound {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("CreateCampaign defaults state and timestamp", func(t *testing.T) {
		seedCampaign(t, store, "g1", "alice")

		var campaign *models.Campaign
		err := store.WithGroupTx(ctx, "g1", func(tx storage.Tx) error {
			var err error
			campaign, err = tx.GetCampaign(ctx, "g1")
			return err
		})
		if err != nil {
			t.Fatalf("GetCampaign failed: %v", err)
		}
		if campaign.State != models.StateAwaiting {
			t.Errorf("expected awaiting state, got %s", campaign.State)
		}
		if campaign.CreatedAt == 0 {
			t.Error("expected CreatedAt to be set")
		}
	})

	t.Run("duplicate campaign returns ErrAlreadyExists", func(t *testing.T) {
		err := store.WithGroupTx(ctx, "g1", func(tx storage.Tx) error {
			return tx.CreateCampaign(ctx, &models.Campaign{GroupID: "g1", Name: "Again"})
		})
		if err != storage.ErrAlreadyExists {
			t.Errorf("expected ErrAlreadyExists, got %v", err)
		}
	})

	t.Run("SetCampaignState flips state", func(t *testing.T) {
		err := store.WithGroupTx(ctx, "g1", func(tx storage.Tx) error {
			return tx.SetCampaignState(ctx, "g1", models.StateStarted)
		})
		if err != nil {
			t.Fatalf("SetCampaignState failed: %v", err)
		}

		store.WithGroupTx(ctx, "g1", func(tx storage.Tx) error {
			campaign, err := tx.GetCampaign(ctx, "g1")
			if err != nil {
				t.Fatalf("GetCampaign failed: %v", err)
			}
			if campaign.State != models.StateStarted {
				t.Errorf("expected started, got %s", campaign.State)
			}
			return nil
		})
	})
}

func TestMemberships(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedCampaign(t, store, "g1", "alice", "bob", "carol")

	t.Run("ListMembers returns join order", func(t *testing.T) {
		var members []string
		store.WithGroupTx(ctx, "g1", func(tx storage.Tx) error {
			var err error
			members, err = tx.ListMembers(ctx, "g1")
			return err
		})
		want := []string{"alice", "bob", "carol"}
		if len(members) != len(want) {
			t.Fatalf("expected %d members, got %d", len(want), len(members))
		}
		for i := range want {
			if members[i] != want[i] {
				t.Errorf("member %d: expected %s, got %s", i, want[i], members[i])
			}
		}
	})

	t.Run("duplicate membership returns ErrAlreadyExists", func(t *testing.T) {
		err := store.WithGroupTx(ctx, "g1", func(tx storage.Tx) error {
			return tx.AddMember(ctx, &models.Membership{UserID: "bob", GroupID: "g1"})
		})
		if err != storage.ErrAlreadyExists {
			t.Errorf("expected ErrAlreadyExists, got %v", err)
		}
	})

	t.Run("IsOrganizer distinguishes roles", func(t *testing.T) {
		store.WithGroupTx(ctx, "g1", func(tx storage.Tx) error {
			for user, want := range map[string]bool{"alice": true, "bob": false, "stranger": false} {
				got, err := tx.IsOrganizer(ctx, "g1", user)
				if err != nil {
					t.Fatalf("IsOrganizer(%s) failed: %v", user, err)
				}
				if got != want {
					t.Errorf("IsOrganizer(%s): expected %v, got %v", user, want, got)
				}
			}
			return nil
		})
	})

	t.Run("RemoveMember deletes, second call returns ErrNotFound", func(t *testing.T) {
		err := store.WithGroupTx(ctx, "g1", func(tx storage.Tx) error {
			return tx.RemoveMember(ctx, "g1", "carol")
		})
		if err != nil {
			t.Fatalf("RemoveMember failed: %v", err)
		}

		err = store.WithGroupTx(ctx, "g1", func(tx storage.Tx) error {
			return tx.RemoveMember(ctx, "g1", "carol")
		})
		if err != storage.ErrNotFound {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestRecordAssignmentAndQueries(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedCampaign(t, store, "g1", "alice", "bob", "carol")

	err := store.WithGroupTx(ctx, "g1", func(tx storage.Tx) error {
		if err := tx.SetCampaignState(ctx, "g1", models.StateStarted); err != nil {
			return err
		}
		pairs := []models.Assignment{
			{GiverID: "alice", RecipientID: "bob"},
			{GiverID: "bob", RecipientID: "carol"},
			{GiverID: "carol", RecipientID: "alice"},
		}
		for _, p := range pairs {
			if err := tx.RecordAssignment(ctx, "g1", p.GiverID, p.RecipientID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to record assignments: %v", err)
	}

	t.Run("ListGroupAssignments returns all pairs", func(t *testing.T) {
		assignments, err := store.ListGroupAssignments(ctx, "g1")
		if err != nil {
			t.Fatalf("ListGroupAssignments failed: %v", err)
		}
		if len(assignments) != 3 {
			t.Fatalf("expected 3 assignments, got %d", len(assignments))
		}
		if assignments[0].GiverID != "alice" || assignments[0].RecipientID != "bob" {
			t.Errorf("unexpected first assignment: %+v", assignments[0])
		}
	})

	t.Run("ListStartedAssignments finds the giver's campaign", func(t *testing.T) {
		assignments, err := store.ListStartedAssignments(ctx, "bob")
		if err != nil {
			t.Fatalf("ListStartedAssignments failed: %v", err)
		}
		if len(assignments) != 1 {
			t.Fatalf("expected 1 assignment, got %d", len(assignments))
		}
		a := assignments[0]
		if a.GroupID != "g1" || a.CampaignName != "Test Campaign" || a.RecipientID != "carol" {
			t.Errorf("unexpected assignment: %+v", a)
		}
	})

	t.Run("ListStartedAssignments skips awaiting campaigns", func(t *testing.T) {
		seedCampaign(t, store, "g2", "bob")

		assignments, err := store.ListStartedAssignments(ctx, "bob")
		if err != nil {
			t.Fatalf("ListStartedAssignments failed: %v", err)
		}
		if len(assignments) != 1 {
			t.Errorf("expected 1 assignment (awaiting campaign excluded), got %d", len(assignments))
		}
	})
}

func TestDeleteCampaignCascades(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedCampaign(t, store, "g1", "alice", "bob", "carol")

	err := store.WithGroupTx(ctx, "g1", func(tx storage.Tx) error {
		if err := tx.SetCampaignState(ctx, "g1", models.StateStarted); err != nil {
			return err
		}
		return tx.RecordAssignment(ctx, "g1", "alice", "bob")
	})
	if err != nil {
		t.Fatalf("Failed to start campaign: %v", err)
	}

	err = store.WithGroupTx(ctx, "g1", func(tx storage.Tx) error {
		return tx.DeleteCampaign(ctx, "g1")
	})
	if err != nil {
		t.Fatalf("DeleteCampaign failed: %v", err)
	}

	// Campaign, memberships, and recipient records must all be gone.
	err = store.WithGroupTx(ctx, "g1", func(tx storage.Tx) error {
		if _, err := tx.GetCampaign(ctx, "g1"); err != storage.ErrNotFound {
			t.Errorf("expected campaign gone, got %v", err)
		}
		members, err := tx.ListMembers(ctx, "g1")
		if err != nil {
			return err
		}
		if len(members) != 0 {
			t.Errorf("expected no members after cascade, got %d", len(members))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("post-delete check failed: %v", err)
	}

	assignments, err := store.ListGroupAssignments(ctx, "g1")
	if err != nil {
		t.Fatalf("ListGroupAssignments failed: %v", err)
	}
	if len(assignments) != 0 {
		t.Errorf("expected no assignments after cascade, got %d", len(assignments))
	}
}

func TestWithGroupTxRollsBackOnError(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sentinel := storage.ErrNotFound
	err := store.WithGroupTx(ctx, "g1", func(tx storage.Tx) error {
		if err := tx.CreateCampaign(ctx, &models.Campaign{GroupID: "g1", Name: "Doomed"}); err != nil {
			return err
		}
		return sentinel
	})
	if err != sentinel {
		t.Fatalf("expected sentinel error, got %v", err)
	}

	err = store.WithGroupTx(ctx, "g1", func(tx storage.Tx) error {
		_, err := tx.GetCampaign(ctx, "g1")
		return err
	})
	if err != storage.ErrNotFound {
		t.Errorf("expected campaign rolled back, got %v", err)
	}
}

// TestWithGroupTxSerializesGroup runs many concurrent increment-style
// transactions against one group and checks none of them interleave.
func TestWithGroupTxSerializesGroup(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedCampaign(t, store, "g1", "alice")

	const workers = 10
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			store.WithGroupTx(ctx, "g1", func(tx storage.Tx) error {
				members, err := tx.ListMembers(ctx, "g1")
				if err != nil {
					return err
				}
				// joined_at doubles as a sequence check: each tx sees all
				// prior inserts because the group lock serializes them.
				return tx.AddMember(ctx, &models.Membership{
					UserID:   "user-" + string(rune('a'+n)),
					GroupID:  "g1",
					JoinedAt: int64(len(members) + 1),
				})
			})
		}(i)
	}
	wg.Wait()

	var members []string
	store.WithGroupTx(ctx, "g1", func(tx storage.Tx) error {
		var err error
		members, err = tx.ListMembers(ctx, "g1")
		return err
	})
	if len(members) != workers+1 {
		t.Errorf("expected %d members, got %d", workers+1, len(members))
	}
}
