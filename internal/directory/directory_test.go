package directory

import (
	"os"
	"path/filepath"
	"testing"

	"live-auction/internal/biddingerrors"
	model "live-auction/internal/models"

	"github.com/stretchr/testify/require"
)

func TestMemory_Lookups(t *testing.T) {
	t.Parallel()

	d := NewMemory()
	d.AddUser(model.User{UserID: "u1", Username: "alice", EmailVerified: true})
	d.AddItem(model.Item{ItemID: "item2", Title: "Ruby"})
	d.AddItem(model.Item{ItemID: "item1", Title: "Opal", AuctionLive: true})

	u, err := d.FindByID("u1")
	require.NoError(t, err)
	require.Equal(t, "alice", u.Username)

	_, err = d.FindByID("nobody")
	require.ErrorIs(t, err, biddingerrors.ErrUserNotFound)

	item, err := d.FindItem("item1")
	require.NoError(t, err)
	require.True(t, item.AuctionLive)

	_, err = d.FindItem("itemX")
	require.ErrorIs(t, err, biddingerrors.ErrItemNotFound)

	items := d.ListItems()
	require.Len(t, items, 2)
	require.Equal(t, "item1", items[0].ItemID)
}

func TestMemory_LoadSeed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		content   string
		wantError bool
		check     func(t *testing.T, d *Memory)
	}{
		{
			name: "valid_seed",
			content: `
users:
  - user_id: "1"
    username: alice
    email: alice@example.com
    email_verified: true
items:
  - item_id: "5"
    title: Sapphire
    starting_price: 120.5
    auction_live: true
`,
			check: func(t *testing.T, d *Memory) {
				u, err := d.FindByID("1")
				require.NoError(t, err)
				require.True(t, u.EmailVerified)
				item, err := d.FindItem("5")
				require.NoError(t, err)
				require.Equal(t, 120.5, item.StartingPrice)
				require.True(t, item.AuctionLive)
			},
		},
		{name: "invalid_yaml", content: "users: [", wantError: true},
		{name: "user_without_id", content: "users:\n  - username: ghost\n", wantError: true},
		{name: "item_without_id", content: "items:\n  - title: nothing\n", wantError: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "seed.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tc.content), 0o600))

			d := NewMemory()
			err := d.LoadSeed(path)
			if tc.wantError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			tc.check(t, d)
		})
	}

	t.Run("missing_file", func(t *testing.T) {
		t.Parallel()
		require.Error(t, NewMemory().LoadSeed(filepath.Join(t.TempDir(), "absent.yaml")))
	})
}

func TestMemory_ApplyDemoSeed(t *testing.T) {
	t.Parallel()

	d := NewMemory()
	require.NoError(t, d.Apply(DemoSeed()))

	alice, err := d.FindByID("1")
	require.NoError(t, err)
	require.True(t, alice.EmailVerified)

	carol, err := d.FindByID("3")
	require.NoError(t, err)
	require.False(t, carol.EmailVerified)

	live := 0
	for _, item := range d.ListItems() {
		if item.AuctionLive {
			live++
		}
	}
	require.Equal(t, 2, live)
}
