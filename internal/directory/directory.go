// Package directory holds the user directory and item catalog the engine
// consults synchronously. Both are read-mostly in-memory tables, seeded at
// startup from a YAML fixture.
package directory

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"live-auction/internal/biddingerrors"
	model "live-auction/internal/models"

	"gopkg.in/yaml.v3"
)

// UserDirectory resolves user ids to accounts
type UserDirectory interface {
	FindByID(userID string) (model.User, error)
}

// Catalog resolves item ids to auction items
type Catalog interface {
	FindItem(itemID string) (model.Item, error)
	ListItems() []model.Item
}

// Memory is an in-memory UserDirectory and Catalog
type Memory struct {
	mu    sync.RWMutex
	users map[string]model.User
	items map[string]model.Item
}

// NewMemory creates an empty directory
func NewMemory() *Memory {
	return &Memory{
		users: make(map[string]model.User),
		items: make(map[string]model.Item),
	}
}

// AddUser inserts or replaces a user
func (d *Memory) AddUser(u model.User) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users[u.UserID] = u
}

// AddItem inserts or replaces an item
func (d *Memory) AddItem(item model.Item) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.items[item.ItemID] = item
}

// FindByID returns the user with the given id
func (d *Memory) FindByID(userID string) (model.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	u, ok := d.users[userID]
	if !ok {
		return model.User{}, fmt.Errorf("find user %s: %w", userID, biddingerrors.ErrUserNotFound)
	}
	return u, nil
}

// FindItem returns the item with the given id
func (d *Memory) FindItem(itemID string) (model.Item, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	item, ok := d.items[itemID]
	if !ok {
		return model.Item{}, fmt.Errorf("find item %s: %w", itemID, biddingerrors.ErrItemNotFound)
	}
	return item, nil
}

// ListItems returns every catalog item ordered by id
func (d *Memory) ListItems() []model.Item {
	d.mu.RLock()
	defer d.mu.RUnlock()

	items := make([]model.Item, 0, len(d.items))
	for _, item := range d.items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ItemID < items[j].ItemID })
	return items
}

// Seed is the on-disk fixture format
type Seed struct {
	Users []model.User `yaml:"users"`
	Items []model.Item `yaml:"items"`
}

// LoadSeed reads a YAML fixture and adds its users and items to d.
func (d *Memory) LoadSeed(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("directory: read seed %s: %w", path, err)
	}
	var seed Seed
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return fmt.Errorf("directory: parse seed %s: %w", path, err)
	}
	if err := d.Apply(seed); err != nil {
		return fmt.Errorf("directory: seed %s: %w", path, err)
	}
	return nil
}

// Apply adds the users and items of seed to d
func (d *Memory) Apply(seed Seed) error {
	for _, u := range seed.Users {
		if u.UserID == "" {
			return errors.New("user without user_id")
		}
		d.AddUser(u)
	}
	for _, item := range seed.Items {
		if item.ItemID == "" {
			return errors.New("item without item_id")
		}
		d.AddItem(item)
	}
	return nil
}

// DemoSeed is the fixture used when no seed file is configured
func DemoSeed() Seed {
	return Seed{
		Users: []model.User{
			{UserID: "1", Username: "alice", Email: "alice@example.com", EmailVerified: true},
			{UserID: "2", Username: "bob", Email: "bob@example.com", EmailVerified: true},
			{UserID: "3", Username: "carol", Email: "carol@example.com"},
			{UserID: "4", Username: "admin", Email: "admin@example.com", EmailVerified: true, IsAdmin: true},
		},
		Items: []model.Item{
			{ItemID: "item1", Title: "title1", Description: "description1", StartingPrice: 100, AuctionLive: true},
			{ItemID: "item2", Title: "title2", Description: "Description2", StartingPrice: 200, AuctionLive: true},
			{ItemID: "item3", Title: "title3", Description: "Description3", StartingPrice: 150},
		},
	}
}
