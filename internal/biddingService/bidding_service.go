package bidding

import (
	"errors"
	"fmt"
	"math"
	"time"

	"live-auction/internal/biddingerrors"
	"live-auction/internal/directory"
	"live-auction/internal/keylock"
	"live-auction/internal/models"
	"live-auction/internal/repository"
	"live-auction/utils"
)

// BiddingService is the bid ledger: it owns the authoritative highest bid
// per item and is the only writer of bids.
type BiddingService struct {
	repo    repository.AuctionDB
	catalog directory.Catalog

	// itemLocks serialises read-compare-append per item
	itemLocks keylock.Table
}

// NewBiddingService creates a new BiddingService instance
func NewBiddingService(repo repository.AuctionDB, catalog directory.Catalog) *BiddingService {
	return &BiddingService{
		repo:    repo,
		catalog: catalog,
	}
}

// PlaceBid validates and records a user's bid for an item
func (s *BiddingService) PlaceBid(itemID, userID string, amount float64) (models.Bid, error) {
	return s.PlaceBidAndNotify(itemID, userID, amount, nil)
}

// PlaceBidAndNotify validates and records a bid, then calls notify with the
// accepted bid before the item is unlocked, so notifications for one item
// leave in acceptance order. notify is never called for a rejected bid or
// for a bid that failed to persist.
//
// A bid that does not beat the current highest amount fails with a
// *biddingerrors.BidTooLowError carrying that amount.
func (s *BiddingService) PlaceBidAndNotify(itemID, userID string, amount float64, notify func(models.Bid)) (models.Bid, error) {
	if err := s.validateBid(itemID, userID, amount); err != nil {
		return models.Bid{}, err
	}

	unlock := s.itemLocks.Lock(itemID)
	defer unlock()

	highest, err := s.highest(itemID)
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to check winning bid: %w", err)
	}
	if amount <= highest {
		return models.Bid{}, &biddingerrors.BidTooLowError{ItemID: itemID, Amount: amount, Highest: highest}
	}

	bid := models.Bid{
		BidID:     utils.GenerateID(),
		ItemID:    itemID,
		UserID:    userID,
		Amount:    amount,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.RecordBidForItem(bid); err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to record bid for item %s by user %s: %w", itemID, userID, err)
	}

	if notify != nil {
		notify(bid)
	}
	return bid, nil
}

// Highest returns the current highest accepted amount for an item, 0 when
// the item has no bids yet.
func (s *BiddingService) Highest(itemID string) (float64, error) {
	if itemID == "" {
		return 0, fmt.Errorf("service: %w - empty item ID", biddingerrors.ErrInvalidBid)
	}
	highest, err := s.highest(itemID)
	if err != nil {
		return 0, fmt.Errorf("service: failed to get highest bid for item %s: %w", itemID, err)
	}
	return highest, nil
}

// SnapshotHighest calls fn with the current highest amount while the item
// is locked. No bid is accepted for the item until fn returns, so a
// subscriber registered inside fn sees every later bid and none earlier.
func (s *BiddingService) SnapshotHighest(itemID string, fn func(highest float64)) error {
	if itemID == "" {
		return fmt.Errorf("service: %w - empty item ID", biddingerrors.ErrInvalidBid)
	}

	unlock := s.itemLocks.Lock(itemID)
	defer unlock()

	highest, err := s.highest(itemID)
	if err != nil {
		return fmt.Errorf("service: failed to get highest bid for item %s: %w", itemID, err)
	}
	fn(highest)
	return nil
}

func (s *BiddingService) highest(itemID string) (float64, error) {
	winningBid, err := s.repo.GetWinningBid(itemID)
	if err == nil {
		return winningBid.Amount, nil
	}
	if errors.Is(err, biddingerrors.ErrNoBids) {
		return 0, nil
	}
	return 0, err
}

// validateBid checks input validity before the item is locked
func (s *BiddingService) validateBid(itemID, userID string, amount float64) error {
	if itemID == "" || userID == "" {
		return fmt.Errorf("service: %w - missing itemID or userID", biddingerrors.ErrInvalidBid)
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return fmt.Errorf("service: %w - bid amount is not a finite number", biddingerrors.ErrInvalidBid)
	}
	if _, err := s.catalog.FindItem(itemID); err != nil {
		return fmt.Errorf("service: %w", err)
	}
	return nil
}

// GetBidsForItem returns all bids for a specific item
func (s *BiddingService) GetBidsForItem(itemID string) ([]models.Bid, error) {
	if itemID == "" {
		return nil, fmt.Errorf("service: %w - empty item ID", biddingerrors.ErrInvalidBid)
	}

	bids, err := s.repo.GetBidsByItem(itemID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get bids for item %s: %w", itemID, err)
	}

	return bids, nil
}

// GetWinningBid returns the highest bid for a specific item
func (s *BiddingService) GetWinningBid(itemID string) (models.Bid, error) {
	if itemID == "" {
		return models.Bid{}, fmt.Errorf("service: %w - empty item ID", biddingerrors.ErrInvalidBid)
	}

	winningBid, err := s.repo.GetWinningBid(itemID)
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to get winning bid for item %s: %w", itemID, err)
	}

	return winningBid, nil
}

// GetItemsByUser returns all catalog items a user has placed bids on.
// Items that have since left the catalog are skipped.
func (s *BiddingService) GetItemsByUser(userID string) ([]models.Item, error) {
	if userID == "" {
		return nil, fmt.Errorf("service: %w - empty user ID", biddingerrors.ErrInvalidBid)
	}

	itemIDs, err := s.repo.GetItemIDsByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get items for user %s: %w", userID, err)
	}

	items := make([]models.Item, 0, len(itemIDs))
	for _, id := range itemIDs {
		item, err := s.catalog.FindItem(id)
		if err != nil {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// ListLiveAuctions returns the catalog items currently open for bidding
func (s *BiddingService) ListLiveAuctions() []models.Item {
	items := s.catalog.ListItems()
	live := make([]models.Item, 0, len(items))
	for _, item := range items {
		if item.AuctionLive {
			live = append(live, item)
		}
	}
	return live
}
