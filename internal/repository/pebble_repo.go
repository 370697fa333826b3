package repository

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"

	"live-auction/internal/biddingerrors"
	"live-auction/internal/keylock"
	model "live-auction/internal/models"
	"live-auction/utils"

	"github.com/cockroachdb/pebble"
)

// Key layout:
//
//	bid:<itemID>:<seq>         -> JSON bid
//	win:<itemID>               -> JSON bid, the current winner
//	userbid:<userID>:<itemID>  -> empty marker
//	msg:<room>:<seq>           -> JSON message
//	room:<room>                -> empty marker
//
// seq is a store-wide counter, zero-padded to 20 digits, that resumes from
// the highest stored value on open. Ids are query-escaped so a ':' inside an
// id cannot widen a prefix scan.
const (
	bidPrefix     = "bid:"
	winPrefix     = "win:"
	userBidPrefix = "userbid:"
	msgPrefix     = "msg:"
	roomPrefix    = "room:"
)

var errClosed = errors.New("pebble store is closed")

// PebbleRepo is a durable Store backed by a Pebble key-value database
type PebbleRepo struct {
	// mu guards db against Close; operations hold it shared
	mu     sync.RWMutex
	db     *pebble.DB
	closed bool

	seq uint64
	// winLocks serialises the winner read-modify-write per item
	winLocks keylock.Table
}

// OpenPebbleRepo opens (or creates) a Pebble database at path
func OpenPebbleRepo(path string) (*PebbleRepo, error) {
	utils.Info("opening pebble store", map[string]any{"path": path})
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		utils.Error("pebble open failed", map[string]any{"path": path, "error": err.Error()})
		return nil, fmt.Errorf("open pebble at %s: %w: %v", path, biddingerrors.ErrPersistence, err)
	}

	r := &PebbleRepo{db: db}
	if err := r.recoverSeq(); err != nil {
		_ = db.Close()
		return nil, r.persistErr("open pebble at "+path, err)
	}
	utils.Debug("pebble sequence recovered", map[string]any{"seq": r.seq})
	return r, nil
}

// Close flushes and closes the database. Every later call fails with
// ErrPersistence.
func (r *PebbleRepo) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	err := r.db.Close()
	utils.Info("pebble store closed", nil)
	return err
}

// RecordBidForItem stores the bid, indexes the item under its bidder and
// moves the item's winner when the bid beats it
func (r *PebbleRepo) RecordBidForItem(bid model.Bid) error {
	if bid.ItemID == "" {
		return fmt.Errorf("record bid: %w", biddingerrors.ErrItemNotFound)
	}
	op := "record bid for item " + bid.ItemID
	data, err := json.Marshal(bid)
	if err != nil {
		return fmt.Errorf("%s: marshal: %w", op, err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return r.persistErr(op, errClosed)
	}

	unlock := r.winLocks.Lock(bid.ItemID)
	defer unlock()

	current, found, err := r.winner(bid.ItemID)
	if err != nil {
		return r.persistErr(op, err)
	}

	b := r.db.NewBatch()
	defer b.Close()
	if err := b.Set([]byte(r.nextKey(bidPrefix, bid.ItemID)), data, nil); err != nil {
		return r.persistErr(op, err)
	}
	if err := b.Set([]byte(userBidPrefix+escape(bid.UserID)+":"+escape(bid.ItemID)), nil, nil); err != nil {
		return r.persistErr(op, err)
	}
	if !found || beats(bid, current) {
		if err := b.Set([]byte(winPrefix+escape(bid.ItemID)), data, nil); err != nil {
			return r.persistErr(op, err)
		}
	}
	if err := b.Commit(pebble.Sync); err != nil {
		return r.persistErr(op, err)
	}
	return nil
}

// GetBidsByItem returns all bids for an item in insertion order
func (r *PebbleRepo) GetBidsByItem(itemID string) ([]model.Bid, error) {
	var bids []model.Bid
	err := r.scan(bidPrefix+escape(itemID)+":", func(_, v []byte) error {
		var b model.Bid
		if err := json.Unmarshal(v, &b); err != nil {
			return fmt.Errorf("decode bid: %w", err)
		}
		bids = append(bids, b)
		return nil
	})
	if err != nil {
		return nil, r.persistErr("get bids for item "+itemID, err)
	}
	if len(bids) == 0 {
		return nil, fmt.Errorf("get bids for item %s: %w", itemID, biddingerrors.ErrNoBids)
	}
	return bids, nil
}

// GetWinningBid returns the highest bid for an item, the earliest on ties
func (r *PebbleRepo) GetWinningBid(itemID string) (model.Bid, error) {
	op := "get winning bid for item " + itemID

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return model.Bid{}, r.persistErr(op, errClosed)
	}

	bid, found, err := r.winner(itemID)
	if err != nil {
		return model.Bid{}, r.persistErr(op, err)
	}
	if !found {
		return model.Bid{}, fmt.Errorf("%s: %w", op, biddingerrors.ErrNoBids)
	}
	return bid, nil
}

// winner reads the stored winner of an item. Callers hold r.mu.
func (r *PebbleRepo) winner(itemID string) (model.Bid, bool, error) {
	v, closer, err := r.db.Get([]byte(winPrefix + escape(itemID)))
	if errors.Is(err, pebble.ErrNotFound) {
		return model.Bid{}, false, nil
	}
	if err != nil {
		return model.Bid{}, false, err
	}
	defer closer.Close()

	var bid model.Bid
	if err := json.Unmarshal(v, &bid); err != nil {
		return model.Bid{}, false, fmt.Errorf("decode winning bid: %w", err)
	}
	return bid, true, nil
}

// GetItemIDsByUser returns the ids of all items a user has bid on
func (r *PebbleRepo) GetItemIDsByUser(userID string) ([]string, error) {
	prefix := userBidPrefix + escape(userID) + ":"
	var ids []string
	err := r.scan(prefix, func(k, _ []byte) error {
		id, err := url.QueryUnescape(string(k[len(prefix):]))
		if err != nil {
			return err
		}
		ids = append(ids, id)
		return nil
	})
	if err != nil {
		return nil, r.persistErr("get items for user "+userID, err)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("get items for user %s: %w", userID, biddingerrors.ErrUserNoBids)
	}
	return ids, nil
}

// AppendMessage stores a chat message and marks its room as known
func (r *PebbleRepo) AppendMessage(msg model.Message) error {
	op := "append message to " + msg.Room
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("%s: marshal: %w", op, err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return r.persistErr(op, errClosed)
	}

	b := r.db.NewBatch()
	defer b.Close()
	if err := b.Set([]byte(r.nextKey(msgPrefix, msg.Room)), data, nil); err != nil {
		return r.persistErr(op, err)
	}
	if err := b.Set([]byte(roomPrefix+escape(msg.Room)), nil, nil); err != nil {
		return r.persistErr(op, err)
	}
	if err := b.Commit(pebble.Sync); err != nil {
		return r.persistErr(op, err)
	}
	return nil
}

// GetMessagesByRoom returns the messages of a room in insertion order
func (r *PebbleRepo) GetMessagesByRoom(room string) ([]model.Message, error) {
	msgs := []model.Message{}
	err := r.scan(msgPrefix+escape(room)+":", func(_, v []byte) error {
		var m model.Message
		if err := json.Unmarshal(v, &m); err != nil {
			return fmt.Errorf("decode message: %w", err)
		}
		msgs = append(msgs, m)
		return nil
	})
	if err != nil {
		return nil, r.persistErr("get messages for room "+room, err)
	}
	return msgs, nil
}

// ListRooms returns every room that has at least one message, sorted by name
func (r *PebbleRepo) ListRooms() ([]string, error) {
	rooms := []string{}
	err := r.scan(roomPrefix, func(k, _ []byte) error {
		room, err := url.QueryUnescape(string(k[len(roomPrefix):]))
		if err != nil {
			return err
		}
		rooms = append(rooms, room)
		return nil
	})
	if err != nil {
		return nil, r.persistErr("list rooms", err)
	}
	sort.Strings(rooms)
	return rooms, nil
}

// nextKey builds the key of a new log entry. Entries under one id sort in
// the order nextKey was called for them.
func (r *PebbleRepo) nextKey(prefix, id string) string {
	return fmt.Sprintf("%s%s:%020d", prefix, escape(id), atomic.AddUint64(&r.seq, 1))
}

// recoverSeq resumes the counter after the highest sequence on disk
func (r *PebbleRepo) recoverSeq() error {
	for _, prefix := range []string{bidPrefix, msgPrefix} {
		err := r.scanLocked(prefix, func(k, _ []byte) error {
			i := bytes.LastIndexByte(k, ':')
			n, err := strconv.ParseUint(string(k[i+1:]), 10, 64)
			if err != nil {
				return fmt.Errorf("unrecognised log key %q: %w", k, err)
			}
			if n > r.seq {
				r.seq = n
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *PebbleRepo) scan(prefix string, fn func(k, v []byte) error) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return errClosed
	}
	return r.scanLocked(prefix, fn)
}

func (r *PebbleRepo) scanLocked(prefix string, fn func(k, v []byte) error) error {
	iter, err := r.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(prefix),
		UpperBound: upperBound([]byte(prefix)),
	})
	if err != nil {
		return err
	}
	for iter.First(); iter.Valid(); iter.Next() {
		if err := fn(iter.Key(), iter.Value()); err != nil {
			_ = iter.Close()
			return err
		}
	}
	return iter.Close()
}

func (r *PebbleRepo) persistErr(op string, err error) error {
	utils.Error("pebble operation failed", map[string]any{"op": op, "error": err.Error()})
	return fmt.Errorf("%s: %w: %v", op, biddingerrors.ErrPersistence, err)
}

func escape(id string) string {
	return url.QueryEscape(id)
}

// upperBound returns the smallest key greater than every key with prefix.
func upperBound(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}
