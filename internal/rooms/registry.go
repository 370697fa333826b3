// Package rooms tracks which live sessions belong to which room and fans
// events out to them.
//
// A room exists only while it has members: the first Join creates it and
// the Leave that empties it removes it. Broadcast copies the member list
// and delivers outside the registry lock; delivery is a non-blocking
// enqueue per member, so one slow or dead session never holds up the rest.
package rooms

import (
	"fmt"
	"sync"

	"live-auction/utils"
)

// Member is a session that can receive room events
type Member interface {
	// ID identifies the member in logs
	ID() string
	// Deliver queues payload for the member without blocking
	Deliver(payload []byte) error
}

// Observer receives registry events. All methods must be cheap; they run on
// the caller's goroutine.
type Observer interface {
	RoomOpened(room string)
	RoomClosed(room string)
	DeliveryFailed(room string, err error)
}

type room struct {
	name    string
	members []Member

	// sendMu orders broadcasts into this room; membership is guarded by
	// the registry lock.
	sendMu sync.Mutex
}

// Registry maps room names to their live members
type Registry struct {
	mu       sync.RWMutex
	rooms    map[string]*room
	observer Observer
}

// NewRegistry creates an empty registry. observer may be nil.
func NewRegistry(observer Observer) *Registry {
	return &Registry{
		rooms:    make(map[string]*room),
		observer: observer,
	}
}

// Join registers m under name, creating the room on first join. Joining
// twice with the same member is a no-op.
func (r *Registry) Join(name string, m Member) {
	r.mu.Lock()
	rm, ok := r.rooms[name]
	if !ok {
		rm = &room{name: name}
		r.rooms[name] = rm
	}
	for _, existing := range rm.members {
		if existing == m {
			r.mu.Unlock()
			return
		}
	}
	rm.members = append(rm.members, m)
	count := len(rm.members)
	r.mu.Unlock()

	if !ok && r.observer != nil {
		r.observer.RoomOpened(name)
	}
	utils.Debug("member joined room", map[string]any{"room": name, "member": m.ID(), "members": count})
}

// Leave removes m from name and deletes the room once it is empty
func (r *Registry) Leave(name string, m Member) {
	r.mu.Lock()
	rm, ok := r.rooms[name]
	if !ok {
		r.mu.Unlock()
		return
	}
	kept := rm.members[:0:0]
	for _, existing := range rm.members {
		if existing != m {
			kept = append(kept, existing)
		}
	}
	rm.members = kept
	closed := len(kept) == 0
	if closed {
		delete(r.rooms, name)
	}
	r.mu.Unlock()

	if closed && r.observer != nil {
		r.observer.RoomClosed(name)
	}
	utils.Debug("member left room", map[string]any{"room": name, "member": m.ID(), "members": len(kept), "room_closed": closed})
}

// Broadcast delivers payload to every member of name in join order and
// returns how many members accepted it. A member whose delivery fails is
// skipped and logged; the others still receive the event.
func (r *Registry) Broadcast(name string, payload []byte) int {
	r.mu.RLock()
	rm, ok := r.rooms[name]
	r.mu.RUnlock()
	if !ok {
		return 0
	}

	rm.sendMu.Lock()
	defer rm.sendMu.Unlock()

	delivered := 0
	for _, m := range r.snapshot(rm) {
		if err := r.deliver(m, payload); err != nil {
			utils.Warn("broadcast delivery failed", map[string]any{"room": name, "member": m.ID(), "error": err.Error()})
			if r.observer != nil {
				r.observer.DeliveryFailed(name, err)
			}
			continue
		}
		delivered++
	}
	return delivered
}

// deliver isolates a misbehaving member so a panic in one Deliver cannot
// abort the fan-out.
func (r *Registry) deliver(m Member, payload []byte) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = &deliveryPanic{value: rec}
		}
	}()
	return m.Deliver(payload)
}

func (r *Registry) snapshot(rm *room) []Member {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Member(nil), rm.members...)
}

// Members returns a snapshot of the members of name in join order
func (r *Registry) Members(name string) []Member {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rm, ok := r.rooms[name]
	if !ok {
		return nil
	}
	return append([]Member(nil), rm.members...)
}

// Rooms returns the member count of every live room
func (r *Registry) Rooms() map[string]int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]int, len(r.rooms))
	for name, rm := range r.rooms {
		out[name] = len(rm.members)
	}
	return out
}

type deliveryPanic struct {
	value any
}

func (p *deliveryPanic) Error() string {
	return fmt.Sprintf("member panicked during delivery: %v", p.value)
}
