package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/go-redis/redis/v8"
)

// Store holds per-user carts (menu item id -> quantity) in Redis and
// notifies subscribers on every mutation, so dependents like the navbar
// badge react synchronously instead of polling storage.
type Store struct {
	rdb *redis.Client

	mu   sync.Mutex
	subs []chan Event
}

// Event describes a cart mutation.
type Event struct {
	UserID    string
	ItemCount int // total quantity across all entries
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

func key(userID string) string { return "cart:" + userID }

// Subscribe returns a channel receiving an Event after every mutation.
// Events are dropped for slow receivers rather than blocking mutations.
func (s *Store) Subscribe() <-chan Event {
	ch := make(chan Event, 16)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()
	return ch
}

func (s *Store) notify(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Get returns the user's cart mapping. A missing key is an empty cart.
func (s *Store) Get(ctx context.Context, userID string) (map[string]int, error) {
	raw, err := s.rdb.Get(ctx, key(userID)).Bytes()
	if err == redis.Nil {
		return map[string]int{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cart: %w", err)
	}
	var m map[string]int
	if err := json.Unmarshal(raw, &m); err != nil {
		// Unreadable blob counts as corruption, same as unknown items.
		_ = s.rdb.Del(ctx, key(userID)).Err()
		return map[string]int{}, nil
	}
	if m == nil {
		m = map[string]int{}
	}
	return m, nil
}

// Add merges a quantity delta into the entry for itemID, clamping at
// zero and removing zero entries, then persists the whole mapping.
func (s *Store) Add(ctx context.Context, userID, itemID string, delta int) (map[string]int, error) {
	m, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	ApplyDelta(m, itemID, delta)
	if err := s.save(ctx, userID, m); err != nil {
		return nil, err
	}
	s.notify(Event{UserID: userID, ItemCount: TotalItems(m)})
	return m, nil
}

// Clear empties the user's cart.
func (s *Store) Clear(ctx context.Context, userID string) error {
	if err := s.rdb.Del(ctx, key(userID)).Err(); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	s.notify(Event{UserID: userID, ItemCount: 0})
	return nil
}

// Load returns the cart after validating every entry against knownItem.
// A cart referencing an item absent from every menu is corrupt and is
// reset to empty rather than surfacing a lookup failure.
func (s *Store) Load(ctx context.Context, userID string, knownItem func(itemID string) bool) (map[string]int, error) {
	m, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	for id := range m {
		if !knownItem(id) {
			if err := s.Clear(ctx, userID); err != nil {
				return nil, err
			}
			return map[string]int{}, nil
		}
	}
	return m, nil
}

func (s *Store) save(ctx context.Context, userID string, m map[string]int) error {
	if len(m) == 0 {
		return s.rdb.Del(ctx, key(userID)).Err()
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	return s.rdb.Set(ctx, key(userID), raw, 0).Err()
}

// ApplyDelta merges delta into m[itemID], clamping at zero and deleting
// the entry when the result is zero.
func ApplyDelta(m map[string]int, itemID string, delta int) {
	q := m[itemID] + delta
	if q <= 0 {
		delete(m, itemID)
		return
	}
	m[itemID] = q
}

// TotalItems returns the total quantity across all entries.
func TotalItems(m map[string]int) int {
	n := 0
	for _, q := range m {
		n += q
	}
	return n
}
