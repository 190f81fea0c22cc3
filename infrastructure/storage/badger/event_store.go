package badger

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/felixgeelhaar/autopilot/domain/event"
)

// EventStore is a BadgerDB-backed implementation of event.Store. Events are
// keyed by agent ID plus a big-endian sequence number, so iteration in key
// order is iteration in append order.
type EventStore struct {
	db        *badger.DB
	keyPrefix string
	closed    bool
	mu        sync.Mutex
}

// NewEventStore creates a new BadgerDB event store with the given configuration.
func NewEventStore(cfg Config, opts ...Option) (*EventStore, error) {
	for _, opt := range opts {
		opt(&cfg)
	}

	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}

	return &EventStore{
		db:        db,
		keyPrefix: cfg.KeyPrefix,
	}, nil
}

// NewEventStoreFromDB creates an event store from an existing BadgerDB database.
func NewEventStoreFromDB(db *badger.DB, keyPrefix string) *EventStore {
	return &EventStore{
		db:        db,
		keyPrefix: keyPrefix,
	}
}

// Key format: prefix:events:agentID:sequence (8 bytes, big-endian).
func (s *EventStore) eventKey(agentID string, seq uint64) []byte {
	seqBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(seqBytes, seq)
	return append([]byte(s.keyPrefix+"events:"+agentID+":"), seqBytes...)
}

// Key format: prefix:seq:agentID for the per-agent sequence counter.
func (s *EventStore) seqKey(agentID string) []byte {
	return []byte(s.keyPrefix + "seq:" + agentID)
}

func (s *EventStore) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Append persists one or more events atomically, assigning IDs and per-agent
// sequence numbers.
func (s *EventStore) Append(ctx context.Context, events ...event.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.isClosed() {
		return event.ErrStoreClosed
	}
	if len(events) == 0 {
		return nil
	}

	byAgent := make(map[string][]event.Event)
	for _, e := range events {
		if e.AgentID == "" {
			return event.ErrInvalidAgent
		}
		byAgent[e.AgentID] = append(byAgent[e.AgentID], e)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		for agentID, agentEvents := range byAgent {
			var seq uint64
			seqKey := s.seqKey(agentID)

			item, err := txn.Get(seqKey)
			if err == nil {
				err = item.Value(func(val []byte) error {
					if len(val) == 8 {
						seq = binary.BigEndian.Uint64(val)
					}
					return nil
				})
				if err != nil {
					return err
				}
			} else if !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}

			for i := range agentEvents {
				e := &agentEvents[i]
				if e.ID == "" {
					e.ID = uuid.NewString()
				}
				seq++
				e.Sequence = seq

				data, err := json.Marshal(e)
				if err != nil {
					return fmt.Errorf("encoding event: %w", err)
				}
				if err := txn.Set(s.eventKey(agentID, seq), data); err != nil {
					return err
				}
			}

			seqBytes := make([]byte, 8)
			binary.BigEndian.PutUint64(seqBytes, seq)
			if err := txn.Set(seqKey, seqBytes); err != nil {
				return err
			}
		}
		return nil
	})
}

// List retrieves all events for an agent in sequence order.
func (s *EventStore) List(ctx context.Context, agentID string) ([]event.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.isClosed() {
		return nil, event.ErrStoreClosed
	}

	prefix := []byte(s.keyPrefix + "events:" + agentID + ":")
	var events []event.Event

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var e event.Event
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &e)
			})
			if err != nil {
				continue // Skip malformed entries
			}
			events = append(events, e)
		}
		return nil
	})
	return events, err
}

// ListFrom retrieves events for an agent starting at a sequence number.
func (s *EventStore) ListFrom(ctx context.Context, agentID string, fromSeq uint64) ([]event.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.isClosed() {
		return nil, event.ErrStoreClosed
	}

	startKey := s.eventKey(agentID, fromSeq)
	prefix := []byte(s.keyPrefix + "events:" + agentID + ":")
	var events []event.Event

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(startKey); it.Valid(); it.Next() {
			var e event.Event
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &e)
			})
			if err != nil {
				continue
			}
			events = append(events, e)
		}
		return nil
	})
	return events, err
}

// Count returns the number of events journaled for an agent.
func (s *EventStore) Count(ctx context.Context, agentID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s.isClosed() {
		return 0, event.ErrStoreClosed
	}

	prefix := []byte(s.keyPrefix + "events:" + agentID + ":")
	var count int64

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}

// Agents returns all agent IDs with events in the journal.
func (s *EventStore) Agents(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.isClosed() {
		return nil, event.ErrStoreClosed
	}

	prefix := []byte(s.keyPrefix + "seq:")
	prefixLen := len(prefix)
	var agents []string

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			key := it.Item().Key()
			agents = append(agents, string(key[prefixLen:]))
		}
		return nil
	})
	return agents, err
}

// Purge removes all events and the sequence counter for an agent.
func (s *EventStore) Purge(ctx context.Context, agentID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.isClosed() {
		return event.ErrStoreClosed
	}

	prefix := []byte(s.keyPrefix + "events:" + agentID + ":")
	if err := s.db.DropPrefix(prefix); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(s.seqKey(agentID))
	})
}

// Close closes the database.
func (s *EventStore) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	return s.db.Close()
}

// DB returns the underlying BadgerDB database.
func (s *EventStore) DB() *badger.DB {
	return s.db
}

// Ensure EventStore implements event.Store
var _ event.Store = (*EventStore)(nil)
