// Package store persists per-conversation follow-up verdicts.
//
// The store keeps the whole mapping in memory after a lazy first load and
// flushes it to a durable key-value port on every write. All access happens
// from serialized scan executions, so no locking is done here.
package store

import (
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/inboxdot/inboxdot/internal/logging"
	"github.com/inboxdot/inboxdot/internal/models"
)

// DefaultKey is the durable entry the verdict mapping is stored under.
const DefaultKey = "inboxdot_thread_status"

// KV is the durable key-value port the store writes through. Write semantics
// are last-write-wins; no atomicity beyond that is assumed.
type KV interface {
	// Read returns the stored value for key. ok is false when the key is absent.
	Read(key string) (value []byte, ok bool, err error)

	// Write stores value under key, replacing any previous value.
	Write(key string, value []byte) error
}

// Store maps conversation ids to their last-computed verdict.
type Store struct {
	kv     KV
	key    string
	logger zerolog.Logger

	loaded bool
	data   map[string]models.ConversationVerdict
}

// Option configures a Store.
type Option func(*Store)

// WithKey overrides the durable entry key.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithLogger overrides the store's logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New creates a Store backed by the given durable port.
func New(kv KV, opts ...Option) *Store {
	s := &Store{
		kv:     kv,
		key:    DefaultKey,
		logger: logging.Component("store"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the cached verdict for a conversation, loading the durable
// snapshot on first access.
func (s *Store) Get(id string) (models.ConversationVerdict, bool) {
	s.load()
	verdict, ok := s.data[id]
	return verdict, ok
}

// Set records a verdict and flushes the whole mapping durably. A persistence
// failure is logged and swallowed; the in-memory view stays authoritative for
// the rest of the process.
func (s *Store) Set(id string, verdict models.ConversationVerdict) {
	s.load()
	s.data[id] = verdict
	s.flush()
}

// All returns a copy of the current mapping.
func (s *Store) All() map[string]models.ConversationVerdict {
	s.load()
	out := make(map[string]models.ConversationVerdict, len(s.data))
	for id, verdict := range s.data {
		out[id] = verdict
	}
	return out
}

// Len returns the number of stored verdicts.
func (s *Store) Len() int {
	s.load()
	return len(s.data)
}

// load populates the in-memory mapping from the durable snapshot once per
// process lifetime. A corrupt or unreadable snapshot resets the mapping to
// empty rather than failing the caller.
func (s *Store) load() {
	if s.loaded {
		return
	}
	s.loaded = true
	s.data = make(map[string]models.ConversationVerdict)

	raw, ok, err := s.kv.Read(s.key)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", s.key).Msg("failed to read verdict snapshot, starting empty")
		return
	}
	if !ok {
		s.logger.Debug().Str("key", s.key).Msg("no verdict snapshot yet")
		return
	}

	var data map[string]models.ConversationVerdict
	if err := json.Unmarshal(raw, &data); err != nil {
		s.logger.Warn().Err(err).Str("key", s.key).Msg("corrupt verdict snapshot, starting empty")
		return
	}
	if data != nil {
		s.data = data
	}

	s.logger.Debug().Int("verdicts", len(data)).Msg("loaded verdict snapshot")
}

func (s *Store) flush() {
	raw, err := json.Marshal(s.data)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to marshal verdict snapshot")
		return
	}
	if err := s.kv.Write(s.key, raw); err != nil {
		s.logger.Warn().Err(err).Str("key", s.key).Msg("failed to persist verdict snapshot")
	}
}
