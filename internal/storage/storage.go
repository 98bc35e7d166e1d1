// Package storage persists front-end preferences and cumulative engine
// statistics in a BadgerDB key-value store. The engine core itself keeps no
// persistent state; everything here belongs to the interactive surface.
package storage

import (
	"encoding/json"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Storage keys.
const (
	keyPreferences = "preferences"
	keyStats       = "stats"
)

// Preferences stores the interactive front-end's settings.
type Preferences struct {
	Engine       string    `json:"engine"`
	DefaultDepth int       `json:"default_depth"`
	LastPosition string    `json:"last_position"`
	LastUsed     time.Time `json:"last_used"`
}

// DefaultPreferences returns the preferences used before any are saved.
func DefaultPreferences() *Preferences {
	return &Preferences{
		Engine:       "magnificence",
		DefaultDepth: 7,
	}
}

// Stats accumulates engine usage statistics across sessions.
type Stats struct {
	Searches     int           `json:"searches"`
	SearchNodes  uint64        `json:"search_nodes"`
	SearchTime   time.Duration `json:"search_time"`
	PerftRuns    int           `json:"perft_runs"`
	PerftNodes   uint64        `json:"perft_nodes"`
	DeepestDepth int           `json:"deepest_depth"`
}

// Storage wraps BadgerDB for persistent storage.
type Storage struct {
	db *badger.DB
}

// Open opens (or creates) the store in the given directory.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Storage{db: db}, nil
}

// Close closes the database.
func (s *Storage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SavePreferences stores the preferences, stamping the usage time.
func (s *Storage) SavePreferences(prefs *Preferences) error {
	prefs.LastUsed = time.Now()
	return s.setJSON(keyPreferences, prefs)
}

// LoadPreferences returns the stored preferences, or the defaults when none
// were saved yet.
func (s *Storage) LoadPreferences() (*Preferences, error) {
	prefs := DefaultPreferences()
	if err := s.getJSON(keyPreferences, prefs); err != nil {
		return nil, err
	}
	return prefs, nil
}

// LoadStats returns the stored statistics, zeroed when none exist.
func (s *Storage) LoadStats() (*Stats, error) {
	stats := &Stats{}
	if err := s.getJSON(keyStats, stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// RecordSearch folds one search into the statistics.
func (s *Storage) RecordSearch(depth int, nodes uint64, elapsed time.Duration) error {
	stats, err := s.LoadStats()
	if err != nil {
		return err
	}
	stats.Searches++
	stats.SearchNodes += nodes
	stats.SearchTime += elapsed
	if depth > stats.DeepestDepth {
		stats.DeepestDepth = depth
	}
	return s.setJSON(keyStats, stats)
}

// RecordPerft folds one perft run into the statistics.
func (s *Storage) RecordPerft(nodes uint64) error {
	stats, err := s.LoadStats()
	if err != nil {
		return err
	}
	stats.PerftRuns++
	stats.PerftNodes += nodes
	return s.setJSON(keyStats, stats)
}

func (s *Storage) setJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

func (s *Storage) getJSON(key string, v any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
}
