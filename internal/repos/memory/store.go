// Package memory implements every repository interface in process memory.
// Transactions run one at a time and roll back by restoring a snapshot, so
// the store behaves like the Postgres repos for single-process tests.
package memory

import (
	"context"
	"database/sql"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/fastprodman/economyledger/internal/economy"
	"github.com/fastprodman/economyledger/internal/repos/tasks"
)

type taskKey struct {
	userID uint64
	taskID string
}

type scoreKey struct {
	userID uint64
	game   string
}

type state struct {
	nextUserID    uint64
	nextSessionID int64
	ledgers       map[uint64]economy.UserLedger
	external      map[string]uint64
	audit         []economy.AuditEntry
	links         map[uint64]economy.ReferralLink // by referred id
	highScores    map[scoreKey]economy.HighScoreEntry
	sessions      []economy.GameSession
	tasks         map[taskKey]tasks.Completion
}

func (s state) clone() state {
	c := s
	c.ledgers = make(map[uint64]economy.UserLedger, len(s.ledgers))

	for id, l := range s.ledgers {
		c.ledgers[id] = l.Clone()
	}

	c.external = maps.Clone(s.external)
	c.audit = slices.Clone(s.audit)
	c.links = maps.Clone(s.links)
	c.highScores = maps.Clone(s.highScores)
	c.sessions = slices.Clone(s.sessions)
	c.tasks = maps.Clone(s.tasks)

	return c
}

type Store struct {
	txMu sync.Mutex
	mu   sync.Mutex
	st   state

	// FailAudit, when set, is returned by every audit append.
	FailAudit error
	// Conflicts is the number of upcoming ledger saves that report a
	// version conflict.
	Conflicts int
}

func New() *Store {
	return &Store{st: state{
		nextUserID:    1,
		nextSessionID: 1,
		ledgers:       map[uint64]economy.UserLedger{},
		external:      map[string]uint64{},
		links:         map[uint64]economy.ReferralLink{},
		highScores:    map[scoreKey]economy.HighScoreEntry{},
		tasks:         map[taskKey]tasks.Completion{},
	}}
}

// InTx runs fn exclusively across the whole store, not per user, and
// restores the previous state if it fails.
// The *sql.Tx passed to fn is nil; the memory repos ignore it.
func (s *Store) InTx(_ context.Context, fn func(*sql.Tx) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.st.clone()
	s.mu.Unlock()

	err := fn(nil)
	if err != nil {
		s.mu.Lock()
		s.st = snapshot
		s.mu.Unlock()

		return err
	}

	return nil
}

// AuditCount is the number of committed audit entries of userID.
func (s *Store) AuditCount(userID uint64) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0

	for _, e := range s.st.audit {
		if e.UserID == userID {
			n++
		}
	}

	return n
}

func (s *Store) Ledgers() *Ledgers     { return &Ledgers{s: s} }
func (s *Store) Audit() *Audit         { return &Audit{s: s} }
func (s *Store) Referrals() *Referrals { return &Referrals{s: s} }
func (s *Store) Scores() *Scores       { return &Scores{s: s} }
func (s *Store) Tasks() *Tasks         { return &Tasks{s: s} }

func (s *Store) now() time.Time { return time.Now().UTC() }
