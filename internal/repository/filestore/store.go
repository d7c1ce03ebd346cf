// Package filestore keeps users and tickets in memory and, when given a data
// directory, mirrors them to users.json and tickets.json after every write.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/expense-service/internal/domain"
	"github.com/spec-kit/expense-service/internal/repository"
)

const (
	usersFile   = "users.json"
	ticketsFile = "tickets.json"
)

// Store is a file-backed implementation of the repository contracts.
type Store struct {
	mu      sync.RWMutex
	dir     string
	now     func() time.Time
	users   map[string]*domain.User
	byEmail map[string]string
	tickets map[string]*domain.Ticket
}

// Option customizes a Store.
type Option func(*Store)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewMemory returns a store that never touches disk.
func NewMemory(opts ...Option) *Store {
	s := &Store{
		now:     func() time.Time { return time.Now().UTC() },
		users:   make(map[string]*domain.User),
		byEmail: make(map[string]string),
		tickets: make(map[string]*domain.Ticket),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open loads a store from dir, creating the directory when missing.
func Open(dir string, opts ...Option) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	s := NewMemory(opts...)
	s.dir = dir

	var users []userRecord
	if err := readJSON(filepath.Join(dir, usersFile), &users); err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	for _, rec := range users {
		u := rec.toDomain()
		s.users[u.ID] = u
		s.byEmail[u.Email] = u.ID
	}

	var tickets []ticketRecord
	if err := readJSON(filepath.Join(dir, ticketsFile), &tickets); err != nil {
		return nil, fmt.Errorf("load tickets: %w", err)
	}
	for _, rec := range tickets {
		t := rec.toDomain()
		s.tickets[t.ID] = t
	}
	return s, nil
}

// Users exposes the store as a UserRepository.
func (s *Store) Users() repository.UserRepository {
	return userStore{s: s}
}

// Tickets exposes the store as a TicketRepository.
func (s *Store) Tickets() repository.TicketRepository {
	return ticketStore{s: s}
}

// Ping reports whether the data directory is still writable.
func (s *Store) Ping(_ context.Context) error {
	if s.dir == "" {
		return nil
	}
	info, err := os.Stat(s.dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", s.dir)
	}
	return nil
}

func (s *Store) saveUsers() error {
	if s.dir == "" {
		return nil
	}
	records := make([]userRecord, 0, len(s.users))
	for _, u := range s.users {
		records = append(records, newUserRecord(u))
	}
	sort.Slice(records, func(i, j int) bool { return records[i].CreatedAt.Before(records[j].CreatedAt) })
	return writeJSON(filepath.Join(s.dir, usersFile), records)
}

func (s *Store) saveTickets() error {
	if s.dir == "" {
		return nil
	}
	records := make([]ticketRecord, 0, len(s.tickets))
	for _, t := range s.tickets {
		records = append(records, newTicketRecord(t))
	}
	sort.Slice(records, func(i, j int) bool { return records[i].CreatedAt.Before(records[j].CreatedAt) })
	return writeJSON(filepath.Join(s.dir, ticketsFile), records)
}

func newID() string {
	return uuid.NewString()
}

func readJSON(path string, dst any) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, dst)
}

// writeJSON replaces path atomically via a temp file in the same directory.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
