// Package state keeps a bounded in-process copy of user profiles and applies
// changes to it optimistically ahead of the database write.
package state

import (
	"errors"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/mindforge/forge_api/model"
)

const DefaultSize = 4096

var ErrSettled = errors.New("state: change already committed or rolled back")

// Store is advisory. The database row stays authoritative and every write is
// guarded by the profile version, so a stale entry only costs a retry.
type Store struct {
	mu    sync.Mutex
	cache *lru.Cache[string, model.Profile]
}

func NewStore(size int) (*Store, error) {
	if size <= 0 {
		size = DefaultSize
	}
	cache, err := lru.New[string, model.Profile](size)
	if err != nil {
		return nil, err
	}
	return &Store{cache: cache}, nil
}

func (s *Store) Get(userID string) (*model.Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.cache.Get(userID)
	if !ok {
		return nil, false
	}
	return &p, true
}

func (s *Store) Put(p *model.Profile) {
	if p == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.Add(p.ID, *p)
}

func (s *Store) Invalidate(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.Remove(userID)
}

func (s *Store) Len() int {
	return s.cache.Len()
}

// Apply runs mutate against a copy of base and stores the result locally.
// It returns nil when mutate declines the change, in which case nothing is
// stored.
func (s *Store) Apply(base *model.Profile, mutate func(p *model.Profile) bool) *Pending {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous, hadPrevious := s.cache.Peek(base.ID)

	next := *base
	if !mutate(&next) {
		return nil
	}
	s.cache.Add(next.ID, next)

	return &Pending{
		store:       s,
		base:        *base,
		next:        next,
		previous:    previous,
		hadPrevious: hadPrevious,
	}
}

// Pending is a locally applied change waiting for the remote write.
type Pending struct {
	store       *Store
	base        model.Profile
	next        model.Profile
	previous    model.Profile
	hadPrevious bool
	done        bool
}

// Base is the profile the change was computed from.
func (p *Pending) Base() model.Profile {
	return p.base
}

func (p *Pending) Next() model.Profile {
	return p.next
}

// Commit hands the new profile to remote. When remote fails the local entry
// is restored to what it was before Apply.
func (p *Pending) Commit(remote func(base, next model.Profile) (model.Profile, error)) (*model.Profile, error) {
	if p.done {
		return nil, ErrSettled
	}
	p.done = true

	stored, err := remote(p.base, p.next)
	if err != nil {
		p.Rollback()
		return nil, err
	}

	p.store.Put(&stored)
	return &stored, nil
}

func (p *Pending) Rollback() {
	p.done = true
	s := p.store
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.cache.Peek(p.next.ID)
	if ok && current.Version != p.next.Version {
		// A newer write landed in the meantime.
		return
	}
	if p.hadPrevious {
		s.cache.Add(p.previous.ID, p.previous)
		return
	}
	s.cache.Remove(p.next.ID)
}
