package service

import (
	"sync"

	"moodboard/internal/board/repository"
)

// ============================================================
// Board Registry
// ============================================================

// Registry keeps one open Store per owner. Each board has its own lock, so
// events for one board run one at a time while different boards proceed
// independently.
type Registry struct {
	mu     sync.Mutex
	repo   repository.Repository
	opts   []StoreOption
	boards map[string]*openBoard
}

type openBoard struct {
	mu    sync.Mutex
	store *Store
}

func NewRegistry(repo repository.Repository, opts ...StoreOption) *Registry {
	return &Registry{
		repo:   repo,
		opts:   opts,
		boards: make(map[string]*openBoard),
	}
}

// With runs fn against ownerID's board, opening it on first access.
func (r *Registry) With(ownerID string, fn func(*Store)) {
	b := r.open(ownerID)

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.store == nil {
		b.store = NewStore(ownerID, r.repo, r.opts...)
	}
	fn(b.store)
}

func (r *Registry) open(ownerID string) *openBoard {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.boards[ownerID]
	if !ok {
		b = &openBoard{}
		r.boards[ownerID] = b
	}
	return b
}
