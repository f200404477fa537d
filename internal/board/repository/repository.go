// Package repository persists boards per owner. Callers see the Repository
// contract, which never fails: unreadable or corrupt state loads as an empty
// board with the default background, and failed writes are logged.
package repository

import (
	"context"

	"moodboard/internal/board/models"
)

// Repository is the load/save contract the board store writes through to.
type Repository interface {
	Load(ownerID string) []models.BoardItem
	Save(ownerID string, items []models.BoardItem)
	LoadBackground(ownerID string) string
	SaveBackground(ownerID, color string)
}

// Backend is raw per-owner key/value storage.
type Backend interface {
	Get(ctx context.Context, ownerID, key string) (string, bool, error)
	Put(ctx context.Context, ownerID, key, value string) error
}

const (
	itemsKey      = "items"
	backgroundKey = "background"
)
