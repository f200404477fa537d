package repository

import (
	"context"
	"encoding/json"

	log "github.com/sirupsen/logrus"

	"moodboard/internal/board/models"
)

// ============================================================
// Persistence Adapter
// ============================================================

// Persistence implements Repository over a Backend, degrading every failure
// to the empty/default state.
type Persistence struct {
	backend Backend
}

func NewPersistence(backend Backend) *Persistence {
	return &Persistence{backend: backend}
}

func (p *Persistence) Load(ownerID string) []models.BoardItem {
	ctx := context.Background()

	raw, ok, err := p.backend.Get(ctx, ownerID, itemsKey)
	if err != nil {
		log.Warnf("[STORE] load items for %s: %v", ownerID, err)
		return []models.BoardItem{}
	}
	if !ok {
		return []models.BoardItem{}
	}

	items, err := decodeItems(raw)
	if err != nil {
		log.Warnf("[STORE] corrupt items for %s, starting empty: %v", ownerID, err)
		return []models.BoardItem{}
	}
	return items
}

func (p *Persistence) Save(ownerID string, items []models.BoardItem) {
	data, err := encodeItems(items)
	if err != nil {
		log.Errorf("[STORE] encode items for %s: %v", ownerID, err)
		return
	}

	ctx := context.Background()

	if err := p.backend.Put(ctx, ownerID, itemsKey, data); err != nil {
		log.Errorf("[STORE] save items for %s: %v", ownerID, err)
	}
}

func (p *Persistence) LoadBackground(ownerID string) string {
	ctx := context.Background()

	raw, ok, err := p.backend.Get(ctx, ownerID, backgroundKey)
	if err != nil {
		log.Warnf("[STORE] load background for %s: %v", ownerID, err)
		return models.DefaultBackground
	}
	if !ok || !models.IsHexColor(raw) {
		return models.DefaultBackground
	}
	return raw
}

func (p *Persistence) SaveBackground(ownerID, color string) {
	ctx := context.Background()

	if err := p.backend.Put(ctx, ownerID, backgroundKey, color); err != nil {
		log.Errorf("[STORE] save background for %s: %v", ownerID, err)
	}
}

// ============================================================
// Encoding
// ============================================================

func encodeItems(items []models.BoardItem) (string, error) {
	records := make([]models.Record, 0, len(items))
	for _, it := range items {
		records = append(records, models.ToRecord(it))
	}
	data, err := json.Marshal(records)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// decodeItems drops records that are unusable or repeat an id; an
// undecodable payload is an error.
func decodeItems(raw string) ([]models.BoardItem, error) {
	var records []models.Record
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, err
	}

	items := make([]models.BoardItem, 0, len(records))
	seen := make(map[string]bool, len(records))
	for _, rec := range records {
		if !rec.Valid() || seen[rec.ID] {
			continue
		}
		seen[rec.ID] = true
		items = append(items, models.FromRecord(rec))
	}
	return items, nil
}
