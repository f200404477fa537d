package repository

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

func openTestSQLite(t *testing.T) *SQLite {
	t.Helper()

	db, err := OpenSQLite(filepath.Join(t.TempDir(), "db", "board.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	s := NewSQLite(db)
	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	return s
}

func TestSQLiteGetPut(t *testing.T) {
	s := openTestSQLite(t)
	ctx := context.Background()

	if _, ok, err := s.Get(ctx, "owner", "items"); err != nil || ok {
		t.Fatalf("empty get: ok=%v err=%v", ok, err)
	}
	if err := s.Put(ctx, "owner", "items", "[]"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := s.Put(ctx, "owner", "items", `[{"id":"x"}]`); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	v, ok, err := s.Get(ctx, "owner", "items")
	if err != nil || !ok || v != `[{"id":"x"}]` {
		t.Fatalf("get: %q %v %v", v, ok, err)
	}
	if err := s.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestSQLiteInitIsIdempotent(t *testing.T) {
	s := openTestSQLite(t)
	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("second init: %v", err)
	}
}

func TestSQLitePersistenceRoundTrip(t *testing.T) {
	p := NewPersistence(openTestSQLite(t))
	items := sampleItems()

	p.Save("owner", items)
	p.SaveBackground("owner", "#2d2a26")

	if got := p.Load("owner"); !reflect.DeepEqual(got, items) {
		t.Fatalf("items mismatch: %#v", got)
	}
	if got := p.LoadBackground("owner"); got != "#2d2a26" {
		t.Fatalf("background: %s", got)
	}
}
