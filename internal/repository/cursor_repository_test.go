package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

// TestCursorRepository_Get tests cursor lookup for synced and never-synced
// agents
func TestCursorRepository_Get(t *testing.T) {
	db, mock := newMockDB(t)
	defer db.Close()

	lastSync := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT last_sync").
		WithArgs("owner-1", "file-1").
		WillReturnRows(sqlmock.NewRows([]string{"last_sync"}).AddRow(lastSync))

	repo := NewCursorRepository(db)
	cursor, exists, err := repo.Get(context.Background(), "owner-1", "file-1")

	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !exists {
		t.Fatal("Expected a stored cursor")
	}
	if !cursor.Equal(lastSync) {
		t.Errorf("Expected cursor %v but got %v", lastSync, cursor)
	}

	// A never-synced agent has no row and no cursor
	mock.ExpectQuery("SELECT last_sync").
		WithArgs("owner-1", "file-new").
		WillReturnError(sql.ErrNoRows)

	cursor, exists, err = repo.Get(context.Background(), "owner-1", "file-new")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if exists {
		t.Error("Expected no cursor for a never-synced agent")
	}
	if !cursor.IsZero() {
		t.Errorf("Expected zero cursor but got %v", cursor)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

// TestCursorRepository_Advance tests the GREATEST upsert
func TestCursorRepository_Advance(t *testing.T) {
	db, mock := newMockDB(t)
	defer db.Close()

	to := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectExec("INSERT INTO sync_cursors").
		WithArgs("owner-1", "file-1", to).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewCursorRepository(db)
	if err := repo.Advance(context.Background(), "owner-1", "file-1", to); err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

// TestMemoryCursorStore_NeverRegresses tests the monotonic watermark on
// the in-memory store
func TestMemoryCursorStore_NeverRegresses(t *testing.T) {
	store := NewMemoryCursorStore()
	ctx := context.Background()

	newer := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	older := newer.Add(-time.Hour)

	if err := store.Advance(ctx, "owner-1", "file-1", newer); err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if err := store.Advance(ctx, "owner-1", "file-1", older); err != nil {
		t.Fatalf("Advance failed: %v", err)
	}

	cursor, exists, err := store.Get(ctx, "owner-1", "file-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !exists {
		t.Fatal("Expected a stored cursor")
	}
	if !cursor.Equal(newer) {
		t.Errorf("Expected cursor to hold at %v but got %v", newer, cursor)
	}
}
