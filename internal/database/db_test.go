package database

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/zapponejosh/maya-kin/internal/table"
)

// testDB creates a temporary in-memory database for testing.
func testDB(t *testing.T) *DB {
	t.Helper()

	// Use in-memory database for tests
	cfg := Config{
		Path:            ":memory:",
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
	}

	db, err := Open(cfg, quietLogger())
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	// Run migrations
	ctx := context.Background()
	if _, err := db.Migrate(ctx); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// Quiet logger for tests
func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

func sampleSet() table.Set {
	matrix := table.New("matrix", []string{"KIN", "圖騰", "調性"}, [][]string{
		{"1", "紅龍", "磁性"},
		{"2", "白風", "月亮"},
		{"260", "黃太陽", "宇宙"},
	})
	matrix.Source = "matrix.csv"

	birthday := table.New("maya_birthday", []string{"國曆月日", "瑪雅生日"}, [][]string{
		{"1/1", "磁性的月 1日"},
		{"7/26", "無時間日"},
	})
	birthday.Source = "maya_birthday.xlsx"

	return table.Set{"matrix": matrix, "maya_birthday": birthday}
}

// -----------------------------------------------------------------
// DB tests
// -----------------------------------------------------------------

func TestOpen(t *testing.T) {
	db := testDB(t)

	// Verify connection works
	ctx := context.Background()
	if err := db.Health(ctx); err != nil {
		t.Errorf("Health() error = %v", err)
	}
}

func TestMigrate(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	// Migrations should have run (in testDB)
	// Running again should be a no-op
	count, err := db.Migrate(ctx)
	if err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if count != 0 {
		t.Errorf("Migrate() count = %d, want 0 (already applied)", count)
	}
}

// -----------------------------------------------------------------
// Reference table tests
// -----------------------------------------------------------------

func TestImportAndLoadTable(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	stats, err := db.ImportTables(ctx, sampleSet())
	if err != nil {
		t.Fatalf("ImportTables() error = %v", err)
	}
	if stats.Tables != 2 || stats.Rows != 5 {
		t.Errorf("ImportTables() stats = %+v, want 2 tables / 5 rows", stats)
	}

	got, err := db.LoadTable(ctx, "matrix")
	if err != nil {
		t.Fatalf("LoadTable(matrix) error = %v", err)
	}
	if diff := cmp.Diff(sampleSet()["matrix"], got); diff != "" {
		t.Errorf("LoadTable(matrix) mismatch (-want +got):\n%s", diff)
	}
}

func TestImportTable_ReplacesByName(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	if _, err := db.ImportTables(ctx, sampleSet()); err != nil {
		t.Fatalf("ImportTables() error = %v", err)
	}

	replacement := table.New("matrix", []string{"KIN", "Name"}, [][]string{{"42", "Seed"}})
	err := db.WithTx(ctx, func(tx *Tx) error {
		return tx.ImportTable(ctx, replacement)
	})
	if err != nil {
		t.Fatalf("ImportTable() error = %v", err)
	}

	got, err := db.LoadTable(ctx, "matrix")
	if err != nil {
		t.Fatalf("LoadTable(matrix) error = %v", err)
	}
	if diff := cmp.Diff(replacement, got); diff != "" {
		t.Errorf("LoadTable(matrix) mismatch (-want +got):\n%s", diff)
	}

	// Old rows must be gone with the old table.
	rows, err := db.CountRows(ctx)
	if err != nil {
		t.Fatalf("CountRows() error = %v", err)
	}
	if rows != 3 {
		t.Errorf("CountRows() = %d, want 3", rows)
	}
}

func TestListTables(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	if _, err := db.ImportTables(ctx, sampleSet()); err != nil {
		t.Fatalf("ImportTables() error = %v", err)
	}

	infos, err := db.ListTables(ctx)
	if err != nil {
		t.Fatalf("ListTables() error = %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("ListTables() returned %d tables, want 2", len(infos))
	}
	if infos[0].Name != "matrix" || infos[1].Name != "maya_birthday" {
		t.Errorf("ListTables() order = %s, %s", infos[0].Name, infos[1].Name)
	}
	if infos[0].RowCount != 3 {
		t.Errorf("matrix RowCount = %d, want 3", infos[0].RowCount)
	}
	if infos[1].Source != "maya_birthday.xlsx" {
		t.Errorf("maya_birthday Source = %q", infos[1].Source)
	}
	if infos[0].ImportedAt == nil {
		t.Error("ImportedAt not parsed")
	}

	count, err := db.CountTables(ctx)
	if err != nil || count != 2 {
		t.Errorf("CountTables() = %d, %v; want 2, nil", count, err)
	}
}

func TestLoadTable_NotFound(t *testing.T) {
	db := testDB(t)

	_, err := db.LoadTable(context.Background(), "missing")
	if !IsNotFound(err) {
		t.Errorf("LoadTable(missing) error = %v, want not found", err)
	}
}

func TestLoadAll(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	if _, err := db.ImportTables(ctx, sampleSet()); err != nil {
		t.Fatalf("ImportTables() error = %v", err)
	}

	set, err := db.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	if diff := cmp.Diff(sampleSet(), set); diff != "" {
		t.Errorf("LoadAll() mismatch (-want +got):\n%s", diff)
	}
}

func TestOpen_ReadOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reference.db")
	ctx := context.Background()

	db, err := Open(DefaultConfig(path), quietLogger())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if _, err := db.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if _, err := db.ImportTables(ctx, sampleSet()); err != nil {
		t.Fatalf("ImportTables() error = %v", err)
	}
	db.Close()

	ro, err := Open(ReadOnlyConfig(path), quietLogger())
	if err != nil {
		t.Fatalf("Open(read-only) error = %v", err)
	}
	defer ro.Close()

	set, err := ro.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	if len(set) != 2 {
		t.Errorf("LoadAll() returned %d tables, want 2", len(set))
	}

	if _, err := ro.ImportTables(ctx, sampleSet()); err == nil {
		t.Error("ImportTables() on read-only store succeeded, want error")
	}
}

func TestOpen_ReadOnlyMissingFile(t *testing.T) {
	_, err := Open(ReadOnlyConfig(filepath.Join(t.TempDir(), "nope.db")), quietLogger())
	if err == nil {
		t.Error("Open(read-only) on missing file succeeded, want error")
	}
}
