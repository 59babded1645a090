package backend

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cashbook/internal/config"
	"cashbook/internal/core"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Error("FromAppConfig(nil) should fail")
	}

	cfg := &config.Config{DataBackend: "sqlite", SQLiteDBPath: "x.db", DataDir: "d", SnapshotKey: "k"}
	got, err := FromAppConfig(cfg)
	if err != nil {
		t.Fatalf("FromAppConfig() error = %v", err)
	}
	want := Config{Type: SQLiteBackend, SnapshotKey: "k", DataDir: "d", SQLiteDBPath: "x.db"}
	if got != want {
		t.Errorf("FromAppConfig() = %+v, want %+v", got, want)
	}

	if _, err := FromAppConfig(&config.Config{DataBackend: "sheets"}); err == nil {
		t.Error("FromAppConfig() should reject unknown backends")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"memory", Config{Type: MemoryBackend}, false},
		{"file", Config{Type: FileBackend, DataDir: "data"}, false},
		{"file without dir", Config{Type: FileBackend}, true},
		{"sqlite", Config{Type: SQLiteBackend, SQLiteDBPath: "x.db"}, false},
		{"sqlite without path", Config{Type: SQLiteBackend}, true},
		{"unknown", Config{Type: "sheets"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.config.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetBackendTypeStrings(t *testing.T) {
	got := GetBackendTypeStrings()
	if len(got) != 3 || got[0] != "memory" || got[1] != "file" || got[2] != "sqlite" {
		t.Errorf("GetBackendTypeStrings() = %v", got)
	}
}

func TestCreateBackend_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	configs := []Config{
		{Type: MemoryBackend, SnapshotKey: "transactions"},
		{Type: FileBackend, SnapshotKey: "transactions", DataDir: filepath.Join(dir, "files")},
		{Type: SQLiteBackend, SnapshotKey: "transactions", SQLiteDBPath: filepath.Join(dir, "db", "cashbook.db")},
	}

	entries := []core.Entry{
		{ID: 1, Type: core.Income, Description: "Salary", Amount: core.Cents(100000), Category: "Job", Date: core.NewDate(2025, 10, 1)},
	}

	for _, cfg := range configs {
		t.Run(cfg.Type.String(), func(t *testing.T) {
			ctx := context.Background()
			res, err := NewFactory(testLogger()).CreateBackend(ctx, cfg)
			if err != nil {
				t.Fatalf("CreateBackend() error = %v", err)
			}
			defer res.Close()

			if res.Ping != nil {
				if err := res.Ping(ctx); err != nil {
					t.Errorf("Ping() error = %v", err)
				}
			}

			if err := res.Store.Save(ctx, entries); err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			got, err := res.Store.Load(ctx)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if len(got) != 1 || got[0] != entries[0] {
				t.Errorf("Load() = %+v, want %+v", got, entries)
			}
		})
	}
}

func TestCreateBackend_FileLocation(t *testing.T) {
	dir := t.TempDir()
	res, err := NewFactory(testLogger()).CreateBackend(context.Background(), Config{Type: FileBackend, DataDir: dir, SnapshotKey: "ledger"})
	if err != nil {
		t.Fatalf("CreateBackend() error = %v", err)
	}
	if err := res.Store.Save(context.Background(), nil); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "ledger.json")); err != nil {
		t.Errorf("snapshot file not written: %v", err)
	}
}

func TestCreateBackend_StoresLogThroughFactoryLogger(t *testing.T) {
	dir := t.TempDir()
	for _, cfg := range []Config{
		{Type: FileBackend, SnapshotKey: "transactions", DataDir: dir},
		{Type: SQLiteBackend, SnapshotKey: "transactions", SQLiteDBPath: filepath.Join(dir, "cashbook.db")},
	} {
		t.Run(cfg.Type.String(), func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})).
				With("component", "backend")
			res, err := NewFactory(logger).CreateBackend(context.Background(), cfg)
			if err != nil {
				t.Fatalf("CreateBackend() error = %v", err)
			}
			defer res.Close()

			buf.Reset()
			if err := res.Store.Save(context.Background(), nil); err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			if out := buf.String(); !strings.Contains(out, "Snapshot saved") || !strings.Contains(out, "component=backend") {
				t.Errorf("save not logged through the factory logger:\n%s", out)
			}
		})
	}
}

func TestCreateBackend_Invalid(t *testing.T) {
	if _, err := NewFactory(nil).CreateBackend(context.Background(), Config{Type: "sheets"}); err == nil {
		t.Error("CreateBackend() should fail for unknown type")
	}
}

func TestBackendResult_CloseNil(t *testing.T) {
	var r *BackendResult
	if err := r.Close(); err != nil {
		t.Errorf("Close() on nil result = %v", err)
	}
}
