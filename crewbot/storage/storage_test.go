package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groundcrew/crewbot/crewbot/crew"
)

func backends(t *testing.T) map[string]Backend {
	t.Helper()

	sqlite, err := NewSQLite(context.Background(), filepath.Join(t.TempDir(), "crew.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close() })

	return map[string]Backend{
		"file":   NewFile(filepath.Join(t.TempDir(), "data", "bot_data.json")),
		"memory": NewMemory(),
		"sqlite": sqlite,
	}
}

func TestBackends_ReadWrite(t *testing.T) {
	for name, backend := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := backend.Read(ctx)
			require.ErrorIs(t, err, crew.ErrNoDocument)

			require.NoError(t, backend.Write(ctx, []byte(`{"version":1}`)))
			require.NoError(t, backend.Write(ctx, []byte(`{"version":1,"config":{}}`)))

			data, err := backend.Read(ctx)
			require.NoError(t, err)
			assert.Equal(t, `{"version":1,"config":{}}`, string(data))
		})
	}
}

func TestBackends_StoreRoundTrip(t *testing.T) {
	for name, backend := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			clock := crew.ClockFunc(func() time.Time {
				return time.Date(2025, 3, 14, 18, 0, 0, 0, time.UTC)
			})

			shifts := crew.NewShiftTracker(crew.NewStore(backend), clock)
			_, err := shifts.StartShift(ctx, "g1", "u1", "Alice", "EGLL")
			require.NoError(t, err)
			_, err = shifts.AdjustTotal(ctx, "g1", "u2", "Bob", 75)
			require.NoError(t, err)

			reloaded := crew.NewShiftTracker(crew.NewStore(backend), clock)
			active, err := reloaded.Active(ctx, "g1", "u1")
			require.NoError(t, err)
			require.NotNil(t, active)
			assert.Equal(t, "EGLL", active.Airport)

			total, err := reloaded.Total(ctx, "g1", "u2")
			require.NoError(t, err)
			assert.Equal(t, 75, total)
		})
	}
}

func TestFile_WriteLeavesNoTemporaryFiles(t *testing.T) {
	dir := t.TempDir()
	f := NewFile(filepath.Join(dir, "bot_data.json"))

	for i := 0; i < 3; i++ {
		require.NoError(t, f.Write(context.Background(), []byte(`{}`)))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "bot_data.json", entries[0].Name())
}

func TestFile_WriteFailureKeepsPreviousDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bot_data.json")
	f := NewFile(path)
	require.NoError(t, f.Write(context.Background(), []byte(`{"version":1}`)))

	// A directory in place of the target makes the rename fail.
	blocked := NewFile(filepath.Join(dir, "blocked"))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "blocked", "child"), 0o755))
	require.Error(t, blocked.Write(context.Background(), []byte(`{}`)))

	data, err := f.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, `{"version":1}`, string(data))
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "file", cfg: Config{Backend: "file", File: FileConfig{Path: "bot_data.json"}}},
		{name: "file without path", cfg: Config{Backend: "file"}, wantErr: true},
		{name: "memory", cfg: Config{Backend: "memory"}},
		{name: "redis without addr", cfg: Config{Backend: "redis"}, wantErr: true},
		{name: "spaces without bucket", cfg: Config{Backend: "spaces", Spaces: SpacesConfig{Region: "ams3"}}, wantErr: true},
		{name: "mongo", cfg: Config{Backend: "mongo", Mongo: MongoConfig{URI: "mongodb://localhost"}}},
		{name: "unknown", cfg: Config{Backend: "floppy"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
