package upload

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackup_RunOnce(t *testing.T) {
	src, dest := t.TempDir(), t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "a.png"), []byte("a"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(src, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "nested", "b.png"), []byte("b"), 0o644))

	old := filepath.Join(dest, "2000-01-01_00-00-00")
	require.NoError(t, os.MkdirAll(old, 0o755))
	past := time.Now().Add(-30 * 24 * time.Hour)
	require.NoError(t, os.Chtimes(old, past, past))

	b := &Backup{Src: src, Dest: dest, Retention: 96 * time.Hour}
	out, err := b.RunOnce()
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(out, "nested", "b.png"))
	require.NoError(t, err)
	assert.Equal(t, "b", string(data))
	assert.FileExists(t, filepath.Join(out, "a.png"))
	assert.NoDirExists(t, old)
}

func TestBackup_RunOnceMissingSource(t *testing.T) {
	b := &Backup{Src: filepath.Join(t.TempDir(), "missing"), Dest: t.TempDir()}
	_, err := b.RunOnce()
	assert.Error(t, err)
}

func TestBackup_NextRun(t *testing.T) {
	loc := time.UTC
	b := &Backup{Hour: 2}

	b.now = func() time.Time { return time.Date(2024, 5, 1, 1, 0, 0, 0, loc) }
	assert.Equal(t, time.Date(2024, 5, 1, 2, 0, 0, 0, loc), b.nextRun())

	b.now = func() time.Time { return time.Date(2024, 5, 1, 2, 0, 0, 0, loc) }
	assert.Equal(t, time.Date(2024, 5, 2, 2, 0, 0, 0, loc), b.nextRun())
}

func TestBackup_RunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		(&Backup{Src: t.TempDir(), Dest: t.TempDir(), Hour: 2}).Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
