package monitoring

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileWatcherSeesWrites(t *testing.T) {
	dir := t.TempDir()
	plan := filepath.Join(dir, "plan.json")
	require.NoError(t, os.WriteFile(plan, []byte("{}"), 0o644))

	fw, err := NewFileWatcher([]string{plan})
	require.NoError(t, err)
	defer fw.Close()

	require.NoError(t, os.WriteFile(plan, []byte(`{"events":[]}`), 0o644))

	select {
	case ev := <-fw.Events():
		abs, _ := filepath.Abs(plan)
		assert.Equal(t, abs, ev.Path)
	case <-time.After(2 * time.Second):
		t.Fatal("No event for a watched file write")
	}
}

func TestFileWatcherIgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	plan := filepath.Join(dir, "plan.json")
	other := filepath.Join(dir, "other.json")
	require.NoError(t, os.WriteFile(plan, []byte("{}"), 0o644))

	fw, err := NewFileWatcher([]string{plan})
	require.NoError(t, err)
	defer fw.Close()

	require.NoError(t, os.WriteFile(other, []byte("{}"), 0o644))

	select {
	case ev := <-fw.Events():
		t.Fatalf("Unexpected event for unwatched file: %+v", ev)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestFileWatcherSeesAtomicReplace(t *testing.T) {
	dir := t.TempDir()
	plan := filepath.Join(dir, "plan.json")
	staging := filepath.Join(dir, "plan.json.tmp")
	require.NoError(t, os.WriteFile(plan, []byte("{}"), 0o644))

	fw, err := NewFileWatcher([]string{plan})
	require.NoError(t, err)
	defer fw.Close()

	require.NoError(t, os.WriteFile(staging, []byte(`{"events":[]}`), 0o644))
	require.NoError(t, os.Rename(staging, plan))

	select {
	case <-fw.Events():
	case <-time.After(2 * time.Second):
		t.Fatal("No event for an atomic replace")
	}
}
