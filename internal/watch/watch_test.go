package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func startWatcher(t *testing.T, path string, debounce time.Duration) *Watcher {
	t.Helper()
	w, err := New(path, debounce, nil)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	t.Cleanup(func() { _ = w.Stop() })
	// Give the backend a moment to register the directory.
	time.Sleep(50 * time.Millisecond)
	return w
}

func TestWatcherSignalsWrite(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o600))

	w := startWatcher(t, path, 20*time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte(`{"pages": []}`), 0o600))

	select {
	case <-w.Changes():
	case <-time.After(2 * time.Second):
		t.Fatal("no change signalled")
	}
	require.NoError(t, w.Stop())
}

func TestWatcherSignalsAtomicSave(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o600))

	w := startWatcher(t, path, 20*time.Millisecond)

	tmp := filepath.Join(dir, ".doc.json.swp")
	require.NoError(t, os.WriteFile(tmp, []byte(`{"pages": []}`), 0o600))
	require.NoError(t, os.Rename(tmp, path))

	select {
	case <-w.Changes():
	case <-time.After(2 * time.Second):
		t.Fatal("no change signalled for rename over the document")
	}
	require.NoError(t, w.Stop())
}

func TestWatcherDebounces(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o600))

	w := startWatcher(t, path, 150*time.Millisecond)
	for range 5 {
		require.NoError(t, os.WriteFile(path, []byte("{}"), 0o600))
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-w.Changes():
	case <-time.After(2 * time.Second):
		t.Fatal("no change signalled")
	}
	select {
	case <-w.Changes():
		t.Fatal("burst of writes should be signalled once")
	case <-time.After(300 * time.Millisecond):
	}
	require.NoError(t, w.Stop())
}

func TestWatcherIgnoresSiblings(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o600))

	w := startWatcher(t, path, 20*time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte("{}"), 0o600))

	select {
	case <-w.Changes():
		t.Fatal("change to another file was signalled")
	case <-time.After(200 * time.Millisecond):
	}
	require.NoError(t, w.Stop())
}

func TestWatcherStopIsIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o600))

	w, err := New(path, time.Millisecond, nil)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
}

func TestWatcherMissingDirectory(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "missing", "doc.json"), time.Millisecond, nil)
	require.NoError(t, err)
	require.Error(t, w.Start())
	require.NoError(t, w.Stop())
}
