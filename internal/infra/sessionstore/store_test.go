package sessionstore

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskdesk/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "taskdesk", "session.json"))
}

func TestStore_LoadMissing(t *testing.T) {
	s := newTestStore(t)

	got, err := s.Load()

	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_SaveAndLoad(t *testing.T) {
	s := newTestStore(t)
	want := domain.Session{UUID: "u-1", Username: "alice", Token: "tok"}

	require.NoError(t, s.Save(want))
	got, err := s.Load()

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want, *got)

	st, err := os.Stat(s.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), st.Mode().Perm())
	_, err = os.Stat(s.Path() + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestStore_Clear(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save(domain.Session{UUID: "u-1", Token: "tok"}))

	require.NoError(t, s.Clear())
	got, err := s.Load()
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.NoError(t, s.Clear(), "clearing twice is fine")
}

func TestStore_EmptySessionReadsAsAnonymous(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save(domain.Session{}))

	got, err := s.Load()

	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_CorruptFile(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0o700))
	require.NoError(t, os.WriteFile(s.Path(), []byte("{"), 0o600))

	_, err := s.Load()

	assert.ErrorContains(t, err, "parse session file")
}

func TestStore_ConcurrentSaves(t *testing.T) {
	s := newTestStore(t)
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Save(domain.Session{UUID: "u", Username: string(rune('a' + i)), Token: "tok"})
		}()
	}
	wg.Wait()

	got, err := s.Load()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "u", got.UUID)
}
