package history

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T, max int) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.yaml")
	s, err := Open(path, max)
	require.NoError(t, err)
	return s, path
}

func payloads(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Payload
	}
	return out
}

func TestOpen_MissingFile(t *testing.T) {
	s, _ := openTemp(t, 0)
	assert.Empty(t, s.List())
	assert.Equal(t, DefaultMaxEntries, s.maxEntries)
}

func TestSave_NewestFirstAndDeduplicated(t *testing.T) {
	s, _ := openTemp(t, 10)

	_, err := s.Save("A", "Toko A")
	require.NoError(t, err)
	_, err = s.Save("B", "Toko B")
	require.NoError(t, err)
	_, err = s.Save("A", "Toko A")
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B"}, payloads(s.List()))
}

func TestSave_Bounded(t *testing.T) {
	s, _ := openTemp(t, 3)

	for i := 0; i < 5; i++ {
		_, err := s.Save(fmt.Sprintf("P%d", i), "M")
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"P4", "P3", "P2"}, payloads(s.List()))
}

func TestSave_Persists(t *testing.T) {
	s, path := openTemp(t, 10)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	saved, err := s.Save("A", "Toko A")
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)

	reopened, err := Open(path, 10)
	require.NoError(t, err)
	require.Len(t, reopened.List(), 1)

	got := reopened.List()[0]
	assert.Equal(t, saved.ID, got.ID)
	assert.Equal(t, "Toko A", got.MerchantName)
	assert.True(t, fixed.Equal(got.CreatedAt))
}

func TestOpen_TruncatesToLimit(t *testing.T) {
	s, path := openTemp(t, 5)
	for i := 0; i < 5; i++ {
		_, err := s.Save(fmt.Sprintf("P%d", i), "M")
		require.NoError(t, err)
	}

	reopened, err := Open(path, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"P4", "P3"}, payloads(reopened.List()))
}

func TestRemoveAndGet(t *testing.T) {
	s, path := openTemp(t, 10)
	a, err := s.Save("A", "Toko A")
	require.NoError(t, err)
	_, err = s.Save("B", "Toko B")
	require.NoError(t, err)

	got, err := s.Get(a.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", got.Payload)

	require.NoError(t, s.Remove(a.ID))
	assert.Equal(t, []string{"B"}, payloads(s.List()))

	assert.ErrorIs(t, s.Remove(a.ID), ErrNotFound)
	_, err = s.Get(a.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	reopened, err := Open(path, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, payloads(reopened.List()))
}

func TestClear(t *testing.T) {
	s, path := openTemp(t, 10)
	_, err := s.Save("A", "Toko A")
	require.NoError(t, err)

	require.NoError(t, s.Clear())
	assert.Empty(t, s.List())

	reopened, err := Open(path, 10)
	require.NoError(t, err)
	assert.Empty(t, reopened.List())
}

func TestOpen_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.yaml")
	require.NoError(t, os.WriteFile(path, []byte("entries: [\n"), 0o644))

	_, err := Open(path, 10)
	assert.Error(t, err)
}

func TestSave_Concurrent(t *testing.T) {
	s, _ := openTemp(t, 50)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.Save(fmt.Sprintf("P%d", i), "M")
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Len(t, s.List(), 20)
}
