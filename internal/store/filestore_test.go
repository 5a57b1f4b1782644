package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codec25/Studio-flow/internal/model"
)

func newTestFileStore(t *testing.T) *FileStore {
	t.Helper()
	fs, err := NewFileStore(filepath.Join(t.TempDir(), "data", "state.json"))
	require.NoError(t, err)
	return fs
}

func TestFileStoreLoadMissingFile(t *testing.T) {
	fs := newTestFileStore(t)

	st, err := fs.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, st.Packages, 3)
	assert.Equal(t, model.DefaultSettings(), *st.Settings)
	assert.Empty(t, st.Students)
}

func TestFileStoreLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	fs, err := NewFileStore(path)
	require.NoError(t, err)

	st, err := fs.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.DefaultSettings(), *st.Settings)
	assert.Empty(t, st.Students)
}

func TestFileStoreRoundTrip(t *testing.T) {
	fs := newTestFileStore(t)
	ctx := context.Background()

	st := model.EmptyState()
	st.Students = append(st.Students, model.Student{
		ID:      "stu_1",
		Name:    "Anna",
		Email:   "anna@example.com",
		Credits: 5,
	})
	st.Settings.TaxRate = 0.15
	require.NoError(t, fs.Save(ctx, st))

	loaded, err := fs.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded.Students, 1)
	assert.Equal(t, "anna@example.com", loaded.Students[0].Email)
	assert.Equal(t, 5, loaded.Students[0].Credits)
	assert.Equal(t, 0.15, loaded.Settings.TaxRate)
}

func TestFileStoreSaveShrinksFile(t *testing.T) {
	fs := newTestFileStore(t)
	ctx := context.Background()

	big := model.EmptyState()
	for i := 0; i < 50; i++ {
		big.Ledger = append(big.Ledger, model.LedgerEntry{
			ID:          "tx_padding",
			Description: "a fairly long description to inflate the document size",
		})
	}
	require.NoError(t, fs.Save(ctx, big))

	small := model.EmptyState()
	require.NoError(t, fs.Save(ctx, small))

	loaded, err := fs.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded.Ledger)
}

func TestFileStoreSaveLeavesNoTempFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	fs, err := NewFileStore(path)
	require.NoError(t, err)

	require.NoError(t, fs.Save(context.Background(), model.EmptyState()))

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestFileStoreRoundTripsZeroSettings(t *testing.T) {
	fs := newTestFileStore(t)
	ctx := context.Background()

	st := model.EmptyState()
	*st.Settings = model.Settings{}
	require.NoError(t, fs.Save(ctx, st))

	loaded, err := fs.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.Settings{}, *loaded.Settings)
}
