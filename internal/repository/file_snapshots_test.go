package repository_test

import (
	"path/filepath"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSnapshots_SaveLoad(t *testing.T) {
	tests := []struct {
		name      string
		ownerID   string
		items     []domain.CartItem
		wantError string
	}{
		{
			name:    "round trip with items: ok",
			ownerID: gofakeit.UUID(),
			items: []domain.CartItem{
				randomCartItem(),
				randomCartItem(),
			},
		},
		{
			name:    "round trip empty snapshot: ok",
			ownerID: gofakeit.UUID(),
			items:   []domain.CartItem{},
		},
		{
			name:      "save with empty owner ID: error",
			ownerID:   "",
			items:     []domain.CartItem{randomCartItem()},
			wantError: "ownerID is empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := t.Context()

			snapshots, err := repository.NewFileSnapshots(t.TempDir())
			require.NoError(t, err)

			err = snapshots.Save(ctx, tt.ownerID, tt.items)
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)

			loaded, err := snapshots.Load(ctx, tt.ownerID)
			require.NoError(t, err)

			require.Len(t, loaded, len(tt.items))
			for i, expected := range tt.items {
				assertCartItem(t, expected, loaded[i])
			}
		})
	}
}

func TestFileSnapshots_RejectsEscapingOwnerID(t *testing.T) {
	ctx := t.Context()

	parent := t.TempDir()
	dir := filepath.Join(parent, "snapshots")

	snapshots, err := repository.NewFileSnapshots(dir)
	require.NoError(t, err)

	for _, ownerID := range []string{"../escaped", "..", ".", `..\escaped`, "a/b"} {
		t.Run(ownerID, func(t *testing.T) {
			err := snapshots.Save(ctx, ownerID, []domain.CartItem{randomCartItem()})
			require.ErrorContains(t, err, "not a valid file name")

			_, err = snapshots.Load(ctx, ownerID)
			require.ErrorContains(t, err, "not a valid file name")

			err = snapshots.Delete(ctx, ownerID)
			require.ErrorContains(t, err, "not a valid file name")
		})
	}

	// nothing written outside the snapshot directory
	assert.NoFileExists(t, filepath.Join(parent, "escaped.json"))
}

func TestFileSnapshots_LoadAbsent(t *testing.T) {
	snapshots, err := repository.NewFileSnapshots(t.TempDir())
	require.NoError(t, err)

	loaded, err := snapshots.Load(t.Context(), gofakeit.UUID())
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestFileSnapshots_SaveReplacesPrevious(t *testing.T) {
	ctx := t.Context()
	ownerID := gofakeit.UUID()

	snapshots, err := repository.NewFileSnapshots(t.TempDir())
	require.NoError(t, err)

	first := []domain.CartItem{randomCartItem(), randomCartItem()}
	require.NoError(t, snapshots.Save(ctx, ownerID, first))

	second := []domain.CartItem{randomCartItem()}
	require.NoError(t, snapshots.Save(ctx, ownerID, second))

	loaded, err := snapshots.Load(ctx, ownerID)
	require.NoError(t, err)

	require.Len(t, loaded, 1)
	assertCartItem(t, second[0], loaded[0])
}

func TestFileSnapshots_Delete(t *testing.T) {
	ctx := t.Context()
	ownerID := gofakeit.UUID()

	snapshots, err := repository.NewFileSnapshots(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, snapshots.Save(ctx, ownerID, []domain.CartItem{randomCartItem()}))
	require.NoError(t, snapshots.Delete(ctx, ownerID))

	loaded, err := snapshots.Load(ctx, ownerID)
	require.NoError(t, err)
	assert.Empty(t, loaded)

	// deleting again is a no-op
	require.NoError(t, snapshots.Delete(ctx, ownerID))
}
