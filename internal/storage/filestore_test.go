package storage

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Baekshook/CRM-Projects-sub003/internal/apperr"
	"github.com/Baekshook/CRM-Projects-sub003/internal/model"
	"github.com/Baekshook/CRM-Projects-sub003/pkg/config"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.File{}))
	return db
}

func newTestStore(t *testing.T, mode string, inlineMax int64) (*FileStore, *MemoryStore) {
	t.Helper()
	objects := NewMemoryStore()
	store := NewFileStore(newTestDB(t), objects, &config.StorageConfig{
		Mode:           mode,
		InlineMaxBytes: inlineMax,
	})
	return store, objects
}

func upload(content []byte) StoreInput {
	return StoreInput{
		Filename:     "recording.mp4",
		OriginalName: "recording.mp4",
		MimeType:     "video/mp4",
		OwnerType:    model.OwnerTypeSinger,
		OwnerID:      7,
		Category:     model.FileCategoryPerformance,
		Content:      content,
	}
}

func TestFileStoreAutoPolicy(t *testing.T) {
	ctx := context.Background()
	store, objects := newTestStore(t, "auto", 1024)

	t.Run("small upload stays in the database", func(t *testing.T) {
		file, err := store.Store(ctx, upload([]byte("small")))
		require.NoError(t, err)
		assert.Equal(t, model.StorageLocationDatabase, file.StorageLocation)
		assert.Empty(t, file.StorageKey)
		assert.Equal(t, 0, objects.Len())
	})

	t.Run("upload over the threshold goes external", func(t *testing.T) {
		big := bytes.Repeat([]byte("x"), 2048)
		file, err := store.Store(ctx, upload(big))
		require.NoError(t, err)
		assert.Equal(t, model.StorageLocationExternal, file.StorageLocation)
		assert.True(t, strings.HasPrefix(file.StorageKey, "singer/7/"))
		assert.Equal(t, 1, objects.Len())

		// Stored metadata never carries inline content for external files.
		stored, err := store.Get(ctx, file.ID)
		require.NoError(t, err)
		assert.Empty(t, stored.Content)
		assert.Equal(t, int64(2048), stored.Size)
	})

	t.Run("upload exactly at the threshold stays inline", func(t *testing.T) {
		file, err := store.Store(ctx, upload(bytes.Repeat([]byte("x"), 1024)))
		require.NoError(t, err)
		assert.Equal(t, model.StorageLocationDatabase, file.StorageLocation)
	})

	t.Run("empty upload is rejected", func(t *testing.T) {
		_, err := store.Store(ctx, upload(nil))
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})
}

func TestFileStoreForcedModes(t *testing.T) {
	ctx := context.Background()

	t.Run("database mode keeps large uploads inline", func(t *testing.T) {
		store, objects := newTestStore(t, "database", 10)
		file, err := store.Store(ctx, upload(bytes.Repeat([]byte("x"), 5000)))
		require.NoError(t, err)
		assert.Equal(t, model.StorageLocationDatabase, file.StorageLocation)
		assert.Equal(t, 0, objects.Len())
	})

	t.Run("external mode sends small uploads out", func(t *testing.T) {
		store, objects := newTestStore(t, "external", 1<<20)
		file, err := store.Store(ctx, upload([]byte("tiny")))
		require.NoError(t, err)
		assert.Equal(t, model.StorageLocationExternal, file.StorageLocation)
		assert.Equal(t, 1, objects.Len())
	})

	t.Run("external mode without a backend fails cleanly", func(t *testing.T) {
		store := NewFileStore(newTestDB(t), nil, &config.StorageConfig{Mode: "external"})
		_, err := store.Store(ctx, upload([]byte("tiny")))
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindStorage))
	})
}

func TestFileStoreRetrieve(t *testing.T) {
	ctx := context.Background()
	store, objects := newTestStore(t, "auto", 16)

	t.Run("round trip is transparent to the caller", func(t *testing.T) {
		inline := []byte("short")
		external := bytes.Repeat([]byte("y"), 64)

		small, err := store.Store(ctx, upload(inline))
		require.NoError(t, err)
		big, err := store.Store(ctx, upload(external))
		require.NoError(t, err)

		_, content, err := store.Retrieve(ctx, small.ID)
		require.NoError(t, err)
		assert.Equal(t, inline, content)

		_, content, err = store.Retrieve(ctx, big.ID)
		require.NoError(t, err)
		assert.Equal(t, external, content)

		// Retrieval does not consume: a second read returns the same bytes.
		_, content, err = store.Retrieve(ctx, big.ID)
		require.NoError(t, err)
		assert.Equal(t, external, content)
	})

	t.Run("missing record is not found", func(t *testing.T) {
		_, _, err := store.Retrieve(ctx, 9999)
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})

	t.Run("missing backend object is a storage error, not not-found", func(t *testing.T) {
		file, err := store.Store(ctx, upload(bytes.Repeat([]byte("z"), 64)))
		require.NoError(t, err)
		require.NoError(t, objects.Remove(ctx, file.StorageKey))

		_, _, err = store.Retrieve(ctx, file.ID)
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindStorage))
	})
}

func TestFileStoreCompensation(t *testing.T) {
	ctx := context.Background()

	t.Run("upload failure leaves no record", func(t *testing.T) {
		store, objects := newTestStore(t, "external", 0)
		objects.FailPut = errors.New("connection refused")

		_, err := store.Store(ctx, upload([]byte("payload")))
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindStorage))
		assert.Equal(t, 0, objects.Len())

		var count int64
		require.NoError(t, store.db.Model(&model.File{}).Count(&count).Error)
		assert.Zero(t, count)
	})
}

func TestFileStoreDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("deleting an external file removes the object", func(t *testing.T) {
		store, objects := newTestStore(t, "external", 0)
		file, err := store.Store(ctx, upload([]byte("payload")))
		require.NoError(t, err)
		require.Equal(t, 1, objects.Len())

		require.NoError(t, store.Delete(ctx, file.ID))
		assert.Equal(t, 0, objects.Len())

		_, err = store.Get(ctx, file.ID)
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})

	t.Run("orphaned object is reported", func(t *testing.T) {
		store, objects := newTestStore(t, "external", 0)
		file, err := store.Store(ctx, upload([]byte("payload")))
		require.NoError(t, err)

		objects.FailRemove = errors.New("backend unavailable")
		err = store.Delete(ctx, file.ID)
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindStorage))
		assert.Contains(t, err.Error(), file.StorageKey)

		// The record is gone even though the object lingers.
		_, err = store.Get(ctx, file.ID)
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})

	t.Run("deleting a missing file is not found", func(t *testing.T) {
		store, _ := newTestStore(t, "database", 0)
		err := store.Delete(ctx, 42)
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})
}

func TestFileStoreUpdateMetadata(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t, "database", 0)

	file, err := store.Store(ctx, upload([]byte("payload")))
	require.NoError(t, err)
	require.Equal(t, 1, file.Version)

	t.Run("update bumps the version", func(t *testing.T) {
		updated, err := store.UpdateMetadata(ctx, file.ID, 1, MetadataUpdate{
			Filename: "renamed.mp4",
			Category: model.FileCategoryPortfolio,
		})
		require.NoError(t, err)
		assert.Equal(t, "renamed.mp4", updated.Filename)
		assert.Equal(t, model.FileCategoryPortfolio, updated.Category)
		assert.Equal(t, 2, updated.Version)
	})

	t.Run("stale version is a conflict", func(t *testing.T) {
		_, err := store.UpdateMetadata(ctx, file.ID, 1, MetadataUpdate{Filename: "late.mp4"})
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindConflict))

		// The stale writer lost; the first rename stands.
		current, err := store.Get(ctx, file.ID)
		require.NoError(t, err)
		assert.Equal(t, "renamed.mp4", current.Filename)
	})

	t.Run("unknown file is not found", func(t *testing.T) {
		_, err := store.UpdateMetadata(ctx, 9999, 1, MetadataUpdate{Filename: "x"})
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})

	t.Run("unknown category is rejected", func(t *testing.T) {
		_, err := store.UpdateMetadata(ctx, file.ID, 2, MetadataUpdate{Category: "misc"})
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})
}
