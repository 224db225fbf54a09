package storage

import (
	"context"
	"fmt"

	"github.com/Baekshook/CRM-Projects-sub003/internal/apperr"
	"github.com/Baekshook/CRM-Projects-sub003/internal/model"
	"github.com/Baekshook/CRM-Projects-sub003/pkg/config"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FileStore persists uploaded files, deciding per upload whether content
// goes inline into the database record or out to object storage, and
// exposes a uniform retrieval path regardless of location.
type FileStore struct {
	db        *gorm.DB
	objects   ObjectStore
	mode      string
	inlineMax int64
}

// NewFileStore constructs a FileStore. objects may be nil when the
// configured mode is "database".
func NewFileStore(db *gorm.DB, objects ObjectStore, cfg *config.StorageConfig) *FileStore {
	return &FileStore{
		db:        db,
		objects:   objects,
		mode:      cfg.Mode,
		inlineMax: cfg.InlineMaxBytes,
	}
}

// StoreInput carries an upload.
type StoreInput struct {
	Filename     string
	OriginalName string
	MimeType     string
	OwnerType    model.OwnerType
	OwnerID      uint
	Category     model.FileCategory
	Content      []byte
}

// location applies the configured storage policy to an upload size.
func (s *FileStore) location(size int64) model.StorageLocation {
	switch s.mode {
	case "database":
		return model.StorageLocationDatabase
	case "external":
		return model.StorageLocationExternal
	default: // auto
		if size > s.inlineMax {
			return model.StorageLocationExternal
		}
		return model.StorageLocationDatabase
	}
}

// Store persists an upload. For external storage the object is written
// first; if the record insert then fails the object is removed again so no
// record ever points at a missing object and no object outlives its record.
func (s *FileStore) Store(ctx context.Context, in StoreInput) (*model.File, error) {
	if len(in.Content) == 0 {
		return nil, apperr.Validation("file content is required")
	}

	file := &model.File{
		Filename:     in.Filename,
		OriginalName: in.OriginalName,
		MimeType:     in.MimeType,
		Size:         int64(len(in.Content)),
		OwnerType:    in.OwnerType,
		OwnerID:      in.OwnerID,
		Category:     in.Category,
		Version:      1,
	}

	switch s.location(file.Size) {
	case model.StorageLocationExternal:
		if s.objects == nil {
			return nil, apperr.Storage("object storage is not configured", nil)
		}
		file.StorageLocation = model.StorageLocationExternal
		file.StorageKey = fmt.Sprintf("%s/%d/%s", in.OwnerType, in.OwnerID, uuid.New().String())
	default:
		file.StorageLocation = model.StorageLocationDatabase
		file.Content = in.Content
	}

	if err := file.Validate(); err != nil {
		return nil, err
	}

	if file.StorageLocation == model.StorageLocationExternal {
		if err := s.objects.Put(ctx, file.StorageKey, in.Content, in.MimeType); err != nil {
			return nil, apperr.Storage("file upload failed", err)
		}
		if err := s.db.WithContext(ctx).Create(file).Error; err != nil {
			// Compensate so the failed create does not leave an orphaned
			// object behind. A failed removal is reported, not swallowed.
			if rmErr := s.objects.Remove(ctx, file.StorageKey); rmErr != nil {
				return nil, apperr.Storage(
					fmt.Sprintf("file record creation failed and object %q was left behind", file.StorageKey),
					rmErr)
			}
			return nil, apperr.Internal("file record creation failed", err)
		}
		return file, nil
	}

	if err := s.db.WithContext(ctx).Create(file).Error; err != nil {
		return nil, apperr.Internal("file record creation failed", err)
	}
	return file, nil
}

// Get returns the file metadata.
func (s *FileStore) Get(ctx context.Context, id uint) (*model.File, error) {
	var file model.File
	if err := s.db.WithContext(ctx).First(&file, id).Error; err != nil {
		return nil, apperr.FromDB(err, "file not found", "")
	}
	return &file, nil
}

// Retrieve returns the file metadata together with its content, reading
// inline bytes or fetching from object storage depending on where the
// record says the content lives. A missing record is NotFound; a backend
// failure on an existing record is a distinct Storage error.
func (s *FileStore) Retrieve(ctx context.Context, id uint) (*model.File, []byte, error) {
	file, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	if file.StorageLocation == model.StorageLocationDatabase {
		return file, file.Content, nil
	}

	if s.objects == nil {
		return nil, nil, apperr.Storage("file content unavailable", nil)
	}
	content, err := s.objects.Get(ctx, file.StorageKey)
	if err != nil {
		return nil, nil, apperr.Storage("file content unavailable", err)
	}
	return file, content, nil
}

// Delete removes the record and, for external files, the backing object.
// The record goes first: if its delete fails the object is untouched, and
// if the object removal then fails the orphan is reported rather than
// silently ignored.
func (s *FileStore) Delete(ctx context.Context, id uint) error {
	file, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(&model.File{}, file.ID).Error; err != nil {
		return apperr.Internal("file record deletion failed", err)
	}

	if file.StorageLocation == model.StorageLocationExternal && s.objects != nil {
		if err := s.objects.Remove(ctx, file.StorageKey); err != nil {
			return apperr.Storage(
				fmt.Sprintf("file record deleted but object %q was left behind", file.StorageKey),
				err)
		}
	}
	return nil
}

// MetadataUpdate carries the mutable file metadata fields.
type MetadataUpdate struct {
	Filename string
	Category model.FileCategory
}

// UpdateMetadata applies a metadata change guarded by the optimistic
// version counter. Content itself is immutable after upload.
func (s *FileStore) UpdateMetadata(ctx context.Context, id uint, version int, in MetadataUpdate) (*model.File, error) {
	if in.Category != "" && !in.Category.Valid() {
		return nil, apperr.Validation("unknown file category")
	}

	updates := map[string]interface{}{"version": version + 1}
	if in.Filename != "" {
		updates["filename"] = in.Filename
	}
	if in.Category != "" {
		updates["category"] = in.Category
	}

	res := s.db.WithContext(ctx).Model(&model.File{}).
		Where("id = ? AND version = ?", id, version).
		Updates(updates)
	if res.Error != nil {
		return nil, apperr.Internal("file metadata update failed", res.Error)
	}
	if res.RowsAffected == 0 {
		// Either the record is gone or someone else bumped the version.
		if _, err := s.Get(ctx, id); err != nil {
			return nil, err
		}
		return nil, apperr.Conflict("file was modified concurrently")
	}
	return s.Get(ctx, id)
}
