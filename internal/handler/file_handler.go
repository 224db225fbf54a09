package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/Baekshook/CRM-Projects-sub003/internal/apperr"
	"github.com/Baekshook/CRM-Projects-sub003/internal/model"
	"github.com/Baekshook/CRM-Projects-sub003/internal/storage"
	"github.com/Baekshook/CRM-Projects-sub003/pkg/logger"
	"github.com/Baekshook/CRM-Projects-sub003/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// UploadFile accepts a multipart upload and stores it through the file
// storage engine. Form fields: file, owner_type, owner_id, category.
func UploadFile(c echo.Context) error {
	log := logger.FromEcho(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return fail(c, apperr.Validation("file is required"))
	}

	ownerType := model.OwnerType(c.FormValue("owner_type"))
	ownerID, err := strconv.ParseUint(c.FormValue("owner_id"), 10, 32)
	if err != nil || ownerID == 0 {
		return fail(c, apperr.Validation("owner_id is required"))
	}
	category := model.FileCategory(c.FormValue("category"))
	if category == "" {
		category = model.FileCategoryOther
	}

	src, err := fileHeader.Open()
	if err != nil {
		return fail(c, apperr.Internal("failed to read upload", err))
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		return fail(c, apperr.Internal("failed to read upload", err))
	}

	file, err := files.Store(c.Request().Context(), storage.StoreInput{
		Filename:     fileHeader.Filename,
		OriginalName: fileHeader.Filename,
		MimeType:     fileHeader.Header.Get("Content-Type"),
		OwnerType:    ownerType,
		OwnerID:      uint(ownerID),
		Category:     category,
		Content:      content,
	})
	if err != nil {
		log.Error("File upload failed", zap.String("filename", fileHeader.Filename), zap.Error(err))
		return fail(c, err)
	}

	prometheus.RecordFileUpload(string(file.StorageLocation))
	log.Info("File uploaded",
		zap.Uint("id", file.ID),
		zap.String("location", string(file.StorageLocation)),
		zap.Int64("size", file.Size))
	return c.JSON(http.StatusCreated, file)
}

// GetFile returns file metadata
func GetFile(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return fail(c, apperr.Validation("invalid file ID"))
	}

	file, err := files.Get(c.Request().Context(), uint(id))
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, file)
}

// GetFileData streams the file content regardless of where it is stored
func GetFileData(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return fail(c, apperr.Validation("invalid file ID"))
	}

	file, content, err := files.Retrieve(c.Request().Context(), uint(id))
	if err != nil {
		log.Error("File retrieval failed", zap.Uint64("id", id), zap.Error(err))
		return fail(c, err)
	}

	mimeType := file.MimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	c.Response().Header().Set("Content-Disposition", `attachment; filename="`+file.OriginalName+`"`)
	return c.Blob(http.StatusOK, mimeType, content)
}

// UpdateFileMetadata renames or recategorizes a file, guarded by the
// optimistic version counter supplied by the caller.
func UpdateFileMetadata(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return fail(c, apperr.Validation("invalid file ID"))
	}

	var req struct {
		Version  int    `json:"version"`
		Filename string `json:"filename"`
		Category string `json:"category"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, apperr.Validation("invalid request"))
	}
	if req.Version < 1 {
		return fail(c, apperr.Validation("version is required"))
	}

	file, err := files.UpdateMetadata(c.Request().Context(), uint(id), req.Version, storage.MetadataUpdate{
		Filename: req.Filename,
		Category: model.FileCategory(req.Category),
	})
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, file)
}

// DeleteFile removes the record and any backing object
func DeleteFile(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return fail(c, apperr.Validation("invalid file ID"))
	}

	if err := files.Delete(c.Request().Context(), uint(id)); err != nil {
		log.Error("File deletion failed", zap.Uint64("id", id), zap.Error(err))
		return fail(c, err)
	}

	log.Info("File deleted", zap.Uint64("id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "file deleted"})
}
