package handler

import (
	"github.com/Baekshook/CRM-Projects-sub003/internal/apperr"
	"github.com/Baekshook/CRM-Projects-sub003/internal/storage"
	"github.com/Baekshook/CRM-Projects-sub003/prometheus"
	"github.com/labstack/echo/v4"
)

// files is the storage engine shared by the file handlers, injected at startup.
var files *storage.FileStore

// InitFileStore wires the file storage engine into the handlers.
func InitFileStore(fs *storage.FileStore) {
	files = fs
}

func kindLabel(kind apperr.Kind) string {
	switch kind {
	case apperr.KindValidation:
		return "validation"
	case apperr.KindNotFound:
		return "not_found"
	case apperr.KindConflict:
		return "conflict"
	case apperr.KindStorage:
		return "storage"
	case apperr.KindAuth:
		return "auth"
	default:
		return "internal"
	}
}

// fail renders an application error as the JSON error response and records
// it in the error counter.
func fail(c echo.Context, err error) error {
	prometheus.RecordAppError(kindLabel(apperr.KindOf(err)))
	return c.JSON(apperr.StatusCode(err), echo.Map{"error": apperr.Message(err)})
}
