package database

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gorm.io/gorm"

	apperrors "github.com/kbukum/scribe/errors"
)

// IsBusyError reports sqlite lock contention that a retry may resolve.
func IsBusyError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, p := range []string{"database is locked", "database table is locked", "sqlite_busy"} {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// IsUnavailableError reports errors that mean the database file cannot be used at all.
func IsUnavailableError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, p := range []string{"unable to open database file", "sql: database is closed", "disk i/o error", "readonly database"} {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// IsNotFoundError checks if the error is a GORM record-not-found error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// FromDatabase converts a database error to an AppError.
func FromDatabase(err error, resource string) *apperrors.AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := apperrors.AsAppError(err); ok {
		return appErr
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound(resource, "")
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.New(apperrors.ErrCodeConflict,
			fmt.Sprintf("A %s with these details already exists.", resource),
			http.StatusConflict).WithCause(err)
	}

	if IsUnavailableError(err) {
		return apperrors.New(apperrors.ErrCodeDatabaseError,
			"Database is temporarily unavailable. Please try again.",
			http.StatusServiceUnavailable).WithCause(err)
	}

	if IsBusyError(err) {
		return apperrors.New(apperrors.ErrCodeDatabaseError,
			"Database is busy. Please try again.",
			http.StatusServiceUnavailable).WithCause(err)
	}

	return apperrors.DatabaseError(err)
}
