// Package businessflow contains the core business logic and use cases for estimation and portfolio workflows
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Admin-related errors
	ErrAdminNotFound         = errors.New("admin not found")
	ErrAdminInactive         = errors.New("admin account is inactive")
	ErrIncorrectPassword     = errors.New("incorrect password")
	ErrWeakBootstrapPassword = errors.New("bootstrap admin password is too short")

	// Estimation-related errors
	ErrUnknownProjectType  = errors.New("unknown project type")
	ErrUnknownServiceClass = errors.New("unknown service class")
	ErrAreaOutOfRange      = errors.New("area is out of the accepted range")
	ErrAreaNotANumber      = errors.New("area is not a finite number")

	// Portfolio-related errors
	ErrCategoryNotFound     = errors.New("category not found")
	ErrCategoryNameRequired = errors.New("category name is required")
	ErrWorkNotFound         = errors.New("work not found")
	ErrWorkTitleRequired    = errors.New("work title is required")
	ErrWorkImageRequired    = errors.New("work image is required")

	// Image upload errors
	ErrImageTooLarge       = errors.New("image exceeds the maximum allowed size")
	ErrUnsupportedImage    = errors.New("unsupported image format")
	ErrImageRecordMismatch = errors.New("stored image does not match its record")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

func IsAdminNotFound(err error) bool {
	return errors.Is(err, ErrAdminNotFound)
}

func IsAdminInactive(err error) bool {
	return errors.Is(err, ErrAdminInactive)
}

func IsIncorrectPassword(err error) bool {
	return errors.Is(err, ErrIncorrectPassword)
}

func IsUnknownProjectType(err error) bool {
	return errors.Is(err, ErrUnknownProjectType)
}

func IsUnknownServiceClass(err error) bool {
	return errors.Is(err, ErrUnknownServiceClass)
}

func IsAreaOutOfRange(err error) bool {
	return errors.Is(err, ErrAreaOutOfRange)
}

func IsCategoryNotFound(err error) bool {
	return errors.Is(err, ErrCategoryNotFound)
}

func IsWorkNotFound(err error) bool {
	return errors.Is(err, ErrWorkNotFound)
}

func IsImageTooLarge(err error) bool {
	return errors.Is(err, ErrImageTooLarge)
}

func IsUnsupportedImage(err error) bool {
	return errors.Is(err, ErrUnsupportedImage)
}
