// Package services orchestrates the stores behind every user-facing operation.
package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/anonto42/linkup/backend/internal/repositories"
)

var (
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSelfFollow         = errors.New("cannot follow yourself")
	ErrFileTooLarge       = errors.New("file too large")
	ErrUnsupportedType    = errors.New("unsupported file type")
	ErrUnknownBucket      = errors.New("unknown bucket")
	ErrEmptyContent       = errors.New("content is empty")
	ErrNotParticipant     = errors.New("not a participant")
	ErrParentNotFound     = errors.New("parent comment not found")
	ErrSelfConversation   = errors.New("cannot start a conversation with yourself")
)

// notFound converts store-level missing-row errors into ErrNotFound.
func notFound(what string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, repositories.ErrPostNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", what, err)
}

func requireViewer(userID uint) error {
	if userID == 0 {
		return ErrNotAuthenticated
	}
	return nil
}

func distinct[T comparable](in []T) []T {
	seen := make(map[T]struct{}, len(in))
	out := make([]T, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
