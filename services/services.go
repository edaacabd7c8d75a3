package services

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/talesoul/talesoul-api/apperror"
	"github.com/talesoul/talesoul-api/notifications"
	"github.com/talesoul/talesoul-api/repository"
	"github.com/talesoul/talesoul-api/websocket"
)

// Notifier sends email without blocking the caller.
type Notifier interface {
	Dispatch(msg notifications.Message)
}

// EventPublisher pushes realtime events to connected users.
type EventPublisher interface {
	Publish(event websocket.Event, userIDs ...uint)
}

var (
	imageTypes = map[string]bool{"image/jpeg": true, "image/png": true, "image/jpg": true}
	videoTypes = map[string]bool{"video/mp4": true, "video/mpeg": true, "video/quicktime": true}
)

func lookupErr(err error, notFound string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.NotFound(notFound)
	}
	return apperror.Internal(err)
}

// hideForbidden turns an authorization failure into NotFound so the record's existence is not revealed.
func hideForbidden(err error, notFound string) error {
	if apperror.Is(err, apperror.KindForbidden) {
		return apperror.NotFound(notFound)
	}
	return err
}

func objectName(prefix, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return prefix + "_" + uuid.NewString() + ext
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
