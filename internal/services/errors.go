package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUndecodable   = errors.New("undecodable image")
	ErrCodec         = errors.New("codec error")
	ErrUnreadable    = errors.New("unreadable file")
	ErrPersistence   = errors.New("persistence error")
	ErrConfiguration = errors.New("configuration error")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrCodec
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsFatal reports whether an error must abort the whole run instead of being
// isolated to a single image. Unreadable inputs surface during hashing, which
// runs before the per-image failure boundary; persistence and configuration
// errors indicate a broken environment rather than a bad input.
func IsFatal(err error) bool {
	return errors.Is(err, ErrUnreadable) ||
		errors.Is(err, ErrPersistence) ||
		errors.Is(err, ErrConfiguration)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
