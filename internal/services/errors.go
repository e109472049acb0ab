package services

import (
	"errors"
	"fmt"
	"strings"
)

// Failure markers for a synchronization attempt. Every error returned by the
// invokers carries exactly one of them so callers can classify it with
// errors.Is.
var (
	ErrToolNotFound     = errors.New("tool not found")
	ErrSubtitleNotFound = errors.New("subtitle not found")
	ErrInvocationFailed = errors.New("invocation failed")
	ErrSyncFailed       = errors.New("sync failed")
	ErrExtractionFailed = errors.New("extraction failed")
	ErrTrackAddFailed   = errors.New("track add failed")
	ErrConfiguration    = errors.New("configuration error")
	ErrHost             = errors.New("host session error")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of
// the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrInvocationFailed
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Marker returns the taxonomy sentinel carried by err, or nil when err does
// not carry one.
func Marker(err error) error {
	if err == nil {
		return nil
	}
	for _, marker := range []error{
		ErrToolNotFound,
		ErrSubtitleNotFound,
		ErrInvocationFailed,
		ErrSyncFailed,
		ErrExtractionFailed,
		ErrTrackAddFailed,
		ErrConfiguration,
		ErrHost,
	} {
		if errors.Is(err, marker) {
			return marker
		}
	}
	return nil
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
