package errs

import (
	"errors"
	"fmt"
)

// Outbound notification errors. These never reach a client; the contact
// handler logs them and still reports success.
var (
	ErrNotifierNotConfigured = errors.New("notifier not configured")
	ErrNotificationRejected  = errors.New("notification rejected by provider")
)

// Configuration & Environment Errors
var (
	ErrConfigMissing = errors.New("configuration missing")
	ErrConfigInvalid = errors.New("configuration invalid")
)

// NotificationError records which channel failed and why.
type NotificationError struct {
	Channel    string
	StatusCode int
	Err        error
}

func (e *NotificationError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s notification failed (status %d): %v", e.Channel, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s notification failed: %v", e.Channel, e.Err)
}

func (e *NotificationError) Unwrap() error {
	return e.Err
}

func NewNotificationError(channel string, statusCode int, err error) *NotificationError {
	return &NotificationError{Channel: channel, StatusCode: statusCode, Err: err}
}

func NewConfigMissingError(key string) error {
	return fmt.Errorf("%w: %s is required", ErrConfigMissing, key)
}

func NewConfigInvalidError(key, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrConfigInvalid, key, reason)
}

func IsNotifierNotConfigured(err error) bool {
	return errors.Is(err, ErrNotifierNotConfigured)
}
