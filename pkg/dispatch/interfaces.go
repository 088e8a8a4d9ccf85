// Package dispatch holds the contracts between notification sources and the
// platforms that deliver them.
package dispatch

import (
	"context"

	"github.com/tinywideclouds/go-platform/pkg/notification/v1"
)

// Dispatcher sends notification content to a batch of platform recipients
// (for Pushover, user keys).
type Dispatcher interface {
	// Dispatch returns a human readable receipt and the recipients the platform
	// reported as unknown, so callers can stop addressing them.
	Dispatch(ctx context.Context, recipients []string, content notification.NotificationContent, data map[string]string) (string, []string, error)
}
