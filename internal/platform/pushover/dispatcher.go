// Package pushover adapts the Pushover client to the platform Dispatcher contract.
package pushover

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/tinywideclouds/go-platform/pkg/notification/v1"
	"github.com/tinywideclouds/go-pushover/pkg/dispatch"
	"github.com/tinywideclouds/go-pushover/pkg/pushover"
)

// Data keys read by Dispatch.
const (
	DataPriority = "priority"
	DataURL      = "url"
	DataURLTitle = "url_title"

	PriorityEmergency = "emergency"
)

// Sender is the subset of *pushover.Client we use.
// This allows mocking for unit tests.
type Sender interface {
	Send(ctx context.Context, msg pushover.Message) error
}

var _ dispatch.Dispatcher = (*Dispatcher)(nil)

type Dispatcher struct {
	client  Sender
	devices []string
	logger  *slog.Logger
}

// NewDispatcher wraps client. devices, when set, restricts delivery to those
// device names on every recipient.
func NewDispatcher(client Sender, devices []string, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		client:  client,
		devices: devices,
		logger:  logger.With("component", "PushoverDispatcher"),
	}
}

// Dispatch sends one message per user key. Pushover has no multicast, so keys
// are sent sequentially.
func (d *Dispatcher) Dispatch(
	ctx context.Context,
	userKeys []string,
	content notification.NotificationContent,
	data map[string]string,
) (string, []string, error) {
	if len(userKeys) == 0 {
		return "skipped: no user keys", nil, nil
	}

	var invalidKeys []string
	successCount := 0
	failureCount := 0
	transportFailures := 0

	for _, key := range userKeys {
		msg := d.buildMessage(key, content, data)

		err := d.client.Send(ctx, msg)
		if err == nil {
			successCount++
			continue
		}
		failureCount++

		var sendErr *pushover.SendError
		if !errors.As(err, &sendErr) {
			d.logger.Error("Pushover send failed", "user", key, "err", err)
			continue
		}

		switch sendErr.Kind {
		case pushover.KindRejectedByServer:
			if sendErr.StatusCode == http.StatusBadRequest {
				// Pushover answers 400 for an unknown user key.
				invalidKeys = append(invalidKeys, key)
				continue
			}
			d.logger.Warn("Pushover rejected notification", "user", key, "status", sendErr.StatusCode)
		case pushover.KindTransport:
			d.logger.Error("Pushover transport error", "user", key, "err", sendErr.Err)
			transportFailures++
		}
	}

	if transportFailures == len(userKeys) {
		return "", nil, fmt.Errorf("pushover transport failed for all %d recipients", transportFailures)
	}

	receipt := fmt.Sprintf("success:%d invalid:%d total_fail:%d", successCount, len(invalidKeys), failureCount)
	return receipt, invalidKeys, nil
}

func (d *Dispatcher) buildMessage(key string, content notification.NotificationContent, data map[string]string) pushover.Message {
	var msg pushover.Message
	if data[DataPriority] == PriorityEmergency {
		msg = pushover.Priority(key, content.Body)
	} else {
		msg = pushover.Normal(key, content.Body)
	}

	if content.Title != "" {
		msg.Title = pushover.String(content.Title)
	}
	if u := data[DataURL]; u != "" {
		msg.URL = pushover.String(u)
		if t := data[DataURLTitle]; t != "" {
			msg.URLTitle = pushover.String(t)
		}
	}
	if len(d.devices) > 0 {
		msg.Devices = append([]string(nil), d.devices...)
	}
	return msg
}
