package pushover_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tinywideclouds/go-platform/pkg/notification/v1"
	platform "github.com/tinywideclouds/go-pushover/internal/platform/pushover"
	"github.com/tinywideclouds/go-pushover/pkg/pushover"
)

type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, msg pushover.Message) error {
	return m.Called(ctx, msg).Error(0)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func forUser(key string) interface{} {
	return mock.MatchedBy(func(m pushover.Message) bool { return m.User == key })
}

func TestPushoverDispatch_Lifecycle(t *testing.T) {
	logger := newTestLogger()
	ctx := context.Background()
	content := notification.NotificationContent{Title: "Build", Body: "main is green"}

	t.Run("Skipped - no user keys", func(t *testing.T) {
		mockClient := new(MockSender)
		dispatcher := platform.NewDispatcher(mockClient, nil, logger)

		receipt, invalid, err := dispatcher.Dispatch(ctx, nil, content, nil)

		require.NoError(t, err)
		assert.Empty(t, invalid)
		assert.Contains(t, receipt, "skipped")
		mockClient.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})

	t.Run("Happy Path - normal message", func(t *testing.T) {
		mockClient := new(MockSender)
		dispatcher := platform.NewDispatcher(mockClient, []string{"phone"}, logger)

		mockClient.On("Send", ctx, mock.MatchedBy(func(m pushover.Message) bool {
			return m.User == "user-1" &&
				m.Message == "main is green" &&
				m.Title != nil && *m.Title == "Build" &&
				m.Priority == nil &&
				m.URL != nil && *m.URL == "https://ci.example.com" &&
				m.URLTitle != nil && *m.URLTitle == "CI" &&
				assert.ObjectsAreEqual([]string{"phone"}, m.Devices)
		})).Return(nil)

		data := map[string]string{platform.DataURL: "https://ci.example.com", platform.DataURLTitle: "CI"}
		receipt, invalid, err := dispatcher.Dispatch(ctx, []string{"user-1"}, content, data)

		require.NoError(t, err)
		assert.Empty(t, invalid)
		assert.Contains(t, receipt, "success:1")
		mockClient.AssertExpectations(t)
	})

	t.Run("Emergency priority from data", func(t *testing.T) {
		mockClient := new(MockSender)
		dispatcher := platform.NewDispatcher(mockClient, nil, logger)

		mockClient.On("Send", ctx, mock.MatchedBy(func(m pushover.Message) bool {
			return m.Priority != nil && *m.Priority == pushover.PriorityEmergency &&
				m.Retry != nil && *m.Retry == 30 &&
				m.Expire != nil && *m.Expire == 120
		})).Return(nil)

		data := map[string]string{platform.DataPriority: platform.PriorityEmergency}
		_, _, err := dispatcher.Dispatch(ctx, []string{"user-1"}, content, data)

		require.NoError(t, err)
		mockClient.AssertExpectations(t)
	})

	t.Run("Self-Healing - unknown user key", func(t *testing.T) {
		mockClient := new(MockSender)
		dispatcher := platform.NewDispatcher(mockClient, nil, logger)

		mockClient.On("Send", ctx, forUser("good")).Return(nil)
		mockClient.On("Send", ctx, forUser("bad")).
			Return(&pushover.SendError{Kind: pushover.KindRejectedByServer, StatusCode: http.StatusBadRequest})

		receipt, invalid, err := dispatcher.Dispatch(ctx, []string{"good", "bad"}, content, nil)

		require.NoError(t, err)
		assert.Equal(t, []string{"bad"}, invalid)
		assert.Equal(t, "success:1 invalid:1 total_fail:1", receipt)
	})

	t.Run("Rejected - server error is not an invalid key", func(t *testing.T) {
		mockClient := new(MockSender)
		dispatcher := platform.NewDispatcher(mockClient, nil, logger)

		mockClient.On("Send", ctx, mock.Anything).
			Return(&pushover.SendError{Kind: pushover.KindRejectedByServer, StatusCode: http.StatusInternalServerError})

		receipt, invalid, err := dispatcher.Dispatch(ctx, []string{"user-1"}, content, nil)

		require.NoError(t, err)
		assert.Empty(t, invalid)
		assert.Contains(t, receipt, "total_fail:1")
	})

	t.Run("Transport Failure - partial", func(t *testing.T) {
		mockClient := new(MockSender)
		dispatcher := platform.NewDispatcher(mockClient, nil, logger)

		mockClient.On("Send", ctx, forUser("up")).Return(nil)
		mockClient.On("Send", ctx, forUser("down")).
			Return(&pushover.SendError{Kind: pushover.KindTransport, Err: errors.New("connection refused")})

		receipt, _, err := dispatcher.Dispatch(ctx, []string{"up", "down"}, content, nil)

		require.NoError(t, err)
		assert.Equal(t, "success:1 invalid:0 total_fail:1", receipt)
	})

	t.Run("Unclassified error - counted, not retried", func(t *testing.T) {
		mockClient := new(MockSender)
		dispatcher := platform.NewDispatcher(mockClient, nil, logger)

		mockClient.On("Send", ctx, mock.Anything).Return(errors.New("failed to marshal pushover message"))

		receipt, invalid, err := dispatcher.Dispatch(ctx, []string{"user-1"}, content, nil)

		require.NoError(t, err)
		assert.Empty(t, invalid)
		assert.Equal(t, "success:0 invalid:0 total_fail:1", receipt)
	})

	t.Run("Context cancelled mid-dispatch", func(t *testing.T) {
		mockClient := new(MockSender)
		dispatcher := platform.NewDispatcher(mockClient, nil, logger)

		mockClient.On("Send", ctx, forUser("first")).Return(nil)
		mockClient.On("Send", ctx, forUser("second")).
			Return(&pushover.SendError{Kind: pushover.KindTransport, Err: context.Canceled})

		receipt, invalid, err := dispatcher.Dispatch(ctx, []string{"first", "second"}, content, nil)

		require.NoError(t, err)
		assert.Empty(t, invalid)
		assert.Equal(t, "success:1 invalid:0 total_fail:1", receipt)
		mockClient.AssertNumberOfCalls(t, "Send", 2)
	})

	t.Run("Transport Failure - all recipients (Retryable)", func(t *testing.T) {
		mockClient := new(MockSender)
		dispatcher := platform.NewDispatcher(mockClient, nil, logger)

		mockClient.On("Send", ctx, mock.Anything).
			Return(&pushover.SendError{Kind: pushover.KindTransport, Err: errors.New("network down")})

		_, _, err := dispatcher.Dispatch(ctx, []string{"a", "b"}, content, nil)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "transport failed")
		mockClient.AssertNumberOfCalls(t, "Send", 2)
	})
}
