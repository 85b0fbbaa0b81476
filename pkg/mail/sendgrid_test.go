package mail

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSender(t *testing.T, status int, inspect func(r *http.Request)) *SendGridSender {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if inspect != nil {
			inspect(r)
		}
		w.WriteHeader(status)
	}))
	t.Cleanup(server.Close)

	sender, err := NewSendGridSender(SendGridConfig{APIKey: "SG.test", FromEmail: "noreply@carwash.com"})
	require.NoError(t, err)
	sender.client.BaseURL = server.URL + "/v3/mail/send"
	return sender
}

func TestNewSendGridSender_NotConfigured(t *testing.T) {
	_, err := NewSendGridSender(SendGridConfig{APIKey: "SG.test"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestSendGridSender_Send(t *testing.T) {
	t.Run("posts the message", func(t *testing.T) {
		var payload map[string]interface{}
		sender := newTestSender(t, http.StatusAccepted, func(r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "Bearer SG.test", r.Header.Get("Authorization"))
			body, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(body, &payload)
		})

		err := sender.Send(context.Background(), Message{
			ToName: "Test User", ToEmail: "user@test.com",
			Subject: "Booking created", Text: "See you soon", HTML: "<p>See you soon</p>",
		})
		require.NoError(t, err)
		assert.Equal(t, "Booking created", payload["subject"])
	})

	t.Run("non-2xx is an error", func(t *testing.T) {
		sender := newTestSender(t, http.StatusUnauthorized, nil)

		err := sender.Send(context.Background(), Message{ToEmail: "user@test.com", Subject: "x", Text: "x"})
		assert.ErrorContains(t, err, "status 401")
	})
}
