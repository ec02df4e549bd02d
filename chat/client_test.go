package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-restaurant/models"
)

func TestSendRecordsExchange(t *testing.T) {
	var received []models.ChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req models.ChatRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		received = append(received, req)

		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"response": map[string]any{
				"message": "Hello! How can I help?",
				"action":  "greeting",
			},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	ctx := context.Background()

	reply, err := client.Send(ctx, "  hi there  ")
	require.NoError(t, err)
	assert.Equal(t, "Hello! How can I help?", reply.Text)
	assert.Equal(t, "greeting", reply.Action)
	assert.False(t, reply.Failed)

	_, err = client.Send(ctx, "book a table")
	require.NoError(t, err)

	require.Len(t, received, 2)
	assert.Equal(t, "hi there", received[0].Message)
	assert.NotNil(t, received[0].Context)
	assert.Empty(t, received[0].Context)
	assert.Equal(t, []models.Exchange{{User: "hi there", Bot: "Hello! How can I help?", Action: "greeting"}}, received[1].Context)
	assert.Equal(t, 2, client.Transcript().Len())
}

func TestSendEmptyMessage(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Send(context.Background(), "   \n\t")
	require.ErrorIs(t, err, ErrEmptyMessage)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestSendBackendFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"success": false, "error": "model offline"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	reply, err := client.Send(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, ErrorReply, reply.Text)
	assert.True(t, reply.Failed)
	assert.Zero(t, client.Transcript().Len())
}

func TestSendSuccessBodyWithErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"success": true, "response": {"message": "ok"}}`))
	}))
	defer srv.Close()

	reply, err := NewClient(srv.URL).Send(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "ok", reply.Text)
}

func TestSendUnreadableResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>bad gateway</html>`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	reply, err := client.Send(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, UnavailableReply, reply.Text)
	assert.True(t, reply.Failed)
	assert.Zero(t, client.Transcript().Len())
}

func TestSendUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	reply, err := NewClient(url).Send(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, UnavailableReply, reply.Text)
}

func TestSendBookingRetrieved(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": true, "response": {
			"message": "I found your booking.",
			"action": "booking_retrieved",
			"data": {"customer": "Ana", "date": "2025-07-01", "time": "19:00", "guests": 4, "table_pref": "", "table": "terrace", "status": "confirmed"}
		}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	reply, err := client.Send(context.Background(), "find my booking")
	require.NoError(t, err)

	want := "I found your booking.\n\n📅 Booking Details:\n" +
		"Customer: Ana\nDate: 2025-07-01\nTime: 19:00\nGuests: 4\nTable: terrace\nStatus: confirmed"
	assert.Equal(t, want, reply.Text)
	assert.Equal(t, want, client.Transcript().Exchanges()[0].Bot)
}

func TestHistoryLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": true, "response": {"message": "ok"}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, WithHistoryLimit(2))
	for _, msg := range []string{"one", "two", "three"} {
		_, err := client.Send(context.Background(), msg)
		require.NoError(t, err)
	}

	exchanges := client.Transcript().Exchanges()
	require.Len(t, exchanges, 2)
	assert.Equal(t, "two", exchanges[0].User)
	assert.Equal(t, "three", exchanges[1].User)
}
