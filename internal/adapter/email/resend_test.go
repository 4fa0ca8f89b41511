package email

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wireEmail struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

func TestSend(t *testing.T) {
	var got wireEmail
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer re_key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"email_1"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "re_key", time.Second)
	msg := Message{From: "a@b.test", To: []string{"owner@b.test"}, Subject: "hi", HTML: "<p>x</p>"}
	resp, err := client.Send(context.Background(), msg)
	require.NoError(t, err)

	assert.Equal(t, "email_1", resp.ID)
	assert.Equal(t, wireEmail{From: msg.From, To: msg.To, Subject: msg.Subject, HTML: msg.HTML}, got)
}

func TestSendAcceptsNonJSONSuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("queued"))
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL, "re_key", time.Second).Send(context.Background(), Message{})
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Empty(t, resp.ID)
}

func TestSendAcceptsEmptySuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL, "re_key", time.Second).Send(context.Background(), Message{})
	require.NoError(t, err)
	assert.Empty(t, resp.ID)
}

func TestSendAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"invalid from"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "re_key", time.Second).Send(context.Background(), Message{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid from")
}
