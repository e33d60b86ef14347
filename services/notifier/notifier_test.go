package notifier

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dagensfynd/dealworker/internal/scraper"
	apperrors "dagensfynd/dealworker/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDeal() scraper.Deal {
	return scraper.Deal{
		URL:   "https://shop.example.com/item/1",
		Name:  "Graphics Card",
		Price: "1 190 kr",
	}
}

func TestNotifySendsFormattedMessage(t *testing.T) {
	var received map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &received))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	n := NewDiscordNotifier(server.URL, "", 5*time.Second)
	assert.True(t, n.Enabled())

	err := n.Notify(testDeal())
	assert.NoError(t, err)
	assert.Equal(t, "New deal: **Graphics Card** for 1 190 kr\nhttps://shop.example.com/item/1", received["content"])
}

func TestNotifyFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	n := NewDiscordNotifier(server.URL, "", 5*time.Second)

	err := n.Notify(testDeal())
	assert.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotify))
}

func TestNotifyDisabled(t *testing.T) {
	n := NewDiscordNotifier("", "", 5*time.Second)

	assert.False(t, n.Enabled())
	assert.NoError(t, n.Notify(testDeal()))
}

func TestReportError(t *testing.T) {
	var received map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := NewDiscordNotifier("", server.URL, 5*time.Second)
	n.ReportError("something broke")

	assert.Equal(t, "something broke", received["content"])
}

func TestReportErrorFailureIsSwallowed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	// Must not panic or propagate
	n := NewDiscordNotifier("", server.URL, 5*time.Second)
	n.ReportError("something broke")
}
