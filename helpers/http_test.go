package helpers

import (
	"errors"
	"net/http"
	"testing"
	"time"

	apperrors "dagensfynd/dealworker/pkg/errors"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
)

func TestFetcherSuccess(t *testing.T) {
	fetcher := NewFetcher(5 * time.Second)
	httpmock.ActivateNonDefault(fetcher.Client())
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", "https://example.com/deals",
		httpmock.NewStringResponder(http.StatusOK, "<html><body>deals</body></html>"))

	body, err := fetcher.Fetch("https://example.com/deals")
	assert.NoError(t, err)
	assert.Contains(t, string(body), "deals")
}

func TestFetcherHTTPError(t *testing.T) {
	fetcher := NewFetcher(5 * time.Second)
	httpmock.ActivateNonDefault(fetcher.Client())
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", "https://example.com/deals",
		httpmock.NewStringResponder(http.StatusServiceUnavailable, "down"))

	_, err := fetcher.Fetch("https://example.com/deals")
	assert.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeHTTP))
	assert.False(t, apperrors.IsType(err, apperrors.ErrorTypeNetwork))
}

func TestFetcherNetworkError(t *testing.T) {
	fetcher := NewFetcher(5 * time.Second)
	httpmock.ActivateNonDefault(fetcher.Client())
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", "https://example.com/deals",
		httpmock.NewErrorResponder(errors.New("connection refused")))

	_, err := fetcher.Fetch("https://example.com/deals")
	assert.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNetwork))

	var dealErr *apperrors.DealError
	assert.True(t, errors.As(err, &dealErr))
	assert.True(t, dealErr.IsFatal())
}
