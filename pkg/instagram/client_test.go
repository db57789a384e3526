package instagram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendscout/pkg/config"
	"trendscout/pkg/errors"
)

// fastPacing removes the rate limiter's spacing from test runs
func fastPacing() *config.PacingConfig {
	return &config.PacingConfig{RequestsPerMinute: 60000}
}

func TestGetJSONSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "sessionid=test-session; csrftoken=test-csrf", r.Header.Get("Cookie"))
		assert.Equal(t, "test-csrf", r.Header.Get("x-csrftoken"))
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "ok"}`))
	}))
	defer server.Close()

	client := NewClient(&config.InstagramConfig{
		SessionID: "test-session",
		CSRFToken: "test-csrf",
		UserAgent: "test-agent",
	}, fastPacing(), nil)
	client.SetBaseURL(server.URL)

	var result struct {
		Status string `json:"status"`
	}
	err := client.GetJSON(context.Background(), server.URL+"/anything", &result)
	require.NoError(t, err)
	assert.Equal(t, "ok", result.Status)
}

func TestGetJSONStatusClassification(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		expected errors.Type
	}{
		{"throttled", http.StatusTooManyRequests, errors.TypeRateLimited},
		{"unauthorized", http.StatusUnauthorized, errors.TypeAuthentication},
		{"forbidden", http.StatusForbidden, errors.TypeAuthentication},
		{"server error", http.StatusInternalServerError, errors.TypeTransientNetwork},
		{"bad gateway", http.StatusBadGateway, errors.TypeTransientNetwork},
		{"not found", http.StatusNotFound, errors.TypeOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client := NewClient(nil, fastPacing(), nil)
			client.SetBaseURL(server.URL)

			var result map[string]interface{}
			err := client.GetJSON(context.Background(), server.URL+"/x", &result)
			require.Error(t, err)
			assert.Equal(t, tt.expected, errors.TypeOf(err))
		})
	}
}

func TestGetJSONRateLimitSeverity(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(nil, fastPacing(), nil)
	client.SetBaseURL(server.URL)

	var result map[string]interface{}
	err := client.GetJSON(context.Background(), server.URL+"/x", &result)
	require.Error(t, err)

	// An explicit 429 escalates to the longest backoff tier
	assert.Equal(t, errors.SeverityHigh, errors.SeverityOf(err))
	var typed *errors.Error
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, http.StatusTooManyRequests, typed.Code)
}

func TestGetJSONNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(nil, fastPacing(), nil)
	client.SetBaseURL(url)

	var result map[string]interface{}
	err := client.GetJSON(context.Background(), url+"/x", &result)
	require.Error(t, err)
	assert.Equal(t, errors.TypeTransientNetwork, errors.TypeOf(err))
}

func TestGetJSONMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": `))
	}))
	defer server.Close()

	client := NewClient(nil, fastPacing(), nil)
	client.SetBaseURL(server.URL)

	var result map[string]interface{}
	err := client.GetJSON(context.Background(), server.URL+"/x", &result)
	require.Error(t, err)
	assert.Equal(t, errors.TypeOther, errors.TypeOf(err))
}

func TestGetJSONContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	client := NewClient(nil, fastPacing(), nil)
	client.SetBaseURL(server.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var result map[string]interface{}
	err := client.GetJSON(ctx, server.URL+"/x", &result)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
