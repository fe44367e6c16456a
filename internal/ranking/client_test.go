package ranking

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"smartmap-backend/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(config.RankingConfig{URL: server.URL, Timeout: 2 * time.Second}, zap.NewNop())
}

func TestClient_Found(t *testing.T) {
	var gotName string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotName = r.URL.Query().Get("name")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"rank": 7, "itemName": "휠체어"}`))
	})

	res, err := client.Lookup(context.Background(), "홍길동")
	require.NoError(t, err)
	assert.Equal(t, "홍길동", gotName)
	assert.Equal(t, Result{Name: "홍길동", Status: StatusFound, Rank: 7, ItemName: "휠체어"}, res)
}

func TestClient_FoundWithoutItemUsesPlaceholder(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"rank": 3}`))
	})

	res, err := client.Lookup(context.Background(), "김철수")
	require.NoError(t, err)
	assert.Equal(t, StatusFound, res.Status)
	assert.Equal(t, DefaultItemName, res.ItemName)
}

func TestClient_NotFound(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{"Sentinel rank", `{"rank": -1}`},
		{"Missing rank", `{"itemName": "휠체어"}`},
		{"Null rank", `{"rank": null}`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tc.body))
			})
			res, err := client.Lookup(context.Background(), "이영희")
			require.NoError(t, err)
			assert.Equal(t, StatusNotFound, res.Status)
			assert.Equal(t, "이영희", res.Name)
		})
	}
}

func TestClient_TransportErrors(t *testing.T) {
	testCases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"Server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"Malformed body", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>oops</html>`))
		}},
		{"Rank of wrong type", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"rank": "seven"}`))
		}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, tc.handler)
			_, err := client.Lookup(context.Background(), "홍길동")
			assert.ErrorIs(t, err, ErrTransport)
		})
	}
}

func TestClient_UnreachableEndpoint(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewClient(config.RankingConfig{URL: url, Timeout: time.Second}, zap.NewNop())
	_, err := client.Lookup(context.Background(), "홍길동")
	assert.ErrorIs(t, err, ErrTransport)
}

func TestClient_SingleRequestPerLookup(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.Lookup(context.Background(), "홍길동")
	assert.Error(t, err)
	assert.Equal(t, 1, calls, "lookups are never retried")
}
