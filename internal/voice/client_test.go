package voice

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func input() WebCallInput {
	return WebCallInput{
		OrderID:      42,
		CustomerName: "Jane",
		ProductNames: []string{"Colombian Supremo", "Gooseneck Kettle"},
		OrderDate:    "October 17, 2026",
	}
}

func TestCreateWebCall_OK(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2/create-web-call", r.URL.Path)
		assert.Equal(t, "Bearer key_1", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"call_id":"call_abc","access_token":"tok","call_status":"registered"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "key_1", "agent_1", 2*time.Second)
	wc, err := c.CreateWebCall(context.Background(), input())
	require.NoError(t, err)
	assert.Equal(t, "call_abc", wc.CallID)
	assert.Equal(t, "tok", wc.AccessToken)

	// metadata.order_id viaja como string
	assert.Equal(t, "agent_1", got["agent_id"])
	assert.Equal(t, map[string]any{"order_id": "42"}, got["metadata"])
	vars := got["retell_llm_dynamic_variables"].(map[string]any)
	assert.Equal(t, "Colombian Supremo, Gooseneck Kettle", vars["product_names"])
	assert.Equal(t, "Jane", vars["customer_name"])
	assert.Equal(t, "October 17, 2026", vars["order_date"])
}

func TestCreateWebCall_MissingConfig(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))
	defer srv.Close()

	_, err := NewClient(srv.URL, "", "agent", time.Second).CreateWebCall(context.Background(), input())
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Contains(t, err.Error(), "RETELL_API_KEY")

	_, err = NewClient(srv.URL, "key", "", time.Second).CreateWebCall(context.Background(), input())
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Contains(t, err.Error(), "RETELL_AGENT_ID")
	assert.False(t, called)
}

func TestCreateWebCall_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "agent not found", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "key", "agent", time.Second).CreateWebCall(context.Background(), input())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "agent not found", apiErr.Body)
	assert.Contains(t, err.Error(), "404")
}

func TestCall_OrderID(t *testing.T) {
	cases := []struct {
		name     string
		metadata map[string]any
		want     int64
		err      error
	}{
		{"string", map[string]any{"order_id": "17"}, 17, nil},
		{"number", map[string]any{"order_id": float64(17)}, 17, nil},
		{"missing", map[string]any{}, 0, ErrNoOrderID},
		{"nil metadata", nil, 0, ErrNoOrderID},
		{"blank", map[string]any{"order_id": " "}, 0, ErrNoOrderID},
		{"not numeric", map[string]any{"order_id": "abc"}, 0, ErrBadOrderID},
		{"fraction", map[string]any{"order_id": 1.5}, 0, ErrBadOrderID},
		{"bool", map[string]any{"order_id": true}, 0, ErrBadOrderID},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := Call{Metadata: tc.metadata}
			got, err := c.OrderID()
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
