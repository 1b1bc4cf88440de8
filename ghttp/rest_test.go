package ghttp

import (
	"errors"
	"fmt"
	"github.com/stretchr/testify/require"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPClient_PostJSON(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.Equal(t, "secret", r.Header.Get("X-API-Key"))
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	var res struct {
		OK bool `json:"ok"`
	}
	err := DefaultClient.DoPostJSON(srv.URL, map[string]string{"a": "b"}, &res, WithHeader("X-API-Key", "secret"))
	require.NoError(t, err)
	require.True(t, res.OK)
}

func TestHTTPClient_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		body   string
		msg    string
	}{
		{"json error", 409, `{"msg":"auction has ended"}`, "auction has ended"},
		{"plain error", 500, "boom", "boom"},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("%d-%s", i, tt.name), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			err := DefaultClient.DoGetJSON(srv.URL, new(struct{}))
			var httpErr *Error
			require.True(t, errors.As(err, &httpErr))
			require.Equal(t, tt.status, httpErr.StatusCode)
			require.Equal(t, tt.msg, httpErr.Message())
		})
	}
}
