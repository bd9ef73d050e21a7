package client

import (
	"context"
	"errors"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tcriess/openfire-admin/config"
)

func newTestClient(t *testing.T, baseURL string, insecure bool) *Client {
	c, err := New(Options{
		BaseURL:      baseURL,
		AuthHeader:   "Basic YWRtaW46YWRtaW4=",
		Insecure:     insecure,
		Timeout:      5 * time.Second,
		RetryMax:     2,
		RetryWaitMin: time.Millisecond,
		RetryWaitMax: 5 * time.Millisecond,
	})
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestGetSendsAuthAndParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/plugins/restapi/v1/chatrooms", r.URL.Path)
		assert.Equal(t, "conference", r.URL.Query().Get("servicename"))
		assert.Equal(t, "Basic YWRtaW46YWRtaW4=", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Write([]byte(`{"chatRooms":[]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL+"/plugins/restapi/v1/", false)
	body, err := c.Get(context.Background(), "/chatrooms", url.Values{"servicename": {"conference"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"chatRooms":[]}`, string(body))
}

func TestStatusErrors(t *testing.T) {
	cases := []struct {
		status int
		target error
	}{
		{http.StatusUnauthorized, ErrAuthentication},
		{http.StatusForbidden, ErrPermission},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusBadRequest, ErrValidation},
		{http.StatusConflict, ErrHTTP},
	}
	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			w.Write([]byte(`{"exception":"SomeException","message":"nope"}`))
		}))
		c := newTestClient(t, srv.URL, false)
		_, err := c.Get(context.Background(), "users/bob", nil)
		srv.Close()
		require.Error(t, err)
		assert.True(t, errors.Is(err, tc.target), "status %d: %v", tc.status, err)
		var statusErr *StatusError
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, tc.status, statusErr.StatusCode)
		assert.Equal(t, "nope", statusErr.Message)
	}
}

func TestServerErrorIsRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"sessions":[]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, false)
	_, err := c.Get(context.Background(), "sessions", nil)
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestServerErrorAfterRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, false)
	_, err := c.Get(context.Background(), "sessions", nil)
	assert.True(t, errors.Is(err, ErrServer), "%v", err)
}

func TestConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close()

	c, err := New(Options{BaseURL: addr, Timeout: time.Second})
	require.NoError(t, err)
	defer c.Close()
	_, err = c.Get(context.Background(), "users", nil)
	assert.True(t, errors.Is(err, ErrConnection), "%v", err)
}

func TestTLSVerification(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	strict := newTestClient(t, srv.URL, false)
	_, err := strict.Get(context.Background(), "users", nil)
	assert.True(t, errors.Is(err, ErrConnection), "%v", err)

	insecure := newTestClient(t, srv.URL, true)
	_, err = insecure.Get(context.Background(), "users", nil)
	assert.NoError(t, err)
}

func TestWriteMethods(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut:
			body, _ := ioutil.ReadAll(r.Body)
			assert.JSONEq(t, `{"name":"ops"}`, string(body))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.Equal(t, "yes", r.Header.Get("X-Extra"))
			w.WriteHeader(http.StatusCreated)
		case http.MethodDelete:
			assert.Equal(t, "/groups/ops", r.URL.Path)
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, false)
	_, err := c.Post(context.Background(), "groups", []byte(`{"name":"ops"}`), map[string]string{"X-Extra": "yes"})
	require.NoError(t, err)
	_, err = c.Put(context.Background(), "groups/ops", []byte(`{"name":"ops"}`), map[string]string{"X-Extra": "yes"})
	require.NoError(t, err)
	require.NoError(t, c.Delete(context.Background(), "groups/ops"))
}

func TestNewRejectsBadURL(t *testing.T) {
	_, err := New(Options{BaseURL: "localhost:9090"})
	assert.True(t, errors.Is(err, config.ErrConfiguration))
	_, err = New(Options{})
	assert.True(t, errors.Is(err, config.ErrConfiguration))
}
