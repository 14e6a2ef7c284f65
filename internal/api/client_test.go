package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/recipes/internal/api/apitest"
	"github.com/Makepad-fr/recipes/internal/errors"
	"github.com/Makepad-fr/recipes/internal/model"
)

func TestNewClient(t *testing.T) {
	c := NewClient("https://example.com/api/recipes/")
	assert.Equal(t, "https://example.com/api/recipes", c.BaseURL())
	assert.Equal(t, DefaultUserAgent, c.userAgent)
	assert.Equal(t, DefaultTimeout, c.httpClient.Timeout)
	assert.Nil(t, c.limiter)
}

func TestNewClientOptions(t *testing.T) {
	tr := &http.Transport{}
	hc := &http.Client{Transport: tr}
	c := NewClient("http://x", WithHTTPClient(hc), WithTimeout(5*time.Second), WithUserAgent("ua/2"), WithRateLimit(10))
	assert.NotSame(t, hc, c.httpClient)
	assert.Same(t, tr, c.httpClient.Transport)
	assert.Equal(t, 5*time.Second, c.httpClient.Timeout)
	assert.Equal(t, "ua/2", c.userAgent)
	require.NotNil(t, c.limiter)
}

func TestWithHTTPClientLeavesCallerClient(t *testing.T) {
	hc := &http.Client{Timeout: time.Minute}
	c := NewClient("http://x", WithHTTPClient(hc), WithTimeout(time.Second))

	assert.Equal(t, time.Minute, hc.Timeout)
	assert.Equal(t, time.Second, c.httpClient.Timeout)

	c = NewClient("http://x", WithHTTPClient(hc))
	assert.Equal(t, time.Minute, c.httpClient.Timeout, "no WithTimeout keeps the caller's timeout")
}

func TestList(t *testing.T) {
	srv := apitest.NewServer(
		model.Recipe{ID: 1, Title: "Soup", Body: "Boil"},
		model.Recipe{ID: 2, Title: "Salad", Body: "Chop"},
	)
	defer srv.Close()

	got, err := NewClient(srv.URL).List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, srv.Recipes(), got)
}

func TestListEmpty(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()

	got, err := NewClient(srv.URL).List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRequestHeaders(t *testing.T) {
	srv := apitest.NewServer(model.Recipe{ID: 1, Title: "A"})
	defer srv.Close()
	c := NewClient(srv.URL, WithUserAgent("test-agent"))

	require.NoError(t, c.Create(context.Background(), model.NewPlaceholder()))
	require.NoError(t, c.Delete(context.Background(), 1))

	reqs := srv.Requests()
	require.Len(t, reqs, 2)

	post := reqs[0]
	assert.Equal(t, http.MethodPost, post.Method)
	assert.Equal(t, "application/json", post.Header.Get("Content-Type"))
	assert.Equal(t, "application/json", post.Header.Get("Accept"))
	assert.Equal(t, "test-agent", post.Header.Get("User-Agent"))
	_, err := uuid.Parse(post.Header.Get(RequestIDHeader))
	assert.NoError(t, err)

	del := reqs[1]
	assert.Equal(t, http.MethodDelete, del.Method)
	assert.Equal(t, "/api/recipes/1", del.Path)
	assert.Empty(t, del.Header.Get("Content-Type"))
	assert.NotEqual(t, post.Header.Get(RequestIDHeader), del.Header.Get(RequestIDHeader))
}

func TestCreateSendsPlaceholder(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()

	require.NoError(t, NewClient(srv.URL).Create(context.Background(), model.NewPlaceholder()))

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/api/recipes", reqs[0].Path)
	assert.Equal(t, model.NewPlaceholder(), reqs[0].Body)
	assert.Len(t, srv.Recipes(), 1)
}

func TestUpdate(t *testing.T) {
	srv := apitest.NewServer(model.Recipe{ID: 5, Title: "A", Body: "x"})
	defer srv.Close()

	err := NewClient(srv.URL).Update(context.Background(), model.Recipe{ID: 5, Title: "B", Body: "y"})
	require.NoError(t, err)

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPut, reqs[0].Method)
	assert.Equal(t, "/api/recipes/5", reqs[0].Path)
	assert.Equal(t, []model.Recipe{{ID: 5, Title: "B", Body: "y"}}, srv.Recipes())
}

func TestUpdateWithoutIDIsRejected(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()

	err := NewClient(srv.URL).Update(context.Background(), model.NewPlaceholder())
	assert.Equal(t, errors.ErrCodeInvalidRequest, errors.CodeOf(err))
	assert.Empty(t, srv.Requests())
}

func TestNonOKStatus(t *testing.T) {
	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			srv := apitest.NewServer(model.Recipe{ID: 1})
			defer srv.Close()
			srv.FailMethod(method, http.StatusInternalServerError)
			c := NewClient(srv.URL)
			ctx := context.Background()

			var err error
			switch method {
			case http.MethodGet:
				_, err = c.List(ctx)
			case http.MethodPost:
				err = c.Create(ctx, model.NewPlaceholder())
			case http.MethodPut:
				err = c.Update(ctx, model.Recipe{ID: 1})
			case http.MethodDelete:
				err = c.Delete(ctx, 1)
			}
			require.Error(t, err)
			assert.Equal(t, errors.ErrCodeUnexpectedStatus, errors.CodeOf(err))

			var se *errors.StructuredError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, http.StatusInternalServerError, se.Context["status"])
			assert.Equal(t, "injected failure", se.Context["body"])
		})
	}
}

func TestDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not":"an array"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).List(context.Background())
	assert.Equal(t, errors.ErrCodeDecode, errors.CodeOf(err))
}

func TestNetworkError(t *testing.T) {
	srv := apitest.NewServer()
	url := srv.URL
	srv.Close()

	_, err := NewClient(url).List(context.Background())
	assert.Equal(t, errors.ErrCodeNetwork, errors.CodeOf(err))
}

func TestCanceledContext(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(srv.URL).List(ctx)
	assert.Equal(t, errors.ErrCodeCanceled, errors.CodeOf(err))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCanceledWhileRateLimited(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	c := NewClient(srv.URL, WithRateLimit(0.001))

	_, err := c.List(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = c.List(ctx)
	assert.Equal(t, errors.ErrCodeCanceled, errors.CodeOf(err))
	assert.Equal(t, 1, srv.CountMethod(http.MethodGet))
}
