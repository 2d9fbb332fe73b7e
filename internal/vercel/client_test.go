package vercel

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
}

func TestResourceURL(t *testing.T) {
	c := NewClient()
	assert.Equal(t, "https://api.vercel.com/v4/projects?teamId=t1", c.ResourceURL("/v4/projects", "t1"))
	assert.Equal(t, "https://api.vercel.com/v4/projects", c.ResourceURL("/v4/projects", ""))

	c = NewClient(WithBaseURL("http://localhost:9999/"))
	assert.Equal(t, "http://localhost:9999/v1/integrations/log-drains", c.ResourceURL("/v1/integrations/log-drains", ""))
}

func TestGetAccessToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2/oauth/access_token", r.URL.Path)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "cid", r.PostForm.Get("client_id"))
		assert.Equal(t, "secret", r.PostForm.Get("client_secret"))
		assert.Equal(t, "the-code", r.PostForm.Get("code"))
		assert.Equal(t, "https://app.example.com/callback", r.PostForm.Get("redirect_uri"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"token_type":"Bearer","access_token":"tok","installation_id":"icfg_1","user_id":"u_1","team_id":null}`)
	})

	creds, err := c.GetAccessToken(context.Background(), TokenRequest{
		ClientID:     "cid",
		ClientSecret: "secret",
		Code:         "the-code",
		RedirectURI:  "https://app.example.com/callback",
	})
	require.NoError(t, err)
	assert.Equal(t, Credentials{TokenType: "Bearer", AccessToken: "tok", InstallationID: "icfg_1", UserID: "u_1"}, creds)
}

func TestGetAccessToken_MissingField(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"token_type":"Bearer","access_token":"tok","user_id":"u_1"}`)
	})

	_, err := c.GetAccessToken(context.Background(), TokenRequest{Code: "c"})
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Contains(t, err.Error(), "installation_id is required")
}

func TestGetAccessToken_Status(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":"invalid_grant","error_description":"code expired"}`)
	})

	_, err := c.GetAccessToken(context.Background(), TokenRequest{Code: "c"})
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadRequest, se.StatusCode)
	assert.Equal(t, "code expired", se.Message)
}

func TestGetLogDrains(t *testing.T) {
	var gotQuery, gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/integrations/log-drains", r.URL.Path)
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		_, _ = io.WriteString(w, `[`+drainJSON+`]`)
	})

	drains, err := c.GetLogDrains(context.Background(), "tok", "t1")
	require.NoError(t, err)
	require.Len(t, drains, 1)
	assert.Equal(t, "teamId=t1", gotQuery)
	assert.Equal(t, "Bearer tok", gotAuth)

	_, err = c.GetLogDrains(context.Background(), "tok", "")
	require.NoError(t, err)
	assert.Empty(t, gotQuery)
}

func TestGetLogDrains_StatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `{"error":{"code":"forbidden","message":"Not authorized"}}`)
	})

	_, err := c.GetLogDrains(context.Background(), "tok", "")
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusForbidden, se.StatusCode)
	assert.Equal(t, "Not authorized", se.Message)
	assert.False(t, errors.As(err, new(*DecodeError)))
}

func TestGetLogDrains_DecodeError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"drains":[]}`)
	})

	_, err := c.GetLogDrains(context.Background(), "tok", "")
	assert.ErrorAs(t, err, new(*DecodeError))
	assert.False(t, errors.As(err, new(*StatusError)))
}

func TestGetLogDrains_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	c := NewClient(WithBaseURL(srv.URL))
	srv.Close()

	_, err := c.GetLogDrains(context.Background(), "tok", "")
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "get log drains", te.Op)
	assert.False(t, errors.As(err, new(*StatusError)))
	assert.False(t, errors.As(err, new(*DecodeError)))
}

func TestCreateLogDrain(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "teamId=team_1", r.URL.RawQuery)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{
			"name": "my drain",
			"type": "ndjson",
			"url":  "https://example.com/logs",
		}, body)

		_, _ = io.WriteString(w, drainJSON)
	})

	d, err := c.CreateLogDrain(context.Background(), "tok", "team_1", CreateLogDrainRequest{
		Name: "my drain",
		Type: LogDrainNDJSON,
		URL:  "https://example.com/logs",
	})
	require.NoError(t, err)
	assert.Equal(t, "ld_1", d.ID)
}

func TestCreateLogDrain_InvalidRequestNotSent(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := c.CreateLogDrain(context.Background(), "tok", "", CreateLogDrainRequest{Name: "n", Type: LogDrainJSON})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log drain")
	assert.False(t, called)
}

func TestDeleteLogDrain(t *testing.T) {
	tests := []struct {
		status   int
		sentinel error
		msg      string
	}{
		{http.StatusNoContent, nil, ""},
		{http.StatusBadRequest, ErrInvalidQuery, "one of the provided values in the request query is invalid"},
		{http.StatusForbidden, ErrForbidden, "you do not have permission to access this resource"},
		{http.StatusNotFound, ErrNotFound, "the log drain was not found"},
		{http.StatusOK, nil, "unexpected HTTP status code 200"},
		{http.StatusInternalServerError, nil, "unexpected HTTP status code 500"},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodDelete, r.Method)
				assert.Equal(t, "/v1/integrations/log-drains/ld_1", r.URL.Path)
				w.WriteHeader(tt.status)
			})

			err := c.DeleteLogDrain(context.Background(), "tok", "ld_1", "")
			if tt.status == http.StatusNoContent {
				assert.NoError(t, err)
				return
			}
			var se *StatusError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.status, se.StatusCode)
			assert.EqualError(t, err, tt.msg)
			if tt.sentinel != nil {
				assert.ErrorIs(t, err, tt.sentinel)
			}
		})
	}
}

func TestGetProjects(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v4/projects", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"projects":[{"accountId":"a","id":"p1","name":"one"},{"accountId":"a","id":"p2","name":"two"}]}`)
	})

	projects, err := c.GetProjects(context.Background(), "tok", "")
	require.NoError(t, err)
	assert.Equal(t, []Project{
		{AccountID: "a", ID: "p1", Name: "one"},
		{AccountID: "a", ID: "p2", Name: "two"},
	}, projects)
}
