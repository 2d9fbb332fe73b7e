package vercel

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// DefaultBaseURL is the public Vercel API host.
const DefaultBaseURL = "https://api.vercel.com"

const (
	tokenPath     = "/v2/oauth/access_token"
	logDrainsPath = "/v1/integrations/log-drains"
	projectsPath  = "/v4/projects"

	maxBodySize = 10 << 20
)

// credentialFields are the token response fields kept in Credentials.
var credentialFields = []string{"token_type", "access_token", "installation_id", "user_id", "team_id"}

// Client talks to the Vercel REST API. It holds no credentials; every call
// takes the access token it should act with.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

type Option func(*Client)

// WithBaseURL points the client at another API host (tests, proxies).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient sets the underlying HTTP client. Its transport carries the
// bearer token wrapper; its timeout bounds every call.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// ResourceURL joins the base host and path, adding ?teamId= only when a
// team scope was requested.
func (c *Client) ResourceURL(path, teamID string) string {
	u := c.baseURL + path
	if teamID != "" {
		u += "?" + url.Values{"teamId": {teamID}}.Encode()
	}
	return u
}

// GetAccessToken trades the temporary setup code for credentials. It must
// run server-side since it needs the client secret.
func (c *Client) GetAccessToken(ctx context.Context, req TokenRequest) (Credentials, error) {
	conf := &oauth2.Config{
		ClientID:     req.ClientID,
		ClientSecret: req.ClientSecret,
		RedirectURL:  req.RedirectURI,
		Endpoint: oauth2.Endpoint{
			TokenURL:  c.baseURL + tokenPath,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
	tok, err := conf.Exchange(c.oauthContext(ctx), req.Code)
	if err != nil {
		return Credentials{}, tokenError(err)
	}

	raw := make(map[string]any, len(credentialFields))
	for _, k := range credentialFields {
		if v := tok.Extra(k); v != nil {
			raw[k] = v
		}
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return Credentials{}, &DecodeError{Resource: "credentials", Err: err}
	}
	return DecodeCredentials(data)
}

// GetLogDrains lists the log drains of the personal or team scope.
func (c *Client) GetLogDrains(ctx context.Context, accessToken, teamID string) ([]LogDrain, error) {
	const op = "get log drains"
	data, err := c.call(ctx, op, accessToken, http.MethodGet, c.ResourceURL(logDrainsPath, teamID), nil)
	if err != nil {
		return nil, err
	}
	return DecodeLogDrains(data)
}

// CreateLogDrain creates a drain. Vercel assigns id, clientId,
// configurationId, ownerId and createdAt.
func (c *Client) CreateLogDrain(ctx context.Context, accessToken, teamID string, drain CreateLogDrainRequest) (LogDrain, error) {
	const op = "create log drain"
	if err := drain.Validate(); err != nil {
		return LogDrain{}, fmt.Errorf("invalid log drain: %w", err)
	}
	data, err := c.call(ctx, op, accessToken, http.MethodPost, c.ResourceURL(logDrainsPath, teamID), drain)
	if err != nil {
		return LogDrain{}, err
	}
	return DecodeLogDrain(data)
}

// DeleteLogDrain deletes a drain. Only 204 counts as success.
func (c *Client) DeleteLogDrain(ctx context.Context, accessToken, drainID, teamID string) error {
	const op = "delete log drain"
	path := logDrainsPath + "/" + url.PathEscape(drainID)
	code, _, err := c.send(ctx, op, accessToken, http.MethodDelete, c.ResourceURL(path, teamID), nil)
	if err != nil {
		return err
	}
	if code == http.StatusNoContent {
		return nil
	}
	return deleteStatusError(code)
}

// GetProjects lists the projects of the personal or team scope.
func (c *Client) GetProjects(ctx context.Context, accessToken, teamID string) ([]Project, error) {
	const op = "get projects"
	data, err := c.call(ctx, op, accessToken, http.MethodGet, c.ResourceURL(projectsPath, teamID), nil)
	if err != nil {
		return nil, err
	}
	return DecodeProjects(data)
}

func (c *Client) oauthContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
}

func (c *Client) authorized(ctx context.Context, accessToken string) *http.Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
	hc := oauth2.NewClient(c.oauthContext(ctx), ts)
	hc.Timeout = c.httpClient.Timeout
	return hc
}

// call is send plus the 2xx check.
func (c *Client) call(ctx context.Context, op, accessToken, method, rawURL string, body any) ([]byte, error) {
	code, data, err := c.send(ctx, op, accessToken, method, rawURL, body)
	if err != nil {
		return nil, err
	}
	if code < 200 || code > 299 {
		return nil, &StatusError{Op: op, StatusCode: code, Message: apiErrorMessage(data)}
	}
	return data, nil
}

func (c *Client) send(ctx context.Context, op, accessToken, method, rawURL string, body any) (int, []byte, error) {
	var rdr io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("%s: encode request: %w", op, err)
		}
		rdr = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, rdr)
	if err != nil {
		return 0, nil, fmt.Errorf("%s: create request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.authorized(ctx, accessToken).Do(req)
	if err != nil {
		return 0, nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return resp.StatusCode, nil, &TransportError{Op: op, Err: err}
	}

	c.logger.Debug("Vercel API call",
		zap.String("op", op),
		zap.String("method", method),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)
	return resp.StatusCode, data, nil
}

// apiErrorMessage extracts the message of Vercel's {"error": {...}} body.
func apiErrorMessage(data []byte) string {
	var env struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(data, &env) != nil {
		return ""
	}
	if env.Error.Message != "" {
		return env.Error.Message
	}
	return env.Error.Code
}

func tokenError(err error) error {
	const op = "get access token"
	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		se := &StatusError{Op: op, Message: re.ErrorDescription}
		if re.Response != nil {
			se.StatusCode = re.Response.StatusCode
		}
		if se.Message == "" {
			se.Message = re.ErrorCode
		}
		if se.Message == "" {
			se.Message = apiErrorMessage(re.Body)
		}
		return se
	}
	var ue *url.Error
	if errors.As(err, &ue) {
		return &TransportError{Op: op, Err: err}
	}
	// oauth2 rejects bodies it cannot parse or that lack access_token.
	return &DecodeError{Resource: "credentials", Err: err}
}
