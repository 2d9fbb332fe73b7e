package app

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/initify/logdrains/internal/configure"
	"github.com/initify/logdrains/internal/vercel"
)

//go:embed templates/*.html
var templateFS embed.FS

type Server struct {
	cfg       *Config
	client    *vercel.Client
	logger    *zap.Logger
	signer    *sessionSigner
	sessions  *sessionRegistry
	templates *template.Template
}

func NewServer(cfg *Config, logger *zap.Logger) *Server {
	client := vercel.NewClient(
		vercel.WithBaseURL(cfg.VercelAPIURL),
		vercel.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		vercel.WithLogger(logger.Named("vercel")),
	)
	s := &Server{
		cfg:       cfg,
		client:    client,
		logger:    logger,
		signer:    newSessionSigner(cfg.SessionSecret, cfg.SessionTTL),
		templates: parseTemplates(),
	}
	s.sessions = newSessionRegistry(cfg.SessionTTL, func() *configure.Machine {
		return configure.NewMachine(client, logger.Named("configure"))
	})
	if cfg.generatedSecret {
		logger.Warn("SESSION_SECRET is not set; sessions will not survive a restart or span instances")
	}
	if !cfg.OAuthReady() {
		logger.Warn("CLIENT_ID, CLIENT_SECRET or REDIRECT_HOST is not set; the OAuth callback is disabled")
	}
	return s
}

// Logger returns the server's logger.
func (s *Server) Logger() *zap.Logger {
	return s.logger
}

// Addr is the listen address for a standalone server.
func (s *Server) Addr() string {
	return ":" + s.cfg.Port
}

// ServerFromEnv loads the config and logger from the environment.
func ServerFromEnv() (*Server, error) {
	cfg, err := LoadConfigFromEnv()
	if err != nil {
		return nil, err
	}
	logger, err := NewLogger(cfg)
	if err != nil {
		return nil, err
	}
	return NewServer(cfg, logger), nil
}

func parseTemplates() *template.Template {
	funcs := template.FuncMap{
		"plural": func(n int, word string) string {
			if n == 1 {
				return word
			}
			return word + "s"
		},
	}
	return template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))
}

// exchange runs the server-side OAuth code exchange.
func (s *Server) exchange(ctx context.Context, code string) (vercel.Credentials, error) {
	return s.client.GetAccessToken(ctx, vercel.TokenRequest{
		ClientID:     s.cfg.ClientID,
		ClientSecret: s.cfg.ClientSecret,
		Code:         code,
		RedirectURI:  s.cfg.RedirectURI(),
	})
}

// machine returns the configure session named by the request cookie.
func (s *Server) machine(c *gin.Context) (string, *configure.Machine, bool) {
	token, err := c.Cookie(sessionCookie)
	if err != nil {
		return "", nil, false
	}
	id, err := s.signer.parse(token)
	if err != nil {
		s.logger.Debug("Ignoring session cookie", zap.Error(err))
		return "", nil, false
	}
	m, ok := s.sessions.get(id)
	if !ok {
		return "", nil, false
	}
	return id, m, true
}

// machineOrNew is machine, creating a session when there is none.
func (s *Server) machineOrNew(c *gin.Context) (string, *configure.Machine) {
	if id, m, ok := s.machine(c); ok {
		return id, m
	}
	id, m := s.sessions.create()
	s.logger.Debug("Session created", zap.Int("sessions", s.sessions.len()))
	return id, m
}

// touchCookie re-issues the session cookie so its expiry follows activity.
func (s *Server) touchCookie(c *gin.Context, id string) {
	token, err := s.signer.sign(id)
	if err != nil {
		s.logger.Error("Failed to sign session cookie", zap.Error(err))
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, token, int(s.cfg.SessionTTL.Seconds()), "/", "", !s.cfg.Local(), true)
}

func (s *Server) clearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, "", -1, "/", "", !s.cfg.Local(), true)
}

// upstreamErrorCode names the kind of a failed Vercel call for API clients.
func upstreamErrorCode(err error) string {
	var (
		te *vercel.TransportError
		se *vercel.StatusError
		de *vercel.DecodeError
	)
	switch {
	case errors.As(err, &te):
		return "upstream_unreachable"
	case errors.As(err, &se):
		return "upstream_status"
	case errors.As(err, &de):
		return "upstream_invalid_response"
	default:
		return "upstream_error"
	}
}
