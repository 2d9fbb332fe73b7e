package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// getAccessToken handles GET /api/get-access-token?code=...
// The exchange runs here so the client secret never reaches the browser.
func (s *Server) getAccessToken(c *gin.Context) {
	if !s.cfg.OAuthReady() {
		c.String(http.StatusInternalServerError, "Required server env variables missing")
		return
	}

	code, ok := singleCode(c)
	if !ok {
		c.String(http.StatusBadRequest, "The “code” argument is missing or invalid")
		return
	}

	creds, err := s.exchange(c.Request.Context(), code)
	if err != nil {
		s.logger.Error("Token exchange failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   upstreamErrorCode(err),
			"message": err.Error(),
		})
		return
	}

	s.logger.Info("Token exchanged",
		zap.String("installation_id", creds.InstallationID),
		zap.Bool("team", creds.IsTeam()),
	)
	c.JSON(http.StatusOK, creds)
}

// singleCode returns the code query parameter. A missing, empty or
// repeated code is invalid.
func singleCode(c *gin.Context) (string, bool) {
	codes := c.QueryArray("code")
	if len(codes) != 1 || codes[0] == "" {
		return "", false
	}
	return codes[0], true
}
