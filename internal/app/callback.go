package app

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/initify/logdrains/internal/vercel"
)

type callbackView struct {
	Error           string
	Credentials     *vercel.Credentials
	CredentialsJSON string
	Projects        []vercel.Project
	ProjectsError   string
	Next            string
}

// callback handles GET /callback, where Vercel sends the browser after the
// integration is installed.
func (s *Server) callback(c *gin.Context) {
	view := callbackView{Next: c.Query("next")}

	code, ok := singleCode(c)
	switch {
	case !s.cfg.OAuthReady():
		view.Error = "The integration is not configured on this server."
		c.HTML(http.StatusInternalServerError, "callback.html", view)
		return
	case !ok:
		view.Error = "The “code” argument is missing or invalid."
		c.HTML(http.StatusBadRequest, "callback.html", view)
		return
	}

	ctx := c.Request.Context()
	creds, err := s.exchange(ctx, code)
	if err != nil {
		s.logger.Error("Token exchange failed", zap.Error(err))
		view.Error = "Could not complete the installation: " + err.Error()
		c.HTML(http.StatusBadGateway, "callback.html", view)
		return
	}
	view.Credentials = &creds
	if b, err := json.MarshalIndent(creds, "", "  "); err == nil {
		view.CredentialsJSON = string(b)
	}

	projects, err := s.client.GetProjects(ctx, creds.AccessToken, creds.Team())
	if err != nil {
		s.logger.Error("Failed to fetch projects", zap.String("team_id", creds.Team()), zap.Error(err))
		view.ProjectsError = err.Error()
	}
	view.Projects = projects

	c.HTML(http.StatusOK, "callback.html", view)
}
