package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/initify/logdrains/internal/configure"
	"github.com/initify/logdrains/internal/vercel"
)

const configurePath = "/configure"

type loginForm struct {
	TeamID      string `form:"team_id"`
	AccessToken string `form:"access_token" binding:"required"`
}

type newDrainView struct {
	configure.CreateNewDrain
	Types []vercel.LogDrainType
}

// showConfigure handles GET /configure and renders the active state.
func (s *Server) showConfigure(c *gin.Context) {
	_, m, ok := s.machine(c)
	if !ok {
		s.render(c, http.StatusOK, configure.Login{})
		return
	}
	s.render(c, http.StatusOK, m.State())
}

func (s *Server) render(c *gin.Context, status int, st configure.State) {
	switch st := st.(type) {
	case configure.Login:
		c.HTML(status, "login.html", st)
	case configure.LoggedIn:
		c.HTML(status, "drains.html", st)
	case configure.CreateNewDrain:
		c.HTML(status, "new_drain.html", newDrainView{CreateNewDrain: st, Types: vercel.LogDrainTypes})
	default:
		panic(fmt.Sprintf("app: unknown configure state %T", st))
	}
}

// login handles POST /configure/login. An empty team id selects the
// personal scope.
func (s *Server) login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		s.render(c, http.StatusBadRequest, configure.Login{Error: "An access token is required."})
		return
	}

	id, m := s.machineOrNew(c)
	s.touchCookie(c, id)
	// Logging in again, e.g. from the callback page, replaces the session.
	if _, ok := m.State().(configure.Login); !ok {
		m.Logout()
	}
	_, err := m.Login(detach(c), form.TeamID, form.AccessToken)
	s.done(c, "login", err)
}

// startCreate handles POST /configure/new.
func (s *Server) startCreate(c *gin.Context) {
	s.withMachine(c, "start create", func(m *configure.Machine) error {
		_, err := m.StartCreate()
		return err
	})
}

// cancelCreate handles POST /configure/cancel.
func (s *Server) cancelCreate(c *gin.Context) {
	s.withMachine(c, "cancel", func(m *configure.Machine) error {
		_, err := m.Cancel()
		return err
	})
}

// createDrain handles POST /configure/drains.
func (s *Server) createDrain(c *gin.Context) {
	var params configure.DrainParams
	if err := c.ShouldBind(&params); err != nil {
		s.logger.Debug("Invalid drain form", zap.Error(err))
	}
	s.withMachine(c, "create drain", func(m *configure.Machine) error {
		_, err := m.CreateDrain(detach(c), params)
		return err
	})
}

// deleteDrain handles POST /configure/drains/:id/delete.
func (s *Server) deleteDrain(c *gin.Context) {
	drainID := c.Param("id")
	s.withMachine(c, "delete drain", func(m *configure.Machine) error {
		_, err := m.DeleteDrain(detach(c), drainID)
		return err
	})
}

// logout handles POST /configure/logout.
func (s *Server) logout(c *gin.Context) {
	if id, m, ok := s.machine(c); ok {
		m.Logout()
		s.sessions.remove(id)
	}
	s.clearCookie(c)
	c.Redirect(http.StatusSeeOther, configurePath)
}

func (s *Server) withMachine(c *gin.Context, action string, fn func(*configure.Machine) error) {
	id, m, ok := s.machine(c)
	if !ok {
		c.Redirect(http.StatusSeeOther, configurePath)
		return
	}
	s.touchCookie(c, id)
	s.done(c, action, fn(m))
}

// done redirects back to the page. Invalid transitions come from double
// submits or stale pages and only need the fresh page.
func (s *Server) done(c *gin.Context, action string, err error) {
	if err != nil {
		if errors.Is(err, configure.ErrInvalidTransition) {
			s.logger.Debug("Ignoring action", zap.String("action", action), zap.Error(err))
		} else {
			s.logger.Error("Action failed", zap.String("action", action), zap.Error(err))
		}
	}
	c.Redirect(http.StatusSeeOther, configurePath)
}

// detach keeps Vercel calls running when the browser goes away, so the
// result still reaches the session. The HTTP client timeout bounds them.
func detach(c *gin.Context) context.Context {
	return context.WithoutCancel(c.Request.Context())
}
