// Package configure holds the log drain configuration flow: which form a
// browser sees and which Vercel calls are legal next.
package configure

import (
	"fmt"

	"github.com/initify/logdrains/internal/vercel"
)

// Session is the logged-in context. It is owned by exactly one Machine and
// is never shared between states: transitions copy it.
type Session struct {
	TeamID      string
	AccessToken string
	Drains      []vercel.LogDrain
	Projects    []vercel.Project
}

func (s Session) clone() Session {
	s.Drains = append([]vercel.LogDrain(nil), s.Drains...)
	s.Projects = append([]vercel.Project(nil), s.Projects...)
	return s
}

// State is one of Login, LoggedIn or CreateNewDrain.
type State interface {
	Tag() string
	isState()
}

// Login asks for a team id and access token.
type Login struct {
	Submitting bool
	Error      string
}

// LoggedIn lists the session's drains.
type LoggedIn struct {
	Session Session
}

// CreateNewDrain shows the new drain form.
type CreateNewDrain struct {
	Session    Session
	Draft      DrainParams
	Submitting bool
	Error      string
}

func (Login) Tag() string          { return "login" }
func (LoggedIn) Tag() string       { return "logged_in" }
func (CreateNewDrain) Tag() string { return "create_new_drain" }

func (Login) isState()          {}
func (LoggedIn) isState()       {}
func (CreateNewDrain) isState() {}

// SessionOf returns the session of s, if it has one.
func SessionOf(s State) (Session, bool) {
	switch st := s.(type) {
	case Login:
		return Session{}, false
	case LoggedIn:
		return st.Session, true
	case CreateNewDrain:
		return st.Session, true
	default:
		panic(fmt.Sprintf("configure: unknown state %T", s))
	}
}
