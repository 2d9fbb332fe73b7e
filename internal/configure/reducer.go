package configure

import (
	"errors"
	"fmt"

	"github.com/initify/logdrains/internal/vercel"
)

// ErrInvalidTransition is returned for an event the current state does not
// accept.
var ErrInvalidTransition = errors.New("invalid transition")

// Event is an input to Reduce.
type Event interface {
	isEvent()
}

type (
	LoginSubmitted struct{}
	LoginSucceeded struct{ Session Session }
	LoginFailed    struct{ Message string }

	CreateClicked   struct{ Draft DrainParams }
	CreateSubmitted struct{ Params DrainParams }
	DrainCreated    struct{ Drain vercel.LogDrain }
	CreateFailed    struct{ Message string }
	Cancelled       struct{}

	DrainDeleted struct{ ID string }
	LoggedOut    struct{}
)

func (LoginSubmitted) isEvent()  {}
func (LoginSucceeded) isEvent()  {}
func (LoginFailed) isEvent()     {}
func (CreateClicked) isEvent()   {}
func (CreateSubmitted) isEvent() {}
func (DrainCreated) isEvent()    {}
func (CreateFailed) isEvent()    {}
func (Cancelled) isEvent()       {}
func (DrainDeleted) isEvent()    {}
func (LoggedOut) isEvent()       {}

// Reduce returns the state that follows s on ev. It never modifies s;
// sessions are copied before their drain list changes.
func Reduce(s State, ev Event) (State, error) {
	if _, ok := ev.(LoggedOut); ok {
		return Login{}, nil
	}

	switch st := s.(type) {
	case Login:
		switch e := ev.(type) {
		case LoginSubmitted:
			if !st.Submitting {
				return Login{Submitting: true}, nil
			}
		case LoginSucceeded:
			if st.Submitting {
				return LoggedIn{Session: e.Session.clone()}, nil
			}
		case LoginFailed:
			if st.Submitting {
				return Login{Error: e.Message}, nil
			}
		}

	case LoggedIn:
		switch e := ev.(type) {
		case CreateClicked:
			return CreateNewDrain{Session: st.Session, Draft: e.Draft}, nil
		case DrainDeleted:
			return LoggedIn{Session: withoutDrain(st.Session, e.ID)}, nil
		}

	case CreateNewDrain:
		switch e := ev.(type) {
		case CreateSubmitted:
			if !st.Submitting {
				return CreateNewDrain{Session: st.Session, Draft: e.Params, Submitting: true}, nil
			}
		case DrainCreated:
			if st.Submitting {
				sess := st.Session.clone()
				sess.Drains = append(sess.Drains, e.Drain)
				return LoggedIn{Session: sess}, nil
			}
		case CreateFailed:
			if st.Submitting {
				return CreateNewDrain{Session: st.Session, Draft: st.Draft, Error: e.Message}, nil
			}
		case DrainDeleted:
			// A deletion started from the list can finish after the form opened.
			next := st
			next.Session = withoutDrain(st.Session, e.ID)
			return next, nil
		case Cancelled:
			// The cancel button is disabled while a creation is in flight.
			if !st.Submitting {
				return LoggedIn{Session: st.Session}, nil
			}
		}

	default:
		panic(fmt.Sprintf("configure: unknown state %T", s))
	}

	return s, fmt.Errorf("%w: %T in state %s", ErrInvalidTransition, ev, s.Tag())
}

func withoutDrain(s Session, id string) Session {
	out := s
	out.Drains = make([]vercel.LogDrain, 0, len(s.Drains))
	for _, d := range s.Drains {
		if d.ID != id {
			out.Drains = append(out.Drains, d)
		}
	}
	return out
}
