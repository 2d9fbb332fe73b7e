package configure

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/initify/logdrains/internal/vercel"
)

// LoginFailedMessage is shown when either login fetch fails.
const LoginFailedMessage = "Login failed."

// API is the part of the Vercel client the flow needs.
type API interface {
	GetLogDrains(ctx context.Context, accessToken, teamID string) ([]vercel.LogDrain, error)
	GetProjects(ctx context.Context, accessToken, teamID string) ([]vercel.Project, error)
	CreateLogDrain(ctx context.Context, accessToken, teamID string, drain vercel.CreateLogDrainRequest) (vercel.LogDrain, error)
	DeleteLogDrain(ctx context.Context, accessToken, drainID, teamID string) error
}

// Machine runs the configuration flow for one browser. Vercel calls happen
// outside the lock; a result is applied only if no other transition
// happened while it was in flight.
type Machine struct {
	api    API
	logger *zap.Logger

	mu    sync.Mutex
	state State
	rev   uint64
}

func NewMachine(api API, logger *zap.Logger) *Machine {
	return &Machine{api: api, logger: logger, state: Login{}}
}

// State returns the active state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Login fetches drains and projects for the given scope. Fetch failures
// end in Login with LoginFailedMessage; the returned error is only set
// when a login is not allowed right now.
func (m *Machine) Login(ctx context.Context, teamID, accessToken string) (State, error) {
	st, rev, err := m.dispatch(LoginSubmitted{})
	if err != nil {
		return st, err
	}

	drains, err := m.api.GetLogDrains(ctx, accessToken, teamID)
	if err != nil {
		m.logger.Warn("Login failed fetching log drains", zap.String("team_id", teamID), zap.Error(err))
		return m.complete(rev, LoginFailed{Message: LoginFailedMessage}), nil
	}
	projects, err := m.api.GetProjects(ctx, accessToken, teamID)
	if err != nil {
		m.logger.Warn("Login failed fetching projects", zap.String("team_id", teamID), zap.Error(err))
		return m.complete(rev, LoginFailed{Message: LoginFailedMessage}), nil
	}

	m.logger.Info("Logged in",
		zap.String("team_id", teamID),
		zap.Int("drains", len(drains)),
		zap.Int("projects", len(projects)),
	)
	return m.complete(rev, LoginSucceeded{Session: Session{
		TeamID:      teamID,
		AccessToken: accessToken,
		Drains:      drains,
		Projects:    projects,
	}}), nil
}

// StartCreate opens the new drain form with default params.
func (m *Machine) StartCreate() (State, error) {
	st, _, err := m.dispatch(CreateClicked{Draft: NewDrainParams()})
	return st, err
}

// Cancel leaves the new drain form.
func (m *Machine) Cancel() (State, error) {
	st, _, err := m.dispatch(Cancelled{})
	return st, err
}

// CreateDrain submits the form. A failed call keeps the form open with the
// error text.
func (m *Machine) CreateDrain(ctx context.Context, params DrainParams) (State, error) {
	st, rev, err := m.dispatch(CreateSubmitted{Params: params})
	if err != nil {
		return st, err
	}
	sess, _ := SessionOf(st)

	drain, err := m.api.CreateLogDrain(ctx, sess.AccessToken, sess.TeamID, params.Request())
	if err != nil {
		m.logger.Info("Log drain creation failed", zap.String("team_id", sess.TeamID), zap.Error(err))
		return m.complete(rev, CreateFailed{Message: err.Error()}), nil
	}

	m.logger.Info("Log drain created", zap.String("team_id", sess.TeamID), zap.String("drain_id", drain.ID))
	return m.complete(rev, DrainCreated{Drain: drain}), nil
}

// DeleteDrain deletes a drain and drops it from the list, including the
// list behind a create form opened meanwhile. A failed call is logged and
// leaves the state untouched.
func (m *Machine) DeleteDrain(ctx context.Context, drainID string) (State, error) {
	st := m.State()
	loggedIn, ok := st.(LoggedIn)
	if !ok {
		return st, fmt.Errorf("%w: delete in state %s", ErrInvalidTransition, st.Tag())
	}
	sess := loggedIn.Session

	if err := m.api.DeleteLogDrain(ctx, sess.AccessToken, drainID, sess.TeamID); err != nil {
		m.logger.Error("Failed to delete log drain",
			zap.String("team_id", sess.TeamID),
			zap.String("drain_id", drainID),
			zap.Error(err),
		)
		return m.State(), nil
	}

	m.logger.Info("Log drain deleted", zap.String("team_id", sess.TeamID), zap.String("drain_id", drainID))
	st, _, err := m.dispatch(DrainDeleted{ID: drainID})
	if err != nil {
		// The browser moved on while the call was in flight.
		m.logger.Debug("Dropping deletion result", zap.String("state", st.Tag()), zap.Error(err))
	}
	return st, nil
}

// Logout destroys the session.
func (m *Machine) Logout() State {
	st, _, _ := m.dispatch(LoggedOut{})
	return st
}

func (m *Machine) dispatch(ev Event) (State, uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next, err := Reduce(m.state, ev)
	if err != nil {
		return m.state, m.rev, err
	}
	m.state = next
	m.rev++
	return next, m.rev, nil
}

// complete applies the result of a call started at revision rev.
func (m *Machine) complete(rev uint64, ev Event) State {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.rev != rev {
		m.logger.Debug("Discarding stale result",
			zap.String("event", fmt.Sprintf("%T", ev)),
			zap.String("state", m.state.Tag()),
		)
		return m.state
	}
	next, err := Reduce(m.state, ev)
	if err != nil {
		m.logger.Debug("Discarding result", zap.Error(err))
		return m.state
	}
	m.state = next
	m.rev++
	return next
}
