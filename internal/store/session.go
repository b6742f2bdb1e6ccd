package store

import (
	"context"
	"strings"
	"time"

	"burger-storefront/internal/domain"
	"burger-storefront/internal/logging"
	"burger-storefront/internal/storage"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

const (
	actionSetAuthorization   = "user/setAuthorization"
	actionSetUser            = "user/setUser"
	actionCheckAuthorization = "user/checkAuthorization"
	actionRegistration       = "user/registration"
	actionLogin              = "user/login"
	actionUpdate             = "user/update"
	actionLogout             = "user/logout"
)

type SessionConfig struct {
	AccessCookie string
	RefreshKey   string
	// AccessTTL is used when the access token carries no readable expiry.
	AccessTTL time.Duration
}

func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		AccessCookie: "accessToken",
		RefreshKey:   "refreshToken",
		AccessTTL:    20 * time.Minute,
	}
}

// SessionState mirrors the authorization slice. Authorized is nil until the
// startup check has run; afterwards it means "the check completed", so login
// status must be read from User.
type SessionState struct {
	User       *domain.User    `json:"user"`
	Authorized *bool           `json:"isAuthorized"`
	Error      *domain.Failure `json:"error,omitempty"`
}

// Session owns the persisted credentials. Nothing else reads or writes the
// cookie jar or the local storage.
type Session struct {
	state   *container[SessionState]
	api     AuthAPI
	cookies storage.CookieJar
	local   storage.LocalStorage
	cfg     SessionConfig
	log     logrus.FieldLogger
	now     func() time.Time
}

func NewSession(api AuthAPI, cookies storage.CookieJar, local storage.LocalStorage, cfg SessionConfig, bus *Bus, logger logrus.FieldLogger) *Session {
	defaults := DefaultSessionConfig()
	if cfg.AccessCookie == "" {
		cfg.AccessCookie = defaults.AccessCookie
	}
	if cfg.RefreshKey == "" {
		cfg.RefreshKey = defaults.RefreshKey
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = defaults.AccessTTL
	}
	return &Session{
		state:   newContainer(SessionState{}, bus),
		api:     api,
		cookies: cookies,
		local:   local,
		cfg:     cfg,
		log:     logging.Component(logger, "session"),
		now:     time.Now,
	}
}

func (s *Session) setAuthorization(value bool) {
	s.state.dispatch(actionSetAuthorization, value, func(st SessionState) SessionState {
		st.Authorized = &value
		return st
	})
}

func (s *Session) setUser(user *domain.User) {
	s.state.dispatch(actionSetUser, user, func(st SessionState) SessionState {
		st.User = user
		return st
	})
}

func (s *Session) publish(actionType string, payload any) {
	s.state.dispatch(actionType, payload, func(st SessionState) SessionState { return st })
}

// Restore runs the startup authorization check. With a stored access
// credential the flag ends up true whether or not the profile could be
// loaded; without one it ends up false. The user and the flag are set by two
// separate transitions.
func (s *Session) Restore(ctx context.Context) error {
	s.publish(actionCheckAuthorization+"/"+domain.PhasePending, nil)

	token, err := s.cookies.Cookie(ctx, s.cfg.AccessCookie)
	if err != nil {
		s.log.WithError(err).Warn("failed to read access credential")
		token = ""
	}
	if token == "" {
		s.setAuthorization(false)
		s.publish(actionCheckAuthorization+"/"+domain.PhaseFulfilled, nil)
		return nil
	}

	var failure *domain.Failure
	user, err := s.api.CurrentUser(ctx)
	if err != nil {
		failure = domain.AsFailure(err, actionCheckAuthorization)
		s.log.WithError(failure).Warn("stored session rejected, clearing credentials")
		s.clearCredentials(ctx)
	} else {
		s.setUser(&user)
	}
	s.setAuthorization(true)
	s.publish(actionCheckAuthorization+"/"+domain.PhaseFulfilled, nil)
	if failure != nil {
		return failure
	}
	return nil
}

func (s *Session) Register(ctx context.Context, data domain.RegisterData) error {
	return s.authenticate(ctx, actionRegistration, func(ctx context.Context) (domain.AuthSession, error) {
		return s.api.Register(ctx, data)
	})
}

func (s *Session) Login(ctx context.Context, data domain.LoginData) error {
	return s.authenticate(ctx, actionLogin, func(ctx context.Context) (domain.AuthSession, error) {
		return s.api.Login(ctx, data)
	})
}

// authenticate leaves User untouched on failure.
func (s *Session) authenticate(ctx context.Context, op string, call func(context.Context) (domain.AuthSession, error)) error {
	s.state.dispatch(op+"/"+domain.PhasePending, nil, func(st SessionState) SessionState {
		st.Error = nil
		return st
	})

	session, err := call(ctx)
	if err == nil {
		err = s.persist(ctx, session)
	}
	if err != nil {
		failure := domain.AsFailure(err, op)
		s.log.WithError(failure).WithField("op", op).Warn("authentication failed")
		authorized := false
		s.state.dispatch(op+"/"+domain.PhaseRejected, failure.String(), func(st SessionState) SessionState {
			st.Error = failure
			st.Authorized = &authorized
			return st
		})
		return failure
	}

	user := session.User
	authorized := true
	s.log.WithField("op", op).Debug("authenticated")
	s.state.dispatch(op+"/"+domain.PhaseFulfilled, user, func(st SessionState) SessionState {
		st.User = &user
		st.Authorized = &authorized
		st.Error = nil
		return st
	})
	return nil
}

// Update sends the changed profile fields and then reloads the profile.
func (s *Session) Update(ctx context.Context, patch domain.ProfilePatch) error {
	s.publish(actionUpdate+"/"+domain.PhasePending, nil)

	user, err := s.updateAndReload(ctx, patch)
	if err != nil {
		failure := domain.AsFailure(err, actionUpdate)
		s.log.WithError(failure).Warn("failed to update profile")
		s.state.dispatch(actionUpdate+"/"+domain.PhaseRejected, failure.String(), func(st SessionState) SessionState {
			st.Error = failure
			return st
		})
		return failure
	}

	s.state.dispatch(actionUpdate+"/"+domain.PhaseFulfilled, user, func(st SessionState) SessionState {
		st.User = &user
		return st
	})
	return nil
}

func (s *Session) updateAndReload(ctx context.Context, patch domain.ProfilePatch) (domain.User, error) {
	if err := s.api.UpdateUser(ctx, patch); err != nil {
		return domain.User{}, err
	}
	return s.api.CurrentUser(ctx)
}

// Logout drops the credentials once the server has accepted the logout. A
// failed logout only records the failure.
func (s *Session) Logout(ctx context.Context) error {
	s.publish(actionLogout+"/"+domain.PhasePending, nil)

	refreshToken, err := s.local.Item(ctx, s.cfg.RefreshKey)
	if err != nil {
		s.log.WithError(err).Warn("failed to read refresh credential")
	}

	if err := s.api.Logout(ctx, refreshToken); err != nil {
		failure := domain.AsFailure(err, actionLogout)
		s.log.WithError(failure).Warn("logout failed")
		s.state.dispatch(actionLogout+"/"+domain.PhaseRejected, failure.String(), func(st SessionState) SessionState {
			st.Error = failure
			return st
		})
		return failure
	}

	s.clearCredentials(ctx)
	s.state.dispatch(actionLogout+"/"+domain.PhaseFulfilled, nil, func(st SessionState) SessionState {
		st.User = nil
		return st
	})
	return nil
}

// AccessToken returns the stored access credential, or "" when there is none.
func (s *Session) AccessToken(ctx context.Context) (string, error) {
	return s.cookies.Cookie(ctx, s.cfg.AccessCookie)
}

func (s *Session) persist(ctx context.Context, session domain.AuthSession) error {
	ttl := s.accessTTL(session.AccessToken)
	if err := s.cookies.SetCookie(ctx, s.cfg.AccessCookie, session.AccessToken, ttl); err != nil {
		return domain.StorageFailure("set access credential", err)
	}
	if err := s.local.SetItem(ctx, s.cfg.RefreshKey, session.RefreshToken); err != nil {
		return domain.StorageFailure("set refresh credential", err)
	}
	return nil
}

func (s *Session) clearCredentials(ctx context.Context) {
	if err := s.local.RemoveItem(ctx, s.cfg.RefreshKey); err != nil {
		s.log.WithError(err).Warn("failed to remove refresh credential")
	}
	if err := s.cookies.DeleteCookie(ctx, s.cfg.AccessCookie); err != nil {
		s.log.WithError(err).Warn("failed to remove access credential")
	}
}

// accessTTL reads the expiry from the token without verifying it; the
// signature is the server's concern.
func (s *Session) accessTTL(token string) time.Duration {
	raw := strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return s.cfg.AccessTTL
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return s.cfg.AccessTTL
	}
	ttl := exp.Sub(s.now())
	if ttl <= 0 {
		return s.cfg.AccessTTL
	}
	return ttl
}

func (s *Session) State() SessionState {
	st := s.state.get()
	if st.User != nil {
		user := *st.User
		st.User = &user
	}
	if st.Authorized != nil {
		authorized := *st.Authorized
		st.Authorized = &authorized
	}
	return st
}

func (s *Session) User() (domain.User, bool) {
	user := s.state.get().User
	if user == nil {
		return domain.User{}, false
	}
	return *user, true
}

func (s *Session) UserName() string {
	user, _ := s.User()
	return user.Name
}

// IsAuthorized returns the flag and whether it has been resolved at all.
func (s *Session) IsAuthorized() (value bool, resolved bool) {
	authorized := s.state.get().Authorized
	if authorized == nil {
		return false, false
	}
	return *authorized, true
}

func (s *Session) Error() string {
	return s.state.get().Error.String()
}
