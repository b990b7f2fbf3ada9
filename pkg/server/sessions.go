package server

import (
	"net/http"

	"github.com/vango-dev/signup/pkg/signup"
)

// lookupSession returns the form session named by the request cookie.
func (s *Server) lookupSession(r *http.Request) (string, *signup.Session, error) {
	cookie, err := r.Cookie(s.config.CookieName)
	if err != nil {
		return "", nil, ErrSessionNotFound
	}
	sess, ok := s.sessions.Get(cookie.Value)
	if !ok {
		return "", nil, ErrSessionNotFound
	}
	return cookie.Value, sess, nil
}

// sessionFor returns the request's form session, creating one and setting
// the cookie when the request has none.
func (s *Server) sessionFor(w http.ResponseWriter, r *http.Request) (string, *signup.Session, error) {
	if id, sess, err := s.lookupSession(r); err == nil {
		return id, sess, nil
	}

	id, sess, err := s.sessions.CreateFunc(s.newSession)
	if err != nil {
		return "", nil, err
	}
	s.metrics.SetActiveSessions(s.sessions.Count())

	http.SetCookie(w, s.sessionCookie(id))
	s.logger.Debug("session created", "session_id", id)
	return id, sess, nil
}

func (s *Server) newSession(id string) *signup.Session {
	sess := signup.NewSession(signup.WithLogger(s.base.With(
		"component", "signup",
		"session_id", id,
	)))
	sess.SubscribeStatus(func(st signup.Status) {
		if st == signup.StatusRegistered {
			s.metrics.RecordRegistration()
		}
	})
	return sess
}

func (s *Server) sessionCookie(id string) *http.Cookie {
	return &http.Cookie{
		Name:     s.config.CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.config.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}
