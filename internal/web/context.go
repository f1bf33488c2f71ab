package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/scizon/internal/logging"
	"github.com/JonMunkholm/scizon/internal/session"
)

// SessionCookie names the cookie that carries the page instance id.
const SessionCookie = "scizon_session"

type instanceKey struct{}

// ContextWithInstance stores the page instance in ctx.
func ContextWithInstance(ctx context.Context, inst *session.Instance) context.Context {
	return context.WithValue(ctx, instanceKey{}, inst)
}

// InstanceFromContext returns the page instance stored by the session
// middleware, or nil.
func InstanceFromContext(ctx context.Context) *session.Instance {
	inst, _ := ctx.Value(instanceKey{}).(*session.Instance)
	return inst
}

// withSession resolves the page instance from the session cookie, creating
// one (and setting the cookie) for new or unknown ids.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if c, err := r.Cookie(SessionCookie); err == nil {
			id = c.Value
		}

		inst, created := s.store.Ensure(id)
		if created {
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    inst.ID,
				Path:     "/",
				HttpOnly: true,
				Secure:   s.cfg.Session.CookieSecure,
				SameSite: http.SameSiteLaxMode,
			})
			logging.FromContext(r.Context()).Debug("session created", "session_id", inst.ID)
		}

		next.ServeHTTP(w, r.WithContext(ContextWithInstance(r.Context(), inst)))
	})
}

// clearSessionCookie expires the session cookie in the browser.
func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cfg.Session.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
