package capability

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/crewdesk/crewdesk/internal/shared"
)

// SubjectSource resolves the authenticated subject for a user id. The role
// comes from the user record, never from the session payload itself.
type SubjectSource interface {
	SubjectByUser(ctx context.Context, userID int64) (Subject, error)
}

// Middleware wires capability authorization for HTTP handlers. All checks
// funnel through Service.HasCapability, so the implicit admin bypass is
// enforced in one place only.
type Middleware struct {
	Service  *Service
	Subjects SubjectSource
	Logger   *slog.Logger
}

// Require ensures the current subject holds the capability.
func (m Middleware) Require(c Capability) func(http.Handler) http.Handler {
	return m.RequireAny(c)
}

// RequireAny ensures the current subject holds at least one of the
// capabilities.
func (m Middleware) RequireAny(caps ...Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(caps) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			sub, ok := m.CurrentSubject(r)
			if !ok {
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			for _, c := range caps {
				if m.Service.HasCapability(r.Context(), sub, c) {
					next.ServeHTTP(w, r)
					return
				}
			}
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		})
	}
}

// CurrentSubject resolves the subject for the request's session user.
func (m Middleware) CurrentSubject(r *http.Request) (Subject, bool) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		return Subject{}, false
	}
	raw := strings.TrimSpace(sess.User())
	if raw == "" {
		return Subject{}, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		if m.Logger != nil {
			m.Logger.Error("capability parse user id", slog.String("value", raw))
		}
		return Subject{}, false
	}
	sub, err := m.Subjects.SubjectByUser(r.Context(), id)
	if err != nil {
		if m.Logger != nil {
			m.Logger.Error("capability resolve subject", slog.Int64("user_id", id), slog.Any("error", err))
		}
		return Subject{}, false
	}
	return sub, true
}
