package middleware

import (
	"log/slog"
	"net/http"
	"net/url"

	"mess-portal/internal/guard"
	"mess-portal/internal/notify"
	"mess-portal/internal/session"
)

const loadingMessage = "Loading authentication status..."

// SessionProvider makes store reachable from every request context below it.
func SessionProvider(store *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(session.WithStore(r.Context(), store)))
		})
	}
}

// Guard renders the decision of g for the request's location. Denials raise a
// warning notification before redirecting home.
func Guard(g guard.Guard, notifier notify.Notifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			store, err := session.FromContext(r.Context())
			if err != nil {
				panic(err)
			}

			location := r.URL.RequestURI()
			decision := g.Decide(store.Snapshot(), location)

			switch decision.Kind {
			case guard.KindAllow:
				next.ServeHTTP(w, r)
			case guard.KindLoading:
				w.Header().Set("Retry-After", "1")
				writeJSONError(w, http.StatusServiceUnavailable, loadingMessage)
			case guard.KindRedirect:
				target := decision.RedirectTo
				if decision.From != "" {
					target += "?from=" + url.QueryEscape(decision.From)
				}
				http.Redirect(w, r, target, http.StatusSeeOther)
			default:
				slog.Warn("navigation denied", "path", r.URL.Path, "reason", decision.Reason)
				if notifier != nil {
					notifier.Push(notify.Notification{
						Level:   notify.LevelWarning,
						Source:  "guard",
						Message: "Access Denied: You do not have the required permissions to view this page.",
					})
				}
				http.Redirect(w, r, decision.RedirectTo, http.StatusSeeOther)
			}
		})
	}
}
