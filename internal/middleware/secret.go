package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/2beens/gymsheets/internal/telemetry/tracing"
	"github.com/2beens/gymsheets/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

const SecretHeader = "X-Gymsheets-Secret"

// RequireSecret guards write routes (dashboard runs, edit events) with a
// shared secret. An empty secret disables the check.
func RequireSecret(secret string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, span := tracing.GlobalTracer.Start(r.Context(), "middleware.secret")
			defer span.End()

			if secret == "" {
				span.SetStatus(codes.Ok, "disabled")
				next.ServeHTTP(w, r)
				return
			}

			token := r.Header.Get(SecretHeader)
			if token == "" {
				log.Tracef("[missing secret] unauthorized => %s", r.URL.Path)
				http.Error(w, "no can do", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "missing-secret")
				return
			}
			if subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
				log.Warnf("[invalid secret] unauthorized => %s, from %s", r.URL.Path, pkg.ClientIP(r))
				http.Error(w, "no can do", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "invalid-secret")
				return
			}

			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r)
		})
	}
}
