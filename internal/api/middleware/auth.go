package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/glprevenda/erp-auth/internal/api/metrics"
	"github.com/glprevenda/erp-auth/internal/core/domain"
	"github.com/glprevenda/erp-auth/internal/core/ports"
)

// ContextKeyAuth is the echo context key under which the gate stores the
// request's *domain.AuthContext. Downstream handlers read it explicitly;
// there is no ambient per-request global.
const ContextKeyAuth = "auth_context"

// Auth is the per-request authentication gate. It never rejects a request
// itself: a request with no credential, an undecodable token, an unknown or
// inactive user, or a failed validation simply proceeds anonymously, and
// route policy (RequireAuth, RequireRoles) decides downstream. Invoking the
// gate twice on one request leaves the first attached context untouched.
func Auth(tokens ports.TokenService, users ports.UserRepository, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := c.Get(ContextKeyAuth).(*domain.AuthContext); ok {
				return next(c)
			}

			tok, ok := bearerToken(c)
			if !ok {
				metrics.GateOutcomesTotal.WithLabelValues("anonymous").Inc()
				return next(c)
			}

			subject, err := tokens.ExtractSubject(tok)
			if err != nil {
				log.Debug().Err(err).Msg("bearer token rejected by decoder")
				metrics.GateOutcomesTotal.WithLabelValues("invalid_token").Inc()
				return next(c)
			}

			user, err := users.FindByUsername(c.Request().Context(), subject)
			if err != nil {
				log.Debug().Str("subject", subject).Msg("bearer subject does not resolve to a user")
				metrics.GateOutcomesTotal.WithLabelValues("unknown_user").Inc()
				return next(c)
			}
			if !user.Active {
				log.Debug().Str("username", user.Username).Msg("bearer token for inactive account")
				metrics.GateOutcomesTotal.WithLabelValues("inactive").Inc()
				return next(c)
			}

			if !tokens.ValidateAccessToken(tok, user) {
				log.Debug().Str("username", user.Username).Msg("access token failed validation")
				metrics.GateOutcomesTotal.WithLabelValues("rejected").Inc()
				return next(c)
			}

			c.Set(ContextKeyAuth, domain.NewAuthContext(user))
			metrics.GateOutcomesTotal.WithLabelValues("authenticated").Inc()
			return next(c)
		}
	}
}

// bearerToken extracts the credential from an "Authorization: Bearer <tok>"
// header. Any other scheme, or no header at all, counts as no credential.
func bearerToken(c echo.Context) (string, bool) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// AuthFromContext returns the authentication context attached by the gate,
// or nil when the request is anonymous.
func AuthFromContext(c echo.Context) *domain.AuthContext {
	auth, _ := c.Get(ContextKeyAuth).(*domain.AuthContext)
	return auth
}
