package guard

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/session"
)

// SessionCookie is where the auth provider stores the signed token.
const SessionCookie = "storefront_session"

// Middleware runs the guard before every handler. A token that fails to
// parse or verify counts as no token at all; the guard then redirects to
// the matching login page instead of serving a 401.
func Middleware(g *Guard, secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess := sessionFromRequest(c, secret)

			decision := g.Decide(c.Request().URL.Path, sess)
			if !decision.Allow {
				return c.Redirect(http.StatusFound, decision.RedirectTo)
			}

			if sess != nil {
				c.Set("session", *sess)
			}
			return next(c)
		}
	}
}

// SessionFromContext returns the session the middleware attached, if any.
func SessionFromContext(c echo.Context) (domain.Session, bool) {
	sess, ok := c.Get("session").(domain.Session)
	return sess, ok
}

func sessionFromRequest(c echo.Context, secret []byte) *domain.Session {
	token := ""
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		token = cookie.Value
	}
	if token == "" {
		auth := c.Request().Header.Get(echo.HeaderAuthorization)
		if strings.HasPrefix(auth, "Bearer ") {
			token = strings.TrimPrefix(auth, "Bearer ")
		}
	}
	if token == "" {
		return nil
	}

	sess, err := session.ParseToken(token, secret)
	if err != nil {
		// unverifiable token is treated the same as none
		return nil
	}

	return &sess
}
