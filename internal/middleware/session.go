package middleware

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"alfredoptarigan/office-letters/internal/auth"
)

const (
	SessionCookie = "session"
	usernameKey   = "username"
	loginPath     = "/login"
)

// Auth guards routes with the signed session cookie.
type Auth struct {
	Signer       *auth.Signer
	CookieSecure bool
	Log          zerolog.Logger
}

// RequireSession lets the request through only with a valid session cookie.
// Everything else is redirected to the login page.
func (a *Auth) RequireSession(c *fiber.Ctx) error {
	token := c.Cookies(SessionCookie)
	if token == "" {
		return c.Redirect(loginPath, fiber.StatusSeeOther)
	}

	username, err := a.Signer.Verify(token)
	if err != nil {
		evt := a.Log.Debug()
		if errors.Is(err, auth.ErrTokenExpired) {
			evt = a.Log.Info()
		}
		evt.Err(err).Str("path", c.Path()).Msg("session rejected")
		return c.Redirect(loginPath, fiber.StatusSeeOther)
	}

	c.Locals(usernameKey, username)
	return c.Next()
}

// StartSession issues a token for username and sets it as the session cookie.
func (a *Auth) StartSession(c *fiber.Ctx, username string) error {
	token, err := a.Signer.Issue(username)
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(a.Signer.MaxAge() / time.Second),
		HTTPOnly: true,
		Secure:   a.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return nil
}

// EndSession clears the session cookie. Tokens already issued stay valid
// until they age out.
func (a *Auth) EndSession(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   a.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// Username returns the user set by RequireSession.
func Username(c *fiber.Ctx) string {
	if v, ok := c.Locals(usernameKey).(string); ok {
		return v
	}
	return ""
}
