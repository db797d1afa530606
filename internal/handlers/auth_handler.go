package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"alfredoptarigan/office-letters/internal/middleware"
	"alfredoptarigan/office-letters/internal/models"
	"alfredoptarigan/office-letters/internal/services"
	"alfredoptarigan/office-letters/internal/views"
)

// LoginErrorMessage is shown above the form after a failed login.
const LoginErrorMessage = "بيانات الدخول غير صحيحة"

type AuthHandler struct {
	authService services.AuthService
	session     *middleware.Auth
	log         zerolog.Logger
}

func NewAuthHandler(authService services.AuthService, session *middleware.Auth, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		session:     session,
		log:         log,
	}
}

func (h *AuthHandler) renderLogin(c *fiber.Ctx, errMsg string) error {
	return c.Render("login", fiber.Map{
		"Title": "تسجيل الدخول",
		"Error": errMsg,
	}, views.Layout)
}

func (h *AuthHandler) ShowLogin(c *fiber.Ctx) error {
	return h.renderLogin(c, "")
}

func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var form models.LoginForm
	if err := c.BodyParser(&form); err != nil {
		return h.renderLogin(c, LoginErrorMessage)
	}

	user, err := h.authService.Authenticate(c.UserContext(), form.Username, form.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			h.log.Info().Str("username", form.Username).Msg("login failed")
			return h.renderLogin(c, LoginErrorMessage)
		}
		return err
	}

	if err := h.session.StartSession(c, user.Username); err != nil {
		return err
	}

	h.log.Info().Str("username", user.Username).Msg("login succeeded")
	return c.Redirect("/", fiber.StatusSeeOther)
}

func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	h.session.EndSession(c)
	return c.Redirect("/login", fiber.StatusSeeOther)
}
