package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"alfredoptarigan/office-letters/internal/views"
)

var statusMessages = map[int]string{
	fiber.StatusBadRequest: "طلب غير صالح",
	fiber.StatusNotFound:   "الصفحة غير موجودة",
}

const internalErrorMessage = "حدث خطأ غير متوقع"

// ErrorHandler renders an opaque error page. Only server faults are logged
// with their cause.
func ErrorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		}

		msg, ok := statusMessages[code]
		if !ok {
			msg = internalErrorMessage
			if code < fiber.StatusInternalServerError {
				msg = statusMessages[fiber.StatusBadRequest]
			}
		}

		if code >= fiber.StatusInternalServerError {
			log.Error().Err(err).
				Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
				Str("path", c.Path()).
				Msg("request failed")
		}

		err = c.Status(code).Render("error", fiber.Map{
			"Title":   msg,
			"Status":  code,
			"Message": msg,
		}, views.Layout)
		if err != nil {
			return c.Status(code).SendString(msg)
		}
		return nil
	}
}
