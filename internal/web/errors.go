package web

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"journal-go/internal/journal"
)

// errUnconfirmedDelete is returned by the API when a delete lacks confirm=true.
var errUnconfirmedDelete = errors.New("delete requires confirm=true")

// statusFor maps errors of the journal layer to HTTP status codes.
func statusFor(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case journal.IsValidation(err):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, journal.ErrNotAuthenticated):
		return fiber.StatusUnauthorized
	case errors.Is(err, journal.ErrBusy),
		errors.Is(err, journal.ErrInvalidTransition),
		errors.Is(err, errUnconfirmedDelete):
		return fiber.StatusConflict
	case errors.Is(err, journal.ErrNotFound):
		return fiber.StatusNotFound
	case journal.IsStoreError(err):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// messageKey picks the ui text shown for err.
func messageKey(err error) string {
	var ve *journal.ValidationError
	switch {
	case errors.As(err, &ve):
		switch ve.Field {
		case "title":
			return "err.title"
		case string(journal.SlotSecondary):
			return "err.secondary"
		case "createdAt", "date":
			return "err.date"
		}
		return "err.invalid"
	case errors.Is(err, journal.ErrNotAuthenticated):
		return "err.auth"
	case errors.Is(err, journal.ErrBusy):
		return "err.busy"
	case errors.Is(err, journal.ErrInvalidTransition):
		return "err.transition"
	case errors.Is(err, journal.ErrNotFound):
		return "err.notfound"
	case journal.IsStoreError(err):
		return "err.store"
	}
	return "err.unknownerror"
}

// errorBody is the JSON shape of every API error.
type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// errorHandler is installed as the fiber error handler. API routes get JSON;
// pages get the error template.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	code := statusFor(err)
	if code >= fiber.StatusInternalServerError {
		s.logger.Error("request failed", "path", c.Path(), "status", code, "error", err)
	}

	if strings.HasPrefix(c.Path(), "/api/") {
		body := errorBody{Error: err.Error()}
		var ve *journal.ValidationError
		if errors.As(err, &ve) {
			body.Field = ve.Field
			body.Error = ve.Message
		}
		return c.Status(code).JSON(body)
	}

	msg := s.t(messageKey(err))
	var fe *fiber.Error
	if errors.As(err, &fe) {
		msg = fe.Message
	}
	c.Status(code)
	return s.render(c, "error", s.page(c, msg, fiber.Map{"Status": code}))
}
