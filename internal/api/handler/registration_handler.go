package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/novinsoft/signup-system/internal/core/domain"
	"github.com/novinsoft/signup-system/internal/core/ports"
)

// RegistrationHandler handles the public signup write path.
type RegistrationHandler struct {
	service ports.RegistrationService
}

func NewRegistrationHandler(service ports.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{service: service}
}

// registerRequest accepts both JSON and form bodies; the public form posts
// URL-encoded fields, API clients send JSON.
type registerRequest struct {
	FirstName string `json:"firstName" form:"firstName" validate:"required"`
	LastName  string `json:"lastName" form:"lastName" validate:"required"`
	Phone     string `json:"phone" form:"phone" validate:"required"`
}

type okResponse struct {
	OK bool `json:"ok"`
}

// Register handles POST /api/register.
func (h *RegistrationHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: malformed body", domain.ErrValidation)
	}
	if err := c.Validate(&req); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	// Trim-level validation (whitespace-only fields) lives in the service;
	// errors come back as domain sentinels and are mapped centrally.
	if _, err := h.service.Register(c.Request().Context(), ports.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	}); err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, okResponse{OK: true})
}
