package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/octobees/accounts/api/internal/dto"
	"github.com/octobees/accounts/api/internal/repository"
	"github.com/octobees/accounts/api/internal/service"
)

// UsersHandler exposes registration and directory endpoints.
type UsersHandler struct {
	registration *service.RegistrationService
	directory    *service.DirectoryService
}

// NewUsersHandler constructs a UsersHandler.
func NewUsersHandler(registration *service.RegistrationService, directory *service.DirectoryService) *UsersHandler {
	return &UsersHandler{registration: registration, directory: directory}
}

// Register handles POST /users/register requests.
func (h *UsersHandler) Register(c echo.Context) error {
	var req dto.RegistrationRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if err := c.Validate(&req); err != nil {
		return Error(c, http.StatusBadRequest, describeValidation(err))
	}

	summary, err := h.registration.Register(c.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			return Error(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrRoleNotAllowed):
			return Error(c, http.StatusForbidden, "role not allowed for self-registration")
		case errors.Is(err, repository.ErrUsernameTaken):
			return Error(c, http.StatusConflict, "username already exists")
		case errors.Is(err, repository.ErrEmailTaken):
			return Error(c, http.StatusConflict, "email already exists")
		default:
			slog.ErrorContext(c.Request().Context(), "failed to register user", "error", err)
			return Error(c, http.StatusInternalServerError, "unable to register user")
		}
	}

	return Success(c, http.StatusCreated, "registration successful", summary)
}

// Get handles GET /users/:username requests.
func (h *UsersHandler) Get(c echo.Context) error {
	summary, found, err := h.directory.Lookup(c.Request().Context(), c.Param("username"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			return Error(c, http.StatusBadRequest, err.Error())
		}
		slog.ErrorContext(c.Request().Context(), "failed to look up user", "error", err)
		return Error(c, http.StatusInternalServerError, "unable to look up user")
	}
	if !found {
		return Error(c, http.StatusNotFound, "user not found")
	}

	return Success(c, http.StatusOK, "user retrieved", summary)
}

// List handles GET /users requests.
func (h *UsersHandler) List(c echo.Context) error {
	page, pageSize := 1, service.DefaultPageSize
	if err := echo.QueryParamsBinder(c).
		Int("page", &page).
		Int("page_size", &pageSize).
		BindError(); err != nil {
		return Error(c, http.StatusBadRequest, "page and page_size must be integers")
	}

	result, err := h.directory.List(c.Request().Context(), page, pageSize)
	if err != nil {
		slog.ErrorContext(c.Request().Context(), "failed to list users", "error", err)
		return Error(c, http.StatusInternalServerError, "failed to list users")
	}

	return Success(c, http.StatusOK, "users retrieved", result)
}
