// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"

	"roster/internal/delivery/http/response"
	domainerrors "roster/internal/domain/errors"
	"roster/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AccountHandler holds dependencies for account-related handlers.
type AccountHandler struct {
	uc     usecase.AccountUsecase
	logger *slog.Logger
}

// NewAccountHandler is the constructor for AccountHandler, injected by Fx.
func NewAccountHandler(uc usecase.AccountUsecase, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		uc:     uc,
		logger: logger,
	}
}

// --- Request / response bodies ---

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// The target slices carry no `required` tag on purpose: an empty selection is
// a legal no-op, and only a completely absent field is a validation error.
// That distinction is decided in the usecase, which sees nil vs. empty.
type toggleRequest struct {
	UserEmail      string   `json:"userEmail" validate:"required"`
	EmailsToUpdate []string `json:"emailsToUpdate"`
}

type deleteRequest struct {
	UserEmail      string   `json:"userEmail" validate:"required"`
	EmailsToDelete []string `json:"emailsToDelete"`
}

type profileResponse struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	IsActive bool   `json:"isActive"`
}

type registeredResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type listResponse struct {
	Count int               `json:"count"`
	Data  []profileResponse `json:"data"`
}

type bulkResponse struct {
	MatchedCount int64 `json:"matchedCount"`
}

// Register handles the account registration request.
func (h *AccountHandler) Register(c echo.Context) error {
	var input registerRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}
	if err := c.Validate(&input); err != nil {
		return domainerrors.ErrMissingFields.WrapMessage("invalid registration input")
	}

	output, err := h.uc.Register(c.Request().Context(), &usecase.RegisterInput{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	// Only name and email go back out; the password hash never leaves the store.
	return response.Success(c, http.StatusOK, registeredResponse{
		Name:  output.Name,
		Email: output.Email,
	}, "Account registered successfully")
}

// Login handles the account login request.
func (h *AccountHandler) Login(c echo.Context) error {
	var input loginRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(&input); err != nil {
		return domainerrors.ErrMissingFields.WrapMessage("invalid login input")
	}

	output, err := h.uc.Login(c.Request().Context(), &usecase.LoginInput{
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, profileResponse{
		Name:     output.Name,
		Email:    output.Email,
		IsActive: output.IsActive,
	}, "Login successful")
}

// ListAccounts returns every account's public projection.
func (h *AccountHandler) ListAccounts(c echo.Context) error {
	summaries, err := h.uc.ListAccounts(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	data := make([]profileResponse, 0, len(summaries))
	for _, s := range summaries {
		data = append(data, profileResponse{
			Name:     s.Name,
			Email:    s.Email,
			IsActive: s.IsActive,
		})
	}

	return response.Success(c, http.StatusOK, listResponse{
		Count: len(data),
		Data:  data,
	}, "Accounts retrieved successfully")
}

// ToggleStatus handles the bulk activate/deactivate request.
func (h *AccountHandler) ToggleStatus(c echo.Context) error {
	var input toggleRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid toggle input")
	}
	if err := c.Validate(&input); err != nil {
		return domainerrors.ErrMissingFields.WrapMessage("invalid toggle input")
	}

	output, err := h.uc.ToggleStatus(c.Request().Context(), &usecase.BulkInput{
		ActorEmail:   input.UserEmail,
		TargetEmails: input.EmailsToUpdate,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	switch output.Outcome {
	case usecase.BulkOutcomeNoneSelected:
		return response.Success(c, http.StatusOK, bulkResponse{}, "No accounts selected")
	case usecase.BulkOutcomeSelfApplied:
		// The actor flipped its own account: 202 signals the self-lockout so
		// the client knows this session's account just went inactive.
		return response.Success(c, http.StatusAccepted, bulkResponse{MatchedCount: output.Matched},
			"Accounts updated; your own account was deactivated")
	default:
		return response.Success(c, http.StatusOK, bulkResponse{MatchedCount: output.Matched},
			"Accounts updated successfully")
	}
}

// DeleteAccounts handles the bulk deletion request.
func (h *AccountHandler) DeleteAccounts(c echo.Context) error {
	var input deleteRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid delete input")
	}
	if err := c.Validate(&input); err != nil {
		return domainerrors.ErrMissingFields.WrapMessage("invalid delete input")
	}

	output, err := h.uc.DeleteAccounts(c.Request().Context(), &usecase.BulkInput{
		ActorEmail:   input.UserEmail,
		TargetEmails: input.EmailsToDelete,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	switch output.Outcome {
	case usecase.BulkOutcomeNoneSelected:
		return response.Success(c, http.StatusOK, bulkResponse{}, "No accounts selected")
	case usecase.BulkOutcomeSelfApplied:
		return response.Success(c, http.StatusAccepted, bulkResponse{MatchedCount: output.Matched},
			"Accounts deleted; your own account was removed")
	default:
		return response.Success(c, http.StatusOK, bulkResponse{MatchedCount: output.Matched},
			"Accounts deleted successfully")
	}
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"}, "Service is healthy")
}
