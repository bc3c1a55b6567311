package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	domainerrors "roster/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func newTestMiddleware() *ErrorMiddleware {
	return NewErrorMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func handleError(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/users", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	newTestMiddleware().HandleHTTPError(err, c)

	return rec
}

func TestErrorMiddleware_AppError(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid credentials", domainerrors.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"account blocked", domainerrors.ErrAccountBlocked, http.StatusBadRequest, "ACCOUNT_BLOCKED"},
		{"email already registered", domainerrors.ErrEmailAlreadyRegistered, http.StatusBadRequest, "EMAIL_ALREADY_REGISTERED"},
		{"actor not authorized", domainerrors.ErrActorNotAuthorized, http.StatusUnauthorized, "ACTOR_NOT_AUTHORIZED"},
		{"missing fields", domainerrors.ErrMissingFields, http.StatusBadRequest, "MISSING_FIELDS"},
		{"database execute failure", domainerrors.NewDatabaseExecuteError(errors.New("insert failed"), "insert failed"), http.StatusBadRequest, "DATABASE_EXECUTE_FAILED"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := handleError(t, tc.err)

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), `"success":false`)
			assert.Contains(t, rec.Body.String(), tc.wantCode)
		})
	}
}

func TestErrorMiddleware_WrappedAppError(t *testing.T) {
	// Errors are wrapped with context as they travel up; unwrapping to the
	// domain error must still drive the response.
	wrapped := errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")

	rec := handleError(t, wrapped)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_CREDENTIALS")
}

func TestErrorMiddleware_StoreFailureEnvelope(t *testing.T) {
	// The repository reports driver failures as DatabaseExecuteError; by the
	// time one reaches the middleware it has been wrapped twice more by the
	// usecase. It must still render the 400 envelope, never a bare 500.
	storeErr := domainerrors.NewDatabaseExecuteError(
		errors.New("connection reset by peer"), "failed to find account by email")
	err := errors.Wrap(
		errors.Wrap(storeErr, "failed to find actor account"),
		"failed to execute toggle status transaction")

	rec := handleError(t, err)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "DATABASE_EXECUTE_FAILED")
}

func TestErrorMiddleware_EchoHTTPError(t *testing.T) {
	rec := handleError(t, echo.NewHTTPError(http.StatusNotFound, "Not Found"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "HTTP_ERROR")
}

func TestErrorMiddleware_UnknownError(t *testing.T) {
	rec := handleError(t, errors.New("something unexpected"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "INTERNAL_ERROR")
}
