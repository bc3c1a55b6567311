// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"roster/internal/delivery/http/middleware"
	"roster/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AccountHandler      *handler.AccountHandler
	RequestIDMiddleware *middleware.RequestIDMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	accountHandler      *handler.AccountHandler
	requestIDMiddleware *middleware.RequestIDMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		accountHandler:      params.AccountHandler,
		requestIDMiddleware: params.RequestIDMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.Use(r.requestIDMiddleware.Process)

	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Login endpoint
	e.POST("/login", r.accountHandler.Login)

	// Account collection endpoints; bulk operations address targets in the body.
	e.POST("/users", r.accountHandler.Register)
	e.GET("/users", r.accountHandler.ListAccounts)
	e.PUT("/users", r.accountHandler.ToggleStatus)
	e.DELETE("/users", r.accountHandler.DeleteAccounts)
}
