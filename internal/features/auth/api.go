package auth

import (
	"go-formhub/internal/config"
	"go-formhub/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AuthApi struct {
	authController *AuthController
	config         *config.Config
}

func NewAuthApi(authController *AuthController, config *config.Config) *AuthApi {
	return &AuthApi{
		authController: authController,
		config:         config,
	}
}

// Setup registers all auth-related routes
func (h *AuthApi) Setup(app *fiber.App) {
	authGroup := app.Group("/api/auth")

	authGroup.Post("/register", h.authController.Register)
	authGroup.Post("/login", h.authController.Login)
	authGroup.Get("/me", middleware.AuthMiddleware(h.config.SkipAuth), h.authController.Me)
}
