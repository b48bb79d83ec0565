package accounts

import (
	"net/http"
	"time"
	"unicode/utf8"

	"aquafund-backend/internal/interfaces/handlers/proxy"
	"aquafund-backend/internal/pkg/constants"
	"aquafund-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// MinPasswordLength is the shortest password accepted at sign-up.
const MinPasswordLength = 8

// Handlers forwards account sign-up and login to the backend auth endpoints.
type Handlers struct {
	Proxy *proxy.Proxy
}

var (
	createRoute = proxy.Route{Method: http.MethodPost, Path: "/api/v1/auth/register", Validate: validateCreate}
	loginRoute  = proxy.Route{Method: http.MethodPost, Path: "/api/v1/auth/login", Validate: validateLogin}
)

// Create POST /api/accounts/create
func (h *Handlers) Create(c *fiber.Ctx) error { return h.Proxy.Forward(c, createRoute) }

// Login POST /api/accounts/login
func (h *Handlers) Login(c *fiber.Ctx) error { return h.Proxy.Forward(c, loginRoute) }

func validateCreate(b proxy.Body, _ time.Time) error {
	var v validation.Checker
	v.Email("email", b.String("email"))
	if password := b.String("password"); v.Require("password", password) {
		v.Check("password", utf8.RuneCountInString(password) >= MinPasswordLength)
	}
	v.OneOf("role", b.String("role"), constants.SignupRoles...)
	return v.Err()
}

func validateLogin(b proxy.Body, _ time.Time) error {
	var v validation.Checker
	v.Require("email", b.String("email"))
	v.Require("password", b.String("password"))
	return v.Err()
}
