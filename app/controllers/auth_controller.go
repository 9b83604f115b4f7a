// Package controllers holds the HTTP handlers. Handlers bind and validate
// input, call a service, and map domain errors to HTTP codes.
package controllers

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/vastra/app/services"
	"github.com/shashiranjanraj/vastra/pkg/ctx"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{service: service}
}

type registerInput struct {
	Name     string `json:"name"     validate:"required,min=2,max=255"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func (c *AuthController) Register(cc *ctx.Context) {
	var in registerInput
	if !cc.BindJSON(&in) {
		return
	}

	user, token, err := c.service.Register(cc.Context(), in.Name, in.Email, in.Password)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			cc.Error(http.StatusConflict, "Email already registered")
			return
		}
		cc.Error(http.StatusInternalServerError, "Registration failed")
		return
	}

	cc.Created(map[string]interface{}{"token": token, "user": user})
}

type loginInput struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (c *AuthController) Login(cc *ctx.Context) {
	var in loginInput
	if !cc.BindJSON(&in) {
		return
	}

	user, token, err := c.service.Login(cc.Context(), in.Email, in.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			cc.Unauthorized("Invalid email or password")
			return
		}
		cc.Error(http.StatusInternalServerError, "Login failed")
		return
	}

	cc.Success(map[string]interface{}{"token": token, "user": user})
}
