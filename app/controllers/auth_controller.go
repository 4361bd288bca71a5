package controllers

import (
	"net/http"

	"github.com/voltmart/voltmart/app/services"
	"github.com/voltmart/voltmart/pkg/response"
)

type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required,max=255"`
	Company  string `json:"company" validate:"nullable,max=255"`
	Phone    string `json:"phone" validate:"nullable,max=50"`
}

func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !bindJSON(w, r, &req) {
		return
	}

	user, pair, err := c.auth.Register(req.Email, req.Password, req.Name, req.Company, req.Phone)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	response.Created(w, map[string]interface{}{
		"user":          user,
		"token":         pair.Token,
		"refresh_token": pair.RefreshToken,
		"expires_at":    pair.ExpiresAt,
	})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !bindJSON(w, r, &req) {
		return
	}

	user, pair, err := c.auth.Login(req.Email, req.Password)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	response.Success(w, map[string]interface{}{
		"user":          user,
		"token":         pair.Token,
		"refresh_token": pair.RefreshToken,
		"expires_at":    pair.ExpiresAt,
	})
}

func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	user, err := c.auth.Me(userID)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	response.Success(w, user)
}

type updateProfileRequest struct {
	Name    string `json:"name" validate:"required,max=255"`
	Company string `json:"company" validate:"nullable,max=255"`
	Phone   string `json:"phone" validate:"nullable,max=50"`
}

func (c *AuthController) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req updateProfileRequest
	if !bindJSON(w, r, &req) {
		return
	}

	user, err := c.auth.UpdateProfile(userID, req.Name, req.Company, req.Phone)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	response.Success(w, user)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

func (c *AuthController) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req changePasswordRequest
	if !bindJSON(w, r, &req) {
		return
	}

	if err := c.auth.ChangePassword(userID, req.CurrentPassword, req.NewPassword); err != nil {
		respondErr(w, r, err)
		return
	}
	response.Success(w, map[string]string{"message": "password updated"})
}
