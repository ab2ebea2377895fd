// Package handlers contains the HTTP handlers for every application route.
// Handlers render HTML by default and answer JSON when the client asks for
// it; all domain queries are scoped to the authenticated owner.
package handlers

import (
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/kwo0two/rentmanagerpro/internal/auth"
	"github.com/kwo0two/rentmanagerpro/internal/httpx"
	"github.com/kwo0two/rentmanagerpro/internal/models"
	"github.com/kwo0two/rentmanagerpro/internal/validation"
	"github.com/kwo0two/rentmanagerpro/internal/view"
)

const minPasswordLength = 8

type AuthHandler struct {
	db *gorm.DB
}

func NewAuthHandler(db *gorm.DB) *AuthHandler {
	return &AuthHandler{db: db}
}

type credentials struct {
	Email    string
	Password string
	Name     string
}

// credentialsFromForm normalizes the email so "Kim@Example.com" and
// "kim@example.com" are the same account.
func credentialsFromForm(r *http.Request) credentials {
	return credentials{
		Email:    strings.ToLower(strings.TrimSpace(r.FormValue("email"))),
		Password: r.FormValue("password"),
		Name:     strings.TrimSpace(r.FormValue("name")),
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		view.Render(w, r, "login.html", nil)
		return
	}

	creds := credentialsFromForm(r)

	var user models.User
	err := h.db.Where("email = ?", creds.Email).First(&user).Error
	if err == nil {
		err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(creds.Password))
	}
	if err != nil {
		// Same answer for unknown email and wrong password.
		h.loginFailed(w, r, creds.Email)
		return
	}

	auth.CreateSession(w, user.ID)
	if wantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"user_id": user.ID})
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *AuthHandler) loginFailed(w http.ResponseWriter, r *http.Request, email string) {
	if wantsJSON(r) {
		httpx.JSONError(w, http.StatusUnauthorized, "invalid email or password", nil)
		return
	}
	view.Render(w, r, "login.html", map[string]any{
		"Error": "Invalid email or password",
		"Email": email,
	})
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		view.Render(w, r, "signup.html", nil)
		return
	}

	creds := credentialsFromForm(r)

	violations := validation.Violations{}
	validation.Required("email", creds.Email, violations)
	validation.Required("password", creds.Password, violations)
	if creds.Password != "" && len(creds.Password) < minPasswordLength {
		violations["password"] = "too_short"
	}
	if !violations.Empty() {
		h.signupFailed(w, r, creds, http.StatusUnprocessableEntity, "invalid signup", violations)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		h.signupFailed(w, r, creds, http.StatusInternalServerError, "internal server error", nil)
		return
	}

	user := models.User{Email: creds.Email, Password: string(hash), Name: creds.Name}
	if err := h.db.Create(&user).Error; err != nil {
		// The unique index on email is the usual cause here.
		h.signupFailed(w, r, creds, http.StatusConflict, "email already exists", nil)
		return
	}

	auth.CreateSession(w, user.ID)
	if wantsJSON(r) {
		httpx.JSON(w, http.StatusCreated, map[string]any{"user_id": user.ID})
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *AuthHandler) signupFailed(w http.ResponseWriter, r *http.Request, creds credentials, status int, msg string, violations validation.Violations) {
	if wantsJSON(r) {
		httpx.JSONError(w, status, msg, violations)
		return
	}
	view.Render(w, r, "signup.html", map[string]any{
		"Error": msg,
		"Email": creds.Email,
		"Name":  creds.Name,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSession(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
