package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/kwo0two/rentmanagerpro/internal/models"
)

func TestSignupCreatesUserAndSession(t *testing.T) {
	db := setupTestDB(t)
	h := NewAuthHandler(db)

	form := url.Values{
		"email":    {"new@example.com"},
		"password": {"secret123"},
		"name":     {"김철수"},
	}
	req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	h.Signup(rr, req)

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rr.Code)
	}

	var user models.User
	if err := db.Where("email = ?", "new@example.com").First(&user).Error; err != nil {
		t.Fatalf("user not created: %v", err)
	}
	if user.Password == "secret123" {
		t.Errorf("password stored in plain text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("secret123")); err != nil {
		t.Errorf("stored hash does not match password: %v", err)
	}

	found := false
	for _, c := range rr.Result().Cookies() {
		if c.Name == "session" && c.Value != "" {
			found = true
		}
	}
	if !found {
		t.Errorf("no session cookie set")
	}
}

func TestSignupRejectsShortPassword(t *testing.T) {
	db := setupTestDB(t)
	h := NewAuthHandler(db)

	form := url.Values{"email": {"new@example.com"}, "password": {"short"}}
	req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	rr := httptest.NewRecorder()
	h.Signup(rr, req)

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rr.Code)
	}
	var count int64
	db.Model(&models.User{}).Count(&count)
	if count != 0 {
		t.Fatalf("user created despite invalid password")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	db := setupTestDB(t)
	hash, _ := bcrypt.GenerateFromPassword([]byte("right"), bcrypt.DefaultCost)
	db.Create(&models.User{Email: "owner@example.com", Password: string(hash)})

	h := NewAuthHandler(db)
	form := url.Values{"email": {"owner@example.com"}, "password": {"wrong"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	h.Login(rr, req)

	for _, c := range rr.Result().Cookies() {
		if c.Name == "session" && c.Value != "" {
			t.Fatalf("session issued for wrong password")
		}
	}
}
