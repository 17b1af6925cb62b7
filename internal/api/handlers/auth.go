package handlers

import (
	"net/http"

	"github.com/pandenic/media-review-board/internal/api/httpx"
	"github.com/pandenic/media-review-board/internal/services"
)

type AuthHandler struct {
	Users *services.UserService
}

func NewAuthHandler(us *services.UserService) *AuthHandler {
	return &AuthHandler{Users: us}
}

type signupResp struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type tokenResp struct {
	Token string `json:"token"`
}

// Signup registers the pair (or finds it) and mails a confirmation code.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req services.SignupInput
	if !decode(w, r, &req) {
		return
	}
	u, err := h.Users.Signup(r.Context(), req)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, signupResp{Username: u.Username, Email: u.Email})
}

func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	var req services.TokenInput
	if !decode(w, r, &req) {
		return
	}
	tok, err := h.Users.IssueToken(r.Context(), req)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, tokenResp{Token: tok})
}
