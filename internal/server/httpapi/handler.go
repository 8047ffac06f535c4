package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/accountd/internal/common"
	"github.com/dmitrijs2005/accountd/internal/server/auth"
	"github.com/dmitrijs2005/accountd/internal/server/services"
)

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type socialLoginRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type changePasswordRequest struct {
	Email       string `json:"email"`
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

type changeUserInfoRequest struct {
	Email    string `json:"email"`
	NewName  string `json:"new_name"`
	NewEmail string `json:"new_email"`
}

type deleteUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// fail logs the wrapped service error and answers with a generic status,
// never exposing the underlying cause to the caller.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error(r.Context(), err.Error())
	if errors.Is(err, common.ErrorValidation) {
		http.Error(w, "validation error", http.StatusBadRequest)
		return
	}
	if errors.Is(err, common.ErrorNotFound) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !decode(w, r, &req) {
		return
	}

	ok, err := s.accounts.Signup(r.Context(), &services.Candidate{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !ok {
		http.Error(w, "already registered", http.StatusConflict)
		return
	}

	s.logger.Info(r.Context(), "signup", "email", req.Email)
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decode(w, r, &req) {
		return
	}

	pair, err := s.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if pair == nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	writeJSON(w, http.StatusOK, tokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func (s *Server) handleSocialLogin(w http.ResponseWriter, r *http.Request) {
	var req socialLoginRequest
	if !decode(w, r, &req) {
		return
	}

	pair, err := s.accounts.SocialLogin(r.Context(), &services.Candidate{
		Email: req.Email,
		Name:  req.Name,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if pair == nil {
		http.Error(w, "already registered", http.StatusConflict)
		return
	}

	writeJSON(w, http.StatusOK, tokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !decode(w, r, &req) {
		return
	}

	// the refresh token is verified here; the service only re-mints
	userID, err := auth.GetUserIDFromToken(req.RefreshToken, s.jwtSecret)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	token, err := s.accounts.RefreshAccessToken(r.Context(), userID)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"access_token": token})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	if _, err := s.accounts.Logout(r.Context(), userID); err != nil {
		s.fail(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if !decode(w, r, &req) {
		return
	}

	ok, err := s.accounts.ChangePassword(r.Context(), req.Email, req.OldPassword, req.NewPassword)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !ok {
		http.Error(w, "password not changed", http.StatusConflict)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleChangeUserInfo(w http.ResponseWriter, r *http.Request) {
	var req changeUserInfoRequest
	if !decode(w, r, &req) {
		return
	}

	ok, err := s.accounts.ChangeUserInfo(r.Context(), req.Email, req.NewName, req.NewEmail)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !ok {
		http.Error(w, "nothing to change", http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMyPage(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")

	profile, err := s.accounts.MyPage(r.Context(), email)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	var req deleteUserRequest
	if !decode(w, r, &req) {
		return
	}

	ok, err := s.accounts.DeleteUser(r.Context(), req.Email, req.Password)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !ok {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
