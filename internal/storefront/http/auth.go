package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/marketloft/storefront/internal/storefront/domain"
	"github.com/marketloft/storefront/internal/storefront/service"
	"github.com/marketloft/storefront/pkg/httpx"
)

// authSuccess is the body of every successful authentication response.
type authSuccess struct {
	Success      bool              `json:"success"`
	Message      string            `json:"message,omitempty"`
	AccessToken  string            `json:"accessToken"`
	RefreshToken string            `json:"refreshToken"`
	User         domain.PublicUser `json:"user"`
}

func writeAuthSuccess(w http.ResponseWriter, status int, msg string, user *domain.User, pair *domain.TokenPair) {
	httpx.NoCache(w)
	httpx.WriteJSON(w, status, authSuccess{
		Success:      true,
		Message:      msg,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         user.Public(),
	})
}

// RegisterHandler serves POST /api/user/register.
type RegisterHandler struct {
	Users *service.UserService
}

// ServeHTTP godoc
//
//	@Summary		Register a new account
//	@Description	Creates an account and returns a token pair plus the public user.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			body	body		object{name=string,email=string,password=string}	true	"Registration details"
//	@Success		201		{object}	object{success=bool,accessToken=string,refreshToken=string,user=domain.PublicUser}
//	@Failure		400		{object}	httpx.Envelope	"invalid email or weak password"
//	@Failure		409		{object}	httpx.Envelope	"email already registered"
//	@Router			/api/user/register [post].
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeBadRequest, "invalid request body")
		return
	}

	user, pair, err := h.Users.Register(r.Context(), body.Name, body.Email, body.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidEmail):
			httpx.WriteError(w, http.StatusBadRequest, httpx.CodeBadRequest, "please enter a valid email")
		case errors.Is(err, service.ErrWeakPassword):
			httpx.WriteError(w, http.StatusBadRequest, httpx.CodeBadRequest, "password must be at least 8 characters")
		case errors.Is(err, service.ErrEmailTaken):
			httpx.WriteError(w, http.StatusConflict, httpx.CodeConflict, "an account with this email already exists")
		default:
			httpx.WriteError(w, http.StatusInternalServerError, httpx.CodeInternal, "registration failed")
		}
		return
	}

	writeAuthSuccess(w, http.StatusCreated, "account created", user, pair)
}

// LoginHandler serves POST /api/user/login.
type LoginHandler struct {
	Users *service.UserService
}

// ServeHTTP godoc
//
//	@Summary		Log in
//	@Description	Checks credentials and returns a token pair plus the public user.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			body	body		object{email=string,password=string}	true	"Credentials"
//	@Success		200		{object}	object{success=bool,accessToken=string,refreshToken=string,user=domain.PublicUser}
//	@Failure		401		{object}	httpx.Envelope	"invalid credentials"
//	@Router			/api/user/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeBadRequest, "invalid request body")
		return
	}

	user, pair, err := h.Users.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			httpx.WriteError(w, http.StatusUnauthorized, httpx.CodeInvalidCredentials, "invalid email or password")
			return
		}
		httpx.WriteError(w, http.StatusInternalServerError, httpx.CodeInternal, "login failed")
		return
	}

	writeAuthSuccess(w, http.StatusOK, "logged in", user, pair)
}

// AdminLoginHandler serves POST /api/user/admin.
type AdminLoginHandler struct {
	Users *service.UserService
}

// ServeHTTP godoc
//
//	@Summary		Admin log in
//	@Description	Authenticates the configured admin account. When a TOTP secret is configured the otp field is required.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			body	body		object{email=string,password=string,otp=string}	true	"Admin credentials"
//	@Success		200		{object}	object{success=bool,accessToken=string,refreshToken=string,user=domain.PublicUser}
//	@Failure		401		{object}	httpx.Envelope	"invalid credentials or otp"
//	@Router			/api/user/admin [post].
func (h *AdminLoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		OTP      string `json:"otp"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeBadRequest, "invalid request body")
		return
	}

	admin, pair, err := h.Users.AdminLogin(r.Context(), body.Email, body.Password, body.OTP)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidOTP):
			httpx.WriteError(w, http.StatusUnauthorized, httpx.CodeInvalidOTP, "invalid one-time code")
		case errors.Is(err, service.ErrInvalidCredentials):
			httpx.WriteError(w, http.StatusUnauthorized, httpx.CodeInvalidCredentials, "invalid email or password")
		default:
			httpx.WriteError(w, http.StatusInternalServerError, httpx.CodeInternal, "login failed")
		}
		return
	}

	writeAuthSuccess(w, http.StatusOK, "logged in", admin, pair)
}
