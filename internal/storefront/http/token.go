package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/marketloft/storefront/internal/storefront/service"
	"github.com/marketloft/storefront/pkg/httpx"
)

// RefreshHandler serves POST /api/token/refresh and its legacy alias
// POST /api/user/refresh-token. Only the access token rotates; the
// refresh token stays as issued until it expires.
type RefreshHandler struct {
	Sessions *service.SessionService
}

// ServeHTTP godoc
//
//	@Summary		Refresh an access token
//	@Description	Exchanges a valid refresh token for a new access token.
//	@Tags			Tokens
//	@Accept			json
//	@Produce		json
//	@Param			body	body		object{refreshToken=string}	true	"Refresh token"
//	@Success		200		{object}	object{success=bool,accessToken=string}
//	@Failure		400		{object}	httpx.Envelope	"missing refresh token"
//	@Failure		401		{object}	httpx.Envelope	"expired or invalid refresh token"
//	@Router			/api/token/refresh [post].
func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.RefreshToken == "" {
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeMissingRefreshToken, "refresh token is required")
		return
	}

	access, err := h.Sessions.Refresh(r.Context(), body.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRefreshExpired):
			httpx.WriteError(w, http.StatusUnauthorized, httpx.CodeRefreshTokenExpired, "refresh token has expired, please log in again")
		case errors.Is(err, service.ErrInvalidRefresh):
			httpx.WriteError(w, http.StatusUnauthorized, httpx.CodeInvalidRefreshToken, "refresh token is not valid")
		default:
			httpx.WriteError(w, http.StatusInternalServerError, httpx.CodeRefreshFailed, "could not refresh the session")
		}
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, struct {
		Success     bool   `json:"success"`
		AccessToken string `json:"accessToken"`
	}{Success: true, AccessToken: access})
}
