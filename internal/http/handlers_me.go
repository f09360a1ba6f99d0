package httpx

import (
	"errors"
	"net/http"

	domainauth "github.com/target/social-login-api/internal/domain/auth"
)

// meResponse is the profile payload for the authenticated user.
type meResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar"`
	Provider string `json:"provider"`
}

// Me returns the profile of the authenticated user.
// GET /me (behind RequireAuth).
func Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return
	}

	WriteJSON(w, http.StatusOK, toMeResponse(identity))
}

func toMeResponse(identity domainauth.Identity) meResponse {
	return meResponse{
		ID:       identity.ID,
		Name:     identity.Name,
		Email:    identity.Email,
		Avatar:   identity.AvatarURL,
		Provider: string(identity.Provider),
	}
}
