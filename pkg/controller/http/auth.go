package http

import (
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskhub/pkg/domain/model"
	"github.com/secmon-lab/riskhub/pkg/domain/model/auth"
	"github.com/secmon-lab/riskhub/pkg/utils/errutil"
)

type userMeResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Department string `json:"department"`
}

// authMeHandler returns the authenticated user
func authMeHandler(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(model.ErrUnauthenticated, "no authenticated user"))
		return
	}

	writeJSON(w, r, http.StatusOK, userMeResponse{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		Role:       user.Role.String(),
		Department: user.Department,
	})
}
