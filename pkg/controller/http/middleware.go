package http

import (
	"net/http"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskhub/pkg/domain/model"
	"github.com/secmon-lab/riskhub/pkg/domain/model/auth"
	"github.com/secmon-lab/riskhub/pkg/usecase"
	"github.com/secmon-lab/riskhub/pkg/utils/errutil"
	"github.com/secmon-lab/riskhub/pkg/utils/logging"
)

type AuthUseCase = usecase.AuthUseCaseInterface

// authMiddleware resolves the bearer token into the acting user. Without an AuthUseCase
// every request stays anonymous and is rejected by the use cases that need a user.
func authMiddleware(authUC AuthUseCase) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if authUC == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			token := bearerToken(r)
			if token == "" && !authUC.IsNoAuthn() {
				errutil.HandleHTTP(ctx, w, goerr.Wrap(model.ErrUnauthenticated, "missing bearer token"))
				return
			}

			user, err := authUC.Authenticate(ctx, token)
			if err != nil {
				errutil.HandleHTTP(ctx, w, err)
				return
			}

			ctx = auth.ContextWithUser(ctx, user)
			ctx = logging.With(ctx, logging.From(ctx).With("user_id", user.ID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
