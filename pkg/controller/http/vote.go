package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskhub/pkg/domain/model/auth"
	"github.com/secmon-lab/riskhub/pkg/usecase"
	"github.com/secmon-lab/riskhub/pkg/utils/errutil"
	"github.com/secmon-lab/riskhub/pkg/utils/logging"
	"github.com/secmon-lab/riskhub/pkg/utils/safe"
)

type voteRequest struct {
	UserID   string `json:"userId"`
	VoteType string `json:"voteType"`
}

func (s *Server) vote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req voteRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		errutil.HandleHTTP(ctx, w, err)
		return
	}

	tally, err := s.uc.Vote.ApplyVote(ctx, auth.UserFromContext(ctx), usecase.VoteInput{
		CommentID: chi.URLParam(r, "commentID"),
		VoterID:   req.UserID,
		VoteType:  req.VoteType,
	})
	if err != nil {
		errutil.HandleHTTP(ctx, w, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toTallyResponse(tally))
}

// voteRateLimiter limits vote requests per authenticated user, falling back to the client
// address for anonymous requests.
func voteRateLimiter(perMinute int) func(http.Handler) http.Handler {
	return httprate.Limit(perMinute, time.Minute,
		httprate.WithKeyFuncs(voteRateLimitKey),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			logging.From(r.Context()).Warn("vote rate limit exceeded", "path", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			safe.Write(r.Context(), w, []byte(`{"error":{"kind":"rate_limited","message":"too many votes, retry later","retryable":true}}` + "\n"))
		}),
	)
}

func voteRateLimitKey(r *http.Request) (string, error) {
	if user := auth.UserFromContext(r.Context()); user != nil {
		return "user:" + user.ID, nil
	}
	key, err := httprate.KeyByIP(r)
	if err != nil {
		return "", goerr.Wrap(err, "failed to derive rate limit key")
	}
	return "ip:" + key, nil
}
