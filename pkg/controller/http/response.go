package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskhub/pkg/domain/model"
	"github.com/secmon-lab/riskhub/pkg/domain/types"
	"github.com/secmon-lab/riskhub/pkg/utils/errutil"
	"github.com/secmon-lab/riskhub/pkg/utils/safe"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	safe.Write(r.Context(), w, data)
}

// decodeBody reads a JSON request body into dst and validates it
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return goerr.Wrap(errors.Join(model.ErrInvalidInput, err), "malformed request body")
	}

	if err := s.validate.Struct(dst); err != nil {
		var fields []string
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				fields = append(fields, fe.Field())
			}
		}
		return goerr.Wrap(errors.Join(model.ErrInvalidInput, err), "request validation failed",
			goerr.V("fields", fields))
	}
	return nil
}

type strategyBody struct {
	Type   string `json:"type" validate:"omitempty,oneof=avoid mitigate transfer accept"`
	Detail string `json:"detail" validate:"max=10000"`
}

type riskResponse struct {
	ID                string       `json:"id"`
	AuthorID          string       `json:"authorId"`
	IsConfidential    bool         `json:"isConfidential"`
	AuthorizedViewers []string     `json:"authorizedViewers"`
	Department        string       `json:"department"`
	Title             string       `json:"title"`
	Content           string       `json:"content"`
	Impact            int          `json:"impact"`
	Probability       int          `json:"probability"`
	Strategy          strategyBody `json:"strategy"`
	Status            string       `json:"status"`
	CreatedAt         time.Time    `json:"createdAt"`
	UpdatedAt         time.Time    `json:"updatedAt"`
}

func toRiskResponse(risk *model.Risk) riskResponse {
	viewers := risk.AuthorizedViewers
	if viewers == nil {
		viewers = []string{}
	}
	return riskResponse{
		ID:                risk.ID,
		AuthorID:          risk.AuthorID,
		IsConfidential:    risk.IsConfidential,
		AuthorizedViewers: viewers,
		Department:        risk.Department,
		Title:             risk.Title,
		Content:           risk.Content,
		Impact:            risk.Impact,
		Probability:       risk.Probability,
		Strategy: strategyBody{
			Type:   string(risk.Strategy.Type),
			Detail: risk.Strategy.Detail,
		},
		Status:    risk.Status.String(),
		CreatedAt: risk.CreatedAt,
		UpdatedAt: risk.UpdatedAt,
	}
}

type commentResponse struct {
	ID        string                    `json:"id"`
	RiskID    string                    `json:"riskId"`
	AuthorID  string                    `json:"authorId"`
	Body      string                    `json:"body"`
	Upvotes   int                       `json:"upvotes"`
	Downvotes int                       `json:"downvotes"`
	Voters    map[string]types.VoteType `json:"voters"`
	CreatedAt time.Time                 `json:"createdAt"`
}

func toCommentResponse(c *model.Comment) commentResponse {
	return commentResponse{
		ID:        c.ID,
		RiskID:    c.RiskID,
		AuthorID:  c.AuthorID,
		Body:      c.Body,
		Upvotes:   c.Upvotes,
		Downvotes: c.Downvotes,
		Voters:    c.VoteMap(),
		CreatedAt: c.CreatedAt,
	}
}

type tallyResponse struct {
	Upvotes   int                       `json:"upvotes"`
	Downvotes int                       `json:"downvotes"`
	Voters    map[string]types.VoteType `json:"voters"`
}

func toTallyResponse(t *model.Tally) tallyResponse {
	voters := make(map[string]types.VoteType, len(t.Voters))
	for _, v := range t.Voters {
		voters[v.UserID] = v.Vote
	}
	return tallyResponse{
		Upvotes:   t.Upvotes,
		Downvotes: t.Downvotes,
		Voters:    voters,
	}
}
