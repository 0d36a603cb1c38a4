package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/secmon-lab/riskhub/pkg/domain/model/auth"
	"github.com/secmon-lab/riskhub/pkg/domain/types"
	"github.com/secmon-lab/riskhub/pkg/usecase"
	"github.com/secmon-lab/riskhub/pkg/utils/errutil"
)

type riskRequest struct {
	Title             string       `json:"title" validate:"required,max=200"`
	Content           string       `json:"content" validate:"max=20000"`
	Impact            int          `json:"impact" validate:"min=0,max=5"`
	Probability       int          `json:"probability" validate:"min=0,max=5"`
	Strategy          strategyBody `json:"strategy"`
	Status            string       `json:"status" validate:"omitempty,oneof=OPEN MITIGATING ACCEPTED CLOSED"`
	Department        string       `json:"department" validate:"max=100"`
	IsConfidential    bool         `json:"isConfidential"`
	AuthorizedViewers []string     `json:"authorizedViewers" validate:"dive,required"`
}

func (req riskRequest) input() usecase.RiskInput {
	return usecase.RiskInput{
		Title:             req.Title,
		Content:           req.Content,
		Impact:            req.Impact,
		Probability:       req.Probability,
		StrategyType:      types.StrategyType(req.Strategy.Type),
		StrategyDetail:    req.Strategy.Detail,
		Status:            types.RiskStatus(req.Status),
		Department:        req.Department,
		IsConfidential:    req.IsConfidential,
		AuthorizedViewers: req.AuthorizedViewers,
	}
}

type commentRequest struct {
	Body string `json:"body" validate:"required,max=10000"`
}

func (s *Server) listRisks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	risks, err := s.uc.Risk.ListRisks(ctx, auth.UserFromContext(ctx))
	if err != nil {
		errutil.HandleHTTP(ctx, w, err)
		return
	}

	resp := make([]riskResponse, len(risks))
	for i, risk := range risks {
		resp[i] = toRiskResponse(risk)
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"risks": resp})
}

func (s *Server) createRisk(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req riskRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		errutil.HandleHTTP(ctx, w, err)
		return
	}

	risk, err := s.uc.Risk.CreateRisk(ctx, auth.UserFromContext(ctx), req.input())
	if err != nil {
		errutil.HandleHTTP(ctx, w, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, toRiskResponse(risk))
}

func (s *Server) getRisk(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	risk, err := s.uc.Risk.GetRisk(ctx, auth.UserFromContext(ctx), chi.URLParam(r, "riskID"))
	if err != nil {
		errutil.HandleHTTP(ctx, w, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toRiskResponse(risk))
}

func (s *Server) updateRisk(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req riskRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		errutil.HandleHTTP(ctx, w, err)
		return
	}

	risk, err := s.uc.Risk.UpdateRisk(ctx, auth.UserFromContext(ctx), chi.URLParam(r, "riskID"), req.input())
	if err != nil {
		errutil.HandleHTTP(ctx, w, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toRiskResponse(risk))
}

func (s *Server) deleteRisk(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := s.uc.Risk.DeleteRisk(ctx, auth.UserFromContext(ctx), chi.URLParam(r, "riskID")); err != nil {
		errutil.HandleHTTP(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listComments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	comments, err := s.uc.Comment.ListComments(ctx, auth.UserFromContext(ctx), chi.URLParam(r, "riskID"))
	if err != nil {
		errutil.HandleHTTP(ctx, w, err)
		return
	}

	resp := make([]commentResponse, len(comments))
	for i, c := range comments {
		resp[i] = toCommentResponse(c)
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"comments": resp})
}

func (s *Server) createComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req commentRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		errutil.HandleHTTP(ctx, w, err)
		return
	}

	comment, err := s.uc.Comment.CreateComment(ctx, auth.UserFromContext(ctx), chi.URLParam(r, "riskID"), req.Body)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, toCommentResponse(comment))
}
