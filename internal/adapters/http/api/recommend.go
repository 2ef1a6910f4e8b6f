// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	service "github.com/okian/takathon/internal/app"
	"github.com/okian/takathon/internal/domain/types"
)

// Recommender produces teammate suggestions.
type Recommender interface {
	Recommend(ctx context.Context, req types.RecommendRequest) (types.RecommendResponse, error)
}

// RecommendHandler handles recommendation requests.
type RecommendHandler struct {
	deps         Recommender
	maxBodyBytes int64
}

// NewRecommendHandler creates a new recommendation handler.
func NewRecommendHandler(deps Recommender) *RecommendHandler {
	return &RecommendHandler{deps: deps, maxBodyBytes: defaultMaxBodyBytes}
}

// HandleRecommend handles POST /api/v1/matching/recommend requests.
func (h *RecommendHandler) HandleRecommend(w http.ResponseWriter, r *http.Request) {
	const op = "api.recommend"

	var req types.RecommendRequest
	body := http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	resp, err := h.deps.Recommend(r.Context(), req)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, resp)
	case errors.Is(err, service.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
	case errors.Is(err, service.ErrLimitExceeded):
		writeError(w, http.StatusBadRequest, "limit_exceeded", WrapKind(op, ErrLimitExceeded, err))
	case errors.Is(err, service.ErrTeamFull):
		writeError(w, http.StatusConflict, "team_full", WrapKind(op, ErrTeamFull, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", NewKind(op, ErrInternal))
	}
}
