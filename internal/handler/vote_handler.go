package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/anecdotheque/internal/authz"
	"github.com/hitoshi/anecdotheque/internal/middleware"
	"github.com/hitoshi/anecdotheque/internal/model"
)

// VoteServiceInterface は投票ハンドラーが必要とするサービスインターフェース。
type VoteServiceInterface interface {
	CastVote(ctx context.Context, userID, anecdoteID string, voteType model.VoteType) (*model.Vote, error)
}

// VoteHandler はリアクション投票のHTTPハンドラー。
type VoteHandler struct {
	service VoteServiceInterface
}

// NewVoteHandler はVoteHandlerを生成する。
func NewVoteHandler(service VoteServiceInterface) *VoteHandler {
	return &VoteHandler{service: service}
}

// castVoteRequest は投票リクエストのボディ。
type castVoteRequest struct {
	Type string `json:"type"`
}

// voteResponse は受理された票のAPIレスポンス。
type voteResponse struct {
	ID         string    `json:"id"`
	AnecdoteID string    `json:"anecdote_id"`
	Type       string    `json:"type"`
	CreatedAt  time.Time `json:"created_at"`
}

// CastVote はアネクドートへのリアクション投票を処理する。
// 同一ユーザー・同一アネクドート・同一種別の再投票は409で拒否される。
// POST /api/anecdotes/:id/votes
func (h *VoteHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	if err := authz.Authorize(identity.Role, authz.OpCastVote); err != nil {
		handleServiceError(w, err)
		return
	}

	anecdoteID := chi.URLParam(r, "id")

	var req castVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	vote, err := h.service.CastVote(r.Context(), identity.UserID, anecdoteID, model.VoteType(req.Type))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(voteResponse{
		ID:         vote.ID,
		AnecdoteID: vote.AnecdoteID,
		Type:       string(vote.Type),
		CreatedAt:  vote.CreatedAt,
	})
}
