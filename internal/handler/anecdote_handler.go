package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/anecdotheque/internal/anecdote"
	"github.com/hitoshi/anecdotheque/internal/authz"
	"github.com/hitoshi/anecdotheque/internal/middleware"
	"github.com/hitoshi/anecdotheque/internal/model"
	"github.com/hitoshi/anecdotheque/internal/ranking"
)

// AnecdoteServiceInterface はアネクドートハンドラーが必要とするサービスインターフェース。
type AnecdoteServiceInterface interface {
	Create(ctx context.Context, authorID string, input anecdote.CreateInput) (*model.Anecdote, error)
	List(ctx context.Context) ([]model.AnecdoteWithAuthor, error)
	Delete(ctx context.Context, id string) error
}

// TallyProvider は一覧表示用の得票集計インターフェース。
// vote.Serviceの部分集合として定義する。
type TallyProvider interface {
	TallyAll(ctx context.Context) (map[string]model.Tally, error)
}

// AnecdoteHandler はアネクドート管理のHTTPハンドラー。
type AnecdoteHandler struct {
	service AnecdoteServiceInterface
	tallies TallyProvider
}

// NewAnecdoteHandler はAnecdoteHandlerを生成する。
func NewAnecdoteHandler(service AnecdoteServiceInterface, tallies TallyProvider) *AnecdoteHandler {
	return &AnecdoteHandler{
		service: service,
		tallies: tallies,
	}
}

// createAnecdoteRequest はアネクドート投稿リクエストのボディ。
type createAnecdoteRequest struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Content  string `json:"content"`
}

// anecdoteResponse はアネクドート1件のAPIレスポンス。
type anecdoteResponse struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Author    string         `json:"author"`
	Category  string         `json:"category"`
	Content   string         `json:"content"`
	CreatedAt time.Time      `json:"created_at"`
	Votes     map[string]int `json:"votes"`
}

// createdAnecdoteResponse は投稿直後のAPIレスポンス。
type createdAnecdoteResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Category  string    `json:"category"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// List はアネクドート一覧をランキング順で返す。
// GET /api/anecdotes?sort=top-wow|recent-top-wow|top-technical
func (h *AnecdoteHandler) List(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	if err := authz.Authorize(identity.Role, authz.OpListAnecdotes); err != nil {
		handleServiceError(w, err)
		return
	}

	mode := model.RankModeTopWow
	if sort := r.URL.Query().Get("sort"); sort != "" {
		mode = model.RankMode(sort)
		if !mode.IsValid() {
			writeAPIErrorResponse(w, http.StatusUnprocessableEntity,
				model.NewValidationError("sort", "並び順はtop-wow、recent-top-wow、top-technicalのいずれかを指定してください"))
			return
		}
	}

	anecdotes, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	tallies, err := h.tallies.TallyAll(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	entries := ranking.Rank(anecdotes, tallies, mode, time.Now().UTC())

	response := make([]anecdoteResponse, 0, len(entries))
	for _, e := range entries {
		response = append(response, toAnecdoteResponse(e))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// Create はアネクドートの投稿を処理する。
// POST /api/anecdotes
func (h *AnecdoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	if err := authz.Authorize(identity.Role, authz.OpCreateAnecdote); err != nil {
		handleServiceError(w, err)
		return
	}

	var req createAnecdoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	created, err := h.service.Create(r.Context(), identity.UserID, anecdote.CreateInput{
		Title:    req.Title,
		Category: req.Category,
		Content:  req.Content,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(createdAnecdoteResponse{
		ID:        created.ID,
		Title:     created.Title,
		Category:  string(created.Category),
		Content:   created.Content,
		CreatedAt: created.CreatedAt,
	})
}

// Delete はアネクドートを削除する。関連する票も同時に消える。
// ロールの判定は存在確認より先に行い、権限のない呼び出し元に
// リソースの存在有無を漏らさない。
// DELETE /api/anecdotes/:id
func (h *AnecdoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	if err := authz.Authorize(identity.Role, authz.OpDeleteAnecdote); err != nil {
		handleServiceError(w, err)
		return
	}

	anecdoteID := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), anecdoteID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// toAnecdoteResponse はランキングエントリからAPIレスポンスに変換する。
// 得票は4種別すべてのキーを含む。
func toAnecdoteResponse(e ranking.Entry) anecdoteResponse {
	votes := make(map[string]int, len(e.Tally))
	for voteType, count := range e.Tally {
		votes[string(voteType)] = count
	}

	return anecdoteResponse{
		ID:        e.Anecdote.ID,
		Title:     e.Anecdote.Title,
		Author:    e.Anecdote.AuthorName,
		Category:  string(e.Anecdote.Category),
		Content:   e.Anecdote.Content,
		CreatedAt: e.Anecdote.CreatedAt,
		Votes:     votes,
	}
}
