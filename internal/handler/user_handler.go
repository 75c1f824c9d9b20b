package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/anecdotheque/internal/authz"
	"github.com/hitoshi/anecdotheque/internal/middleware"
	"github.com/hitoshi/anecdotheque/internal/model"
)

// UserServiceInterface はユーザーハンドラーが必要とするサービスインターフェース。
type UserServiceInterface interface {
	List(ctx context.Context) ([]*model.User, error)
}

// UserHandler はユーザー管理のHTTPハンドラー。
type UserHandler struct {
	service UserServiceInterface
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(service UserServiceInterface) *UserHandler {
	return &UserHandler{service: service}
}

// List は全ユーザーの一覧を返す。管理者のみ。
// GET /api/users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFromContext(r.Context())
	if err := authz.Authorize(identity.Role, authz.OpListUsers); err != nil {
		handleServiceError(w, err)
		return
	}

	users, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	response := make([]userResponse, 0, len(users))
	for _, u := range users {
		response = append(response, toUserResponse(u))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
