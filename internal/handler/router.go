package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/anecdotheque/internal/middleware"
)

// DBPinger はヘルスチェック用のDB疎通確認インターフェース。
type DBPinger interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	SessionFinder     middleware.SessionFinder
	UserFinder        middleware.UserFinder
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	CSRFConfig        middleware.CSRFConfig

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// アネクドート
	AnecdoteService AnecdoteServiceInterface
	TallyProvider   TallyProvider

	// 投票
	VoteService VoteServiceInterface

	// ユーザー
	UserService UserServiceInterface

	// ヘルスチェック
	DB DBPinger
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CORS → SecurityHeaders → Recovery → CSRF → セッション（必須/任意）→ RateLimit(General)
//
// 閲覧系（GET /api/anecdotes）は任意セッションで匿名をvisitorとして通し、
// 状態変更系は必須セッションで未認証を401で拒否する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewCSRFMiddleware(deps.CSRFConfig))

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig)
	anecdoteHandler := NewAnecdoteHandler(deps.AnecdoteService, deps.TallyProvider)
	voteHandler := NewVoteHandler(deps.VoteService)
	userHandler := NewUserHandler(deps.UserService)

	requireSession := middleware.NewRequireSessionMiddleware(deps.SessionFinder, deps.UserFinder)
	optionalSession := middleware.NewOptionalSessionMiddleware(deps.SessionFinder, deps.UserFinder)

	// --- 認証不要のルート ---

	r.Get("/health", newHealthHandler(deps.DB))
	r.Method(http.MethodGet, "/api/csrf-token", middleware.NewCSRFTokenHandler(deps.CSRFConfig))

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.Get("/me", authHandler.Me)
	})

	// --- 閲覧系ルート（匿名はvisitorロールとして通す）---
	r.Group(func(r chi.Router) {
		r.Use(optionalSession)
		r.Use(deps.RateLimiter.GeneralMiddleware())

		r.Get("/api/anecdotes", anecdoteHandler.List)
	})

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: RequireSession → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(requireSession)
		r.Use(deps.RateLimiter.GeneralMiddleware())

		r.Route("/api/anecdotes", func(r chi.Router) {
			r.Post("/", anecdoteHandler.Create)

			r.Route("/{id}", func(r chi.Router) {
				r.Delete("/", anecdoteHandler.Delete)

				// POST /api/anecdotes/{id}/votes - 投票専用レート制限を追加
				r.With(deps.RateLimiter.VoteMiddleware()).Post("/votes", voteHandler.CastVote)
			})
		})

		r.Get("/api/users", userHandler.List)
	})

	return r
}

// newHealthHandler はDB疎通を確認するヘルスチェックハンドラーを返す。
func newHealthHandler(db DBPinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				slog.Error("health check failed", slog.String("error", err.Error()))
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]string{"status": "unhealthy"})
				return
			}
		}

		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}
