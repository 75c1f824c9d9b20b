// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/hitoshi/anecdotheque/internal/model"
)

const sessionCookieName = "session_id"

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// identityContextKey はリクエストコンテキストにIdentityを格納するためのキー。
var identityContextKey = contextKey("identity")

// SessionFinder はセッションの検索に必要なインターフェース。
// repository.SessionRepositoryの部分集合として定義する。
type SessionFinder interface {
	FindByID(ctx context.Context, id string) (*model.Session, error)
}

// UserFinder はセッションからロールを解決するためのインターフェース。
// repository.UserRepositoryの部分集合として定義する。
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
}

// NewRequireSessionMiddleware はHTTP Only Cookieからセッションを読み取り、
// 有効性を検証するミドルウェアを返す。
// 認証済みのIdentity（ユーザーIDとロール）をリクエストコンテキストに注入する。
// 未認証リクエストには401 Unauthorizedを返す。
func NewRequireSessionMiddleware(sessionFinder SessionFinder, userFinder UserFinder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := resolveIdentity(r, sessionFinder, userFinder)
			if err != nil {
				writeLoginRequiredResponse(w)
				return
			}
			if identity.IsAnonymous() {
				writeLoginRequiredResponse(w)
				return
			}

			ctx := ContextWithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// NewOptionalSessionMiddleware は有効なセッションがあればそのIdentityを、
// なければ匿名（visitorロール）のIdentityをコンテキストに注入する。
// 閲覧系エンドポイントのように未認証アクセスを許可するルートで使用する。
// セッション検証エラーは匿名として扱い、リクエストを拒否しない。
func NewOptionalSessionMiddleware(sessionFinder SessionFinder, userFinder UserFinder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := resolveIdentity(r, sessionFinder, userFinder)
			if err != nil {
				slog.Warn("session resolution failed, treating as anonymous",
					slog.String("error", err.Error()),
				)
				identity = model.Anonymous()
			}

			ctx := ContextWithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// resolveIdentity はCookieのセッションIDからIdentityを解決する。
// Cookieなし・セッション無効・ユーザー不在はいずれも匿名Identityを返す。
// ストレージ障害のみerrorを返す。
func resolveIdentity(r *http.Request, sessionFinder SessionFinder, userFinder UserFinder) (model.Identity, error) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return model.Anonymous(), nil
	}

	session, err := sessionFinder.FindByID(r.Context(), cookie.Value)
	if err != nil {
		return model.Anonymous(), fmt.Errorf("failed to find session: %w", err)
	}
	if session == nil {
		// 期限切れまたは存在しないセッション
		return model.Anonymous(), nil
	}

	user, err := userFinder.FindByID(r.Context(), session.UserID)
	if err != nil {
		return model.Anonymous(), fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return model.Anonymous(), nil
	}

	return model.Identity{UserID: user.ID, Role: user.Role}, nil
}

// writeLoginRequiredResponse は401レスポンスを統一フォーマットで書き込む。
func writeLoginRequiredResponse(w http.ResponseWriter) {
	WriteErrorResponse(w, http.StatusUnauthorized, &model.APIError{
		Code:     model.ErrCodeUnauthorized,
		Message:  "ログインが必要です。",
		Category: "auth",
		Action:   "ログインしてから再度お試しください。",
	})
}

// IdentityFromContext はリクエストコンテキストからIdentityを取得する。
// セッションミドルウェアを通過していないコンテキストでは匿名を返す。
func IdentityFromContext(ctx context.Context) model.Identity {
	identity, ok := ctx.Value(identityContextKey).(model.Identity)
	if !ok {
		return model.Anonymous()
	}
	return identity
}

// ContextWithIdentity はコンテキストにIdentityを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithIdentity(ctx context.Context, identity model.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}
