// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/anecdotheque/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// Create はユーザーを作成する。
	// メールアドレスが既に存在する場合はErrEmailConflictを返す。
	Create(ctx context.Context, user *model.User) error

	// List は全ユーザーを作成日時昇順で返す。
	List(ctx context.Context) ([]*model.User, error)
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
}

// AnecdoteRepository はアネクドートデータの永続化インターフェース。
type AnecdoteRepository interface {
	// FindByID は指定IDのアネクドートを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Anecdote, error)

	// Create はアネクドートを作成する。
	Create(ctx context.Context, anecdote *model.Anecdote) error

	// ListWithAuthor は全アネクドートを投稿者名付きで返す。順序は保証しない。
	// 並べ替えはランキングエンジンの責務。
	ListWithAuthor(ctx context.Context) ([]model.AnecdoteWithAuthor, error)

	// DeleteByID は指定IDのアネクドートを削除する。
	// 関連する票はDBのCASCADE制約により同一ステートメント内で削除される。
	// 見つからない場合はfalseを返す。
	DeleteByID(ctx context.Context, id string) (bool, error)
}

// VoteRepository は票データの永続化インターフェース。
type VoteRepository interface {
	// Create は票を作成する。
	// (user_id, anecdote_id, type) のUNIQUE制約に違反した場合はErrDuplicateVoteを返す。
	// 重複判定はアプリケーション側のチェックではなくこの制約に委ねる。
	Create(ctx context.Context, vote *model.Vote) error

	// TallyByAnecdote は指定アネクドートの種別ごとの得票数を返す。
	// 4種別すべてのキーを含む（0票でも省略しない）。
	TallyByAnecdote(ctx context.Context, anecdoteID string) (model.Tally, error)

	// TallyAll は全アネクドートの種別ごとの得票数をアネクドートID別に返す。
	// 票が1件もないアネクドートはマップに含まれないため、呼び出し側で
	// NewTally()を補うこと。
	TallyAll(ctx context.Context) (map[string]model.Tally, error)

	// CountByAnecdote は指定アネクドートの総票数を返す。
	CountByAnecdote(ctx context.Context, anecdoteID string) (int, error)
}
