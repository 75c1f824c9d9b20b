// Package authz はロールベースの操作認可を提供する。
// 認可表はこのパッケージだけが持ち、各エンドポイントが個別に
// ロール判定を再実装することを禁じる。
package authz

import (
	"github.com/hitoshi/anecdotheque/internal/model"
)

// Operation は認可対象の操作を表す。
type Operation string

const (
	// OpListAnecdotes はアネクドート一覧の閲覧。
	OpListAnecdotes Operation = "listAnecdotes"
	// OpCreateAnecdote はアネクドートの投稿。
	OpCreateAnecdote Operation = "createAnecdote"
	// OpDeleteAnecdote はアネクドートの削除。
	OpDeleteAnecdote Operation = "deleteAnecdote"
	// OpCastVote はリアクションの投票。
	OpCastVote Operation = "castVote"
	// OpListUsers はユーザー一覧の閲覧。
	OpListUsers Operation = "listUsers"
)

// policy はロールごとに許可された操作の表。
// この表が認可判定の唯一の情報源となる。
var policy = map[Operation]map[model.Role]bool{
	OpListAnecdotes: {
		model.RoleVisitor: true,
		model.RoleMember:  true,
		model.RoleAdmin:   true,
	},
	OpCreateAnecdote: {
		model.RoleMember: true,
		model.RoleAdmin:  true,
	},
	OpCastVote: {
		model.RoleMember: true,
		model.RoleAdmin:  true,
	},
	OpDeleteAnecdote: {
		model.RoleAdmin: true,
	},
	OpListUsers: {
		model.RoleAdmin: true,
	},
}

// Authorize はロールが操作を実行できるかを判定する。
// 許可されていない場合はUNAUTHORIZEDのAPIErrorを返す。
// 未定義のロールや操作は常に拒否する。
func Authorize(role model.Role, op Operation) error {
	allowed, ok := policy[op]
	if !ok {
		return model.NewUnauthorizedError(string(op))
	}
	if !allowed[role] {
		return model.NewUnauthorizedError(string(op))
	}
	return nil
}
