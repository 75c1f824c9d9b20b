// Package model はドメインモデルを定義する。
package model

import "time"

// Role はユーザーの権限レベルを表す。
type Role string

const (
	// RoleVisitor は未登録の閲覧者。アネクドートの閲覧のみ可能。
	RoleVisitor Role = "visitor"
	// RoleMember は登録済みユーザー。投稿と投票が可能。
	RoleMember Role = "member"
	// RoleAdmin は管理者。削除とユーザー一覧の閲覧が可能。
	RoleAdmin Role = "admin"
)

// IsValid はRoleが定義済みの値かどうかを判定する。
func (r Role) IsValid() bool {
	switch r {
	case RoleVisitor, RoleMember, RoleAdmin:
		return true
	default:
		return false
	}
}

// User はサービス利用ユーザーを表す。
// PasswordHashはbcryptハッシュ。APIレスポンスには含めない。
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session はユーザーのログインセッションを表す。
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Identity は認証済みリクエストの主体を表す。
// セッションミドルウェアがリクエストコンテキストに注入する。
// 未認証リクエストはUserID空・RoleVisitorのIdentityとして扱う。
type Identity struct {
	UserID string
	Role   Role
}

// Anonymous は未認証リクエストのIdentityを返す。
func Anonymous() Identity {
	return Identity{Role: RoleVisitor}
}

// IsAnonymous は未認証のIdentityかどうかを判定する。
func (i Identity) IsAnonymous() bool {
	return i.UserID == ""
}
