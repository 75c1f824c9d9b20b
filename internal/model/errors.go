// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
// バリデーションエラーの場合はFieldに対象フィールド名を持つ。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, anecdote, vote, system
	Action   string // ユーザー向け対処方法
	Field    string // バリデーション対象フィールド（該当する場合のみ）
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeDuplicateVote      = "DUPLICATE_VOTE"
	ErrCodeAnecdoteNotFound   = "ANECDOTE_NOT_FOUND"
	ErrCodeUserNotFound       = "USER_NOT_FOUND"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeEmailTaken         = "EMAIL_TAKEN"
	ErrCodeInvalidRequest     = "INVALID_REQUEST"
)

// NewUnauthorizedError は権限不足エラーを生成する。
// リソースの存在有無を漏らさないよう、操作名のみを含める。
func NewUnauthorizedError(operation string) *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  fmt.Sprintf("この操作を行う権限がありません: %s", operation),
		Category: "auth",
		Action:   "権限のあるアカウントでログインしてください。",
	}
}

// NewValidationError はフィールド制約違反エラーを生成する。
func NewValidationError(field, reason string) *APIError {
	return &APIError{
		Code:     ErrCodeValidation,
		Message:  fmt.Sprintf("入力値が不正です: %s（%s）", field, reason),
		Category: "validation",
		Action:   "入力内容を確認して再度お試しください。",
		Field:    field,
	}
}

// NewDuplicateVoteError は同一種別の重複投票エラーを生成する。
// 一意性制約の想定内の帰結であり、サーバー障害としては扱わない。
func NewDuplicateVoteError(voteType VoteType) *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateVote,
		Message:  fmt.Sprintf("このアネクドートには既に %s のリアクションを投票済みです。", voteType),
		Category: "vote",
		Action:   "別の種別のリアクションを選んでください。",
	}
}

// NewAnecdoteNotFoundError はアネクドート未検出エラーを生成する。
func NewAnecdoteNotFoundError(anecdoteID string) *APIError {
	return &APIError{
		Code:     ErrCodeAnecdoteNotFound,
		Message:  fmt.Sprintf("指定されたアネクドートが見つかりません: %s", anecdoteID),
		Category: "anecdote",
		Action:   "アネクドートIDを確認してください。",
	}
}

// NewUserNotFoundError はユーザー未検出エラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "ユーザーが見つかりません。",
		Category: "auth",
		Action:   "再度ログインしてください。",
	}
}

// NewInvalidCredentialsError は認証失敗エラーを生成する。
// メールアドレスの登録有無を漏らさないよう、常に同じメッセージを返す。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "メールアドレスまたはパスワードが正しくありません。",
		Category: "auth",
		Action:   "入力内容を確認して再度お試しください。",
	}
}

// NewEmailTakenError はメールアドレス重複エラーを生成する。
func NewEmailTakenError() *APIError {
	return &APIError{
		Code:     ErrCodeEmailTaken,
		Message:  "このメールアドレスは既に登録されています。",
		Category: "auth",
		Action:   "別のメールアドレスを使用するか、ログインしてください。",
	}
}

// NewInvalidRequestError はリクエスト形式エラーを生成する。
func NewInvalidRequestError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  "リクエストボディの解析に失敗しました。",
		Category: "validation",
		Action:   "正しいJSON形式でリクエストしてください。",
	}
}
