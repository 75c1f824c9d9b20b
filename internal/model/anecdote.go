package model

import "time"

// Category はアネクドートのカテゴリを表す。
// 閉じた集合として定義し、境界で不正値を拒否する。
type Category string

const (
	// CategoryHistory は歴史にまつわる話。
	CategoryHistory Category = "history"
	// CategoryHumor はユーモア。
	CategoryHumor Category = "humor"
	// CategoryDailyLife は日常の出来事。
	CategoryDailyLife Category = "daily-life"
	// CategoryFailure は失敗談。
	CategoryFailure Category = "failure"
	// CategorySuccess は成功談。
	CategorySuccess Category = "success"
)

// Categories は定義済みカテゴリの一覧を返す。
func Categories() []Category {
	return []Category{
		CategoryHistory,
		CategoryHumor,
		CategoryDailyLife,
		CategoryFailure,
		CategorySuccess,
	}
}

// IsValid はCategoryが定義済みの値かどうかを判定する。
func (c Category) IsValid() bool {
	switch c {
	case CategoryHistory, CategoryHumor, CategoryDailyLife, CategoryFailure, CategorySuccess:
		return true
	default:
		return false
	}
}

// フィールド制約。createAnecdoteのバリデーションとDBのCHECK制約で共有する。
const (
	// TitleMaxLen はタイトルの最大文字数。
	TitleMaxLen = 255
	// ContentMaxLen は本文の最大文字数。
	ContentMaxLen = 500
)

// Anecdote はユーザーが投稿した小話を表す。
// AuthorIDとCreatedAtは作成時に確定し、以後変更されない。
type Anecdote struct {
	ID        string
	AuthorID  string
	Title     string
	Category  Category
	Content   string
	CreatedAt time.Time
}

// AnecdoteWithAuthor はアネクドートと投稿者名を結合したモデル。
// usersテーブルとJOINして取得される。
type AnecdoteWithAuthor struct {
	Anecdote
	AuthorName string
}
