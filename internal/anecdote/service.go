// Package anecdote はアネクドートのカタログ管理のドメインロジックを提供する。
package anecdote

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/hitoshi/anecdotheque/internal/model"
	"github.com/hitoshi/anecdotheque/internal/repository"
)

// MetricsRecorder はカタログ操作のメトリクス記録インターフェース。
// nilの場合は記録しない。
type MetricsRecorder interface {
	RecordAnecdoteCreated(category model.Category)
	RecordAnecdoteDeleted()
}

// CreateInput はアネクドート作成の入力。
type CreateInput struct {
	Title    string
	Category string
	Content  string
}

// Service はアネクドートカタログのサービス層。
// 作成時のバリデーションとサニタイズ、一覧取得、削除を提供する。
type Service struct {
	anecdoteRepo repository.AnecdoteRepository
	sanitizer    *bluemonday.Policy
	metrics      MetricsRecorder
}

// NewService はServiceの新しいインスタンスを生成する。
// タイトルと本文は他ユーザーに表示されるため、StrictPolicyで
// すべてのHTMLタグを除去する。
func NewService(anecdoteRepo repository.AnecdoteRepository, metrics MetricsRecorder) *Service {
	return &Service{
		anecdoteRepo: anecdoteRepo,
		sanitizer:    bluemonday.StrictPolicy(),
		metrics:      metrics,
	}
}

// Create はアネクドートを検証・サニタイズして保存する。
// フィールド制約違反の場合はVALIDATION_ERROR（対象フィールド付き）を返す。
// IDとCreatedAtはここで確定し、以後変更されない。
func (s *Service) Create(ctx context.Context, authorID string, input CreateInput) (*model.Anecdote, error) {
	title := strings.TrimSpace(s.sanitizer.Sanitize(input.Title))
	content := strings.TrimSpace(s.sanitizer.Sanitize(input.Content))
	category := model.Category(input.Category)

	if err := validate(title, category, content); err != nil {
		return nil, err
	}

	anecdote := &model.Anecdote{
		ID:        uuid.New().String(),
		AuthorID:  authorID,
		Title:     title,
		Category:  category,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.anecdoteRepo.Create(ctx, anecdote); err != nil {
		return nil, fmt.Errorf("アネクドートの保存に失敗しました: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordAnecdoteCreated(category)
	}

	slog.Info("anecdote created",
		slog.String("anecdote_id", anecdote.ID),
		slog.String("author_id", authorID),
		slog.String("category", string(category)),
	)

	return anecdote, nil
}

// List は全アネクドートを投稿者名付きで返す。順序は保証しない。
// 並べ替えはランキングエンジンの責務。
func (s *Service) List(ctx context.Context) ([]model.AnecdoteWithAuthor, error) {
	anecdotes, err := s.anecdoteRepo.ListWithAuthor(ctx)
	if err != nil {
		return nil, fmt.Errorf("アネクドート一覧の取得に失敗しました: %w", err)
	}
	return anecdotes, nil
}

// Delete は指定IDのアネクドートを削除する。
// 関連する票はDBのCASCADE制約により原子的に削除されるため、
// アネクドートなしの孤児票が観測されることはない。
// 見つからない場合はANECDOTE_NOT_FOUNDを返す。
func (s *Service) Delete(ctx context.Context, id string) error {
	deleted, err := s.anecdoteRepo.DeleteByID(ctx, id)
	if err != nil {
		return fmt.Errorf("アネクドートの削除に失敗しました: %w", err)
	}
	if !deleted {
		return model.NewAnecdoteNotFoundError(id)
	}

	if s.metrics != nil {
		s.metrics.RecordAnecdoteDeleted()
	}

	slog.Info("anecdote deleted", slog.String("anecdote_id", id))
	return nil
}

// validate はフィールド制約を検証する。
// 文字数はバイト数ではなくルーン数で数える。
func validate(title string, category model.Category, content string) error {
	if title == "" {
		return model.NewValidationError("title", "必須項目です")
	}
	if utf8.RuneCountInString(title) > model.TitleMaxLen {
		return model.NewValidationError("title", fmt.Sprintf("%d文字以内で入力してください", model.TitleMaxLen))
	}
	if !category.IsValid() {
		return model.NewValidationError("category", fmt.Sprintf("%q は認識できないカテゴリです", category))
	}
	if content == "" {
		return model.NewValidationError("content", "必須項目です")
	}
	if utf8.RuneCountInString(content) > model.ContentMaxLen {
		return model.NewValidationError("content", fmt.Sprintf("%d文字以内で入力してください", model.ContentMaxLen))
	}
	return nil
}
