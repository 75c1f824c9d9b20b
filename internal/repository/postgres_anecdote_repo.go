package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/anecdotheque/internal/model"
)

// PostgresAnecdoteRepo はPostgreSQLを使用したアネクドートリポジトリ。
type PostgresAnecdoteRepo struct {
	db *sql.DB
}

// NewPostgresAnecdoteRepo はPostgresAnecdoteRepoを生成する。
func NewPostgresAnecdoteRepo(db *sql.DB) *PostgresAnecdoteRepo {
	return &PostgresAnecdoteRepo{db: db}
}

// FindByID は指定IDのアネクドートを取得する。見つからない場合はnilを返す。
func (r *PostgresAnecdoteRepo) FindByID(ctx context.Context, id string) (*model.Anecdote, error) {
	a := &model.Anecdote{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, author_id, title, category, content, created_at
		 FROM anecdotes WHERE id = $1`,
		id,
	).Scan(&a.ID, &a.AuthorID, &a.Title, &a.Category, &a.Content, &a.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("アネクドートの取得に失敗しました: %w", err)
	}

	return a, nil
}

// Create はアネクドートを作成する。
func (r *PostgresAnecdoteRepo) Create(ctx context.Context, anecdote *model.Anecdote) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO anecdotes (id, author_id, title, category, content, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		anecdote.ID, anecdote.AuthorID, anecdote.Title, anecdote.Category, anecdote.Content, anecdote.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("アネクドートの作成に失敗しました: %w", err)
	}
	return nil
}

// ListWithAuthor は全アネクドートを投稿者名付きで返す。順序は保証しない。
func (r *PostgresAnecdoteRepo) ListWithAuthor(ctx context.Context) ([]model.AnecdoteWithAuthor, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT a.id, a.author_id, a.title, a.category, a.content, a.created_at, u.name
		 FROM anecdotes a
		 JOIN users u ON u.id = a.author_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("アネクドート一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var results []model.AnecdoteWithAuthor
	for rows.Next() {
		var a model.AnecdoteWithAuthor
		if err := rows.Scan(&a.ID, &a.AuthorID, &a.Title, &a.Category, &a.Content, &a.CreatedAt, &a.AuthorName); err != nil {
			return nil, fmt.Errorf("アネクドート行の読み取りに失敗しました: %w", err)
		}
		results = append(results, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("アネクドート一覧の走査に失敗しました: %w", err)
	}
	return results, nil
}

// DeleteByID は指定IDのアネクドートを削除する。見つからない場合はfalseを返す。
// 関連する票はvotesテーブルのON DELETE CASCADE制約により同一ステートメント内で
// 削除されるため、アネクドートだけが消えて票が残る状態は観測されない。
func (r *PostgresAnecdoteRepo) DeleteByID(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM anecdotes WHERE id = $1`,
		id,
	)
	if err != nil {
		return false, fmt.Errorf("アネクドートの削除に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("削除結果の取得に失敗しました: %w", err)
	}
	return rowsAffected > 0, nil
}

// compile-time interface check
var _ AnecdoteRepository = (*PostgresAnecdoteRepo)(nil)
