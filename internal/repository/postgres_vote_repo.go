package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/anecdotheque/internal/model"
)

// PostgresVoteRepo はPostgreSQLを使用した票リポジトリ。
type PostgresVoteRepo struct {
	db *sql.DB
}

// NewPostgresVoteRepo はPostgresVoteRepoを生成する。
func NewPostgresVoteRepo(db *sql.DB) *PostgresVoteRepo {
	return &PostgresVoteRepo{db: db}
}

// Create は票を作成する。
// (user_id, anecdote_id, type) のUNIQUE制約に違反した場合はErrDuplicateVoteを返す。
// 事前のexistsチェックは行わない。同一組での並行INSERTが競合しても、
// 制約により成功するのは必ず1件だけになる。
func (r *PostgresVoteRepo) Create(ctx context.Context, vote *model.Vote) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO votes (id, user_id, anecdote_id, type, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		vote.ID, vote.UserID, vote.AnecdoteID, vote.Type, vote.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateVote
		}
		return fmt.Errorf("票の作成に失敗しました: %w", err)
	}
	return nil
}

// TallyByAnecdote は指定アネクドートの種別ごとの得票数を返す。
// 0票の種別も必ずキーとして含まれる。
func (r *PostgresVoteRepo) TallyByAnecdote(ctx context.Context, anecdoteID string) (model.Tally, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT type, COUNT(*) FROM votes WHERE anecdote_id = $1 GROUP BY type`,
		anecdoteID,
	)
	if err != nil {
		return nil, fmt.Errorf("得票数の集計に失敗しました: %w", err)
	}
	defer rows.Close()

	tally := model.NewTally()
	for rows.Next() {
		var voteType model.VoteType
		var count int
		if err := rows.Scan(&voteType, &count); err != nil {
			return nil, fmt.Errorf("得票数行の読み取りに失敗しました: %w", err)
		}
		tally[voteType] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("得票数の走査に失敗しました: %w", err)
	}
	return tally, nil
}

// TallyAll は全アネクドートの種別ごとの得票数をアネクドートID別に返す。
// 一覧表示用にN+1クエリを避け、1回のGROUP BYで集計する。
func (r *PostgresVoteRepo) TallyAll(ctx context.Context) (map[string]model.Tally, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT anecdote_id, type, COUNT(*) FROM votes GROUP BY anecdote_id, type`,
	)
	if err != nil {
		return nil, fmt.Errorf("全体得票数の集計に失敗しました: %w", err)
	}
	defer rows.Close()

	tallies := make(map[string]model.Tally)
	for rows.Next() {
		var anecdoteID string
		var voteType model.VoteType
		var count int
		if err := rows.Scan(&anecdoteID, &voteType, &count); err != nil {
			return nil, fmt.Errorf("全体得票数行の読み取りに失敗しました: %w", err)
		}
		if _, ok := tallies[anecdoteID]; !ok {
			tallies[anecdoteID] = model.NewTally()
		}
		tallies[anecdoteID][voteType] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("全体得票数の走査に失敗しました: %w", err)
	}
	return tallies, nil
}

// CountByAnecdote は指定アネクドートの総票数を返す。
func (r *PostgresVoteRepo) CountByAnecdote(ctx context.Context, anecdoteID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM votes WHERE anecdote_id = $1`,
		anecdoteID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("票数の取得に失敗しました: %w", err)
	}
	return count, nil
}

// compile-time interface check
var _ VoteRepository = (*PostgresVoteRepo)(nil)
