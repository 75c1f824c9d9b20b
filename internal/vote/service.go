// Package vote は投票台帳と得票集計のドメインロジックを提供する。
package vote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/anecdotheque/internal/model"
	"github.com/hitoshi/anecdotheque/internal/repository"
)

// MetricsRecorder は投票イベントのメトリクス記録インターフェース。
// nilの場合は記録しない。
type MetricsRecorder interface {
	RecordVoteCast(voteType model.VoteType)
	RecordDuplicateVote(voteType model.VoteType)
}

// Service は投票台帳のサービス層。
// 票の一意性はアプリケーション側のチェックではなくDBのUNIQUE制約で
// 保証されるため、同一組での並行投票も成功は必ず1件になる。
type Service struct {
	voteRepo     repository.VoteRepository
	anecdoteRepo repository.AnecdoteRepository
	metrics      MetricsRecorder
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(voteRepo repository.VoteRepository, anecdoteRepo repository.AnecdoteRepository, metrics MetricsRecorder) *Service {
	return &Service{
		voteRepo:     voteRepo,
		anecdoteRepo: anecdoteRepo,
		metrics:      metrics,
	}
}

// CastVote はユーザーの1票を台帳に記録する。
// 同一の (userID, anecdoteID, voteType) の票が既にある場合はDUPLICATE_VOTEを返し、
// 何も書き込まない（冪等な拒否であり、上書きではない）。
// 対象アネクドートが存在しない場合はANECDOTE_NOT_FOUNDを返す。
func (s *Service) CastVote(ctx context.Context, userID, anecdoteID string, voteType model.VoteType) (*model.Vote, error) {
	if !voteType.IsValid() {
		return nil, model.NewValidationError("type", fmt.Sprintf("%q は認識できないリアクション種別です", voteType))
	}

	anecdote, err := s.anecdoteRepo.FindByID(ctx, anecdoteID)
	if err != nil {
		return nil, fmt.Errorf("アネクドートの確認に失敗しました: %w", err)
	}
	if anecdote == nil {
		return nil, model.NewAnecdoteNotFoundError(anecdoteID)
	}

	vote := &model.Vote{
		ID:         uuid.New().String(),
		UserID:     userID,
		AnecdoteID: anecdoteID,
		Type:       voteType,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.voteRepo.Create(ctx, vote); err != nil {
		if errors.Is(err, repository.ErrDuplicateVote) {
			if s.metrics != nil {
				s.metrics.RecordDuplicateVote(voteType)
			}
			return nil, model.NewDuplicateVoteError(voteType)
		}
		return nil, fmt.Errorf("票の記録に失敗しました: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordVoteCast(voteType)
	}

	slog.Info("vote cast",
		slog.String("user_id", userID),
		slog.String("anecdote_id", anecdoteID),
		slog.String("vote_type", string(voteType)),
	)

	return vote, nil
}

// Tally は指定アネクドートの種別ごとの得票数を返す。
// 票の集合からその都度導出する純粋な読み取りで、キャッシュは持たない。
// 4種別すべてのキーを含む（0票でも省略しない）。
func (s *Service) Tally(ctx context.Context, anecdoteID string) (model.Tally, error) {
	tally, err := s.voteRepo.TallyByAnecdote(ctx, anecdoteID)
	if err != nil {
		return nil, fmt.Errorf("得票数の集計に失敗しました: %w", err)
	}
	return tally, nil
}

// TallyAll は全アネクドートの得票数をアネクドートID別に返す。
// 票のないアネクドートはマップに含まれないため、呼び出し側は
// model.NewTally()で0埋めを補うこと。
func (s *Service) TallyAll(ctx context.Context) (map[string]model.Tally, error) {
	tallies, err := s.voteRepo.TallyAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("全体得票数の集計に失敗しました: %w", err)
	}
	return tallies, nil
}
