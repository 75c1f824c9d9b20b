package model

import "time"

// VoteType はリアクションの種別を表す。
// 1ユーザーは1アネクドートに対し各種別につき1票だけ投じられる。
type VoteType string

const (
	// VoteTypeBof は「いまいち」のリアクション。
	VoteTypeBof VoteType = "Bof"
	// VoteTypeExcellent は「すばらしい」のリアクション。
	VoteTypeExcellent VoteType = "Excellent"
	// VoteTypeTechnique は「技巧的」のリアクション。
	VoteTypeTechnique VoteType = "Technique"
	// VoteTypeWow は「驚き」のリアクション。
	VoteTypeWow VoteType = "Wow"
)

// VoteTypes は定義済みリアクション種別の一覧を返す。
func VoteTypes() []VoteType {
	return []VoteType{VoteTypeBof, VoteTypeExcellent, VoteTypeTechnique, VoteTypeWow}
}

// IsValid はVoteTypeが定義済みの値かどうかを判定する。
func (t VoteType) IsValid() bool {
	switch t {
	case VoteTypeBof, VoteTypeExcellent, VoteTypeTechnique, VoteTypeWow:
		return true
	default:
		return false
	}
}

// Vote は1ユーザーが1アネクドートに投じた1リアクションを表す。
// (UserID, AnecdoteID, Type) の組はDBのUNIQUE制約で一意に保たれる。
type Vote struct {
	ID         string
	UserID     string
	AnecdoteID string
	Type       VoteType
	CreatedAt  time.Time
}

// Tally はアネクドート1件に対するリアクション種別ごとの得票数。
// 票の集合から毎回導出され、永続化されない。
// 4種別すべてのキーを常に含む（0票でも省略しない）。
type Tally map[VoteType]int

// NewTally は4種別すべてを0で初期化したTallyを返す。
func NewTally() Tally {
	t := make(Tally, len(VoteTypes()))
	for _, vt := range VoteTypes() {
		t[vt] = 0
	}
	return t
}

// RankMode は発見ビューの並び順を表す。
type RankMode string

const (
	// RankModeTopWow はWow票の多い順。
	RankModeTopWow RankMode = "top-wow"
	// RankModeRecentTopWow は直近7日間に投稿されたものをWow票の多い順。
	RankModeRecentTopWow RankMode = "recent-top-wow"
	// RankModeTopTechnical はTechnique票の多い順。
	RankModeTopTechnical RankMode = "top-technical"
)

// IsValid はRankModeが定義済みの値かどうかを判定する。
func (m RankMode) IsValid() bool {
	switch m {
	case RankModeTopWow, RankModeRecentTopWow, RankModeTopTechnical:
		return true
	default:
		return false
	}
}
