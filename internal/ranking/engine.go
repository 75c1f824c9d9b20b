// Package ranking は発見ビュー向けのアネクドート並べ替えを提供する。
// Rankは入力を変更しない純粋な変換であり、データストアなしで検証できる。
package ranking

import (
	"sort"
	"time"

	"github.com/hitoshi/anecdotheque/internal/model"
)

// recentWindow はRecentTopWowの対象期間。
const recentWindow = 7 * 24 * time.Hour

// Entry はランキング結果の1件を表す。
type Entry struct {
	Anecdote model.AnecdoteWithAuthor
	Tally    model.Tally
}

// Rank はアネクドート集合をモードに応じて並べ替えた列を返す。
// talliesにないアネクドートは0票として扱う。
// nowはRecentTopWowの期間判定に使用する。呼び出し側がUTCの現在時刻を渡すことで、
// エンジン自体は入力と時刻の純粋関数のまま保たれる。
// 入力スライスは変更しない。
func Rank(anecdotes []model.AnecdoteWithAuthor, tallies map[string]model.Tally, mode model.RankMode, now time.Time) []Entry {
	entries := make([]Entry, 0, len(anecdotes))
	cutoff := now.Add(-recentWindow)

	for _, a := range anecdotes {
		// RecentTopWowは期間外を順位を下げるのではなく除外する。境界は含む。
		if mode == model.RankModeRecentTopWow && a.CreatedAt.Before(cutoff) {
			continue
		}

		tally, ok := tallies[a.ID]
		if !ok {
			tally = model.NewTally()
		}
		entries = append(entries, Entry{Anecdote: a, Tally: tally})
	}

	key := keyType(mode)
	sort.SliceStable(entries, func(i, j int) bool {
		return less(entries[i], entries[j], key)
	})

	return entries
}

// keyType はモードに対応する集計対象のリアクション種別を返す。
func keyType(mode model.RankMode) model.VoteType {
	if mode == model.RankModeTopTechnical {
		return model.VoteTypeTechnique
	}
	return model.VoteTypeWow
}

// less は並べ替えの全順序を定義する。
// 得票数降順 → 投稿日時降順（新しい順）→ ID昇順。
// 最後のID比較により同一入力に対する結果は常に一意に定まる。
func less(a, b Entry, key model.VoteType) bool {
	if a.Tally[key] != b.Tally[key] {
		return a.Tally[key] > b.Tally[key]
	}
	if !a.Anecdote.CreatedAt.Equal(b.Anecdote.CreatedAt) {
		return a.Anecdote.CreatedAt.After(b.Anecdote.CreatedAt)
	}
	return a.Anecdote.ID < b.Anecdote.ID
}
