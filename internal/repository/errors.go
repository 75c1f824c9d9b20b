package repository

import (
	"errors"

	"github.com/lib/pq"
)

// ErrDuplicateVote は票の一意性制約違反を表す番兵エラー。
// 同一の (user_id, anecdote_id, type) の票が既に存在する場合に返される。
var ErrDuplicateVote = errors.New("duplicate vote")

// ErrEmailConflict はメールアドレスの一意性制約違反を表す番兵エラー。
var ErrEmailConflict = errors.New("email already registered")

// pqUniqueViolation はPostgreSQLのunique_violationエラーコード。
const pqUniqueViolation = pq.ErrorCode("23505")

// isUniqueViolation はエラーがunique_violationかどうかを判定する。
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation
	}
	return false
}
