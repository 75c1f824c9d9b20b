// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hitoshi/anecdotheque/internal/model"
)

// Collector はPrometheusメトリクスを収集する実装。
// vote.MetricsRecorderとanecdote.MetricsRecorderを満たす。
type Collector struct {
	votesCast       *prometheus.CounterVec
	duplicateVotes  *prometheus.CounterVec
	anecdoteCreated *prometheus.CounterVec
	anecdoteDeleted prometheus.Counter
	httpStatus      *prometheus.CounterVec
	requestDuration prometheus.Histogram
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		votesCast: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "anecdotheque_votes_cast_total",
			Help: "受理された票のリアクション種別ごとの合計数",
		}, []string{"type"}),
		duplicateVotes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "anecdotheque_duplicate_votes_total",
			Help: "一意性制約で拒否された重複票のリアクション種別ごとの合計数",
		}, []string{"type"}),
		anecdoteCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "anecdotheque_anecdotes_created_total",
			Help: "投稿されたアネクドートのカテゴリごとの合計数",
		}, []string{"category"}),
		anecdoteDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "anecdotheque_anecdotes_deleted_total",
			Help: "削除されたアネクドートの合計数",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "anecdotheque_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "anecdotheque_request_duration_seconds",
			Help:    "HTTPリクエスト処理時間（秒）",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.votesCast,
		c.duplicateVotes,
		c.anecdoteCreated,
		c.anecdoteDeleted,
		c.httpStatus,
		c.requestDuration,
	)

	return c
}

// RecordVoteCast は票の受理を記録する。
func (c *Collector) RecordVoteCast(voteType model.VoteType) {
	c.votesCast.WithLabelValues(string(voteType)).Inc()
}

// RecordDuplicateVote は重複票の拒否を記録する。
func (c *Collector) RecordDuplicateVote(voteType model.VoteType) {
	c.duplicateVotes.WithLabelValues(string(voteType)).Inc()
}

// RecordAnecdoteCreated はアネクドートの投稿を記録する。
func (c *Collector) RecordAnecdoteCreated(category model.Category) {
	c.anecdoteCreated.WithLabelValues(string(category)).Inc()
}

// RecordAnecdoteDeleted はアネクドートの削除を記録する。
func (c *Collector) RecordAnecdoteDeleted() {
	c.anecdoteDeleted.Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestDuration はリクエスト処理時間を記録する。
func (c *Collector) RecordRequestDuration(duration time.Duration) {
	c.requestDuration.Observe(duration.Seconds())
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
