// Package metrics Prometheus 指标，统一以 course_scheduler_ 为前缀
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "course_scheduler"

var (
	// HTTPRequests 按路由模板、方法、状态码计数
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP 请求数",
	}, []string{"method", "route", "status"})

	// HTTPDuration 请求耗时
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP 请求耗时",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	// GenerationDuration 一次排课生成（含事务）的耗时
	GenerationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "generation_duration_seconds",
		Help:      "排课方案生成耗时",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	})

	// CoursesPlaced 生成时成功落位 / 未落位的课程数
	CoursesPlaced = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "courses_placed_total",
		Help:      "生成时课程落位结果",
	}, []string{"outcome"})

	// ConflictsCreated 按冲突类型计数
	ConflictsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "conflicts_created_total",
		Help:      "新建冲突数",
	}, []string{"type"})

	// ConflictTransitions 冲突状态流转（accept / override / revert）
	ConflictTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "conflict_transitions_total",
		Help:      "冲突处理次数",
	}, []string{"action"})

	// IntegrityWarnings 撤销时无法还原原落位的次数
	IntegrityWarnings = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "integrity_warnings_total",
		Help:      "撤销覆盖时的数据完整性告警",
	})
)

// 落位结果标签
const (
	OutcomePlaced   = "placed"
	OutcomeUnplaced = "unplaced"
)
