// Package circuitbreaker 熔断器（基于sony/gobreaker）
//
// 三种状态：
//   - closed：请求正常通过，统计连续失败次数
//   - open：快速失败，不调用下游，Timeout后转为half-open
//   - half-open：放行MaxRequests个探测请求，成功则关闭，失败则重新打开
//
// 用于保护订单事件发布：消息队列故障时不拖慢下单请求
package circuitbreaker

import (
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker/v2"
)

// ErrOpenState 熔断器打开时的快速失败错误
var ErrOpenState = gobreaker.ErrOpenState

// Config 熔断器配置
type Config struct {
	// MaxRequests 半开状态下允许的探测请求数
	MaxRequests uint32

	// Interval 关闭状态下统计窗口的重置周期，0表示不重置
	Interval time.Duration

	// Timeout 打开状态持续时间
	Timeout time.Duration

	// FailureThreshold 连续失败多少次后熔断
	FailureThreshold uint32

	// OnStateChange 状态变化回调（如更新Prometheus指标）
	OnStateChange func(name string, from, to State)
}

// DefaultConfig 默认配置：连续5次失败熔断，30秒后半开探测
func DefaultConfig() Config {
	return Config{
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// State 熔断器状态
type State = gobreaker.State

const (
	StateClosed   = gobreaker.StateClosed
	StateHalfOpen = gobreaker.StateHalfOpen
	StateOpen     = gobreaker.StateOpen
)

// CircuitBreaker 熔断器
type CircuitBreaker struct {
	cb *gobreaker.CircuitBreaker[struct{}]
}

// NewCircuitBreaker 创建熔断器
func NewCircuitBreaker(name string, cfg Config) *CircuitBreaker {
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = DefaultConfig().FailureThreshold
	}

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("熔断器状态变化")
			if cfg.OnStateChange != nil {
				cfg.OnStateChange(name, from, to)
			}
		},
	}

	return &CircuitBreaker{cb: gobreaker.NewCircuitBreaker[struct{}](settings)}
}

// Execute 通过熔断器执行req
// 熔断器打开或半开探测名额用尽时直接返回错误，不调用req
func (c *CircuitBreaker) Execute(req func() error) error {
	_, err := c.cb.Execute(func() (struct{}, error) {
		return struct{}{}, req()
	})
	return err
}

// State 当前状态
func (c *CircuitBreaker) State() State {
	return c.cb.State()
}

// Name 熔断器名称
func (c *CircuitBreaker) Name() string {
	return c.cb.Name()
}

// IsRejected 错误是否来自熔断器本身（请求未被执行）
func IsRejected(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
