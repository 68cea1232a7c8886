package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/saadjs/fitquest/internal/tracker"
)

// Metrics owns a private registry so several servers (and tests) can coexist
// in one process.
type Metrics struct {
	Registry *prometheus.Registry

	RequestCounter  *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	Commands        *prometheus.CounterVec
	BadgesUnlocked  *prometheus.CounterVec
	Streaks         *prometheus.GaugeVec
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		RequestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fitquest_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fitquest_http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"method", "endpoint"},
		),
		Commands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fitquest_commands_total",
				Help: "Tracker commands by name and outcome",
			},
			[]string{"command", "outcome"},
		),
		BadgesUnlocked: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fitquest_badges_unlocked_total",
				Help: "Badges granted to the current user",
			},
			[]string{"badge"},
		),
		Streaks: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "fitquest_streak_days",
				Help: "Current streak per domain",
			},
			[]string{"domain"},
		),
	}
	m.Registry.MustRegister(m.RequestCounter, m.RequestDuration, m.Commands, m.BadgesUnlocked, m.Streaks)
	return m
}

// BadgeUnlocked makes Metrics usable as a tracker.Notifier.
func (m *Metrics) BadgeUnlocked(badge string) {
	m.BadgesUnlocked.WithLabelValues(badge).Inc()
}

var _ tracker.Notifier = (*Metrics)(nil)

// ObserveCommand counts one command by outcome: ok, invalid, not_found or error.
func (m *Metrics) ObserveCommand(command string, err error) {
	m.Commands.WithLabelValues(command, Outcome(err)).Inc()
}

func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case isValidation(err):
		return "invalid"
	case isNotFound(err):
		return "not_found"
	default:
		return "error"
	}
}

func (m *Metrics) ObserveStreaks(s *tracker.Store) {
	for _, d := range []tracker.Domain{tracker.DomainChallenges, tracker.DomainNutrition} {
		m.Streaks.WithLabelValues(string(d)).Set(float64(s.Streak(d)))
	}
}

func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		m.RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		m.RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func (m *Metrics) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
