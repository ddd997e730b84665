package metrics

import (
	"fmt"
	"sync/atomic"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dep2p/go-dsn/pkg/types"
)

// Collector 基于 Prometheus 的 Reporter 实现
type Collector struct {
	validations   *prometheus.CounterVec
	applies       *prometheus.CounterVec
	payments      *prometheus.CounterVec
	quorums       *prometheus.CounterVec
	acceptedBytes *prometheus.CounterVec

	rate     *RateMeter
	accepted atomic.Int64
	rejected atomic.Int64
}

// NewCollector 创建收集器并注册到 reg
//
// reg 不能为空；调用方负责选择注册表，本包从不使用全局默认注册表。
func NewCollector(reg prometheus.Registerer, namespace string, clk clock.Clock) (*Collector, error) {
	if reg == nil {
		return nil, fmt.Errorf("metrics: nil registerer")
	}

	c := &Collector{
		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "record_validations_total",
			Help:      "Record validations by kind and result.",
		}, []string{"kind", "result"}),
		applies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "register_applies_total",
			Help:      "Register entry applications by outcome.",
		}, []string{"status"}),
		payments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_validations_total",
			Help:      "Payment receipt validations by result.",
		}, []string{"result"}),
		quorums: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quorum_queries_total",
			Help:      "Close group quorum queries by result.",
		}, []string{"result"}),
		acceptedBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "accepted_bytes_total",
			Help:      "Payload bytes of accepted writes by kind.",
		}, []string{"kind"}),
		rate: NewRateMeter(clk),
	}

	byteRate := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "accepted_bytes_rate",
		Help:      "Average accepted payload bytes per second over the last minute.",
	}, c.rate.Rate)

	for _, col := range []prometheus.Collector{
		c.validations, c.applies, c.payments, c.quorums, c.acceptedBytes, byteRate,
	} {
		if err := reg.Register(col); err != nil {
			return nil, fmt.Errorf("metrics: register collector: %w", err)
		}
	}
	return c, nil
}

// ObserveValidation 实现 Reporter
func (c *Collector) ObserveValidation(kind types.RecordKind, err error) {
	if err == nil {
		c.accepted.Add(1)
	} else {
		c.rejected.Add(1)
	}
	c.validations.WithLabelValues(kind.String(), ResultLabel(err)).Inc()
}

// ObserveApply 实现 Reporter
func (c *Collector) ObserveApply(status string, err error) {
	if err != nil {
		status = ResultLabel(err)
	}
	c.applies.WithLabelValues(status).Inc()
}

// ObservePayment 实现 Reporter
func (c *Collector) ObservePayment(err error) {
	c.payments.WithLabelValues(ResultLabel(err)).Inc()
}

// ObserveQuorum 实现 Reporter
func (c *Collector) ObserveQuorum(err error) {
	c.quorums.WithLabelValues(ResultLabel(err)).Inc()
}

// ObserveAccepted 实现 Reporter
func (c *Collector) ObserveAccepted(kind types.RecordKind, size int) {
	if size < 0 {
		size = 0
	}
	c.acceptedBytes.WithLabelValues(kind.String()).Add(float64(size))
	c.rate.Add(int64(size))
}

// Snapshot 实现 Reporter
func (c *Collector) Snapshot() Stats {
	return Stats{
		Accepted:      c.accepted.Load(),
		Rejected:      c.rejected.Load(),
		AcceptedBytes: c.rate.Total(),
		ByteRate:      c.rate.Rate(),
	}
}
