package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// SpeculateTotal counts speculative pricing computations by unit type and outcome.
	SpeculateTotal *prometheus.CounterVec
	// InitiateTotal counts transaction initiation outcomes.
	InitiateTotal *prometheus.CounterVec
	// OverrideSyncTotal counts override table sync outcomes.
	OverrideSyncTotal *prometheus.CounterVec
	// LineItemsPerComputation records how many line items a computation produced.
	LineItemsPerComputation prometheus.Histogram
	// CommissionOverrideApplied counts computations where an override changed the provider commission.
	CommissionOverrideApplied prometheus.Counter
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		SpeculateTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "speculate_total",
			Help:      "Count of speculative pricing computations by unit type and outcome.",
		}, []string{"unit_type", "result"})
		InitiateTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "initiate_total",
			Help:      "Count of transaction initiation outcomes.",
		}, []string{"result"})
		OverrideSyncTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "override_sync_total",
			Help:      "Count of override table sync outcomes.",
		}, []string{"result"})
		LineItemsPerComputation = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "line_items_per_computation",
			Help:      "Number of line items produced by a pricing computation.",
			Buckets:   []float64{1, 2, 3, 4, 5, 6, 8, 10, 20, 50},
		})
		CommissionOverrideApplied = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commission_override_applied_total",
			Help:      "Computations where an override changed the provider commission.",
		})

		mustRegisterCollector(reg, SpeculateTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				SpeculateTotal = v
			}
		})
		mustRegisterCollector(reg, InitiateTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				InitiateTotal = v
			}
		})
		mustRegisterCollector(reg, OverrideSyncTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				OverrideSyncTotal = v
			}
		})
		mustRegisterCollector(reg, LineItemsPerComputation, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Histogram); ok {
				LineItemsPerComputation = v
			}
		})
		mustRegisterCollector(reg, CommissionOverrideApplied, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				CommissionOverrideApplied = v
			}
		})
	})
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register domain metric: %w", err))
	}
}
