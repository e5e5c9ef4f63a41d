package keeper

import (
	"strconv"
	"sync"

	"cosmossdk.io/math"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/monkearmy/binfarm/x/binfarm/types"
)

// BinfarmMetrics holds all Prometheus metrics for the binfarm module
type BinfarmMetrics struct {
	// Position metrics
	PositionsOpened *prometheus.CounterVec
	Payouts         *prometheus.CounterVec

	// Fee metrics
	ProtocolFees *prometheus.CounterVec
	KeeperTips   *prometheus.CounterVec
	UserPayouts  *prometheus.CounterVec

	// Rover and emergency metrics
	RoverSwept      *prometheus.CounterVec
	EmergencyCloses prometheus.Counter
}

var (
	binfarmMetricsOnce sync.Once
	binfarmMetrics     *BinfarmMetrics
)

// NewBinfarmMetrics creates and registers binfarm metrics (singleton pattern)
func NewBinfarmMetrics() *BinfarmMetrics {
	binfarmMetricsOnce.Do(func() {
		binfarmMetrics = &BinfarmMetrics{
			PositionsOpened: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: types.ModuleName,
					Subsystem: "positions",
					Name:      "opened_total",
					Help:      "Total number of positions opened",
				},
				[]string{"side", "rover"},
			),
			Payouts: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: types.ModuleName,
					Subsystem: "positions",
					Name:      "payouts_total",
					Help:      "Total number of harvest and close settlements",
				},
				[]string{"action", "fallback"},
			),
			ProtocolFees: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: types.ModuleName,
					Subsystem: "fees",
					Name:      "protocol_total",
					Help:      "Protocol fees routed to the rover authority, in base units",
				},
				[]string{"denom"},
			),
			KeeperTips: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: types.ModuleName,
					Subsystem: "fees",
					Name:      "keeper_tips_total",
					Help:      "Keeper tips paid to fallback callers, in base units",
				},
				[]string{"denom"},
			),
			UserPayouts: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: types.ModuleName,
					Subsystem: "fees",
					Name:      "user_converted_total",
					Help:      "Converted-side amounts paid to owners, in base units",
				},
				[]string{"denom"},
			),
			RoverSwept: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: types.ModuleName,
					Subsystem: "rover",
					Name:      "swept_total",
					Help:      "Amount swept from the rover authority to the revenue destination",
				},
				[]string{"denom"},
			),
			EmergencyCloses: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: types.ModuleName,
					Subsystem: "governance",
					Name:      "emergency_closes_total",
					Help:      "Total number of emergency closes applied",
				},
			),
		}
	})
	return binfarmMetrics
}

// recordPayout records a settled harvest or close
func (m *BinfarmMetrics) recordPayout(action, denom string, payout types.Payout, fallback bool) {
	m.Payouts.WithLabelValues(action, strconv.FormatBool(fallback)).Inc()
	m.ProtocolFees.WithLabelValues(denom).Add(amountToFloat(payout.ProtocolFee))
	m.KeeperTips.WithLabelValues(denom).Add(amountToFloat(payout.Tip))
	m.UserPayouts.WithLabelValues(denom).Add(amountToFloat(payout.UserConverted))
}

// amountToFloat converts an amount for metric reporting; precision loss is
// acceptable for counters.
func amountToFloat(amount math.Int) float64 {
	if amount.IsNil() {
		return 0
	}
	f, _ := amount.BigInt().Float64()
	return f
}
