// Package metrics exposes the node's prometheus counters
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
)

const namespace = "tangled"

var (
	blocksInserted       prometheus.Counter
	blocksRejected       prometheus.Counter
	blocksSolid          prometheus.Counter
	milestonesConfirmed  prometheus.Counter
	blocksByOutcome      *prometheus.CounterVec
	conflicts            *prometheus.CounterVec
	ledgerIndex          prometheus.Gauge
	blocksPruned         prometheus.Counter
	solidEntryPoints     *prometheus.CounterVec
	pruningCyclesSkipped prometheus.Counter
	confirmationDuration prometheus.Histogram

	initOnce sync.Once
)

// Init registers the metrics with the default prometheus registry. Calls
// after the first one do nothing.
func Init() {
	initOnce.Do(initMetrics)
}

func initMetrics() {
	blocksInserted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "tangle",
		Name:      "blocks_inserted_total",
		Help:      "Number of blocks inserted into the tangle",
	})
	blocksRejected = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "tangle",
		Name:      "blocks_rejected_total",
		Help:      "Number of submitted blocks that broke a validation rule",
	})
	blocksSolid = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "tangle",
		Name:      "blocks_solid_total",
		Help:      "Number of blocks that became solid",
	})
	milestonesConfirmed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "whiteflag",
		Name:      "milestones_confirmed_total",
		Help:      "Number of confirmed milestones",
	})
	blocksByOutcome = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "whiteflag",
		Name:      "blocks_referenced_total",
		Help:      "Number of blocks referenced by milestones, by white-flag classification",
	}, []string{"classification"})
	conflicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "whiteflag",
		Name:      "conflicts_total",
		Help:      "Number of ignored transactions, by conflict reason",
	}, []string{"reason"})
	confirmationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "whiteflag",
		Name:      "confirmation_duration_seconds",
		Help:      "Time it takes to confirm a milestone",
		Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
	})
	ledgerIndex = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "ledger",
		Name:      "index",
		Help:      "Index of the last applied milestone",
	})
	blocksPruned = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "pruning",
		Name:      "blocks_pruned_total",
		Help:      "Number of blocks evicted by pruning, unreferenced blocks included",
	})
	solidEntryPoints = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "pruning",
		Name:      "solid_entry_points_total",
		Help:      "Number of solid entry points created and expired by pruning",
	}, []string{"change"})
	pruningCyclesSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "pruning",
		Name:      "cycles_skipped_total",
		Help:      "Number of pruning cycles that had nothing to do",
	})
	log.Debugf("Registered the prometheus metrics")
}

// RecordInsert records the outcome of submitting a block
func RecordInsert(err error) {
	Init()
	if err != nil {
		blocksRejected.Inc()
		return
	}
	blocksInserted.Inc()
}

// RecordEvent records a consensus event
func RecordEvent(event externalapi.ConsensusEvent) {
	Init()
	switch event := event.(type) {
	case *externalapi.BlockSolid:
		blocksSolid.Inc()
	case *externalapi.MilestoneConfirmed:
		recordConfirmation(event.Result)
	case *externalapi.DatabasePruned:
		recordPruning(event.Result)
	}
}

func recordConfirmation(result *externalapi.ConfirmationResult) {
	milestonesConfirmed.Inc()
	ledgerIndex.Set(float64(result.MilestoneIndex))
	for _, entry := range result.Order {
		blocksByOutcome.WithLabelValues(entry.Classification.String()).Inc()
	}
	for reason, count := range result.ConflictCounts() {
		conflicts.WithLabelValues(reason.String()).Add(float64(count))
	}
}

func recordPruning(result *externalapi.PruningResult) {
	blocksPruned.Add(float64(result.PrunedBlocks + result.PrunedUnreferencedBlocks))
	solidEntryPoints.WithLabelValues("created").Add(float64(result.NewSolidEntryPoints))
	solidEntryPoints.WithLabelValues("expired").Add(float64(result.ExpiredSolidEntryPoints))
}

// RecordPruningSkipped records a pruning cycle that had nothing to do
func RecordPruningSkipped() {
	Init()
	pruningCyclesSkipped.Inc()
}

// ObserveConfirmationDuration records how long confirming a milestone took
func ObserveConfirmationDuration(seconds float64) {
	Init()
	confirmationDuration.Observe(seconds)
}
