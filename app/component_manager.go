package app

import (
	"bufio"
	"context"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/tanglenet/tangled/domain/consensus"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
	"github.com/tanglenet/tangled/domain/consensus/ruleerrors"
	"github.com/tanglenet/tangled/domain/consensus/utils/consensushashing"
	"github.com/tanglenet/tangled/infrastructure/config"
	infrastructuredatabase "github.com/tanglenet/tangled/infrastructure/db/database"
	"github.com/tanglenet/tangled/infrastructure/logger"
	"github.com/tanglenet/tangled/infrastructure/metrics"
	"golang.org/x/sync/errgroup"
)

// ErrStopped is returned by SubmitBlock once the component manager stopped
var ErrStopped = errors.New("component manager stopped")

// ComponentManager is a wrapper for all the tangled services: block
// ingestion, event dispatching, milestone confirmation, pruning and the
// metrics server.
type ComponentManager struct {
	cfg       *config.Config
	consensus externalapi.Consensus

	consensusEventsChan chan externalapi.ConsensusEvent
	incomingBlocks      chan *externalapi.DomainBlock
	milestones          *milestoneQueue

	eventHandlerLock sync.RWMutex
	eventHandler     func(event externalapi.ConsensusEvent)

	cancel            context.CancelFunc
	workers           *errgroup.Group
	dispatcherDone    chan struct{}
	done              chan struct{}
	err               error
	started, shutdown int32
}

// NewComponentManager returns a new ComponentManager instance over db. When
// snapshotFile is not empty, db must be a new database and the full snapshot
// in snapshotFile becomes its initial state instead of the genesis ledger.
//
// Use Start() to begin all services within this ComponentManager
func NewComponentManager(cfg *config.Config, db infrastructuredatabase.Database, snapshotFile string) (
	*ComponentManager, error) {

	consensusConfig := consensus.NewConfig(cfg.NetParams())
	consensusConfig.EnablePruning = !cfg.NoPruning
	consensusConfig.PruningDepth = cfg.PruningDepth
	consensusConfig.PruningMinMilestonesToKeep = cfg.PruningMinMilestones
	consensusConfig.EnableLedgerSanityCheck = cfg.SanityCheckLedger
	consensusConfig.SkipGenesis = snapshotFile != ""

	consensusEventsChan := make(chan externalapi.ConsensusEvent, cfg.EventBufferSize)
	tangle, err := consensus.NewFactory().NewConsensus(consensusConfig, db, consensusEventsChan)
	if err != nil {
		return nil, err
	}

	a := &ComponentManager{
		cfg:                 cfg,
		consensus:           tangle,
		consensusEventsChan: consensusEventsChan,
		incomingBlocks:      make(chan *externalapi.DomainBlock, cfg.IngestionBufferSize),
		milestones:          newMilestoneQueue(),
		dispatcherDone:      make(chan struct{}),
		done:                make(chan struct{}),
	}

	if snapshotFile != "" {
		err := a.importSnapshotFile(snapshotFile)
		if err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (a *ComponentManager) importSnapshotFile(snapshotFile string) error {
	onEnd := logger.LogAndMeasureExecutionTime(log, "importSnapshotFile")
	defer onEnd()

	file, err := os.Open(snapshotFile)
	if err != nil {
		return errors.Wrapf(err, "could not open snapshot %s", snapshotFile)
	}
	defer file.Close()

	err = a.consensus.ImportSnapshot(bufio.NewReader(file))
	if err != nil {
		return errors.Wrapf(err, "could not import snapshot %s", snapshotFile)
	}

	ledgerIndex, err := a.consensus.LedgerIndex()
	if err != nil {
		return err
	}
	log.Infof("Imported snapshot %s at ledger index %d", snapshotFile, ledgerIndex)
	return nil
}

// Consensus returns the consensus driven by this ComponentManager
func (a *ComponentManager) Consensus() externalapi.Consensus {
	return a.consensus
}

// SetConsensusEventHandler sets a handler that is called by the event
// dispatcher for every consensus event, after the event was processed.
func (a *ComponentManager) SetConsensusEventHandler(handler func(event externalapi.ConsensusEvent)) {
	a.eventHandlerLock.Lock()
	defer a.eventHandlerLock.Unlock()
	a.eventHandler = handler
}

// Start launches all the tangled services.
func (a *ComponentManager) Start() {
	// Already started?
	if atomic.AddInt32(&a.started, 1) != 1 {
		return
	}

	log.Trace("Starting tangled")

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.workers, ctx = errgroup.WithContext(ctx)

	a.workers.Go(func() error { return a.ingestBlocks(ctx) })
	a.workers.Go(func() error { return a.confirmMilestones(ctx) })
	if !a.cfg.NoPruning {
		a.workers.Go(func() error { return a.pruneDatabase(ctx) })
	}
	if a.cfg.MetricsListen != "" {
		metrics.Init()
		a.workers.Go(func() error { return metrics.Serve(ctx, a.cfg.MetricsListen) })
	}

	spawn("ComponentManager.dispatchEvents", a.dispatchEvents)
	spawn("ComponentManager.waitForWorkers", func() {
		err := a.workers.Wait()
		if err != nil {
			log.Criticalf("Halting tangled: %+v", err)
		}
		a.err = err
		close(a.done)
	})
}

// Stop gracefully shuts down all the tangled services.
func (a *ComponentManager) Stop() {
	// Make sure this only happens once.
	if atomic.AddInt32(&a.shutdown, 1) != 1 {
		log.Infof("Tangled is already in the process of shutting down")
		return
	}

	log.Warnf("Tangled shutting down")

	if atomic.LoadInt32(&a.started) == 0 {
		close(a.consensusEventsChan)
		return
	}

	a.cancel()
	<-a.done

	// No worker calls into consensus anymore, so no further events can be
	// sent.
	close(a.consensusEventsChan)
	<-a.dispatcherDone
}

// Halted returns a channel that is closed once the services stopped, either
// by Stop or because a worker hit a fatal error.
func (a *ComponentManager) Halted() <-chan struct{} {
	return a.done
}

// Err returns the error that halted the services. It's only valid after
// Halted() is closed.
func (a *ComponentManager) Err() error {
	return a.err
}

// SubmitBlock queues block for insertion. It blocks while the ingestion
// buffer is full.
func (a *ComponentManager) SubmitBlock(block *externalapi.DomainBlock) error {
	select {
	case <-a.done:
		return ErrStopped
	default:
	}

	select {
	case a.incomingBlocks <- block:
		return nil
	case <-a.done:
		return ErrStopped
	}
}

func (a *ComponentManager) ingestBlocks(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case block := <-a.incomingBlocks:
			result, err := a.consensus.ValidateAndInsertBlock(block)
			metrics.RecordInsert(err)
			if err == nil {
				if len(result.MissingParents) > 0 {
					log.Debugf("Block %s is missing %d parents", result.BlockHash, len(result.MissingParents))
				}
				continue
			}
			blockHash := consensushashing.BlockHash(block)
			if !ruleerrors.IsRuleError(err) {
				return errors.Wrapf(err, "could not insert block %s", blockHash)
			}
			if errors.Is(err, ruleerrors.ErrDuplicateBlock) {
				log.Tracef("Ignoring duplicate block %s", blockHash)
				continue
			}
			log.Infof("Rejected block %s: %s", blockHash, err)
		}
	}
}

func (a *ComponentManager) dispatchEvents() {
	defer close(a.dispatcherDone)

	for event := range a.consensusEventsChan {
		metrics.RecordEvent(event)

		switch event := event.(type) {
		case *externalapi.BlockSolid:
			if event.Milestone != nil {
				log.Debugf("Milestone %d (%s) is solid", event.Milestone.Index, event.BlockHash)
				a.milestones.push(event.Milestone.Index, event.BlockHash)
			}
		case *externalapi.MilestoneConfirmed:
			log.Infof("Confirmed milestone %d (%s): %d blocks referenced, %d created outputs, %d consumed outputs",
				event.Result.MilestoneIndex, event.Result.MilestoneHash, len(event.Result.Order),
				len(event.Result.Mutations.Created), len(event.Result.Mutations.Consumed))
		case *externalapi.DatabasePruned:
			log.Infof("Pruned the database up to milestone %d: %d milestones, %d blocks",
				event.Result.TargetIndex, event.Result.PrunedMilestones, event.Result.PrunedBlocks)
		}

		a.eventHandlerLock.RLock()
		handler := a.eventHandler
		a.eventHandlerLock.RUnlock()
		if handler != nil {
			handler(event)
		}
	}
}

func (a *ComponentManager) confirmMilestones(ctx context.Context) error {
	err := a.enqueueSolidMilestones()
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-a.milestones.ready:
		}

		for {
			ledgerIndex, err := a.consensus.LedgerIndex()
			if err != nil {
				return err
			}
			milestoneHash, ok := a.milestones.next(ledgerIndex)
			if !ok {
				break
			}

			start := time.Now()
			// The ledger can't move past an index it failed to confirm, so
			// any error halts the node.
			_, err = a.consensus.ConfirmMilestone(milestoneHash)
			if err != nil {
				return errors.Wrapf(err, "could not confirm milestone %d (%s)", ledgerIndex+1, milestoneHash)
			}
			metrics.ObserveConfirmationDuration(time.Since(start).Seconds())

			if ctx.Err() != nil {
				return nil
			}
		}
	}
}

// enqueueSolidMilestones queues the milestones above the ledger index that
// became solid before the node was restarted. Their BlockSolid events
// were already sent.
func (a *ComponentManager) enqueueSolidMilestones() error {
	ledgerIndex, err := a.consensus.LedgerIndex()
	if err != nil {
		return err
	}
	for index := ledgerIndex + 1; ; index++ {
		milestoneHash, err := a.consensus.MilestoneHashByIndex(index)
		if infrastructuredatabase.IsNotFoundError(err) {
			return nil
		}
		if err != nil {
			return err
		}
		blockInfo, err := a.consensus.GetBlockInfo(milestoneHash)
		if err != nil {
			return err
		}
		if !blockInfo.IsSolid() {
			return nil
		}
		a.milestones.push(index, milestoneHash)
	}
}

func (a *ComponentManager) pruneDatabase(ctx context.Context) error {
	ticker := time.NewTicker(a.cfg.PruningInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		result, err := a.consensus.PruneDatabase(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return errors.Wrap(err, "pruning failed")
		}
		if result.Skipped {
			metrics.RecordPruningSkipped()
			log.Debugf("Pruning skipped: %s", result.SkipReason)
		}
	}
}
