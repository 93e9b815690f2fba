package app

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
	"github.com/tanglenet/tangled/domain/consensus/ruleerrors"
	"github.com/tanglenet/tangled/domain/consensus/utils/consensushashing"
	"github.com/tanglenet/tangled/domain/consensus/utils/hashes"
	"github.com/tanglenet/tangled/domain/dagconfig"
	"github.com/tanglenet/tangled/infrastructure/config"
	"github.com/tanglenet/tangled/infrastructure/db/database/memdb"
)

const eventTimeout = 10 * time.Second

func newTestComponentManager(t *testing.T) *ComponentManager {
	cfg, err := config.DefaultConfig(config.NetworkFlags{Simnet: true})
	if err != nil {
		t.Fatalf("DefaultConfig unexpectedly failed: %s", err)
	}
	cfg.DBType = config.DBTypeMemory
	cfg.NoPruning = true
	cfg.EventBufferSize = 4
	cfg.IngestionBufferSize = 4

	componentManager, err := NewComponentManager(cfg, memdb.NewMemDB(), "")
	if err != nil {
		t.Fatalf("NewComponentManager unexpectedly failed: %s", err)
	}
	return componentManager
}

var nonce uint64

func newBlock(payload externalapi.DomainPayload, parents ...*externalapi.DomainHash) *externalapi.DomainBlock {
	nonce++
	sortedParents := externalapi.CloneHashes(parents)
	hashes.Sort(sortedParents)
	return &externalapi.DomainBlock{Parents: sortedParents, Payload: payload, Nonce: nonce}
}

func submit(t *testing.T, componentManager *ComponentManager, block *externalapi.DomainBlock) *externalapi.DomainHash {
	err := componentManager.SubmitBlock(block)
	if err != nil {
		t.Fatalf("SubmitBlock unexpectedly failed: %s", err)
	}
	return consensushashing.BlockHash(block)
}

func TestComponentManagerConfirmsInOrder(t *testing.T) {
	componentManager := newTestComponentManager(t)

	confirmed := make(chan externalapi.MilestoneIndex, 10)
	componentManager.SetConsensusEventHandler(func(event externalapi.ConsensusEvent) {
		if event, ok := event.(*externalapi.MilestoneConfirmed); ok {
			confirmed <- event.Result.MilestoneIndex
		}
	})
	componentManager.Start()
	defer componentManager.Stop()

	genesisHash := dagconfig.GenesisBlockHash()

	// Rejected blocks don't stop ingestion
	submit(t, componentManager, newBlock(nil))

	// Milestone 2 becomes solid before milestone 1
	dataBlock := newBlock(&externalapi.DomainTaggedData{Tag: []byte("tag"), Data: []byte("data")}, genesisHash)
	dataBlockHash := submit(t, componentManager, dataBlock)
	milestone2Hash := submit(t, componentManager, newBlock(&externalapi.DomainMilestone{Index: 2, Timestamp: 2}, dataBlockHash))
	milestone1Hash := submit(t, componentManager, newBlock(&externalapi.DomainMilestone{Index: 1, Timestamp: 1}, genesisHash))

	for _, expectedIndex := range []externalapi.MilestoneIndex{1, 2} {
		select {
		case index := <-confirmed:
			if index != expectedIndex {
				t.Fatalf("TestComponentManagerConfirmsInOrder: expected milestone %d to be confirmed, "+
					"but got %d", expectedIndex, index)
			}
		case <-time.After(eventTimeout):
			t.Fatalf("TestComponentManagerConfirmsInOrder: timed out waiting for milestone %d", expectedIndex)
		}
	}

	tangle := componentManager.Consensus()
	ledgerIndex, err := tangle.LedgerIndex()
	if err != nil {
		t.Fatalf("TestComponentManagerConfirmsInOrder: LedgerIndex unexpectedly failed: %s", err)
	}
	if ledgerIndex != 2 {
		t.Fatalf("TestComponentManagerConfirmsInOrder: expected ledger index 2, got %d", ledgerIndex)
	}
	for blockHash, expectedIndex := range map[*externalapi.DomainHash]externalapi.MilestoneIndex{
		milestone1Hash: 1,
		dataBlockHash:  2,
		milestone2Hash: 2,
	} {
		blockInfo, err := tangle.GetBlockInfo(blockHash)
		if err != nil {
			t.Fatalf("TestComponentManagerConfirmsInOrder: GetBlockInfo unexpectedly failed: %s", err)
		}
		if blockInfo.Confirmation == nil || blockInfo.Confirmation.ReferencedByIndex != expectedIndex {
			t.Fatalf("TestComponentManagerConfirmsInOrder: block %s is not confirmed by milestone %d",
				blockHash, expectedIndex)
		}
	}
}

func TestComponentManagerHaltsOnFatalError(t *testing.T) {
	componentManager := newTestComponentManager(t)
	componentManager.Start()
	defer componentManager.Stop()

	dataBlock := newBlock(&externalapi.DomainTaggedData{Tag: []byte("tag")}, dagconfig.GenesisBlockHash())
	dataBlockHash := submit(t, componentManager, dataBlock)
	submit(t, componentManager, newBlock(&externalapi.DomainMilestone{
		Index:               1,
		Timestamp:           1,
		InclusionMerkleRoot: externalapi.NewDomainHashFromByteArray(&[externalapi.DomainHashSize]byte{0xff}),
	}, dataBlockHash))

	select {
	case <-componentManager.Halted():
	case <-time.After(eventTimeout):
		t.Fatalf("TestComponentManagerHaltsOnFatalError: timed out waiting for the component manager to halt")
	}
	if !errors.Is(componentManager.Err(), ruleerrors.ErrMerkleRootMismatch) {
		t.Fatalf("TestComponentManagerHaltsOnFatalError: expected ErrMerkleRootMismatch, got: %v",
			componentManager.Err())
	}

	err := componentManager.SubmitBlock(newBlock(nil, dataBlockHash))
	if !errors.Is(err, ErrStopped) {
		t.Fatalf("TestComponentManagerHaltsOnFatalError: expected ErrStopped, got: %v", err)
	}
	ledgerIndex, err := componentManager.Consensus().LedgerIndex()
	if err != nil {
		t.Fatalf("TestComponentManagerHaltsOnFatalError: LedgerIndex unexpectedly failed: %s", err)
	}
	if ledgerIndex != 0 {
		t.Fatalf("TestComponentManagerHaltsOnFatalError: the ledger moved to %d", ledgerIndex)
	}
}

func TestComponentManagerHaltsOnUnconfirmableMilestone(t *testing.T) {
	componentManager := newTestComponentManager(t)

	missingParent := externalapi.NewDomainHashFromByteArray(&[externalapi.DomainHashSize]byte{0xaa})
	milestone := newBlock(&externalapi.DomainMilestone{Index: 1, Timestamp: 1}, missingParent)
	result, err := componentManager.Consensus().ValidateAndInsertBlock(milestone)
	if err != nil {
		t.Fatalf("TestComponentManagerHaltsOnUnconfirmableMilestone: ValidateAndInsertBlock unexpectedly "+
			"failed: %s", err)
	}
	if result.IsSolid {
		t.Fatalf("TestComponentManagerHaltsOnUnconfirmableMilestone: a milestone over a missing parent is solid")
	}
	componentManager.milestones.push(1, result.BlockHash)

	componentManager.Start()
	defer componentManager.Stop()

	select {
	case <-componentManager.Halted():
	case <-time.After(eventTimeout):
		t.Fatalf("TestComponentManagerHaltsOnUnconfirmableMilestone: timed out waiting for the component " +
			"manager to halt")
	}
	if !errors.Is(componentManager.Err(), ruleerrors.ErrMilestoneNotSolid) {
		t.Fatalf("TestComponentManagerHaltsOnUnconfirmableMilestone: expected ErrMilestoneNotSolid, got: %v",
			componentManager.Err())
	}
}

func TestComponentManagerStopIsIdempotent(t *testing.T) {
	componentManager := newTestComponentManager(t)
	componentManager.Start()
	componentManager.Start()
	componentManager.Stop()
	componentManager.Stop()

	select {
	case <-componentManager.Halted():
	default:
		t.Fatalf("TestComponentManagerStopIsIdempotent: Halted is not closed after Stop")
	}
	if componentManager.Err() != nil {
		t.Fatalf("TestComponentManagerStopIsIdempotent: unexpected error after a clean stop: %s",
			componentManager.Err())
	}
}
