package app

import (
	"sync"

	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
)

// milestoneQueue holds solid milestones that wait for confirmation, keyed by
// index. Milestones may become solid in any order but are confirmed strictly
// in index order.
type milestoneQueue struct {
	mtx     sync.Mutex
	pending map[externalapi.MilestoneIndex]*externalapi.DomainHash
	ready   chan struct{}
}

func newMilestoneQueue() *milestoneQueue {
	return &milestoneQueue{
		pending: make(map[externalapi.MilestoneIndex]*externalapi.DomainHash),
		ready:   make(chan struct{}, 1),
	}
}

// push never blocks
func (q *milestoneQueue) push(index externalapi.MilestoneIndex, milestoneHash *externalapi.DomainHash) {
	q.mtx.Lock()
	if _, ok := q.pending[index]; !ok {
		q.pending[index] = milestoneHash
	}
	q.mtx.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// next returns the milestone directly above ledgerIndex, if it is queued,
// and discards every queued milestone at or below ledgerIndex.
func (q *milestoneQueue) next(ledgerIndex externalapi.MilestoneIndex) (*externalapi.DomainHash, bool) {
	q.mtx.Lock()
	defer q.mtx.Unlock()

	for index := range q.pending {
		if index <= ledgerIndex {
			log.Debugf("Dropping milestone %d: the ledger is already at %d", index, ledgerIndex)
			delete(q.pending, index)
		}
	}
	milestoneHash, ok := q.pending[ledgerIndex+1]
	if ok {
		delete(q.pending, ledgerIndex+1)
	}
	return milestoneHash, ok
}

func (q *milestoneQueue) len() int {
	q.mtx.Lock()
	defer q.mtx.Unlock()
	return len(q.pending)
}
