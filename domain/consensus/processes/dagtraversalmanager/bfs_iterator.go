package dagtraversalmanager

import (
	"github.com/pkg/errors"
	"github.com/tanglenet/tangled/domain/consensus/model"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
	"github.com/tanglenet/tangled/domain/consensus/utils/hashset"
)

type neighboursFunc func(stagingArea *model.StagingArea, blockHash *externalapi.DomainHash) ([]*externalapi.DomainHash, error)

// bfsIterator yields blocks breadth-first. A block is expanded only once
// it's yielded, so the walk is lazy.
type bfsIterator struct {
	stagingArea *model.StagingArea
	neighbours  neighboursFunc
	condition   model.TraversalCondition
	startHashes []*externalapi.DomainHash

	queue    []*externalapi.DomainHash
	visited  hashset.HashSet
	current  *externalapi.DomainHash
	err      error
	isClosed bool
}

func newBFSIterator(stagingArea *model.StagingArea, startHashes []*externalapi.DomainHash,
	neighbours neighboursFunc, condition model.TraversalCondition) *bfsIterator {

	iterator := &bfsIterator{
		stagingArea: stagingArea,
		neighbours:  neighbours,
		condition:   condition,
		startHashes: externalapi.CloneHashes(startHashes),
	}
	iterator.reset()
	return iterator
}

func (b *bfsIterator) reset() {
	b.visited = hashset.New()
	b.queue = make([]*externalapi.DomainHash, 0, len(b.startHashes))
	for _, startHash := range b.startHashes {
		if b.visited.Contains(startHash) {
			continue
		}
		b.visited.Add(startHash)
		b.queue = append(b.queue, startHash)
	}
	b.current = nil
	b.err = nil
}

func (b *bfsIterator) First() bool {
	if b.isClosed {
		panic("Tried using a closed bfsIterator")
	}
	b.reset()
	return b.Next()
}

func (b *bfsIterator) Next() bool {
	if b.isClosed {
		panic("Tried using a closed bfsIterator")
	}
	if b.err != nil {
		return false
	}

	for len(b.queue) > 0 {
		blockHash := b.queue[0]
		b.queue = b.queue[1:]

		decision, err := b.condition(blockHash)
		if err != nil {
			return b.fail(err)
		}
		switch decision {
		case model.TraversalSkip:
			continue
		case model.TraversalStop:
			b.queue = nil
			b.current = nil
			return false
		}

		neighbours, err := b.neighbours(b.stagingArea, blockHash)
		if err != nil {
			return b.fail(err)
		}
		for _, neighbour := range neighbours {
			if b.visited.Contains(neighbour) {
				continue
			}
			b.visited.Add(neighbour)
			b.queue = append(b.queue, neighbour)
		}

		b.current = blockHash
		return true
	}

	b.current = nil
	return false
}

// fail surfaces err at the current position. The following call to Next
// ends the walk.
func (b *bfsIterator) fail(err error) bool {
	b.current = nil
	b.queue = nil
	b.err = err
	return true
}

func (b *bfsIterator) Get() (*externalapi.DomainHash, error) {
	if b.isClosed {
		return nil, errors.New("Tried using a closed bfsIterator")
	}
	return b.current, b.err
}

func (b *bfsIterator) Close() error {
	if b.isClosed {
		return errors.New("Tried using a closed bfsIterator")
	}
	b.isClosed = true
	b.stagingArea = nil
	b.queue = nil
	b.visited = nil
	b.current = nil
	b.err = nil
	return nil
}

// PastConeBFS walks the past cones of startHashes breadth-first over
// parents. The start blocks are yielded first.
func (dtm *dagTraversalManager) PastConeBFS(stagingArea *model.StagingArea, startHashes []*externalapi.DomainHash,
	condition model.TraversalCondition) model.BlockIterator {

	return newBFSIterator(stagingArea, startHashes, dtm.parents, condition)
}

// FutureConeBFS walks the future cones of startHashes breadth-first over
// children. Children of blocks that are not stored, such as solid entry
// points, are reachable.
func (dtm *dagTraversalManager) FutureConeBFS(stagingArea *model.StagingArea, startHashes []*externalapi.DomainHash,
	condition model.TraversalCondition) model.BlockIterator {

	return newBFSIterator(stagingArea, startHashes, dtm.children, condition)
}
