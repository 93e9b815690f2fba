package dagtraversalmanager

import (
	"github.com/pkg/errors"
	"github.com/tanglenet/tangled/domain/consensus/model"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
	"github.com/tanglenet/tangled/domain/consensus/utils/hashset"
)

type dfsFrame struct {
	blockHash       *externalapi.DomainHash
	parents         []*externalapi.DomainHash
	nextParentIndex int
}

// postOrderDFSIterator yields every block after all of its parents.
// Parents are descended into in the order of the block's parent list.
type postOrderDFSIterator struct {
	stagingArea *model.StagingArea
	parents     neighboursFunc
	condition   model.TraversalCondition
	startHash   *externalapi.DomainHash

	stack     []*dfsFrame
	visited   hashset.HashSet
	isStarted bool
	current   *externalapi.DomainHash
	err       error
	isClosed  bool
}

func (d *postOrderDFSIterator) reset() {
	d.stack = nil
	d.visited = hashset.New()
	d.isStarted = false
	d.current = nil
	d.err = nil
}

// visit evaluates the condition on blockHash and pushes it if the walk
// should descend into it. It returns false if the walk must stop.
func (d *postOrderDFSIterator) visit(blockHash *externalapi.DomainHash) (bool, error) {
	if d.visited.Contains(blockHash) {
		return true, nil
	}
	d.visited.Add(blockHash)

	decision, err := d.condition(blockHash)
	if err != nil {
		return false, err
	}
	switch decision {
	case model.TraversalSkip:
		return true, nil
	case model.TraversalStop:
		return false, nil
	}

	parents, err := d.parents(d.stagingArea, blockHash)
	if err != nil {
		return false, err
	}
	d.stack = append(d.stack, &dfsFrame{blockHash: blockHash, parents: parents})
	return true, nil
}

func (d *postOrderDFSIterator) First() bool {
	if d.isClosed {
		panic("Tried using a closed postOrderDFSIterator")
	}
	d.reset()
	return d.Next()
}

func (d *postOrderDFSIterator) Next() bool {
	if d.isClosed {
		panic("Tried using a closed postOrderDFSIterator")
	}
	if d.err != nil {
		return false
	}

	if !d.isStarted {
		d.isStarted = true
		shouldContinue, err := d.visit(d.startHash)
		if err != nil {
			return d.fail(err)
		}
		if !shouldContinue {
			return d.stop()
		}
	}

	for len(d.stack) > 0 {
		top := d.stack[len(d.stack)-1]
		if top.nextParentIndex < len(top.parents) {
			parent := top.parents[top.nextParentIndex]
			top.nextParentIndex++
			shouldContinue, err := d.visit(parent)
			if err != nil {
				return d.fail(err)
			}
			if !shouldContinue {
				return d.stop()
			}
			continue
		}

		d.stack = d.stack[:len(d.stack)-1]
		d.current = top.blockHash
		return true
	}

	d.current = nil
	return false
}

func (d *postOrderDFSIterator) stop() bool {
	d.stack = nil
	d.current = nil
	return false
}

// fail surfaces err at the current position. The following call to Next
// ends the walk.
func (d *postOrderDFSIterator) fail(err error) bool {
	d.stack = nil
	d.current = nil
	d.err = err
	return true
}

func (d *postOrderDFSIterator) Get() (*externalapi.DomainHash, error) {
	if d.isClosed {
		return nil, errors.New("Tried using a closed postOrderDFSIterator")
	}
	return d.current, d.err
}

func (d *postOrderDFSIterator) Close() error {
	if d.isClosed {
		return errors.New("Tried using a closed postOrderDFSIterator")
	}
	d.isClosed = true
	d.stagingArea = nil
	d.stack = nil
	d.visited = nil
	d.current = nil
	d.err = nil
	return nil
}

// PastConePostOrderDFS walks the past cone of startHash depth-first and
// yields parents before their children. startHash itself is yielded last.
func (dtm *dagTraversalManager) PastConePostOrderDFS(stagingArea *model.StagingArea, startHash *externalapi.DomainHash,
	condition model.TraversalCondition) model.BlockIterator {

	iterator := &postOrderDFSIterator{
		stagingArea: stagingArea,
		parents:     dtm.parents,
		condition:   condition,
		startHash:   startHash,
	}
	iterator.reset()
	return iterator
}
