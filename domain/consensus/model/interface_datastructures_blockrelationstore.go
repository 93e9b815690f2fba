package model

import "github.com/tanglenet/tangled/domain/consensus/model/externalapi"

// BlockRelationStore represents a store of the parent-to-children index.
// Children may be recorded for a block that is not stored yet.
type BlockRelationStore interface {
	Store
	StageChildren(stagingArea *StagingArea, blockHash *externalapi.DomainHash, children []*externalapi.DomainHash)
	Children(dbContext DBReader, stagingArea *StagingArea, blockHash *externalapi.DomainHash) ([]*externalapi.DomainHash, error)
	Delete(stagingArea *StagingArea, blockHash *externalapi.DomainHash)
}
