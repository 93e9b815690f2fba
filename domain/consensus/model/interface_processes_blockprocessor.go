package model

import "github.com/tanglenet/tangled/domain/consensus/model/externalapi"

// BlockProcessor is responsible for inserting blocks into the tangle and
// for solidification
type BlockProcessor interface {
	ValidateAndInsertBlock(stagingArea *StagingArea, block *externalapi.DomainBlock) (*externalapi.InsertBlockResult, error)
	IsSolid(stagingArea *StagingArea, blockHash *externalapi.DomainHash) (bool, error)
}
