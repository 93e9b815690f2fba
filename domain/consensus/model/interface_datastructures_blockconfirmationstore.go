package model

import "github.com/tanglenet/tangled/domain/consensus/model/externalapi"

// BlockConfirmationStore represents a store of the confirmation metadata of
// referenced blocks
type BlockConfirmationStore interface {
	Store
	Stage(stagingArea *StagingArea, blockHash *externalapi.DomainHash, confirmation *externalapi.BlockConfirmation)
	Get(dbContext DBReader, stagingArea *StagingArea, blockHash *externalapi.DomainHash) (*externalapi.BlockConfirmation, error)
	Has(dbContext DBReader, stagingArea *StagingArea, blockHash *externalapi.DomainHash) (bool, error)
	Delete(stagingArea *StagingArea, blockHash *externalapi.DomainHash)
}
