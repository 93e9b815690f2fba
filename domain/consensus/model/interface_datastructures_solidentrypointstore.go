package model

import "github.com/tanglenet/tangled/domain/consensus/model/externalapi"

// SolidEntryPointStore represents a store of solid entry points
type SolidEntryPointStore interface {
	Store
	Stage(stagingArea *StagingArea, blockHash *externalapi.DomainHash, solidEntryPoint *externalapi.SolidEntryPoint)
	Get(dbContext DBReader, stagingArea *StagingArea, blockHash *externalapi.DomainHash) (*externalapi.SolidEntryPoint, error)
	Has(dbContext DBReader, stagingArea *StagingArea, blockHash *externalapi.DomainHash) (bool, error)
	Delete(stagingArea *StagingArea, blockHash *externalapi.DomainHash)
	All(dbContext DBReader, stagingArea *StagingArea) (map[externalapi.DomainHash]*externalapi.SolidEntryPoint, error)
}
