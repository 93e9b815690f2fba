package utxostore

import (
	"github.com/tanglenet/tangled/domain/consensus/database"
	"github.com/tanglenet/tangled/domain/consensus/database/serialization"
	"github.com/tanglenet/tangled/domain/consensus/model"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
)

func spentOutputKey(outpoint *externalapi.DomainOutpoint) model.DBKey {
	return spentOutputsBucket.Key(outpoint.Bytes())
}

func serializeSpentOutput(spentOutput *externalapi.SpentOutput) []byte {
	return serialization.SpentOutputToDBSpentOutput(spentOutput)
}

// StageSpentOutput stages the record of a consumed output
func (us *utxoStore) StageSpentOutput(stagingArea *model.StagingArea, spentOutput *externalapi.SpentOutput) {
	stagingShard := us.stagingShard(stagingArea)

	delete(stagingShard.spentToDelete, *spentOutput.Outpoint)
	stagingShard.spentToAdd[*spentOutput.Outpoint] = spentOutput
}

func (us *utxoStore) SpentOutput(dbContext model.DBReader, stagingArea *model.StagingArea,
	outpoint *externalapi.DomainOutpoint) (*externalapi.SpentOutput, error) {

	stagingShard := us.stagingShard(stagingArea)

	if spentOutput, ok := stagingShard.spentToAdd[*outpoint]; ok {
		return spentOutput, nil
	}

	if _, ok := stagingShard.spentToDelete[*outpoint]; ok {
		return nil, database.ErrNotFound
	}

	spentOutputBytes, err := dbContext.Get(spentOutputKey(outpoint))
	if err != nil {
		return nil, err
	}
	return serialization.DBSpentOutputToSpentOutput(outpoint, spentOutputBytes)
}

func (us *utxoStore) HasSpentOutput(dbContext model.DBReader, stagingArea *model.StagingArea,
	outpoint *externalapi.DomainOutpoint) (bool, error) {

	stagingShard := us.stagingShard(stagingArea)

	if _, ok := stagingShard.spentToAdd[*outpoint]; ok {
		return true, nil
	}

	if _, ok := stagingShard.spentToDelete[*outpoint]; ok {
		return false, nil
	}

	return dbContext.Has(spentOutputKey(outpoint))
}

// DeleteSpentOutput stages the removal of the record of outpoint
func (us *utxoStore) DeleteSpentOutput(stagingArea *model.StagingArea, outpoint *externalapi.DomainOutpoint) {
	stagingShard := us.stagingShard(stagingArea)

	delete(stagingShard.spentToAdd, *outpoint)
	stagingShard.spentToDelete[*outpoint] = struct{}{}
}
