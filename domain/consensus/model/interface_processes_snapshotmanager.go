package model

import (
	"io"

	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
)

// SnapshotManager bootstraps the ledger from snapshot files and writes
// them
type SnapshotManager interface {
	ImportSnapshot(reader io.Reader) error
	ExportSnapshot(writer io.Writer) error
	ExportDeltaSnapshot(writer io.Writer, fromIndex externalapi.MilestoneIndex) error
}
