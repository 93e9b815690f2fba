// Package snapshot implements the snapshot file format.
//
// A snapshot is a stream of records, each prefixed by its varint encoded
// length. The first record is the header. A full snapshot follows it with
// Header.OutputCount unspent outputs and then Header.DiffCount milestone
// diffs. A delta snapshot holds only the diffs.
package snapshot

import (
	"github.com/pkg/errors"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
)

// Version is the version of the snapshot format written by this package
const Version = 1

// maxRecordSize bounds the length of a single record
const maxRecordSize = 1 << 26

// Kind is the kind of a snapshot
type Kind uint8

// The snapshot kinds
const (
	KindFull Kind = iota + 1
	KindDelta
)

func (k Kind) String() string {
	switch k {
	case KindFull:
		return "full"
	case KindDelta:
		return "delta"
	}
	return "unknown"
}

// ErrMalformedSnapshot indicates a snapshot stream that can't be decoded
var ErrMalformedSnapshot = errors.New("malformed snapshot")

// SolidEntryPoint is a solid entry point as recorded in a snapshot
type SolidEntryPoint struct {
	BlockHash      *externalapi.DomainHash
	ConfirmedIndex externalapi.MilestoneIndex
}

// Header describes the content of a snapshot.
// LedgerIndex is the ledger index after applying every diff in the
// snapshot. For a delta snapshot FromIndex is the ledger index the first
// diff applies on top of.
type Header struct {
	Version          uint32
	Kind             Kind
	NetworkID        uint32
	LedgerIndex      externalapi.MilestoneIndex
	FromIndex        externalapi.MilestoneIndex
	SolidEntryPoints []*SolidEntryPoint
	OutputCount      uint64
	DiffCount        uint64
	LedgerStateHash  *externalapi.DomainHash
}

// MilestoneDiff is the ledger mutations applied by one milestone
type MilestoneDiff struct {
	Index     externalapi.MilestoneIndex
	Mutations *externalapi.UTXOMutations
}
