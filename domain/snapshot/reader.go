package snapshot

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
	"github.com/tanglenet/tangled/domain/consensus/utils/serialization"
)

// Reader reads the records of a snapshot written by Writer
type Reader struct {
	reader *bufio.Reader
}

// NewReader returns a Reader that reads from r
func NewReader(r io.Reader) *Reader {
	return &Reader{reader: bufio.NewReader(r)}
}

// ReadHeader reads the snapshot header
func (r *Reader) ReadHeader() (*Header, error) {
	record, err := r.readRecord()
	if err != nil {
		return nil, err
	}
	header, err := deserializeHeader(record)
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedSnapshot, "header: %s", err)
	}
	if header.Version != Version {
		return nil, errors.Wrapf(ErrMalformedSnapshot, "unsupported snapshot version %d", header.Version)
	}
	return header, nil
}

// ReadOutput reads an unspent output
func (r *Reader) ReadOutput() (*externalapi.DomainOutpoint, externalapi.UTXOEntry, error) {
	record, err := r.readRecord()
	if err != nil {
		return nil, nil, err
	}
	outpoint, entry, err := serialization.DeserializeUTXO(record)
	if err != nil {
		return nil, nil, errors.Wrapf(ErrMalformedSnapshot, "output: %s", err)
	}
	return outpoint, entry, nil
}

// ReadDiff reads the mutations of a milestone
func (r *Reader) ReadDiff() (*MilestoneDiff, error) {
	record, err := r.readRecord()
	if err != nil {
		return nil, err
	}
	diff, err := deserializeDiff(record)
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedSnapshot, "diff: %s", err)
	}
	return diff, nil
}

func (r *Reader) readRecord() ([]byte, error) {
	length, err := binary.ReadUvarint(r.reader)
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedSnapshot, "cannot read record length: %s", err)
	}
	if length > maxRecordSize {
		return nil, errors.Wrapf(ErrMalformedSnapshot, "record of %d bytes exceeds the maximum of %d",
			length, maxRecordSize)
	}
	record := make([]byte, length)
	_, err = io.ReadFull(r.reader, record)
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedSnapshot, "cannot read record: %s", err)
	}
	return record, nil
}
