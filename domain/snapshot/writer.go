package snapshot

import (
	"bufio"
	"io"

	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
	"github.com/tanglenet/tangled/domain/consensus/utils/serialization"
	"google.golang.org/protobuf/encoding/protowire"
)

// Writer writes the records of a snapshot. The caller is responsible for
// writing as many outputs and diffs as the header announces.
type Writer struct {
	writer *bufio.Writer
}

// NewWriter returns a Writer that writes into w. Flush must be called once
// the last record was written.
func NewWriter(w io.Writer) *Writer {
	return &Writer{writer: bufio.NewWriter(w)}
}

// WriteHeader writes the snapshot header. It must be the first record.
func (w *Writer) WriteHeader(header *Header) error {
	return w.writeRecord(serializeHeader(header))
}

// WriteOutput writes an unspent output
func (w *Writer) WriteOutput(outpoint *externalapi.DomainOutpoint, entry externalapi.UTXOEntry) error {
	return w.writeRecord(serialization.SerializeUTXO(outpoint, entry))
}

// WriteDiff writes the mutations of a milestone
func (w *Writer) WriteDiff(diff *MilestoneDiff) error {
	return w.writeRecord(serializeDiff(diff))
}

// Flush writes any buffered data to the underlying writer
func (w *Writer) Flush() error {
	return w.writer.Flush()
}

func (w *Writer) writeRecord(record []byte) error {
	_, err := w.writer.Write(protowire.AppendVarint(nil, uint64(len(record))))
	if err != nil {
		return err
	}
	_, err = w.writer.Write(record)
	return err
}
