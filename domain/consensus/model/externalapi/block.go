package externalapi

// PayloadType identifies the kind of a block payload
type PayloadType uint8

// The supported payload types
const (
	PayloadTypeNone PayloadType = iota
	PayloadTypeTransaction
	PayloadTypeMilestone
	PayloadTypeTaggedData
)

var payloadTypeStrings = map[PayloadType]string{
	PayloadTypeNone:        "None",
	PayloadTypeTransaction: "Transaction",
	PayloadTypeMilestone:   "Milestone",
	PayloadTypeTaggedData:  "TaggedData",
}

func (pt PayloadType) String() string {
	s, ok := payloadTypeStrings[pt]
	if !ok {
		return "Unknown"
	}
	return s
}

// DomainPayload is the payload carried by a block. It is one of
// *DomainTransaction, *DomainMilestone or *DomainTaggedData.
type DomainPayload interface {
	PayloadType() PayloadType
	Clone() DomainPayload
	Equal(other DomainPayload) bool
}

// DomainBlock represents a block in the tangle. Parents are sorted in
// ascending byte order and unique.
type DomainBlock struct {
	Parents []*DomainHash
	Payload DomainPayload
	Nonce   uint64
}

// Clone returns a clone of DomainBlock
func (block *DomainBlock) Clone() *DomainBlock {
	var payloadClone DomainPayload
	if block.Payload != nil {
		payloadClone = block.Payload.Clone()
	}
	return &DomainBlock{
		Parents: CloneHashes(block.Parents),
		Payload: payloadClone,
		Nonce:   block.Nonce,
	}
}

// Equal returns whether block equals to other
func (block *DomainBlock) Equal(other *DomainBlock) bool {
	if block == nil || other == nil {
		return block == other
	}
	if !HashesEqual(block.Parents, other.Parents) || block.Nonce != other.Nonce {
		return false
	}
	if block.Payload == nil || other.Payload == nil {
		return block.Payload == nil && other.Payload == nil
	}
	return block.Payload.Equal(other.Payload)
}

// PayloadType returns the type of the block's payload
func (block *DomainBlock) PayloadType() PayloadType {
	if block.Payload == nil {
		return PayloadTypeNone
	}
	return block.Payload.PayloadType()
}

// Transaction returns the transaction payload of the block, if there is one
func (block *DomainBlock) Transaction() (*DomainTransaction, bool) {
	transaction, ok := block.Payload.(*DomainTransaction)
	return transaction, ok && transaction != nil
}

// Milestone returns the milestone payload of the block, if there is one
func (block *DomainBlock) Milestone() (*DomainMilestone, bool) {
	milestone, ok := block.Payload.(*DomainMilestone)
	return milestone, ok && milestone != nil
}

// DomainTaggedData is an opaque, non-ledger payload
type DomainTaggedData struct {
	Tag  []byte
	Data []byte
}

// PayloadType implements DomainPayload
func (taggedData *DomainTaggedData) PayloadType() PayloadType {
	return PayloadTypeTaggedData
}

// Clone returns a clone of DomainTaggedData
func (taggedData *DomainTaggedData) Clone() DomainPayload {
	tagClone := make([]byte, len(taggedData.Tag))
	copy(tagClone, taggedData.Tag)
	dataClone := make([]byte, len(taggedData.Data))
	copy(dataClone, taggedData.Data)
	return &DomainTaggedData{Tag: tagClone, Data: dataClone}
}

// Equal returns whether taggedData equals to other
func (taggedData *DomainTaggedData) Equal(other DomainPayload) bool {
	otherTaggedData, ok := other.(*DomainTaggedData)
	if !ok {
		return false
	}
	if taggedData == nil || otherTaggedData == nil {
		return taggedData == otherTaggedData
	}
	return string(taggedData.Tag) == string(otherTaggedData.Tag) &&
		string(taggedData.Data) == string(otherTaggedData.Data)
}
