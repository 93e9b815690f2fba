package dagconfig

import (
	"github.com/pkg/errors"
	"github.com/tanglenet/tangled/domain/consensus/model/externalapi"
)

// NetID identifies a tangled network
type NetID uint32

// The known networks
const (
	Mainnet NetID = 0x746e676c
	Testnet NetID = 0x746e6774
	Devnet  NetID = 0x746e6764
	Simnet  NetID = 0x746e6773
)

// Params defines a tangled network by its parameters. These parameters may be
// used by applications to differentiate networks as well as addresses
// intended for use on one network from those intended for use on another.
type Params struct {
	// Name defines a human-readable identifier for the network.
	Name string

	// Net identifies the network. Snapshots are bound to it.
	Net NetID

	// MaxBlockParents is the maximum number of parents a block may reference
	MaxBlockParents int

	// TotalSupply is the amount held by the unspent outputs at all times
	TotalSupply uint64

	// GenesisAddress owns the whole supply of a fresh ledger
	GenesisAddress externalapi.DomainAddress

	// Human-readable prefix for Bech32 encoded addresses
	Bech32Prefix string

	// DefaultPruningDepth is the number of milestones kept below the
	// ledger index when the operator doesn't override it
	DefaultPruningDepth uint32
}

// GenesisOutpoint returns the outpoint that holds the total supply on a
// fresh ledger
func (p *Params) GenesisOutpoint() *externalapi.DomainOutpoint {
	return externalapi.NewDomainOutpoint(
		(*externalapi.DomainTransactionID)(externalapi.NewZeroHash()), 0)
}

// MainnetParams defines the network parameters for the main network.
var MainnetParams = Params{
	Name:                "mainnet",
	Net:                 Mainnet,
	MaxBlockParents:     8,
	TotalSupply:         2_779_530_283_277_761,
	GenesisAddress:      mainnetGenesisAddress,
	Bech32Prefix:        "tgl",
	DefaultPruningDepth: 60480,
}

// TestnetParams defines the network parameters for the test network.
var TestnetParams = Params{
	Name:                "testnet",
	Net:                 Testnet,
	MaxBlockParents:     8,
	TotalSupply:         2_779_530_283_277_761,
	GenesisAddress:      testnetGenesisAddress,
	Bech32Prefix:        "tgltest",
	DefaultPruningDepth: 8640,
}

// DevnetParams defines the network parameters for the development network.
// A small parent bound keeps development tangles narrow.
var DevnetParams = Params{
	Name:                "devnet",
	Net:                 Devnet,
	MaxBlockParents:     2,
	TotalSupply:         1_000_000_000,
	GenesisAddress:      devnetGenesisAddress,
	Bech32Prefix:        "tgldev",
	DefaultPruningDepth: 1000,
}

// SimnetParams defines the network parameters for the simulation test
// network. Tests run against it.
var SimnetParams = Params{
	Name:                "simnet",
	Net:                 Simnet,
	MaxBlockParents:     8,
	TotalSupply:         1_000_000_000,
	GenesisAddress:      simnetGenesisAddress,
	Bech32Prefix:        "tglsim",
	DefaultPruningDepth: 100,
}

var (
	// ErrDuplicateNet describes an error where the parameters for a
	// network could not be set due to the network already being a standard
	// network or previously-registered into this package.
	ErrDuplicateNet = errors.New("duplicate network")

	// ErrUnknownNet describes an error where the parameters for a network
	// were requested for a network that was never registered.
	ErrUnknownNet = errors.New("unknown network")
)

var (
	registeredNets = make(map[NetID]*Params)
)

// Register registers the network parameters for a network. This may
// error with ErrDuplicateNet if the network is already registered (either
// due to a previous Register call, or the network being one of the default
// networks).
func Register(params *Params) error {
	if _, ok := registeredNets[params.Net]; ok {
		return ErrDuplicateNet
	}
	registeredNets[params.Net] = params

	return nil
}

// ParamsForNet returns the registered parameters of net
func ParamsForNet(net NetID) (*Params, error) {
	params, ok := registeredNets[net]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownNet, "network %#x", uint32(net))
	}
	return params, nil
}

// mustRegister performs the same function as Register except it panics if there
// is an error. This should only be called from package init functions.
func mustRegister(params *Params) {
	if err := Register(params); err != nil {
		panic("failed to register network: " + err.Error())
	}
}

func init() {
	// Register all default networks when the package is initialized.
	mustRegister(&MainnetParams)
	mustRegister(&TestnetParams)
	mustRegister(&DevnetParams)
	mustRegister(&SimnetParams)
}
