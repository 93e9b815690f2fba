package config

import (
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
	"github.com/tanglenet/tangled/domain/consensus/utils/addressencoding"
	"github.com/tanglenet/tangled/domain/dagconfig"
)

// NetworkFlags holds the network configuration, that is which network is selected.
type NetworkFlags struct {
	Testnet bool `long:"testnet" description:"Use the test network"`
	Simnet  bool `long:"simnet" description:"Use the simulation test network"`
	Devnet  bool `long:"devnet" description:"Use the development test network"`

	GenesisAddress string `long:"genesis-address" description:"Bech32 address that owns the supply of a fresh ledger (simnet and devnet only)"`

	ActiveNetParams *dagconfig.Params
}

// ResolveNetwork parses the network command line argument and sets ActiveNetParams accordingly.
// It returns error if more than one network was selected, nil otherwise.
func (networkFlags *NetworkFlags) ResolveNetwork(parser *flags.Parser) error {
	// Default value is main-net
	networkFlags.ActiveNetParams = &dagconfig.MainnetParams
	numNets := 0
	if networkFlags.Testnet {
		numNets++
		networkFlags.ActiveNetParams = &dagconfig.TestnetParams
	}
	if networkFlags.Simnet {
		numNets++
		networkFlags.ActiveNetParams = &dagconfig.SimnetParams
	}
	if networkFlags.Devnet {
		numNets++
		networkFlags.ActiveNetParams = &dagconfig.DevnetParams
	}
	if numNets > 1 {
		message := "Multiple networks parameters (testnet, simnet, devnet) cannot be used " +
			"together. Please choose only one network"
		err := errors.Errorf(message)
		fmt.Fprintln(os.Stderr, err)
		parser.WriteHelp(os.Stderr)
		return err
	}

	if networkFlags.GenesisAddress != "" {
		err := networkFlags.overrideGenesisAddress()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return err
		}
	}
	return nil
}

// overrideGenesisAddress points ActiveNetParams at a copy of the selected
// network's parameters, owned by GenesisAddress.
func (networkFlags *NetworkFlags) overrideGenesisAddress() error {
	if !networkFlags.Simnet && !networkFlags.Devnet {
		return errors.Errorf("the genesis address can only be set on simnet or devnet")
	}
	params := *networkFlags.ActiveNetParams
	genesisAddress, err := addressencoding.Decode(networkFlags.GenesisAddress, params.Bech32Prefix)
	if err != nil {
		return errors.Wrap(err, "invalid genesis address")
	}
	params.GenesisAddress = *genesisAddress
	networkFlags.ActiveNetParams = &params
	return nil
}

// NetParams returns the ActiveNetParams
func (networkFlags *NetworkFlags) NetParams() *dagconfig.Params {
	return networkFlags.ActiveNetParams
}
