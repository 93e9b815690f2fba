package testutils

import (
	"testing"

	"github.com/kaspanet/go-secp256k1"
	"github.com/tanglenet/tangled/domain/consensus"
	"github.com/tanglenet/tangled/domain/dagconfig"
)

// ForAllNets runs the passed testFunc with all available networks. The
// genesis output of every network is handed to a fresh key, which is
// passed to testFunc.
func ForAllNets(t *testing.T, testFunc func(*testing.T, *consensus.Config, *secp256k1.SchnorrKeyPair)) {
	allParams := []*dagconfig.Params{
		&dagconfig.MainnetParams,
		&dagconfig.TestnetParams,
		&dagconfig.SimnetParams,
		&dagconfig.DevnetParams,
	}

	for _, params := range allParams {
		params := params
		t.Run(params.Name, func(t *testing.T) {
			t.Parallel()
			consensusConfig, genesisKey := NewTestConfig(t, params)
			t.Logf("Running test for %s", consensusConfig.Name)
			testFunc(t, consensusConfig, genesisKey)
		})
	}
}

// NewTestConfig returns the default consensus configuration of params,
// with the genesis output owned by a freshly generated key
func NewTestConfig(t *testing.T, params *dagconfig.Params) (*consensus.Config, *secp256k1.SchnorrKeyPair) {
	genesisKey, genesisAddress := GenerateKey(t)
	consensusConfig := consensus.NewConfig(params)
	consensusConfig.GenesisAddress = *genesisAddress
	return consensusConfig, genesisKey
}
