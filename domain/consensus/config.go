package consensus

import (
	"github.com/tanglenet/tangled/domain/dagconfig"
)

// Config is a descriptor of the consensus behaviour. It embeds the network
// parameters and adds the node's local policy.
type Config struct {
	dagconfig.Params

	// EnablePruning turns on PruneDatabase
	EnablePruning bool

	// PruningDepth is the number of milestones kept below the ledger index
	PruningDepth uint32

	// PruningMinMilestonesToKeep is the lowest PruningDepth pruning agrees
	// to run with
	PruningMinMilestonesToKeep uint32

	// EnableLedgerSanityCheck recomputes the supply from the whole unspent
	// output set on every applied milestone
	EnableLedgerSanityCheck bool

	// SkipGenesis leaves a fresh database without a ledger, so that a
	// full snapshot can be imported into it
	SkipGenesis bool
}

// NewConfig returns the default configuration for the network described by
// params
func NewConfig(params *dagconfig.Params) *Config {
	return &Config{
		Params:                     *params,
		EnablePruning:              true,
		PruningDepth:               params.DefaultPruningDepth,
		PruningMinMilestonesToKeep: defaultPruningMinMilestonesToKeep,
	}
}

const defaultPruningMinMilestonesToKeep = 10
