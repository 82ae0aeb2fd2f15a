package nbngmasterchef

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/volhfx07132/SushiSwap/publish"
	"github.com/volhfx07132/SushiSwap/publish/contracts/uniswapv2"
)

const (
	name     = "NBNGMasterChef"
	GasLimit = 3_500_000

	OwnershipMessage = "Transfer ownership of NBNGMasterChef to dev"
)

var Ownership publish.OwnershipTransfer = publish.SingleStepTransfer{}

type ConstructorArgs struct {
	NBNG       common.Address
	Dev        common.Address
	StartBlock *big.Int
}

func Name() string           { return name }
func Tags() []string         { return []string{name} }
func Dependencies() []string { return uniswapv2.Dependencies() }

func (a ConstructorArgs) Values() []any {
	start := a.StartBlock
	if start == nil {
		start = new(big.Int)
	}
	return []any{a.NBNG, a.Dev, start}
}
