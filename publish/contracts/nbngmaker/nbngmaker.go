package nbngmaker

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/volhfx07132/SushiSwap/publish"
	"github.com/volhfx07132/SushiSwap/publish/contracts/nbngbar"
	"github.com/volhfx07132/SushiSwap/publish/contracts/uniswapv2"
)

const (
	name     = "NBNGMaker"
	GasLimit = 3_000_000

	OwnershipMessage = "Setting maker owner"
)

// Ownership hands the maker over directly, without a pending claim and
// without allowing renounce.
var Ownership publish.OwnershipTransfer = publish.TwoStepTransfer{Direct: true, Renounce: false}

type ConstructorArgs struct {
	Factory common.Address
	Bar     common.Address
	NBNG    common.Address
	WETH    common.Address
}

func Name() string   { return name }
func Tags() []string { return []string{name} }

func Dependencies() []string {
	return append(uniswapv2.Dependencies(), nbngbar.Name())
}

func (a ConstructorArgs) Values() []any {
	return []any{a.Factory, a.Bar, a.NBNG, a.WETH}
}
