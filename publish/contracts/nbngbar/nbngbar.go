package nbngbar

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/volhfx07132/SushiSwap/publish/contracts/uniswapv2"
)

const (
	name     = "NBNGBar"
	GasLimit = 1_500_000
)

type ConstructorArgs struct {
	NBNG common.Address
}

func Name() string           { return name }
func Tags() []string         { return []string{name} }
func Dependencies() []string { return uniswapv2.Dependencies() }

func (a ConstructorArgs) Values() []any {
	return []any{a.NBNG}
}
