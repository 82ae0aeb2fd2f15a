package nbngmaker

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func TestDependencies(t *testing.T) {
	require.Equal(t, []string{"UniswapV2Factory", "UniswapV2Router02", "NBNGBar"}, Dependencies())
}

func TestConstructorArgsOrder(t *testing.T) {
	args := ConstructorArgs{
		Factory: common.HexToAddress("0x01"),
		Bar:     common.HexToAddress("0x02"),
		NBNG:    common.HexToAddress("0x03"),
		WETH:    common.HexToAddress("0x04"),
	}
	require.Equal(t, []any{args.Factory, args.Bar, args.NBNG, args.WETH}, args.Values())
}

func TestOwnershipIsDirect(t *testing.T) {
	data, err := Ownership.EncodeTransferOwnership(common.HexToAddress("0x05"))
	require.NoError(t, err)
	// transferOwnership(address newOwner, bool direct, bool renounce)
	require.Equal(t, byte(1), data[4+2*32-1])
	require.Equal(t, byte(0), data[4+3*32-1])
}
