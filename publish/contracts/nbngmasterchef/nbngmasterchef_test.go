package nbngmasterchef

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func TestValues_DefaultStartBlock(t *testing.T) {
	nbng := common.HexToAddress("0x9275e8386a5bdda160c0e621e9a6067b8fd88ea2")
	dev := common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")

	values := ConstructorArgs{NBNG: nbng, Dev: dev}.Values()
	require.Len(t, values, 3)
	require.Equal(t, nbng, values[0])
	require.Equal(t, dev, values[1])
	require.Zero(t, values[2].(*big.Int).Sign())
}
