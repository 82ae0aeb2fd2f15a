package publish_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/require"

	"github.com/volhfx07132/SushiSwap/publish"
)

// EIP-1014 example 0.
func TestPredictCreate2Address(t *testing.T) {
	got := publish.PredictCreate2Address(
		common.HexToAddress("0x0000000000000000000000000000000000000000"),
		common.Hash{},
		hexutil.MustDecode("0x00"),
	)
	require.Equal(t, common.HexToAddress("0x4D1A2e2bB4F88F0250f26Ffff098B0b30B26BF38"), got)
}

func TestGenerateSalt(t *testing.T) {
	a := publish.GenerateSalt(deployer, "NBNGBar")
	require.Equal(t, a, publish.GenerateSalt(deployer, "NBNGBar"))
	require.NotEqual(t, a, publish.GenerateSalt(deployer, "NBNGMaker"))
	require.NotEqual(t, a, publish.GenerateSalt(dev, "NBNGBar"))
}
