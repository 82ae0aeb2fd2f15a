package publish_test

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/volhfx07132/SushiSwap/publish"
	"github.com/volhfx07132/SushiSwap/publish/publishtest"
)

var dev = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")

func deployed(t *testing.T, b *publishtest.Backend) common.Address {
	t.Helper()
	res, err := b.DeployImplementation(context.Background(), []byte{0x60, 0x80}, 1_000_000)
	require.NoError(t, err)
	return res.ContractAddress
}

func TestReconcile_NoopWhenOwnerMatches(t *testing.T) {
	b := publishtest.New(deployer, 31337)
	contract := deployed(t, b)
	b.SetOwner(contract, dev)
	txs := len(b.Txs)

	sent, err := publish.Reconcile(context.Background(), b, "NBNGMasterChef", contract, dev, publish.SingleStepTransfer{})
	require.NoError(t, err)
	require.False(t, sent)
	require.Len(t, b.Txs, txs)
}

func TestReconcile_SingleStep(t *testing.T) {
	b := publishtest.New(deployer, 31337)
	contract := deployed(t, b)
	waited := len(b.Waited)

	sent, err := publish.Reconcile(context.Background(), b, "NBNGMasterChef", contract, dev, publish.SingleStepTransfer{})
	require.NoError(t, err)
	require.True(t, sent)
	require.Equal(t, 1, b.Calls())
	require.Len(t, b.Waited, waited+1)
	require.Equal(t, dev, b.OwnerOf(contract))

	// second pass converges
	sent, err = publish.Reconcile(context.Background(), b, "NBNGMasterChef", contract, dev, publish.SingleStepTransfer{})
	require.NoError(t, err)
	require.False(t, sent)
	require.Equal(t, 1, b.Calls())
}

func TestReconcile_TwoStepDirect(t *testing.T) {
	b := publishtest.New(deployer, 31337)
	contract := deployed(t, b)

	sent, err := publish.Reconcile(context.Background(), b, "NBNGMaker", contract, dev, publish.TwoStepTransfer{Direct: true})
	require.NoError(t, err)
	require.True(t, sent)
	require.Equal(t, dev, b.OwnerOf(contract))
	require.Equal(t, 1, b.Calls())
}

func TestReconcile_TwoStepPending(t *testing.T) {
	b := publishtest.New(deployer, 31337)
	contract := deployed(t, b)

	sent, err := publish.Reconcile(context.Background(), b, "NBNGMaker", contract, dev, publish.TwoStepTransfer{})
	require.NoError(t, err)
	require.True(t, sent)
	require.Equal(t, deployer, b.OwnerOf(contract))
	require.Equal(t, dev, b.PendingOwner(contract))
}

func TestReconcile_RevertPropagates(t *testing.T) {
	b := publishtest.New(deployer, 31337)
	contract := deployed(t, b)
	// someone else already owns it, so the deployer's transfer reverts
	b.SetOwner(contract, common.HexToAddress("0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC"))

	sent, err := publish.Reconcile(context.Background(), b, "NBNGMasterChef", contract, dev, publish.SingleStepTransfer{})
	require.ErrorIs(t, err, publish.ErrReverted)
	require.True(t, sent)
	require.Equal(t, 1, b.Calls())
}

func TestReconcile_OwnerReadFails(t *testing.T) {
	b := publishtest.New(deployer, 31337)
	_, err := publish.Reconcile(context.Background(), b, "NBNGMaker", common.HexToAddress("0x01"), dev, publish.SingleStepTransfer{})
	require.Error(t, err)
	require.Empty(t, b.Txs)
}

func TestTransferEncodings(t *testing.T) {
	single, err := publish.SingleStepTransfer{}.EncodeTransferOwnership(dev)
	require.NoError(t, err)
	require.Len(t, single, 4+32)
	require.Equal(t, dev, common.BytesToAddress(single[4:36]))

	two, err := publish.TwoStepTransfer{Direct: true, Renounce: false}.EncodeTransferOwnership(dev)
	require.NoError(t, err)
	require.Len(t, two, 4+3*32)
	require.Equal(t, byte(1), two[4+64-1])
	require.Equal(t, byte(0), two[4+96-1])
	require.NotEqual(t, single[:4], two[:4])
}
