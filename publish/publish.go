package publish

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/lmittmann/w3"
	"github.com/lmittmann/w3/module/eth"
	"github.com/lmittmann/w3/w3types"
)

const receiptPollInterval = 2 * time.Second

var ErrReverted = errors.New("transaction reverted")

type (
	DeployResult struct {
		TxHash          common.Hash
		ContractAddress common.Address
	}

	// Backend is the chain surface the publishing steps need. *Deployer is
	// the live implementation.
	Backend interface {
		Address() common.Address
		ChainID() uint64
		CodeAt(ctx context.Context, addr common.Address) ([]byte, error)
		CallFunc(ctx context.Context, contract common.Address, fn w3types.Func, args []any, returns ...any) error
		DeployImplementation(ctx context.Context, bytecode []byte, gasLimit uint64) (DeployResult, error)
		DeployDeterministicViaArachnid(ctx context.Context, salt common.Hash, initCode []byte, gasLimit uint64) (DeployResult, error)
		Transact(ctx context.Context, to common.Address, data []byte, gasLimit uint64) (common.Hash, error)
		WaitForReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	}

	Deployer struct {
		client    *w3.Client
		chainID   uint64
		signer    types.Signer
		key       *ecdsa.PrivateKey
		address   common.Address
		gasFeeCap *big.Int
		gasTipCap *big.Int
	}
)

// NewDeployer dials rpcURL and reads the chain id from the node. A non-zero
// expectChainID must match it.
func NewDeployer(ctx context.Context, rpcURL string, expectChainID uint64, privateKey *ecdsa.PrivateKey, gasFeeCap, gasTipCap *big.Int) (*Deployer, error) {
	client, err := w3.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial rpc: %w", err)
	}

	var chainID uint64
	if err := client.CallCtx(ctx, eth.ChainID().Returns(&chainID)); err != nil {
		client.Close()
		return nil, fmt.Errorf("get chain id: %w", err)
	}
	if expectChainID != 0 && expectChainID != chainID {
		client.Close()
		return nil, fmt.Errorf("chain id mismatch: configured %d, node reports %d", expectChainID, chainID)
	}

	return &Deployer{
		client:    client,
		chainID:   chainID,
		signer:    types.NewLondonSigner(new(big.Int).SetUint64(chainID)),
		key:       privateKey,
		address:   crypto.PubkeyToAddress(privateKey.PublicKey),
		gasFeeCap: gasFeeCap,
		gasTipCap: gasTipCap,
	}, nil
}

func (d *Deployer) Address() common.Address {
	return d.address
}

func (d *Deployer) ChainID() uint64 {
	return d.chainID
}

func (d *Deployer) Close() error {
	return d.client.Close()
}

func (d *Deployer) CodeAt(ctx context.Context, addr common.Address) ([]byte, error) {
	var code []byte
	if err := d.client.CallCtx(ctx, eth.Code(addr, nil).Returns(&code)); err != nil {
		return nil, fmt.Errorf("get code %s: %w", addr.Hex(), err)
	}
	return code, nil
}

func (d *Deployer) CallFunc(ctx context.Context, contract common.Address, fn w3types.Func, args []any, returns ...any) error {
	if err := d.client.CallCtx(ctx, eth.CallFunc(contract, fn, args...).Returns(returns...)); err != nil {
		return fmt.Errorf("call %s: %w", contract.Hex(), err)
	}
	return nil
}

func (d *Deployer) getNonce(ctx context.Context) (uint64, error) {
	var nonce uint64
	if err := d.client.CallCtx(ctx, eth.Nonce(d.address, nil).Returns(&nonce)); err != nil {
		return 0, fmt.Errorf("get nonce: %w", err)
	}
	return nonce, nil
}

func (d *Deployer) sendTx(ctx context.Context, tx *types.Transaction) (common.Hash, error) {
	signedTx, err := types.SignTx(tx, d.signer, d.key)
	if err != nil {
		return common.Hash{}, fmt.Errorf("sign tx: %w", err)
	}
	if err := d.client.CallCtx(ctx, eth.SendTx(signedTx).Returns(nil)); err != nil {
		return common.Hash{}, fmt.Errorf("send tx: %w", err)
	}
	return signedTx.Hash(), nil
}

func (d *Deployer) newTx(nonce uint64, to *common.Address, data []byte, gasLimit uint64) *types.Transaction {
	//  EIP-1559 only
	return types.NewTx(&types.DynamicFeeTx{
		ChainID:   new(big.Int).SetUint64(d.chainID),
		Nonce:     nonce,
		To:        to,
		GasFeeCap: d.gasFeeCap,
		GasTipCap: d.gasTipCap,
		Gas:       gasLimit,
		Data:      data,
	})
}

// DeployImplementation sends a plain CREATE transaction carrying bytecode
// (creation code followed by any constructor arguments).
func (d *Deployer) DeployImplementation(ctx context.Context, bytecode []byte, gasLimit uint64) (DeployResult, error) {
	nonce, err := d.getNonce(ctx)
	if err != nil {
		return DeployResult{}, err
	}

	contractAddr := crypto.CreateAddress(d.address, nonce)

	txHash, err := d.sendTx(ctx, d.newTx(nonce, nil, bytecode, gasLimit))
	if err != nil {
		return DeployResult{}, err
	}

	return DeployResult{
		TxHash:          txHash,
		ContractAddress: contractAddr,
	}, nil
}

// DeployDeterministicViaArachnid deploys initCode through the keyless CREATE2
// factory. The resulting address depends only on salt and initCode.
func (d *Deployer) DeployDeterministicViaArachnid(ctx context.Context, salt common.Hash, initCode []byte, gasLimit uint64) (DeployResult, error) {
	nonce, err := d.getNonce(ctx)
	if err != nil {
		return DeployResult{}, err
	}

	factory := ArachnidCreate2Factory
	txHash, err := d.sendTx(ctx, d.newTx(nonce, &factory, create2Calldata(salt, initCode), gasLimit))
	if err != nil {
		return DeployResult{}, err
	}

	return DeployResult{
		TxHash:          txHash,
		ContractAddress: PredictCreate2Address(factory, salt, initCode),
	}, nil
}

// Transact sends a call transaction to a deployed contract.
func (d *Deployer) Transact(ctx context.Context, to common.Address, data []byte, gasLimit uint64) (common.Hash, error) {
	nonce, err := d.getNonce(ctx)
	if err != nil {
		return common.Hash{}, err
	}
	return d.sendTx(ctx, d.newTx(nonce, &to, data, gasLimit))
}

// WaitForReceipt blocks until txHash is mined (one confirmation) or ctx is done.
func (d *Deployer) WaitForReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	ticker := time.NewTicker(receiptPollInterval)
	defer ticker.Stop()

	for {
		var receipt types.Receipt
		err := d.client.CallCtx(ctx, eth.TxReceipt(txHash).Returns(&receipt))
		if err == nil {
			return &receipt, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// waitMined waits for txHash and turns a failed receipt into ErrReverted.
func waitMined(ctx context.Context, b Backend, what string, txHash common.Hash) (*types.Receipt, error) {
	receipt, err := b.WaitForReceipt(ctx, txHash)
	if err != nil {
		return nil, fmt.Errorf("wait %s: %w", what, err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("%s %s: %w", what, txHash.Hex(), ErrReverted)
	}
	return receipt, nil
}
