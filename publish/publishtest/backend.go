// Package publishtest provides an in-memory publish.Backend for tests. It
// models nonces, contract creation (CREATE and CREATE2), Ownable owner()
// reads and both transferOwnership call shapes.
package publishtest

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/lmittmann/w3/w3types"

	"github.com/volhfx07132/SushiSwap/publish"
)

var (
	selectorOwner              = crypto.Keccak256([]byte("owner()"))[:4]
	selectorTransferOwnership  = crypto.Keccak256([]byte("transferOwnership(address)"))[:4]
	selectorTransferOwnership3 = crypto.Keccak256([]byte("transferOwnership(address,bool,bool)"))[:4]
)

// DeployedCode is what the backend reports as runtime code for every
// contract it creates.
var DeployedCode = []byte{0x60, 0x80, 0x60, 0x40}

type Tx struct {
	Hash common.Hash
	To   *common.Address
	Data []byte
}

type Backend struct {
	mu sync.Mutex

	from    common.Address
	chainID uint64
	nonce   uint64

	code    map[common.Address][]byte
	owners  map[common.Address]common.Address
	pending map[common.Address]common.Address
	revert  map[common.Hash]bool

	// RevertTransactions makes every subsequent transaction fail on-chain.
	RevertTransactions bool
	// SendErr, when set, is returned by every transaction submission.
	SendErr error

	Txs    []Tx
	Waited []common.Hash
	Reads  int
}

func New(from common.Address, chainID uint64) *Backend {
	return &Backend{
		from:    from,
		chainID: chainID,
		code:    make(map[common.Address][]byte),
		owners:  make(map[common.Address]common.Address),
		pending: make(map[common.Address]common.Address),
		revert:  make(map[common.Hash]bool),
	}
}

var _ publish.Backend = (*Backend)(nil)

func (b *Backend) Address() common.Address { return b.from }
func (b *Backend) ChainID() uint64         { return b.chainID }

// SetCode installs code at addr, e.g. a pre-existing dependency.
func (b *Backend) SetCode(addr common.Address, code []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.code[addr] = code
}

// SetOwner overrides the owner reported for contract.
func (b *Backend) SetOwner(contract, owner common.Address) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.owners[contract] = owner
}

func (b *Backend) OwnerOf(contract common.Address) common.Address {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.owners[contract]
}

// PendingOwner returns the owner nominated by a non-direct two-step transfer.
func (b *Backend) PendingOwner(contract common.Address) common.Address {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pending[contract]
}

// Creations counts contract creation transactions.
func (b *Backend) Creations() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, tx := range b.Txs {
		if tx.To == nil || *tx.To == publish.ArachnidCreate2Factory {
			n++
		}
	}
	return n
}

// Calls counts transactions sent to existing contracts.
func (b *Backend) Calls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, tx := range b.Txs {
		if tx.To != nil && *tx.To != publish.ArachnidCreate2Factory {
			n++
		}
	}
	return n
}

func (b *Backend) CodeAt(_ context.Context, addr common.Address) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Reads++
	return b.code[addr], nil
}

func (b *Backend) CallFunc(_ context.Context, contract common.Address, fn w3types.Func, args []any, returns ...any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Reads++

	input, err := fn.EncodeArgs(args...)
	if err != nil {
		return err
	}
	if len(b.code[contract]) == 0 {
		return fmt.Errorf("call %s: no code", contract.Hex())
	}
	if !bytes.HasPrefix(input, selectorOwner) {
		return fmt.Errorf("call %s: unsupported selector %x", contract.Hex(), input[:4])
	}
	if len(returns) != 1 {
		return fmt.Errorf("owner(): want 1 return, got %d", len(returns))
	}
	out, ok := returns[0].(*common.Address)
	if !ok {
		return fmt.Errorf("owner(): unsupported return type %T", returns[0])
	}
	*out = b.owners[contract]
	return nil
}

func (b *Backend) send(to *common.Address, data []byte) (common.Hash, error) {
	if b.SendErr != nil {
		return common.Hash{}, b.SendErr
	}
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], b.nonce)
	hash := crypto.Keccak256Hash(b.from.Bytes(), n[:], data)
	b.nonce++
	b.Txs = append(b.Txs, Tx{Hash: hash, To: to, Data: append([]byte(nil), data...)})
	if b.RevertTransactions {
		b.revert[hash] = true
	}
	return hash, nil
}

func (b *Backend) DeployImplementation(_ context.Context, bytecode []byte, _ uint64) (publish.DeployResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	addr := crypto.CreateAddress(b.from, b.nonce)
	hash, err := b.send(nil, bytecode)
	if err != nil {
		return publish.DeployResult{}, err
	}
	if !b.revert[hash] {
		b.code[addr] = DeployedCode
		b.owners[addr] = b.from
	}
	return publish.DeployResult{TxHash: hash, ContractAddress: addr}, nil
}

func (b *Backend) DeployDeterministicViaArachnid(_ context.Context, salt common.Hash, initCode []byte, _ uint64) (publish.DeployResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	factory := publish.ArachnidCreate2Factory
	data := append(salt.Bytes(), initCode...)
	hash, err := b.send(&factory, data)
	if err != nil {
		return publish.DeployResult{}, err
	}
	addr := publish.PredictCreate2Address(factory, salt, initCode)
	if !b.revert[hash] {
		b.code[addr] = DeployedCode
		b.owners[addr] = b.from
	}
	return publish.DeployResult{TxHash: hash, ContractAddress: addr}, nil
}

func (b *Backend) Transact(_ context.Context, to common.Address, data []byte, _ uint64) (common.Hash, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	hash, err := b.send(&to, data)
	if err != nil {
		return common.Hash{}, err
	}
	if b.revert[hash] {
		return hash, nil
	}
	if b.owners[to] != b.from {
		// Ownable: caller is not the owner
		b.revert[hash] = true
		return hash, nil
	}

	switch {
	case bytes.HasPrefix(data, selectorTransferOwnership) && len(data) >= 4+32:
		b.owners[to] = common.BytesToAddress(data[4 : 4+32])
	case bytes.HasPrefix(data, selectorTransferOwnership3) && len(data) >= 4+3*32:
		newOwner := common.BytesToAddress(data[4 : 4+32])
		direct := data[4+2*32-1] == 1
		if direct {
			b.owners[to] = newOwner
		} else {
			b.pending[to] = newOwner
		}
	default:
		b.revert[hash] = true
	}
	return hash, nil
}

func (b *Backend) WaitForReceipt(_ context.Context, txHash common.Hash) (*types.Receipt, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.Waited = append(b.Waited, txHash)
	status := types.ReceiptStatusSuccessful
	if b.revert[txHash] {
		status = types.ReceiptStatusFailed
	}
	return &types.Receipt{TxHash: txHash, Status: status, GasUsed: 21_000}, nil
}
