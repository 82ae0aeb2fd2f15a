package publish

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/lmittmann/w3"
)

const OwnershipGasLimit uint64 = 100_000

var (
	funcOwner                  = w3.MustNewFunc("owner()", "address")
	funcTransferOwnership      = w3.MustNewFunc("transferOwnership(address)", "")
	funcTransferOwnershipFlags = w3.MustNewFunc("transferOwnership(address,bool,bool)", "")
)

// OwnershipTransfer builds the calldata a contract expects to hand its
// ownership to newOwner. Contracts differ in the call shape they accept.
type OwnershipTransfer interface {
	EncodeTransferOwnership(newOwner common.Address) ([]byte, error)
}

// SingleStepTransfer is OpenZeppelin's transferOwnership(address).
type SingleStepTransfer struct{}

func (SingleStepTransfer) EncodeTransferOwnership(newOwner common.Address) ([]byte, error) {
	return funcTransferOwnership.EncodeArgs(newOwner)
}

// TwoStepTransfer is the BoringOwnable form transferOwnership(address,bool,bool).
// Direct=false leaves the transfer pending until the new owner claims it.
type TwoStepTransfer struct {
	Direct   bool
	Renounce bool
}

func (t TwoStepTransfer) EncodeTransferOwnership(newOwner common.Address) ([]byte, error) {
	return funcTransferOwnershipFlags.EncodeArgs(newOwner, t.Direct, t.Renounce)
}

func Owner(ctx context.Context, b Backend, contract common.Address) (common.Address, error) {
	var owner common.Address
	if err := b.CallFunc(ctx, contract, funcOwner, nil, &owner); err != nil {
		return common.Address{}, fmt.Errorf("read owner: %w", err)
	}
	return owner, nil
}

// Reconcile makes desired the owner of contract. It reports whether a
// transfer transaction was sent; when one is, it waits for it to be mined.
func Reconcile(ctx context.Context, b Backend, name string, contract, desired common.Address, transfer OwnershipTransfer) (bool, error) {
	current, err := Owner(ctx, b, contract)
	if err != nil {
		return false, fmt.Errorf("%s: %w", name, err)
	}
	if current == desired {
		log.Debug("Owner already set", "contract", name, "owner", current)
		return false, nil
	}

	data, err := transfer.EncodeTransferOwnership(desired)
	if err != nil {
		return false, fmt.Errorf("encode %s transferOwnership: %w", name, err)
	}

	log.Debug("Sending ownership transfer", "contract", name, "from", current, "to", desired)
	txHash, err := b.Transact(ctx, contract, data, OwnershipGasLimit)
	if err != nil {
		return false, fmt.Errorf("transfer %s ownership: %w", name, err)
	}
	if _, err := waitMined(ctx, b, "transfer "+name+" ownership", txHash); err != nil {
		return true, err
	}
	return true, nil
}
