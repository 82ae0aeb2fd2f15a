package steps

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/volhfx07132/SushiSwap/publish/contracts/weth9mock"
	"github.com/volhfx07132/SushiSwap/publish/deployments"
	"github.com/volhfx07132/SushiSwap/publish/networks"
)

var ErrUnsupportedNetwork = errors.New("unsupported network")

// Fetcher resolves addresses of contracts a step depends on.
type Fetcher struct {
	network string
	records deployments.Store
	weth    *networks.AddressTable
}

// Contract returns the recorded address of a previously published contract.
func (f *Fetcher) Contract(ctx context.Context, name string) (common.Address, error) {
	rec, err := f.records.Get(ctx, f.network, name)
	if err != nil {
		return common.Address{}, fmt.Errorf("dependency %s: %w", name, err)
	}
	return rec.Address, nil
}

// WrappedNative returns the wrapped native token: the local mock on the
// development chain, the canonical token elsewhere.
func (f *Fetcher) WrappedNative(ctx context.Context) (common.Address, error) {
	if networks.IsLocal(f.network) {
		return f.Contract(ctx, weth9mock.Name())
	}
	if f.weth == nil || !f.weth.Has(f.network) {
		return common.Address{}, fmt.Errorf("no wrapped native token for network %q: %w", f.network, ErrUnsupportedNetwork)
	}
	return f.weth.Lookup(f.network)
}
