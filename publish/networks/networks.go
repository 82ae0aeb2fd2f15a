// Package networks holds the per-network address tables used when publishing.
//
// Tables are immutable once built. Callers receive them by value from the
// constructors below and pass them to the steps that need them, so lookups
// stay pure and tests can swap in their own entries.
package networks

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

const (
	Mainnet = "1"
	Ropsten = "3"
	Rinkeby = "4"
	Goerli  = "5"
	Kovan   = "42"
	Hardhat = "31337"
)

var ErrUnknownNetwork = errors.New("unknown network")

// AddressTable maps a network id (decimal chain id) to a contract address.
type AddressTable struct {
	label   string
	entries map[string]common.Address
}

// NewAddressTable validates entries and returns a read-only table. The label
// is only used in error messages.
func NewAddressTable(label string, entries map[string]string) (*AddressTable, error) {
	t := &AddressTable{label: label, entries: make(map[string]common.Address, len(entries))}
	for network, addr := range entries {
		network = strings.TrimSpace(network)
		if network == "" {
			return nil, fmt.Errorf("%s: empty network id", label)
		}
		if !common.IsHexAddress(addr) {
			return nil, fmt.Errorf("%s: invalid address for network %s: %q", label, network, addr)
		}
		t.entries[network] = common.HexToAddress(addr)
	}
	return t, nil
}

func mustAddressTable(label string, entries map[string]string) *AddressTable {
	t, err := NewAddressTable(label, entries)
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup returns the address configured for network.
func (t *AddressTable) Lookup(network string) (common.Address, error) {
	addr, ok := t.entries[network]
	if !ok {
		return common.Address{}, fmt.Errorf("no %s address for network %q: %w", t.label, network, ErrUnknownNetwork)
	}
	return addr, nil
}

func (t *AddressTable) Has(network string) bool {
	_, ok := t.entries[network]
	return ok
}

// With returns a copy of t extended with overrides. Overrides win on conflict.
func (t *AddressTable) With(overrides map[string]string) (*AddressTable, error) {
	extra, err := NewAddressTable(t.label, overrides)
	if err != nil {
		return nil, err
	}
	out := &AddressTable{label: t.label, entries: make(map[string]common.Address, len(t.entries)+len(extra.entries))}
	for k, v := range t.entries {
		out.entries[k] = v
	}
	for k, v := range extra.entries {
		out.entries[k] = v
	}
	return out, nil
}

// Networks returns the configured network ids in ascending numeric order.
func (t *AddressTable) Networks() []string {
	out := make([]string, 0, len(t.entries))
	for k := range t.entries {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) < len(out[j])
		}
		return out[i] < out[j]
	})
	return out
}

// IsLocal reports whether network is the local development chain.
func IsLocal(network string) bool {
	return network == Hardhat
}

// NBNGTokens returns the NBNG token address table.
func NBNGTokens() *AddressTable {
	return mustAddressTable("NBNG", map[string]string{
		Mainnet: "0x9275e8386a5bdda160c0e621e9a6067b8fd88ea2",
		Rinkeby: "0x41c708Fd68C1f1CCF027fABe82996BDE60eDb3A3",
	})
}
