// Package steps contains the publishing procedures for the NBNG contracts
// and the runner that orders them by their declared dependencies.
package steps

import (
	"context"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"

	"github.com/volhfx07132/SushiSwap/publish"
	"github.com/volhfx07132/SushiSwap/publish/artifacts"
	"github.com/volhfx07132/SushiSwap/publish/deployments"
	"github.com/volhfx07132/SushiSwap/publish/networks"
)

// NamedAccounts are the identities steps refer to by role.
type NamedAccounts struct {
	Deployer common.Address
	Dev      common.Address
}

type (
	Report struct {
		Network   string                    `json:"network"`
		Contracts map[string]ContractReport `json:"contracts"`
	}

	ContractReport struct {
		Address          string `json:"address"`
		Fresh            bool   `json:"fresh"`
		Owner            string `json:"owner,omitempty"`
		OwnerTransferred bool   `json:"owner_transferred,omitempty"`
	}
)

// Env is everything a step may touch during one run.
type Env struct {
	Network   string
	Accounts  NamedAccounts
	Backend   publish.Backend
	Records   deployments.Store
	Artifacts artifacts.Source
	Tokens    *networks.AddressTable
	WETH      *networks.AddressTable

	report Report
}

// NewEnv derives the network id and deployer from backend. A zero dev
// defaults to the deployer.
func NewEnv(backend publish.Backend, records deployments.Store, source artifacts.Source, dev common.Address, tokens, weth *networks.AddressTable) *Env {
	if dev == (common.Address{}) {
		dev = backend.Address()
	}
	return &Env{
		Network:   strconv.FormatUint(backend.ChainID(), 10),
		Accounts:  NamedAccounts{Deployer: backend.Address(), Dev: dev},
		Backend:   backend,
		Records:   records,
		Artifacts: source,
		Tokens:    tokens,
		WETH:      weth,
	}
}

func (e *Env) Fetcher() *Fetcher {
	return &Fetcher{network: e.Network, records: e.Records, weth: e.WETH}
}

// Report returns what the run has published so far.
func (e *Env) Report() Report {
	out := Report{Network: e.Network, Contracts: make(map[string]ContractReport, len(e.report.Contracts))}
	for k, v := range e.report.Contracts {
		out.Contracts[k] = v
	}
	return out
}

func (e *Env) note(name string, update func(*ContractReport)) {
	if e.report.Contracts == nil {
		e.report.Contracts = make(map[string]ContractReport)
	}
	c := e.report.Contracts[name]
	update(&c)
	e.report.Contracts[name] = c
}

func (e *Env) deploy(ctx context.Context, name string, args []any, gasLimit uint64) (publish.Result, error) {
	art, err := e.Artifacts.Load(name)
	if err != nil {
		return publish.Result{}, err
	}
	res, err := publish.Ensure(ctx, e.Backend, e.Records, e.Network, publish.Request{
		Name:          name,
		Artifact:      art,
		Args:          args,
		Deterministic: false,
		GasLimit:      gasLimit,
		Log:           true,
	})
	if err != nil {
		return publish.Result{}, err
	}
	e.note(name, func(c *ContractReport) {
		c.Address = res.Record.Address.Hex()
		c.Fresh = res.Fresh()
	})
	return res, nil
}

// reconcileOwner hands contract to the dev account and logs msg once a
// transfer has been mined.
func (e *Env) reconcileOwner(ctx context.Context, name string, contract common.Address, transfer publish.OwnershipTransfer, msg string) error {
	sent, err := publish.Reconcile(ctx, e.Backend, name, contract, e.Accounts.Dev, transfer)
	if err != nil {
		return err
	}
	if sent {
		log.Info(msg, "contract", name, "address", contract, "owner", e.Accounts.Dev)
	}
	e.note(name, func(c *ContractReport) {
		c.Owner = e.Accounts.Dev.Hex()
		c.OwnerTransferred = sent
	})
	return nil
}
