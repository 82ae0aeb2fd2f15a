package publish

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"

	"github.com/volhfx07132/SushiSwap/publish/artifacts"
	"github.com/volhfx07132/SushiSwap/publish/deployments"
)

const DefaultGasLimit uint64 = 5_000_000

// Outcome tells whether Ensure found a usable deployment or created one.
type Outcome int

const (
	Existing Outcome = iota
	Created
)

func (o Outcome) String() string {
	switch o {
	case Existing:
		return "existing"
	case Created:
		return "created"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

type (
	Request struct {
		Name          string
		Artifact      *artifacts.Artifact
		Args          []any
		Deterministic bool
		GasLimit      uint64
		// Log reports the deployment at info level instead of debug.
		Log bool
	}

	Result struct {
		Record  deployments.Record
		Outcome Outcome
	}
)

func (r Result) Fresh() bool { return r.Outcome == Created }

// Ensure makes sure req.Name is deployed on network with req's bytecode and
// constructor arguments. A stored record is reused when its parameters match
// and code is still present at its address; otherwise a creation transaction
// is sent, mined and recorded. Errors are returned as-is, nothing is retried.
func Ensure(ctx context.Context, b Backend, store deployments.Store, network string, req Request) (Result, error) {
	if req.Artifact == nil {
		return Result{}, fmt.Errorf("deploy %s: no artifact", req.Name)
	}
	argsData, err := req.Artifact.ConstructorArgs(req.Args...)
	if err != nil {
		return Result{}, err
	}
	bytecodeHash := req.Artifact.BytecodeHash()

	prev, err := store.Get(ctx, network, req.Name)
	switch {
	case err == nil:
		if prev.BytecodeHash == bytecodeHash && bytes.Equal(prev.ArgsData, argsData) && prev.Deterministic == req.Deterministic {
			code, err := b.CodeAt(ctx, prev.Address)
			if err != nil {
				return Result{}, err
			}
			if len(code) > 0 {
				logFor(req)("Reusing deployment", "contract", req.Name, "address", prev.Address)
				return Result{Record: prev, Outcome: Existing}, nil
			}
			log.Warn("Recorded deployment has no code, redeploying", "contract", req.Name, "address", prev.Address)
		} else {
			log.Info("Deployment parameters changed, redeploying", "contract", req.Name, "previous", prev.Address)
		}
	case errors.Is(err, deployments.ErrNotFound):
	default:
		return Result{}, err
	}

	initCode := make([]byte, 0, len(req.Artifact.Bytecode)+len(argsData))
	initCode = append(append(initCode, req.Artifact.Bytecode...), argsData...)

	gasLimit := req.GasLimit
	if gasLimit == 0 {
		gasLimit = DefaultGasLimit
	}

	rec := deployments.Record{
		Network:       network,
		Name:          req.Name,
		Deployer:      b.Address(),
		Args:          formatArgs(req.Args),
		ArgsData:      argsData,
		BytecodeHash:  bytecodeHash,
		Deterministic: req.Deterministic,
	}

	var res DeployResult
	if req.Deterministic {
		salt := GenerateSalt(b.Address(), req.Name)
		predicted := PredictCreate2Address(ArachnidCreate2Factory, salt, initCode)
		code, err := b.CodeAt(ctx, predicted)
		if err != nil {
			return Result{}, err
		}
		if len(code) > 0 {
			rec.Address = predicted
			rec = deployments.NewRecord(rec)
			if err := store.Save(ctx, rec); err != nil {
				return Result{}, err
			}
			logFor(req)("Reusing deterministic deployment", "contract", req.Name, "address", predicted)
			return Result{Record: rec, Outcome: Existing}, nil
		}
		res, err = b.DeployDeterministicViaArachnid(ctx, salt, initCode, gasLimit)
		if err != nil {
			return Result{}, fmt.Errorf("deploy %s: %w", req.Name, err)
		}
	} else {
		res, err = b.DeployImplementation(ctx, initCode, gasLimit)
		if err != nil {
			return Result{}, fmt.Errorf("deploy %s: %w", req.Name, err)
		}
	}

	receipt, err := waitMined(ctx, b, "deploy "+req.Name, res.TxHash)
	if err != nil {
		return Result{}, err
	}

	rec.Address = res.ContractAddress
	rec.TxHash = res.TxHash
	rec = deployments.NewRecord(rec)
	if err := store.Save(ctx, rec); err != nil {
		return Result{}, fmt.Errorf("record %s: %w", req.Name, err)
	}

	logFor(req)("Deployed contract", "contract", req.Name, "address", rec.Address, "tx", rec.TxHash, "gas", receipt.GasUsed)
	return Result{Record: rec, Outcome: Created}, nil
}

func logFor(req Request) func(msg string, ctx ...any) {
	if req.Log {
		return log.Info
	}
	return log.Debug
}

func formatArgs(args []any) []string {
	out := make([]string, len(args))
	for i, a := range args {
		switch v := a.(type) {
		case common.Address:
			out[i] = v.Hex()
		default:
			out[i] = fmt.Sprint(v)
		}
	}
	return out
}
