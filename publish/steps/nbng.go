package steps

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/log"

	"github.com/volhfx07132/SushiSwap/publish/contracts/nbngbar"
	"github.com/volhfx07132/SushiSwap/publish/contracts/nbngmaker"
	"github.com/volhfx07132/SushiSwap/publish/contracts/nbngmasterchef"
	"github.com/volhfx07132/SushiSwap/publish/contracts/uniswapv2"
	"github.com/volhfx07132/SushiSwap/publish/contracts/weth9mock"
	"github.com/volhfx07132/SushiSwap/publish/networks"
)

// Default returns every step this repository publishes.
func Default() []Step {
	return []Step{WETH9Mock(), Bar(), Maker(), MasterChef()}
}

func Bar() Step {
	return Step{
		Name:         nbngbar.Name(),
		Tags:         nbngbar.Tags(),
		Dependencies: nbngbar.Dependencies(),
		Run: func(ctx context.Context, env *Env) error {
			nbng, err := env.Tokens.Lookup(env.Network)
			if err != nil {
				return err
			}
			_, err = env.deploy(ctx, nbngbar.Name(), nbngbar.ConstructorArgs{NBNG: nbng}.Values(), nbngbar.GasLimit)
			return err
		},
	}
}

func Maker() Step {
	return Step{
		Name:         nbngmaker.Name(),
		Tags:         nbngmaker.Tags(),
		Dependencies: nbngmaker.Dependencies(),
		Run: func(ctx context.Context, env *Env) error {
			nbng, err := env.Tokens.Lookup(env.Network)
			if err != nil {
				return err
			}

			f := env.Fetcher()
			factory, err := f.Contract(ctx, uniswapv2.FactoryName)
			if err != nil {
				return err
			}
			bar, err := f.Contract(ctx, nbngbar.Name())
			if err != nil {
				return err
			}
			weth, err := f.WrappedNative(ctx)
			if err != nil {
				return err
			}

			args := nbngmaker.ConstructorArgs{Factory: factory, Bar: bar, NBNG: nbng, WETH: weth}
			res, err := env.deploy(ctx, nbngmaker.Name(), args.Values(), nbngmaker.GasLimit)
			if err != nil {
				return err
			}
			return env.reconcileOwner(ctx, nbngmaker.Name(), res.Record.Address, nbngmaker.Ownership, nbngmaker.OwnershipMessage)
		},
	}
}

func MasterChef() Step {
	return Step{
		Name:         nbngmasterchef.Name(),
		Tags:         nbngmasterchef.Tags(),
		Dependencies: nbngmasterchef.Dependencies(),
		Run: func(ctx context.Context, env *Env) error {
			nbng, err := env.Tokens.Lookup(env.Network)
			if err != nil {
				return err
			}

			args := nbngmasterchef.ConstructorArgs{NBNG: nbng, Dev: env.Accounts.Dev, StartBlock: big.NewInt(0)}
			res, err := env.deploy(ctx, nbngmasterchef.Name(), args.Values(), nbngmasterchef.GasLimit)
			if err != nil {
				return err
			}
			return env.reconcileOwner(ctx, nbngmasterchef.Name(), res.Record.Address, nbngmasterchef.Ownership, nbngmasterchef.OwnershipMessage)
		},
	}
}

// WETH9Mock publishes the wrapped native token mock on the local chain only.
func WETH9Mock() Step {
	return Step{
		Name: weth9mock.Name(),
		Tags: weth9mock.Tags(),
		Skip: func(env *Env) bool {
			if networks.IsLocal(env.Network) {
				return false
			}
			log.Debug("Not a local network, skipping mock", "network", env.Network)
			return true
		},
		Run: func(ctx context.Context, env *Env) error {
			_, err := env.deploy(ctx, weth9mock.Name(), nil, weth9mock.GasLimit)
			return err
		},
	}
}
