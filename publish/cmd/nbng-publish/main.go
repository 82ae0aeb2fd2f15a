package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"

	"github.com/volhfx07132/SushiSwap/publish"
	"github.com/volhfx07132/SushiSwap/publish/artifacts"
	"github.com/volhfx07132/SushiSwap/publish/deployments"
	"github.com/volhfx07132/SushiSwap/publish/networks"
	"github.com/volhfx07132/SushiSwap/publish/steps"
)

var (
	configPath string
	cfg        config
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		exitErr(err)
	}
}

func rootCmd() *cobra.Command {
	var (
		rpcURL, privateKey, publicAddress, dev  string
		recordStore, deploymentsPath, verbosity string
		artifactsDir                            string
		chainID                                 uint64
		gasFeeCap, gasTipCap                    int64
		timeoutSeconds                          int
	)

	root := &cobra.Command{
		Use:           "nbng-publish",
		Short:         "Publish and configure the NBNG contracts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			path := configPath
			if path == "" {
				path = envOr("NBNG_CONFIG", "")
			}
			cfg, err = loadConfig(path)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("rpc-url") {
				cfg.RPCURL = rpcURL
			}
			if flags.Changed("chain-id") {
				cfg.ChainID = chainID
			}
			if flags.Changed("private-key") {
				cfg.PrivateKey = privateKey
			}
			if flags.Changed("public-address") {
				cfg.PublicAddress = publicAddress
			}
			if flags.Changed("dev") {
				cfg.Dev = dev
			}
			if flags.Changed("gas-fee-cap") {
				cfg.GasFeeCap = gasFeeCap
			}
			if flags.Changed("gas-tip-cap") {
				cfg.GasTipCap = gasTipCap
			}
			if flags.Changed("timeout-seconds") {
				cfg.TimeoutSeconds = timeoutSeconds
			}
			if flags.Changed("record-store") {
				cfg.RecordStore = recordStore
			}
			if flags.Changed("deployments-path") {
				cfg.DeploymentsPath = deploymentsPath
			}
			if flags.Changed("artifacts-dir") {
				cfg.ArtifactsDir = artifactsDir
			}
			if flags.Changed("verbosity") {
				cfg.Verbosity = verbosity
			}
			return setupLogging(cfg.Verbosity)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "YAML config file (env NBNG_CONFIG)")
	pf.StringVar(&rpcURL, "rpc-url", "", "RPC URL (env RPC_URL)")
	pf.Uint64Var(&chainID, "chain-id", 0, "expected chain id, checked against the node (env CHAIN_ID)")
	pf.StringVar(&privateKey, "private-key", "", "deployer private key hex (env PRIVATE_KEY)")
	pf.StringVar(&publicAddress, "public-address", "", "deployer address for validation (env PUBLIC_ADDRESS)")
	pf.StringVar(&dev, "dev", "", "dev account receiving ownership, default deployer (env DEV)")
	pf.Int64Var(&gasFeeCap, "gas-fee-cap", 0, "EIP-1559 fee cap (env GAS_FEE_CAP)")
	pf.Int64Var(&gasTipCap, "gas-tip-cap", 0, "EIP-1559 tip cap (env GAS_TIP_CAP)")
	pf.IntVar(&timeoutSeconds, "timeout-seconds", 0, "overall timeout in seconds (env TIMEOUT_SECONDS)")
	pf.StringVar(&recordStore, "record-store", "", "file|sqlite (env RECORD_STORE)")
	pf.StringVar(&deploymentsPath, "deployments-path", "", "deployments directory or sqlite file, default deployments or deployments.db (env DEPLOYMENTS_PATH)")
	pf.StringVar(&artifactsDir, "artifacts-dir", "", "hardhat artifacts directory (env ARTIFACTS_DIR)")
	pf.StringVar(&verbosity, "verbosity", "", "log level: trace|debug|info|warn|error (env LOG_LEVEL)")

	root.AddCommand(deployCmd(), resolveCmd(), recordsCmd())
	return root
}

func deployCmd() *cobra.Command {
	var tags string
	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Run the publishing steps selected by --tags (default all)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validateForDeploy(); err != nil {
				return err
			}
			return runDeploy(cmd.Context(), splitCSV(tags))
		},
	}
	cmd.Flags().StringVar(&tags, "tags", "", "comma-separated step tags")
	return cmd
}

func runDeploy(parent context.Context, tags []string) error {
	key, dev, err := cfg.accounts()
	if err != nil {
		return err
	}
	tokens, weth, err := addressTables()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(contextOrBackground(parent), time.Duration(cfg.TimeoutSeconds)*time.Second)
	defer cancel()

	d, err := publish.NewDeployer(ctx, cfg.RPCURL, cfg.ChainID, key, big.NewInt(cfg.GasFeeCap), big.NewInt(cfg.GasTipCap))
	if err != nil {
		return err
	}
	defer d.Close()

	store, err := deployments.Open(cfg.RecordStore, cfg.DeploymentsPath)
	if err != nil {
		return err
	}
	defer store.Close()

	runner, err := steps.NewRunner(steps.Default()...)
	if err != nil {
		return err
	}

	env := steps.NewEnv(d, store, artifacts.NewDir(cfg.ArtifactsDir), dev, tokens, weth)
	log.Info("Publishing", "network", env.Network, "deployer", env.Accounts.Deployer, "dev", env.Accounts.Dev, "records", store.Location())

	if err := registerExternal(ctx, store, env.Network); err != nil {
		return err
	}

	runErr := runner.Run(ctx, env, tags)
	if err := printJSON(env.Report()); err != nil {
		return err
	}
	return runErr
}

func resolveCmd() *cobra.Command {
	var network string
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Print the NBNG and wrapped native token addresses for a network",
		RunE: func(cmd *cobra.Command, args []string) error {
			tokens, weth, err := addressTables()
			if err != nil {
				return err
			}
			nbng, err := tokens.Lookup(network)
			if err != nil {
				return err
			}
			out := map[string]string{"network": network, "nbng": nbng.Hex()}
			switch {
			case networks.IsLocal(network):
				out["weth"] = "local mock (WETH9Mock)"
			case weth.Has(network):
				addr, _ := weth.Lookup(network)
				out["weth"] = addr.Hex()
			default:
				return fmt.Errorf("no wrapped native token for network %q: %w", network, steps.ErrUnsupportedNetwork)
			}
			return printJSON(out)
		},
	}
	cmd.Flags().StringVar(&network, "network", "", "network id (chain id)")
	_ = cmd.MarkFlagRequired("network")
	return cmd
}

func recordsCmd() *cobra.Command {
	var network string
	cmd := &cobra.Command{
		Use:   "records",
		Short: "List stored deployment records, for one network or all",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := deployments.Open(cfg.RecordStore, cfg.DeploymentsPath)
			if err != nil {
				return err
			}
			defer store.Close()

			log.Debug("Listing records", "records", store.Location(), "network", network)
			records, err := store.List(contextOrBackground(cmd.Context()), network)
			if err != nil {
				return err
			}
			if records == nil {
				records = []deployments.Record{}
			}
			return printJSON(records)
		},
	}
	cmd.Flags().StringVar(&network, "network", "", "network id (chain id), default all")
	cmd.AddCommand(recordsSetCmd())
	return cmd
}

func recordsSetCmd() *cobra.Command {
	var network, name, address string
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Record the address of a contract published by another tool",
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := parseAddress(address)
			if err != nil {
				return err
			}
			store, err := deployments.Open(cfg.RecordStore, cfg.DeploymentsPath)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx := contextOrBackground(cmd.Context())
			if _, err := deployments.Register(ctx, store, network, name, addr); err != nil {
				return err
			}
			rec, err := store.Get(ctx, network, name)
			if err != nil {
				return err
			}
			return printJSON(rec)
		},
	}
	cmd.Flags().StringVar(&network, "network", "", "network id (chain id)")
	cmd.Flags().StringVar(&name, "name", "", "contract name, e.g. UniswapV2Factory")
	cmd.Flags().StringVar(&address, "address", "", "contract address")
	for _, f := range []string{"network", "name", "address"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

// registerExternal writes the configured external contracts of network to
// store before any step reads them.
func registerExternal(ctx context.Context, store deployments.Store, network string) error {
	external, err := cfg.externalFor(network)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(external))
	for name := range external {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		written, err := deployments.Register(ctx, store, network, name, external[name])
		if err != nil {
			return err
		}
		if written {
			log.Info("Registered external contract", "contract", name, "address", external[name], "network", network)
		}
	}
	return nil
}

func addressTables() (*networks.AddressTable, *networks.AddressTable, error) {
	tokens, err := networks.NBNGTokens().With(cfg.NBNGAddresses)
	if err != nil {
		return nil, nil, err
	}
	weth, err := networks.WrappedNativeTokens().With(cfg.WETHAddresses)
	if err != nil {
		return nil, nil, err
	}
	return tokens, weth, nil
}

func setupLogging(verbosity string) error {
	lvl, err := parseLevel(verbosity)
	if err != nil {
		return err
	}
	useColor := isatty.IsTerminal(os.Stderr.Fd())
	log.SetDefault(log.NewLogger(log.NewTerminalHandlerWithLevel(os.Stderr, lvl, useColor)))
	return nil
}

func parseLevel(v string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "trace":
		return log.LevelTrace, nil
	case "debug":
		return log.LevelDebug, nil
	case "", "info":
		return log.LevelInfo, nil
	case "warn", "warning":
		return log.LevelWarn, nil
	case "error":
		return log.LevelError, nil
	case "crit":
		return log.LevelCrit, nil
	default:
		return 0, fmt.Errorf("unknown verbosity %q", v)
	}
}

func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

func printJSON(v any) error {
	blob, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(blob))
	return nil
}

func exitErr(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
