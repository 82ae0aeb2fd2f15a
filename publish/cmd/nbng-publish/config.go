package main

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"gopkg.in/yaml.v3"

	"github.com/volhfx07132/SushiSwap/publish/deployments"
)

type config struct {
	RPCURL          string            `yaml:"rpc_url"`
	ChainID         uint64            `yaml:"chain_id"`
	PrivateKey      string            `yaml:"private_key"`
	PublicAddress   string            `yaml:"public_address"`
	Dev             string            `yaml:"dev"`
	GasFeeCap       int64             `yaml:"gas_fee_cap"`
	GasTipCap       int64             `yaml:"gas_tip_cap"`
	TimeoutSeconds  int               `yaml:"timeout_seconds"`
	RecordStore     string            `yaml:"record_store"`
	DeploymentsPath string            `yaml:"deployments_path"`
	ArtifactsDir    string            `yaml:"artifacts_dir"`
	Verbosity       string            `yaml:"verbosity"`
	NBNGAddresses   map[string]string `yaml:"nbng_addresses"`
	WETHAddresses   map[string]string `yaml:"weth_addresses"`

	// ExternalAddresses registers contracts published by other tools,
	// keyed by network id then contract name.
	ExternalAddresses map[string]map[string]string `yaml:"external_addresses"`
}

func defaultConfig() config {
	return config{
		GasFeeCap:      2_000_000_000,
		GasTipCap:      1_000_000_000,
		TimeoutSeconds: 600,
		RecordStore:    deployments.KindFile,
		ArtifactsDir:   "artifacts",
		Verbosity:      "info",
	}
}

// loadConfig layers defaults, the optional YAML file at path and the
// environment, in that order.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.RPCURL = envOr("RPC_URL", cfg.RPCURL)
	cfg.ChainID = uint64(envInt64("CHAIN_ID", int64(cfg.ChainID)))
	cfg.PrivateKey = envOr("PRIVATE_KEY", cfg.PrivateKey)
	cfg.PublicAddress = envOr("PUBLIC_ADDRESS", cfg.PublicAddress)
	cfg.Dev = envOr("DEV", cfg.Dev)
	cfg.GasFeeCap = envInt64("GAS_FEE_CAP", cfg.GasFeeCap)
	cfg.GasTipCap = envInt64("GAS_TIP_CAP", cfg.GasTipCap)
	cfg.TimeoutSeconds = int(envInt64("TIMEOUT_SECONDS", int64(cfg.TimeoutSeconds)))
	cfg.RecordStore = envOr("RECORD_STORE", cfg.RecordStore)
	cfg.DeploymentsPath = envOr("DEPLOYMENTS_PATH", cfg.DeploymentsPath)
	cfg.ArtifactsDir = envOr("ARTIFACTS_DIR", cfg.ArtifactsDir)
	cfg.Verbosity = envOr("LOG_LEVEL", cfg.Verbosity)
	return cfg, nil
}

func (c config) validateForDeploy() error {
	if c.RPCURL == "" || c.PrivateKey == "" {
		return errors.New("rpc-url and private-key are required")
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("timeout-seconds must be positive, got %d", c.TimeoutSeconds)
	}
	return nil
}

// accounts returns the signing key and the dev address, checking the
// optional public address against the key.
func (c config) accounts() (*ecdsa.PrivateKey, common.Address, error) {
	key, deployerAddr, err := parsePrivateKey(c.PrivateKey)
	if err != nil {
		return nil, common.Address{}, err
	}

	if c.PublicAddress != "" {
		pub, err := parseAddress(c.PublicAddress)
		if err != nil {
			return nil, common.Address{}, err
		}
		if pub != deployerAddr {
			return nil, common.Address{}, fmt.Errorf("public-address %s does not match private key address %s", pub.Hex(), deployerAddr.Hex())
		}
	}

	dev := deployerAddr
	if c.Dev != "" {
		dev, err = parseAddress(c.Dev)
		if err != nil {
			return nil, common.Address{}, err
		}
	}
	return key, dev, nil
}

// externalFor returns the externally published contracts configured for
// network.
func (c config) externalFor(network string) (map[string]common.Address, error) {
	entries := c.ExternalAddresses[network]
	out := make(map[string]common.Address, len(entries))
	for name, v := range entries {
		addr, err := parseAddress(v)
		if err != nil {
			return nil, fmt.Errorf("external_addresses.%s.%s: %w", network, name, err)
		}
		out[name] = addr
	}
	return out, nil
}

func parsePrivateKey(v string) (*ecdsa.PrivateKey, common.Address, error) {
	v = strings.TrimPrefix(strings.TrimSpace(v), "0x")
	key, err := crypto.HexToECDSA(v)
	if err != nil {
		return nil, common.Address{}, fmt.Errorf("parse private key: %w", err)
	}
	return key, crypto.PubkeyToAddress(key.PublicKey), nil
}

func parseAddress(v string) (common.Address, error) {
	if !common.IsHexAddress(v) {
		return common.Address{}, fmt.Errorf("invalid address: %s", v)
	}
	return common.HexToAddress(v), nil
}

func splitCSV(v string) []string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func envOr(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func envInt64(key string, fallback int64) int64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}
