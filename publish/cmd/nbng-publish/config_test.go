package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/volhfx07132/SushiSwap/publish/deployments"
	"github.com/volhfx07132/SushiSwap/publish/networks"
)

// hardhat account #0
const testKey = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

func TestLoadConfig_Defaults(t *testing.T) {
	c, err := loadConfig("")
	require.NoError(t, err)
	require.Equal(t, defaultConfig().GasFeeCap, c.GasFeeCap)
	require.Equal(t, "file", c.RecordStore)
	require.Empty(t, c.DeploymentsPath)
	require.Error(t, c.validateForDeploy())
}

func TestLoadConfig_SQLiteDefaultPath(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("RECORD_STORE", "sqlite")

	c, err := loadConfig("")
	require.NoError(t, err)

	store, err := deployments.Open(c.RecordStore, c.DeploymentsPath)
	require.NoError(t, err)
	defer store.Close()
	require.Equal(t, "deployments.db", filepath.Base(store.Location()))
}

func TestRegisterExternal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nbng.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
external_addresses:
  "1":
    UniswapV2Factory: "0xC0AEe478e3658e2610c5F7A4A2E1777cE9e4f2Ac"
    UniswapV2Router02: "0xd9e1cE17f2641f24aE83637ab66a2cca9C378B9F"
  "4":
    UniswapV2Factory: "not-an-address"
`), 0o600))

	c, err := loadConfig(path)
	require.NoError(t, err)
	cfg = c

	ctx := context.Background()
	store, err := deployments.NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, registerExternal(ctx, store, "1"))
	rec, err := store.Get(ctx, "1", "UniswapV2Factory")
	require.NoError(t, err)
	require.Equal(t, common.HexToAddress("0xC0AEe478e3658e2610c5F7A4A2E1777cE9e4f2Ac"), rec.Address)
	_, err = store.Get(ctx, "1", "UniswapV2Router02")
	require.NoError(t, err)

	require.NoError(t, registerExternal(ctx, store, "31337"))
	require.ErrorContains(t, registerExternal(ctx, store, "4"), "external_addresses.4.UniswapV2Factory")
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nbng.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
rpc_url: http://127.0.0.1:8545
chain_id: 31337
record_store: sqlite
deployments_path: deployments.db
nbng_addresses:
  "31337": "0x00000000000000000000000000000000000000aa"
`), 0o600))

	t.Setenv("RPC_URL", "http://10.0.0.1:8545")
	t.Setenv("GAS_TIP_CAP", "7")
	t.Setenv("GAS_FEE_CAP", "not-a-number")

	c, err := loadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "http://10.0.0.1:8545", c.RPCURL)
	require.Equal(t, uint64(31337), c.ChainID)
	require.Equal(t, "sqlite", c.RecordStore)
	require.Equal(t, int64(7), c.GasTipCap)
	require.Equal(t, defaultConfig().GasFeeCap, c.GasFeeCap)

	cfg = c
	tokens, _, err := addressTables()
	require.NoError(t, err)
	require.True(t, tokens.Has(networks.Hardhat))
	require.True(t, tokens.Has(networks.Mainnet))
}

func TestLoadConfig_BadFile(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rpc_url: [unterminated"), 0o600))
	_, err = loadConfig(path)
	require.Error(t, err)
}

func TestConfig_Accounts(t *testing.T) {
	key, err := crypto.HexToECDSA(testKey[2:])
	require.NoError(t, err)
	deployer := crypto.PubkeyToAddress(key.PublicKey)

	c := config{PrivateKey: testKey}
	_, dev, err := c.accounts()
	require.NoError(t, err)
	require.Equal(t, deployer, dev)

	c.Dev = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
	_, dev, err = c.accounts()
	require.NoError(t, err)
	require.Equal(t, common.HexToAddress(c.Dev), dev)

	c.PublicAddress = deployer.Hex()
	_, _, err = c.accounts()
	require.NoError(t, err)

	c.PublicAddress = c.Dev
	_, _, err = c.accounts()
	require.ErrorContains(t, err, "does not match")

	c = config{PrivateKey: "zz"}
	_, _, err = c.accounts()
	require.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	for _, v := range []string{"trace", "DEBUG", "info", "", "warn", "error", "crit"} {
		_, err := parseLevel(v)
		require.NoError(t, err, v)
	}
	_, err := parseLevel("loud")
	require.Error(t, err)
}

func TestSplitCSV(t *testing.T) {
	require.Nil(t, splitCSV("  "))
	require.Equal(t, []string{"NBNGBar", "NBNGMaker"}, splitCSV(" NBNGBar, ,NBNGMaker "))
}

// chdir changes the working directory to dir for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
