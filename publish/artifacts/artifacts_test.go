package artifacts_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/require"

	"github.com/volhfx07132/SushiSwap/publish/artifacts"
)

const barArtifact = `{
  "_format": "hh-sol-artifact-1",
  "contractName": "NBNGBar",
  "sourceName": "contracts/NBNGBar.sol",
  "abi": [
    {"inputs": [{"internalType": "contract IERC20", "name": "_nbng", "type": "address"}], "stateMutability": "nonpayable", "type": "constructor"}
  ],
  "bytecode": "0x6080604052",
  "deployedBytecode": "0x6080"
}`

func writeArtifact(t *testing.T, root, source, name, body string) {
	t.Helper()
	dir := filepath.Join(root, "contracts", source)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".json"), []byte(body), 0o644))
}

func TestParse_Hardhat(t *testing.T) {
	a, err := artifacts.Parse("ignored", []byte(barArtifact))
	require.NoError(t, err)
	require.Equal(t, "NBNGBar", a.Name)
	require.Equal(t, hexutil.MustDecode("0x6080604052"), a.Bytecode)
	require.Len(t, a.ABI.Constructor.Inputs, 1)
}

func TestParse_FoundryBytecodeObject(t *testing.T) {
	a, err := artifacts.Parse("WETH9Mock", []byte(`{"abi": [], "bytecode": {"object": "0x60016002"}}`))
	require.NoError(t, err)
	require.Equal(t, "WETH9Mock", a.Name)
	require.Equal(t, []byte{0x60, 0x01, 0x60, 0x02}, a.Bytecode)
}

func TestParse_Rejects(t *testing.T) {
	for name, body := range map[string]string{
		"empty bytecode": `{"abi": [], "bytecode": "0x"}`,
		"no abi":         `{"bytecode": "0x6080"}`,
		"unlinked":       `{"abi": [], "bytecode": "0x6080__$abcdef$__"}`,
		"not json":       `nope`,
	} {
		_, err := artifacts.Parse(name, []byte(body))
		require.Error(t, err, name)
	}
}

func TestArtifact_DeployData(t *testing.T) {
	a, err := artifacts.Parse("NBNGBar", []byte(barArtifact))
	require.NoError(t, err)

	nbng := common.HexToAddress("0x9275e8386a5bdda160c0e621e9a6067b8fd88ea2")
	args, err := a.ConstructorArgs(nbng)
	require.NoError(t, err)
	require.Equal(t, common.LeftPadBytes(nbng.Bytes(), 32), args)

	data, err := a.DeployData(nbng)
	require.NoError(t, err)
	require.Equal(t, append(hexutil.MustDecode("0x6080604052"), args...), data)

	_, err = a.ConstructorArgs(nbng, nbng)
	require.Error(t, err)
}

func TestDir_Load(t *testing.T) {
	root := t.TempDir()
	writeArtifact(t, root, "NBNGBar.sol", "NBNGBar.dbg", `{"buildInfo": "x"}`)
	writeArtifact(t, root, "NBNGBar.sol", "NBNGBar", barArtifact)

	dir := artifacts.NewDir(root)
	a, err := dir.Load("NBNGBar")
	require.NoError(t, err)
	require.Equal(t, "NBNGBar", a.Name)

	// cached: removing the file does not break a second load
	require.NoError(t, os.RemoveAll(filepath.Join(root, "contracts")))
	again, err := dir.Load("NBNGBar")
	require.NoError(t, err)
	require.Same(t, a, again)

	_, err = dir.Load("NBNGMaker")
	require.ErrorIs(t, err, artifacts.ErrNotFound)
}

func TestStatic_Load(t *testing.T) {
	_, err := artifacts.Static{}.Load("NBNGBar")
	require.ErrorIs(t, err, artifacts.ErrNotFound)
}
