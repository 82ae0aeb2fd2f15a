package publish

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// ArachnidCreate2Factory is the keyless deterministic deployment proxy present
// on most EVM chains (and preinstalled on hardhat).
var ArachnidCreate2Factory = common.HexToAddress("0x4e59b44847b379578588920cA78FbF26c0B4956C")

// GenerateSalt derives a per-deployer CREATE2 salt for a contract name.
func GenerateSalt(deployer common.Address, name string) common.Hash {
	return crypto.Keccak256Hash(deployer.Bytes(), []byte(name))
}

func PredictCreate2Address(factory common.Address, salt common.Hash, initCode []byte) common.Address {
	return crypto.CreateAddress2(factory, salt, crypto.Keccak256(initCode))
}

// create2Calldata is the factory's expected input: salt followed by init code.
func create2Calldata(salt common.Hash, initCode []byte) []byte {
	out := make([]byte, 0, common.HashLength+len(initCode))
	out = append(out, salt.Bytes()...)
	return append(out, initCode...)
}
