package networks

// Canonical wrapped native token contracts, as published by the SushiSwap SDK.
var wrappedNativeByNetwork = map[string]string{
	Mainnet: "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2",
	Ropsten: "0xc778417E063141139Fce010982780140Aa0cD5Ab",
	Rinkeby: "0xc778417E063141139Fce010982780140Aa0cD5Ab",
	Goerli:  "0xB4FBF271143F4FBf7B91A5ded31805e42b2208d6",
	Kovan:   "0xd0A1E359811322d97991E03f863a0C30C2cF029C",
	"56":    "0xbb4CdB9CBd36B01bD1cBaEBF2De08d9173bc095c", // BSC (WBNB)
	"100":   "0xe91D153E0b41518A2Ce8Dd3D7944Fa863463a97d", // xDai (WXDAI)
	"137":   "0x0d500B1d8E8eF31E21C99d1Db9A6444d3ADf1270", // Polygon (WMATIC)
	"250":   "0x21be370D5312f44cB42ce377BC9b8a0cEF1A4C83", // Fantom (WFTM)
	"42161": "0x82aF49447D8a07e3bd95BD0d56f35241523fBab1", // Arbitrum
	"43114": "0xB31f66AA3C1e785363F0875A1B74E27b85FD66c7", // Avalanche (WAVAX)
}

// WrappedNativeTokens returns the wrapped native token table for production
// networks. The local network is intentionally absent; it uses a mock.
func WrappedNativeTokens() *AddressTable {
	return mustAddressTable("WETH", wrappedNativeByNetwork)
}
