// Package weth9mock is the wrapped native token stand-in published on the
// local development chain, where no canonical WETH exists.
package weth9mock

const (
	name     = "WETH9Mock"
	GasLimit = 1_000_000
)

func Name() string   { return name }
func Tags() []string { return []string{name, "Mocks"} }
