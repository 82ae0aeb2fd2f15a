// Package uniswapv2 names the exchange contracts the NBNG contracts build on.
// They are published by the exchange's own deploy steps; only their records
// are read here.
package uniswapv2

const (
	FactoryName  = "UniswapV2Factory"
	Router02Name = "UniswapV2Router02"
)

// Dependencies is the step dependency list shared by every NBNG contract.
func Dependencies() []string {
	return []string{FactoryName, Router02Name}
}
