package types

import "math/big"

// GasQuote gas 报价
//
// Computed = Base * CoefficientPercent / 100，且不低于 Base。每次调用派生，不持久化。
type GasQuote struct {
	Base               *big.Int `json:"base"`
	CoefficientPercent uint64   `json:"coefficientPercent"`
	Computed           *big.Int `json:"computed"`
}
