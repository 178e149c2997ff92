package entity

// OracleObservation is a reported consensus price for a named asset from the
// external price-reporting service. The feed carries no timestamp; "latest"
// means last in arrival order.
type OracleObservation struct {
	Name           string `json:"name"`
	ConsensusPrice string `json:"consensusPrice"`
}

// PriceIndex maps an asset symbol to its latest consensus price, kept as a
// decimal string until valuation time so that a malformed price surfaces as a
// per-group diagnostic rather than silently vanishing at index build.
type PriceIndex map[string]string

// Lookup returns the price string for a symbol, if present.
func (p PriceIndex) Lookup(symbol string) (string, bool) {
	price, ok := p[symbol]
	return price, ok
}
