package service

import (
	"asset_dashboard/internal/domain/entity"
)

// aliasStep derives a price for a symbol the oracle feed never reports
// directly. A step with Source copies the source symbol's observed price; a
// step with Peg sets a fixed literal price. Steps apply in slice order,
// exactly once, against the snapshot of direct observations: an alias never
// overwrites a directly observed symbol and alias results never feed later
// steps.
type aliasStep struct {
	Target string
	Source string
	Peg    string
}

// aliasSteps is the fixed extension table applied after the last-write-wins
// reduction. The upstream oracle only reports canonical underlying assets;
// staked and wrapped variants inherit their underlying price, and pegged
// symbols get their conventional fixed price.
var aliasSteps = []aliasStep{
	{Target: "ETHST", Source: "ETH"},
	{Target: "GOLDST", Source: "GOLD"},
	{Target: "SILVERST", Source: "SILVER"},
	{Target: entity.NativePlatformSymbol, Peg: "1"},
	{Target: "USDCST", Peg: "1"},
	{Target: "USDTST", Peg: "1"},
	{Target: "DAIST", Peg: "1"},
	{Target: "WBTCST", Source: "BTC"},
}

// BuildPriceIndex reduces oracle observations to one latest price per symbol
// and extends the result with the alias table. Observations with an empty
// name or price are skipped; for duplicate names the last observation in
// arrival order wins (the feed carries no timestamps).
func BuildPriceIndex(observations []entity.OracleObservation) entity.PriceIndex {
	index := make(entity.PriceIndex, len(observations))
	for _, obs := range observations {
		if obs.Name == "" || obs.ConsensusPrice == "" {
			continue
		}
		index[obs.Name] = obs.ConsensusPrice
	}

	// Snapshot of the directly observed prices; alias application must not
	// cascade through its own results.
	observed := make(map[string]string, len(index))
	for name, price := range index {
		observed[name] = price
	}

	for _, step := range aliasSteps {
		if step.Peg != "" {
			index[step.Target] = step.Peg
			continue
		}
		if _, direct := observed[step.Target]; direct {
			continue
		}
		if price, ok := observed[step.Source]; ok {
			index[step.Target] = price
		}
	}

	return index
}
