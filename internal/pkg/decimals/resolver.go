package decimals

// DefaultDecimals is used when a record reports no decimal count and no
// override applies.
const DefaultDecimals = 0

// MaxDecimals bounds the fractional-digit count a record may report. The
// reported value is upstream-controlled and feeds fixed-point placement;
// anything outside [0, MaxDecimals] is treated as absent.
const MaxDecimals = 255

// overrides pins the fractional-digit count for assets whose indexed metadata
// is known to be wrong or absent. Kept as data so the table is auditable in
// one place rather than scattered through conditionals.
var overrides = map[string]int{
	"CRS":   18, // sidechain native currency
	"ETHST": 18, // staked ETH
	"STRAT": 4,  // native platform token
}

// Resolve returns the fractional-digit count for an asset. An override wins
// over whatever the data source reported; otherwise the reported value is
// used, falling back to DefaultDecimals when absent or out of range.
func Resolve(assetName string, reported *int) int {
	if d, ok := overrides[assetName]; ok {
		return d
	}
	if reported != nil && InRange(*reported) {
		return *reported
	}
	return DefaultDecimals
}

// InRange reports whether a reported decimal count is usable.
func InRange(d int) bool {
	return d >= 0 && d <= MaxDecimals
}
