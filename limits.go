package gridpager

const (
	// MaxLimit is the largest page size a grid may request by default.
	MaxLimit = 100
	// DefaultLimit is used when the grid sends no positive limit.
	DefaultLimit = 10
)

// IsNormalizedLimitMax clamps limit to (0, maxLimit]. Non-positive limits
// become DefaultLimit, itself capped by maxLimit. The flag reports whether
// limit was already within range.
func IsNormalizedLimitMax(limit int, maxLimit int) (int, bool) {
	if limit <= 0 {
		return min(DefaultLimit, maxLimit), false
	} else if limit > maxLimit {
		return maxLimit, false
	}

	return limit, true
}

func NormalizeLimitMax(limit int, maxLimit int) int {
	ret, _ := IsNormalizedLimitMax(limit, maxLimit)
	return ret
}

func NormalizeLimit(limit int) int {
	return NormalizeLimitMax(limit, MaxLimit)
}
