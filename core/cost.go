package core

import (
	"math"
	"time"
)

const (
	// CheapRate is the delay factor for units covered by the pool
	CheapRate = 4

	// ExpensiveRate is the delay factor for units the pool cannot cover
	ExpensiveRate = 8

	// CoverageRatio is how many request units one pool unit covers
	// under the tiered model
	CoverageRatio = 2
)

// MaxUnits is the largest request a cost function can price without
// overflowing. Evaluate clamps larger requests to it.
const MaxUnits int64 = math.MaxInt64 / ExpensiveRate

// MaxDuration is the delay reported when the scaled delay does not fit
const MaxDuration = time.Duration(math.MaxInt64)

// CostFunc maps a request size and the current pool level to a delay and the
// new pool level. Implementations are pure: the same (units, level) always
// yields the same result. Duration is left zero; see Evaluate.
// Callers must keep 0 <= units <= MaxUnits and level >= 0.
type CostFunc func(units, level int64) DelayResult

// Tiered is the canonical cost model.
//
// A request fully covered by the pool (units < 2*level) is priced at the cheap
// rate and debits half of its units. An empty pool prices every unit at the
// expensive rate. Otherwise the covered part is cheap, the rest is expensive,
// and the pool is drained.
func Tiered(units, level int64) DelayResult {
	switch {
	case units/CoverageRatio < level: // units < 2*level without overflow
		consumed := units / CoverageRatio
		return DelayResult{
			DelayUnits: units * CheapRate,
			Consumed:   consumed,
			NewLevel:   level - consumed,
			Tier:       TierCheap,
		}
	case level == 0:
		return DelayResult{
			DelayUnits: units * ExpensiveRate,
			Consumed:   0,
			NewLevel:   level,
			Tier:       TierEmpty,
		}
	default:
		return DelayResult{
			DelayUnits: level*CheapRate + (units-CoverageRatio*level)*ExpensiveRate,
			Consumed:   level,
			NewLevel:   0,
			Tier:       TierSplit,
		}
	}
}

// Legacy is the earlier cost model: one pool unit covers one request unit
// and covered units are debited in full.
func Legacy(units, level int64) DelayResult {
	switch {
	case units < level:
		return DelayResult{
			DelayUnits: units * CheapRate,
			Consumed:   units,
			NewLevel:   level - units,
			Tier:       TierCheap,
		}
	case level == 0:
		return DelayResult{
			DelayUnits: units * ExpensiveRate,
			Consumed:   0,
			NewLevel:   level,
			Tier:       TierEmpty,
		}
	default:
		return DelayResult{
			DelayUnits: level*CheapRate + (units-level)*ExpensiveRate,
			Consumed:   level,
			NewLevel:   0,
			Tier:       TierSplit,
		}
	}
}

// CostModels lists the cost functions selectable by name
var CostModels = map[string]CostFunc{
	"tiered": Tiered,
	"legacy": Legacy,
}

// Evaluate prices units against level with fn and scales the delay.
// Negative unit counts and scales are treated as zero, units above MaxUnits
// as MaxUnits, and a delay that overflows saturates at MaxDuration.
func Evaluate(fn CostFunc, units, level int64, scale time.Duration) DelayResult {
	units = min(max(units, 0), MaxUnits)
	scale = max(scale, 0)

	result := fn(units, level)
	if scale > 0 && result.DelayUnits > int64(MaxDuration/scale) {
		result.Duration = MaxDuration
	} else {
		result.Duration = time.Duration(result.DelayUnits) * scale
	}
	return result
}
