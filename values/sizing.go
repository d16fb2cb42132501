package values

import "golang.org/x/exp/constraints"

// GrowTo computes the smallest capacity >= target reachable from current by
// repeated multiplication by factor, per spec.md §4.6's geometric stack
// growth requirement. Generic over any integer type so the VM's value
// stack and the heap pool's free-list bucket sizing share one growth-curve
// implementation instead of each hand-rolling the same loop.
func GrowTo[T constraints.Integer](current, target T, factor float64) T {
	if current >= target {
		return current
	}
	next := current
	for next < target {
		grown := T(float64(next) * factor)
		if grown <= next {
			grown = next + 1
		}
		next = grown
	}
	return next
}
