package values_test

import (
	"testing"

	"github.com/redchew/horse64/values"
	"github.com/stretchr/testify/require"
)

func TestGrowToReturnsCurrentWhenAlreadySufficient(t *testing.T) {
	require.Equal(t, 10, values.GrowTo(10, 5, 1.5))
	require.Equal(t, 10, values.GrowTo(10, 10, 1.5))
}

func TestGrowToAdvancesGeometricallyUntilAtLeastTarget(t *testing.T) {
	got := values.GrowTo(4, 100, 1.5)
	require.GreaterOrEqual(t, got, 100)
}

func TestGrowToNeverStallsFromZero(t *testing.T) {
	got := values.GrowTo(0, 1, 2.0)
	require.Equal(t, 1, got)
}
