package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRateForVerified(t *testing.T) {
	tests := []struct {
		name     string
		verified int
		want     int
	}{
		{"zero friends", 0, 90},
		{"below first bracket", 20, 90},
		{"first bracket lower edge", 21, 100},
		{"first bracket upper edge", 30, 100},
		{"second bracket lower edge", 31, 110},
		{"second bracket upper edge", 50, 110},
		{"third bracket lower edge", 51, 130},
		{"third bracket upper edge", 99, 130},
		{"top bracket edge", 100, 150},
		{"far above top bracket", 500, 150},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RateForVerified(tt.verified))
		})
	}
}

func TestLevelForTotal(t *testing.T) {
	tests := []struct {
		name  string
		total int
		want  int
	}{
		{"zero friends", 0, 1},
		{"just below level 2", 9, 1},
		{"level 2 edge", 10, 2},
		{"just below level 3", 29, 2},
		{"level 3 edge", 30, 3},
		{"just below level 4", 49, 3},
		{"level 4 edge", 50, 4},
		{"just below level 5", 99, 4},
		{"level 5 edge", 100, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LevelForTotal(tt.total))
		})
	}
}

func TestCheckEligibility(t *testing.T) {
	t.Run("both conditions met", func(t *testing.T) {
		e := CheckEligibility(1550, 10)

		assert.True(t, e.Eligible)
		assert.True(t, e.BalanceEligible)
		assert.True(t, e.FriendsEligible)
		assert.Zero(t, e.BalanceShortfall)
		assert.Zero(t, e.FriendsShortfall)
	})

	t.Run("balance one short", func(t *testing.T) {
		e := CheckEligibility(1549, 10)

		assert.False(t, e.Eligible)
		assert.False(t, e.BalanceEligible)
		assert.True(t, e.FriendsEligible)
		assert.Equal(t, 1, e.BalanceShortfall)
		assert.Zero(t, e.FriendsShortfall)
	})

	t.Run("friends short", func(t *testing.T) {
		e := CheckEligibility(2000, 7)

		assert.False(t, e.Eligible)
		assert.True(t, e.BalanceEligible)
		assert.False(t, e.FriendsEligible)
		assert.Equal(t, 3, e.FriendsShortfall)
	})

	t.Run("both conditions unmet report independently", func(t *testing.T) {
		e := CheckEligibility(0, 0)

		assert.False(t, e.Eligible)
		assert.Equal(t, 1550, e.BalanceShortfall)
		assert.Equal(t, 10, e.FriendsShortfall)
		assert.Equal(t, 1550, e.MinBalance)
		assert.Equal(t, 10, e.MinVerified)
	})
}
