package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bottle(id, label string, price int64) Bottle {
	return Bottle{ID: id, LabelName: label, PriceCents: price}
}

func assigned(b Bottle, round int) Bottle {
	b.RoundIndex = &round
	return b
}

func TestValidateBottleSetClean(t *testing.T) {
	bottles := []Bottle{
		bottle("b1", "Mystery Red", 1500),
		bottle("b2", "Mystery White", 2500),
		bottle("b3", "Bottle C", 999),
	}
	assert.Empty(t, ValidateBottleSet(bottles))
}

func TestValidateBottleSetViolations(t *testing.T) {
	tests := []struct {
		name    string
		bottles []Bottle
		want    int
	}{
		{
			name: "duplicate price",
			bottles: []Bottle{
				bottle("b1", "A", 1000),
				bottle("b2", "B", 1000),
			},
			want: 1,
		},
		{
			name: "duplicate label ignoring case",
			bottles: []Bottle{
				bottle("b1", "Pinot Noir", 1000),
				bottle("b2", "pinot noir", 2000),
			},
			want: 1,
		},
		{
			name: "empty label",
			bottles: []Bottle{
				bottle("b1", "  ", 1000),
			},
			want: 1,
		},
		{
			name: "zero and negative price",
			bottles: []Bottle{
				bottle("b1", "A", 0),
				bottle("b2", "B", -500),
			},
			want: 2,
		},
		{
			name: "all violations reported together",
			bottles: []Bottle{
				bottle("b1", "A", 1000),
				bottle("b2", "a", 1000),
				bottle("b3", "", -1),
			},
			want: 4, // dup label, dup price, empty label, bad price
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			violations := ValidateBottleSet(tt.bottles)
			assert.Len(t, violations, tt.want, "violations: %v", violations)
		})
	}
}

func TestValidateRoundAssignmentClean(t *testing.T) {
	bottles := []Bottle{
		assigned(bottle("b1", "A", 1), 0),
		assigned(bottle("b2", "B", 2), 0),
		assigned(bottle("b3", "C", 3), 1),
		assigned(bottle("b4", "D", 4), 1),
	}
	assert.Empty(t, ValidateRoundAssignment(bottles, 2, 2))
}

func TestValidateRoundAssignmentViolations(t *testing.T) {
	t.Run("unassigned bottle", func(t *testing.T) {
		bottles := []Bottle{
			assigned(bottle("b1", "A", 1), 0),
			bottle("b2", "B", 2),
		}
		violations := ValidateRoundAssignment(bottles, 1, 2)
		require.NotEmpty(t, violations)
		assert.Contains(t, violations[0], `"B"`)
	})

	t.Run("round index out of range", func(t *testing.T) {
		bottles := []Bottle{
			assigned(bottle("b1", "A", 1), 3),
		}
		violations := ValidateRoundAssignment(bottles, 2, 1)
		require.NotEmpty(t, violations)
	})

	t.Run("unbalanced rounds", func(t *testing.T) {
		bottles := []Bottle{
			assigned(bottle("b1", "A", 1), 0),
			assigned(bottle("b2", "B", 2), 0),
			assigned(bottle("b3", "C", 3), 0),
			assigned(bottle("b4", "D", 4), 1),
		}
		violations := ValidateRoundAssignment(bottles, 2, 2)
		// Round 1 is over capacity and round 2 is under.
		assert.Len(t, violations, 2)
	})
}

func TestValidateConfig(t *testing.T) {
	good := Config{
		MaxPlayers:                8,
		TotalBottles:              8,
		TotalRounds:               2,
		BottlesPerRound:           4,
		BottleEquivalentPerPerson: 0.5,
		OuncesPerPersonPerBottle:  2,
	}
	assert.Empty(t, ValidateConfig(good))

	bad := good
	bad.TotalBottles = 7
	violations := ValidateConfig(bad)
	require.Len(t, violations, 1)
	assert.Contains(t, violations[0], "totalBottles")

	assert.NotEmpty(t, ValidateConfig(Config{}))
}
