package game

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	displayNameMin = 3
	displayNameMax = 15
)

func validateDisplayName(name string) []string {
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	if n < displayNameMin || n > displayNameMax {
		return []string{fmt.Sprintf("display name must be %d-%d characters, got %d", displayNameMin, displayNameMax, n)}
	}
	return nil
}

// ValidateConfig checks the six setup parameters together. The bottle
// count must divide evenly into rounds of the configured size.
func ValidateConfig(c Config) []string {
	var violations []string
	if c.MaxPlayers < 1 {
		violations = append(violations, "maxPlayers must be at least 1")
	}
	if c.TotalBottles < 1 {
		violations = append(violations, "totalBottles must be at least 1")
	}
	if c.TotalRounds < 1 {
		violations = append(violations, "totalRounds must be at least 1")
	}
	if c.BottlesPerRound < 1 {
		violations = append(violations, "bottlesPerRound must be at least 1")
	}
	if c.TotalRounds >= 1 && c.BottlesPerRound >= 1 && c.TotalBottles != c.TotalRounds*c.BottlesPerRound {
		violations = append(violations, fmt.Sprintf("totalBottles must equal totalRounds x bottlesPerRound (%d x %d = %d, got %d)",
			c.TotalRounds, c.BottlesPerRound, c.TotalRounds*c.BottlesPerRound, c.TotalBottles))
	}
	if c.BottleEquivalentPerPerson <= 0 {
		violations = append(violations, "bottleEquivalentPerPerson must be positive")
	}
	if c.OuncesPerPersonPerBottle <= 0 {
		violations = append(violations, "ouncesPerPersonPerBottle must be positive")
	}
	return violations
}

// ValidateBottleSet checks label and price rules across the whole set and
// reports every violation: labels non-empty and unique ignoring case,
// prices positive and unique.
func ValidateBottleSet(bottles []Bottle) []string {
	var violations []string
	seenLabels := make(map[string]string, len(bottles))
	seenPrices := make(map[int64]string, len(bottles))

	for i, b := range bottles {
		label := strings.TrimSpace(b.LabelName)
		if label == "" {
			violations = append(violations, fmt.Sprintf("bottle %d has an empty label", i+1))
		} else {
			key := strings.ToLower(label)
			if other, dup := seenLabels[key]; dup {
				violations = append(violations, fmt.Sprintf("duplicate label %q (also used by %q)", label, other))
			} else {
				seenLabels[key] = label
			}
		}

		switch {
		case b.PriceCents <= 0:
			violations = append(violations, fmt.Sprintf("bottle %q must have a positive price", label))
		default:
			if other, dup := seenPrices[b.PriceCents]; dup {
				violations = append(violations, fmt.Sprintf("bottles %q and %q share the same price", other, label))
			} else {
				seenPrices[b.PriceCents] = label
			}
		}
	}
	return violations
}

// ValidateRoundAssignment checks that bottles partition cleanly into
// rounds: every bottle assigned, every round index in range, every round
// holding exactly bottlesPerRound bottles. Reports every violation with
// the bottle label or round number implicated.
func ValidateRoundAssignment(bottles []Bottle, totalRounds, bottlesPerRound int) []string {
	var violations []string
	perRound := make(map[int]int, totalRounds)

	for _, b := range bottles {
		if b.RoundIndex == nil {
			violations = append(violations, fmt.Sprintf("bottle %q is not assigned to a round", b.LabelName))
			continue
		}
		idx := *b.RoundIndex
		if idx < 0 || idx >= totalRounds {
			violations = append(violations, fmt.Sprintf("bottle %q is assigned to round %d, valid rounds are 1-%d", b.LabelName, idx+1, totalRounds))
			continue
		}
		perRound[idx]++
	}

	for r := 0; r < totalRounds; r++ {
		if n := perRound[r]; n != bottlesPerRound {
			violations = append(violations, fmt.Sprintf("round %d has %d bottles, needs exactly %d", r+1, n, bottlesPerRound))
		}
	}
	return violations
}
