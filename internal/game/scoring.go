package game

import "sort"

// Score counts positions where the submitted ranking matches the correct
// order exactly. One point per exact position, no credit for near misses.
// Both slices are permutations of the same round's bottle ids; malformed
// rankings are rejected at submission time, never here.
func Score(correctOrder, ranking []string) int {
	points := 0
	for i := range correctOrder {
		if i < len(ranking) && ranking[i] == correctOrder[i] {
			points++
		}
	}
	return points
}

// CorrectOrder returns bottle ids sorted by price descending. Prices are
// unique by validation; the id tie-break only keeps the sort total.
func CorrectOrder(bottles []Bottle) []string {
	sorted := make([]Bottle, len(bottles))
	copy(sorted, bottles)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].PriceCents != sorted[j].PriceCents {
			return sorted[i].PriceCents > sorted[j].PriceCents
		}
		return sorted[i].ID < sorted[j].ID
	})
	ids := make([]string, len(sorted))
	for i, b := range sorted {
		ids[i] = b.ID
	}
	return ids
}
