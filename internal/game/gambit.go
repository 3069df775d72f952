package game

// Points per correctly predicted extreme. A perfect gambit is worth 4.
const gambitExtremePoints = 2

// GambitExtremes returns the ids of the most and least expensive bottles
// across the whole game. Ties break by id, though validation keeps prices
// unique in practice.
func GambitExtremes(bottles []Bottle) (mostID, leastID string) {
	order := CorrectOrder(bottles)
	if len(order) == 0 {
		return "", ""
	}
	return order[0], order[len(order)-1]
}

// ScoreGambit awards 2 points per correctly predicted extreme. The
// favorite pick is never scored.
func ScoreGambit(sub GambitSubmission, mostID, leastID string) int {
	points := 0
	if sub.MostExpensiveID == mostID {
		points += gambitExtremePoints
	}
	if sub.LeastExpensiveID == leastID {
		points += gambitExtremePoints
	}
	return points
}
