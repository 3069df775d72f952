package game

import "sort"

// Standing is one leaderboard row.
type Standing struct {
	PlayerID    string `json:"playerId"`
	DisplayName string `json:"displayName"`
	Score       int    `json:"score"`
}

// Leaderboard projects players into sorted standings: kicked players are
// dropped, order is score descending with display name ascending as the
// tie-break. Scores are the running totals maintained by round close and
// gambit scoring; nothing is recomputed here.
func Leaderboard(players []Player) []Standing {
	standings := make([]Standing, 0, len(players))
	for _, p := range players {
		if p.Status != PlayerActive {
			continue
		}
		standings = append(standings, Standing{
			PlayerID:    p.ID,
			DisplayName: p.DisplayName,
			Score:       p.Score,
		})
	}
	sort.Slice(standings, func(i, j int) bool {
		if standings[i].Score != standings[j].Score {
			return standings[i].Score > standings[j].Score
		}
		return standings[i].DisplayName < standings[j].DisplayName
	})
	return standings
}
