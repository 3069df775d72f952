package game_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cellarparty/winegambit/internal/game"
	"github.com/cellarparty/winegambit/internal/store"
)

var testConfig = game.Config{
	MaxPlayers:                4,
	TotalBottles:              4,
	TotalRounds:               2,
	BottlesPerRound:           2,
	BottleEquivalentPerPerson: 0.5,
	OuncesPerPersonPerBottle:  2,
}

var testBottles = []game.BottleInput{
	{LabelName: "Chateau Alpha", FunName: "The Big Red", PriceCents: 1000},
	{LabelName: "Domaine Beta", FunName: "Friday Juice", PriceCents: 5000},
	{LabelName: "Cuvee Gamma", FunName: "Gas Station Special", PriceCents: 500},
	{LabelName: "Clos Delta", FunName: "Fancy Pants", PriceCents: 3000},
}

// fixture drives a game through its phases so each test starts where it
// needs to.
type fixture struct {
	t       *testing.T
	svc     *game.Service
	game    *game.Game
	host    *game.Player
	players []*game.Player
	bottles []game.Bottle
	rounds  []game.Round
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	svc := game.NewService(store.NewMemory())
	res, err := svc.CreateGame(context.Background(), "Hosting Harper")
	require.NoError(t, err)
	return &fixture{t: t, svc: svc, game: res.Game, host: res.HostPlayer}
}

func (f *fixture) configure() *fixture {
	f.t.Helper()
	g, err := f.svc.SetConfiguration(context.Background(), f.game.ID, f.game.HostToken, testConfig)
	require.NoError(f.t, err)
	f.game = g
	bottles, err := f.svc.AddBottles(context.Background(), f.game.ID, f.game.HostToken, testBottles)
	require.NoError(f.t, err)
	f.bottles = bottles
	return f
}

func (f *fixture) join(names ...string) *fixture {
	f.t.Helper()
	for _, name := range names {
		p, err := f.svc.JoinGame(context.Background(), f.game.ID, name)
		require.NoError(f.t, err)
		f.players = append(f.players, p)
	}
	return f
}

func (f *fixture) start() *fixture {
	f.t.Helper()
	rounds, err := f.svc.StartGame(context.Background(), f.game.ID, f.game.HostToken)
	require.NoError(f.t, err)
	f.rounds = rounds
	return f
}

func (f *fixture) begin() *fixture {
	f.t.Helper()
	g, err := f.svc.BeginRound(context.Background(), f.game.ID, f.game.HostToken)
	require.NoError(f.t, err)
	f.game = g
	return f
}

// submitAll locks a valid final submission for every joined player in
// the given round, ranking bottles in the round's stored order.
func (f *fixture) submitAll(roundIndex int) {
	f.t.Helper()
	round := f.rounds[roundIndex]
	notes := make(map[string]string, len(round.BottleIDs))
	for _, id := range round.BottleIDs {
		notes[id] = "plummy with a long oaky finish"
	}
	for _, p := range f.players {
		_, err := f.svc.SubmitTasting(context.Background(), f.game.ID, roundIndex, p.ID, notes, round.BottleIDs)
		require.NoError(f.t, err)
	}
}

func (f *fixture) closeAndAdvance(roundIndex int) {
	f.t.Helper()
	_, err := f.svc.CloseRound(context.Background(), f.game.ID, f.game.HostToken, roundIndex)
	require.NoError(f.t, err)
	g, err := f.svc.AdvanceRound(context.Background(), f.game.ID, f.game.HostToken)
	require.NoError(f.t, err)
	f.game = g
}

// toGambit plays both rounds with locked submissions from every player.
func (f *fixture) toGambit() *fixture {
	f.t.Helper()
	f.configure().start().begin()
	f.submitAll(0)
	f.closeAndAdvance(0)
	f.submitAll(1)
	f.closeAndAdvance(1)
	require.Equal(f.t, game.StatusGambit, f.game.Status)
	return f
}

func (f *fixture) bottleByLabel(label string) game.Bottle {
	f.t.Helper()
	for _, b := range f.bottles {
		if b.LabelName == label {
			return b
		}
	}
	f.t.Fatalf("no bottle labelled %q", label)
	return game.Bottle{}
}

func TestCreateGame(t *testing.T) {
	f := newFixture(t)

	assert.Len(t, f.game.ID, 6)
	assert.Equal(t, game.StatusSetup, f.game.Status)
	assert.NotEmpty(t, f.game.HostToken)
	assert.True(t, f.host.IsHost)
	assert.Equal(t, "Hosting Harper", f.host.DisplayName)
}

func TestCreateGameRejectsBadName(t *testing.T) {
	svc := game.NewService(store.NewMemory())

	for _, name := range []string{"", "ab", strings.Repeat("x", 16), "   "} {
		_, err := svc.CreateGame(context.Background(), name)
		_, ok := game.AsValidation(err)
		assert.True(t, ok, "name %q should be rejected", name)
	}
}

func TestJoinGame(t *testing.T) {
	f := newFixture(t)

	p, err := f.svc.JoinGame(context.Background(), f.game.ID, "Tasting Tess")
	require.NoError(t, err)
	assert.False(t, p.IsHost)
	assert.Equal(t, game.PlayerActive, p.Status)

	t.Run("duplicate name conflicts", func(t *testing.T) {
		_, err := f.svc.JoinGame(context.Background(), f.game.ID, "tasting tess")
		assert.ErrorIs(t, err, game.ErrConflict)
	})

	t.Run("spectator joins without a record", func(t *testing.T) {
		p, err := f.svc.JoinGame(context.Background(), f.game.ID, "")
		require.NoError(t, err)
		assert.Nil(t, p)
	})

	t.Run("unknown game", func(t *testing.T) {
		_, err := f.svc.JoinGame(context.Background(), "ZZZZZZ", "Somebody")
		assert.ErrorIs(t, err, game.ErrNotFound)
	})
}

func TestJoinGameFull(t *testing.T) {
	f := newFixture(t).configure()
	f.join("Player Two", "Player Three", "Player Four")

	_, err := f.svc.JoinGame(context.Background(), f.game.ID, "One Too Many")
	assert.ErrorIs(t, err, game.ErrConflict)

	// Spectators are exempt from the player cap.
	p, err := f.svc.JoinGame(context.Background(), f.game.ID, "")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestJoinGameAfterStart(t *testing.T) {
	f := newFixture(t).configure().join("Player Two").start().begin()

	_, err := f.svc.JoinGame(context.Background(), f.game.ID, "Latecomer")
	assert.ErrorIs(t, err, game.ErrInvalidState)

	// Spectating stays open in every phase.
	p, err := f.svc.JoinGame(context.Background(), f.game.ID, "")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestSetConfiguration(t *testing.T) {
	f := newFixture(t)

	t.Run("requires host token", func(t *testing.T) {
		_, err := f.svc.SetConfiguration(context.Background(), f.game.ID, "wrong", testConfig)
		assert.ErrorIs(t, err, game.ErrUnauthorized)
	})

	t.Run("rejects mismatched bottle math", func(t *testing.T) {
		bad := testConfig
		bad.TotalBottles = 5
		_, err := f.svc.SetConfiguration(context.Background(), f.game.ID, f.game.HostToken, bad)
		v, ok := game.AsValidation(err)
		require.True(t, ok)
		assert.Len(t, v.Violations, 1)
	})

	t.Run("accepts and stores", func(t *testing.T) {
		g, err := f.svc.SetConfiguration(context.Background(), f.game.ID, f.game.HostToken, testConfig)
		require.NoError(t, err)
		require.NotNil(t, g.Config)
		assert.Equal(t, testConfig, *g.Config)
	})
}

func TestAddBottlesValidatesCombinedSet(t *testing.T) {
	f := newFixture(t).configure()

	_, err := f.svc.AddBottles(context.Background(), f.game.ID, f.game.HostToken, []game.BottleInput{
		{LabelName: "chateau alpha", PriceCents: 5000},
	})
	v, ok := game.AsValidation(err)
	require.True(t, ok)
	// Duplicate label, duplicate price, and over the configured count.
	assert.Len(t, v.Violations, 3)
}

func TestStartGameAutoAssigns(t *testing.T) {
	f := newFixture(t).configure().join("Player Two").start()

	require.Len(t, f.rounds, 2)
	seen := map[string]bool{}
	for i, r := range f.rounds {
		assert.Equal(t, i, r.Index)
		assert.False(t, r.Revealed)
		require.Len(t, r.BottleIDs, 2)
		for _, id := range r.BottleIDs {
			assert.False(t, seen[id], "bottle %s assigned twice", id)
			seen[id] = true
		}
	}
	assert.Len(t, seen, 4)
	assert.Equal(t, game.StatusLobby, mustGame(t, f).Status)
}

func TestStartGameHonorsManualAssignment(t *testing.T) {
	f := newFixture(t).configure()

	assignment := []game.RoundAssignment{
		{BottleID: f.bottles[0].ID, RoundIndex: 0},
		{BottleID: f.bottles[1].ID, RoundIndex: 0},
		{BottleID: f.bottles[2].ID, RoundIndex: 1},
		{BottleID: f.bottles[3].ID, RoundIndex: 1},
	}
	require.NoError(t, f.svc.OrganizeRounds(context.Background(), f.game.ID, f.game.HostToken, assignment))

	f.start()
	assert.ElementsMatch(t, []string{f.bottles[0].ID, f.bottles[1].ID}, f.rounds[0].BottleIDs)
	assert.ElementsMatch(t, []string{f.bottles[2].ID, f.bottles[3].ID}, f.rounds[1].BottleIDs)
}

func TestOrganizeRoundsRejectsPartial(t *testing.T) {
	f := newFixture(t).configure()

	err := f.svc.OrganizeRounds(context.Background(), f.game.ID, f.game.HostToken, []game.RoundAssignment{
		{BottleID: f.bottles[0].ID, RoundIndex: 0},
	})
	v, ok := game.AsValidation(err)
	require.True(t, ok)
	assert.NotEmpty(t, v.Violations)
}

func TestStartGameCollectsViolations(t *testing.T) {
	f := newFixture(t)

	t.Run("without configuration", func(t *testing.T) {
		_, err := f.svc.StartGame(context.Background(), f.game.ID, f.game.HostToken)
		_, ok := game.AsValidation(err)
		assert.True(t, ok)
	})

	t.Run("wrong bottle count", func(t *testing.T) {
		_, err := f.svc.SetConfiguration(context.Background(), f.game.ID, f.game.HostToken, testConfig)
		require.NoError(t, err)
		_, err = f.svc.AddBottles(context.Background(), f.game.ID, f.game.HostToken, testBottles[:2])
		require.NoError(t, err)

		_, err = f.svc.StartGame(context.Background(), f.game.ID, f.game.HostToken)
		v, ok := game.AsValidation(err)
		require.True(t, ok)
		assert.Contains(t, v.Violations[0], "needs 4 bottles")
	})
}

func TestSubmitTasting(t *testing.T) {
	f := newFixture(t).configure().join("Player Two").start().begin()
	player := f.players[0]
	round := f.rounds[0]

	goodNotes := map[string]string{
		round.BottleIDs[0]: "bright cherry, a touch of vanilla",
		round.BottleIDs[1]: "lean and mineral, green apple",
	}

	t.Run("short note rejected wholesale", func(t *testing.T) {
		notes := map[string]string{
			round.BottleIDs[0]: "nice",
			round.BottleIDs[1]: goodNotes[round.BottleIDs[1]],
		}
		_, err := f.svc.SubmitTasting(context.Background(), f.game.ID, 0, player.ID, notes, round.BottleIDs)
		v, ok := game.AsValidation(err)
		require.True(t, ok)
		assert.Len(t, v.Violations, 1)

		// Nothing was stored.
		_, err = f.svc.PlayerSubmission(context.Background(), f.game.ID, player.ID, 0)
		assert.ErrorIs(t, err, game.ErrNotFound)
	})

	t.Run("incomplete ranking rejected", func(t *testing.T) {
		_, err := f.svc.SubmitTasting(context.Background(), f.game.ID, 0, player.ID, goodNotes, round.BottleIDs[:1])
		v, ok := game.AsValidation(err)
		require.True(t, ok)
		assert.NotEmpty(t, v.Violations)
	})

	t.Run("foreign bottle rejected", func(t *testing.T) {
		other := f.rounds[1].BottleIDs[0]
		_, err := f.svc.SubmitTasting(context.Background(), f.game.ID, 0, player.ID, goodNotes,
			[]string{round.BottleIDs[0], other})
		_, ok := game.AsValidation(err)
		assert.True(t, ok)
	})

	t.Run("valid submission locks", func(t *testing.T) {
		sub, err := f.svc.SubmitTasting(context.Background(), f.game.ID, 0, player.ID, goodNotes, round.BottleIDs)
		require.NoError(t, err)
		assert.True(t, sub.Locked)

		_, err = f.svc.SubmitTasting(context.Background(), f.game.ID, 0, player.ID, goodNotes, round.BottleIDs)
		assert.ErrorIs(t, err, game.ErrAlreadySubmitted)

		_, err = f.svc.SaveTastingDraft(context.Background(), f.game.ID, 0, player.ID, goodNotes, nil)
		assert.ErrorIs(t, err, game.ErrAlreadySubmitted)
	})

	t.Run("wrong round is closed", func(t *testing.T) {
		_, err := f.svc.SubmitTasting(context.Background(), f.game.ID, 1, player.ID, goodNotes, round.BottleIDs)
		assert.ErrorIs(t, err, game.ErrInvalidState)
	})
}

func TestSaveTastingDraft(t *testing.T) {
	f := newFixture(t).configure().join("Player Two").start().begin()
	player := f.players[0]
	round := f.rounds[0]

	partial := map[string]string{round.BottleIDs[0]: "jam"}
	sub, err := f.svc.SaveTastingDraft(context.Background(), f.game.ID, 0, player.ID, partial, nil)
	require.NoError(t, err)
	assert.False(t, sub.Locked)

	// Drafts overwrite freely.
	sub, err = f.svc.SaveTastingDraft(context.Background(), f.game.ID, 0, player.ID, partial, round.BottleIDs[:1])
	require.NoError(t, err)
	assert.Equal(t, round.BottleIDs[:1], sub.Ranking)

	// A draft referencing another round's bottle is still rejected.
	_, err = f.svc.SaveTastingDraft(context.Background(), f.game.ID, 0, player.ID,
		map[string]string{f.rounds[1].BottleIDs[0]: "no"}, nil)
	_, ok := game.AsValidation(err)
	assert.True(t, ok)
}

func TestCloseRoundScoring(t *testing.T) {
	f := newFixture(t).configure().join("Player Two", "Player Three").start().begin()
	round := f.rounds[0]

	notes := map[string]string{
		round.BottleIDs[0]: "deep and brooding, black fruit",
		round.BottleIDs[1]: "zippy acidity, citrus pith",
	}
	correct := correctOrderFor(f, round.BottleIDs)
	reversed := []string{correct[1], correct[0]}

	// Player Two ranks correctly, Player Three reversed, host leaves an
	// unlocked draft that must not score.
	_, err := f.svc.SubmitTasting(context.Background(), f.game.ID, 0, f.players[0].ID, notes, correct)
	require.NoError(t, err)
	_, err = f.svc.SubmitTasting(context.Background(), f.game.ID, 0, f.players[1].ID, notes, reversed)
	require.NoError(t, err)
	_, err = f.svc.SaveTastingDraft(context.Background(), f.game.ID, 0, f.host.ID, notes, correct)
	require.NoError(t, err)

	order, err := f.svc.CloseRound(context.Background(), f.game.ID, f.game.HostToken, 0)
	require.NoError(t, err)
	assert.Equal(t, correct, order)

	standings, err := f.svc.GetLeaderboard(context.Background(), f.game.ID)
	require.NoError(t, err)
	scores := scoresByName(standings)
	assert.Equal(t, 2, scores["Player Two"])
	assert.Equal(t, 0, scores["Player Three"])
	assert.Equal(t, 0, scores["Hosting Harper"], "draft must not score")

	t.Run("second close is a no-op", func(t *testing.T) {
		again, err := f.svc.CloseRound(context.Background(), f.game.ID, f.game.HostToken, 0)
		require.NoError(t, err)
		assert.Equal(t, order, again)

		standings, err := f.svc.GetLeaderboard(context.Background(), f.game.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, scoresByName(standings)["Player Two"], "no double scoring")
	})

	t.Run("closing a future round fails", func(t *testing.T) {
		_, err := f.svc.CloseRound(context.Background(), f.game.ID, f.game.HostToken, 1)
		assert.ErrorIs(t, err, game.ErrInvalidState)
	})
}

func TestAdvanceRound(t *testing.T) {
	f := newFixture(t).configure().join("Player Two").start().begin()

	_, err := f.svc.AdvanceRound(context.Background(), f.game.ID, f.game.HostToken)
	assert.ErrorIs(t, err, game.ErrInvalidState, "cannot advance mid-round")

	f.submitAll(0)
	f.closeAndAdvance(0)
	assert.Equal(t, game.StatusInRound, f.game.Status)
	assert.Equal(t, 2, f.game.CurrentRound)

	f.submitAll(1)
	f.closeAndAdvance(1)
	assert.Equal(t, game.StatusGambit, f.game.Status)
}

func TestGambit(t *testing.T) {
	f := newFixture(t).join("Player Two").toGambit()
	player := f.players[0]

	most := f.bottleByLabel("Domaine Beta")   // 5000
	least := f.bottleByLabel("Cuvee Gamma")   // 500
	middle := f.bottleByLabel("Clos Delta")   // 3000
	favorite := f.bottleByLabel("Chateau Alpha")

	t.Run("same bottle for both extremes", func(t *testing.T) {
		_, err := f.svc.SubmitGambit(context.Background(), f.game.ID, player.ID, most.ID, most.ID, favorite.ID)
		v, ok := game.AsValidation(err)
		require.True(t, ok)
		assert.Contains(t, v.Violations[0], "must be different")
	})

	t.Run("unknown bottle", func(t *testing.T) {
		_, err := f.svc.SubmitGambit(context.Background(), f.game.ID, player.ID, "nope", least.ID, favorite.ID)
		_, ok := game.AsValidation(err)
		assert.True(t, ok)
	})

	t.Run("upsert until finish", func(t *testing.T) {
		_, err := f.svc.SubmitGambit(context.Background(), f.game.ID, player.ID, middle.ID, least.ID, favorite.ID)
		require.NoError(t, err)

		// Changed their mind; the replacement wins.
		sub, err := f.svc.SubmitGambit(context.Background(), f.game.ID, player.ID, most.ID, least.ID, favorite.ID)
		require.NoError(t, err)
		assert.Equal(t, most.ID, sub.MostExpensiveID)
	})

	t.Run("finish scores the gambit once", func(t *testing.T) {
		before := scoresByName(mustStandings(t, f))["Player Two"]

		g, err := f.svc.FinishGame(context.Background(), f.game.ID, f.game.HostToken)
		require.NoError(t, err)
		assert.Equal(t, game.StatusFinal, g.Status)

		after := scoresByName(mustStandings(t, f))["Player Two"]
		assert.Equal(t, before+4, after, "both extremes correct pays 4")

		_, err = f.svc.FinishGame(context.Background(), f.game.ID, f.game.HostToken)
		assert.ErrorIs(t, err, game.ErrInvalidState)

		_, err = f.svc.SubmitGambit(context.Background(), f.game.ID, player.ID, most.ID, least.ID, favorite.ID)
		assert.ErrorIs(t, err, game.ErrInvalidState)
	})
}

func TestFinishGameEarly(t *testing.T) {
	f := newFixture(t).configure().join("Player Two").start().begin()

	// Host pulls the plug mid-first-round. No gambit was ever open, so
	// nobody gains points.
	g, err := f.svc.FinishGame(context.Background(), f.game.ID, f.game.HostToken)
	require.NoError(t, err)
	assert.Equal(t, game.StatusFinal, g.Status)

	for _, s := range mustStandings(t, f) {
		assert.Zero(t, s.Score)
	}
}

func TestFinishGameFromLobby(t *testing.T) {
	f := newFixture(t).configure().start()

	_, err := f.svc.FinishGame(context.Background(), f.game.ID, f.game.HostToken)
	assert.ErrorIs(t, err, game.ErrInvalidState)
}

func TestKickPlayer(t *testing.T) {
	f := newFixture(t).configure().join("Player Two").start().begin()
	player := f.players[0]

	require.NoError(t, f.svc.KickPlayer(context.Background(), f.game.ID, f.game.HostToken, player.ID))

	round := f.rounds[0]
	notes := map[string]string{
		round.BottleIDs[0]: "tastes like regret and oak",
		round.BottleIDs[1]: "somehow both flat and sharp",
	}
	_, err := f.svc.SubmitTasting(context.Background(), f.game.ID, 0, player.ID, notes, round.BottleIDs)
	assert.ErrorIs(t, err, game.ErrUnauthorized)

	standings := mustStandings(t, f)
	for _, s := range standings {
		assert.NotEqual(t, "Player Two", s.DisplayName)
	}

	t.Run("host is unkickable", func(t *testing.T) {
		err := f.svc.KickPlayer(context.Background(), f.game.ID, f.game.HostToken, f.host.ID)
		assert.ErrorIs(t, err, game.ErrConflict)
	})

	t.Run("requires host token", func(t *testing.T) {
		err := f.svc.KickPlayer(context.Background(), f.game.ID, "wrong", player.ID)
		assert.ErrorIs(t, err, game.ErrUnauthorized)
	})
}

func TestDeleteGame(t *testing.T) {
	f := newFixture(t).configure()

	err := f.svc.DeleteGame(context.Background(), f.game.ID, "wrong")
	assert.ErrorIs(t, err, game.ErrUnauthorized)

	require.NoError(t, f.svc.DeleteGame(context.Background(), f.game.ID, f.game.HostToken))
	_, err = f.svc.GetSnapshot(context.Background(), f.game.ID)
	assert.ErrorIs(t, err, game.ErrNotFound)
}

func TestGetSnapshot(t *testing.T) {
	f := newFixture(t).configure().join("Player Two").start()

	snap, err := f.svc.GetSnapshot(context.Background(), f.game.ID)
	require.NoError(t, err)
	assert.Equal(t, game.StatusLobby, snap.Game.Status)
	assert.Len(t, snap.Players, 2)
	assert.Len(t, snap.Bottles, 4)
	assert.Len(t, snap.Rounds, 2)
}

func mustGame(t *testing.T, f *fixture) *game.Game {
	t.Helper()
	snap, err := f.svc.GetSnapshot(context.Background(), f.game.ID)
	require.NoError(t, err)
	return snap.Game
}

func mustStandings(t *testing.T, f *fixture) []game.Standing {
	t.Helper()
	standings, err := f.svc.GetLeaderboard(context.Background(), f.game.ID)
	require.NoError(t, err)
	return standings
}

func scoresByName(standings []game.Standing) map[string]int {
	out := make(map[string]int, len(standings))
	for _, s := range standings {
		out[s.DisplayName] = s.Score
	}
	return out
}

// correctOrderFor sorts the given bottle ids most expensive first using
// the fixture's known prices.
func correctOrderFor(f *fixture, ids []string) []string {
	prices := make(map[string]int64, len(f.bottles))
	for _, b := range f.bottles {
		prices[b.ID] = b.PriceCents
	}
	out := append([]string(nil), ids...)
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if prices[out[j]] > prices[out[i]] {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out
}
