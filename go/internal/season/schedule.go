package season

import "github.com/google/uuid"

// GamePairing is one scheduled regular-season game.
type GamePairing struct {
	HomeTeamID uuid.UUID
	AwayTeamID uuid.UUID
}

// DayMatchups returns the slate for a schedule day using the circle
// method: team 0 stays fixed while the rest rotate one slot per day, so
// every team plays every day and meets every opponent across a cycle of
// len(teams)-1 days. Home court alternates with the day parity. The
// pairings are a pure function of (teams, day), so a re-simulated day
// produces the same slate.
func DayMatchups(teamIDs []uuid.UUID, day int) []GamePairing {
	n := len(teamIDs)
	if n < 2 {
		return nil
	}
	if n%2 != 0 {
		// Odd league sizes would need a bye slot; the league is even.
		teamIDs = teamIDs[:n-1]
		n--
	}

	rot := day % (n - 1)
	ring := make([]uuid.UUID, n-1)
	for i := 0; i < n-1; i++ {
		ring[i] = teamIDs[1+(i+rot)%(n-1)]
	}

	out := make([]GamePairing, 0, n/2)
	first := GamePairing{HomeTeamID: teamIDs[0], AwayTeamID: ring[n-2]}
	if day%2 == 1 {
		first = GamePairing{HomeTeamID: ring[n-2], AwayTeamID: teamIDs[0]}
	}
	out = append(out, first)

	for i := 0; i < (n-2)/2; i++ {
		a, b := ring[i], ring[n-3-i]
		if (day+i)%2 == 1 {
			a, b = b, a
		}
		out = append(out, GamePairing{HomeTeamID: a, AwayTeamID: b})
	}
	return out
}
