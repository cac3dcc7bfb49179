package game

import "slices"

// selectNextDrawer picks the next drawer with a circular scan over turnOrder
// starting at the persistent cursor, so every player draws once per cycle
// even when players join or leave between turns.
// It returns the drawer id, the 1-based turn number within the cycle and the
// number of turns in the cycle. The drawer id is empty when the room has no
// players.
func (r *Room) selectNextDrawer() (string, int, int) {
	order := slices.DeleteFunc(slices.Clone(r.turnOrder), func(id string) bool {
		_, present := r.players[id]
		return !present
	})
	if len(order) == 0 && len(r.players) > 0 {
		order = slices.Clone(r.roster)
		r.drawerIndex = 0
	}
	r.turnOrder = order
	if len(order) == 0 {
		return "", 0, 0
	}

	for id := range r.drawnThisCycle {
		if !slices.Contains(order, id) {
			delete(r.drawnThisCycle, id)
		}
	}

	if r.cycleComplete() {
		clear(r.drawnThisCycle)
		r.roundNumber++
	}

	n := len(order)
	if r.drawerIndex < 0 || r.drawerIndex >= n {
		r.drawerIndex = 0
	}

	drawer := ""
	for step := 0; step < n; step++ {
		i := (r.drawerIndex + step) % n
		if _, drawn := r.drawnThisCycle[order[i]]; !drawn {
			drawer = order[i]
			r.drawerIndex = (i + 1) % n
			break
		}
	}

	if drawer == "" {
		clear(r.drawnThisCycle)
		r.roundNumber++
		r.drawerIndex = 0
		drawer = order[0]
	}

	r.drawnThisCycle[drawer] = struct{}{}
	return drawer, len(r.drawnThisCycle), n
}
