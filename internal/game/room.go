package game

import (
	"slices"
	"time"
)

type RoomPhase int

const (
	PHASE_LOBBY RoomPhase = iota
	PHASE_CHOOSING_WORD
	PHASE_DRAWING
	PHASE_ROUND_END
	PHASE_GAME_OVER
)

func (p RoomPhase) String() string {
	switch p {
	case PHASE_LOBBY:
		return "lobby"
	case PHASE_CHOOSING_WORD:
		return "choosing_word"
	case PHASE_DRAWING:
		return "drawing"
	case PHASE_ROUND_END:
		return "round_end"
	case PHASE_GAME_OVER:
		return "game_over"
	default:
		return "unknown"
	}
}

// Stroke is one segment of the drawer's freehand line. The engine stores and
// relays it without interpreting the coordinates.
type Stroke struct {
	FromX float64 `json:"fromX"`
	FromY float64 `json:"fromY"`
	ToX   float64 `json:"toX"`
	ToY   float64 `json:"toY"`
	Color string  `json:"color"`
	Size  float64 `json:"size"`
}

type timerKind int

const (
	timerChooseWord timerKind = iota
	timerTurnDeadline
	timerNextTurn
)

func (k timerKind) String() string {
	switch k {
	case timerChooseWord:
		return "choose_word"
	case timerTurnDeadline:
		return "turn_deadline"
	case timerNextTurn:
		return "next_turn"
	default:
		return "unknown"
	}
}

// deadline is the single pending timer a room may own. seq identifies the
// arming; a firing that carries another seq is stale.
type deadline struct {
	timer Timer
	seq   uint64
	kind  timerKind
}

type Room struct {
	code   string
	phase  RoomPhase
	hostID string

	players map[string]*Player
	roster  []string // join order, only present players

	// Rotation
	turnOrder      []string
	drawerIndex    int
	drawnThisCycle map[string]struct{}
	roundNumber    int
	gameStarted    bool

	// Current turn
	drawerID       string
	currentWord    string
	wordOptions    []string
	guessedPlayers map[string]struct{}
	roundEndTime   time.Time
	strokes        []Stroke

	deadline deadline
}

func newRoom(code string, host *Player) *Room {
	r := &Room{
		code:           code,
		phase:          PHASE_LOBBY,
		hostID:         host.id,
		players:        make(map[string]*Player),
		drawnThisCycle: make(map[string]struct{}),
		guessedPlayers: make(map[string]struct{}),
	}
	r.addPlayer(host)
	return r
}

func (r *Room) Code() string      { return r.code }
func (r *Room) HostID() string    { return r.hostID }
func (r *Room) PlayersCount() int { return len(r.players) }

func (r *Room) player(id string) (*Player, bool) {
	p, ok := r.players[id]
	return p, ok
}

func (r *Room) addPlayer(p *Player) {
	r.players[p.id] = p
	r.roster = append(r.roster, p.id)
	r.turnOrder = append(r.turnOrder, p.id)
}

// removePlayer drops the player from every collection of the room and hands
// the host role to the earliest remaining joiner. The drawer fields are left
// to the round lifecycle.
func (r *Room) removePlayer(id string) bool {
	if _, ok := r.players[id]; !ok {
		return false
	}
	delete(r.players, id)
	delete(r.drawnThisCycle, id)
	delete(r.guessedPlayers, id)
	r.roster = slices.DeleteFunc(r.roster, func(pid string) bool { return pid == id })

	if i := slices.Index(r.turnOrder, id); i >= 0 {
		r.turnOrder = slices.Delete(r.turnOrder, i, i+1)
		if i < r.drawerIndex {
			r.drawerIndex--
		}
		if r.drawerIndex >= len(r.turnOrder) {
			r.drawerIndex = 0
		}
	}

	if r.hostID == id {
		r.hostID = ""
		if len(r.roster) > 0 {
			r.hostID = r.roster[0]
		}
	}
	return true
}

func (r *Room) empty() bool {
	return len(r.players) == 0
}

// cycleComplete reports whether every id in turnOrder already drew in the
// current cycle.
func (r *Room) cycleComplete() bool {
	if len(r.turnOrder) == 0 {
		return false
	}
	for _, id := range r.turnOrder {
		if _, drawn := r.drawnThisCycle[id]; !drawn {
			return false
		}
	}
	return true
}

func (r *Room) eligibleGuessers() int {
	n := 0
	for id := range r.players {
		if id != r.drawerID {
			n++
		}
	}
	return n
}

func (r *Room) allGuessed() bool {
	eligible := r.eligibleGuessers()
	if eligible == 0 {
		return false
	}
	guessed := 0
	for id := range r.guessedPlayers {
		if _, present := r.players[id]; present && id != r.drawerID {
			guessed++
		}
	}
	return guessed >= eligible
}

func (r *Room) hasGuessed(id string) bool {
	_, ok := r.guessedPlayers[id]
	return ok
}

// inTurn is true while a drawer owns the room.
func (r *Room) inTurn() bool {
	return r.drawerID != "" && (r.phase == PHASE_CHOOSING_WORD || r.phase == PHASE_DRAWING)
}

func (r *Room) resetTurn() {
	r.drawerID = ""
	r.currentWord = ""
	r.wordOptions = nil
	r.guessedPlayers = make(map[string]struct{})
	r.roundEndTime = time.Time{}
	r.strokes = nil
}

func (r *Room) resetScores() {
	for _, p := range r.players {
		p.score = 0
	}
}

func (r *Room) cancelDeadline() {
	if r.deadline.timer != nil {
		r.deadline.timer.Stop()
		r.deadline.timer = nil
	}
	r.deadline.seq = 0
}

func (r *Room) scoreboard() Scoreboard {
	board := make(Scoreboard, len(r.players))
	for id, p := range r.players {
		board[id] = PlayerView{Name: p.name, Score: p.score}
	}
	return board
}

func (r *Room) preview() RoomPreview {
	return RoomPreview{
		RoomCode:    r.code,
		Players:     r.scoreboard(),
		HostID:      r.hostID,
		GameStarted: r.gameStarted,
		Phase:       r.phase.String(),
	}
}
