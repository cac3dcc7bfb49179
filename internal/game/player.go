package game

type Player struct {
	id    string
	name  string
	score int
}

func newPlayer(id, name string) *Player {
	return &Player{id: id, name: name}
}

func (p *Player) ID() string   { return p.id }
func (p *Player) Name() string { return p.name }
func (p *Player) Score() int   { return p.score }

// addPoints never lowers a score.
func (p *Player) addPoints(points int) {
	if points > 0 {
		p.score += points
	}
}
