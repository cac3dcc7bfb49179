package game

import (
	"math/rand/v2"
	"sync"
)

const (
	roomCodeAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	roomCodeLength   = 6
)

// Idgen hands out short lower-case base36 room codes and remembers which
// ones are live until they are disposed.
type Idgen struct {
	ids    map[string]struct{}
	size   int
	locker sync.Mutex
}

func NewIdGen() *Idgen {
	return &Idgen{ids: make(map[string]struct{}), size: roomCodeLength}
}

func (idgen *Idgen) Generate() string {
	idgen.locker.Lock()
	defer idgen.locker.Unlock()

	for {
		id := randomCode(idgen.size)
		if _, taken := idgen.ids[id]; taken {
			continue
		}
		idgen.ids[id] = struct{}{}
		return id
	}
}

func (idgen *Idgen) Dispose(id string) {
	idgen.locker.Lock()
	delete(idgen.ids, id)
	idgen.locker.Unlock()
}

func (idgen *Idgen) live() int {
	idgen.locker.Lock()
	defer idgen.locker.Unlock()
	return len(idgen.ids)
}

func randomCode(size int) string {
	b := make([]byte, size)
	for i := range b {
		b[i] = roomCodeAlphabet[rand.IntN(len(roomCodeAlphabet))]
	}
	return string(b)
}
