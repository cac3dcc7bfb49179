package game

import (
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
)

// --- RandomWordsGenerator ---

type MockRandomWordsGenerator struct {
	mock.Mock
}

func (m *MockRandomWordsGenerator) Generate(count int) []string {
	args := m.Called(count)
	return args.Get(0).([]string)
}

// --- UniqueIdGenerator ---

type MockUniqueIdGenerator struct {
	mock.Mock
}

func (m *MockUniqueIdGenerator) Generate() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockUniqueIdGenerator) Dispose(id string) {
	m.Called(id)
}

// --- Clock ---

type fakeTimer struct {
	at      time.Time
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

// fakeClock only moves when told to. Due callbacks run synchronously inside
// Advance, in the order they were scheduled.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves time forward and runs every callback now due. It reports
// whether any callback ran.
func (c *fakeClock) Advance(d time.Duration) bool {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && !t.at.After(c.now) {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	for _, t := range due {
		t.f()
	}
	return len(due) > 0
}

func (c *fakeClock) pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// --- Gateway ---

type broadcastCall struct {
	room   string
	event  Event
	except []string
}

// recordingGateway fans broadcasts out to the clients subscribed at the time
// of the call and keeps every delivery per client.
type recordingGateway struct {
	mu         sync.Mutex
	subs       map[string]map[string]struct{}
	delivered  map[string][]Event
	broadcasts []broadcastCall
}

func newRecordingGateway() *recordingGateway {
	return &recordingGateway{
		subs:      make(map[string]map[string]struct{}),
		delivered: make(map[string][]Event),
	}
}

func (g *recordingGateway) Send(clientID string, e Event) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.delivered[clientID] = append(g.delivered[clientID], e)
}

func (g *recordingGateway) Broadcast(roomCode string, e Event, except ...string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.broadcasts = append(g.broadcasts, broadcastCall{room: roomCode, event: e, except: except})
	for id := range g.subs[roomCode] {
		skip := false
		for _, ex := range except {
			if ex == id {
				skip = true
			}
		}
		if !skip {
			g.delivered[id] = append(g.delivered[id], e)
		}
	}
}

func (g *recordingGateway) Subscribe(clientID, roomCode string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.subs[roomCode] == nil {
		g.subs[roomCode] = make(map[string]struct{})
	}
	g.subs[roomCode][clientID] = struct{}{}
}

func (g *recordingGateway) Unsubscribe(clientID, roomCode string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.subs[roomCode], clientID)
}

func (g *recordingGateway) events(clientID string, eventType string) []Event {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []Event
	for _, e := range g.delivered[clientID] {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

func (g *recordingGateway) reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.delivered = make(map[string][]Event)
	g.broadcasts = nil
}
