package game

// Gateway delivers outbound events. Implementations must not block the
// engine loop.
type Gateway interface {
	Send(clientID string, e Event)
	Broadcast(roomCode string, e Event, except ...string)
	Subscribe(clientID, roomCode string)
	Unsubscribe(clientID, roomCode string)
}

type RandomWordsGenerator interface {
	Generate(count int) []string
}

type UniqueIdGenerator interface {
	Generate() string
	Dispose(id string)
}
