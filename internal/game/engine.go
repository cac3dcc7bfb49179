package game

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

type Settings struct {
	RoundDuration       time.Duration
	ChooseWordDuration  time.Duration // 0 waits for the drawer forever
	TurnSummaryDuration time.Duration
	MaxRounds           int
	WordChoices         int
}

func DefaultSettings() Settings {
	return Settings{
		RoundDuration:       90 * time.Second,
		ChooseWordDuration:  15 * time.Second,
		TurnSummaryDuration: 5 * time.Second,
		MaxRounds:           3,
		WordChoices:         3,
	}
}

type actionHandler func(e *Engine, clientID string, payload json.RawMessage)

type timerFired struct {
	code string
	seq  uint64
	kind timerKind
}

type roomQuery struct {
	code  string
	reply chan roomQueryResult
}

type roomQueryResult struct {
	preview RoomPreview
	err     error
}

// Engine is the single event loop owning the registry and every room. All
// room mutations run on the loop goroutine, one action or timer at a time.
type Engine struct {
	registry *Registry
	sessions map[string]string // client id -> room code
	words    RandomWordsGenerator
	gateway  Gateway
	clock    Clock
	settings Settings
	log      zerolog.Logger
	router   map[string]actionHandler
	timerSeq uint64

	actions chan Action
	timers  chan timerFired
	queries chan roomQuery
	stopped chan struct{}
}

func NewEngine(registry *Registry, words RandomWordsGenerator, gateway Gateway, clock Clock, settings Settings, logger zerolog.Logger) *Engine {
	e := &Engine{
		registry: registry,
		sessions: make(map[string]string),
		words:    words,
		gateway:  gateway,
		clock:    clock,
		settings: settings,
		log:      logger.With().Str("component", "engine").Logger(),
		actions:  make(chan Action, 1024),
		timers:   make(chan timerFired, 256),
		queries:  make(chan roomQuery, 64),
		stopped:  make(chan struct{}),
	}
	e.router = map[string]actionHandler{
		ActionCreateRoom:  handleCreateRoom,
		ActionJoinRoom:    handleJoinRoom,
		ActionStartGame:   handleStartGame,
		ActionSelectWord:  handleSelectWord,
		ActionDraw:        handleDraw,
		ActionClear:       handleClear,
		ActionChatMessage: handleChatMessage,
		ActionDisconnect:  handleDisconnect,
	}
	return e
}

// Run processes actions, timer firings and queries until ctx is done.
func (e *Engine) Run(ctx context.Context) error {
	defer close(e.stopped)
	e.log.Info().Msg("engine started")

	for {
		select {
		case <-ctx.Done():
			e.shutdown()
			e.log.Info().Msg("engine stopped")
			return nil
		case a := <-e.actions:
			e.process(a)
		case tf := <-e.timers:
			e.onTimer(tf)
		case q := <-e.queries:
			e.answer(q)
		}
	}
}

// Submit hands an action to the loop.
func (e *Engine) Submit(ctx context.Context, a Action) error {
	select {
	case <-e.stopped:
		return ErrEngineStopped
	default:
	}
	select {
	case e.actions <- a:
		return nil
	case <-e.stopped:
		return ErrEngineStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Lookup returns a snapshot of a room, resolved on the loop.
func (e *Engine) Lookup(ctx context.Context, code string) (RoomPreview, error) {
	select {
	case <-e.stopped:
		return RoomPreview{}, ErrEngineStopped
	default:
	}
	reply := make(chan roomQueryResult, 1)
	select {
	case e.queries <- roomQuery{code: code, reply: reply}:
	case <-e.stopped:
		return RoomPreview{}, ErrEngineStopped
	case <-ctx.Done():
		return RoomPreview{}, ctx.Err()
	}
	select {
	case res := <-reply:
		return res.preview, res.err
	case <-ctx.Done():
		return RoomPreview{}, ctx.Err()
	}
}

func (e *Engine) process(a Action) {
	handler, found := e.router[a.Type]
	if !found {
		e.log.Debug().Str("client", a.ClientID).Str("type", a.Type).Msg("unknown action dropped")
		return
	}
	handler(e, a.ClientID, a.Payload)
}

func (e *Engine) answer(q roomQuery) {
	room, ok := e.registry.Get(q.code)
	if !ok {
		q.reply <- roomQueryResult{err: ErrRoomNotFound}
		return
	}
	q.reply <- roomQueryResult{preview: room.preview()}
}

func (e *Engine) shutdown() {
	for _, room := range e.registry.rooms {
		room.cancelDeadline()
	}
}

// sessionRoom resolves the room bound to a client.
func (e *Engine) sessionRoom(clientID string) (*Room, bool) {
	code, ok := e.sessions[clientID]
	if !ok {
		return nil, false
	}
	return e.registry.Get(code)
}

// drop records a guard failure. Guard failures are expected for duplicate
// or stale client messages and are never reported back.
func (e *Engine) drop(clientID, action string, err error) {
	e.log.Debug().Str("client", clientID).Str("action", action).Err(err).Msg("action ignored")
}

func (e *Engine) sendRoomError(clientID string, err error) {
	msg, ok := roomErrorMessage(err)
	if !ok {
		e.drop(clientID, "room", err)
		return
	}
	e.gateway.Send(clientID, Event{Type: EventRoomError, Payload: RoomErrorPayload{Message: msg}})
}

func (e *Engine) broadcastPlayers(room *Room) {
	e.gateway.Broadcast(room.code, Event{
		Type:    EventPlayersUpdate,
		Payload: PlayersUpdatePayload{Players: room.scoreboard(), HostID: optionalID(room.hostID)},
	})
}

func handleCreateRoom(e *Engine, clientID string, payload json.RawMessage) {
	var req createRoomPayload
	if err := decodePayload(payload, &req); err != nil {
		e.drop(clientID, ActionCreateRoom, err)
		return
	}
	if _, err := normalizeName(req.Name); err != nil {
		e.sendRoomError(clientID, err)
		return
	}

	e.leaveCurrentRoom(clientID)

	room, err := e.registry.Create(clientID, req.Name)
	if err != nil {
		e.sendRoomError(clientID, err)
		return
	}
	e.sessions[clientID] = room.code
	e.gateway.Subscribe(clientID, room.code)

	e.log.Info().Str("room", room.code).Str("client", clientID).Msg("room created")

	e.gateway.Send(clientID, Event{
		Type:    EventRoomCreated,
		Payload: RoomCreatedPayload{RoomCode: room.code, Players: room.scoreboard(), HostID: room.hostID},
	})
	e.broadcastPlayers(room)
}

func handleJoinRoom(e *Engine, clientID string, payload json.RawMessage) {
	var req joinRoomPayload
	if err := decodePayload(payload, &req); err != nil {
		e.drop(clientID, ActionJoinRoom, err)
		return
	}
	if _, err := normalizeName(req.Name); err != nil {
		e.sendRoomError(clientID, err)
		return
	}
	target, ok := e.registry.Get(req.RoomCode)
	if !ok {
		e.sendRoomError(clientID, ErrRoomNotFound)
		return
	}
	if e.sessions[clientID] == target.code {
		e.drop(clientID, ActionJoinRoom, ErrInvalidState)
		return
	}

	e.leaveCurrentRoom(clientID)

	room, err := e.registry.Join(target.code, clientID, req.Name)
	if err != nil {
		e.sendRoomError(clientID, err)
		return
	}
	e.sessions[clientID] = room.code
	e.gateway.Subscribe(clientID, room.code)

	e.log.Info().Str("room", room.code).Str("client", clientID).Int("players", room.PlayersCount()).Msg("player joined")

	joined := RoomJoinedPayload{
		RoomCode:    room.code,
		Players:     room.scoreboard(),
		HostID:      room.hostID,
		GameStarted: room.gameStarted,
		DrawerID:    optionalID(room.drawerID),
		RoundNumber: room.roundNumber,
	}
	if room.phase == PHASE_DRAWING && room.currentWord != "" {
		joined.WordLength = wordLength(room.currentWord)
		joined.Mask = maskWord(room.currentWord)
		joined.RoundEndsAt = room.roundEndTime.UnixMilli()
	}
	e.gateway.Send(clientID, Event{Type: EventRoomJoined, Payload: joined})
	e.broadcastPlayers(room)
	e.gateway.Send(clientID, Event{Type: EventInitStrokes, Payload: append([]Stroke{}, room.strokes...)})
}

func handleStartGame(e *Engine, clientID string, _ json.RawMessage) {
	room, ok := e.sessionRoom(clientID)
	if !ok {
		e.drop(clientID, ActionStartGame, ErrRoomNotFound)
		return
	}
	if room.hostID != clientID {
		e.drop(clientID, ActionStartGame, ErrUnauthorized)
		return
	}
	if room.phase != PHASE_LOBBY && room.phase != PHASE_GAME_OVER {
		e.drop(clientID, ActionStartGame, ErrInvalidState)
		return
	}
	e.startGame(room)
}

func handleSelectWord(e *Engine, clientID string, payload json.RawMessage) {
	var req selectWordPayload
	if err := decodePayload(payload, &req); err != nil {
		e.drop(clientID, ActionSelectWord, err)
		return
	}
	room, ok := e.sessionRoom(clientID)
	if !ok {
		e.drop(clientID, ActionSelectWord, ErrRoomNotFound)
		return
	}
	if err := e.selectWord(room, clientID, req.Word); err != nil {
		e.drop(clientID, ActionSelectWord, err)
	}
}

func handleDraw(e *Engine, clientID string, payload json.RawMessage) {
	room, ok := e.sessionRoom(clientID)
	if !ok {
		e.drop(clientID, ActionDraw, ErrRoomNotFound)
		return
	}
	if err := drawerMayDraw(room, clientID); err != nil {
		e.drop(clientID, ActionDraw, err)
		return
	}
	var stroke Stroke
	if len(payload) == 0 {
		e.drop(clientID, ActionDraw, ErrInvalidState)
		return
	}
	if err := json.Unmarshal(payload, &stroke); err != nil {
		e.drop(clientID, ActionDraw, err)
		return
	}
	room.strokes = append(room.strokes, stroke)
	e.gateway.Broadcast(room.code, Event{Type: EventDraw, Payload: stroke}, clientID)
}

func handleClear(e *Engine, clientID string, _ json.RawMessage) {
	room, ok := e.sessionRoom(clientID)
	if !ok {
		e.drop(clientID, ActionClear, ErrRoomNotFound)
		return
	}
	if err := drawerMayDraw(room, clientID); err != nil {
		e.drop(clientID, ActionClear, err)
		return
	}
	room.strokes = nil
	e.gateway.Broadcast(room.code, Event{Type: EventClear})
}

func drawerMayDraw(room *Room, clientID string) error {
	if room.drawerID != clientID {
		return ErrUnauthorized
	}
	if room.phase != PHASE_DRAWING {
		return ErrInvalidState
	}
	return nil
}

func handleChatMessage(e *Engine, clientID string, payload json.RawMessage) {
	var req chatMessagePayload
	if err := decodePayload(payload, &req); err != nil {
		e.drop(clientID, ActionChatMessage, err)
		return
	}
	room, ok := e.sessionRoom(clientID)
	if !ok {
		e.drop(clientID, ActionChatMessage, ErrRoomNotFound)
		return
	}
	e.guessOrChat(room, clientID, req.Message)
}

func handleDisconnect(e *Engine, clientID string, _ json.RawMessage) {
	e.leaveCurrentRoom(clientID)
}

// leaveCurrentRoom detaches the client from its room. A drawer leaving
// mid-turn ends the turn once they are off the scoreboard.
func (e *Engine) leaveCurrentRoom(clientID string) {
	code, ok := e.sessions[clientID]
	if !ok {
		return
	}
	delete(e.sessions, clientID)
	e.gateway.Unsubscribe(clientID, code)

	room, ok := e.registry.Get(code)
	if !ok {
		return
	}
	logger := e.log.With().Str("room", room.code).Str("client", clientID).Logger()

	drawerLeft := room.drawerID == clientID && room.inTurn()

	room, deleted := e.registry.RemovePlayer(code, clientID)
	if room == nil {
		return
	}
	if deleted {
		logger.Info().Msg("last player left, room deleted")
		return
	}
	logger.Info().Int("players", room.PlayersCount()).Str("host", room.hostID).Msg("player left")

	if drawerLeft {
		logger.Info().Msg("drawer left mid-turn")
		e.endTurn(room, EndReasonDrawerLeft)
	}
	e.broadcastPlayers(room)

	if room.phase == PHASE_DRAWING && room.allGuessed() {
		e.endTurn(room, EndReasonAllGuessed)
	}
}

var errStaleTimer = errors.New("stale-timer")

// arm replaces the room's pending timer. The callback only posts to the
// loop; the transition itself runs on the loop goroutine.
func (e *Engine) arm(room *Room, d time.Duration, kind timerKind) {
	room.cancelDeadline()
	e.timerSeq++
	fired := timerFired{code: room.code, seq: e.timerSeq, kind: kind}
	room.deadline = deadline{
		seq:  fired.seq,
		kind: kind,
		timer: e.clock.AfterFunc(d, func() {
			select {
			case e.timers <- fired:
			case <-e.stopped:
			}
		}),
	}
}

func (e *Engine) onTimer(tf timerFired) {
	room, ok := e.registry.Get(tf.code)
	if !ok || room.deadline.timer == nil || room.deadline.seq != tf.seq {
		e.log.Debug().Str("room", tf.code).Stringer("kind", tf.kind).Err(errStaleTimer).Msg("timer ignored")
		return
	}
	room.deadline.timer = nil

	switch tf.kind {
	case timerChooseWord:
		if room.phase == PHASE_CHOOSING_WORD && room.currentWord == "" && len(room.wordOptions) > 0 {
			e.log.Info().Str("room", room.code).Str("drawer", room.drawerID).Msg("word choice timed out, picking for the drawer")
			e.commitWord(room, room.wordOptions[0])
		}
	case timerTurnDeadline:
		e.endTurn(room, EndReasonTimeout)
	case timerNextTurn:
		if room.phase == PHASE_ROUND_END {
			e.startTurn(room)
		}
	}
}
