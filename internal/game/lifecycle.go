package game

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// startGame begins the first turn. A room coming back from GAME_OVER starts
// over with a fresh rotation and zeroed scores.
func (e *Engine) startGame(room *Room) {
	room.cancelDeadline()
	room.resetTurn()
	room.resetScores()
	room.turnOrder = slices.Clone(room.roster)
	room.drawerIndex = 0
	clear(room.drawnThisCycle)
	room.roundNumber = 1
	room.gameStarted = true

	e.log.Info().Str("room", room.code).Int("players", room.PlayersCount()).Msg("game started")

	e.gateway.Broadcast(room.code, Event{Type: EventGameStarted, Payload: GameStartedPayload{MaxRounds: e.settings.MaxRounds}})
	e.broadcastPlayers(room)
	e.startTurn(room)
}

// startTurn moves the room to CHOOSING_WORD with the next drawer and offers
// them a fresh set of words, or ends the game once the final cycle is done.
func (e *Engine) startTurn(room *Room) {
	room.cancelDeadline()
	room.resetTurn()

	// the last undrawn player of the final cycle may have left during the summary
	if room.cycleComplete() && room.roundNumber >= e.settings.MaxRounds {
		e.finishGame(room)
		return
	}

	drawer, turn, total := room.selectNextDrawer()
	if drawer == "" {
		room.phase = PHASE_LOBBY
		room.gameStarted = false
		return
	}
	room.phase = PHASE_CHOOSING_WORD
	room.drawerID = drawer
	room.wordOptions = e.words.Generate(e.settings.WordChoices)

	e.log.Info().
		Str("room", room.code).
		Str("drawer", drawer).
		Int("round", room.roundNumber).
		Int("turn", turn).
		Int("turns", total).
		Msg("turn started")

	e.gateway.Broadcast(room.code, Event{
		Type: EventRoundStarted,
		Payload: RoundStartedPayload{
			DrawerID:    drawer,
			RoundNumber: room.roundNumber,
			TurnNumber:  turn,
			TotalTurns:  total,
		},
	})
	e.gateway.Send(drawer, Event{
		Type:    EventWordOptions,
		Payload: WordOptionsPayload{Options: slices.Clone(room.wordOptions)},
	})

	if e.settings.ChooseWordDuration > 0 {
		e.arm(room, e.settings.ChooseWordDuration, timerChooseWord)
	}
}

// selectWord validates the drawer's pick against the offered options.
func (e *Engine) selectWord(room *Room, clientID, word string) error {
	if room.drawerID != clientID {
		return ErrUnauthorized
	}
	if room.phase != PHASE_CHOOSING_WORD || room.currentWord != "" {
		return ErrInvalidState
	}
	i := slices.IndexFunc(room.wordOptions, func(option string) bool {
		return sameWord(option, word)
	})
	if i < 0 {
		return fmt.Errorf("word %q not offered: %w", word, ErrInvalidState)
	}
	e.commitWord(room, room.wordOptions[i])
	return nil
}

func (e *Engine) commitWord(room *Room, word string) {
	room.currentWord = word
	room.wordOptions = nil
	room.phase = PHASE_DRAWING
	room.roundEndTime = e.clock.Now().Add(e.settings.RoundDuration)
	e.arm(room, e.settings.RoundDuration, timerTurnDeadline)

	e.log.Debug().Str("room", room.code).Str("drawer", room.drawerID).Msg("word selected")

	e.gateway.Broadcast(room.code, Event{
		Type: EventWordSelected,
		Payload: WordSelectedPayload{
			WordLength:  wordLength(word),
			Mask:        maskWord(word),
			RoundEndsAt: room.roundEndTime.UnixMilli(),
		},
	})
	e.gateway.Send(room.drawerID, Event{Type: EventYourWord, Payload: YourWordPayload{Word: word}})
}

// guessOrChat evaluates a message as a guess when it can be one and relays it
// as chat otherwise.
func (e *Engine) guessOrChat(room *Room, clientID, message string) {
	player, ok := room.player(clientID)
	if !ok {
		return
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return
	}

	chat := Event{
		Type:    EventChatMessage,
		Payload: ChatMessagePayload{PlayerID: clientID, Name: player.name, Message: message},
	}

	if clientID == room.drawerID && room.inTurn() {
		e.drop(clientID, ActionChatMessage, ErrUnauthorized)
		return
	}

	if room.phase != PHASE_DRAWING || room.currentWord == "" {
		e.gateway.Broadcast(room.code, chat)
		return
	}

	if room.hasGuessed(clientID) {
		e.gateway.Send(room.drawerID, chat)
		for id := range room.guessedPlayers {
			e.gateway.Send(id, chat)
		}
		return
	}

	if !sameWord(message, room.currentWord) {
		e.gateway.Broadcast(room.code, chat)
		return
	}

	points := Award(room.roundEndTime.Sub(e.clock.Now()), e.settings.RoundDuration)
	room.guessedPlayers[clientID] = struct{}{}
	player.addPoints(points)

	e.log.Info().
		Str("room", room.code).
		Str("player", clientID).
		Int("points", points).
		Int("score", player.score).
		Msg("correct guess")

	e.gateway.Broadcast(room.code, Event{
		Type: EventCorrectGuess,
		Payload: CorrectGuessPayload{
			PlayerID: clientID,
			Name:     player.name,
			Score:    player.score,
			Points:   points,
		},
	})
	e.broadcastPlayers(room)

	if room.allGuessed() {
		e.endTurn(room, EndReasonAllGuessed)
	}
}

// endTurn closes the current turn and either schedules the next one or ends
// the game. Calling it outside a turn is a no-op.
func (e *Engine) endTurn(room *Room, reason string) {
	if !room.inTurn() {
		return
	}
	room.cancelDeadline()

	word := room.currentWord
	roundComplete := room.cycleComplete()

	e.log.Info().
		Str("room", room.code).
		Str("drawer", room.drawerID).
		Str("reason", reason).
		Bool("round_complete", roundComplete).
		Int("round", room.roundNumber).
		Msg("turn ended")

	room.phase = PHASE_ROUND_END
	room.resetTurn()

	e.gateway.Broadcast(room.code, Event{
		Type: EventRoundEnded,
		Payload: RoundEndedPayload{
			Players:       room.scoreboard(),
			Word:          word,
			RoundComplete: roundComplete,
			RoundNumber:   room.roundNumber,
			Reason:        reason,
		},
	})
	e.gateway.Broadcast(room.code, Event{Type: EventClear})

	if roundComplete && room.roundNumber >= e.settings.MaxRounds {
		e.finishGame(room)
		return
	}

	e.arm(room, e.nextTurnDelay(reason), timerNextTurn)
}

func (e *Engine) nextTurnDelay(reason string) time.Duration {
	if reason == EndReasonAllGuessed {
		return 0
	}
	return e.settings.TurnSummaryDuration
}

func (e *Engine) finishGame(room *Room) {
	room.cancelDeadline()
	room.phase = PHASE_GAME_OVER
	room.gameStarted = false

	e.log.Info().Str("room", room.code).Int("rounds", room.roundNumber).Msg("game over")

	e.gateway.Broadcast(room.code, Event{
		Type:    EventGameOver,
		Payload: GameOverPayload{Players: room.scoreboard(), RoundsPlayed: room.roundNumber},
	})
}
