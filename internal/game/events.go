package game

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Outbound notification types.
const (
	EventRoomCreated   = "room_created"
	EventRoomJoined    = "room_joined"
	EventRoomError     = "room_error"
	EventPlayersUpdate = "players_update"
	EventGameStarted   = "game_started"
	EventRoundStarted  = "round_started"
	EventWordOptions   = "word_options"
	EventWordSelected  = "word_selected"
	EventYourWord      = "your_word"
	EventChatMessage   = "chat_message"
	EventCorrectGuess  = "correct_guess"
	EventRoundEnded    = "round_ended"
	EventGameOver      = "game_over"
	EventDraw          = "draw"
	EventClear         = "clear"
	EventInitStrokes   = "init_strokes"
)

// Reasons carried by round_ended.
const (
	EndReasonTimeout    = "timeout"
	EndReasonAllGuessed = "all_guessed"
	EndReasonDrawerLeft = "drawer_left"
)

type Event struct {
	Type    string
	Payload any
}

type PlayerView struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Scoreboard is keyed by player id.
type Scoreboard map[string]PlayerView

type RoomCreatedPayload struct {
	RoomCode string     `json:"roomCode"`
	Players  Scoreboard `json:"players"`
	HostID   string     `json:"hostId"`
}

type RoomJoinedPayload struct {
	RoomCode    string     `json:"roomCode"`
	Players     Scoreboard `json:"players"`
	HostID      string     `json:"hostId"`
	GameStarted bool       `json:"gameStarted"`
	DrawerID    *string    `json:"drawerId"`
	WordLength  int        `json:"wordLength"`
	Mask        string     `json:"mask,omitempty"`
	RoundNumber int        `json:"roundNumber"`
	RoundEndsAt int64      `json:"roundEndTime,omitempty"`
}

type RoomErrorPayload struct {
	Message string `json:"message"`
}

type PlayersUpdatePayload struct {
	Players Scoreboard `json:"players"`
	HostID  *string    `json:"hostId"`
}

type GameStartedPayload struct {
	MaxRounds int `json:"maxRounds"`
}

type RoundStartedPayload struct {
	DrawerID    string `json:"drawerId"`
	WordLength  int    `json:"wordLength"`
	RoundNumber int    `json:"roundNumber"`
	TurnNumber  int    `json:"turnNumber"`
	TotalTurns  int    `json:"totalTurns"`
}

type WordOptionsPayload struct {
	Options []string `json:"options"`
}

type WordSelectedPayload struct {
	WordLength  int    `json:"wordLength"`
	Mask        string `json:"mask"`
	RoundEndsAt int64  `json:"roundEndTime"`
}

type YourWordPayload struct {
	Word string `json:"word"`
}

type ChatMessagePayload struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Message  string `json:"message"`
}

type CorrectGuessPayload struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Score    int    `json:"score"`
	Points   int    `json:"points"`
}

type RoundEndedPayload struct {
	Players       Scoreboard `json:"players"`
	Word          string     `json:"word"`
	RoundComplete bool       `json:"roundComplete"`
	RoundNumber   int        `json:"roundNumber"`
	Reason        string     `json:"reason"`
}

type GameOverPayload struct {
	Players      Scoreboard `json:"players"`
	RoundsPlayed int        `json:"roundsPlayed"`
}

// RoomPreview is the read-only view served to the HTTP API.
type RoomPreview struct {
	RoomCode    string     `json:"roomCode"`
	Players     Scoreboard `json:"players"`
	HostID      string     `json:"hostId"`
	GameStarted bool       `json:"gameStarted"`
	Phase       string     `json:"phase"`
}

func wordLength(word string) int {
	return utf8.RuneCountInString(word)
}

// maskWord keeps the shape of the word: letters and digits become
// underscores, separators stay visible.
func maskWord(word string) string {
	var sb strings.Builder
	for _, r := range word {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune('_')
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func optionalID(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}
