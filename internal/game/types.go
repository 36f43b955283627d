package game

import (
    "time"
)

type Phase string

const (
    PhaseLobby      Phase = "Lobby"
    PhaseInProgress Phase = "InProgress"
)

// BoardWidth is the number of columns in a spectrum.
const BoardWidth = 10

// Client is the part of a transport connection the coordinator talks to.
// socketio.Conn satisfies it.
type Client interface {
    ID() string
    Emit(eventName string, v ...interface{})
}

type Player struct {
    Name       string    `json:"name"`
    Client     Client    `json:"-"`
    PieceIndex int       `json:"pieceIndex"`
    IsPlaying  bool      `json:"isPlaying"`
    IsGameOver bool      `json:"isGameOver"`
    JoinedAt   time.Time `json:"joinedAt"`
}

// Active reports whether the player is still placing pieces in the current game.
func (p *Player) Active() bool { return p.IsPlaying && !p.IsGameOver }

// OwnedBy reports whether c is the connection that joined as this player.
func (p *Player) OwnedBy(c Client) bool {
    return c != nil && p.Client != nil && p.Client.ID() == c.ID()
}

type RoomInfo struct {
    Name    string `json:"name"`
    Players int    `json:"players"`
    Phase   Phase  `json:"phase"`
}

type Result struct {
    Room       string    `json:"room"`
    GameID     string    `json:"gameId"`
    Winner     string    `json:"winner"`
    Players    []string  `json:"players"`
    FinishedAt time.Time `json:"finishedAt"`
}
