package game

import (
    "errors"

    "github.com/kiliankoe/red-tetris/internal/tetris"
)

// Inbound events.
const (
    EvCreateRoom     = "create-room"
    EvJoinRoom       = "join-room"
    EvLeaveRoom      = "leave-room"
    EvStartGame      = "start-game"
    EvPiecePlaced    = "piece-placed"
    EvLinesCleared   = "lines-cleared"
    EvGameOver       = "game-over"
    EvSpectrumUpdate = "spectrum-update"
)

// Outbound events.
const (
    EvRooms            = "rooms"
    EvNewRoom          = "new-room"
    EvRoomRemoved      = "room-removed"
    EvPlayerJoined     = "player-joined"
    EvHostChanged      = "host-changed"
    EvPlayerLeft       = "player-left"
    EvGameStarted      = "game-started"
    EvNextPiece        = "next-piece"
    EvReceivePenalty   = "receive-penalty"
    EvOpponentSpectrum = "opponent-spectrum"
    EvGameWon          = "game-won"
    EvError            = "error"
)

type RoomPayload struct {
    Room string `json:"room"`
}

type PlayerJoinedPayload struct {
    Players []string `json:"players"`
    Host    string   `json:"host"`
}

type HostChangedPayload struct {
    NewHost string `json:"newHost"`
    OldHost string `json:"oldHost"`
}

type PlayerLeftPayload struct {
    Player  string   `json:"player"`
    Players []string `json:"players"`
    Host    string   `json:"host"`
}

type GameStartedPayload struct {
    GameID    string        `json:"gameId"`
    Piece     tetris.Piece  `json:"piece"`
    NextPiece *tetris.Piece `json:"nextPiece,omitempty"`
}

type NextPiecePayload struct {
    Piece tetris.Piece `json:"piece"`
}

type PenaltyPayload struct {
    Count int `json:"count"`
}

type SpectrumPayload struct {
    Player   string `json:"player"`
    Spectrum []int  `json:"spectrum"`
}

type GameOverPayload struct {
    Player string `json:"player"`
}

type GameWonPayload struct {
    Winner string `json:"winner"`
}

type ErrorPayload struct {
    Code    string `json:"code"`
    Message string `json:"message"`
}

// ErrorCode maps a policy error to its wire code.
func ErrorCode(err error) string {
    switch {
    case errors.Is(err, ErrRoomExists):
        return "room_exists"
    case errors.Is(err, ErrNameTaken):
        return "name_taken"
    case errors.Is(err, ErrNotHost):
        return "not_host"
    case errors.Is(err, ErrGameInProgress):
        return "game_in_progress"
    case errors.Is(err, ErrInvalidName):
        return "invalid_name"
    case errors.Is(err, ErrRoomNotFound):
        return "room_not_found"
    default:
        return "bad_request"
    }
}
