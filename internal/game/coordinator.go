package game

import (
    "strings"
    "sync"
    "time"

    "github.com/rs/zerolog"
    "github.com/rs/zerolog/log"
)

// ResultSink receives every finished game.
type ResultSink interface {
    Record(r Result) error
}

// Coordinator routes client events to room sessions and fans results back out.
// Every exported method holds the same lock, so events are applied one at a time
// in arrival order.
type Coordinator struct {
    mu      sync.Mutex
    reg     *Registry
    live    map[string]Client // connection id -> client
    log     zerolog.Logger
    prefill int
    sink    ResultSink
}

type Option func(*Coordinator)

func WithLogger(l zerolog.Logger) Option { return func(c *Coordinator) { c.log = l } }

func WithQueuePrefill(n int) Option {
    return func(c *Coordinator) {
        if n > 0 {
            c.prefill = n
        }
    }
}

func WithResultSink(s ResultSink) Option { return func(c *Coordinator) { c.sink = s } }

func NewCoordinator(reg *Registry, opts ...Option) *Coordinator {
    c := &Coordinator{
        reg:     reg,
        live:    make(map[string]Client),
        log:     log.Logger,
        prefill: DefaultQueuePrefill,
    }
    for _, o := range opts {
        o(c)
    }
    return c
}

func (c *Coordinator) Registry() *Registry { return c.reg }

// Connect registers cl as live and sends it the current room list.
func (c *Coordinator) Connect(cl Client) {
    c.mu.Lock()
    defer c.mu.Unlock()
    c.live[cl.ID()] = cl
    cl.Emit(EvRooms, c.reg.Names())
}

// Disconnect forgets cl. Players it owned must already have been removed via LeaveRoom.
func (c *Coordinator) Disconnect(cl Client) {
    c.mu.Lock()
    defer c.mu.Unlock()
    delete(c.live, cl.ID())
}

func (c *Coordinator) IsLive(cl Client) bool {
    c.mu.Lock()
    defer c.mu.Unlock()
    return c.isLive(cl)
}

func (c *Coordinator) CreateRoom(cl Client, room string) error {
    c.mu.Lock()
    defer c.mu.Unlock()
    room = strings.TrimSpace(room)
    if room == "" {
        return c.fail(cl, ErrInvalidName)
    }
    if _, err := c.reg.Create(room, room); err != nil {
        return c.fail(cl, err)
    }
    c.log.Info().Str("room", room).Msg("room created")
    c.broadcastAll(EvNewRoom, room)
    return nil
}

// JoinRoom adds player to room, creating the room on first use.
func (c *Coordinator) JoinRoom(cl Client, room, player string) error {
    c.mu.Lock()
    defer c.mu.Unlock()
    room, player = strings.TrimSpace(room), strings.TrimSpace(player)
    if room == "" || player == "" {
        return c.fail(cl, ErrInvalidName)
    }
    s, created := c.reg.Ensure(room, room)
    if created {
        c.log.Info().Str("room", room).Msg("room created")
        c.broadcastAll(EvNewRoom, room)
    }
    if s.Player(player) != nil {
        return c.fail(cl, ErrNameTaken)
    }
    s.AddPlayer(&Player{Name: player, Client: cl})
    c.log.Info().Str("room", room).Str("player", player).Str("host", s.HostName()).Msg("player joined")
    c.broadcastRoom(s, EvPlayerJoined, PlayerJoinedPayload{Players: s.PlayerNames(), Host: s.HostName()}, "")
    return nil
}

// LeaveRoom removes player from room if cl owns it and reports whether it did.
func (c *Coordinator) LeaveRoom(cl Client, room, player string) bool {
    c.mu.Lock()
    defer c.mu.Unlock()
    room, player = strings.TrimSpace(room), strings.TrimSpace(player)
    s := c.session(room)
    if s == nil {
        return false
    }
    p := s.Player(player)
    if p == nil || !p.OwnedBy(cl) {
        c.log.Debug().Str("room", room).Str("player", player).Msg("leave ignored")
        return false
    }
    rm, _ := s.RemovePlayer(player)
    c.log.Info().Str("room", room).Str("player", player).Int("remaining", rm.Remaining).Msg("player left")
    if rm.Remaining == 0 {
        c.reg.Remove(room)
        c.log.Info().Str("room", room).Msg("room removed")
        c.broadcastAll(EvRoomRemoved, RoomPayload{Room: room})
        return true
    }
    if rm.WasHost {
        c.broadcastRoom(s, EvHostChanged, HostChangedPayload{NewHost: rm.NewHost, OldHost: rm.OldHost}, "")
    } else {
        c.broadcastRoom(s, EvPlayerLeft, PlayerLeftPayload{Player: player, Players: s.PlayerNames(), Host: s.HostName()}, "")
    }
    c.checkWinner(s)
    return true
}

// StartGame (re)starts the room's game. Only the host's connection may do this.
func (c *Coordinator) StartGame(cl Client, room string) error {
    c.mu.Lock()
    defer c.mu.Unlock()
    s := c.session(room)
    if s == nil {
        return nil
    }
    if h := s.Host(); h == nil || !h.OwnedBy(cl) {
        return c.fail(cl, ErrNotHost)
    }
    if s.Started {
        return c.fail(cl, ErrGameInProgress)
    }
    s.Reset(c.prefill)
    // Reset queues at least two pieces
    next := s.queue[1]
    payload := GameStartedPayload{GameID: s.GameID, Piece: s.queue[0], NextPiece: &next}
    c.log.Info().Str("room", room).Str("gameId", s.GameID).Int("players", len(s.players)).Msg("game started")
    c.broadcastRoom(s, EvGameStarted, payload, "")
    return nil
}

// PiecePlaced advances player by one piece and sends them the new current piece.
func (c *Coordinator) PiecePlaced(cl Client, room, player string) {
    c.mu.Lock()
    defer c.mu.Unlock()
    s := c.session(room)
    if s == nil || !s.Started {
        return
    }
    piece, ok := s.PlacedPiece(player)
    if !ok {
        return
    }
    if p := s.Player(player); c.isLive(p.Client) {
        p.Client.Emit(EvNextPiece, NextPiecePayload{Piece: piece})
    }
}

// LinesCleared sends lines-1 penalty lines to every opponent still in the game.
func (c *Coordinator) LinesCleared(cl Client, room, player string, lines int) {
    c.mu.Lock()
    defer c.mu.Unlock()
    s := c.session(room)
    if s == nil || !s.Started || s.Player(player) == nil {
        return
    }
    count := Penalty(lines)
    if count == 0 {
        return
    }
    for _, p := range s.PenaltyTargets(player) {
        if c.isLive(p.Client) {
            p.Client.Emit(EvReceivePenalty, PenaltyPayload{Count: count})
        }
    }
    c.log.Debug().Str("room", room).Str("player", player).Int("lines", lines).Int("penalty", count).Msg("lines cleared")
}

// GameOver marks player as topped out and declares a winner if only one remains.
func (c *Coordinator) GameOver(cl Client, room, player string) {
    c.mu.Lock()
    defer c.mu.Unlock()
    s := c.session(room)
    if s == nil || !s.Started || !s.MarkGameOver(player) {
        return
    }
    c.log.Info().Str("room", room).Str("player", player).Msg("game over")
    c.broadcastRoom(s, EvGameOver, GameOverPayload{Player: player}, "")
    c.checkWinner(s)
}

// SpectrumUpdate relays a column-height profile to the rest of the room.
func (c *Coordinator) SpectrumUpdate(cl Client, room, player string, spectrum []int) {
    c.mu.Lock()
    defer c.mu.Unlock()
    s := c.session(room)
    if s == nil || s.Player(player) == nil || len(spectrum) != BoardWidth {
        return
    }
    c.broadcastRoom(s, EvOpponentSpectrum, SpectrumPayload{Player: player, Spectrum: spectrum}, player)
}

func (c *Coordinator) Rooms() []RoomInfo {
    c.mu.Lock()
    defer c.mu.Unlock()
    names := c.reg.Names()
    out := make([]RoomInfo, 0, len(names))
    for _, name := range names {
        if s, err := c.reg.Get(name); err == nil {
            out = append(out, RoomInfo{Name: name, Players: len(s.players), Phase: s.Phase()})
        }
    }
    return out
}

// Penalty implements the n-1 rule.
func Penalty(lines int) int {
    if lines <= 1 {
        return 0
    }
    return lines - 1
}

func (c *Coordinator) checkWinner(s *Session) {
    if !s.Started {
        return
    }
    active := s.ActivePlayers()
    switch len(active) {
    case 0:
        s.Finish("")
        c.log.Info().Str("room", s.Room).Str("gameId", s.GameID).Msg("game ended without a winner")
    case 1:
        winner := active[0].Name
        s.Finish(winner)
        c.log.Info().Str("room", s.Room).Str("gameId", s.GameID).Str("winner", winner).Msg("game won")
        c.broadcastRoom(s, EvGameWon, GameWonPayload{Winner: winner}, "")
    default:
        return
    }
    c.record(s)
}

func (c *Coordinator) record(s *Session) {
    if c.sink == nil {
        return
    }
    r := Result{Room: s.Room, GameID: s.GameID, Winner: s.Winner, Players: s.PlayerNames(), FinishedAt: time.Now().UTC()}
    if err := c.sink.Record(r); err != nil {
        c.log.Error().Err(err).Str("room", s.Room).Msg("failed to record result")
    }
}

func (c *Coordinator) session(room string) *Session {
    s, err := c.reg.Get(room)
    if err != nil {
        c.log.Debug().Str("room", room).Msg("event for unknown room ignored")
        return nil
    }
    return s
}

func (c *Coordinator) isLive(cl Client) bool {
    if cl == nil {
        return false
    }
    _, ok := c.live[cl.ID()]
    return ok
}

// broadcastRoom emits to every live player in s except the one named except.
func (c *Coordinator) broadcastRoom(s *Session, event string, payload any, except string) {
    for _, p := range s.players {
        if p.Name == except || !c.isLive(p.Client) {
            continue
        }
        p.Client.Emit(event, payload)
    }
}

func (c *Coordinator) broadcastAll(event string, payload any) {
    for _, cl := range c.live {
        cl.Emit(event, payload)
    }
}

func (c *Coordinator) fail(cl Client, err error) error {
    c.log.Warn().Err(err).Msg("rejected")
    if cl != nil {
        cl.Emit(EvError, ErrorPayload{Code: ErrorCode(err), Message: err.Error()})
    }
    return err
}
