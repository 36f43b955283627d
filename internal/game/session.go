package game

import (
    "errors"
    "time"

    "github.com/google/uuid"
    "github.com/kiliankoe/red-tetris/internal/tetris"
)

var (
    ErrRoomNotFound   = errors.New("room not found")
    ErrRoomExists     = errors.New("room already exists")
    ErrNameTaken      = errors.New("player name already taken in this room")
    ErrNotHost        = errors.New("only the host can do that")
    ErrGameInProgress = errors.New("game already in progress")
    ErrInvalidName    = errors.New("room and player names must not be empty")
)

// DefaultQueuePrefill is how many pieces a reset queues up front.
const DefaultQueuePrefill = 10

// Session is the state of one room. It is not safe for concurrent use; the
// Coordinator serializes all access.
type Session struct {
    Room      string
    Seed      string
    GameID    string
    CreatedAt time.Time
    Started   bool
    Winner    string // winner of the last finished game, "" for none or a draw

    bag     *tetris.Bag
    queue   []tetris.Piece
    players []*Player
    host    *Player
}

func NewSession(room, seed string) *Session {
    if seed == "" {
        seed = room
    }
    return &Session{
        Room:      room,
        Seed:      seed,
        CreatedAt: time.Now().UTC(),
        bag:       tetris.NewBag(seed),
        queue:     []tetris.Piece{},
    }
}

// AddPlayer appends p. The first player becomes host. Name uniqueness is the caller's job.
func (s *Session) AddPlayer(p *Player) {
    if p.JoinedAt.IsZero() {
        p.JoinedAt = time.Now().UTC()
    }
    s.players = append(s.players, p)
    if s.host == nil {
        s.host = p
    }
}

type Removal struct {
    Player    *Player
    WasHost   bool
    OldHost   string
    NewHost   string
    Remaining int
}

// RemovePlayer drops the named player. Host passes to the new first player, or to nobody.
func (s *Session) RemovePlayer(name string) (Removal, bool) {
    ix := s.indexOf(name)
    if ix < 0 {
        return Removal{}, false
    }
    p := s.players[ix]
    s.players = append(s.players[:ix], s.players[ix+1:]...)
    r := Removal{Player: p, OldHost: s.HostName(), Remaining: len(s.players)}
    if s.host == p {
        r.WasHost = true
        s.host = nil
        if len(s.players) > 0 {
            s.host = s.players[0]
        }
    }
    r.NewHost = s.HostName()
    return r, true
}

func (s *Session) GenerateNextPiece() tetris.Piece {
    p := tetris.Piece{Type: s.bag.Next()}
    s.queue = append(s.queue, p)
    return p
}

// NextPieceFor returns the piece at the player's index, if it has been generated.
func (s *Session) NextPieceFor(name string) (tetris.Piece, bool) {
    p := s.Player(name)
    if p == nil {
        return tetris.Piece{}, false
    }
    return s.pieceAt(p.PieceIndex)
}

// PlacedPiece advances the player's index and keeps the queue at least one piece
// ahead of the most advanced player. It returns the player's new current piece.
func (s *Session) PlacedPiece(name string) (tetris.Piece, bool) {
    p := s.Player(name)
    if p == nil {
        return tetris.Piece{}, false
    }
    p.PieceIndex++
    for s.maxIndex() >= len(s.queue) {
        s.GenerateNextPiece()
    }
    return s.pieceAt(p.PieceIndex)
}

func (s *Session) FillQueue(min int) {
    for len(s.queue) < min {
        s.GenerateNextPiece()
    }
}

// Reset starts a new game: fresh queue and bag, every player back at index 0 and playing.
func (s *Session) Reset(prefill int) {
    if prefill < 2 {
        prefill = 2
    }
    s.Started = true
    s.Winner = ""
    s.GameID = uuid.NewString()
    s.queue = s.queue[:0]
    s.bag.Reset()
    s.FillQueue(prefill)
    for _, p := range s.players {
        p.PieceIndex = 0
        p.IsGameOver = false
        p.IsPlaying = true
    }
}

// MarkGameOver flags the player as topped out. It reports false when the player
// is unknown or was already over.
func (s *Session) MarkGameOver(name string) bool {
    p := s.Player(name)
    if p == nil || p.IsGameOver {
        return false
    }
    p.IsGameOver = true
    return true
}

func (s *Session) Finish(winner string) {
    s.Started = false
    s.Winner = winner
}

func (s *Session) Phase() Phase {
    if s.Started {
        return PhaseInProgress
    }
    return PhaseLobby
}

func (s *Session) Host() *Player { return s.host }

func (s *Session) HostName() string {
    if s.host == nil {
        return ""
    }
    return s.host.Name
}

func (s *Session) Player(name string) *Player {
    if ix := s.indexOf(name); ix >= 0 {
        return s.players[ix]
    }
    return nil
}

func (s *Session) Players() []*Player {
    out := make([]*Player, len(s.players))
    copy(out, s.players)
    return out
}

func (s *Session) PlayerNames() []string {
    out := make([]string, 0, len(s.players))
    for _, p := range s.players {
        out = append(out, p.Name)
    }
    return out
}

func (s *Session) ActivePlayers() []*Player {
    var out []*Player
    for _, p := range s.players {
        if p.Active() {
            out = append(out, p)
        }
    }
    return out
}

// PenaltyTargets lists the opponents of sender that have not topped out.
func (s *Session) PenaltyTargets(sender string) []*Player {
    var out []*Player
    for _, p := range s.players {
        if p.Name != sender && !p.IsGameOver {
            out = append(out, p)
        }
    }
    return out
}

// PieceQueue is the type-only view of the queue.
func (s *Session) PieceQueue() []tetris.Type {
    out := make([]tetris.Type, len(s.queue))
    for i, p := range s.queue {
        out[i] = p.Type
    }
    return out
}

func (s *Session) QueueLen() int { return len(s.queue) }

func (s *Session) LastPiece() (tetris.Piece, bool) {
    if len(s.queue) == 0 {
        return tetris.Piece{}, false
    }
    return s.queue[len(s.queue)-1], true
}

func (s *Session) pieceAt(i int) (tetris.Piece, bool) {
    if i < 0 || i >= len(s.queue) {
        return tetris.Piece{}, false
    }
    return s.queue[i], true
}

func (s *Session) maxIndex() int {
    m := -1
    for _, p := range s.players {
        if p.PieceIndex > m {
            m = p.PieceIndex
        }
    }
    return m
}

func (s *Session) indexOf(name string) int {
    for i, p := range s.players {
        if p.Name == name {
            return i
        }
    }
    return -1
}
