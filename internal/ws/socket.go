package ws

import (
    "net/http"
    "strings"

    "github.com/gin-gonic/gin"
    socketio "github.com/googollee/go-socket.io"
    "github.com/googollee/go-socket.io/engineio"
    "github.com/googollee/go-socket.io/engineio/transport"
    "github.com/googollee/go-socket.io/engineio/transport/polling"
    "github.com/googollee/go-socket.io/engineio/transport/websocket"
    "github.com/kiliankoe/red-tetris/internal/config"
    "github.com/kiliankoe/red-tetris/internal/game"
    "github.com/rs/zerolog/log"
)

type ConnCtx struct {
    Sub *Subscription
}

// peer is the part of socketio.Conn the handlers use.
type peer interface {
    game.Client
    Context() interface{}
    SetContext(ctx interface{})
}

type Server struct {
    Coord  *game.Coordinator
    config config.Config
}

type roomPayload struct {
    Room string `json:"room"`
}

type playerPayload struct {
    Room   string `json:"room"`
    Player string `json:"player"`
}

// key identifies the join on its connection.
func (p playerPayload) key() string {
    return strings.TrimSpace(p.Room) + "\x00" + strings.TrimSpace(p.Player)
}

type linesPayload struct {
    Room   string `json:"room"`
    Player string `json:"player"`
    Lines  int    `json:"lines"`
}

type spectrumPayload struct {
    Room     string `json:"room"`
    Player   string `json:"player"`
    Spectrum []int  `json:"spectrum"`
}

func New(coord *game.Coordinator, cfg config.Config) *Server {
    return &Server{Coord: coord, config: cfg}
}

func (srv *Server) options() *engineio.Options {
    check := func(r *http.Request) bool {
        if srv.config.AllowedOrigin == "" || srv.config.AllowedOrigin == "*" {
            return true
        }
        return r.Header.Get("Origin") == srv.config.AllowedOrigin
    }
    return &engineio.Options{
        PingInterval: srv.config.PingInterval,
        PingTimeout:  srv.config.PingTimeout,
        Transports: []transport.Transport{
            &polling.Transport{CheckOrigin: check},
            &websocket.Transport{CheckOrigin: check},
        },
    }
}

// Mount attaches the Socket.IO server with handlers to the given Gin engine.
func (srv *Server) Mount(r *gin.Engine) *socketio.Server {
    io := socketio.NewServer(srv.options())

    io.OnConnect("/", func(s socketio.Conn) error {
        srv.connect(s)
        return nil
    })

    io.OnEvent("/", game.EvCreateRoom, func(s socketio.Conn, room string) {
        srv.createRoom(s, room)
    })

    io.OnEvent("/", game.EvJoinRoom, func(s socketio.Conn, p playerPayload) {
        srv.joinRoom(s, p)
    })

    io.OnEvent("/", game.EvLeaveRoom, func(s socketio.Conn, p playerPayload) {
        srv.leaveRoom(s, p)
    })

    io.OnEvent("/", game.EvStartGame, func(s socketio.Conn, p roomPayload) {
        srv.startGame(s, p)
    })

    io.OnEvent("/", game.EvPiecePlaced, func(s socketio.Conn, p playerPayload) {
        srv.Coord.PiecePlaced(s, p.Room, p.Player)
    })

    io.OnEvent("/", game.EvLinesCleared, func(s socketio.Conn, p linesPayload) {
        srv.Coord.LinesCleared(s, p.Room, p.Player, p.Lines)
    })

    io.OnEvent("/", game.EvGameOver, func(s socketio.Conn, p playerPayload) {
        srv.Coord.GameOver(s, p.Room, p.Player)
    })

    io.OnEvent("/", game.EvSpectrumUpdate, func(s socketio.Conn, p spectrumPayload) {
        srv.Coord.SpectrumUpdate(s, p.Room, p.Player, p.Spectrum)
    })

    io.OnError("/", func(s socketio.Conn, e error) {
        if s == nil {
            log.Error().Err(e).Msg("socket error")
            return
        }
        log.Error().Str("sid", s.ID()).Err(e).Msg("socket error")
    })

    io.OnDisconnect("/", func(s socketio.Conn, reason string) {
        srv.disconnect(s, reason)
    })

    go func() {
        if err := io.Serve(); err != nil {
            log.Error().Err(err).Msg("socket.io serve")
        }
    }()

    // Mount to router
    r.GET("/socket.io/*any", gin.WrapH(io))
    r.POST("/socket.io/*any", gin.WrapH(io))

    // Basic CORS preflight for Socket.IO POST
    r.OPTIONS("/socket.io/*any", func(c *gin.Context) {
        c.Header("Access-Control-Allow-Origin", srv.config.AllowedOrigin)
        c.Header("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
        c.Header("Access-Control-Allow-Headers", "Content-Type")
        c.Status(http.StatusNoContent)
    })

    return io
}

func (srv *Server) connect(s peer) {
    s.SetContext(&ConnCtx{Sub: &Subscription{}})
    srv.Coord.Connect(s)
    log.Info().Str("sid", s.ID()).Msg("socket connected")
}

func (srv *Server) disconnect(s peer, reason string) {
    if ctx := connCtx(s); ctx != nil {
        ctx.Sub.Close()
    }
    srv.Coord.Disconnect(s)
    log.Info().Str("sid", s.ID()).Str("reason", reason).Msg("socket disconnected")
}

func (srv *Server) createRoom(s peer, room string) {
    log.Info().Str("sid", s.ID()).Str("room", room).Msg(game.EvCreateRoom)
    _ = srv.Coord.CreateRoom(s, room)
}

func (srv *Server) joinRoom(s peer, p playerPayload) {
    log.Info().Str("sid", s.ID()).Str("room", p.Room).Str("player", p.Player).Msg(game.EvJoinRoom)
    if err := srv.Coord.JoinRoom(s, p.Room, p.Player); err != nil {
        return
    }
    if ctx := connCtx(s); ctx != nil {
        ctx.Sub.Add(p.key(), func() { srv.Coord.LeaveRoom(s, p.Room, p.Player) })
    }
}

func (srv *Server) leaveRoom(s peer, p playerPayload) {
    log.Info().Str("sid", s.ID()).Str("room", p.Room).Str("player", p.Player).Msg(game.EvLeaveRoom)
    if !srv.Coord.LeaveRoom(s, p.Room, p.Player) {
        return
    }
    if ctx := connCtx(s); ctx != nil {
        ctx.Sub.Remove(p.key())
    }
}

func (srv *Server) startGame(s peer, p roomPayload) {
    log.Info().Str("sid", s.ID()).Str("room", p.Room).Msg(game.EvStartGame)
    _ = srv.Coord.StartGame(s, p.Room)
}

func connCtx(s peer) *ConnCtx {
    ctx, _ := s.Context().(*ConnCtx)
    return ctx
}
