package main

import (
    "context"
    "errors"
    "fmt"
    "net/http"
    "os"
    "os/signal"
    "strings"
    "syscall"
    "time"

    "github.com/gin-gonic/gin"
    "github.com/kiliankoe/red-tetris/internal/config"
    "github.com/kiliankoe/red-tetris/internal/game"
    "github.com/kiliankoe/red-tetris/internal/ws"
    staticserver "github.com/kiliankoe/red-tetris/static"
    "github.com/rs/zerolog"
    zerologlog "github.com/rs/zerolog/log"
    "github.com/spf13/cobra"
    "golang.org/x/sync/errgroup"
)

var version = "dev" // Set at build time via -ldflags

func main() {
    if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
        os.Exit(1)
    }
}

func newRootCmd() *cobra.Command {
    v := config.New()
    var cfgFile string

    cmd := &cobra.Command{
        Use:     "red-tetris",
        Short:   "Red Tetris - multiplayer Tetris relay server",
        Version: version,
        Long: `Red Tetris - multiplayer Tetris relay server

Environment Variables:
  PORT              Port to listen on (default: 8080)
  LOG_LEVEL         zerolog level (default: info)
  LOG_FORMAT        "console" or "json" (default: console)
  ALLOWED_ORIGIN    Allowed Socket.IO origin (default: *)
  QUEUE_PREFILL     Pieces queued when a game starts (default: 10)
  EXPORT_ENABLED    Append finished games to a file (default: false)
  EXPORT_FILE       Path for exported results (default: ./red-tetris-results.txt)

Visit http://localhost:8080 after starting the server.`,
        SilenceUsage: true,
        RunE: func(cmd *cobra.Command, _ []string) error {
            cfg, err := config.Load(v, cfgFile)
            if err != nil {
                return err
            }
            setupLogging(cfg)
            return run(cmd.Context(), cfg)
        },
    }
    cmd.Flags().StringVar(&cfgFile, "config", "", "Config file (toml, yaml or json)")
    cmd.Flags().String("port", "", "Port to listen on (overrides PORT env var)")
    _ = v.BindPFlag("port", cmd.Flags().Lookup("port"))
    return cmd
}

func setupLogging(cfg config.Config) {
    zerolog.TimeFieldFormat = time.RFC3339
    if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
        zerolog.SetGlobalLevel(lvl)
    }
    if cfg.LogFormat == "console" {
        cw := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
        zerologlog.Logger = zerologlog.Output(cw)
    }
}

func run(parent context.Context, cfg config.Config) error {
    ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
    defer stop()

    opts := []game.Option{game.WithLogger(zerologlog.Logger), game.WithQueuePrefill(cfg.QueuePrefill)}
    if cfg.ExportEnabled {
        opts = append(opts, game.WithResultSink(game.NewFileExporter(cfg.ExportFile)))
    }
    coord := game.NewCoordinator(game.NewRegistry(), opts...)

    r := newRouter(coord)
    sock := ws.New(coord, cfg)
    io := sock.Mount(r)
    defer io.Close()

    // Serve frontend for all other routes
    r.NoRoute(func(c *gin.Context) {
        staticserver.Handler().ServeHTTP(c.Writer, c.Request)
    })

    httpSrv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
    g, gCtx := errgroup.WithContext(ctx)
    g.Go(func() error {
        zerologlog.Info().Str("port", cfg.Port).Str("version", version).Msg("listening")
        if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
            return fmt.Errorf("http server: %w", err)
        }
        return nil
    })
    g.Go(func() error {
        <-gCtx.Done()
        zerologlog.Info().Msg("shutting down")
        shCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
        defer cancel()
        return httpSrv.Shutdown(shCtx)
    })
    return g.Wait()
}

func newRouter(coord *game.Coordinator) *gin.Engine {
    // Gin setup with custom logger (skip /socket.io noise)
    gin.SetMode(gin.ReleaseMode)
    r := gin.New()
    r.Use(gin.Recovery())
    r.Use(func(c *gin.Context) {
        start := time.Now()
        c.Next()
        path := c.Request.URL.Path
        if strings.HasPrefix(path, "/socket.io") {
            return
        }
        status := c.Writer.Status()
        dur := time.Since(start)
        zerologlog.Info().Str("path", path).Int("status", status).Dur("dur", dur).Msg("http")
    })

    r.GET("/health", func(c *gin.Context) {
        c.JSON(http.StatusOK, gin.H{"ok": true, "time": time.Now().UTC()})
    })

    r.GET("/api/rooms", func(c *gin.Context) {
        c.JSON(http.StatusOK, gin.H{"rooms": coord.Rooms()})
    })
    return r
}
