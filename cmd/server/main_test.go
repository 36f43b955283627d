package main

import (
    "encoding/json"
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/kiliankoe/red-tetris/internal/game"
    "github.com/rs/zerolog"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
    r := newRouter(game.NewCoordinator(game.NewRegistry(), game.WithLogger(zerolog.Nop())))
    rec := httptest.NewRecorder()
    r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

    require.Equal(t, http.StatusOK, rec.Code)
    var body map[string]any
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
    assert.Equal(t, true, body["ok"])
}

func TestRoomsEndpoint(t *testing.T) {
    coord := game.NewCoordinator(game.NewRegistry(), game.WithLogger(zerolog.Nop()))
    coord.Registry().Ensure("R42", "")
    r := newRouter(coord)

    rec := httptest.NewRecorder()
    r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/rooms", nil))
    require.Equal(t, http.StatusOK, rec.Code)

    var body struct {
        Rooms []game.RoomInfo `json:"rooms"`
    }
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
    assert.Equal(t, []game.RoomInfo{{Name: "R42", Players: 0, Phase: game.PhaseLobby}}, body.Rooms)
}

func TestRootCmdFlags(t *testing.T) {
    cmd := newRootCmd()
    assert.NotNil(t, cmd.Flags().Lookup("port"))
    assert.NotNil(t, cmd.Flags().Lookup("config"))
    assert.Equal(t, version, cmd.Version)
}
