package main_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	digitalpin "kpf5297/digitalpin"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*httptest.Server, *digitalpin.Board, func(int) bool) {
	t.Helper()

	board, sim := newSimBoard(t, "")

	server := httptest.NewServer(digitalpin.NewRouter(board))
	t.Cleanup(server.Close)

	return server, board, sim.Level
}

func TestGetPins(t *testing.T) {
	server, board, _ := newTestServer(t)

	require.NoError(t, board.SetOutput(true))

	resp, err := http.Get(server.URL + "/api/pins")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var states []digitalpin.PinState
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&states))
	require.Len(t, states, 2)
	assert.Equal(t, "LED", states[0].Label)
	assert.True(t, states[0].State)
	assert.Equal(t, "Button", states[1].Label)
	assert.False(t, states[1].State)
}

func TestPostOutput(t *testing.T) {
	server, _, level := newTestServer(t)

	resp, err := http.Post(server.URL+"/api/pins/output", "application/json",
		strings.NewReader(`{"state": true}`))
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, level(17))
}

func TestPostOutputBadBody(t *testing.T) {
	server, _, level := newTestServer(t)

	resp, err := http.Post(server.URL+"/api/pins/output", "application/json",
		strings.NewReader(`{"state": "maybe"`))
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, level(17))
}
