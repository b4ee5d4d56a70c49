/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Jeopardy board
//
// Each game lives at $path/:gameid and owns one board, fetched from the
// trivia API when someone presses Start. Everyone connected to the same
// game ID sees the same board over a websocket.
//
// Features:
// - WebSockets per game ID: /path/:gameid and /path/:gameid/ws
// - Start/Restart builds a fresh 6x5 board; the button is disabled while loading
// - Clicking a cell shows its question, then its answer; further clicks do nothing
// - Setup failures show one error message and re-enable the button
// - Clients identified by cookie
// - Games auto-reaped after configurable idle timeout
// - Random 8-char game IDs via crypto/rand, with server-side collision check
// - In-browser QR button to share the current game, backed by go-qrcode

package main

import (
	"context"
	"crypto/rand"
	_ "embed"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Seednode/jeopardy/trivia"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

const maxMessageSize = 4096

type boardLoader interface {
	Load(ctx context.Context) (*trivia.Board, error)
}

// Messages coming from clients
type ClientMessage struct {
	Type string `json:"type"`           // "start", "reveal"
	Cell *int   `json:"cell,omitempty"` // reveal
}

// BoardStateMessage is broadcast whenever anything visible changes.
type BoardStateMessage struct {
	Type string `json:"type"` // "board_state"
	trivia.View
}

// SimpleMessage is for notifications sent to a single client ("busy", "error").
type SimpleMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type Client struct {
	conn     *websocket.Conn
	send     chan any
	clientID string
}

type revealRequest struct {
	client *Client
	cell   int
}

type setupResult struct {
	board *trivia.Board
	err   error
	took  time.Duration
}

type Hub struct {
	id      string
	clients map[*Client]bool
	session trivia.Session
	loader  boardLoader

	register chan *Client
	unreg    chan *Client
	starts   chan *Client
	reveals  chan revealRequest
	results  chan setupResult

	ctx    context.Context
	cancel context.CancelFunc

	mu sync.RWMutex

	createdAt  time.Time
	lastActive time.Time
}

func newHub(gameID string, loader boardLoader) *Hub {
	now := time.Now()
	ctx, cancel := context.WithCancel(context.Background())

	return &Hub{
		id:         gameID,
		clients:    make(map[*Client]bool),
		loader:     loader,
		register:   make(chan *Client),
		unreg:      make(chan *Client),
		starts:     make(chan *Client),
		reveals:    make(chan revealRequest),
		results:    make(chan setupResult),
		ctx:        ctx,
		cancel:     cancel,
		createdAt:  now,
		lastActive: now,
	}
}

// run owns the session: every event is handled to completion here before
// the next one is read.
func (h *Hub) run(cfg *Config) {
	for {
		select {
		case <-h.ctx.Done():
			return

		case c := <-h.register:
			h.mu.Lock()
			h.lastActive = time.Now()
			h.clients[c] = true
			h.sendLocked(c, h.stateLocked())
			h.mu.Unlock()

		case c := <-h.unreg:
			h.mu.Lock()
			h.lastActive = time.Now()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()

		case c := <-h.starts:
			h.handleStart(cfg, c)

		case rr := <-h.reveals:
			h.handleReveal(cfg, rr)

		case res := <-h.results:
			h.handleResult(cfg, res)
		}
	}
}

func (h *Hub) stateLocked() BoardStateMessage {
	return BoardStateMessage{
		Type: "board_state",
		View: h.session.View(),
	}
}

// sendLocked drops clients that cannot keep up.
func (h *Hub) sendLocked(c *Client, msg any) {
	if !h.clients[c] {
		return
	}

	select {
	case c.send <- msg:
	default:
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) broadcastLocked(msg any) {
	for client := range h.clients {
		h.sendLocked(client, msg)
	}
}

// handleStart begins loading a new board, unless one is already loading.
func (h *Hub) handleStart(cfg *Config, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.lastActive = time.Now()

	if err := h.session.Begin(); err != nil {
		h.sendLocked(c, SimpleMessage{
			Type:    "busy",
			Message: "A board is already loading.",
		})
		return
	}

	logf(cfg, "GAMES: Loading board for %s (requested by %s)", h.id, c.clientID)

	h.broadcastLocked(h.stateLocked())

	go h.load()
}

func (h *Hub) load() {
	startTime := time.Now()

	board, err := h.loader.Load(h.ctx)

	select {
	case h.results <- setupResult{board: board, err: err, took: time.Since(startTime)}:
	case <-h.ctx.Done():
	}
}

func (h *Hub) handleResult(cfg *Config, res setupResult) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.lastActive = time.Now()
	h.session.Finish(res.board, res.err)

	if res.err != nil {
		logf(cfg, "GAMES: Board setup failed for %s after %s: %v", h.id, res.took.Round(time.Millisecond), res.err)
	} else {
		logf(cfg, "GAMES: Loaded board for %s in %s", h.id, res.took.Round(time.Millisecond))
	}

	h.broadcastLocked(h.stateLocked())
}

// handleReveal advances one cell and rebroadcasts the board if it changed.
func (h *Hub) handleReveal(cfg *Config, rr revealRequest) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.lastActive = time.Now()

	changed, err := h.session.Reveal(rr.cell)
	if err != nil {
		h.sendLocked(rr.client, SimpleMessage{
			Type:    "error",
			Message: "That cell does not exist.",
		})
		return
	}
	if !changed {
		return
	}

	logf(cfg, "GAMES: Cell %d revealed in %s by %s", rr.cell, h.id, rr.client.clientID)

	h.broadcastLocked(h.stateLocked())
}

// closeAll stops the hub and disconnects all of its clients (used by reaper).
func (h *Hub) closeAll() {
	h.cancel()

	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		close(c.send)
		_ = c.conn.Close()
		delete(h.clients, c)
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:   1024,
	WriteBufferSize:  1024,
	HandshakeTimeout: timeout,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const clientCookieName = "jeopardy_id"

func getOrSetClientID(cfg *Config, w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(clientCookieName); err == nil && c.Value != "" {
		return c.Value
	}

	id := uuid.NewString()

	http.SetCookie(w, &http.Cookie{
		Name:     clientCookieName,
		Value:    id,
		Path:     cfg.prefix + "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return id
}

// GameManager holds a set of hubs keyed by game ID, so each $path/$gameid
// is its own isolated board.
type GameManager struct {
	mu          sync.Mutex
	hubs        map[string]*Hub
	idleTimeout time.Duration
	loaders     func() boardLoader
	stop        chan struct{}
	stopOnce    sync.Once
}

func newGameManager(idleTimeout time.Duration, loaders func() boardLoader) *GameManager {
	gm := &GameManager{
		hubs:        make(map[string]*Hub),
		idleTimeout: idleTimeout,
		loaders:     loaders,
		stop:        make(chan struct{}),
	}
	if idleTimeout > 0 {
		go gm.reaperLoop()
	}
	return gm
}

func (gm *GameManager) getHub(cfg *Config, gameID string) *Hub {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if hub, ok := gm.hubs[gameID]; ok {
		return hub
	}

	hub := newHub(gameID, gm.loaders())
	gm.hubs[gameID] = hub
	go hub.run(cfg)
	return hub
}

func (gm *GameManager) count() int {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	return len(gm.hubs)
}

const gameIDLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

func randomGameID(n int) string {
	const max = byte(255 - (256 % len(gameIDLetters)))

	out := make([]byte, 0, n)
	buf := make([]byte, n*2)

	for len(out) < n {
		if _, err := rand.Read(buf); err != nil {
			panic("crypto/rand failure: " + err.Error())
		}

		for _, b := range buf {
			if b <= max {
				out = append(out, gameIDLetters[int(b)%len(gameIDLetters)])
				if len(out) == n {
					return string(out)
				}
			}
		}
	}

	return string(out)
}

// newGameID generates a crypto-random game ID and ensures it doesn't
// collide with existing games.
func (gm *GameManager) newGameID() string {
	for {
		id := randomGameID(8)

		gm.mu.Lock()
		_, exists := gm.hubs[id]
		gm.mu.Unlock()

		if !exists {
			return id
		}
	}
}

// reapIdle removes hubs that have been idle since before cutoff.
func (gm *GameManager) reapIdle(cutoff time.Time) int {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	reaped := 0
	for id, hub := range gm.hubs {
		hub.mu.RLock()
		last := hub.lastActive
		hub.mu.RUnlock()

		if last.Before(cutoff) {
			delete(gm.hubs, id)
			go hub.closeAll()
			reaped++
		}
	}

	return reaped
}

func (gm *GameManager) reaperLoop() {
	ticker := time.NewTicker(gm.idleTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-gm.stop:
			return
		case <-ticker.C:
			gm.reapIdle(time.Now().Add(-gm.idleTimeout))
		}
	}
}

// Close stops the reaper and ends every game.
func (gm *GameManager) Close() {
	gm.stopOnce.Do(func() {
		close(gm.stop)
	})

	gm.mu.Lock()
	defer gm.mu.Unlock()

	for id, hub := range gm.hubs {
		delete(gm.hubs, id)
		hub.closeAll()
	}
}

// WebSocket handler that picks the hub based on :gameid
func serveWSForManager(cfg *Config, gm *GameManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		gameID := ps.ByName("gameid")
		if gameID == "" {
			http.Error(w, "missing game id", http.StatusBadRequest)
			return
		}

		clientID := getOrSetClientID(cfg, w, r)

		hub := gm.getHub(cfg, gameID)

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logf(cfg, "ERROR: websocket upgrade for %s failed: %v", gameID, err)
			return
		}
		conn.SetReadLimit(maxMessageSize)

		client := &Client{
			conn:     conn,
			send:     make(chan any, 8),
			clientID: clientID,
		}

		select {
		case hub.register <- client:
		case <-hub.ctx.Done():
			_ = conn.Close()
			return
		}

		logf(cfg, "GAMES: Client %s (%s) connected to %s", clientID, realIP(r), gameID)

		go client.writePump()
		client.readPump(hub)
	}
}

func (c *Client) readPump(h *Hub) {
	defer func() {
		select {
		case h.unreg <- c:
		case <-h.ctx.Done():
		}
		_ = c.conn.Close()
	}()

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		switch msg.Type {
		case "start":
			select {
			case h.starts <- c:
			case <-h.ctx.Done():
				return
			}
		case "reveal":
			if msg.Cell == nil {
				continue
			}
			select {
			case h.reveals <- revealRequest{client: c, cell: *msg.Cell}:
			case <-h.ctx.Done():
				return
			}
		default:
			// ignore unknown types
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

// QR handler: generates a PNG QR code for the current game URL using go-qrcode.
func qrHandler(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		gameID := ps.ByName("gameid")
		if gameID == "" {
			http.Error(w, "missing game id", http.StatusBadRequest)
			return
		}

		// Derive scheme (respecting TLS and X-Forwarded-Proto if present).
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		}

		// We are at /.../:gameid/qr; strip trailing "/qr" to get the game URL.
		path := strings.TrimSuffix(r.URL.Path, "/qr")

		url := scheme + "://" + r.Host + path

		const qrSize = 320
		png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
		if err != nil {
			http.Error(w, "qr generation failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		securityHeaders(cfg, w)
		_, _ = w.Write(png)
	}
}

//go:embed jeopardy/index.html
var indexHTML []byte

func getIndexHandler(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		securityHeaders(cfg, w)

		_ = getOrSetClientID(cfg, w, r)

		_, _ = w.Write(indexHTML)
	}
}

// redirectNewGame handles GET /path by generating a new random game ID
// (with server-side collision detection) and redirecting to /path/:gameid.
func redirectNewGame(cfg *Config, path string, gm *GameManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		gameID := gm.newGameID()
		logf(cfg, "GAMES: Created game %s/%s", path, gameID)
		http.Redirect(w, r, cfg.prefix+path+"/"+gameID, http.StatusTemporaryRedirect)
	}
}

// registerJeopardyGame sets up routes so that:
//   - $path                  → redirects to new random game (8-char ID)
//   - $path/:gameid          → HTML client
//   - $path/:gameid/ws       → WebSocket for that game
//   - $path/:gameid/qr       → PNG QR code for that game URL
func registerJeopardyGame(cfg *Config, path string, mux *httprouter.Router, loaders func() boardLoader) *GameManager {
	gm := newGameManager(cfg.sessionTimeout, loaders)

	mux.GET(cfg.prefix+path, redirectNewGame(cfg, path, gm))

	mux.GET(cfg.prefix+path+"/:gameid", getIndexHandler(cfg))

	mux.GET(cfg.prefix+path+"/:gameid/ws", serveWSForManager(cfg, gm))

	mux.GET(cfg.prefix+path+"/:gameid/qr", qrHandler(cfg))

	return gm
}
