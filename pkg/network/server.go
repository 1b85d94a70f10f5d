// Package network provides multiplayer server functionality.
// This file implements Server which handles authoritative game state,
// client connections, and state synchronization for multiplayer games.
package network

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// ServerConfig holds configuration for the network server.
type ServerConfig struct {
	Address      string        // Listen address (host:port)
	MaxPlayers   int           // Maximum number of concurrent players
	ReadTimeout  time.Duration // Timeout for reading from clients
	WriteTimeout time.Duration // Timeout for writing to clients
	UpdateRate   int           // State updates per second
	BufferSize   int           // Size of send/receive buffers per client

	// InputRateLimit and InputRateBurst bound how many input commands per
	// second a single client may submit before the server starts dropping
	// them; a client flooding the server cannot starve the others.
	InputRateLimit float64
	InputRateBurst int
}

// DefaultServerConfig returns a server configuration with sensible defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Address:        ":8080",
		MaxPlayers:     32,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   5 * time.Second,
		UpdateRate:     20, // 20 updates/second
		BufferSize:     256,
		InputRateLimit: 60, // one input command per tick at 60Hz
		InputRateBurst: 10,
	}
}

var messageCodec = NewMessageCodec()

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Server handles server-side networking for multiplayer, accepting
// WebSocket connections on an HTTP listener.
type Server struct {
	config   ServerConfig
	protocol Protocol

	httpServer *http.Server
	running    bool
	runningMu  sync.Mutex

	// Client management
	clients      map[uint64]*clientConnection
	clientsMu    sync.RWMutex
	nextPlayerID uint64

	// Channels for game logic
	inputCommands chan *InputCommand
	playerJoins   chan PlayerJoinEvent
	playerLeaves  chan uint64
	chunkRequests chan ChunkRequestEvent
	errors        chan error

	// Shutdown coordination: cancel tears down every client handler and the
	// HTTP listener; group joins them so Stop can block until they exit.
	ctx    context.Context
	cancel context.CancelFunc
	group  *errgroup.Group
	connWG sync.WaitGroup

	// State tracking
	stateSeq uint32
	stateMu  sync.Mutex
}

// clientConnection represents a connected client over a WebSocket.
type clientConnection struct {
	playerID   uint64
	conn       *websocket.Conn
	address    string
	connected  bool
	lastActive time.Time
	limiter    *rate.Limiter

	stateUpdates chan *StateUpdate

	// rawMessages carries pre-encoded wire messages (PlayerJoin replies,
	// ChunksLoaded/ChunksUnloaded, etc.) that don't fit the StateUpdate
	// shape, produced by MessageCodec rather than BinaryProtocol.
	rawMessages chan []byte

	mu sync.RWMutex
}

// NewServer creates a new network server.
func NewServer(config ServerConfig) *Server {
	return &Server{
		config:        config,
		protocol:      NewBinaryProtocol(),
		clients:       make(map[uint64]*clientConnection),
		nextPlayerID:  1,
		inputCommands: make(chan *InputCommand, config.BufferSize*config.MaxPlayers),
		playerJoins:   make(chan PlayerJoinEvent, config.MaxPlayers),
		playerLeaves:  make(chan uint64, config.MaxPlayers),
		chunkRequests: make(chan ChunkRequestEvent, config.MaxPlayers),
		errors:        make(chan error, 64),
	}
}

// Start begins listening for client WebSocket connections.
func (s *Server) Start() error {
	s.runningMu.Lock()
	if s.running {
		s.runningMu.Unlock()
		return fmt.Errorf("server already running")
	}

	s.ctx, s.cancel = context.WithCancel(context.Background())
	group, ctx := errgroup.WithContext(s.ctx)
	s.group = group

	router := mux.NewRouter()
	router.HandleFunc("/ws", s.handleUpgrade)
	router.Handle("/metrics", promhttp.Handler())

	s.httpServer = &http.Server{
		Addr:         s.config.Address,
		Handler:      router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.running = true
	s.runningMu.Unlock()

	s.group.Go(func() error {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	})
	s.group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	})

	return nil
}

// Stop shuts down the server, disconnecting all clients and waiting for
// every connection handler to exit.
func (s *Server) Stop() error {
	s.runningMu.Lock()
	if !s.running {
		s.runningMu.Unlock()
		return nil
	}
	s.running = false
	s.runningMu.Unlock()

	s.cancel()

	s.clientsMu.Lock()
	for _, client := range s.clients {
		client.disconnect()
	}
	s.clientsMu.Unlock()

	s.connWG.Wait()

	return s.group.Wait()
}

// IsRunning returns whether the server is running.
func (s *Server) IsRunning() bool {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()
	return s.running
}

// GetPlayerCount returns the number of connected players.
func (s *Server) GetPlayerCount() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}

// GetPlayers returns a list of connected player IDs.
func (s *Server) GetPlayers() []uint64 {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	players := make([]uint64, 0, len(s.clients))
	for playerID := range s.clients {
		players = append(players, playerID)
	}
	return players
}

// BroadcastStateUpdate sends a state update to all connected clients.
func (s *Server) BroadcastStateUpdate(update *StateUpdate) {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	s.stateMu.Lock()
	update.SequenceNumber = s.stateSeq
	s.stateSeq++
	s.stateMu.Unlock()

	for _, client := range s.clients {
		client.sendStateUpdate(update)
	}
}

// SendStateUpdate sends a state update to a specific client.
func (s *Server) SendStateUpdate(playerID uint64, update *StateUpdate) error {
	s.clientsMu.RLock()
	client, exists := s.clients[playerID]
	s.clientsMu.RUnlock()

	if !exists {
		return fmt.Errorf("player %d not connected", playerID)
	}

	s.stateMu.Lock()
	update.SequenceNumber = s.stateSeq
	s.stateSeq++
	s.stateMu.Unlock()

	client.sendStateUpdate(update)
	return nil
}

// SendRawMessage delivers a pre-encoded wire message (as produced by
// MessageCodec) to a specific client, bypassing the StateUpdate
// envelope. Used for message kinds BinaryProtocol doesn't shape, like
// GameStateSnapshot or ChunksLoaded.
func (s *Server) SendRawMessage(playerID uint64, data []byte) error {
	s.clientsMu.RLock()
	client, exists := s.clients[playerID]
	s.clientsMu.RUnlock()

	if !exists {
		return fmt.Errorf("player %d not connected", playerID)
	}

	client.mu.RLock()
	defer client.mu.RUnlock()
	if !client.connected {
		return fmt.Errorf("player %d not connected", playerID)
	}

	select {
	case client.rawMessages <- data:
	default:
		return fmt.Errorf("player %d raw message buffer full", playerID)
	}
	return nil
}

// ReceiveInputCommand returns a channel for receiving input commands from clients.
func (s *Server) ReceiveInputCommand() <-chan *InputCommand {
	return s.inputCommands
}

// PlayerJoinEvent carries the character choices a client sent in its
// handshake PlayerJoin message, paired with the player ID the server
// assigned on upgrade.
type PlayerJoinEvent struct {
	PlayerID uint64
	Name     string
	Species  string
	Class    string
}

// ReceivePlayerJoin returns a channel for receiving player join events.
func (s *Server) ReceivePlayerJoin() <-chan PlayerJoinEvent {
	return s.playerJoins
}

// ReceivePlayerLeave returns a channel for receiving player leave events.
func (s *Server) ReceivePlayerLeave() <-chan uint64 {
	return s.playerLeaves
}

// ReceiveError returns a channel for receiving errors.
func (s *Server) ReceiveError() <-chan error {
	return s.errors
}

// ChunkRequestEvent is a decoded RequestChunks message paired with the
// player that sent it.
type ChunkRequestEvent struct {
	PlayerID uint64
	Coords   []ChunkCoordWire
}

// ReceiveChunkRequest returns a channel for receiving client chunk
// requests (proactive RequestChunks messages, not proximity streaming).
func (s *Server) ReceiveChunkRequest() <-chan ChunkRequestEvent {
	return s.chunkRequests
}

// handleUpgrade upgrades an incoming HTTP request to a WebSocket connection
// and registers the resulting client.
func (s *Server) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	s.clientsMu.RLock()
	playerCount := len(s.clients)
	s.clientsMu.RUnlock()

	if playerCount >= s.config.MaxPlayers {
		http.Error(w, "server full", http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.errors <- fmt.Errorf("websocket upgrade error: %w", err)
		return
	}

	joinMsg, err := s.readJoinHandshake(conn)
	if err != nil {
		s.errors <- fmt.Errorf("join handshake error: %w", err)
		conn.Close()
		return
	}

	s.clientsMu.Lock()
	playerID := s.nextPlayerID
	s.nextPlayerID++

	client := &clientConnection{
		playerID:     playerID,
		conn:         conn,
		address:      conn.RemoteAddr().String(),
		connected:    true,
		lastActive:   time.Now(),
		limiter:      rate.NewLimiter(rate.Limit(s.config.InputRateLimit), s.config.InputRateBurst),
		stateUpdates: make(chan *StateUpdate, s.config.BufferSize),
		rawMessages:  make(chan []byte, s.config.BufferSize),
	}
	s.clients[playerID] = client
	s.clientsMu.Unlock()

	event := PlayerJoinEvent{
		PlayerID: playerID,
		Name:     joinMsg.Name,
		Species:  joinMsg.Species,
		Class:    joinMsg.Class,
	}
	select {
	case s.playerJoins <- event:
	default:
		s.errors <- fmt.Errorf("player join channel full, dropped event for player %d", playerID)
	}

	s.connWG.Add(2)
	go s.handleClientReceive(client)
	go s.handleClientSend(client)
}

// readJoinHandshake blocks for the first frame a newly upgraded connection
// sends and requires it to be a PlayerJoin message. The server assigns a
// player ID and starts the read/send loops only once the handshake
// succeeds, so a misbehaving client never occupies a connection slot.
func (s *Server) readJoinHandshake(conn *websocket.Conn) (*PlayerJoin, error) {
	conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
	_, data, err := conn.ReadMessage()
	if err != nil {
		return nil, fmt.Errorf("reading handshake frame: %w", err)
	}

	msgType, body, err := PeekMessageType(data)
	if err != nil {
		return nil, err
	}
	if msgType != MessageTypePlayerJoin {
		return nil, fmt.Errorf("expected PlayerJoin as first frame, got type %d", msgType)
	}

	return messageCodec.DecodePlayerJoin(body)
}

// handleClientReceive receives input commands from a client.
func (s *Server) handleClientReceive(client *clientConnection) {
	defer s.connWG.Done()
	defer s.disconnectClient(client.playerID)

	for {
		select {
		case <-s.ctx.Done():
			return
		default:
		}

		client.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))

		_, data, err := client.conn.ReadMessage()
		if err != nil {
			if s.IsRunning() && client.isConnected() {
				s.errors <- fmt.Errorf("player %d read error: %w", client.playerID, err)
			}
			return
		}

		client.mu.Lock()
		client.lastActive = time.Now()
		client.mu.Unlock()

		if !client.limiter.Allow() {
			continue // client is exceeding its input rate; drop silently
		}

		s.dispatchClientMessage(client, data)
	}
}

// dispatchClientMessage routes a raw inbound frame by its leading
// MessageType byte. PlayerInput is translated into the InputCommand
// shape the tick-driven gameplay handlers already consume; RequestChunks
// is peeled off into its own channel; anything else is logged and
// dropped rather than guessed at.
func (s *Server) dispatchClientMessage(client *clientConnection, data []byte) {
	msgType, body, err := PeekMessageType(data)
	if err != nil {
		s.errors <- fmt.Errorf("player %d message framing error: %w", client.playerID, err)
		return
	}

	switch msgType {
	case MessageTypePlayerInput:
		input, err := messageCodec.DecodePlayerInput(body)
		if err != nil {
			s.errors <- fmt.Errorf("player %d input decode error: %w", client.playerID, err)
			return
		}
		cmd := inputCommandFromPlayerInput(client.playerID, input)
		select {
		case s.inputCommands <- cmd:
		case <-s.ctx.Done():
		default:
			// Drop if full
		}

	case MessageTypeRequestChunks:
		req, err := messageCodec.DecodeRequestChunks(body)
		if err != nil {
			s.errors <- fmt.Errorf("player %d chunk request decode error: %w", client.playerID, err)
			return
		}
		event := ChunkRequestEvent{PlayerID: client.playerID, Coords: req.Coords}
		select {
		case s.chunkRequests <- event:
		case <-s.ctx.Done():
		default:
		}

	default:
		s.errors <- fmt.Errorf("player %d sent unhandled message type %d", client.playerID, msgType)
	}
}

// inputCommandFromPlayerInput adapts the tagged wire PlayerInput message
// into the InputCommand shape submitInputCommand (cmd/server) already
// knows how to turn into a queued input-buffer intent. Movement and
// action share one command rather than two, since a single PlayerInput
// frame always carries both.
func inputCommandFromPlayerInput(playerID uint64, input *PlayerInput) *InputCommand {
	data := make([]byte, 3)
	data[0] = byte(int8(input.MoveX * 127))
	data[1] = byte(int8(input.MoveY * 127))
	data[2] = byte(input.Action)

	return &InputCommand{
		PlayerID:       playerID,
		Timestamp:      input.ClientTimeMS,
		SequenceNumber: input.SequenceNumber,
		InputType:      "move",
		Data:           data,
	}
}

// handleClientSend sends queued state updates to a client as binary
// WebSocket frames.
func (s *Server) handleClientSend(client *clientConnection) {
	defer s.connWG.Done()

	for {
		select {
		case <-s.ctx.Done():
			return

		case update, ok := <-client.stateUpdates:
			if !ok {
				return
			}

			data, err := s.protocol.EncodeStateUpdate(update)
			if err != nil {
				s.errors <- fmt.Errorf("player %d encode error: %w", client.playerID, err)
				continue
			}

			client.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
			if err := client.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
				if s.IsRunning() && client.isConnected() {
					s.errors <- fmt.Errorf("player %d write error: %w", client.playerID, err)
				}
				return
			}

		case data, ok := <-client.rawMessages:
			if !ok {
				return
			}
			client.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
			if err := client.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
				if s.IsRunning() && client.isConnected() {
					s.errors <- fmt.Errorf("player %d write error: %w", client.playerID, err)
				}
				return
			}
		}
	}
}

// disconnectClient removes a client from the server.
func (s *Server) disconnectClient(playerID uint64) {
	s.clientsMu.Lock()
	client, exists := s.clients[playerID]
	if exists {
		client.disconnect()
		delete(s.clients, playerID)
	}
	s.clientsMu.Unlock()

	if exists {
		select {
		case s.playerLeaves <- playerID:
		case <-s.ctx.Done():
		default:
			s.errors <- fmt.Errorf("player leave channel full, dropped event for player %d", playerID)
		}
	}
}

// clientConnection methods

func (c *clientConnection) isConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

func (c *clientConnection) disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.connected {
		c.connected = false
		if c.conn != nil {
			c.conn.Close()
		}
		close(c.stateUpdates)
		close(c.rawMessages)
	}
}

func (c *clientConnection) sendStateUpdate(update *StateUpdate) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.connected {
		return
	}

	select {
	case c.stateUpdates <- update:
	default:
		// Drop if full (prioritize fresh updates)
	}
}
