// ABOUTME: WebSocket remote control server
// ABOUTME: Lets remotes on the network drive the player and follow its events
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/Chorus-Player/chorus-go/internal/version"
	"github.com/Chorus-Player/chorus-go/pkg/audio"
	"github.com/Chorus-Player/chorus-go/pkg/player"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Controller is the playback surface remotes drive. Both player
// front-ends satisfy it.
type Controller interface {
	Play()
	Pause()
	Seek(time.Duration)
	SetVolume(float64)
	Position() time.Duration
	Volume() float64
	State() player.State
	Metadata() audio.Metadata
	On(player.EventType, player.Listener) int
	Off(player.EventType, int)
}

// Config configures the remote control server
type Config struct {
	// Port to listen on (default: 8942)
	Port int

	// Name of this player shown to remotes
	Name string
}

// Server accepts remote control connections at /chorus
type Server struct {
	config   Config
	playerID string
	ctrl     Controller

	upgrader   websocket.Upgrader
	httpServer *http.Server

	clients   map[string]*remoteClient
	clientsMu sync.RWMutex

	listenerIDs map[player.EventType]int

	stopOnce sync.Once
}

// remoteClient is one connected remote
type remoteClient struct {
	id       string
	name     string
	conn     *websocket.Conn
	sendChan chan Message
}

// NewServer creates a remote control server driving the controller
func NewServer(config Config, ctrl Controller) *Server {
	if config.Port == 0 {
		config.Port = 8942
	}
	if config.Name == "" {
		config.Name = "Chorus Player"
	}

	return &Server{
		config:   config,
		playerID: uuid.New().String(),
		ctrl:     ctrl,
		upgrader: websocket.Upgrader{
			// Remotes live on the local network, accept all origins
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients:     make(map[string]*remoteClient),
		listenerIDs: make(map[player.EventType]int),
	}
}

// Start begins listening and mirroring player events to remotes
func (s *Server) Start() error {
	s.subscribeEvents()

	mux := http.NewServeMux()
	mux.HandleFunc("/chorus", s.HandleWebSocket)

	addr := fmt.Sprintf(":%d", s.config.Port)
	s.httpServer = &http.Server{Addr: addr, Handler: mux}

	log.Printf("Remote control listening on %s", addr)

	go func() {
		if err := s.httpServer.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("Remote control server error: %v", err)
		}
	}()

	return nil
}

// Stop disconnects all remotes and stops listening
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		for ev, id := range s.listenerIDs {
			s.ctrl.Off(ev, id)
		}

		s.clientsMu.Lock()
		for _, c := range s.clients {
			close(c.sendChan)
			c.conn.Close()
		}
		s.clients = make(map[string]*remoteClient)
		s.clientsMu.Unlock()

		if s.httpServer != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			s.httpServer.Shutdown(ctx)
		}
	})
}

// subscribeEvents mirrors every player event to connected remotes
func (s *Server) subscribeEvents() {
	mirrored := []player.EventType{
		player.EventLoaded,
		player.EventPlay,
		player.EventPause,
		player.EventEnded,
		player.EventSeeked,
		player.EventVolumeChange,
		player.EventError,
	}

	for _, ev := range mirrored {
		ev := ev
		s.listenerIDs[ev] = s.ctrl.On(ev, func(e player.Event) {
			payload := EventPayload{
				Event:    string(e.Type),
				Position: e.Position.Seconds(),
				Volume:   e.Volume,
			}
			if e.Err != nil {
				payload.Error = e.Err.Error()
			}
			s.broadcast(Message{Type: TypeEvent, Payload: payload})
		})
	}
}

// HandleWebSocket upgrades a remote connection. Exported so tests and
// embedding servers can mount it on their own mux.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	log.Printf("Remote connection from %s", r.RemoteAddr)
	s.handleConnection(conn)
}

func (s *Server) handleConnection(conn *websocket.Conn) {
	defer conn.Close()

	// The remote speaks first with a hello
	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		log.Printf("Error reading hello: %v", err)
		return
	}
	if msg.Type != TypeHello {
		log.Printf("Expected hello, got %s", msg.Type)
		return
	}

	var hello HelloPayload
	if raw, err := json.Marshal(msg.Payload); err == nil {
		json.Unmarshal(raw, &hello)
	}
	if hello.Name == "" {
		hello.Name = "remote"
	}

	c := &remoteClient{
		id:       uuid.New().String(),
		name:     hello.Name,
		conn:     conn,
		sendChan: make(chan Message, 32),
	}

	s.clientsMu.Lock()
	s.clients[c.id] = c
	s.clientsMu.Unlock()
	log.Printf("Remote registered: %s (ID: %s)", c.name, c.id)

	defer func() {
		s.clientsMu.Lock()
		if _, ok := s.clients[c.id]; ok {
			delete(s.clients, c.id)
			close(c.sendChan)
		}
		s.clientsMu.Unlock()
		log.Printf("Remote disconnected: %s", c.name)
	}()

	go c.writeLoop()

	s.send(c, Message{Type: TypeWelcome, Payload: WelcomePayload{
		PlayerID: s.playerID,
		Name:     s.config.Name,
		Version:  version.Version,
	}})
	s.send(c, Message{Type: TypeState, Payload: s.snapshot()})

	s.readLoop(c)
}

// readLoop dispatches remote commands to the controller
func (s *Server) readLoop(c *remoteClient) {
	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		switch msg.Type {
		case TypePlay:
			s.ctrl.Play()
		case TypePause:
			s.ctrl.Pause()
		case TypeSeek:
			var p SeekPayload
			if decodePayload(msg.Payload, &p) {
				s.ctrl.Seek(time.Duration(p.Seconds * float64(time.Second)))
			}
		case TypeVolume:
			var p VolumePayload
			if decodePayload(msg.Payload, &p) {
				s.ctrl.SetVolume(p.Volume)
			}
		default:
			log.Printf("Unknown remote command: %s", msg.Type)
		}
	}
}

func (c *remoteClient) writeLoop() {
	for msg := range c.sendChan {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

// snapshot captures the current playback state for remotes
func (s *Server) snapshot() StatePayload {
	meta := s.ctrl.Metadata()
	return StatePayload{
		State:    string(s.ctrl.State()),
		Position: s.ctrl.Position().Seconds(),
		Duration: meta.Duration.Seconds(),
		Volume:   s.ctrl.Volume(),
		Tags:     meta.Tags,
	}
}

// broadcast queues a message for every connected remote, dropping it
// for remotes whose send queue is full
func (s *Server) broadcast(msg Message) {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	for _, c := range s.clients {
		select {
		case c.sendChan <- msg:
		default:
			log.Printf("Dropping message for slow remote %s", c.name)
		}
	}
}

// send queues a message for one remote if it is still registered.
// Registration is checked under the lock so a concurrent Stop cannot
// close the queue mid-send.
func (s *Server) send(c *remoteClient, msg Message) {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	if _, ok := s.clients[c.id]; !ok {
		return
	}
	select {
	case c.sendChan <- msg:
	default:
	}
}

// decodePayload remarshals an envelope payload into a concrete type
func decodePayload(payload interface{}, out interface{}) bool {
	raw, err := json.Marshal(payload)
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, out) == nil
}
