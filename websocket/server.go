package websocket

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	swarm "github.com/esimov/ascii-swarm/particle-system"
)

const (
	writeWait       = 2 * time.Second
	shutdownTimeout = 5 * time.Second
	sendBuffer      = 4
	inputBuffer     = 64
)

type HttpParams struct {
	Address string
	Prefix  string
	Root    string
}

// DefaultParams returns the parameters used when no flags are given.
func DefaultParams() HttpParams {
	return HttpParams{
		Address: "localhost:5000",
		Prefix:  "/",
		Root:    ".",
	}
}

// A server application calls the Upgrade method from an HTTP request handler to initiate a connection
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Server streams the particle buffers of a single swarm to every connected
// renderer and feeds their pointer and theme events back into the swarm.
// The swarm is only touched by the Simulate goroutine.
type Server struct {
	params HttpParams
	sys    *swarm.ParticleSystem
	fps    int
	dark   bool
	inputs chan Message

	mu      sync.Mutex
	clients map[*client]struct{}
}

// NewServer prepares a server for the given swarm. The static root is resolved to an absolute path.
func NewServer(p HttpParams, sys *swarm.ParticleSystem, fps int, dark bool) (*Server, error) {
	root, err := filepath.Abs(p.Root)
	if err != nil {
		return nil, fmt.Errorf("websocket: resolve root: %w", err)
	}
	p.Root = root
	if fps <= 0 {
		fps = 60
	}
	return &Server{
		params:  p,
		sys:     sys,
		fps:     fps,
		dark:    dark,
		inputs:  make(chan Message, inputBuffer),
		clients: make(map[*client]struct{}),
	}, nil
}

// Handler serves the static root under the configured prefix and the websocket endpoint on /ws.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(s.params.Prefix, http.StripPrefix(s.params.Prefix, http.FileServer(http.Dir(s.params.Root))))
	mux.HandleFunc("/ws", s.wsHandler)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Print(r.RemoteAddr + " " + r.Method + " " + r.URL.String())
		mux.ServeHTTP(w, r)
	})
}

// ListenAndServe runs the simulation and the http server until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	srv := &http.Server{
		Addr:    s.params.Address,
		Handler: s.Handler(),
	}
	go s.Simulate(ctx)

	errc := make(chan error, 1)
	go func() {
		log.Printf("serving %s as %s on %s", s.params.Root, s.params.Prefix, s.params.Address)
		errc <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
		defer done()
		return srv.Shutdown(shutdownCtx)
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Simulate advances the swarm on a ticker and broadcasts every frame.
// It returns when ctx is cancelled, disconnecting all clients.
func (s *Server) Simulate(ctx context.Context) {
	ticker := time.NewTicker(time.Second / time.Duration(s.fps))
	defer ticker.Stop()
	defer s.closeClients()

	var positions, colors, sizes []float32
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case m := <-s.inputs:
			s.apply(m)
		case now := <-ticker.C:
			dt := float32(now.Sub(last).Seconds())
			last = now
			s.sys.Update(dt, s.dark)

			positions = s.sys.AppendPositions(positions[:0])
			colors = s.sys.AppendColors(colors[:0])
			sizes = s.sys.AppendSizes(sizes[:0])
			frame := AppendFrame(make([]byte, 0, FrameSize(len(sizes))), s.sys.Time(), positions, colors, sizes)
			s.broadcast(frame)
		}
	}
}

func (s *Server) apply(m Message) {
	switch m.Type {
	case MessagePointer:
		s.sys.SetPointerPosition(float32(m.X), float32(m.Y))
	case MessageTheme:
		s.dark = *m.Dark
	}
}

func (s *Server) broadcast(frame []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		select {
		case c.send <- frame:
		default:
			// Slow renderer, it will get the next frame.
		}
	}
}

func (s *Server) register(c *client) {
	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()
}

func (s *Server) unregister(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		close(c.send)
	}
}

func (s *Server) closeClients() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		delete(s.clients, c)
		close(c.send)
	}
}

// Clients returns the number of connected renderers.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// wsHandler defines the websocket connection endpoint
func (s *Server) wsHandler(w http.ResponseWriter, r *http.Request) {
	// Upgrade the http connection to a WebSocket connection
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		if _, ok := err.(websocket.HandshakeError); !ok {
			log.Println(err)
		}
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	s.register(c)
	go c.writeLoop()
	s.readSocket(c)
}

// readSocket listen for new messages being sent to the websocket
func (s *Server) readSocket(c *client) {
	defer func() {
		s.unregister(c)
		c.conn.Close()
	}()

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("error: %v", err)
			}
			return
		}
		m, err := ParseMessage(msg)
		if err != nil {
			log.Printf("dropping message: %v", err)
			continue
		}
		select {
		case s.inputs <- m:
		default:
			log.Printf("input queue full, dropping %s message", m.Type)
		}
	}
}

func (c *client) writeLoop() {
	for frame := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
			log.Println(err)
			c.conn.Close()
			return
		}
	}
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
	c.conn.Close()
}
