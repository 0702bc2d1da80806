package main

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/golang/geo/r2"
	"github.com/gorilla/websocket"
	"github.com/spf13/viper"

	"serpentine/internal/config"
	"serpentine/render"
)

// ipRateLimiter tracks last connection time per IP to prevent abuse
type ipRateLimiter struct {
	mu       sync.Mutex
	times    map[string]time.Time
	cooldown time.Duration
}

func newIPRateLimiter(cooldown time.Duration) *ipRateLimiter {
	return &ipRateLimiter{times: make(map[string]time.Time), cooldown: cooldown}
}

// run drops stale entries every 60s until ctx is cancelled
func (rl *ipRateLimiter) run(ctx context.Context) {
	ticker := time.NewTicker(60 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.prune(time.Now())
		}
	}
}

func (rl *ipRateLimiter) prune(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	cutoff := now.Add(-rl.cooldown)
	for ip, t := range rl.times {
		if t.Before(cutoff) {
			delete(rl.times, ip)
		}
	}
}

// allow returns true if this IP can connect, and records the attempt
func (rl *ipRateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if last, ok := rl.times[ip]; ok {
		if time.Since(last) < rl.cooldown {
			return false
		}
	}
	rl.times[ip] = time.Now()
	return true
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins for development; tighten in production
		return true
	},
	ReadBufferSize:    1024,
	WriteBufferSize:   4096,
	EnableCompression: true,
}

// sendErrorAndClose sends an error message via WebSocket then closes the connection
func sendErrorAndClose(ws *websocket.Conn, msg string) {
	data, _ := json.Marshal(ErrorMsg{Type: MsgError, Message: msg})
	_ = ws.WriteMessage(websocket.TextMessage, data)
	ws.Close()
}

// Server ties the world, the game loop and the viewer connections together
type Server struct {
	settings Settings
	world    *World
	conns    *ConnManager
	loop     *GameLoop
	metrics  *Metrics
	limiter  *ipRateLimiter
}

// NewServer builds the world and fills it with bots
func NewServer(settings Settings) (*Server, error) {
	world := NewWorld(settings)
	conns := NewConnManager()
	metrics, err := NewMetrics(conns, world)
	if err != nil {
		return nil, err
	}
	loop, err := NewGameLoop(world, conns, metrics, settings)
	if err != nil {
		return nil, err
	}
	return &Server{
		settings: settings,
		world:    world,
		conns:    conns,
		loop:     loop,
		metrics:  metrics,
		limiter:  newIPRateLimiter(time.Duration(settings.IPCooldownSec) * time.Second),
	}, nil
}

// Run drives the game loop and limiter housekeeping until ctx is cancelled
func (s *Server) Run(ctx context.Context) {
	go s.limiter.run(ctx)
	s.loop.Run(ctx)
}

// Handler routes the websocket, the snapshot and the static client
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(WebSocketPath, s.handleWS)
	mux.HandleFunc(SnapshotPath, s.handleSnapshot)
	if s.settings.StaticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(s.settings.StaticDir)))
	}
	return mux
}

func clientIP(r *http.Request) string {
	// X-Forwarded-For for reverse proxies
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	ip, _, _ := net.SplitHostPort(r.RemoteAddr)
	return ip
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	ip := clientIP(r)

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		Logger.Warn().Err(err).Msg("ws upgrade error")
		return
	}

	// Check limits after upgrade so client can receive error messages
	if s.conns.Count() >= s.settings.MaxViewers {
		s.metrics.Rejected(r.Context(), "full")
		sendErrorAndClose(ws, "Server full. Please try again later.")
		return
	}
	if !s.limiter.allow(ip) {
		s.metrics.Rejected(r.Context(), "cooldown")
		sendErrorAndClose(ws, "Too many connections. Please wait a few seconds.")
		return
	}

	ws.EnableWriteCompression(true)

	conn := NewConn(ws)

	// Welcome goes out before registering so it precedes any state
	b := s.settings.Snake.Bounds
	_ = conn.Send(WelcomeMsg{
		Type:     MsgWelcome,
		ID:       conn.ID,
		Bounds:   [4]float64{b.X.Lo, b.Y.Lo, b.X.Hi, b.Y.Hi},
		TickRate: s.settings.TickRate,
	})
	s.conns.Add(conn)
	Logger.Info().Str("viewer", conn.ID).Str("ip", ip).Msg("viewer connected")

	conn.ReadLoop(s.onJoin, s.onGoal, s.onDisconnect)
}

// onJoin replaces the viewer's snake with a fresh one
func (s *Server) onJoin(c *Conn, name string) {
	s.world.mu.Lock()
	defer s.world.mu.Unlock()
	if old, ok := s.world.OwnedBy(c.ID); ok {
		s.world.RemoveAgent(old.ID)
	}
	a, err := s.world.Spawn(c.ID, name, c.ID)
	if err != nil {
		Logger.Error().Err(err).Str("viewer", c.ID).Msg("spawning viewer snake")
		return
	}
	Logger.Info().Str("viewer", c.ID).Str("name", a.Name).Msg("snake joined")
}

func (s *Server) onGoal(c *Conn, p r2.Point) {
	if !s.world.SetGoal(c.ID, p) {
		Logger.Debug().Str("viewer", c.ID).Msg("goal without a snake")
	}
}

func (s *Server) onDisconnect(c *Conn) {
	s.conns.Remove(c.ID)
	s.world.mu.Lock()
	if a, ok := s.world.OwnedBy(c.ID); ok {
		s.world.RemoveAgent(a.ID)
	}
	s.world.mu.Unlock()
	Logger.Info().Str("viewer", c.ID).Msg("viewer disconnected")
}

// handleSnapshot renders the world as SVG. ?debug=1 adds skeletons and
// destinations.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	debug, _ := strconv.ParseBool(r.URL.Query().Get("debug"))

	s.world.mu.RLock()
	layers := s.world.Layers()
	s.world.mu.RUnlock()

	w.Header().Set("Content-Type", "image/svg+xml")
	opts := render.Options{Skeleton: debug, Destinations: debug}
	if err := render.WriteSnapshot(w, s.settings.Snake.Bounds, layers, opts); err != nil {
		Logger.Warn().Err(err).Msg("writing snapshot")
	}
}

func main() {
	err := config.Load(os.Getenv("SERPENTINE_CONFIG_DIR"))
	setupLogging(os.Stdout, viper.GetString("logLevel"))
	if err != nil {
		Logger.Fatal().Err(err).Msg("loading config")
	}

	settings, err := CurrentSettings()
	if err != nil {
		Logger.Fatal().Err(err).Msg("resolving settings")
	}

	srv, err := NewServer(settings)
	if err != nil {
		Logger.Fatal().Err(err).Msg("creating server")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go srv.Run(ctx)

	httpServer := &http.Server{Addr: settings.Port, Handler: srv.Handler()}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	Logger.Info().Str("port", settings.Port).Int("snakes", settings.Snakes).Msg("server listening")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		Logger.Fatal().Err(err).Msg("server error")
	}
}
