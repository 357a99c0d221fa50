package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/arsrivastawa/campus-talk-bcknd/internal/engine"
	"github.com/arsrivastawa/campus-talk-bcknd/internal/server/middleware"
	"github.com/arsrivastawa/campus-talk-bcknd/pkg/config"
	"github.com/arsrivastawa/campus-talk-bcknd/pkg/transport"
)

// App wires the websocket transport to the matchmaking engine: it upgrades
// connections, keeps the live connection table, and implements the engine's
// Deliver primitive on top of it.
type App struct {
	logger *slog.Logger
	engine *engine.Engine
	config *config.Config

	connMu sync.RWMutex
	conns  map[uuid.UUID]*transport.Connection

	wg   sync.WaitGroup
	http *http.Server
	ctx  context.Context
}

func NewApp(logger *slog.Logger, rootCtx context.Context, cfg *config.Config) *App {
	app := &App{
		logger: logger,
		config: cfg,
		conns:  make(map[uuid.UUID]*transport.Connection),
		ctx:    rootCtx,
	}
	app.engine = engine.New(logger, app, nil)

	mux := http.NewServeMux()
	mux.Handle("/ws",
		middleware.Chain(http.HandlerFunc(app.upgradeHandler),
			middleware.RequestMetadataMiddleware(),
			middleware.NewRequestLogger(logger),
		),
	)
	mux.HandleFunc("/healthz", app.healthHandler)
	mux.HandleFunc("/stats", app.statsHandler)

	app.http = &http.Server{
		Addr:    cfg.Server.Address,
		Handler: mux,
		BaseContext: func(l net.Listener) context.Context {
			return app.ctx
		},
	}
	return app
}

func (a *App) Run() error {
	go func() {
		a.logger.Info("Server starting", slog.String("addr", a.http.Addr))
		if err := a.http.ListenAndServe(); err != http.ErrServerClosed {
			a.logger.Error("HTTP server failed", slog.Any("error", err))
		}
	}()

	if interval := a.config.Engine.StatsInterval; interval > 0 {
		go a.engine.ReportStats(a.ctx, interval)
	}

	<-a.ctx.Done()
	return a.Shutdown()
}

// Deliver satisfies engine.Sender: marshal the event envelope and hand it
// to the target connection's send queue. Absent connections are dropped
// silently; the engine treats delivery as fire-and-forget.
func (a *App) Deliver(connID uuid.UUID, event string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		a.logger.Error("Failed to marshal outbound payload", slog.String("event", event), slog.Any("error", err))
		return
	}
	frame, err := json.Marshal(engine.ClientMessage{Event: event, Payload: raw})
	if err != nil {
		a.logger.Error("Failed to marshal outbound frame", slog.String("event", event), slog.Any("error", err))
		return
	}

	a.connMu.RLock()
	conn, ok := a.conns[connID]
	a.connMu.RUnlock()
	if !ok {
		a.logger.Debug("Dropping event for absent connection", slog.String("event", event), slog.String("connID", connID.String()))
		return
	}
	conn.Send(frame)
}

func (a *App) upgradeHandler(w http.ResponseWriter, r *http.Request) {
	reqMeta, _ := middleware.ReqMetadataFrom(r.Context())
	connLogger := a.logger.With(slog.String("remoteAddr", reqMeta.IP))

	opts := &websocket.AcceptOptions{}
	if origin := a.config.Server.AllowedOrigin; origin == "" || origin == "*" {
		opts.InsecureSkipVerify = true
	} else {
		opts.OriginPatterns = []string{origin}
	}

	wsConn, err := websocket.Accept(w, r, opts)
	if err != nil {
		a.logger.Error("Failed to accept websocket connection", slog.Any("error", err))
		return
	}

	conn := transport.NewConnection(
		r.Context(),
		&a.wg,
		wsConn,
		transport.ConnectionConfig{ReadTimeout: a.config.Transport.ReadTimeout},
		a.engine.HandleMessage,
		nil,
		a.logger,
	)
	conn.SetOnCloseHandler(func(id uuid.UUID, err error) {
		// A transport close is the only cancellation signal; it always
		// resolves to the engine's disconnect transition.
		a.engine.HandleDisconnect(id)
		a.connMu.Lock()
		delete(a.conns, id)
		a.connMu.Unlock()
	})

	a.connMu.Lock()
	a.conns[conn.ID()] = conn
	a.connMu.Unlock()

	connLogger.Info("Client connection established", slog.String("connID", conn.ID().String()))
	conn.Run()
	<-conn.Done()
}

func (a *App) healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (a *App) statsHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(a.engine.Stats()); err != nil {
		a.logger.Error("Failed to encode stats", slog.Any("error", err))
	}
}

// Shutdown runs the graceful shutdown sequence.
func (a *App) Shutdown() error {
	a.logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.http.Shutdown(shutdownCtx); err != nil {
		return err
	}

	a.logger.Info("Closing all active connections...")
	a.connMu.Lock()
	open := make([]*transport.Connection, 0, len(a.conns))
	for _, conn := range a.conns {
		open = append(open, conn)
	}
	a.connMu.Unlock()
	for _, conn := range open {
		conn.Close(errors.New("graceful shutdown"))
	}

	// wait for all connection goroutines to finish their cleanup.
	a.wg.Wait()
	a.logger.Info("Server shut down gracefully.")
	return nil
}
