// Package main is the entry point for the note backend API server.
// Its sole responsibility is wiring dependencies together and starting the
// server. No business logic belongs here.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for goose
	"github.com/pressly/goose/v3"

	"github.com/macaria/backend/internal/auth"
	"github.com/macaria/backend/internal/config"
	"github.com/macaria/backend/internal/crypto"
	"github.com/macaria/backend/internal/feature/notes"
	"github.com/macaria/backend/internal/feature/tags"
	"github.com/macaria/backend/internal/feature/users"
	"github.com/macaria/backend/internal/handler"
	"github.com/macaria/backend/internal/hub"
	"github.com/macaria/backend/internal/mediator"
	"github.com/macaria/backend/internal/middleware"
	"github.com/macaria/backend/internal/repo"
	"github.com/macaria/backend/migrations"
)

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Database ---------------------------------------------------------
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(context.Background()); err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection established")

	if err := migrate(cfg.DatabaseURL); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// --- Core wiring ------------------------------------------------------
	// The dispatcher registry is built once here; registration panics abort
	// startup, so a wiring mistake can never surface per-request.
	notificationHub := hub.New(logger)
	tokens := auth.NewTokens([]byte(cfg.JWTSecret), cfg.TokenTTL)
	dispatcher := newDispatcher(pool, notificationHub, tokens)

	// --- Router -----------------------------------------------------------
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))

	srv := handler.NewServer(dispatcher, notificationHub, tokens, logger)
	r.Mount("/", srv.Routes())

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	// WriteTimeout stays zero because /hub holds its connection open for the
	// client's whole session; the remaining routes finish fast.
	httpSrv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     r,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// newDispatcher builds the complete request registry: every request type the
// HTTP layer can dispatch is bound to its validator and handler here.
func newDispatcher(pool *pgxpool.Pool, notificationHub *hub.Hub, tokens *auth.Tokens) *mediator.Dispatcher {
	store := repo.NewStore(pool)
	tx := repo.NewTxRunner(pool)

	d := mediator.New(notificationHub)

	noteCommands := notes.NewCommands(tx)
	noteQueries := notes.NewQueries(store)
	mediator.RegisterValidated(d, notes.ValidateSaveNote, mediator.HandlerFunc[notes.SaveNote, notes.SaveNoteResponse](noteCommands.SaveNote))
	mediator.RegisterValidated(d, notes.ValidateRemoveNote, mediator.HandlerFunc[notes.RemoveNote, notes.RemoveNoteResponse](noteCommands.RemoveNote))
	mediator.RegisterValidated(d, notes.ValidateAddTag, mediator.HandlerFunc[notes.AddTag, notes.AddTagResponse](noteCommands.AddTag))
	mediator.RegisterValidated(d, notes.ValidateRemoveTag, mediator.HandlerFunc[notes.RemoveTag, notes.RemoveTagResponse](noteCommands.RemoveTag))
	mediator.Register(d, mediator.HandlerFunc[notes.GetNotes, notes.GetNotesResponse](noteQueries.GetNotes))
	mediator.Register(d, mediator.HandlerFunc[notes.GetNoteByID, notes.GetNoteResponse](noteQueries.GetNoteByID))
	mediator.Register(d, mediator.HandlerFunc[notes.GetNoteBySlug, notes.GetNoteResponse](noteQueries.GetNoteBySlug))
	mediator.Register(d, mediator.HandlerFunc[notes.GetNotesByTagSlug, notes.GetNotesResponse](noteQueries.GetNotesByTagSlug))

	tagCommands := tags.NewCommands(tx)
	tagQueries := tags.NewQueries(store)
	mediator.RegisterValidated(d, tags.ValidateSaveTag, mediator.HandlerFunc[tags.SaveTag, tags.SaveTagResponse](tagCommands.SaveTag))
	mediator.Register(d, mediator.HandlerFunc[tags.GetTags, tags.GetTagsResponse](tagQueries.GetTags))

	userCommands := users.NewCommands(store.Users, crypto.BcryptHasher{}, tokens)
	mediator.RegisterValidated(d, users.ValidateCreateUser, mediator.HandlerFunc[users.CreateUser, users.CreateUserResponse](userCommands.CreateUser))
	mediator.RegisterValidated(d, users.ValidateAuthenticateUser, mediator.HandlerFunc[users.AuthenticateUser, users.AuthenticateUserResponse](userCommands.AuthenticateUser))

	return d
}

// migrate applies pending goose migrations using a plain database/sql
// connection (goose needs database/sql, not a pgx pool).
func migrate(databaseURL string) error {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return err
	}

	results, err := provider.Up(context.Background())
	if err != nil {
		return err
	}
	for _, res := range results {
		slog.Info("applied migration", "migration", res.Source.Path)
	}
	return nil
}
