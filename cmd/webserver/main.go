package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	"triviaiq"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/sessions"
)

const (
	sessionCookieName = "trivia-session"
	sessionMaxAge     = 24 * 60 * 60
	// gameIdleTimeout is how long an untouched game stays in memory
	gameIdleTimeout = 30 * time.Minute
	sweepInterval   = 5 * time.Minute
)

type Server struct {
	db       *triviaiq.DB
	store    *sessions.CookieStore
	games    *gameRegistry
	bank     *triviaiq.QuestionBank
	source   triviaiq.QuestionSource
	taxonomy *triviaiq.Taxonomy
	logDir   string
	now      func() time.Time
	newRand  func() triviaiq.Rand
}

func main() {
	var (
		port    = flag.String("port", envOr("PORT", "8180"), "HTTP port")
		dbPath  = flag.String("db", envOr("TRIVIA_DB", "./trivia.db"), "Database path")
		logDir  = flag.String("log-dir", "log", "Directory for per-generation logs (empty disables)")
		verbose = flag.Bool("verbose", false, "Enable verbose debugging output")
		secure  = flag.Bool("secure-cookies", envOr("SECURE_COOKIES", "") == "true", "Mark the session cookie Secure (requires HTTPS)")
	)
	flag.Parse()

	triviaiq.SetVerbose(*verbose)

	db, err := triviaiq.OpenDB(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.CloseDB()

	if err := db.CreateTables(); err != nil {
		log.Fatalf("Failed to create tables: %v", err)
	}

	bank := triviaiq.StaticQuestionBank()
	stored, err := db.LoadPool()
	if err != nil {
		log.Fatalf("Failed to load stored questions: %v", err)
	}
	bank.Pool = bank.Pool.Merge(stored)
	log.Printf("Question bank: %d records (%d stored)", bank.Pool.Size(), stored.Size())

	// Without an API key every request is served from the question bank
	var source triviaiq.QuestionSource
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		source = triviaiq.NewQuestionMaker(apiKey)
	} else {
		log.Printf("OPENAI_API_KEY not set, serving questions from the static bank only")
	}

	sessionKey := os.Getenv("SESSION_KEY")
	if sessionKey == "" {
		sessionKey = "trivia-dev-session-key"
		log.Printf("SESSION_KEY not set, using an insecure development key")
	}

	server := newServer(serverConfig{
		db:            db,
		bank:          bank,
		source:        source,
		logDir:        *logDir,
		sessionKey:    sessionKey,
		secureCookies: *secure,
	})
	go server.games.runSweeper(context.Background(), sweepInterval, gameIdleTimeout, server.now)

	log.Printf("Starting server on port %s", *port)
	log.Fatal(http.ListenAndServe(":"+*port, server.routes()))
}

type serverConfig struct {
	db            *triviaiq.DB
	bank          *triviaiq.QuestionBank
	source        triviaiq.QuestionSource
	logDir        string
	sessionKey    string
	secureCookies bool
}

func newServer(cfg serverConfig) *Server {
	return &Server{
		db:       cfg.db,
		store:    newSessionStore(cfg.sessionKey, cfg.secureCookies),
		games:    newGameRegistry(),
		bank:     cfg.bank,
		source:   cfg.source,
		taxonomy: triviaiq.DefaultTaxonomy(),
		logDir:   cfg.logDir,
		now:      time.Now,
		newRand:  func() triviaiq.Rand { return triviaiq.NewRand(0) },
	}
}

// newSessionStore builds the cookie store binding a browser to its game.
// The cookie is only marked Secure when served over HTTPS.
func newSessionStore(key string, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(key))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/topics", s.handleTopics)
		r.Post("/generate-questions", s.handleGenerateQuestions)
		r.Get("/scores", s.handleScores)

		r.Route("/game", func(r chi.Router) {
			r.Get("/", s.handleGameState)
			r.Post("/start", s.handleStartGame)
			r.Post("/answer", s.handleAnswer)
			r.Post("/reset", s.handleReset)
		})
	})
	return r
}

func (s *Server) generator() *triviaiq.Generator {
	g := triviaiq.NewGenerator(s.bank, s.source, s.newRand())
	g.LogDir = s.logDir
	return g
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
