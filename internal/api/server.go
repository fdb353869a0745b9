package api

import (
	"net/http"

	"github.com/rs/cors"

	"github.com/example/wordbook/internal/achievement"
	"github.com/example/wordbook/internal/ai"
	"github.com/example/wordbook/internal/auth"
	"github.com/example/wordbook/internal/learning"
	"github.com/example/wordbook/internal/logger"
	"github.com/example/wordbook/internal/mastery"
	"github.com/example/wordbook/internal/progression"
	"github.com/example/wordbook/internal/quiz"
	"github.com/example/wordbook/internal/vocabulary"
)

// Services are the collaborators the handlers call into.
type Services struct {
	Auth         *auth.Service
	Vocabulary   *vocabulary.Service
	Mastery      *mastery.Engine
	Progression  *progression.Engine
	Achievements *achievement.Engine
	Quiz         *quiz.Generator
	Drills       *learning.Drills
	Tutor        *ai.Tutor
	Dictionary   vocabulary.Lookuper
}

// Options configure the outer HTTP surface.
type Options struct {
	StaticDir      string
	AllowedOrigins []string
}

// Server owns the routing table.
type Server struct {
	svc  Services
	log  *logger.Logger
	opts Options
}

func New(svc Services, log *logger.Logger, opts Options) *Server {
	return &Server{svc: svc, log: log.With("component", "http"), opts: opts}
}

// Handler builds the mux wrapped in CORS and request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Accounts
	mux.HandleFunc("POST /api/register", s.register)
	mux.HandleFunc("POST /api/login", s.login)
	mux.HandleFunc("POST /api/change-password", s.authed(s.changePassword))

	// Vocabulary
	mux.HandleFunc("GET /api/words", s.authed(s.listWords))
	mux.HandleFunc("POST /api/words", s.authed(s.addWord))
	mux.HandleFunc("DELETE /api/words", s.authed(s.deleteWordByText))
	mux.HandleFunc("DELETE /api/words/{id}", s.authed(s.deleteWord))
	mux.HandleFunc("POST /api/words/{id}/practice", s.authed(s.practiceWord))
	mux.HandleFunc("GET /api/words/stats", s.authed(s.wordStats))
	mux.HandleFunc("POST /api/words/import", s.authed(s.importWords))

	// Mastery and quizzes
	mux.HandleFunc("POST /api/mastery/answer", s.authed(s.recordAnswer))
	mux.HandleFunc("GET /api/quiz/{mode}", s.authed(s.generateQuiz))
	mux.HandleFunc("POST /api/quiz/{mode}/submit", s.authed(s.submitQuiz))

	// Game
	mux.HandleFunc("GET /api/game/stats", s.authed(s.gameStats))
	mux.HandleFunc("POST /api/game/streak", s.authed(s.touchStreak))
	mux.HandleFunc("GET /api/game/sessions", s.authed(s.gameSessions))
	mux.HandleFunc("GET /api/achievements", s.authed(s.listAchievements))

	// Drills
	mux.HandleFunc("GET /api/pinyin-list", s.pinyinChart)
	mux.HandleFunc("POST /api/pinyin/init", s.authed(s.initPinyin))
	mux.HandleFunc("GET /api/pinyin", s.authed(s.listPinyin))
	mux.HandleFunc("POST /api/pinyin/learn", s.authed(s.learnPinyin))
	mux.HandleFunc("POST /api/english-learn", s.authed(s.learnEnglish))
	mux.HandleFunc("GET /api/english-learn", s.authed(s.listEnglish))
	mux.HandleFunc("GET /api/dictionary/english/{word}", s.authed(s.lookupEnglish))

	// AI tutor
	mux.HandleFunc("GET /api/ai-key/status", s.authed(s.aiKeyStatus))
	mux.HandleFunc("POST /api/ai-key", s.authed(s.saveAIKey))
	mux.HandleFunc("POST /api/ai-tutor", s.authed(s.askTutor))
	mux.HandleFunc("GET /api/ai-chat-history", s.authed(s.chatHistory))
	mux.HandleFunc("DELETE /api/ai-chat-history", s.authed(s.deleteChatHistory))

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if s.opts.StaticDir != "" {
		mux.Handle("GET /", http.FileServer(http.Dir(s.opts.StaticDir)))
	}

	origins := s.opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         86400,
	}).Handler(mux)

	return s.recoverer(s.requestLog(corsHandler))
}
