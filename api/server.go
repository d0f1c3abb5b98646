package api

import (
	"database/sql"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/saeidalz13/battleship-voice-backend/internal/voice"
	mb "github.com/saeidalz13/battleship-voice-backend/models/battleship"
	mc "github.com/saeidalz13/battleship-voice-backend/models/connection"
)

const (
	StageProd = "prod"
	StageDev  = "dev"
)

const (
	defaultPort        = "8000"
	defaultTokenSecret = "dev_secret_change_me"
	httpHandlerTimeout = time.Second * 10
)

type Server struct {
	port        string
	stage       string
	db          *sql.DB
	tokenSecret []byte
	classifier  voice.Classifier
	transcriber voice.Transcriber

	GameManager    *mb.BattleshipGameManager
	SessionManager *mc.BattleshipSessionManager

	pipeline  *voice.Pipeline
	analytics analyticsRecorder
	router    *chi.Mux
}

type Option func(*Server) error

func NewServer(optFuncs ...Option) *Server {
	server := Server{
		port:  defaultPort,
		stage: StageDev,
	}
	for _, opt := range optFuncs {
		if err := opt(&server); err != nil {
			panic(err)
		}
	}

	if len(server.tokenSecret) == 0 {
		if server.stage == StageProd {
			panic("token secret must be set in prod stage")
		}
		server.tokenSecret = []byte(defaultTokenSecret)
	}

	server.GameManager = mb.NewBattleshipGameManager()
	server.SessionManager = mc.NewBattleshipSessionManager()
	server.pipeline = voice.NewPipeline(server.classifier, server.transcriber)
	server.analytics = newAnalyticsRecorder(server.db, localIpNet())
	server.router = server.routes()

	return &server
}

func WithPort(port string) Option {
	return func(s *Server) error {
		if port == "" {
			return fmt.Errorf("port cannot be empty")
		}
		s.port = port
		return nil
	}
}

func WithStage(stage string) Option {
	return func(s *Server) error {
		if stage != StageProd && stage != StageDev {
			return fmt.Errorf("invalid type of development stage: %s", stage)
		}
		s.stage = stage
		return nil
	}
}

func WithDb(db *sql.DB) Option {
	return func(s *Server) error {
		s.db = db
		return nil
	}
}

func WithTokenSecret(secret string) Option {
	return func(s *Server) error {
		s.tokenSecret = []byte(secret)
		return nil
	}
}

func WithClassifier(classifier voice.Classifier) Option {
	return func(s *Server) error {
		s.classifier = classifier
		return nil
	}
}

func WithTranscriber(transcriber voice.Transcriber) Option {
	return func(s *Server) error {
		s.transcriber = transcriber
		return nil
	}
}

func (s *Server) Port() string {
	return s.port
}

func (s *Server) Stage() string {
	return s.stage
}

// Router exposes the handler tree; tests mount it on httptest servers.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) ListenAndServe() error {
	log.Info().Str("port", s.port).Str("stage", s.stage).Msg("listening")
	return http.ListenAndServe("0.0.0.0:"+s.port, s.router)
}

func (s *Server) routes() *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(requestLogger)

	r.Get("/health", s.handleHealth)

	// The websocket handler owns its connection for as long as the
	// session lives, so it stays outside the handler timeout.
	r.Method(http.MethodGet, "/battleship", NewRequestProcessor(s.SessionManager, s.GameManager, s.pipeline, s.analytics))

	r.Route("/games", func(r chi.Router) {
		r.Use(chimw.Timeout(httpHandlerTimeout))
		r.Use(jsonContentType)

		r.Post("/", s.handleStartGame)
		r.Post("/new", s.handleNewGame)

		r.Route("/{gameID}", func(r chi.Router) {
			r.Use(s.requireGameToken)

			r.Get("/", s.handleGameState)
			r.Post("/moves", s.handleMakeMove)
			r.Post("/commands", s.handleCommand)
			r.Post("/commands/audio", s.handleAudioCommand)
			r.Post("/reset", s.handleResetGame)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, mc.NewRespErr("not found", r.URL.Path))
	})

	return r
}

func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		log.Debug().
			Str("request_id", chimw.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

// localIpNet is the address analytics rows are keyed by: the first
// non-loopback IPv4 address of the host, or loopback when there is none.
func localIpNet() net.IPNet {
	loopback := net.IPNet{IP: net.IPv4(127, 0, 0, 1).To4(), Mask: net.CIDRMask(32, 32)}

	ifaces, err := net.Interfaces()
	if err != nil {
		return loopback
	}

	for _, iface := range ifaces {
		// If the flag is down
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			ipnet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			if ip := ipnet.IP.To4(); ip != nil && !ip.IsLoopback() {
				return net.IPNet{IP: ip, Mask: net.CIDRMask(32, 32)}
			}
		}
	}
	return loopback
}
