package web

import (
	"embed"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/kapu/pokemon-catalog-go/internal/adapter"
	"github.com/kapu/pokemon-catalog-go/internal/command"
	"github.com/kapu/pokemon-catalog-go/internal/constants"
	"github.com/kapu/pokemon-catalog-go/internal/view"
	"go.uber.org/zap"
)

//go:embed static
var staticFS embed.FS

const liveListingPath = "/ws/pokemons"

// Dependencies are the collaborators of the HTTP server.
type Dependencies struct {
	Catalog          view.Catalog
	Renderer         *adapter.Renderer
	Registry         *command.Registry
	DebounceInterval time.Duration
	Logger           *zap.Logger
}

// Server serves the catalog pages and the live listing channel.
type Server struct {
	catalog    view.Catalog
	renderer   *adapter.Renderer
	dispatcher command.Dispatcher
	messages   *adapter.MessageAdapter
	debounce   time.Duration
	logger     *zap.Logger
	upgrader   websocket.Upgrader
	router     *mux.Router

	liveMu      sync.Mutex
	live        map[string]*liveConn
	liveWg      sync.WaitGroup
	liveClosing bool
}

func NewServer(deps Dependencies) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	registry := deps.Registry
	if registry == nil {
		registry = command.NewListingRegistry(logger)
	}
	interval := deps.DebounceInterval
	if interval <= 0 {
		interval = constants.SearchConfig.DebounceInterval
	}

	s := &Server{
		catalog:    deps.Catalog,
		renderer:   deps.Renderer,
		dispatcher: command.NewSequentialDispatcher(registry, command.DefaultNormalize),
		messages:   adapter.NewMessageAdapter(),
		debounce:   interval,
		logger:     logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
		live: make(map[string]*liveConn),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(requestIDMiddleware, accessLogMiddleware(s.logger), recoverMiddleware(s.logger))

	r.HandleFunc("/", s.handleHome).Methods(http.MethodGet)
	r.HandleFunc("/pokemons", s.handleListing).Methods(http.MethodGet)
	r.HandleFunc("/pokemons/{id}", s.handleDetail).Methods(http.MethodGet)
	r.HandleFunc("/about", s.handleAbout).Methods(http.MethodGet)
	r.HandleFunc(liveListingPath, s.handleLive).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	r.NotFoundHandler = requestIDMiddleware(accessLogMiddleware(s.logger)(http.HandlerFunc(s.handleNotFound)))
	return r
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// CloseLive disconnects every live listing connection and waits for their
// sessions to finish. http.Server.Shutdown does not track hijacked
// connections.
func (s *Server) CloseLive() {
	s.liveMu.Lock()
	s.liveClosing = true
	conns := make([]*liveConn, 0, len(s.live))
	for _, c := range s.live {
		conns = append(conns, c)
	}
	s.liveMu.Unlock()

	for _, c := range conns {
		c.Disconnect()
	}
	s.liveWg.Wait()
}

// LiveCount returns the number of open live listing connections.
func (s *Server) LiveCount() int {
	s.liveMu.Lock()
	defer s.liveMu.Unlock()
	return len(s.live)
}

// trackLive refuses new connections once CloseLive has started.
func (s *Server) trackLive(c *liveConn) bool {
	s.liveMu.Lock()
	defer s.liveMu.Unlock()
	if s.liveClosing {
		return false
	}
	s.live[c.id] = c
	s.liveWg.Add(1)
	return true
}

func (s *Server) untrackLive(c *liveConn) {
	s.liveMu.Lock()
	delete(s.live, c.id)
	s.liveMu.Unlock()
	s.liveWg.Done()
}
