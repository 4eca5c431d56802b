package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/shopweave/go-storefront-identity/idp"
	"github.com/shopweave/go-storefront-identity/intent"
	"github.com/shopweave/go-storefront-identity/internal/config"
	"github.com/shopweave/go-storefront-identity/profile"
	"github.com/shopweave/go-storefront-identity/server/authflow"
	"github.com/shopweave/go-storefront-identity/server/visitor"
)

// Deps holds the collaborators the server resolves sessions with.
type Deps struct {
	Idp      idp.Provider // External identity provider
	Fetcher  profile.Fetcher
	Visitors visitor.Repo
	Intents  *intent.Store
	Flows    authflow.Repo
}

type Server struct {
	env      string
	mux      *http.ServeMux
	routes   []string
	config   config.Config
	idp      idp.Provider
	fetcher  profile.Fetcher
	visitors visitor.Repo
	intents  *intent.Store
	flows    authflow.Repo
	nowTime  func() time.Time
}

func New(config config.Config, deps Deps) (*Server, error) {
	if deps.Idp == nil {
		return nil, fmt.Errorf("[Server New] identity provider is required")
	}
	if deps.Fetcher == nil {
		return nil, fmt.Errorf("[Server New] profile fetcher is required")
	}
	if deps.Visitors == nil {
		return nil, fmt.Errorf("[Server New] visitor repo is required")
	}
	if deps.Intents == nil {
		return nil, fmt.Errorf("[Server New] intent store is required")
	}
	if deps.Flows == nil {
		return nil, fmt.Errorf("[Server New] auth flow repo is required")
	}

	s := &Server{
		env:      config.GetEnv(),
		mux:      http.NewServeMux(),
		config:   config,
		idp:      deps.Idp,
		fetcher:  deps.Fetcher,
		visitors: deps.Visitors,
		intents:  deps.Intents,
		flows:    deps.Flows,
		nowTime:  time.Now,
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	for _, route := range s.routes {
		log.Debug().Str("route", route).Msg("registered")
	}
}
