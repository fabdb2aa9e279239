package factory

import (
	"time"

	"github.com/raidwatch/wcl-raid-analytics/api"
	"github.com/raidwatch/wcl-raid-analytics/compare"
	"github.com/raidwatch/wcl-raid-analytics/config"
	"github.com/raidwatch/wcl-raid-analytics/fetch"
	"github.com/raidwatch/wcl-raid-analytics/pagination"
	"github.com/raidwatch/wcl-raid-analytics/summary"
	"github.com/raidwatch/wcl-raid-analytics/transport"
)

type componentsHandler struct {
	fetcher api.Fetcher
	server  Server
}

// NewComponentsHandler wires the transport, the typed fetch layer, the engines
// and the web server
func NewComponentsHandler(
	clientID string,
	clientSecret string,
	cfg config.Config,
) (*componentsHandler, error) {
	transportArgs := transport.ArgsCredentialedTransport{
		GraphQLEndpoint: cfg.Upstream.GraphQLEndpoint,
		TokenEndpoint:   cfg.Upstream.TokenEndpoint,
		ClientID:        clientID,
		ClientSecret:    clientSecret,
		RequestTimeout:  time.Duration(cfg.Upstream.RequestTimeoutInSeconds) * time.Second,
		MaxAttempts:     cfg.Upstream.MaxAttempts,
	}
	upstream, err := transport.NewCredentialedTransport(transportArgs)
	if err != nil {
		return nil, err
	}

	minCallInterval := time.Duration(cfg.Upstream.MinCallIntervalInMillis) * time.Millisecond
	fetcher, err := fetch.NewFetcher(upstream, minCallInterval)
	if err != nil {
		return nil, err
	}

	comparer, err := compare.NewComparer(fetcher)
	if err != nil {
		return nil, err
	}

	aggregator, err := summary.NewAggregator(fetcher, cfg.Summary)
	if err != nil {
		return nil, err
	}

	census, err := pagination.NewCensusEngine(fetcher, cfg.Pagination)
	if err != nil {
		return nil, err
	}

	serverArgs := api.ArgsServer{
		ListenAddress:  cfg.API.ListenAddress,
		AllowedOrigins: cfg.API.AllowedOrigins,
		ReportsLimit:   cfg.Summary.ReportsLimit,
		Fetcher:        fetcher,
		Comparer:       comparer,
		Aggregator:     aggregator,
		Census:         census,
	}
	server, err := api.NewServer(serverArgs)
	if err != nil {
		return nil, err
	}

	return &componentsHandler{
		fetcher: fetcher,
		server:  server,
	}, nil
}

// GetFetcher returns the typed fetch component
func (ch *componentsHandler) GetFetcher() api.Fetcher {
	return ch.fetcher
}

// GetServer returns the server component
func (ch *componentsHandler) GetServer() Server {
	return ch.server
}

// Start starts the inner components
func (ch *componentsHandler) Start() {
	ch.server.Start()
}

// Close closes the inner components
func (ch *componentsHandler) Close() {
	_ = ch.server.Close()
}
