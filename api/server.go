package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"

	"github.com/raidwatch/wcl-raid-analytics/common"
	"github.com/raidwatch/wcl-raid-analytics/compare"
	"github.com/raidwatch/wcl-raid-analytics/normalize"
)

var log = logger.GetOrCreate("api")

const defaultRegion = "US"

type server struct {
	router         *gin.Engine
	httpServer     *http.Server
	fetcher        Fetcher
	comparer       Comparer
	aggregator     Aggregator
	census         CensusEngine
	listenAddr     string
	allowedOrigins []string
	reportsLimit   uint32
	wg             sync.WaitGroup
}

// ArgsServer defines the web server arguments
type ArgsServer struct {
	ListenAddress  string
	AllowedOrigins []string
	ReportsLimit   uint32
	Fetcher        Fetcher
	Comparer       Comparer
	Aggregator     Aggregator
	Census         CensusEngine
}

// NewServer initializes the Gin engine and mounts all routes
func NewServer(args ArgsServer) (*server, error) {
	if check.IfNil(args.Fetcher) {
		return nil, errors.New("nil fetcher")
	}
	if check.IfNil(args.Comparer) {
		return nil, errors.New("nil comparer")
	}
	if check.IfNil(args.Aggregator) {
		return nil, errors.New("nil aggregator")
	}
	if check.IfNil(args.Census) {
		return nil, errors.New("nil census engine")
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	s := &server{
		router:         router,
		fetcher:        args.Fetcher,
		comparer:       args.Comparer,
		aggregator:     args.Aggregator,
		census:         args.Census,
		listenAddr:     args.ListenAddress,
		allowedOrigins: args.AllowedOrigins,
		reportsLimit:   args.ReportsLimit,
	}

	router.Use(s.corsMiddleware())
	s.setupRoutes()

	return s, nil
}

func (s *server) setupRoutes() {
	api := s.router.Group("/api")

	api.GET("/zone-summary", s.handleZoneSummary)
	api.GET("/guild-logs", s.handleGuildLogs)
	api.GET("/fights/:code", s.handleFights)
	api.GET("/dps/:code", s.handleTable(common.DataTypeDamage))
	api.GET("/healing/:code", s.handleTable(common.DataTypeHealing))
	api.GET("/gear/:code", s.handleGear)
	api.GET("/timeline/:code", s.handleTimeline)
	api.GET("/compare/:code", s.handleCompare)
	api.GET("/player-summary", s.handlePlayerSummary)
	api.GET("/raiding-population", s.handleRaidingPopulation)
	api.GET("/wowsims-export/:code", s.handleSimExport)
}

// Start listens and serves connections
func (s *server) Start() {
	s.httpServer = &http.Server{
		Addr:    s.listenAddr,
		Handler: s.router,
	}

	ln, err := net.Listen("tcp", s.listenAddr)
	if err != nil {
		log.Error("failed to listen", "error", err)
		return
	}
	s.listenAddr = ln.Addr().String()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		log.Info("starting HTTP server", "address", s.listenAddr)

		err := s.httpServer.Serve(ln)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "error", err)
		}
	}()
}

// Address returns the actual listen address
func (s *server) Address() string {
	return s.listenAddr
}

// Close gracefully stops the server
func (s *server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return err
		}
	}
	s.wg.Wait()

	return nil
}

func (s *server) corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		for _, allowed := range s.allowedOrigins {
			if allowed == origin || allowed == "*" {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
				c.Header("Access-Control-Allow-Headers", "Content-Type")
				break
			}
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// --- Handlers ---

func (s *server) handleZoneSummary(c *gin.Context) {
	guild, server, region, ok := guildParams(c)
	if !ok {
		return
	}

	reports, err := s.fetcher.Reports(c.Request.Context(), guild, server, region, s.reportsLimit)
	if err != nil {
		respondError(c, err)
		return
	}

	zones := make(map[string]int)
	for _, report := range reports {
		zones[report.ZoneName]++
	}

	c.JSON(http.StatusOK, gin.H{"zones": zones, "totalReports": len(reports)})
}

func (s *server) handleGuildLogs(c *gin.Context) {
	guild, server, region, ok := guildParams(c)
	if !ok {
		return
	}

	reports, err := s.fetcher.Reports(c.Request.Context(), guild, server, region, s.reportsLimit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

func (s *server) handleFights(c *gin.Context) {
	fights, err := s.fetcher.Fights(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"fights": fights})
}

// metricRow is one player row of a dps or healing response, throughput applied
type metricRow struct {
	Name       string  `json:"name"`
	Class      string  `json:"class"`
	Icon       string  `json:"icon"`
	Total      int64   `json:"total"`
	Throughput float64 `json:"throughput"`
}

func (s *server) handleTable(dataType common.DataType) gin.HandlerFunc {
	return func(c *gin.Context) {
		fightIDs, ok := fightIDsParam(c)
		if !ok {
			return
		}

		entries, err := s.fetcher.Table(c.Request.Context(), c.Param("code"), dataType, fightIDs)
		if err != nil {
			respondError(c, err)
			return
		}

		rows := make([]metricRow, 0, len(entries))
		for _, entry := range entries {
			rows = append(rows, metricRow{
				Name:       entry.Name,
				Class:      entry.ClassType,
				Icon:       entry.IconRef,
				Total:      entry.TotalAmount,
				Throughput: common.Throughput(entry.TotalAmount, entry.ActiveTimeMillis),
			})
		}

		c.JSON(http.StatusOK, gin.H{"entries": rows})
	}
}

func (s *server) handleGear(c *gin.Context) {
	fightIDs, ok := fightIDsParam(c)
	if !ok {
		return
	}

	entries, err := s.fetcher.Table(c.Request.Context(), c.Param("code"), common.DataTypeDamage, fightIDs)
	if err != nil {
		respondError(c, err)
		return
	}

	players := make([]common.GearSnapshot, 0, len(entries))
	for _, entry := range entries {
		players = append(players, common.GearSnapshot{
			Name:             entry.Name,
			ClassName:        entry.ClassType,
			AverageItemLevel: entry.Gear.AverageItemLevel,
			GearDisplay:      entry.Gear.Pieces,
			Items:            entry.Gear.Items,
		})
	}

	c.JSON(http.StatusOK, gin.H{"players": players})
}

func (s *server) handleTimeline(c *gin.Context) {
	fightIDs, ok := fightIDsParam(c)
	if !ok {
		return
	}
	sourceID, ok := optionalInt64Param(c, "source")
	if !ok {
		return
	}

	points, err := s.fetcher.Timeline(c.Request.Context(), c.Param("code"), metricParam(c), fightIDs, sourceID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"points": points})
}

func (s *server) handleCompare(c *gin.Context) {
	player := c.Query("player")
	if player == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing player parameter"})
		return
	}
	fightID, err := strconv.ParseInt(c.Query("fight"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid fight parameter"})
		return
	}

	result, err := s.comparer.Compare(c.Request.Context(), c.Param("code"), fightID, player, metricParam(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *server) handlePlayerSummary(c *gin.Context) {
	guild, server, region, ok := guildParams(c)
	if !ok {
		return
	}
	player := c.Query("player")
	if player == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing player parameter"})
		return
	}

	result, err := s.aggregator.PlayerSummary(c.Request.Context(), guild, server, region, player)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *server) handleRaidingPopulation(c *gin.Context) {
	census, err := s.census.Run(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, census)
}

func (s *server) handleSimExport(c *gin.Context) {
	player := c.Query("player")
	if player == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing player parameter"})
		return
	}

	entries, err := s.fetcher.Table(c.Request.Context(), c.Param("code"), common.DataTypeDamage, nil)
	if err != nil {
		respondError(c, err)
		return
	}

	for _, entry := range entries {
		if !strings.EqualFold(entry.Name, player) {
			continue
		}

		c.JSON(http.StatusOK, gin.H{
			"name":  entry.Name,
			"class": entry.ClassType,
			"items": entry.Gear.Items,
		})
		return
	}

	c.JSON(http.StatusNotFound, gin.H{"error": "player not found in report"})
}

// --- Parameter helpers ---

func guildParams(c *gin.Context) (string, string, string, bool) {
	guild := c.Query("guild")
	server := c.Query("server")
	if guild == "" || server == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing guild or server parameter"})
		return "", "", "", false
	}

	region := c.Query("region")
	if region == "" {
		region = defaultRegion
	}

	return guild, server, region, true
}

func fightIDsParam(c *gin.Context) ([]int64, bool) {
	raw := c.Query("fight")
	if raw == "" {
		return nil, true
	}

	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid fight parameter"})
			return nil, false
		}
		ids = append(ids, id)
	}

	return ids, true
}

func optionalInt64Param(c *gin.Context, name string) (*int64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}

	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name + " parameter"})
		return nil, false
	}

	return &value, true
}

func metricParam(c *gin.Context) common.DataType {
	if strings.EqualFold(c.Query("metric"), "healing") {
		return common.DataTypeHealing
	}

	return common.DataTypeDamage
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

// statusFor maps pipeline errors onto HTTP statuses: lookup misses are 404,
// invalid targets are 400, broken upstream payloads are 502
func statusFor(err error) int {
	switch {
	case errors.Is(err, compare.ErrFightNotFound),
		errors.Is(err, compare.ErrPlayerNotInFight),
		errors.Is(err, compare.ErrActorNotFound),
		errors.Is(err, compare.ErrNoRankingsAvailable),
		errors.Is(err, compare.ErrTopActorNotFound):
		return http.StatusNotFound
	case errors.Is(err, compare.ErrInvalidComparisonTarget):
		return http.StatusBadRequest
	case errors.Is(err, normalize.ErrMalformedResponse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
