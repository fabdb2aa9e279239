package pagination

import (
	"context"
	"errors"
	"sort"

	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"

	"github.com/raidwatch/wcl-raid-analytics/common"
	"github.com/raidwatch/wcl-raid-analytics/config"
)

var log = logger.GetOrCreate("pagination")

// Census is the accumulated outcome of one report-history walk. It stays
// valid when the walk is truncated by cancellation.
type Census struct {
	UniqueRaiders  int      `json:"unique_raiders"`
	Players        []string `json:"players"`
	ReportsScanned int      `json:"reportsScanned"`
}

// censusEngine walks the server-wide report history with a monotonically
// decreasing time cursor and accumulates the deduplicated set of player names
type censusEngine struct {
	fetcher           Fetcher
	maxPagesPerCursor uint32
	floorStartTime    int64
	maxCursorAdvances uint32
}

// NewCensusEngine creates a new report-history census engine
func NewCensusEngine(fetcher Fetcher, cfg config.PaginationConfig) (*censusEngine, error) {
	if check.IfNil(fetcher) {
		return nil, errors.New("nil fetcher")
	}

	maxPages := cfg.MaxPagesPerCursor
	if maxPages < 1 {
		maxPages = 1
	}
	maxAdvances := cfg.MaxCursorAdvances
	if maxAdvances < 1 {
		maxAdvances = 1
	}

	return &censusEngine{
		fetcher:           fetcher,
		maxPagesPerCursor: maxPages,
		floorStartTime:    cfg.FloorStartTimeMillis,
		maxCursorAdvances: maxAdvances,
	}, nil
}

// Run walks the report history until the cursor reaches the configured floor,
// a cursor round yields no reports, or the advance safety bound trips. The
// very first listing call failing is a hard error; every later per-page or
// per-report failure is logged and skipped. Cancellation returns the partial
// census together with the context error.
func (e *censusEngine) Run(ctx context.Context) (Census, error) {
	players := make(map[string]struct{})
	reportsScanned := 0
	var cursor *int64

	for advance := uint32(0); advance < e.maxCursorAdvances; advance++ {
		if ctx.Err() != nil {
			return buildCensus(players, reportsScanned), ctx.Err()
		}

		collected, err := e.fetchCursorRound(ctx, cursor, advance == 0)
		if err != nil {
			return buildCensus(players, reportsScanned), err
		}
		if len(collected) == 0 {
			// The cursor cannot advance on an empty round; stopping here is
			// the only way to terminate.
			break
		}

		for _, report := range collected {
			if ctx.Err() != nil {
				return buildCensus(players, reportsScanned), ctx.Err()
			}

			entries, tableErr := e.fetcher.Table(ctx, report.Code, common.DataTypeDamage, nil)
			if tableErr != nil {
				log.Warn("player table fetch failed, skipping report", "code", report.Code, "error", tableErr)
				continue
			}

			reportsScanned++
			for _, entry := range entries {
				players[entry.Name] = struct{}{}
			}
		}

		// Reports come back sorted most recent first, so the last one carries
		// the oldest start time of this round.
		oldest := collected[len(collected)-1].StartTimeMillis
		cursor = &oldest
		if oldest <= e.floorStartTime {
			break
		}
	}

	return buildCensus(players, reportsScanned), nil
}

func (e *censusEngine) fetchCursorRound(ctx context.Context, cursor *int64, firstRound bool) ([]common.Report, error) {
	collected := make([]common.Report, 0)

	for page := uint32(1); page <= e.maxPagesPerCursor; page++ {
		reports, err := e.fetcher.ReportsPage(ctx, page, cursor)
		if err != nil {
			if firstRound && page == 1 {
				return nil, err
			}

			log.Warn("report page fetch failed, ending cursor round", "page", page, "error", err)
			break
		}
		if len(reports) == 0 {
			break
		}

		collected = append(collected, reports...)
	}

	return collected, nil
}

func buildCensus(players map[string]struct{}, reportsScanned int) Census {
	names := make([]string, 0, len(players))
	for name := range players {
		names = append(names, name)
	}
	sort.Strings(names)

	return Census{
		UniqueRaiders:  len(names),
		Players:        names,
		ReportsScanned: reportsScanned,
	}
}

// IsInterfaceNil returns true if the value under the interface is nil
func (e *censusEngine) IsInterfaceNil() bool {
	return e == nil
}
