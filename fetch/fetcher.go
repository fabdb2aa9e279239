package fetch

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"

	"github.com/raidwatch/wcl-raid-analytics/common"
	"github.com/raidwatch/wcl-raid-analytics/normalize"
	"github.com/raidwatch/wcl-raid-analytics/query"
	"github.com/raidwatch/wcl-raid-analytics/transport"
)

var log = logger.GetOrCreate("fetch")

// fetcher binds the transport, the query builder and the normalizer into the
// typed operations the engines consume. It also owns the cooperative pacing
// contract: at most one upstream call per configured minimum interval.
type fetcher struct {
	transport       Transport
	minCallInterval time.Duration

	mutLastCall sync.Mutex
	lastCall    time.Time
}

// NewFetcher creates a typed fetch layer over the provided transport. A zero
// minCallInterval disables pacing.
func NewFetcher(t Transport, minCallInterval time.Duration) (*fetcher, error) {
	if check.IfNil(t) {
		return nil, errors.New("nil transport")
	}

	return &fetcher{
		transport:       t,
		minCallInterval: minCallInterval,
	}, nil
}

// call paces, posts and, on a mid-session credential expiry, re-authenticates
// and retries the whole operation exactly once
func (f *fetcher) call(ctx context.Context, queryString string) ([]byte, error) {
	err := f.pace(ctx)
	if err != nil {
		return nil, err
	}

	body, err := f.transport.Post(ctx, queryString)
	if !errors.Is(err, transport.ErrCredentialExpired) {
		return body, err
	}

	log.Debug("credential expired mid-session, re-authenticating")
	err = f.transport.Authenticate(ctx)
	if err != nil {
		return nil, err
	}

	return f.transport.Post(ctx, queryString)
}

// pace reserves the next allowed call slot. The first call never waits and a
// cancelled context aborts the wait.
func (f *fetcher) pace(ctx context.Context) error {
	if f.minCallInterval <= 0 {
		return nil
	}

	f.mutLastCall.Lock()
	var wait time.Duration
	if !f.lastCall.IsZero() {
		wait = f.minCallInterval - time.Since(f.lastCall)
	}
	if wait < 0 {
		wait = 0
	}
	f.lastCall = time.Now().Add(wait)
	f.mutLastCall.Unlock()

	if wait > 0 {
		return common.SleepWithContext(ctx, wait)
	}

	return nil
}

// Reports lists a guild's reports, most recent first
func (f *fetcher) Reports(ctx context.Context, guild string, server string, region string, limit uint32) ([]common.Report, error) {
	body, err := f.call(ctx, query.GuildReports(guild, server, region, limit))
	if err != nil {
		return nil, err
	}

	return normalize.Reports(body)
}

// ReportsPage lists one page of the server-wide report history under the
// provided time cursor
func (f *fetcher) ReportsPage(ctx context.Context, page uint32, startTimeMillis *int64) ([]common.Report, error) {
	body, err := f.call(ctx, query.PagedReports(page, startTimeMillis))
	if err != nil {
		return nil, err
	}

	return normalize.Reports(body)
}

// Fights lists the fights of one report, trash merged
func (f *fetcher) Fights(ctx context.Context, reportCode string) ([]common.Fight, error) {
	body, err := f.call(ctx, query.Fights(reportCode))
	if err != nil {
		return nil, err
	}

	return normalize.Fights(body)
}

// Table fetches the player rows of a damage or healing table
func (f *fetcher) Table(ctx context.Context, reportCode string, dataType common.DataType, fightIDs []int64) ([]common.PlayerMetricEntry, error) {
	body, err := f.call(ctx, query.Table(reportCode, dataType, fightIDs, nil))
	if err != nil {
		return nil, err
	}

	return normalize.TableEntries(body)
}

// Abilities fetches one actor's ranked ability breakdown
func (f *fetcher) Abilities(ctx context.Context, reportCode string, dataType common.DataType, fightIDs []int64, sourceID int64) ([]common.AbilityBreakdown, error) {
	body, err := f.call(ctx, query.Table(reportCode, dataType, fightIDs, &sourceID))
	if err != nil {
		return nil, err
	}

	return normalize.AbilityEntries(body)
}

// Timeline fetches the combined time series of a report or fight
func (f *fetcher) Timeline(ctx context.Context, reportCode string, dataType common.DataType, fightIDs []int64, sourceID *int64) ([]common.TimelinePoint, error) {
	body, err := f.call(ctx, query.Graph(reportCode, dataType, fightIDs, sourceID))
	if err != nil {
		return nil, err
	}

	return normalize.Timeline(body)
}

// Actors fetches the master-actor listing of one report
func (f *fetcher) Actors(ctx context.Context, reportCode string) ([]common.Actor, error) {
	body, err := f.call(ctx, query.MasterActors(reportCode))
	if err != nil {
		return nil, err
	}

	return normalize.Actors(body)
}

// Rankings fetches the encounter leaderboard filtered by class, spec and
// metric, returning the encounter name alongside the ranked list
func (f *fetcher) Rankings(ctx context.Context, encounterID int64, className string, specName string, metric string) (string, []common.RankingEntry, error) {
	body, err := f.call(ctx, query.EncounterRankings(encounterID, className, specName, metric))
	if err != nil {
		return "", nil, err
	}

	return normalize.Rankings(body)
}

// IsInterfaceNil returns true if the value under the interface is nil
func (f *fetcher) IsInterfaceNil() bool {
	return f == nil
}
