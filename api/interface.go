package api

import (
	"context"

	"github.com/raidwatch/wcl-raid-analytics/common"
	"github.com/raidwatch/wcl-raid-analytics/pagination"
)

// Fetcher defines the typed upstream operations the handlers expose directly
type Fetcher interface {
	// Reports lists a guild's reports, most recent first
	Reports(ctx context.Context, guild string, server string, region string, limit uint32) ([]common.Report, error)

	// Fights lists the fights of one report, trash merged
	Fights(ctx context.Context, reportCode string) ([]common.Fight, error)

	// Table fetches the player rows of a damage or healing table
	Table(ctx context.Context, reportCode string, dataType common.DataType, fightIDs []int64) ([]common.PlayerMetricEntry, error)

	// Timeline fetches the combined time series of a report or fight
	Timeline(ctx context.Context, reportCode string, dataType common.DataType, fightIDs []int64, sourceID *int64) ([]common.TimelinePoint, error)

	IsInterfaceNil() bool
}

// Comparer runs the player-versus-top-parse comparison
type Comparer interface {
	Compare(ctx context.Context, reportCode string, fightID int64, playerName string, dataType common.DataType) (*common.ComparisonResult, error)
	IsInterfaceNil() bool
}

// Aggregator folds one player's presence across a guild's report history
type Aggregator interface {
	PlayerSummary(ctx context.Context, guild string, server string, region string, player string) (*common.PlayerSummary, error)
	IsInterfaceNil() bool
}

// CensusEngine walks the server-wide report history counting unique raiders
type CensusEngine interface {
	Run(ctx context.Context) (pagination.Census, error)
	IsInterfaceNil() bool
}
