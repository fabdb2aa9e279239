package compare

import (
	"context"

	"github.com/raidwatch/wcl-raid-analytics/common"
)

// Fetcher defines the upstream operations the comparison pipeline needs
type Fetcher interface {
	// Fights lists the fights of one report, trash merged
	Fights(ctx context.Context, reportCode string) ([]common.Fight, error)

	// Table fetches the player rows of a damage or healing table
	Table(ctx context.Context, reportCode string, dataType common.DataType, fightIDs []int64) ([]common.PlayerMetricEntry, error)

	// Abilities fetches one actor's ranked ability breakdown
	Abilities(ctx context.Context, reportCode string, dataType common.DataType, fightIDs []int64, sourceID int64) ([]common.AbilityBreakdown, error)

	// Actors fetches the master-actor listing of one report
	Actors(ctx context.Context, reportCode string) ([]common.Actor, error)

	// Rankings fetches the encounter leaderboard filtered by class, spec and metric
	Rankings(ctx context.Context, encounterID int64, className string, specName string, metric string) (string, []common.RankingEntry, error)

	IsInterfaceNil() bool
}
