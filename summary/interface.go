package summary

import (
	"context"

	"github.com/raidwatch/wcl-raid-analytics/common"
)

// Fetcher defines the upstream operations the summary aggregator needs
type Fetcher interface {
	// Reports lists a guild's reports, most recent first
	Reports(ctx context.Context, guild string, server string, region string, limit uint32) ([]common.Report, error)

	// Fights lists the fights of one report, trash merged
	Fights(ctx context.Context, reportCode string) ([]common.Fight, error)

	// Table fetches the player rows of a damage or healing table
	Table(ctx context.Context, reportCode string, dataType common.DataType, fightIDs []int64) ([]common.PlayerMetricEntry, error)

	IsInterfaceNil() bool
}
