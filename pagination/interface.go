package pagination

import (
	"context"

	"github.com/raidwatch/wcl-raid-analytics/common"
)

// Fetcher defines the upstream operations the census walk needs
type Fetcher interface {
	// ReportsPage lists one page of the server-wide report history under the provided time cursor
	ReportsPage(ctx context.Context, page uint32, startTimeMillis *int64) ([]common.Report, error)

	// Table fetches the player rows of a damage or healing table
	Table(ctx context.Context, reportCode string, dataType common.DataType, fightIDs []int64) ([]common.PlayerMetricEntry, error)

	IsInterfaceNil() bool
}
