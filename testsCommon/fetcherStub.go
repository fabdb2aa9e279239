package testsCommon

import (
	"context"

	"github.com/raidwatch/wcl-raid-analytics/common"
)

// FetcherStub -
type FetcherStub struct {
	ReportsHandler     func(ctx context.Context, guild string, server string, region string, limit uint32) ([]common.Report, error)
	ReportsPageHandler func(ctx context.Context, page uint32, startTimeMillis *int64) ([]common.Report, error)
	FightsHandler      func(ctx context.Context, reportCode string) ([]common.Fight, error)
	TableHandler       func(ctx context.Context, reportCode string, dataType common.DataType, fightIDs []int64) ([]common.PlayerMetricEntry, error)
	AbilitiesHandler   func(ctx context.Context, reportCode string, dataType common.DataType, fightIDs []int64, sourceID int64) ([]common.AbilityBreakdown, error)
	TimelineHandler    func(ctx context.Context, reportCode string, dataType common.DataType, fightIDs []int64, sourceID *int64) ([]common.TimelinePoint, error)
	ActorsHandler      func(ctx context.Context, reportCode string) ([]common.Actor, error)
	RankingsHandler    func(ctx context.Context, encounterID int64, className string, specName string, metric string) (string, []common.RankingEntry, error)
}

// Reports -
func (stub *FetcherStub) Reports(ctx context.Context, guild string, server string, region string, limit uint32) ([]common.Report, error) {
	if stub.ReportsHandler != nil {
		return stub.ReportsHandler(ctx, guild, server, region, limit)
	}

	return make([]common.Report, 0), nil
}

// ReportsPage -
func (stub *FetcherStub) ReportsPage(ctx context.Context, page uint32, startTimeMillis *int64) ([]common.Report, error) {
	if stub.ReportsPageHandler != nil {
		return stub.ReportsPageHandler(ctx, page, startTimeMillis)
	}

	return make([]common.Report, 0), nil
}

// Fights -
func (stub *FetcherStub) Fights(ctx context.Context, reportCode string) ([]common.Fight, error) {
	if stub.FightsHandler != nil {
		return stub.FightsHandler(ctx, reportCode)
	}

	return make([]common.Fight, 0), nil
}

// Table -
func (stub *FetcherStub) Table(ctx context.Context, reportCode string, dataType common.DataType, fightIDs []int64) ([]common.PlayerMetricEntry, error) {
	if stub.TableHandler != nil {
		return stub.TableHandler(ctx, reportCode, dataType, fightIDs)
	}

	return make([]common.PlayerMetricEntry, 0), nil
}

// Abilities -
func (stub *FetcherStub) Abilities(ctx context.Context, reportCode string, dataType common.DataType, fightIDs []int64, sourceID int64) ([]common.AbilityBreakdown, error) {
	if stub.AbilitiesHandler != nil {
		return stub.AbilitiesHandler(ctx, reportCode, dataType, fightIDs, sourceID)
	}

	return make([]common.AbilityBreakdown, 0), nil
}

// Timeline -
func (stub *FetcherStub) Timeline(ctx context.Context, reportCode string, dataType common.DataType, fightIDs []int64, sourceID *int64) ([]common.TimelinePoint, error) {
	if stub.TimelineHandler != nil {
		return stub.TimelineHandler(ctx, reportCode, dataType, fightIDs, sourceID)
	}

	return make([]common.TimelinePoint, 0), nil
}

// Actors -
func (stub *FetcherStub) Actors(ctx context.Context, reportCode string) ([]common.Actor, error) {
	if stub.ActorsHandler != nil {
		return stub.ActorsHandler(ctx, reportCode)
	}

	return make([]common.Actor, 0), nil
}

// Rankings -
func (stub *FetcherStub) Rankings(ctx context.Context, encounterID int64, className string, specName string, metric string) (string, []common.RankingEntry, error) {
	if stub.RankingsHandler != nil {
		return stub.RankingsHandler(ctx, encounterID, className, specName, metric)
	}

	return "", make([]common.RankingEntry, 0), nil
}

// IsInterfaceNil -
func (stub *FetcherStub) IsInterfaceNil() bool {
	return stub == nil
}
