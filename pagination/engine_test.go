package pagination_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raidwatch/wcl-raid-analytics/common"
	"github.com/raidwatch/wcl-raid-analytics/config"
	"github.com/raidwatch/wcl-raid-analytics/pagination"
	"github.com/raidwatch/wcl-raid-analytics/testsCommon"
)

func testPaginationConfig() config.PaginationConfig {
	return config.PaginationConfig{
		MaxPagesPerCursor:    24,
		FloorStartTimeMillis: 1000,
		MaxCursorAdvances:    10,
	}
}

func TestNewCensusEngine(t *testing.T) {
	t.Parallel()

	t.Run("nil fetcher should error", func(t *testing.T) {
		engine, err := pagination.NewCensusEngine(nil, testPaginationConfig())

		assert.Nil(t, engine)
		assert.True(t, engine.IsInterfaceNil())
		assert.Error(t, err)
	})
	t.Run("should work", func(t *testing.T) {
		engine, err := pagination.NewCensusEngine(&testsCommon.FetcherStub{}, testPaginationConfig())

		assert.NotNil(t, engine)
		assert.False(t, engine.IsInterfaceNil())
		assert.Nil(t, err)
	})
}

func TestCensusEngine_Run(t *testing.T) {
	t.Parallel()

	t.Run("empty first page terminates without exhausting the page bound", func(t *testing.T) {
		var pageCalls atomic.Int32
		stub := &testsCommon.FetcherStub{
			ReportsPageHandler: func(ctx context.Context, page uint32, startTimeMillis *int64) ([]common.Report, error) {
				pageCalls.Add(1)
				return []common.Report{}, nil
			},
		}
		engine, _ := pagination.NewCensusEngine(stub, testPaginationConfig())

		census, err := engine.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 0, census.UniqueRaiders)
		assert.Equal(t, int32(1), pageCalls.Load())
	})
	t.Run("first listing call failing is a hard error", func(t *testing.T) {
		expectedErr := errors.New("boom")
		stub := &testsCommon.FetcherStub{
			ReportsPageHandler: func(ctx context.Context, page uint32, startTimeMillis *int64) ([]common.Report, error) {
				return nil, expectedErr
			},
		}
		engine, _ := pagination.NewCensusEngine(stub, testPaginationConfig())

		_, err := engine.Run(context.Background())
		assert.Equal(t, expectedErr, err)
	})
	t.Run("deduplicates players across reports and advances to the floor", func(t *testing.T) {
		stub := &testsCommon.FetcherStub{
			ReportsPageHandler: func(ctx context.Context, page uint32, startTimeMillis *int64) ([]common.Report, error) {
				if page > 1 {
					return []common.Report{}, nil
				}
				if startTimeMillis == nil {
					return []common.Report{
						{Code: "r1", StartTimeMillis: 5000},
						{Code: "r2", StartTimeMillis: 3000},
					}, nil
				}
				// Second cursor round already sits at the floor
				return []common.Report{{Code: "r3", StartTimeMillis: 900}}, nil
			},
			TableHandler: func(ctx context.Context, reportCode string, dataType common.DataType, fightIDs []int64) ([]common.PlayerMetricEntry, error) {
				if reportCode == "r2" {
					return nil, errors.New("transient")
				}
				return []common.PlayerMetricEntry{
					{Name: "Bob"},
					{Name: "Amy"},
				}, nil
			},
		}
		engine, _ := pagination.NewCensusEngine(stub, testPaginationConfig())

		census, err := engine.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, census.UniqueRaiders)
		assert.Equal(t, []string{"Amy", "Bob"}, census.Players)
		// r2 was skipped on its table failure, r1 and r3 counted
		assert.Equal(t, 2, census.ReportsScanned)
	})
	t.Run("case-sensitive player identity", func(t *testing.T) {
		stub := &testsCommon.FetcherStub{
			ReportsPageHandler: func(ctx context.Context, page uint32, startTimeMillis *int64) ([]common.Report, error) {
				if page > 1 || startTimeMillis != nil {
					return []common.Report{}, nil
				}
				return []common.Report{{Code: "r1", StartTimeMillis: 500}}, nil
			},
			TableHandler: func(ctx context.Context, reportCode string, dataType common.DataType, fightIDs []int64) ([]common.PlayerMetricEntry, error) {
				return []common.PlayerMetricEntry{{Name: "bob"}, {Name: "Bob"}}, nil
			},
		}
		engine, _ := pagination.NewCensusEngine(stub, testPaginationConfig())

		census, err := engine.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, census.UniqueRaiders)
	})
	t.Run("stuck cursor trips the advance safety bound", func(t *testing.T) {
		var rounds atomic.Int32
		stub := &testsCommon.FetcherStub{
			ReportsPageHandler: func(ctx context.Context, page uint32, startTimeMillis *int64) ([]common.Report, error) {
				if page > 1 {
					return []common.Report{}, nil
				}
				rounds.Add(1)
				// Always the same report, far above the floor: the cursor can never move down
				return []common.Report{{Code: "r1", StartTimeMillis: 999999}}, nil
			},
		}
		engine, _ := pagination.NewCensusEngine(stub, testPaginationConfig())

		_, err := engine.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int32(10), rounds.Load())
	})
	t.Run("cancellation returns the partial census", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		stub := &testsCommon.FetcherStub{
			ReportsPageHandler: func(ctx context.Context, page uint32, startTimeMillis *int64) ([]common.Report, error) {
				if page > 1 {
					return []common.Report{}, nil
				}
				return []common.Report{
					{Code: "r1", StartTimeMillis: 5000},
					{Code: "r2", StartTimeMillis: 4000},
				}, nil
			},
			TableHandler: func(ctx context.Context, reportCode string, dataType common.DataType, fightIDs []int64) ([]common.PlayerMetricEntry, error) {
				if reportCode == "r2" {
					cancel()
				}
				return []common.PlayerMetricEntry{{Name: "Bob" + reportCode}}, nil
			},
		}
		engine, _ := pagination.NewCensusEngine(stub, testPaginationConfig())

		census, err := engine.Run(ctx)
		assert.True(t, errors.Is(err, context.Canceled))
		assert.GreaterOrEqual(t, census.UniqueRaiders, 1)
	})
}
