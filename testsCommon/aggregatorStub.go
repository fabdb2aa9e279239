package testsCommon

import (
	"context"

	"github.com/raidwatch/wcl-raid-analytics/common"
)

// AggregatorStub -
type AggregatorStub struct {
	PlayerSummaryHandler func(ctx context.Context, guild string, server string, region string, player string) (*common.PlayerSummary, error)
}

// PlayerSummary -
func (stub *AggregatorStub) PlayerSummary(ctx context.Context, guild string, server string, region string, player string) (*common.PlayerSummary, error) {
	if stub.PlayerSummaryHandler != nil {
		return stub.PlayerSummaryHandler(ctx, guild, server, region, player)
	}

	return &common.PlayerSummary{}, nil
}

// IsInterfaceNil -
func (stub *AggregatorStub) IsInterfaceNil() bool {
	return stub == nil
}
