package testsCommon

import (
	"context"

	"github.com/raidwatch/wcl-raid-analytics/common"
)

// ComparerStub -
type ComparerStub struct {
	CompareHandler func(ctx context.Context, reportCode string, fightID int64, playerName string, dataType common.DataType) (*common.ComparisonResult, error)
}

// Compare -
func (stub *ComparerStub) Compare(ctx context.Context, reportCode string, fightID int64, playerName string, dataType common.DataType) (*common.ComparisonResult, error) {
	if stub.CompareHandler != nil {
		return stub.CompareHandler(ctx, reportCode, fightID, playerName, dataType)
	}

	return &common.ComparisonResult{}, nil
}

// IsInterfaceNil -
func (stub *ComparerStub) IsInterfaceNil() bool {
	return stub == nil
}
