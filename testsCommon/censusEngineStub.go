package testsCommon

import (
	"context"

	"github.com/raidwatch/wcl-raid-analytics/pagination"
)

// CensusEngineStub -
type CensusEngineStub struct {
	RunHandler func(ctx context.Context) (pagination.Census, error)
}

// Run -
func (stub *CensusEngineStub) Run(ctx context.Context) (pagination.Census, error) {
	if stub.RunHandler != nil {
		return stub.RunHandler(ctx)
	}

	return pagination.Census{}, nil
}

// IsInterfaceNil -
func (stub *CensusEngineStub) IsInterfaceNil() bool {
	return stub == nil
}
