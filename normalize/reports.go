package normalize

import (
	"fmt"
	"sort"

	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/tidwall/gjson"

	"github.com/raidwatch/wcl-raid-analytics/common"
)

var log = logger.GetOrCreate("normalize")

const unknownName = "Unknown"

const reportsPath = "data.reportData.reports.data"

// Reports maps a report-listing payload into flat report records, sorted by
// start time descending so "first report" always means "most recent report"
// regardless of upstream call order.
func Reports(payload []byte) ([]common.Report, error) {
	raw := gjson.GetBytes(payload, reportsPath)
	if !raw.Exists() || !raw.IsArray() {
		return nil, fmt.Errorf("%w: missing %s", ErrMalformedResponse, reportsPath)
	}

	reports := make([]common.Report, 0, len(raw.Array()))
	for _, entry := range raw.Array() {
		reports = append(reports, common.Report{
			Code:            entry.Get("code").String(),
			Title:           stringOr(entry.Get("title"), unknownName),
			ZoneName:        stringOr(entry.Get("zone.name"), unknownName),
			OwnerName:       stringOr(entry.Get("owner.name"), unknownName),
			StartTimeMillis: entry.Get("startTime").Int(),
		})
	}

	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].StartTimeMillis > reports[j].StartTimeMillis
	})

	return reports, nil
}

func stringOr(value gjson.Result, fallback string) string {
	if !value.Exists() || len(value.String()) == 0 {
		return fallback
	}

	return value.String()
}
