package normalize

import (
	"fmt"
	"sort"

	"github.com/tidwall/gjson"

	"github.com/raidwatch/wcl-raid-analytics/common"
)

const graphSeriesPath = "data.reportData.report.graph.data.series"

// Timeline maps a graph payload into one combined time series. A series point
// is either an explicit [timestamp, value] pair or an implicit value at
// pointStart + index*pointInterval. Values landing on the same whole second
// are summed across all series, so simultaneous contributions (pet plus
// owner, multiple sources) collapse onto one point per second.
func Timeline(payload []byte) ([]common.TimelinePoint, error) {
	raw := gjson.GetBytes(payload, graphSeriesPath)
	if !raw.Exists() || !raw.IsArray() {
		return nil, fmt.Errorf("%w: missing %s", ErrMalformedResponse, graphSeriesPath)
	}

	totals := make(map[int64]float64)
	for _, series := range raw.Array() {
		pointStart := series.Get("pointStart").Int()
		pointInterval := series.Get("pointInterval").Int()

		for index, point := range series.Get("data").Array() {
			var timestampMillis int64
			var value float64

			if point.IsArray() {
				pair := point.Array()
				if len(pair) < 2 {
					continue
				}
				timestampMillis = pair[0].Int()
				value = pair[1].Float()
			} else {
				timestampMillis = pointStart + int64(index)*pointInterval
				value = point.Float()
			}

			totals[timestampMillis/1000] += value
		}
	}

	points := make([]common.TimelinePoint, 0, len(totals))
	for second, value := range totals {
		points = append(points, common.TimelinePoint{Second: second, Value: value})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Second < points[j].Second
	})

	return points, nil
}
