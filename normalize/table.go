package normalize

import (
	"fmt"
	"sort"

	"github.com/tidwall/gjson"

	"github.com/raidwatch/wcl-raid-analytics/common"
)

const tableEntriesPath = "data.reportData.report.table.data.entries"

// TableEntries maps a damage or healing table payload into flat player rows,
// gear included. Missing optional fields take their stated defaults instead
// of failing the whole normalization.
func TableEntries(payload []byte) ([]common.PlayerMetricEntry, error) {
	raw := gjson.GetBytes(payload, tableEntriesPath)
	if !raw.Exists() || !raw.IsArray() {
		return nil, fmt.Errorf("%w: missing %s", ErrMalformedResponse, tableEntriesPath)
	}

	entries := make([]common.PlayerMetricEntry, 0, len(raw.Array()))
	for _, entry := range raw.Array() {
		entries = append(entries, common.PlayerMetricEntry{
			Name:             stringOr(entry.Get("name"), unknownName),
			ClassType:        entry.Get("type").String(),
			IconRef:          entry.Get("icon").String(),
			TotalAmount:      entry.Get("total").Int(),
			ActiveTimeMillis: entry.Get("activeTime").Int(),
			Gear:             Gear(entry.Get("gear")),
		})
	}

	return entries, nil
}

// AbilityEntries maps a source-filtered table payload into a ranked ability
// contribution list, sorted by total descending.
func AbilityEntries(payload []byte) ([]common.AbilityBreakdown, error) {
	raw := gjson.GetBytes(payload, tableEntriesPath)
	if !raw.Exists() || !raw.IsArray() {
		return nil, fmt.Errorf("%w: missing %s", ErrMalformedResponse, tableEntriesPath)
	}

	abilities := make([]common.AbilityBreakdown, 0, len(raw.Array()))
	for _, entry := range raw.Array() {
		abilities = append(abilities, common.AbilityBreakdown{
			Name:      stringOr(entry.Get("name"), unknownName),
			Total:     entry.Get("total").Int(),
			Uses:      entry.Get("uses").Int(),
			HitCount:  entry.Get("hitCount").Int(),
			TickCount: entry.Get("tickCount").Int(),
		})
	}

	sort.SliceStable(abilities, func(i, j int) bool {
		return abilities[i].Total > abilities[j].Total
	})

	return abilities, nil
}
