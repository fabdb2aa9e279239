package normalize

import (
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/raidwatch/wcl-raid-analytics/common"
)

const fightsPath = "data.reportData.report.fights"

// TrashFightName labels the synthetic aggregate of all non-boss segments
const TrashFightName = "Trash"

// Fights maps a fight-listing payload into flat fight records. All trash
// segments (encounterID == 0) of the report collapse into a single synthetic
// aggregate carrying the constituent ids and the summed duration. A boss kill
// is only known when bossPercentage is present: zero means kill, nonzero
// means wipe, absent leaves Kill nil.
func Fights(payload []byte) ([]common.Fight, error) {
	raw := gjson.GetBytes(payload, fightsPath)
	if !raw.Exists() || !raw.IsArray() {
		return nil, fmt.Errorf("%w: missing %s", ErrMalformedResponse, fightsPath)
	}

	fights := make([]common.Fight, 0, len(raw.Array()))
	var trash *common.Fight

	for _, entry := range raw.Array() {
		startTime := entry.Get("startTime").Int()
		endTime := entry.Get("endTime").Int()
		fight := common.Fight{
			IDs:             []int64{entry.Get("id").Int()},
			Name:            stringOr(entry.Get("name"), unknownName),
			EncounterID:     entry.Get("encounterID").Int(),
			StartTimeMillis: startTime,
			EndTimeMillis:   endTime,
			DurationSeconds: (endTime - startTime) / 1000,
		}

		if fight.EncounterID == 0 {
			if trash == nil {
				trash = &common.Fight{
					Name:            TrashFightName,
					IsTrash:         true,
					StartTimeMillis: startTime,
					EndTimeMillis:   endTime,
				}
			}
			trash.IDs = append(trash.IDs, fight.IDs...)
			trash.DurationSeconds += fight.DurationSeconds
			if startTime < trash.StartTimeMillis {
				trash.StartTimeMillis = startTime
			}
			if endTime > trash.EndTimeMillis {
				trash.EndTimeMillis = endTime
			}
			continue
		}

		if bossPercentage := entry.Get("bossPercentage"); bossPercentage.Exists() {
			pct := bossPercentage.Float()
			kill := pct == 0
			fight.BossPercentage = &pct
			fight.Kill = &kill
		}
		if difficulty := entry.Get("difficulty"); difficulty.Exists() {
			diff := difficulty.Int()
			fight.Difficulty = &diff
		}

		fights = append(fights, fight)
	}

	if trash != nil {
		fights = append(fights, *trash)
	}

	return fights, nil
}
