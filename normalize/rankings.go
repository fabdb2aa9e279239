package normalize

import (
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/raidwatch/wcl-raid-analytics/common"
)

const (
	actorsPath    = "data.reportData.report.masterData.actors"
	encounterPath = "data.worldData.encounter"
)

// Actors maps a master-actor payload into flat actor records
func Actors(payload []byte) ([]common.Actor, error) {
	raw := gjson.GetBytes(payload, actorsPath)
	if !raw.Exists() || !raw.IsArray() {
		return nil, fmt.Errorf("%w: missing %s", ErrMalformedResponse, actorsPath)
	}

	actors := make([]common.Actor, 0, len(raw.Array()))
	for _, entry := range raw.Array() {
		actors = append(actors, common.Actor{
			ID:      entry.Get("id").Int(),
			Name:    entry.Get("name").String(),
			Type:    entry.Get("type").String(),
			SubType: entry.Get("subType").String(),
		})
	}

	return actors, nil
}

// Rankings maps a world-leaderboard payload into the encounter name and the
// ranked parse list, best first as returned upstream
func Rankings(payload []byte) (string, []common.RankingEntry, error) {
	encounter := gjson.GetBytes(payload, encounterPath)
	if !encounter.Exists() {
		return "", nil, fmt.Errorf("%w: missing %s", ErrMalformedResponse, encounterPath)
	}

	encounterName := stringOr(encounter.Get("name"), unknownName)

	raw := encounter.Get("characterRankings.rankings")
	if !raw.Exists() || !raw.IsArray() {
		return "", nil, fmt.Errorf("%w: missing %s.characterRankings.rankings", ErrMalformedResponse, encounterPath)
	}

	rankings := make([]common.RankingEntry, 0, len(raw.Array()))
	for _, entry := range raw.Array() {
		rankings = append(rankings, common.RankingEntry{
			Name:       stringOr(entry.Get("name"), unknownName),
			ClassName:  entry.Get("class").String(),
			SpecName:   entry.Get("spec").String(),
			Amount:     entry.Get("amount").Float(),
			ReportCode: entry.Get("report.code").String(),
			FightID:    entry.Get("report.fightID").Int(),
			ServerName: entry.Get("server.name").String(),
		})
	}

	return encounterName, rankings, nil
}
