package compare

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"

	"github.com/raidwatch/wcl-raid-analytics/common"
)

var log = logger.GetOrCreate("compare")

// comparer resolves a player's in-fight performance and the top-ranked parse
// for the same encounter, class, spec and metric. Each stage depends on the
// previous one's output; the first failing stage short-circuits the rest with
// its own error kind.
type comparer struct {
	fetcher Fetcher
}

// NewComparer creates a new comparison pipeline over the provided fetcher
func NewComparer(fetcher Fetcher) (*comparer, error) {
	if check.IfNil(fetcher) {
		return nil, errors.New("nil fetcher")
	}

	return &comparer{
		fetcher: fetcher,
	}, nil
}

// Compare runs the seven-stage comparison for one player in one fight
func (c *comparer) Compare(
	ctx context.Context,
	reportCode string,
	fightID int64,
	playerName string,
	dataType common.DataType,
) (*common.ComparisonResult, error) {
	// 1. resolve the fight within the report
	fights, err := c.fetcher.Fights(ctx, reportCode)
	if err != nil {
		return nil, err
	}
	fight := findFight(fights, fightID)
	if fight == nil {
		return nil, fmt.Errorf("%w: id %d in report %s", ErrFightNotFound, fightID, reportCode)
	}

	// 2. reject trash before any further network call
	if fight.IsTrash || fight.EncounterID == 0 {
		return nil, fmt.Errorf("%w: fight %d", ErrInvalidComparisonTarget, fightID)
	}

	// 3. locate the player in the fight's table
	entries, err := c.fetcher.Table(ctx, reportCode, dataType, fight.IDs)
	if err != nil {
		return nil, err
	}
	entry := findEntry(entries, playerName)
	if entry == nil {
		return nil, fmt.Errorf("%w: %s in fight %d", ErrPlayerNotInFight, playerName, fightID)
	}
	class := entry.ClassType
	spec := specFromIcon(entry.IconRef)

	// 4. resolve the player's actor id
	actorID, found, err := c.resolveActor(ctx, reportCode, entry.Name)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %s in report %s", ErrActorNotFound, playerName, reportCode)
	}

	// 5. the player's own ability breakdown
	abilities, err := c.fetcher.Abilities(ctx, reportCode, dataType, fight.IDs, actorID)
	if err != nil {
		return nil, err
	}

	// 6. rank 1 of the encounter leaderboard for this class/spec/metric
	encounterName, rankings, err := c.fetcher.Rankings(ctx, fight.EncounterID, class, spec, metricName(dataType))
	if err != nil {
		return nil, err
	}
	if len(rankings) == 0 {
		return nil, fmt.Errorf("%w: encounter %d, %s %s", ErrNoRankingsAvailable, fight.EncounterID, class, spec)
	}
	top := rankings[0]

	// 7. the top player's actor id lives in their own report
	topActorID, found, err := c.resolveActor(ctx, top.ReportCode, top.Name)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %s in report %s", ErrTopActorNotFound, top.Name, top.ReportCode)
	}
	topAbilities, err := c.fetcher.Abilities(ctx, top.ReportCode, dataType, []int64{top.FightID}, topActorID)
	if err != nil {
		return nil, err
	}

	log.Debug("comparison resolved",
		"report", reportCode, "fight", fightID, "player", entry.Name, "top", top.Name)

	return &common.ComparisonResult{
		EncounterName: encounterName,
		Metric:        dataType,
		Player: common.PlayerPerformance{
			Name:            entry.Name,
			Class:           class,
			Spec:            spec,
			Total:           entry.TotalAmount,
			Throughput:      common.Throughput(entry.TotalAmount, entry.ActiveTimeMillis),
			DurationSeconds: fight.DurationSeconds,
			Abilities:       abilities,
		},
		Top: common.PlayerPerformance{
			Name:       top.Name,
			Class:      top.ClassName,
			Spec:       top.SpecName,
			Total:      sumTotals(topAbilities),
			Throughput: top.Amount,
			Abilities:  topAbilities,
		},
	}, nil
}

func (c *comparer) resolveActor(ctx context.Context, reportCode string, name string) (int64, bool, error) {
	actors, err := c.fetcher.Actors(ctx, reportCode)
	if err != nil {
		return 0, false, err
	}

	for _, actor := range actors {
		if strings.EqualFold(actor.Name, name) {
			return actor.ID, true, nil
		}
	}

	return 0, false, nil
}

func findFight(fights []common.Fight, fightID int64) *common.Fight {
	for i := range fights {
		for _, id := range fights[i].IDs {
			if id == fightID {
				return &fights[i]
			}
		}
	}

	return nil
}

func findEntry(entries []common.PlayerMetricEntry, name string) *common.PlayerMetricEntry {
	for i := range entries {
		if strings.EqualFold(entries[i].Name, name) {
			return &entries[i]
		}
	}

	return nil
}

// specFromIcon derives the spec from an icon reference like "Mage-Frost".
// A reference with no separator carries no spec information.
func specFromIcon(iconRef string) string {
	idx := strings.LastIndex(iconRef, "-")
	if idx < 0 {
		return ""
	}

	return iconRef[idx+1:]
}

func metricName(dataType common.DataType) string {
	if dataType == common.DataTypeHealing {
		return "hps"
	}

	return "dps"
}

func sumTotals(abilities []common.AbilityBreakdown) int64 {
	var total int64
	for _, ability := range abilities {
		total += ability.Total
	}

	return total
}

// IsInterfaceNil returns true if the value under the interface is nil
func (c *comparer) IsInterfaceNil() bool {
	return c == nil
}
