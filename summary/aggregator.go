package summary

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"

	"github.com/raidwatch/wcl-raid-analytics/common"
	"github.com/raidwatch/wcl-raid-analytics/config"
)

var log = logger.GetOrCreate("summary")

// aggregator folds one player's presence across a guild's report history.
// Reports are independent of each other, so they are processed by a bounded
// worker pool; the output order stays most-recent-first regardless of which
// worker finishes when.
type aggregator struct {
	fetcher Fetcher
	config  config.SummaryConfig
}

// NewAggregator creates a per-player summary aggregator over the provided fetcher
func NewAggregator(fetcher Fetcher, cfg config.SummaryConfig) (*aggregator, error) {
	if check.IfNil(fetcher) {
		return nil, errors.New("nil fetcher")
	}
	if cfg.MaxConcurrentReports == 0 {
		cfg.MaxConcurrentReports = 1
	}

	return &aggregator{
		fetcher: fetcher,
		config:  cfg,
	}, nil
}

// PlayerSummary gathers the player's per-report activity and their latest gear
// snapshot. Reports where the player is absent or where the table fetch fails
// are skipped. A cancelled context returns the results accumulated so far
// together with the context's error.
func (a *aggregator) PlayerSummary(
	ctx context.Context,
	guild string,
	server string,
	region string,
	player string,
) (*common.PlayerSummary, error) {
	reports, err := a.fetcher.Reports(ctx, guild, server, region, a.config.ReportsLimit)
	if err != nil {
		return nil, err
	}

	// slots keep the reports' most-recent-first order across workers
	slots := make([]*reportResult, len(reports))
	semaphore := make(chan struct{}, a.config.MaxConcurrentReports)
	wg := sync.WaitGroup{}

	for i, report := range reports {
		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		semaphore <- struct{}{}
		go func(idx int, report common.Report) {
			defer func() {
				<-semaphore
				wg.Done()
			}()

			slots[idx] = a.processReport(ctx, report, player)
		}(i, report)
	}
	wg.Wait()

	result := &common.PlayerSummary{
		Player: player,
		Logs:   make([]common.ReportActivity, 0, len(reports)),
	}
	for _, slot := range slots {
		if slot == nil {
			continue
		}

		result.Logs = append(result.Logs, slot.activity)
		if result.Export == nil {
			// slots are ordered most-recent-first, so the first hit wins
			result.Export = slot.snapshot
		}
	}

	return result, ctx.Err()
}

type reportResult struct {
	activity common.ReportActivity
	snapshot *common.GearSnapshot
}

// processReport returns nil when the player is absent from the report or the
// report could not be read
func (a *aggregator) processReport(ctx context.Context, report common.Report, player string) *reportResult {
	entries, err := a.fetcher.Table(ctx, report.Code, common.DataTypeDamage, nil)
	if err != nil {
		log.Warn("skipping report, table fetch failed", "report", report.Code, "error", err)
		return nil
	}
	entry := findEntry(entries, player)
	if entry == nil {
		return nil
	}

	activity := common.ReportActivity{
		ReportCode:      report.Code,
		Title:           report.Title,
		Zone:            report.ZoneName,
		StartTimeMillis: report.StartTimeMillis,
		Bosses:          a.bossRows(ctx, report.Code, player),
	}

	return &reportResult{
		activity: activity,
		snapshot: gearSnapshot(entry),
	}
}

// bossRows resolves the player's output on each boss fight of the report. A
// player absent from one boss still gets a row, with zeroed amounts.
func (a *aggregator) bossRows(ctx context.Context, reportCode string, player string) []common.BossPerformance {
	fights, err := a.fetcher.Fights(ctx, reportCode)
	if err != nil {
		log.Warn("fights listing failed, report kept without boss rows", "report", reportCode, "error", err)
		return make([]common.BossPerformance, 0)
	}

	rows := make([]common.BossPerformance, 0, len(fights))
	for _, fight := range fights {
		if fight.IsTrash || len(fight.IDs) == 0 {
			continue
		}

		row := common.BossPerformance{
			FightID:         fight.IDs[0],
			Name:            fight.Name,
			Kill:            fight.Kill,
			DurationSeconds: fight.DurationSeconds,
		}

		entries, err := a.fetcher.Table(ctx, reportCode, common.DataTypeDamage, fight.IDs)
		if err != nil {
			log.Warn("boss table fetch failed, row zeroed", "report", reportCode, "fight", fight.Name, "error", err)
			rows = append(rows, row)
			continue
		}
		if entry := findEntry(entries, player); entry != nil {
			row.Damage = entry.TotalAmount
			row.DPS = common.Throughput(entry.TotalAmount, entry.ActiveTimeMillis)
		}

		rows = append(rows, row)
	}

	return rows
}

func gearSnapshot(entry *common.PlayerMetricEntry) *common.GearSnapshot {
	if len(entry.Gear.Pieces) == 0 {
		return nil
	}

	return &common.GearSnapshot{
		Name:             entry.Name,
		ClassName:        entry.ClassType,
		AverageItemLevel: entry.Gear.AverageItemLevel,
		GearDisplay:      entry.Gear.Pieces,
		Items:            entry.Gear.Items,
	}
}

func findEntry(entries []common.PlayerMetricEntry, name string) *common.PlayerMetricEntry {
	for i := range entries {
		if strings.EqualFold(entries[i].Name, name) {
			return &entries[i]
		}
	}

	return nil
}

// IsInterfaceNil returns true if the value under the interface is nil
func (a *aggregator) IsInterfaceNil() bool {
	return a == nil
}
