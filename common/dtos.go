package common

import "math"

// DataType selects which metric table the upstream returns
type DataType string

const (
	// DataTypeDamage requests the damage-done table
	DataTypeDamage DataType = "DamageDone"
	// DataTypeHealing requests the healing table
	DataTypeHealing DataType = "Healing"
)

// Cosmetic gear slots that never count towards the average item level
const (
	SlotShirt  = 3
	SlotTabard = 18
)

// Report is one recorded raid session, identified by an opaque code
type Report struct {
	Code            string `json:"code"`
	Title           string `json:"title"`
	ZoneName        string `json:"zone"`
	OwnerName       string `json:"owner"`
	StartTimeMillis int64  `json:"startTime"`
}

// Fight is one encounter segment within a report. All trash segments of a
// report (encounterID == 0) are merged into a single synthetic aggregate
// holding the constituent ids and the summed duration.
type Fight struct {
	IDs             []int64  `json:"ids"`
	Name            string   `json:"name"`
	EncounterID     int64    `json:"encounterID"`
	StartTimeMillis int64    `json:"startTime"`
	EndTimeMillis   int64    `json:"endTime"`
	DurationSeconds int64    `json:"duration"`
	BossPercentage  *float64 `json:"bossPercentage,omitempty"`
	Difficulty      *int64   `json:"difficulty,omitempty"`
	Kill            *bool    `json:"kill,omitempty"`
	IsTrash         bool     `json:"isTrash"`
}

// GearPiece is one equipped item of a player
type GearPiece struct {
	Slot             int64   `json:"slot"`
	ItemID           int64   `json:"itemId"`
	ItemLevel        int64   `json:"itemLevel"`
	Name             string  `json:"name"`
	PermanentEnchant string  `json:"permanentEnchant,omitempty"`
	TemporaryEnchant string  `json:"temporaryEnchant,omitempty"`
	Gems             []int64 `json:"gems,omitempty"`
}

// SimItem is the simulator-export form of a gear piece
type SimItem struct {
	ID      int64 `json:"id"`
	Enchant int64 `json:"enchant,omitempty"`
	Rune    int64 `json:"rune,omitempty"`
}

// GearLoadout is a player's equipped items at a point in time. Pieces holds at
// most one entry per slot and AverageItemLevel follows the cosmetic-slot and
// placeholder-level exclusions.
type GearLoadout struct {
	Pieces           []GearPiece `json:"pieces"`
	AverageItemLevel float64     `json:"avgItemLevel"`
	Items            []SimItem   `json:"items"`
}

// PlayerMetricEntry is one player row of a damage or healing table
type PlayerMetricEntry struct {
	Name             string      `json:"name"`
	ClassType        string      `json:"class"`
	IconRef          string      `json:"icon"`
	TotalAmount      int64       `json:"total"`
	ActiveTimeMillis int64       `json:"activeTime"`
	Gear             GearLoadout `json:"gear"`
}

// AbilityBreakdown is one ranked contribution row of an actor's table
type AbilityBreakdown struct {
	Name      string `json:"name"`
	Total     int64  `json:"total"`
	Uses      int64  `json:"uses"`
	HitCount  int64  `json:"hitCount"`
	TickCount int64  `json:"tickCount"`
}

// TimelinePoint is one combined time-series sample; simultaneous multi-source
// contributions collapse onto the same whole second
type TimelinePoint struct {
	Second int64   `json:"second"`
	Value  float64 `json:"value"`
}

// Actor is an upstream-assigned participant id within one report
type Actor struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	SubType string `json:"subType"`
}

// RankingEntry is one world-leaderboard row for an encounter
type RankingEntry struct {
	Name       string  `json:"name"`
	ClassName  string  `json:"class"`
	SpecName   string  `json:"spec"`
	Amount     float64 `json:"amount"`
	ReportCode string  `json:"reportCode"`
	FightID    int64   `json:"fightID"`
	ServerName string  `json:"server"`
}

// PlayerPerformance is one side of a comparison: a player's output in a
// single fight plus their ranked ability breakdown
type PlayerPerformance struct {
	Name            string             `json:"name"`
	Class           string             `json:"class"`
	Spec            string             `json:"spec"`
	Total           int64              `json:"total"`
	Throughput      float64            `json:"throughput"`
	DurationSeconds int64              `json:"duration"`
	Abilities       []AbilityBreakdown `json:"abilities"`
}

// ComparisonResult holds the subject player and the top-ranked parse for the
// same encounter, class, spec and metric. Built fresh per request.
type ComparisonResult struct {
	EncounterName string            `json:"encounterName"`
	Metric        DataType          `json:"metric"`
	Player        PlayerPerformance `json:"player"`
	Top           PlayerPerformance `json:"top"`
}

// BossPerformance is a player's output on one boss fight of one report
type BossPerformance struct {
	FightID         int64   `json:"fightId"`
	Name            string  `json:"name"`
	Kill            *bool   `json:"kill,omitempty"`
	Damage          int64   `json:"damage"`
	DPS             float64 `json:"dps"`
	DurationSeconds int64   `json:"duration"`
}

// ReportActivity is one report a player participated in, with per-boss rows
type ReportActivity struct {
	ReportCode      string            `json:"reportCode"`
	Title           string            `json:"title"`
	Zone            string            `json:"zone"`
	StartTimeMillis int64             `json:"startTime"`
	Bosses          []BossPerformance `json:"bosses"`
}

// GearSnapshot is the latest observed loadout of a player, taken from the
// most recent report the player appears in
type GearSnapshot struct {
	Name             string      `json:"name"`
	ClassName        string      `json:"className"`
	AverageItemLevel float64     `json:"avgItemLevel"`
	GearDisplay      []GearPiece `json:"gearDisplay"`
	Items            []SimItem   `json:"gear"`
}

// PlayerSummary folds a player's presence across a guild's report history
type PlayerSummary struct {
	Player string           `json:"player"`
	Logs   []ReportActivity `json:"logs"`
	Export *GearSnapshot    `json:"export,omitempty"`
}

// Throughput derives damage or healing per second. The rounding and the
// zero-guard must stay exactly like this: round(total/activeTime*1000, 2)
// when activeTime > 0, else 0.
func Throughput(total int64, activeTimeMillis int64) float64 {
	if activeTimeMillis <= 0 {
		return 0
	}

	return math.Round(float64(total)/float64(activeTimeMillis)*1000*100) / 100
}
