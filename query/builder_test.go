package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raidwatch/wcl-raid-analytics/common"
)

func TestGuildReports(t *testing.T) {
	t.Parallel()

	q := GuildReports("sanctuary", "living-flame", "US", 100)

	assert.Contains(t, q, `guildName: "sanctuary"`)
	assert.Contains(t, q, `guildServerSlug: "living-flame"`)
	assert.Contains(t, q, `guildServerRegion: "US"`)
	assert.Contains(t, q, "limit: 100")
	assert.Contains(t, q, "startTime")
}

func TestPagedReports(t *testing.T) {
	t.Parallel()

	t.Run("nil cursor omits the startTime filter", func(t *testing.T) {
		q := PagedReports(1, nil)

		assert.Contains(t, q, "reports(page: 1)")
		assert.NotContains(t, q, "startTime:")
	})
	t.Run("cursor adds the startTime filter", func(t *testing.T) {
		cursor := int64(1746412800000)
		q := PagedReports(3, &cursor)

		assert.Contains(t, q, "reports(page: 3, startTime: 1746412800000)")
	})
}

func TestTable(t *testing.T) {
	t.Parallel()

	t.Run("no optional filters", func(t *testing.T) {
		q := Table("ABC123", common.DataTypeDamage, nil, nil)

		assert.Contains(t, q, `report(code: "ABC123")`)
		assert.Contains(t, q, "table(dataType: DamageDone, startTime: 0, endTime: 100000000)")
		assert.NotContains(t, q, "fightIDs")
		assert.NotContains(t, q, "sourceID")
	})
	t.Run("fight ids serialize comma-joined", func(t *testing.T) {
		q := Table("ABC123", common.DataTypeHealing, []int64{4, 7, 12}, nil)

		assert.Contains(t, q, "dataType: Healing")
		assert.Contains(t, q, "fightIDs: [4,7,12]")
	})
	t.Run("source actor filter", func(t *testing.T) {
		sourceID := int64(23)
		q := Table("ABC123", common.DataTypeDamage, []int64{4}, &sourceID)

		assert.Contains(t, q, "fightIDs: [4]")
		assert.Contains(t, q, "sourceID: 23")
	})
}

func TestGraph(t *testing.T) {
	t.Parallel()

	sourceID := int64(5)
	q := Graph("XYZ", common.DataTypeDamage, []int64{2}, &sourceID)

	require.Contains(t, q, "graph(dataType: DamageDone, startTime: 0, endTime: 100000000, fightIDs: [2], sourceID: 5)")
}

func TestFightsAndMasterActors(t *testing.T) {
	t.Parallel()

	q := Fights("ABC123")
	assert.Contains(t, q, `report(code: "ABC123")`)
	assert.Contains(t, q, "encounterID")
	assert.Contains(t, q, "bossPercentage")

	q = MasterActors("ABC123")
	assert.Contains(t, q, "masterData")
	assert.Contains(t, q, "subType")
}

func TestEncounterRankings(t *testing.T) {
	t.Parallel()

	q := EncounterRankings(1028, "Mage", "Frost", "dps")

	assert.Contains(t, q, "encounter(id: 1028)")
	assert.Contains(t, q, `characterRankings(className: "Mage", specName: "Frost", metric: dps)`)
}
