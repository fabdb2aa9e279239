package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/raidwatch/wcl-raid-analytics/common"
)

// The full-report window used when no fight filter applies
const (
	tableStartTime = 0
	tableEndTime   = 100000000
)

// GuildReports composes the report listing query for one guild
func GuildReports(guild string, server string, region string, limit uint32) string {
	return fmt.Sprintf(`{
  reportData {
    reports(guildName: %q, guildServerSlug: %q, guildServerRegion: %q, limit: %d) {
      data {
        code
        title
        startTime
        zone {
          name
        }
        owner {
          name
        }
      }
    }
  }
}`, guild, server, region, limit)
}

// PagedReports composes one page of the server-wide report listing. A nil
// cursor omits the startTime filter entirely instead of emitting an empty
// clause.
func PagedReports(page uint32, startTimeMillis *int64) string {
	args := []string{fmt.Sprintf("page: %d", page)}
	if startTimeMillis != nil {
		args = append(args, fmt.Sprintf("startTime: %d", *startTimeMillis))
	}

	return fmt.Sprintf(`{
  reportData {
    reports(%s) {
      data {
        code
        title
        startTime
        zone {
          name
        }
        owner {
          name
        }
      }
    }
  }
}`, strings.Join(args, ", "))
}

// Fights composes the fight listing query for one report
func Fights(reportCode string) string {
	return fmt.Sprintf(`{
  reportData {
    report(code: %q) {
      fights {
        id
        name
        encounterID
        startTime
        endTime
        difficulty
        bossPercentage
      }
    }
  }
}`, reportCode)
}

// Table composes a damage or healing table query. The fight-id and
// source-actor filters are omitted when absent.
func Table(reportCode string, dataType common.DataType, fightIDs []int64, sourceID *int64) string {
	return fmt.Sprintf(`{
  reportData {
    report(code: %q) {
      table(%s)
    }
  }
}`, reportCode, metricArgs(dataType, fightIDs, sourceID))
}

// Graph composes a time-series graph query with the same optional filters as
// Table
func Graph(reportCode string, dataType common.DataType, fightIDs []int64, sourceID *int64) string {
	return fmt.Sprintf(`{
  reportData {
    report(code: %q) {
      graph(%s)
    }
  }
}`, reportCode, metricArgs(dataType, fightIDs, sourceID))
}

// MasterActors composes the master-actor listing query for one report
func MasterActors(reportCode string) string {
	return fmt.Sprintf(`{
  reportData {
    report(code: %q) {
      masterData {
        actors {
          id
          name
          type
          subType
        }
      }
    }
  }
}`, reportCode)
}

// EncounterRankings composes the world-leaderboard query for one encounter,
// filtered by class, spec and metric
func EncounterRankings(encounterID int64, className string, specName string, metric string) string {
	return fmt.Sprintf(`{
  worldData {
    encounter(id: %d) {
      name
      characterRankings(className: %q, specName: %q, metric: %s)
    }
  }
}`, encounterID, className, specName, metric)
}

func metricArgs(dataType common.DataType, fightIDs []int64, sourceID *int64) string {
	args := []string{
		"dataType: " + string(dataType),
		fmt.Sprintf("startTime: %d", tableStartTime),
		fmt.Sprintf("endTime: %d", tableEndTime),
	}
	if len(fightIDs) > 0 {
		args = append(args, "fightIDs: ["+joinIDs(fightIDs)+"]")
	}
	if sourceID != nil {
		args = append(args, "sourceID: "+strconv.FormatInt(*sourceID, 10))
	}

	return strings.Join(args, ", ")
}

func joinIDs(ids []int64) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.FormatInt(id, 10))
	}

	return strings.Join(parts, ",")
}
