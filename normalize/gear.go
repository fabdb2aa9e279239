package normalize

import (
	"math"

	"github.com/tidwall/gjson"

	"github.com/raidwatch/wcl-raid-analytics/common"
)

// Item levels 0 and 1 are upstream placeholders for empty or hidden slots
func isPlaceholderItemLevel(level int64) bool {
	return level == 0 || level == 1
}

func isCosmeticSlot(slot int64) bool {
	return slot == common.SlotShirt || slot == common.SlotTabard
}

// Gear maps a player's raw gear array into a slot-deduplicated loadout. The
// upstream occasionally repeats a slot; only the first occurrence counts and
// later duplicates are skipped. A malformed piece is logged and skipped,
// never aborting the rest of the loadout. The average item level excludes
// cosmetic slots and placeholder levels, with a divisor of at least 1.
func Gear(raw gjson.Result) common.GearLoadout {
	loadout := common.GearLoadout{
		Pieces: make([]common.GearPiece, 0, len(raw.Array())),
		Items:  make([]common.SimItem, 0, len(raw.Array())),
	}
	if !raw.IsArray() {
		return loadout
	}

	seenSlots := make(map[int64]struct{})
	var countedSlots int
	var totalItemLevel int64

	for _, rawPiece := range raw.Array() {
		slotValue := rawPiece.Get("slot")
		if !rawPiece.IsObject() || !slotValue.Exists() {
			log.Warn("skipping malformed gear piece", "piece", rawPiece.Raw)
			continue
		}

		slot := slotValue.Int()
		if _, seen := seenSlots[slot]; seen {
			continue
		}
		seenSlots[slot] = struct{}{}

		piece := common.GearPiece{
			Slot:             slot,
			ItemID:           rawPiece.Get("id").Int(),
			ItemLevel:        rawPiece.Get("itemLevel").Int(),
			Name:             stringOr(rawPiece.Get("name"), "Empty"),
			PermanentEnchant: rawPiece.Get("permanentEnchantName").String(),
			TemporaryEnchant: rawPiece.Get("temporaryEnchantName").String(),
		}
		for _, gem := range rawPiece.Get("gems").Array() {
			piece.Gems = append(piece.Gems, gem.Get("id").Int())
		}

		if !isPlaceholderItemLevel(piece.ItemLevel) && !isCosmeticSlot(slot) {
			totalItemLevel += piece.ItemLevel
			countedSlots++
		}

		loadout.Pieces = append(loadout.Pieces, piece)

		if piece.ItemID != 0 {
			loadout.Items = append(loadout.Items, common.SimItem{
				ID:      piece.ItemID,
				Enchant: rawPiece.Get("permanentEnchant").Int(),
				Rune:    rawPiece.Get("temporaryEnchant").Int(),
			})
		}
	}

	divisor := countedSlots
	if divisor < 1 {
		divisor = 1
	}
	loadout.AverageItemLevel = math.Round(float64(totalItemLevel)/float64(divisor)*100) / 100

	return loadout
}
