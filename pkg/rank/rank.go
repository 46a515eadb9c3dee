// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package rank

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
)

const (
	// MaxIconRank is the highest rank that has its own icon asset.
	MaxIconRank = 31

	legendPrefix = "Legend "

	// UnknownName is shown for ranks below 1, which the ratings API should never report.
	UnknownName = "Unknown"

	// thousandsFormat tells humanize to group by three with a space and print no fraction.
	thousandsFormat = "# ###."
)

// Table holds the display names of ranks 1 through 30, in order.
var Table = [...]string{
	"Recruit",
	"Private",
	"Gefreiter",
	"Corporal",
	"Master Corporal",
	"Sergeant",
	"Staff Sergeant",
	"Master Sergeant",
	"First Sergeant",
	"Sergeant-Major",
	"Warrant Officer 1",
	"Warrant Officer 2",
	"Warrant Officer 3",
	"Warrant Officer 4",
	"Warrant Officer 5",
	"Third Lieutenant",
	"Second Lieutenant",
	"First Lieutenant",
	"Captain",
	"Major",
	"Lieutenant Colonel",
	"Colonel",
	"Brigadier",
	"Major General",
	"Lieutenant General",
	"General",
	"Marshal",
	"Field Marshal",
	"Commander",
	"Generalissimo",
}

// Name returns the display name of a 1-based rank.
// Ranks past the end of Table are Legend ranks, numbered from 2.
// Ranks below 1 yield UnknownName.
func Name(r int) string {
	if r < 1 {
		return UnknownName
	}
	if r <= len(Table) {
		return Table[r-1]
	}
	return legendPrefix + strconv.Itoa(r-len(Table)+1)
}

// FormatThousands renders n with a space between every group of three digits,
// e.g. 1234567 becomes "1 234 567". Formatting goes through float64, so magnitudes
// past 2^53 lose precision in the last digits; XP never gets near that.
func FormatThousands(n int) string {
	return humanize.FormatInteger(thousandsFormat, n)
}

// IconKey returns the presence asset key for a rank icon.
func IconKey(premium bool, r int) string {
	kind := "normal"
	if premium {
		kind = "premium"
	}
	return fmt.Sprintf("icons%s_%02d", kind, min(r, MaxIconRank))
}
