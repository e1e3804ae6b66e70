package utils

import (
	"strconv"
	"strings"
)

const SecondsPerDay uint64 = 86400

// BuildID derives the key of an immutable feed record. Transaction hash and
// log index identify one log on the chain, so the id is stable under replays
// and never shared by two events.
func BuildID(prefix string, txHash string, logIndex uint64) string {
	var b strings.Builder
	b.Grow(len(prefix) + len(txHash) + 22)
	b.WriteString(prefix)
	b.WriteByte('-')
	b.WriteString(txHash)
	b.WriteByte('-')
	b.WriteString(strconv.FormatUint(logIndex, 10))
	return b.String()
}

// DayStart returns the start of the day bucket containing ts.
func DayStart(ts uint64) uint64 {
	return ts / SecondsPerDay * SecondsPerDay
}

// DayID is the key of the DailyProtocolStat for the bucket containing ts.
func DayID(ts uint64) string {
	return strconv.FormatUint(DayStart(ts), 10)
}
