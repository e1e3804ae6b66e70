package model

import (
	"cosmossdk.io/math"
)

// GlobalStatsID is the key of the ProtocolStat singleton
const GlobalStatsID = "global"

// StatCounters is the counter set shared by the global and daily stats.
type StatCounters struct {
	LoansOriginated     uint64   `bson:"loans_originated" json:"loans_originated"`
	UniqueBorrowers     uint64   `bson:"unique_borrowers" json:"unique_borrowers"`
	PrincipalOriginated math.Int `bson:"principal_originated" json:"principal_originated"`
	PrincipalRepaid     math.Int `bson:"principal_repaid" json:"principal_repaid"`
	InterestRepaid      math.Int `bson:"interest_repaid" json:"interest_repaid"`
	LastUpdated         uint64   `bson:"last_updated" json:"last_updated"`
}

func zeroCounters(lastUpdated uint64) StatCounters {
	return StatCounters{
		PrincipalOriginated: math.ZeroInt(),
		PrincipalRepaid:     math.ZeroInt(),
		InterestRepaid:      math.ZeroInt(),
		LastUpdated:         lastUpdated,
	}
}

type ProtocolStatDocument struct {
	ID           string `bson:"_id" json:"id"`
	StatCounters `bson:",inline"`
}

func NewProtocolStat() *ProtocolStatDocument {
	return &ProtocolStatDocument{
		ID:           GlobalStatsID,
		StatCounters: zeroCounters(0),
	}
}

// DailyProtocolStatDocument is keyed by the decimal day start timestamp.
type DailyProtocolStatDocument struct {
	ID           string `bson:"_id" json:"id"`
	DayStart     uint64 `bson:"day_start" json:"day_start"`
	StatCounters `bson:",inline"`
}

func NewDailyProtocolStat(id string, dayStart, ts uint64) *DailyProtocolStatDocument {
	return &DailyProtocolStatDocument{
		ID:           id,
		DayStart:     dayStart,
		StatCounters: zeroCounters(ts),
	}
}
