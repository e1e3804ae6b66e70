package model

import "github.com/lendoor/lendoor-indexer/internal/types"

const LastProcessedPositionID = "last_processed_position"

type LastProcessedPositionDocument struct {
	ID                string `bson:"_id"`
	types.LogPosition `bson:",inline"`
}
