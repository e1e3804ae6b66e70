package services

import (
	"github.com/lendoor/lendoor-indexer/internal/config"
	"github.com/lendoor/lendoor-indexer/internal/db"
)

// Service materializes the lending protocol log into the store. It holds no
// aggregate state of its own, every event reloads what it touches.
type Service struct {
	cfg *config.Config
	db  db.DbInterface
}

func NewService(cfg *config.Config, db db.DbInterface) *Service {
	return &Service{
		cfg: cfg,
		db:  db,
	}
}
