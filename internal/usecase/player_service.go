package usecase

import (
	"context"

	"github.com/riskibarqy/gameweek-picks/internal/domain/player"
)

type PlayerService struct {
	roster player.Roster
}

func NewPlayerService(roster player.Roster) *PlayerService {
	return &PlayerService{roster: roster}
}

func (s *PlayerService) List(ctx context.Context) []string {
	_, span := startUsecaseSpan(ctx, "usecase.PlayerService.List")
	defer span.End()

	return s.roster.IDs()
}
