package service

import (
	"zenda_backend/internal/repository"
	"zenda_backend/internal/util"
)

type StatsService struct {
	Stats *repository.StatsRepository
}

func NewStatsService(stats *repository.StatsRepository) *StatsService {
	return &StatsService{Stats: stats}
}

func (s *StatsService) Dashboard() (*repository.AdminStats, error) {
	stats, err := s.Stats.Collect()
	if err != nil {
		return nil, err
	}
	stats.AverageQuizScore = util.Round2(stats.AverageQuizScore)
	return stats, nil
}
