// api/service/stats_service.go
package service

import (
	"context"
	"strings"

	"github.com/trashmob-eco/trashmob-api/dao"
	"github.com/trashmob-eco/trashmob-api/model"
	"github.com/trashmob-eco/trashmob-api/util"
)

// IStatsService defines the interface for public metrics and CSV exports
type IStatsService interface {
	GetSummary(ctx context.Context) (*model.StatsSummary, error)
	TeamLeaderboard(ctx context.Context, limit int) ([]*model.TeamLeaderboardEntry, error)
	ExportAdoptionCSV(ctx context.Context, partnerID string) (string, error)
	ExportSponsorCleanupCSV(ctx context.Context, partnerID string) (string, error)
}

type StatsService struct {
	statsDAO *dao.StatsDAO
}

var _ IStatsService = &StatsService{}

func NewStatsService(statsDAO *dao.StatsDAO) *StatsService {
	return &StatsService{statsDAO: statsDAO}
}

func (s *StatsService) GetSummary(ctx context.Context) (*model.StatsSummary, error) {
	return s.statsDAO.GetSummary(ctx)
}

func (s *StatsService) TeamLeaderboard(ctx context.Context, limit int) ([]*model.TeamLeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	return s.statsDAO.TeamLeaderboard(ctx, limit)
}

func (s *StatsService) ExportAdoptionCSV(ctx context.Context, partnerID string) (string, error) {
	rows, err := s.statsDAO.AdoptionRows(ctx, partnerID)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	util.WriteCSVRow(&b, "Area", "Adopted By", "Created Date")
	for _, row := range rows {
		util.WriteCSVRow(&b, row...)
	}
	return b.String(), nil
}

func (s *StatsService) ExportSponsorCleanupCSV(ctx context.Context, partnerID string) (string, error) {
	rows, err := s.statsDAO.SponsorCleanupRows(ctx, partnerID)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	util.WriteCSVRow(&b, "Event", "Date", "Bags Collected", "Attendees", "Duration Hours")
	for _, row := range rows {
		util.WriteCSVRow(&b, row...)
	}
	return b.String(), nil
}
