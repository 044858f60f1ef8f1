package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/stephen4599/Civic-resolve/internal/models"
	"github.com/stephen4599/Civic-resolve/internal/repositories"
)

type analyticsService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewAnalyticsService(repo repositories.Repository, logger *slog.Logger) AnalyticsService {
	return &analyticsService{
		repo:   repo,
		logger: logger,
	}
}

func (s *analyticsService) CategoryCounts(ctx context.Context) (*AnalyticsSummary, error) {
	counts, err := s.repo.Issue().CountByCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count issues by category: %w", err)
	}

	summary := &AnalyticsSummary{Categories: counts}
	for _, c := range counts {
		summary.Total += c.Count
	}
	return summary, nil
}

func (s *analyticsService) Locations(ctx context.Context) ([]models.LocationPoint, error) {
	issues, err := s.repo.Issue().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list issues: %w", err)
	}

	points := make([]models.LocationPoint, 0, len(issues))
	for _, issue := range issues {
		points = append(points, models.LocationPoint{
			Latitude:  issue.Latitude,
			Longitude: issue.Longitude,
			Weight:    1,
		})
	}
	return points, nil
}

// ExportIssues builds an xlsx workbook with one row per issue for offline
// admin reporting.
func (s *analyticsService) ExportIssues(ctx context.Context) ([]byte, error) {
	issues, err := s.repo.Issue().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list issues: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Issues"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"ID", "Description", "Address", "Pincode", "Category", "Other Category",
		"Latitude", "Longitude", "Status", "Remark", "Reported By", "Contractor ID", "Created At", "Updated At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, issue := range issues {
		contractorID := ""
		if issue.ContractorID != nil {
			contractorID = strconv.FormatUint(uint64(*issue.ContractorID), 10)
		}

		values := []interface{}{
			issue.ID,
			issue.Description,
			issue.Address,
			issue.Pincode,
			string(issue.Category),
			issue.OtherCategory,
			issue.Latitude,
			issue.Longitude,
			string(issue.Status),
			issue.Remark,
			issue.User.Username,
			contractorID,
			issue.CreatedAt.Format(time.RFC3339),
			issue.UpdatedAt.Format(time.RFC3339),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}

	s.logger.Info("Exported issues workbook", "rows", len(issues))
	return buf.Bytes(), nil
}
