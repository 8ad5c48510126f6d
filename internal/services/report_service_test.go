package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/traininghub/training-api/internal/models"
)

// mockReportUserRepository is a mock implementation of ReportUserRepository
type mockReportUserRepository struct {
	users []models.User
	err   error
}

func (m *mockReportUserRepository) GetAll(ctx context.Context, page, count int) ([]models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.users, nil
}

// mockReportSessionRepository is a mock implementation of ReportSessionRepository
type mockReportSessionRepository struct {
	sessions []models.Session
	err      error
}

func (m *mockReportSessionRepository) GetAll(ctx context.Context, page, count int) ([]models.Session, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.sessions, nil
}

func reportFixtures() (*mockReportUserRepository, *mockReportSessionRepository) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	users := []models.User{
		{ID: 1, Username: "alice", Email: "alice@example.com", Role: models.RoleAdmin, FirstName: "Alice", LastName: "Smith", CreatedAt: now},
		{ID: 2, Username: "bob", Email: "bob@example.com", Role: models.RoleTrainee, FirstName: "Bob", LastName: "Jones", CreatedAt: now},
	}
	sessions := []models.Session{
		{ID: 1, Title: "Onboarding", TrainerID: 1, TraineeID: 2, ScheduledDate: now, DurationMinutes: 60, Status: models.StatusScheduled},
	}
	return &mockReportUserRepository{users: users}, &mockReportSessionRepository{sessions: sessions}
}

func TestReportService_Generate_CSV(t *testing.T) {
	userRepo, sessionRepo := reportFixtures()
	service := NewReportService(userRepo, sessionRepo, zap.NewNop())

	report, err := service.Generate(context.Background(), adminActor(), FormatCSV)

	require.NoError(t, err)
	require.NotNil(t, report)
	assert.Equal(t, "text/csv", report.ContentType)
	assert.Equal(t, fmt.Sprintf("training-report-%s.csv", time.Now().Format("20060102")), report.Filename)

	content := string(report.Content)
	assert.True(t, strings.HasPrefix(content, "Users\n"))
	assert.Contains(t, content, "ID,Username,Email,Role,First Name,Last Name,Created At")
	assert.Contains(t, content, "1,alice,alice@example.com,admin,Alice,Smith")
	assert.Contains(t, content, "Sessions\n")
	assert.Contains(t, content, "1,Onboarding,1,2,")
}

func TestReportService_Generate_Excel(t *testing.T) {
	userRepo, sessionRepo := reportFixtures()
	service := NewReportService(userRepo, sessionRepo, zap.NewNop())

	report, err := service.Generate(context.Background(), adminActor(), FormatExcel)

	require.NoError(t, err)
	require.NotNil(t, report)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", report.ContentType)
	assert.True(t, strings.HasSuffix(report.Filename, ".xlsx"))
	// xlsx files are zip archives
	require.GreaterOrEqual(t, len(report.Content), 2)
	assert.Equal(t, []byte("PK"), report.Content[:2])
}

func TestReportService_Generate_PDF(t *testing.T) {
	userRepo, sessionRepo := reportFixtures()
	service := NewReportService(userRepo, sessionRepo, zap.NewNop())

	report, err := service.Generate(context.Background(), adminActor(), FormatPDF)

	require.NoError(t, err)
	require.NotNil(t, report)
	assert.Equal(t, "application/pdf", report.ContentType)
	assert.True(t, strings.HasSuffix(report.Filename, ".pdf"))
	require.GreaterOrEqual(t, len(report.Content), 5)
	assert.Equal(t, []byte("%PDF-"), report.Content[:5])
}

func TestReportService_Generate_UnsupportedFormat(t *testing.T) {
	userRepo, sessionRepo := reportFixtures()
	service := NewReportService(userRepo, sessionRepo, zap.NewNop())

	report, err := service.Generate(context.Background(), adminActor(), "docx")

	assert.ErrorIs(t, err, models.ErrUnsupportedFormat)
	assert.Nil(t, report)
}

func TestReportService_Generate_Forbidden(t *testing.T) {
	userRepo, sessionRepo := reportFixtures()
	service := NewReportService(userRepo, sessionRepo, zap.NewNop())

	report, err := service.Generate(context.Background(), trainerActor(), FormatCSV)

	assert.ErrorIs(t, err, models.ErrForbidden)
	assert.Nil(t, report)
}
