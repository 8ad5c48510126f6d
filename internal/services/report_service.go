package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/traininghub/training-api/internal/auth"
	"github.com/traininghub/training-api/internal/models"
)

// Report formats
const (
	FormatCSV   = "csv"
	FormatExcel = "excel"
	FormatPDF   = "pdf"
)

// reportMaxRows bounds how many rows of each table a report includes
const reportMaxRows = 10000

// Report is a generated report file ready to be streamed to the client
type Report struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ReportUserRepository lists users for report generation
type ReportUserRepository interface {
	// Method GetAll retrieves a paginated list of users.
	GetAll(ctx context.Context, page, count int) ([]models.User, error)
}

// ReportSessionRepository lists training sessions for report generation
type ReportSessionRepository interface {
	// Method GetAll retrieves a paginated list of training sessions.
	GetAll(ctx context.Context, page, count int) ([]models.Session, error)
}

// reportService assembles training reports in csv, excel, or pdf format
type reportService struct {
	userRepo    ReportUserRepository
	sessionRepo ReportSessionRepository
	logger      *zap.Logger
}

// NewReportService creates a new report service
func NewReportService(userRepo ReportUserRepository, sessionRepo ReportSessionRepository, logger *zap.Logger) *reportService {
	return &reportService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		logger:      logger,
	}
}

var userHeader = []string{"ID", "Username", "Email", "Role", "First Name", "Last Name", "Created At"}
var sessionHeader = []string{"ID", "Title", "Trainer ID", "Trainee ID", "Scheduled Date", "Duration (min)", "Status"}

// Generate builds a report over all users and sessions in the requested format
func (s *reportService) Generate(ctx context.Context, actor *models.User, format string) (*Report, error) {
	if err := auth.Authorize(actor.Role, actor.ID, auth.ActionGenerateReport, nil); err != nil {
		return nil, err
	}

	users, err := s.userRepo.GetAll(ctx, 1, reportMaxRows)
	if err != nil {
		return nil, err
	}
	sessions, err := s.sessionRepo.GetAll(ctx, 1, reportMaxRows)
	if err != nil {
		return nil, err
	}

	stamp := time.Now().Format("20060102")

	switch format {
	case FormatCSV:
		content, err := buildCSVReport(users, sessions)
		if err != nil {
			return nil, err
		}
		return &Report{
			Filename:    fmt.Sprintf("training-report-%s.csv", stamp),
			ContentType: "text/csv",
			Content:     content,
		}, nil

	case FormatExcel:
		content, err := buildExcelReport(users, sessions)
		if err != nil {
			return nil, err
		}
		return &Report{
			Filename:    fmt.Sprintf("training-report-%s.xlsx", stamp),
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Content:     content,
		}, nil

	case FormatPDF:
		content, err := buildPDFReport(users, sessions)
		if err != nil {
			return nil, err
		}
		return &Report{
			Filename:    fmt.Sprintf("training-report-%s.pdf", stamp),
			ContentType: "application/pdf",
			Content:     content,
		}, nil

	default:
		return nil, fmt.Errorf("%w: %q, use 'pdf', 'excel', or 'csv'", models.ErrUnsupportedFormat, format)
	}
}

func userRow(u *models.User) []string {
	return []string{
		strconv.Itoa(u.ID), u.Username, u.Email, string(u.Role),
		u.FirstName, u.LastName, u.CreatedAt.Format(time.RFC3339),
	}
}

func sessionRow(s *models.Session) []string {
	return []string{
		strconv.Itoa(s.ID), s.Title, strconv.Itoa(s.TrainerID), strconv.Itoa(s.TraineeID),
		s.ScheduledDate.Format(time.RFC3339), strconv.Itoa(s.DurationMinutes), string(s.Status),
	}
}

// buildCSVReport writes a users section followed by a sessions section
func buildCSVReport(users []models.User, sessions []models.Session) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	records := [][]string{{"Users"}, userHeader}
	for i := range users {
		records = append(records, userRow(&users[i]))
	}
	records = append(records, []string{}, []string{"Sessions"}, sessionHeader)
	for i := range sessions {
		records = append(records, sessionRow(&sessions[i]))
	}

	if err := w.WriteAll(records); err != nil {
		return nil, fmt.Errorf("failed to write csv report: %w", err)
	}

	return buf.Bytes(), nil
}

// buildExcelReport writes one sheet per table
func buildExcelReport(users []models.User, sessions []models.Session) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", "Users")
	if _, err := f.NewSheet("Sessions"); err != nil {
		return nil, fmt.Errorf("failed to create sessions sheet: %w", err)
	}

	writeSheet := func(sheet string, header []string, rows [][]string) error {
		for col, title := range header {
			cell, err := excelize.CoordinatesToCellName(col+1, 1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, title); err != nil {
				return err
			}
		}
		for i, row := range rows {
			for col, value := range row {
				cell, err := excelize.CoordinatesToCellName(col+1, i+2)
				if err != nil {
					return err
				}
				if err := f.SetCellValue(sheet, cell, value); err != nil {
					return err
				}
			}
		}
		return nil
	}

	userRows := make([][]string, len(users))
	for i := range users {
		userRows[i] = userRow(&users[i])
	}
	if err := writeSheet("Users", userHeader, userRows); err != nil {
		return nil, fmt.Errorf("failed to write users sheet: %w", err)
	}

	sessionRows := make([][]string, len(sessions))
	for i := range sessions {
		sessionRows[i] = sessionRow(&sessions[i])
	}
	if err := writeSheet("Sessions", sessionHeader, sessionRows); err != nil {
		return nil, fmt.Errorf("failed to write sessions sheet: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write excel report: %w", err)
	}

	return buf.Bytes(), nil
}

// buildPDFReport writes a summary page with one line per row
func buildPDFReport(users []models.User, sessions []models.Session) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Training Report")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Users (%d)", len(users)))
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	for i := range users {
		u := &users[i]
		pdf.Cell(0, 6, fmt.Sprintf("%d  %s  %s  %s  %s %s", u.ID, u.Username, u.Email, u.Role, u.FirstName, u.LastName))
		pdf.Ln(6)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Sessions (%d)", len(sessions)))
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	for i := range sessions {
		sess := &sessions[i]
		pdf.Cell(0, 6, fmt.Sprintf("%d  %s  trainer=%d trainee=%d  %s  %dmin  %s",
			sess.ID, sess.Title, sess.TrainerID, sess.TraineeID,
			sess.ScheduledDate.Format("2006-01-02 15:04"), sess.DurationMinutes, sess.Status))
		pdf.Ln(6)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write pdf report: %w", err)
	}

	return buf.Bytes(), nil
}
