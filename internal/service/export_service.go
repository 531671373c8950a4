package service

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/showrunner-hq/showrunner-api/internal/models"
	appErrors "github.com/showrunner-hq/showrunner-api/pkg/errors"
	"github.com/showrunner-hq/showrunner-api/pkg/export"
	"github.com/showrunner-hq/showrunner-api/pkg/storage"
)

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult is a rendered call sheet plus its signed download link.
type ExportResult struct {
	Data         []byte
	Filename     string
	ContentType  string
	RelativePath string
	Token        string
	URL          string
	ExpiresAt    time.Time
}

// ExportService renders call sheets from a finished schedule and keeps a
// copy on disk behind signed download tokens.
type ExportService struct {
	storage fileStorage
	csv     csvRenderer
	pdf     pdfRenderer
	signer  *storage.SignedURLSigner
	logger  *zap.Logger
	cfg     ExportConfig
}

// NewExportService constructs an ExportService.
func NewExportService(store fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		storage: store,
		csv:     csv,
		pdf:     pdf,
		signer:  signer,
		logger:  logger,
		cfg:     cfg,
	}
}

// CallSheets renders the schedule's day table as CSV or PDF.
func (s *ExportService) CallSheets(projectID string, schedule *models.ShootingSchedule, format string) (*ExportResult, error) {
	if schedule == nil || len(schedule.Days) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNoSchedule, "")
	}

	dataset := callSheetDataset(schedule)
	title := fmt.Sprintf("Call Sheets (%d shoot days)", schedule.TotalShootDays)

	var payload []byte
	var contentType string
	var err error
	switch strings.ToLower(format) {
	case "csv":
		payload, err = s.csv.Render(dataset)
		contentType = "text/csv"
	case "pdf":
		payload, err = s.pdf.Render(dataset, title)
		contentType = "application/pdf"
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "render call sheets failed")
	}

	filename := buildCallSheetFilename(projectID, format)
	result := &ExportResult{
		Data:        payload,
		Filename:    filename,
		ContentType: contentType,
	}

	if s.storage == nil || s.signer == nil {
		return result, nil
	}
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		s.logger.Warn("call sheet persist failed", zap.String("filename", filename), zap.Error(err))
		return result, nil
	}
	token, expiresAt, err := s.signer.Generate(projectID, relPath)
	if err != nil {
		s.logger.Warn("call sheet token failed", zap.String("filename", filename), zap.Error(err))
		return result, nil
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}
	result.RelativePath = relPath
	result.Token = token
	result.URL = fmt.Sprintf("%s/exports/%s", prefix, token)
	result.ExpiresAt = expiresAt
	return result, nil
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (projectID, relPath string, expiresAt time.Time, err error) {
	if s.signer == nil {
		return "", "", time.Time{}, fmt.Errorf("downloads not configured")
	}
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to a stored call sheet file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	if s.storage == nil {
		return nil, fmt.Errorf("downloads not configured")
	}
	return s.storage.Open(relPath)
}

// Cleanup removes files older than ttl (defaults to configured ResultTTL when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if s.storage == nil {
		return nil, nil
	}
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func callSheetDataset(schedule *models.ShootingSchedule) export.Dataset {
	headers := []string{"Day", "Location", "Venue", "Call", "Wrap", "Scenes", "Minutes", "Cast", "Status", "Notes"}
	rows := make([]map[string]string, 0, len(schedule.Days))
	for _, day := range schedule.Days {
		scenes := make([]string, 0, len(day.Scenes))
		for _, ref := range day.Scenes {
			scenes = append(scenes, fmt.Sprintf("E%dS%d", ref.Episode, ref.Scene))
		}
		notes := day.Notes
		if day.WeatherNote != "" {
			if notes != "" {
				notes += " "
			}
			notes += day.WeatherNote
		}
		rows = append(rows, map[string]string{
			"Day":      fmt.Sprintf("%d", day.DayNumber),
			"Location": day.Location,
			"Venue":    day.Venue,
			"Call":     day.CallTime,
			"Wrap":     day.WrapTime,
			"Scenes":   strings.Join(scenes, " "),
			"Minutes":  fmt.Sprintf("%d", day.TotalMinutes()),
			"Cast":     strings.Join(day.Cast, ", "),
			"Status":   string(day.Status),
			"Notes":    notes,
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}

func buildCallSheetFilename(projectID, format string) string {
	timestamp := time.Now().UTC().Format("20060102_150405")
	return fmt.Sprintf("call_sheets_%s_%s.%s", sanitizeFilename(projectID), timestamp, strings.ToLower(format))
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}
