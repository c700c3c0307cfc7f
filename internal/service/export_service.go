package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/escolaware/escola-api/internal/models"
	appErrors "github.com/escolaware/escola-api/pkg/errors"
	"github.com/escolaware/escola-api/pkg/export"
)

// ExportFormat enumerates supported export encodings.
type ExportFormat string

const (
	ExportCSV ExportFormat = "csv"
	ExportPDF ExportFormat = "pdf"
)

type exportEnrollmentLister interface {
	List(ctx context.Context) ([]models.EnrollmentDetail, error)
}

// ExportService renders the enrollment roster as a downloadable document.
type ExportService struct {
	enrollments exportEnrollmentLister
	csv         *export.CSVExporter
	pdf         *export.PDFExporter
	logger      *zap.Logger
}

// NewExportService creates an instance of ExportService.
func NewExportService(enrollments exportEnrollmentLister, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		enrollments: enrollments,
		csv:         export.NewCSVExporter(),
		pdf:         export.NewPDFExporter(),
		logger:      logger,
	}
}

// ContentType returns the MIME type for a format.
func (f ExportFormat) ContentType() string {
	if f == ExportPDF {
		return "application/pdf"
	}
	return "text/csv"
}

var enrollmentExportHeaders = []string{"ID", "Student", "School", "Billing", "Price", "Status", "Enrolled At"}

// Enrollments renders the full enrollment list in the requested format.
func (s *ExportService) Enrollments(ctx context.Context, format ExportFormat) ([]byte, error) {
	if format != ExportCSV && format != ExportPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}

	enrollments, err := s.enrollments.List(ctx)
	if err != nil {
		return nil, err
	}

	data := export.Dataset{Headers: enrollmentExportHeaders}
	for _, e := range enrollments {
		row := map[string]string{
			"ID":          fmt.Sprintf("%d", e.ID),
			"Billing":     string(e.BillingMode),
			"Price":       fmt.Sprintf("%.2f", e.CoursePrice),
			"Status":      string(e.Status),
			"Enrolled At": e.CreatedAt.Format("2006-01-02"),
		}
		if e.User != nil {
			row["Student"] = e.User.Name
		}
		if e.School != nil {
			row["School"] = e.School.Name
		}
		data.Rows = append(data.Rows, row)
	}

	var rendered []byte
	if format == ExportPDF {
		rendered, err = s.pdf.Render(data, "Enrollments")
	} else {
		rendered, err = s.csv.Render(data)
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	return rendered, nil
}
