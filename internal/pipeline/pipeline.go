package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"instareview-reports-go/internal/aggregator"
	"instareview-reports-go/internal/audit"
	"instareview-reports-go/internal/logger"
	"instareview-reports-go/internal/normalizer"
	"instareview-reports-go/internal/report"
	"instareview-reports-go/internal/types"
)

// ErrNoData marks an empty feedback set; the HTTP layer maps it to 404.
var ErrNoData = errors.New("no feedback data found for the requested range")

// ErrBadRequest marks invalid caller input; the HTTP layer maps it to 400.
var ErrBadRequest = errors.New("invalid request")

// Collaborator boundaries. The pipeline owns the transform; everything
// behind these interfaces is an external system.
type FeedbackFetcher interface {
	Fetch(ctx context.Context, companyID string, log *logger.Logger) ([]types.FeedbackRecord, error)
}

type ProfileLookup interface {
	Details(ctx context.Context, companyID string, log *logger.Logger) *types.CompanyProfile
}

type CompanyLister interface {
	List(ctx context.Context) ([]types.CompanyProfile, error)
}

type PDFRenderer interface {
	RenderPDF(ctx context.Context, doc report.Document, log *logger.Logger) ([]byte, error)
}

type ReportUploader interface {
	Upload(ctx context.Context, pdf []byte, companyID string, t time.Time, log *logger.Logger) (string, error)
	PresignedURL(ctx context.Context, key string) (string, error)
}

type EmailSender interface {
	SendReport(profile types.CompanyProfile, reportURL string, log *logger.Logger) error
}

// Request carries everything one invocation needs; nothing travels through
// process-global state, so invocations for different companies can run
// concurrently.
type Request struct {
	CompanyID string
	From      string
	To        string
}

type Result struct {
	CompanyID string
	PDFFile   string
	HTMLFile  string
	ObjectKey string
	SignedURL string
}

// Generator drives the per-company pipeline:
// fetch -> normalize -> aggregate -> build model -> render -> upload.
type Generator struct {
	Feedback FeedbackFetcher
	Profiles ProfileLookup
	Renderer PDFRenderer
	Storage  ReportUploader
	Log      *logger.Logger

	DataDir    string
	ReportsDir string

	// Now is swappable for tests; zero value means time.Now.
	Now func() time.Time
}

func (g *Generator) now() time.Time {
	if g.Now != nil {
		return g.Now()
	}
	return time.Now()
}

// Generate runs the whole pipeline for one company.
func (g *Generator) Generate(ctx context.Context, req Request) (Result, error) {
	if req.CompanyID == "" {
		return Result{}, fmt.Errorf("%w: missing companyId", ErrBadRequest)
	}

	now := g.now()
	log := g.Log.WithCompany(req.CompanyID)

	period, err := report.ResolvePeriod(req.From, req.To, now)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}

	auditor, err := audit.NewWriter(g.DataDir, now)
	if err != nil {
		return Result{}, err
	}

	// Fetch. Upstream failure degrades to an empty set rather than
	// aborting; an empty set is then reported as missing data.
	fetchLog := log.WithStage("fetch")
	records, err := g.Feedback.Fetch(ctx, req.CompanyID, fetchLog)
	if err != nil {
		fetchLog.WithError(err).Error("feedback fetch failed, treating as empty result")
		records = nil
	}
	auditor.SnapshotJSON("api_response", records, fetchLog)

	normLog := log.WithStage("normalize")
	normalized := normalizer.NormalizeAll(records, normLog)
	auditor.SnapshotJSON("customer_feedback", normalized, normLog)
	if len(normalized) == 0 {
		return Result{}, ErrNoData
	}

	aggLog := log.WithStage("aggregate")
	metrics := aggregator.Aggregate(normalized, aggLog)
	auditor.SnapshotJSON("analytics_summary", metrics, aggLog)
	if _, err := auditor.ExportMetricsXLSX(metrics, aggLog); err != nil {
		// Audit artifacts must not sink the report.
		aggLog.WithError(err).Warn("metrics workbook export failed")
	}

	profile := g.Profiles.Details(ctx, req.CompanyID, log.WithStage("profile"))

	model := report.BuildModel(metrics, profile, normalized, period, now)
	doc, err := report.RenderHTML(model)
	if err != nil {
		return Result{}, fmt.Errorf("render report html: %w", err)
	}

	if err := os.MkdirAll(g.ReportsDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("create reports dir: %w", err)
	}
	stamp := now.Format("20060102_150405")
	htmlFile := fmt.Sprintf("%s_%s.html", req.CompanyID, stamp)
	if err := os.WriteFile(filepath.Join(g.ReportsDir, htmlFile), []byte(doc.HTML), 0o644); err != nil {
		return Result{}, fmt.Errorf("write report html: %w", err)
	}

	pdf, err := g.Renderer.RenderPDF(ctx, doc, log.WithStage("render"))
	if err != nil {
		return Result{}, fmt.Errorf("render pdf: %w", err)
	}
	pdfFile := fmt.Sprintf("%s_%s.pdf", req.CompanyID, stamp)
	if err := os.WriteFile(filepath.Join(g.ReportsDir, pdfFile), pdf, 0o644); err != nil {
		return Result{}, fmt.Errorf("write report pdf: %w", err)
	}

	uploadLog := log.WithStage("upload")
	key, err := g.Storage.Upload(ctx, pdf, req.CompanyID, now, uploadLog)
	if err != nil {
		return Result{}, fmt.Errorf("upload report: %w", err)
	}
	signed, err := g.Storage.PresignedURL(ctx, key)
	if err != nil {
		return Result{}, fmt.Errorf("sign report link: %w", err)
	}

	log.WithField("pdf", pdfFile).Info("report generation complete")
	return Result{
		CompanyID: req.CompanyID,
		PDFFile:   pdfFile,
		HTMLFile:  htmlFile,
		ObjectKey: key,
		SignedURL: signed,
	}, nil
}
