package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"instareview-reports-go/internal/company"
	"instareview-reports-go/internal/config"
	"instareview-reports-go/internal/feedback"
	"instareview-reports-go/internal/logger"
	"instareview-reports-go/internal/pipeline"
	"instareview-reports-go/internal/render"
	"instareview-reports-go/internal/storage"
)

type generateRequest struct {
	CompanyID string `json:"companyId"`
	From      string `json:"from"`
	To        string `json:"to"`
}

type generateResponse struct {
	ViewURL     string `json:"viewUrl"`
	DownloadURL string `json:"downloadUrl"`
	HTMLURL     string `json:"htmlUrl"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func main() {
	cfg, err := config.Load()
	log := logger.New()
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}
	log.WithField("service", "instareview-reports").Info("starting service")

	uploader, err := storage.NewUploader(cfg.StorageEndpoint, cfg.StorageAccessKey, cfg.StorageSecretKey, cfg.StorageBucket, cfg.StorageUseSSL)
	if err != nil {
		log.WithError(err).Fatal("failed to create storage client")
	}

	gen := &pipeline.Generator{
		Feedback:   feedback.NewClient(cfg.ReviewsURL),
		Profiles:   company.NewClient(cfg.CompanyDetailsURL, cfg.CompanyDetailsAPIKey),
		Renderer:   render.NewClient(cfg.RendererURL),
		Storage:    uploader,
		Log:        log,
		DataDir:    cfg.DataDir,
		ReportsDir: cfg.ReportsDir,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		logger.New().WithRequest(r).Info("health check")
		fmt.Fprint(w, "ok")
	})

	mux.HandleFunc("POST /reports/generate", func(w http.ResponseWriter, r *http.Request) {
		reqLog := logger.New().WithRequest(r).WithField("handler", "generate")
		reqLog.Info("report generation requested")

		var body generateRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if body.CompanyID == "" || body.From == "" || body.To == "" {
			reqLog.Warn("missing required parameters")
			writeError(w, http.StatusBadRequest, "Missing required parameters")
			return
		}

		start := time.Now()
		res, err := gen.Generate(r.Context(), pipeline.Request{
			CompanyID: body.CompanyID,
			From:      body.From,
			To:        body.To,
		})
		reqLog = reqLog.WithField("company_id", body.CompanyID).WithField("duration_ms", time.Since(start).Milliseconds())
		if err != nil {
			reqLog.WithError(err).Warn("report generation failed")
			switch {
			case errors.Is(err, pipeline.ErrBadRequest):
				writeError(w, http.StatusBadRequest, err.Error())
			case errors.Is(err, pipeline.ErrNoData):
				writeError(w, http.StatusNotFound, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, err.Error())
			}
			return
		}
		reqLog.Info("report generated")

		base := baseURL(r)
		writeJSON(w, http.StatusOK, generateResponse{
			ViewURL:     fmt.Sprintf("%s/reports/view/%s", base, res.PDFFile),
			DownloadURL: fmt.Sprintf("%s/reports/download/%s", base, res.PDFFile),
			HTMLURL:     fmt.Sprintf("%s/reports/html-file/%s", base, res.HTMLFile),
		})
	})

	mux.HandleFunc("GET /reports/view/{file}", serveReport(cfg.ReportsDir, "application/pdf", false))
	mux.HandleFunc("GET /reports/download/{file}", serveReport(cfg.ReportsDir, "application/pdf", true))
	mux.HandleFunc("GET /reports/html-file/{file}", serveReport(cfg.ReportsDir, "text/html; charset=utf-8", false))

	addr := fmt.Sprintf(":%s", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.WithField("addr", addr).Info("listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("server terminated")
	}
}

// serveReport serves generated artifacts from the reports directory. The
// path value is reduced to its base name so callers cannot escape the
// directory.
func serveReport(dir, contentType string, attachment bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := filepath.Base(r.PathValue("file"))
		w.Header().Set("Content-Type", contentType)
		if attachment {
			w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
		}
		http.ServeFile(w, r, filepath.Join(dir, name))
	}
}

func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, r.Host)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
