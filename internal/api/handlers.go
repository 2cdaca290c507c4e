package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/Hiba-rahimi/mastercard-reconciliation/internal/domain"
	"github.com/Hiba-rahimi/mastercard-reconciliation/internal/service"
)

const maxUploadBytes = 64 << 20

// Runner performs one reconciliation run
type Runner interface {
	Run(ctx context.Context, in service.RunInput) (*domain.ReconciliationResult, error)
}

// Handlers groups all HTTP handler methods and their dependencies.
type Handlers struct {
	runner  Runner
	archive domain.ArchiveRepository
}

// sourceFields maps multipart field names to the extract they carry
var sourceFields = map[string]domain.SourceKind{
	"pos":     domain.SourcePOS,
	"manual":  domain.SourceManual,
	"gateway": domain.SourceGateway,
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Encoding response failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(domain.ISODate, s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return &t, nil
}

// sinceParam reads ?since=YYYY-MM-DD or ?days=N; neither means all time
func sinceParam(r *http.Request) (*time.Time, error) {
	q := r.URL.Query()
	if days := q.Get("days"); days != "" {
		n, err := strconv.Atoi(days)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("days must be a positive integer")
		}
		since := time.Now().AddDate(0, 0, -n)
		return &since, nil
	}
	return parseDate(q.Get("since"))
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func (h *Handlers) requireArchive(w http.ResponseWriter) bool {
	if h.archive == nil {
		writeError(w, http.StatusServiceUnavailable, "archive is not configured")
		return false
	}
	return true
}

// saveUpload copies a multipart file into dir under its original base name
func saveUpload(dir string, file multipart.File, header *multipart.FileHeader) (string, error) {
	name := filepath.Base(header.Filename)
	if name == "." || name == string(filepath.Separator) {
		name = "upload"
	}
	path := filepath.Join(dir, name)

	out, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, file); err != nil {
		return "", err
	}
	return path, nil
}

// formFile stores the optional upload in field; an absent field returns ""
func formFile(r *http.Request, field, dir string) (path, name string, err error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return "", "", nil
	}
	if err != nil {
		return "", "", err
	}
	defer file.Close()

	sub := filepath.Join(dir, field)
	if err := os.Mkdir(sub, 0o700); err != nil {
		return "", "", err
	}
	path, err = saveUpload(sub, file, header)
	if err != nil {
		return "", "", err
	}
	return path, header.Filename, nil
}

// --- CreateRun ---

// CreateRun accepts a multipart upload: report (required), pos, manual,
// gateway and recycled files, a cutoff date and an archive flag.
func (h *Handlers) CreateRun(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	dir, err := os.MkdirTemp("", "recon-run-*")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "create upload dir: "+err.Error())
		return
	}
	defer os.RemoveAll(dir)

	reportPath, _, err := formFile(r, "report", dir)
	if err != nil {
		writeError(w, http.StatusBadRequest, "report: "+err.Error())
		return
	}
	if reportPath == "" {
		writeError(w, http.StatusBadRequest, "report field is required")
		return
	}

	in := service.RunInput{
		ReportPath: reportPath,
		Sources:    make(map[domain.SourceKind]service.SourceInput),
	}
	for field, kind := range sourceFields {
		path, name, err := formFile(r, field, dir)
		if err != nil {
			writeError(w, http.StatusBadRequest, field+": "+err.Error())
			return
		}
		if path != "" {
			in.Sources[kind] = service.SourceInput{Path: path, FileName: name}
		}
	}

	if in.RecycledPath, _, err = formFile(r, "recycled", dir); err != nil {
		writeError(w, http.StatusBadRequest, "recycled: "+err.Error())
		return
	}

	cutoff, err := parseDate(r.FormValue("cutoff"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if cutoff != nil {
		in.Cutoff = *cutoff
	}

	if v := r.FormValue("archive"); v != "" {
		if in.Archive, err = strconv.ParseBool(v); err != nil {
			writeError(w, http.StatusBadRequest, "archive must be true or false")
			return
		}
	}

	result, err := h.runner.Run(r.Context(), in)
	if err != nil {
		var runErr *domain.RunError
		if errors.As(err, &runErr) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
				"error":    runErr.UserMessage,
				"artifact": runErr.Artifact,
				"detail":   err.Error(),
			})
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// --- ListResults ---

func (h *Handlers) ListResults(w http.ResponseWriter, r *http.Request) {
	if !h.requireArchive(w) {
		return
	}

	q := r.URL.Query()
	var (
		rows []domain.ReconciledRow
		err  error
	)
	switch {
	case q.Get("date") != "":
		date, perr := parseDate(q.Get("date"))
		if perr != nil {
			writeError(w, http.StatusBadRequest, perr.Error())
			return
		}
		rows, err = h.archive.FindResultsByDate(r.Context(), date.Format(domain.ISODate))
	case q.Get("status") != "":
		status := domain.MatchStatus(q.Get("status"))
		if status != domain.StatusMatched && status != domain.StatusMismatched {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("status must be %q or %q", domain.StatusMatched, domain.StatusMismatched))
			return
		}
		rows, err = h.archive.FindResultsByStatus(r.Context(), status)
	default:
		writeError(w, http.StatusBadRequest, "date or status is required")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"results": nonNil(rows),
		"total":   len(rows),
	})
}

// --- Stats ---

func (h *Handlers) GetStatusStats(w http.ResponseWriter, r *http.Request) {
	if !h.requireArchive(w) {
		return
	}

	byStatus, err := h.archive.CountByStatus(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	bySubsidiary, err := h.archive.CountByStatusAndSubsidiary(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"by_status":     nonNil(byStatus),
		"by_subsidiary": nonNil(bySubsidiary),
	})
}

func (h *Handlers) GetSubsidiaryStats(w http.ResponseWriter, r *http.Request) {
	if !h.requireArchive(w) {
		return
	}
	h.writeAmounts(w, r, h.archive.CoveredAmountsBySubsidiary)
}

func (h *Handlers) GetRejectStats(w http.ResponseWriter, r *http.Request) {
	if !h.requireArchive(w) {
		return
	}
	h.writeAmounts(w, r, h.archive.RejectsBySubsidiary)
}

func (h *Handlers) writeAmounts(w http.ResponseWriter, r *http.Request, query func(context.Context, *time.Time) ([]domain.SubsidiaryAmount, error)) {
	since, err := sinceParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	amounts, err := query(r.Context(), since)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := map[string]any{"subsidiaries": nonNil(amounts)}
	if since != nil {
		resp["since"] = since.Format(domain.ISODate)
	}
	writeJSON(w, http.StatusOK, resp)
}
