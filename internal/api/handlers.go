package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/sahara-sahaya/relief-cli/internal/model"
	"github.com/sahara-sahaya/relief-cli/internal/reader"
	"github.com/sahara-sahaya/relief-cli/internal/relief"
	"github.com/sahara-sahaya/relief-cli/internal/schema"
)

// maxUploadBytes caps in-memory multipart parsing.
const maxUploadBytes = 32 << 20

// previewRows is how many normalized rows the upload response echoes back.
const previewRows = 5

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleCentres returns relief centres near the given coordinate, filtered by
// disaster type and sorted by distance or inventory availability.
func (s *Server) handleCentres(w http.ResponseWriter, r *http.Request) {
	lat, err := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "lat must be a number")
		return
	}
	lon, err := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "lon must be a number")
		return
	}

	records, err := s.store.Load()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			writeError(w, http.StatusNotFound, "no dataset loaded yet")
			return
		}
		zap.L().Error("load dataset", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load dataset")
		return
	}

	centres := relief.Nearby(records, lat, lon,
		r.URL.Query().Get("disaster"),
		relief.ParseSort(r.URL.Query().Get("sort")),
	)
	if centres == nil {
		centres = []relief.Centre{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"count":   len(centres),
		"centres": centres,
	})
}

// handleUpload normalizes an uploaded spreadsheet and stages the result for
// confirmation. Row-level rejections are absorbed; only the surviving count
// is reported.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, `form file "file" is required`)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	table, err := reader.ReadTable(data, header.Filename)
	if err != nil {
		zap.L().Warn("unreadable upload",
			zap.String("filename", header.Filename),
			zap.Error(err),
		)
		writeError(w, http.StatusBadRequest, "could not read file: "+header.Filename)
		return
	}

	records := schema.Normalize(table)
	token := s.store.Stage(records)

	preview := records
	if len(preview) > previewRows {
		preview = preview[:previewRows]
	}
	if preview == nil {
		preview = []model.Record{}
	}

	resp := map[string]any{
		"token":   token,
		"rows":    len(records),
		"preview": preview,
	}
	if len(records) == 0 {
		resp["warning"] = "no valid records after cleaning and validation"
	}

	zap.L().Info("upload staged",
		zap.String("filename", header.Filename),
		zap.String("token", token),
		zap.Int("rows", len(records)),
	)
	writeJSON(w, http.StatusOK, resp)
}

type tokenRequest struct {
	Token string `json:"token"`
}

// handleConfirm atomically replaces the dataset file with a staged upload.
func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		writeError(w, http.StatusBadRequest, "token is required")
		return
	}

	n, err := s.store.Confirm(req.Token)
	if err != nil {
		writeError(w, http.StatusNotFound, "unknown or expired staging token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"rows": n})
}

func (s *Server) handleDiscard(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		writeError(w, http.StatusBadRequest, "token is required")
		return
	}

	if !s.store.Discard(req.Token) {
		writeError(w, http.StatusNotFound, "unknown or expired staging token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "discarded"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
