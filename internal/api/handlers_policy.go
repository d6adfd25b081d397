package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dreamkkun/retention/internal/sheet"
)

// supportedWorkbookExts lists upload extensions the extractor accepts.
// Legacy binary .xls cannot be read by the OOXML engine; the admin is
// told to re-save as .xlsx.
var supportedWorkbookExts = map[string]bool{
	".xlsx": true,
	".xlsm": true,
}

// handleUploadExcel ingests a policy workbook, runs the extraction
// engine, persists the canonical document, and returns it. Client-facing
// messages stay in Korean like the rest of the board.
func (s *Server) handleUploadExcel(w http.ResponseWriter, r *http.Request) {
	if !s.limiter.Allow(r.RemoteAddr) {
		jsonError(w, "요청이 너무 잦습니다. 잠시 후 다시 시도하세요.", http.StatusTooManyRequests)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1<<20) // extra 1MB for form overhead
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "파일이 없습니다.", http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == ".xls" {
		jsonError(w, "구형 .xls 형식은 지원되지 않습니다. .xlsx로 저장 후 업로드하세요.", http.StatusBadRequest)
		return
	}
	if !supportedWorkbookExts[ext] {
		jsonError(w, "엑셀 파일만 업로드 가능합니다.", http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	src, err := sheet.OpenXLSX(bytes.NewReader(data))
	if err != nil {
		s.log.Error("workbook open failed", "filename", filename, "error", err)
		jsonError(w, "엑셀 파일을 열 수 없습니다.", http.StatusBadRequest)
		return
	}
	defer src.Close()

	version := r.FormValue("version")
	if version == "" {
		version = s.cfg.DefaultVersion
	}

	doc, err := s.assembler.Assemble(src, version)
	if err != nil {
		s.log.Error("extraction failed", "filename", filename, "error", err)
		jsonError(w, "파일 처리 중 오류 발생: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	if err := s.st.SaveDocument(doc); err != nil {
		s.log.Error("persist failed", "error", err)
		jsonError(w, "failed to persist document", http.StatusInternalServerError)
		return
	}

	s.log.Info("policy document updated", "filename", filename, "version", doc.Metadata.Version)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"data":    doc,
		"message": "엑셀 파일이 성공적으로 처리되었습니다.",
	})
}

// handleGetPolicies returns the latest persisted canonical document.
func (s *Server) handleGetPolicies(w http.ResponseWriter, r *http.Request) {
	doc, err := s.st.LatestDocument()
	if err != nil {
		jsonError(w, "failed to load policies: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if doc == nil {
		jsonError(w, "정책 데이터가 아직 없습니다.", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(doc)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
