package api

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

const imagesFile = "images.json"
const imagesDir = "images"

// ImageMeta is one entry in the sidecar catalog of policy images.
type ImageMeta struct {
	ID           string    `json:"id"`
	File         string    `json:"file"`
	OriginalName string    `json:"original_name"`
	Section      string    `json:"section"`
	Description  string    `json:"description"`
	Size         int64     `json:"size"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

var supportedImageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

// handleUploadImage stores a policy image next to the data files and
// appends it to the catalog.
func (s *Server) handleUploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1<<20)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("image")
	if err != nil {
		jsonError(w, "이미지가 없습니다.", http.StatusBadRequest)
		return
	}
	defer file.Close()

	name := sanitizeFilename(header.Filename)
	ext := strings.ToLower(filepath.Ext(name))
	if !supportedImageExts[ext] {
		jsonError(w, "이미지 파일만 업로드 가능합니다.", http.StatusBadRequest)
		return
	}

	dir := filepath.Join(s.st.Dir(), imagesDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		jsonError(w, "failed to prepare image dir", http.StatusInternalServerError)
		return
	}

	var idb [8]byte
	rand.Read(idb[:])
	id := hex.EncodeToString(idb[:])
	stored := id + ext

	out, err := os.Create(filepath.Join(dir, stored))
	if err != nil {
		jsonError(w, "failed to store image", http.StatusInternalServerError)
		return
	}
	size, err := io.Copy(out, io.LimitReader(file, s.cfg.MaxUploadBytes))
	closeErr := out.Close()
	if err != nil || closeErr != nil {
		os.Remove(filepath.Join(dir, stored))
		jsonError(w, "failed to store image", http.StatusInternalServerError)
		return
	}

	meta := ImageMeta{
		ID:           id,
		File:         stored,
		OriginalName: name,
		Section:      r.FormValue("section"),
		Description:  r.FormValue("description"),
		Size:         size,
		UploadedAt:   time.Now().UTC(),
	}

	var catalog []ImageMeta
	if _, err := s.st.ReadJSON(imagesFile, &catalog); err != nil {
		jsonError(w, "failed to read image catalog", http.StatusInternalServerError)
		return
	}
	catalog = append(catalog, meta)
	if err := s.st.WriteJSON(imagesFile, catalog); err != nil {
		jsonError(w, "failed to update image catalog", http.StatusInternalServerError)
		return
	}

	s.log.Info("image uploaded", "id", id, "name", name, "size", size)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]any{"success": true, "image": meta})
}

func (s *Server) handleListImages(w http.ResponseWriter, r *http.Request) {
	catalog := []ImageMeta{}
	if _, err := s.st.ReadJSON(imagesFile, &catalog); err != nil {
		jsonError(w, "failed to read image catalog", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"images": catalog})
}

func (s *Server) handleServeImage(w http.ResponseWriter, r *http.Request) {
	file := sanitizeFilename(chi.URLParam(r, "file"))
	path := filepath.Join(s.st.Dir(), imagesDir, file)
	if _, err := os.Stat(path); err != nil {
		jsonError(w, "image not found", http.StatusNotFound)
		return
	}
	http.ServeFile(w, r, path)
}
