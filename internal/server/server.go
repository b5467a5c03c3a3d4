// Package server exposes the extraction pipeline to a browser: an
// upload form, one extraction run per upload, and download endpoints
// for the exported artifacts. The last result is held in memory only
// and replaced wholesale by the next run.
package server

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/docgrab/docgrab/constants"
	"github.com/docgrab/docgrab/internal/export"
	"github.com/docgrab/docgrab/internal/extract"
)

// maxUploadBytes caps a single upload at 64 MiB.
const maxUploadBytes = 64 << 20

type Server struct {
	extractor *extract.Extractor
	logger    *slog.Logger

	mu       sync.Mutex
	last     *extract.Result
	lastName string
}

func New(extractor *extract.Extractor, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{extractor: extractor, logger: logger}
}

func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /extract", s.handleExtract)
	mux.HandleFunc("GET /download/txt", s.handleDownloadTXT)
	mux.HandleFunc("GET /download/csv/{index}", s.handleDownloadCSV)
	mux.HandleFunc("GET /download/xlsx", s.handleDownloadXLSX)
	return mux
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, hdr, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "a file upload is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	ext := constants.NormalizeExt(filepath.Ext(hdr.Filename))
	if _, ok := constants.AllowedExtensions[ext]; !ok {
		http.Error(w, fmt.Sprintf("unsupported file type %q: allowed types are jpg, jpeg, png, pdf, docx", ext),
			http.StatusUnsupportedMediaType)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "reading upload failed", http.StatusBadRequest)
		return
	}

	res, err := s.extractor.Extract(r.Context(), hdr.Filename, data)
	if err != nil {
		s.logger.Error("server.extract.failed", "filename", hdr.Filename, "error", err)
		http.Error(w, fmt.Sprintf("extraction failed: %v", err), http.StatusUnprocessableEntity)
		return
	}

	s.mu.Lock()
	s.last = &res
	s.lastName = hdr.Filename
	s.mu.Unlock()

	s.logger.Info("server.extract.ok",
		"filename", hdr.Filename,
		"tables", len(res.Tables),
		"warnings", len(res.Warnings),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) snapshot() (*extract.Result, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.lastName
}

func (s *Server) handleDownloadTXT(w http.ResponseWriter, r *http.Request) {
	res, _ := s.snapshot()
	if res == nil {
		http.NotFound(w, r)
		return
	}
	f := export.TextFile(*res)
	serveFile(w, f)
}

func (s *Server) handleDownloadCSV(w http.ResponseWriter, r *http.Request) {
	res, _ := s.snapshot()
	if res == nil {
		http.NotFound(w, r)
		return
	}
	idx, err := strconv.Atoi(r.PathValue("index"))
	files := export.CSVFiles(*res)
	if err != nil || idx < 0 || idx >= len(files) {
		http.NotFound(w, r)
		return
	}
	serveFile(w, files[idx])
}

func (s *Server) handleDownloadXLSX(w http.ResponseWriter, r *http.Request) {
	res, _ := s.snapshot()
	if res == nil {
		http.NotFound(w, r)
		return
	}
	data, err := export.XLSX(*res)
	if err != nil {
		s.logger.Error("server.export.xlsx_failed", "error", err)
		http.Error(w, "building workbook failed", http.StatusInternalServerError)
		return
	}
	serveFile(w, export.File{
		Name: export.XLSXFilename,
		MIME: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Data: data,
	})
}

func serveFile(w http.ResponseWriter, f export.File) {
	w.Header().Set("Content-Type", f.MIME)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", f.Name))
	w.Header().Set("Content-Length", strconv.Itoa(len(f.Data)))
	_, _ = w.Write(f.Data)
}
