package server

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docgrab/docgrab/internal/extract"
	"github.com/docgrab/docgrab/internal/llm"
)

type cannedInvoker struct {
	reply string
	calls int
}

func (c *cannedInvoker) Invoke(_ context.Context, _ llm.InvokeRequest) (string, error) {
	c.calls++
	return c.reply, nil
}

func testServer(t *testing.T, reply string) (*Server, *cannedInvoker) {
	t.Helper()
	inv := &cannedInvoker{reply: reply}
	logger := slog.New(slog.DiscardHandler)
	ex := extract.NewExtractor(extract.Config{}, inv, logger)
	return New(ex, logger), inv
}

func pngUpload(t *testing.T, field, filename string) (*bytes.Buffer, string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	var pngBuf bytes.Buffer
	require.NoError(t, png.Encode(&pngBuf, img))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(pngBuf.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func TestExtractUploadFlow(t *testing.T) {
	srv, inv := testServer(t,
		`Sure, here is what I found: {"text": "hello from the page", "table": [["A", "B"], ["1", "2"]]}`)
	mux := srv.Routes()

	body, contentType := pngUpload(t, "file", "scan.png")
	req := httptest.NewRequest(http.MethodPost, "/extract", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Equal(t, 1, inv.calls)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	page := rec.Body.String()
	assert.Contains(t, page, "scan.png")
	assert.Contains(t, page, "hello from the page")
	assert.Contains(t, page, "Table from Image")
	assert.Contains(t, page, "/download/csv/0")
}

func TestDownloadTXT(t *testing.T) {
	srv, _ := testServer(t, `{"text": "just text", "table": null}`)
	mux := srv.Routes()

	body, contentType := pngUpload(t, "file", "scan.png")
	req := httptest.NewRequest(http.MethodPost, "/extract", body)
	req.Header.Set("Content-Type", contentType)
	mux.ServeHTTP(httptest.NewRecorder(), req)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/download/txt", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "extracted_content.txt")
	assert.Contains(t, rec.Body.String(), "Extracted Text")
	assert.Contains(t, rec.Body.String(), "just text")
}

func TestDownloadCSV(t *testing.T) {
	srv, _ := testServer(t, `{"text": "", "table": [["A", "B"], ["1", "2"]]}`)
	mux := srv.Routes()

	body, contentType := pngUpload(t, "file", "scan.png")
	req := httptest.NewRequest(http.MethodPost, "/extract", body)
	req.Header.Set("Content-Type", contentType)
	mux.ServeHTTP(httptest.NewRecorder(), req)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/download/csv/0", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "A,B\n1,2\n", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "table_from_image.csv")

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/download/csv/5", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDownloadsBeforeFirstRun(t *testing.T) {
	srv, _ := testServer(t, "")
	mux := srv.Routes()

	for _, path := range []string{"/download/txt", "/download/csv/0", "/download/xlsx"} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}

func TestExtractRejectsUnsupportedExtension(t *testing.T) {
	srv, inv := testServer(t, "")
	mux := srv.Routes()

	body, contentType := pngUpload(t, "file", "notes.txt")
	req := httptest.NewRequest(http.MethodPost, "/extract", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	assert.Equal(t, 0, inv.calls)
}

func TestExtractRequiresFileField(t *testing.T) {
	srv, _ := testServer(t, "")
	mux := srv.Routes()

	body, contentType := pngUpload(t, "attachment", "scan.png")
	req := httptest.NewRequest(http.MethodPost, "/extract", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
