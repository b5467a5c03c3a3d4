package constants

import "strings"

// Format identifies the extraction path for an uploaded file.
type Format string

const (
	IMAGE Format = "IMAGE"
	PDF   Format = "PDF"
	DOCX  Format = "DOCX"
)

// AllowedExtensions holds the upload extensions the dispatcher accepts.
var AllowedExtensions = map[string]struct{}{
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"pdf":  {},
	"docx": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat maps a normalized extension to its extraction format.
// Returns "" for anything the pipeline does not handle.
func MapExtToFormat(ext string) Format {
	switch NormalizeExt(ext) {
	case "jpg", "jpeg", "png":
		return IMAGE
	case "pdf":
		return PDF
	case "docx":
		return DOCX
	default:
		return ""
	}
}

// ImageMIMEType returns the MIME type for an allowed image extension.
func ImageMIMEType(ext string) string {
	switch NormalizeExt(ext) {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	default:
		return "application/octet-stream"
	}
}
