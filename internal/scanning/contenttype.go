package scanning

import (
	"mime"
	"net/http"
	"path/filepath"
	"strings"
)

var extensionTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".pdf":  "application/pdf",
	".heic": "image/heic",
	".heif": "image/heif",
	".txt":  "text/plain",
	".html": "text/html",
	".htm":  "text/html",
	".eml":  "message/rfc822",
}

// DetectContentType determines the MIME type of an uploaded document. The
// declared header wins unless it is generic, then the file extension,
// then content sniffing.
func DetectContentType(filename, header string, data []byte) string {
	if ct := normalizeMIME(header); ct != "" && ct != "application/octet-stream" {
		return ct
	}
	if ct, ok := extensionTypes[strings.ToLower(filepath.Ext(filename))]; ok {
		return ct
	}
	if isHEIC(data, "") {
		return "image/heic"
	}
	return normalizeMIME(http.DetectContentType(data))
}

// normalizeMIME strips parameters and lowercases a media type
func normalizeMIME(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType, _, _ = strings.Cut(contentType, ";")
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}
