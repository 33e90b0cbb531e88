package scanning

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/jhillyerd/enmime"
	"github.com/ledongthuc/pdf"
	"golang.org/x/text/encoding/charmap"
)

// Document routes a document to the cheapest way of reading it: text and
// HTML are read directly, e-mails are unpacked, PDFs use their text layer
// when they have one, and everything else goes to the vision recognizer.
type Document struct {
	vision  Recognizer
	enhance bool
}

// NewDocument creates a Document router. vision may be nil, in which case
// images and scanned PDFs fail with ErrNoVision. enhance preprocesses photos
// before they are sent to the vision recognizer.
func NewDocument(vision Recognizer, enhance bool) *Document {
	return &Document{vision: vision, enhance: enhance}
}

// Recognize returns the text of the document
func (d *Document) Recognize(ctx context.Context, data []byte, contentType string) (string, error) {
	mimeType := normalizeMIME(contentType)
	switch {
	case mimeType == "text/plain":
		return plainText(data)
	case mimeType == "text/html":
		return htmlText(data)
	case mimeType == "message/rfc822":
		return d.emailText(ctx, data)
	case mimeType == "application/pdf":
		return d.pdfText(ctx, data)
	case strings.HasPrefix(mimeType, "image/"):
		return d.imageText(ctx, data, mimeType)
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, mimeType)
}

// Close closes the vision recognizer
func (d *Document) Close() error {
	if d.vision == nil {
		return nil
	}
	return d.vision.Close()
}

func (d *Document) visionText(ctx context.Context, data []byte, mimeType string) (string, error) {
	if d.vision == nil {
		return "", fmt.Errorf("%w for %s", ErrNoVision, mimeType)
	}
	text, err := d.vision.Recognize(ctx, data, mimeType)
	if err != nil {
		return "", fmt.Errorf("recognizing %s: %w", mimeType, err)
	}
	return text, nil
}

func (d *Document) imageText(ctx context.Context, data []byte, mimeType string) (string, error) {
	if d.enhance {
		enhanced, err := enhance(data, mimeType)
		if err != nil {
			return "", fmt.Errorf("enhancing image: %w", err)
		}
		data, mimeType = enhanced, "image/png"
	}
	return d.visionText(ctx, data, mimeType)
}

func (d *Document) pdfText(ctx context.Context, data []byte) (string, error) {
	text, err := pdfTextLayer(data)
	if err == nil && strings.TrimSpace(text) != "" {
		return text, nil
	}
	slog.Debug("PDF has no usable text layer, falling back to vision", "error", err)
	return d.visionText(ctx, data, "application/pdf")
}

// emailText reads the message body and every readable attachment
func (d *Document) emailText(ctx context.Context, data []byte) (string, error) {
	env, err := enmime.ReadEnvelope(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("reading e-mail: %w", err)
	}

	var parts []string
	switch {
	case strings.TrimSpace(env.Text) != "":
		parts = append(parts, strings.TrimSpace(env.Text))
	case env.HTML != "":
		if text, err := htmlText([]byte(env.HTML)); err == nil {
			parts = append(parts, text)
		}
	}

	for _, att := range append(env.Attachments, env.Inlines...) {
		text, err := d.Recognize(ctx, att.Content, att.ContentType)
		if err != nil {
			if !errors.Is(err, ErrUnsupportedFormat) {
				slog.Warn("Skipping e-mail attachment", "filename", att.FileName, "content_type", att.ContentType, "error", err)
			}
			continue
		}
		parts = append(parts, text)
	}

	if len(parts) == 0 {
		return "", ErrEmptyTranscript
	}
	return strings.Join(parts, "\n\n"), nil
}

// plainText decodes UTF-8, falling back to Windows-1252 for cash register exports
func plainText(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if utf8.Valid(data) {
		return string(data), nil
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decoding text: %w", err)
	}
	return string(decoded), nil
}

// htmlText returns the visible text of an HTML document with block
// elements and table rows on their own lines
func htmlText(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}

	doc.Find("head,script,style,noscript").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("td,th").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml(" ")
	})
	doc.Find("p,div,tr,li,h1,h2,h3,h4,h5,h6,table,address").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	var lines []string
	for _, line := range strings.Split(doc.Text(), "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n"), nil
}

// pdfTextLayer returns the embedded text of every page
func pdfTextLayer(data []byte) (text string, err error) {
	// the PDF reader panics on some malformed files
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("reading PDF text layer: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening PDF: %w", err)
	}

	var pages []string
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		pageText, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		pages = append(pages, pageText)
	}
	return strings.Join(pages, "\n"), nil
}
