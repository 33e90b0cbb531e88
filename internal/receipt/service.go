package receipt

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zombor/beleg/internal/extraction"
	"github.com/zombor/beleg/internal/scanning"
)

// IDGenerator generates unique IDs for receipts
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

type uuidGenerator struct{}

func (g *uuidGenerator) Generate() string {
	return uuid.NewString()
}

type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// ParseResult is the extraction result for a text without persistence
type ParseResult struct {
	Invoice  extraction.ParsedInvoice `json:"invoice"`
	Category string                   `json:"category"`
}

// Service handles receipt operations
type Service struct {
	db          DB
	recognizer  scanning.Recognizer
	storage     Storage
	extractor   *extraction.Extractor
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a new Service with UUIDs and the wall clock
func NewService(db DB, recognizer scanning.Recognizer, storage Storage, extractor *extraction.Extractor) *Service {
	return NewServiceWithDeps(db, recognizer, storage, extractor, &uuidGenerator{}, &defaultTimeSource{})
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(db DB, recognizer scanning.Recognizer, storage Storage, extractor *extraction.Extractor, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{
		db:          db,
		recognizer:  recognizer,
		storage:     storage,
		extractor:   extractor,
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

var (
	unsafeFilenameChars = regexp.MustCompile(`[^\p{L}\p{N}\s\-_]`)
	repeatedSpaces      = regexp.MustCompile(`\s+`)
)

const maxFilenameBase = 50

// sanitizeFilename shortens phone-generated names and drops characters
// that are awkward in a file system
func sanitizeFilename(filename string) string {
	filename = filepath.Base(filename)
	ext := strings.ToLower(filepath.Ext(filename))
	base := strings.TrimSuffix(filename, filepath.Ext(filename))

	base = unsafeFilenameChars.ReplaceAllString(base, "")
	base = strings.TrimSpace(repeatedSpaces.ReplaceAllString(base, " "))

	if runes := []rune(base); len(runes) > maxFilenameBase {
		base = strings.TrimSpace(string(runes[:maxFilenameBase]))
	}
	if base == "" {
		base = "beleg"
	}
	return base + ext
}

// ProcessReceipt stores an uploaded document, reads it and saves the
// extracted fields
func (s *Service) ProcessReceipt(ctx context.Context, filename string, data []byte, contentType string) (*Receipt, error) {
	id := s.idGenerator.Generate()
	now := s.timeSource.Now()

	savedPath, err := s.storage.Save(fmt.Sprintf("%s_%s", id, sanitizeFilename(filename)), data)
	if err != nil {
		return nil, fmt.Errorf("saving file: %w", err)
	}

	text, err := s.recognizer.Recognize(ctx, data, contentType)
	if err != nil {
		slog.Error("Failed to recognize receipt",
			"filename", filename,
			"content_type", contentType,
			"file_size", len(data),
			"error", err,
		)
		s.removeFile(savedPath)
		return nil, fmt.Errorf("recognizing receipt: %w", err)
	}

	result := s.ParseText(text)
	receipt := &Receipt{
		ID:          id,
		VendorName:  result.Invoice.VendorName,
		InvoiceDate: result.Invoice.InvoiceDate,
		Amount:      result.Invoice.Amount,
		Currency:    result.Invoice.Currency,
		Category:    result.Category,
		RawText:     text,
		Filename:    savedPath,
		ContentType: contentType,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.db.SaveReceipt(receipt); err != nil {
		s.removeFile(savedPath)
		return nil, fmt.Errorf("saving receipt to database: %w", err)
	}

	slog.Info("Processed receipt", "id", id, "filename", savedPath, "category", receipt.Category)
	return receipt, nil
}

func (s *Service) removeFile(name string) {
	if err := s.storage.Delete(name); err != nil {
		slog.Warn("Failed to remove stored file", "filename", name, "error", err)
	}
}

// Analyze extracts the invoice fields from text and classifies the vendor
func Analyze(e *extraction.Extractor, text string) ParseResult {
	invoice := e.Parse(text)
	vendor := ""
	if invoice.VendorName != nil {
		vendor = *invoice.VendorName
	}
	return ParseResult{
		Invoice:  invoice,
		Category: e.SuggestCategory(vendor, text),
	}
}

// ParseText extracts the invoice fields and category from raw text
func (s *Service) ParseText(text string) ParseResult {
	return Analyze(s.extractor, text)
}

// SuggestCategory classifies a vendor name and text
func (s *Service) SuggestCategory(vendorName, text string) string {
	return s.extractor.SuggestCategory(vendorName, text)
}

// GetReceipt retrieves a receipt by ID
func (s *Service) GetReceipt(id string) (*Receipt, error) {
	receipt, err := s.db.GetReceipt(id)
	if err != nil {
		return nil, fmt.Errorf("getting receipt: %w", err)
	}
	return receipt, nil
}

// ListReceipts returns all receipts
func (s *Service) ListReceipts() ([]*Receipt, error) {
	receipts, err := s.db.ListReceipts()
	if err != nil {
		return nil, fmt.Errorf("listing receipts: %w", err)
	}
	return receipts, nil
}

// DeleteReceipt removes a receipt and its file
func (s *Service) DeleteReceipt(id string) error {
	receipt, err := s.db.GetReceipt(id)
	if err != nil {
		return fmt.Errorf("getting receipt for deletion: %w", err)
	}

	// the record goes even when the file is already gone
	if err := s.storage.Delete(receipt.Filename); err != nil {
		slog.Warn("Failed to delete file", "filename", receipt.Filename, "error", err)
	}

	if err := s.db.DeleteReceipt(id); err != nil {
		return fmt.Errorf("deleting receipt from database: %w", err)
	}
	return nil
}

// GetReceiptFile retrieves the file data for a receipt
func (s *Service) GetReceiptFile(id string) ([]byte, string, error) {
	receipt, err := s.db.GetReceipt(id)
	if err != nil {
		return nil, "", fmt.Errorf("getting receipt: %w", err)
	}

	data, err := s.storage.Get(receipt.Filename)
	if err != nil {
		return nil, "", fmt.Errorf("getting receipt file: %w", err)
	}

	return data, receipt.ContentType, nil
}

// ExportXLSX writes all receipts as a spreadsheet
func (s *Service) ExportXLSX(w io.Writer) error {
	receipts, err := s.ListReceipts()
	if err != nil {
		return err
	}
	return ExportXLSX(receipts, w)
}
