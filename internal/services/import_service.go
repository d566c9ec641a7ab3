package services

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"gestionale/internal/fatturapa"
	"gestionale/internal/models"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultCommitConcurrency = 4

// StagedProduct is an imported line waiting for the operator's review.
type StagedProduct = ProductRequest

type ImportResult struct {
	Signature string          `json:"signature"`
	Supplier  string          `json:"supplier"`
	Date      string          `json:"date"`
	Products  []StagedProduct `json:"products"`
	Warnings  []string        `json:"warnings"`
}

type CommitImportRequest struct {
	Signature string          `json:"signature"`
	Products  []StagedProduct `json:"products" binding:"required"`
}

type CommitResult struct {
	Saved   int      `json:"saved"`
	Failed  int      `json:"failed"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors"`
}

type ImportService struct {
	assistant   Assistant
	categories  CategoryStore
	documents   DocumentStore
	products    *ProductService
	log         *zap.Logger
	now         Clock
	concurrency int
}

func NewImportService(assistant Assistant, categories CategoryStore, documents DocumentStore, products *ProductService, log *zap.Logger) *ImportService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ImportService{
		assistant:   assistant,
		categories:  categories,
		documents:   documents,
		products:    products,
		log:         log,
		now:         time.Now,
		concurrency: defaultCommitConcurrency,
	}
}

// DocumentSignature fingerprints a supplier document so the same delivery
// cannot be loaded twice. Line order does not matter.
func DocumentSignature(supplier, date string, lines []models.ExtractedLine) string {
	parts := make([]string, len(lines))
	for i, l := range lines {
		code := l.Code
		if code == "" {
			code = "N/A"
		}
		parts[i] = code + ":" + strconv.FormatFloat(l.Quantity, 'f', -1, 64)
	}
	sort.Strings(parts)
	return strings.ToLower(strings.TrimSpace(supplier)) + "|" + date + "|" + strings.Join(parts, ";")
}

func isXML(filename, mimeType string) bool {
	mediaType, _, _ := strings.Cut(mimeType, ";")
	mediaType = strings.ToLower(strings.TrimSpace(mediaType))
	return mediaType == "text/xml" || mediaType == "application/xml" ||
		strings.HasSuffix(strings.ToLower(filename), ".xml")
}

// ImportDocument reads a supplier document and stages its products. XML
// invoices are parsed locally, anything else goes through the assistant.
func (s *ImportService) ImportDocument(ctx context.Context, filename, mimeType string, data []byte) (*ImportResult, error) {
	if len(data) == 0 {
		return nil, invalid("il file è vuoto")
	}

	var doc *models.ExtractedDocument
	if isXML(filename, mimeType) {
		parsed, err := fatturapa.Parse(data)
		if err != nil {
			return nil, invalid("%v", err)
		}
		doc = parsed
	} else {
		if s.assistant == nil {
			return nil, ErrAIUnavailable
		}
		if mimeType == "" || mimeType == "application/octet-stream" {
			mimeType = http.DetectContentType(data)
		}
		extracted, err := s.assistant.ExtractDocument(ctx, mimeType, data)
		if err != nil {
			return nil, fmt.Errorf("document extraction failed: %w", err)
		}
		if extracted == nil {
			return nil, invalid("L'AI non ha restituito dati.")
		}
		doc = extracted
	}

	signature := DocumentSignature(doc.Supplier, doc.Date, doc.Lines)
	exists, err := s.documents.Exists(ctx, signature)
	if err != nil {
		return nil, fmt.Errorf("failed to check document history: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: Attenzione: questo documento sembra essere già stato caricato.", ErrDuplicateDocument)
	}

	staged, warnings := s.categorize(ctx, doc.Lines)
	return &ImportResult{
		Signature: signature,
		Supplier:  doc.Supplier,
		Date:      doc.Date,
		Products:  staged,
		Warnings:  warnings,
	}, nil
}

// categorize assigns a category to every line. Any failure leaves the
// products in the uncategorized bucket and is reported as a warning.
func (s *ImportService) categorize(ctx context.Context, lines []models.ExtractedLine) ([]StagedProduct, []string) {
	staged := make([]StagedProduct, len(lines))
	stamp := s.now().UnixMilli()
	for i, l := range lines {
		code := strings.TrimSpace(l.Code)
		if code == "" {
			code = fmt.Sprintf("N/D-%d-%d", stamp, i+1)
		}
		staged[i] = StagedProduct{
			CategoryID:    models.UncategorizedCategoryID.String(),
			Code:          code,
			Name:          strings.TrimSpace(l.Name),
			Quantity:      l.Quantity,
			PurchasePrice: RoundCents(l.PurchasePrice),
		}
	}
	warnings := []string{}
	if len(lines) == 0 {
		return staged, warnings
	}

	categories, err := s.categories.List(ctx)
	if err != nil {
		s.log.Warn("categorization skipped: cannot list categories", zap.Error(err))
		return staged, append(warnings, "Categorizzazione fallita. Assegna le categorie manualmente.")
	}
	byName := make(map[string]string, len(categories))
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		byName[strings.ToLower(c.Name)] = c.ID.String()
		if !models.IsUncategorized(c.ID) {
			names = append(names, c.Name)
		}
	}
	if len(names) == 0 {
		return staged, append(warnings, `Nessuna categoria disponibile. I prodotti sono "Da Assegnare".`)
	}
	if s.assistant == nil {
		return staged, append(warnings, "Categorizzazione automatica non disponibile. Assegna le categorie manualmente.")
	}

	productNames := make([]string, len(staged))
	for i, p := range staged {
		productNames[i] = p.Name
	}
	assignments, err := s.assistant.Categorize(ctx, names, productNames)
	if err != nil {
		s.log.Warn("categorization failed", zap.Error(err), zap.Int("products", len(productNames)))
		return staged, append(warnings, "Categorizzazione fallita. Assegna le categorie manualmente.")
	}

	assigned := make(map[string]string, len(assignments))
	for _, a := range assignments {
		assigned[a.Product] = a.Category
	}
	for i := range staged {
		if id, ok := byName[strings.ToLower(strings.TrimSpace(assigned[staged[i].Name]))]; ok {
			staged[i].CategoryID = id
		}
	}
	return staged, warnings
}

// CommitImport saves the reviewed products through the catalog upsert. Lines
// missing name, code or category are skipped; failures do not stop the
// others. The document is marked as imported once anything was saved.
func (s *ImportService) CommitImport(ctx context.Context, req CommitImportRequest) (*CommitResult, error) {
	if len(req.Products) == 0 {
		return nil, invalid("nessun prodotto da salvare")
	}

	var (
		mu     sync.Mutex
		result = &CommitResult{Errors: []string{}}
		g      errgroup.Group
	)
	g.SetLimit(s.concurrency)
	for i, p := range req.Products {
		if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.Code) == "" || strings.TrimSpace(p.CategoryID) == "" {
			result.Skipped++
			continue
		}
		g.Go(func() error {
			_, _, err := s.products.AddProduct(ctx, p)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed++
				result.Errors = append(result.Errors, fmt.Sprintf("riga %d (%s): %v", i+1, p.Code, err))
				return nil
			}
			result.Saved++
			return nil
		})
	}
	_ = g.Wait()
	sort.Strings(result.Errors)

	if result.Saved > 0 && req.Signature != "" {
		if err := s.RecordDocument(ctx, req.Signature); err != nil {
			s.log.Warn("failed to record imported document", zap.Error(err), zap.String("signature", req.Signature))
		}
	}
	return result, nil
}

func (s *ImportService) CheckDocument(ctx context.Context, signature string) (bool, error) {
	if strings.TrimSpace(signature) == "" {
		return false, invalid("firma documento mancante")
	}
	exists, err := s.documents.Exists(ctx, signature)
	if err != nil {
		return false, fmt.Errorf("failed to check document history: %w", err)
	}
	return exists, nil
}

// RecordDocument marks a signature as imported. Recording twice is a no-op.
func (s *ImportService) RecordDocument(ctx context.Context, signature string) error {
	if strings.TrimSpace(signature) == "" {
		return invalid("firma documento mancante")
	}
	if err := s.documents.Record(ctx, signature); err != nil {
		return fmt.Errorf("failed to record document: %w", err)
	}
	return nil
}
