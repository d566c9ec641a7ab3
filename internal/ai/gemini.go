// Package ai talks to Google Gemini for document extraction, product
// categorization and company lookups.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gestionale/internal/models"

	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.5-flash"

var ErrEmptyResponse = errors.New("empty response from model")

type Gemini struct {
	client *genai.Client
	model  string
}

func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

func (g *Gemini) Model() string { return g.model }

const extractPrompt = `Estrai il nome del fornitore, la data del documento (in formato YYYY-MM-DD), e i dettagli dei prodotti. ` +
	`Per ogni prodotto, fornisci nome, quantità, prezzo di acquisto, e codice se disponibile. ` +
	`Restituisci un singolo oggetto JSON con chiavi "fornitore", "dataDocumento", e "prodotti" (un array di oggetti).`

var documentSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"fornitore":     {Type: genai.TypeString},
		"dataDocumento": {Type: genai.TypeString},
		"prodotti": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"codiceProdotto": {Type: genai.TypeString},
					"prodotto":       {Type: genai.TypeString},
					"quantita":       {Type: genai.TypeNumber},
					"prezzoAcquisto": {Type: genai.TypeNumber},
				},
				Required: []string{"prodotto", "quantita", "prezzoAcquisto"},
			},
		},
	},
	Required: []string{"fornitore", "dataDocumento", "prodotti"},
}

// ExtractDocument reads a delivery note or invoice (image or PDF).
func (g *Gemini) ExtractDocument(ctx context.Context, mimeType string, data []byte) (*models.ExtractedDocument, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(data, mimeType),
			genai.NewPartFromText(extractPrompt),
		}, genai.RoleUser),
	}
	text, err := g.generate(ctx, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   documentSchema,
	})
	if err != nil {
		return nil, err
	}
	doc, err := decode[models.ExtractedDocument](text)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

var categorizationSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"prodotto":  {Type: genai.TypeString},
			"categoria": {Type: genai.TypeString},
		},
		Required: []string{"prodotto", "categoria"},
	},
}

func categorizationPrompt(categories, products []string) (string, error) {
	cats, err := json.Marshal(categories)
	if err != nil {
		return "", err
	}
	prods, err := json.Marshal(products)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Date le seguenti categorie: %s. Per ciascuno dei seguenti prodotti, assegna la categoria più appropriata: %s. "+
		"Se nessuna è adatta, assegna '%s'. Rispondi con un array di oggetti JSON, con chiavi \"prodotto\" e \"categoria\".",
		cats, prods, models.UncategorizedCategoryName), nil
}

// Categorize assigns one of categories to every product name.
func (g *Gemini) Categorize(ctx context.Context, categories, products []string) ([]models.CategoryAssignment, error) {
	prompt, err := categorizationPrompt(categories, products)
	if err != nil {
		return nil, err
	}
	text, err := g.generate(ctx, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   categorizationSchema,
	})
	if err != nil {
		return nil, err
	}
	return decode[[]models.CategoryAssignment](text)
}

type companyLookup struct {
	PIVA          string `json:"piva"`
	CodiceFiscale string `json:"codiceFiscale"`
}

// LookupCompany searches the web for the P.IVA and codice fiscale of an
// Italian company. Values that cannot be found come back empty. Search
// grounding does not accept a response schema, so the JSON is asked for in
// the prompt and cut out of the answer text.
func (g *Gemini) LookupCompany(ctx context.Context, businessName string) (*models.CompanyIdentifiers, error) {
	prompt := fmt.Sprintf("Trova la Partita IVA e il Codice Fiscale per l'azienda italiana %q. "+
		"Se non trovi uno dei due valori, lascialo come stringa vuota. "+
		`Rispondi solo con un oggetto JSON nel formato {"piva": "...", "codiceFiscale": "..."}.`, businessName)
	text, err := g.generate(ctx, genai.Text(prompt), &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	})
	if err != nil {
		return nil, err
	}
	return parseCompanyAnswer(text)
}

func parseCompanyAnswer(text string) (*models.CompanyIdentifiers, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return nil, fmt.Errorf("no JSON object in model answer: %q", text)
	}
	found, err := decode[companyLookup](text[start : end+1])
	if err != nil {
		return nil, err
	}
	return &models.CompanyIdentifiers{
		VATNumber: strings.TrimSpace(found.PIVA),
		TaxCode:   strings.TrimSpace(found.CodiceFiscale),
	}, nil
}

func (g *Gemini) generate(ctx context.Context, contents []*genai.Content, cfg *genai.GenerateContentConfig) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("Gemini generate failed: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// decode parses a JSON answer, tolerating a markdown code fence around it.
func decode[T any](text string) (T, error) {
	var out T
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return out, fmt.Errorf("invalid JSON from model: %w", err)
	}
	return out, nil
}
