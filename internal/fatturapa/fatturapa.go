// Package fatturapa reads the parts of an Italian electronic invoice
// (FatturaPA XML) needed to load the supplied goods into the catalog.
package fatturapa

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gestionale/internal/models"

	"golang.org/x/text/encoding/ianaindex"
)

var ErrMissingData = errors.New("XML non valido o mancante di dati essenziali (fornitore, data, prodotti)")

// Element names are matched without namespace, so both prefixed
// (p:FatturaElettronica) and bare roots are accepted.
type invoice struct {
	Supplier supplier `xml:"FatturaElettronicaHeader>CedentePrestatore>DatiAnagrafici>Anagrafica"`
	Bodies   []body   `xml:"FatturaElettronicaBody"`
}

type supplier struct {
	Denominazione string `xml:"Denominazione"`
	Nome          string `xml:"Nome"`
	Cognome       string `xml:"Cognome"`
}

func (s supplier) name() string {
	if name := strings.TrimSpace(s.Denominazione); name != "" {
		return name
	}
	return strings.TrimSpace(strings.TrimSpace(s.Nome) + " " + strings.TrimSpace(s.Cognome))
}

type body struct {
	Date  string `xml:"DatiGenerali>DatiGeneraliDocumento>Data"`
	Lines []line `xml:"DatiBeniServizi>DettaglioLinee"`
}

type line struct {
	Description string        `xml:"Descrizione"`
	Codes       []articleCode `xml:"CodiceArticolo"`
	Quantity    string        `xml:"Quantita"`
	UnitPrice   string        `xml:"PrezzoUnitario"`
}

type articleCode struct {
	Type  string `xml:"CodiceTipo"`
	Value string `xml:"CodiceValore"`
}

// Parse extracts supplier, document date and lines. The date is taken from
// the first body; lines of every body are concatenated. Missing quantities
// default to 1 and missing unit prices to 0.
func Parse(data []byte) (*models.ExtractedDocument, error) {
	var inv invoice
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charsetReader
	if err := dec.Decode(&inv); err != nil {
		return nil, fmt.Errorf("errore nel parsing del file XML: %w", err)
	}

	doc := &models.ExtractedDocument{Supplier: inv.Supplier.name()}
	for _, b := range inv.Bodies {
		if doc.Date == "" {
			doc.Date = strings.TrimSpace(b.Date)
		}
		for i, l := range b.Lines {
			extracted, err := l.extract()
			if err != nil {
				return nil, fmt.Errorf("riga %d: %w", i+1, err)
			}
			doc.Lines = append(doc.Lines, extracted)
		}
	}

	if doc.Supplier == "" || doc.Date == "" || len(doc.Lines) == 0 {
		return nil, ErrMissingData
	}
	return doc, nil
}

func (l line) extract() (models.ExtractedLine, error) {
	quantity, err := parseNumber(l.Quantity, 1)
	if err != nil {
		return models.ExtractedLine{}, fmt.Errorf("quantità non valida: %w", err)
	}
	price, err := parseNumber(l.UnitPrice, 0)
	if err != nil {
		return models.ExtractedLine{}, fmt.Errorf("prezzo unitario non valido: %w", err)
	}
	var code string
	if len(l.Codes) > 0 {
		code = strings.TrimSpace(l.Codes[0].Value)
	}
	return models.ExtractedLine{
		Code:          code,
		Name:          strings.TrimSpace(l.Description),
		Quantity:      quantity,
		PurchasePrice: price,
	}, nil
}

func parseNumber(raw string, fallback float64) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	return strconv.ParseFloat(raw, 64)
}

// charsetReader decodes invoices declared in a non UTF-8 charset,
// typically ISO-8859-1.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return nil, fmt.Errorf("charset non supportato: %s", label)
	}
	return enc.NewDecoder().Reader(input), nil
}
