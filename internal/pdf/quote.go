package pdf

import (
	"fmt"
	"io"
	"strings"

	"gestionale/internal/models"
)

// footerSpace is kept free above the bottom of the page for the quote footer.
const footerSpace = 32.0

// Quote renders a saved quote ("PREVENTIVO"). site may be nil.
func Quote(w io.Writer, q *models.Quote, c *models.Customer, site *models.ConstructionSite, shop *models.ShopInfo) error {
	return layoutQuote(q, c, site, shop).finish(w)
}

func layoutQuote(q *models.Quote, c *models.Customer, site *models.ConstructionSite, shop *models.ShopInfo) *document {
	d := newDocument("Preventivo " + q.QuoteNumber)
	right := d.pageW - margin

	d.font("B", 18)
	d.color(primaryBlue)
	d.text(margin, 20, strings.ToUpper(shop.CompanyName))

	d.font("", 10)
	d.color(darkText)
	d.text(margin, 27, shop.Description)
	d.text(margin, 32, "Codice Fiscale: "+shop.CodiceFiscale)

	d.font("B", 22)
	d.textRight(right, 25, "PREVENTIVO")
	d.font("", 10)
	d.textRight(right, 32, "Numero: "+q.QuoteNumber)
	d.textRight(right, 37, "Data: "+italianDate(q.Date))

	d.rule(45, 0.5)

	d.font("B", 10)
	d.text(margin, 55, "CLIENTE")
	d.font("", 10)
	d.text(margin, 60, c.BusinessName)
	d.text(margin, 65, c.Address)
	d.text(margin, 70, fmt.Sprintf("%s %s (%s)", c.PostalCode, c.City, c.Province))
	d.text(margin, 75, fmt.Sprintf("P.IVA / CF: %s / %s", c.VATNumber, c.TaxCode))
	if site != nil {
		d.font("I", 10)
		d.text(margin, 82, fmt.Sprintf("Cantiere: %s, %s", site.Name, site.Address))
	}

	cols := []column{
		{header: "Descrizione"},
		{header: "Coll.", width: 20, align: "C"},
		{header: "Prezzo Unit", width: 30, align: "R"},
		{header: "Totali", width: 30, align: "R"},
	}
	rows := make([][]cell, len(q.Items))
	for i, item := range q.Items {
		rows[i] = []cell{
			{text: item.Product.Name, style: "B"},
			{text: quantity(item.Quantity)},
			{text: money(item.Product.SalePrice)},
			{text: money(item.Product.SalePrice * item.Quantity)},
		}
	}
	finalY := d.table(90, cols, rows, tableStyle{fontSize: 9, padding: 2.5, centerHead: true})

	const (
		totalsWidth = 80.0
		rowHeight   = 7.0
	)
	boxRows := 2.0
	if q.IncludeVAT {
		boxRows = 3
	}
	totalsY := finalY + 10
	if totalsY+rowHeight*3 > d.pageH-bottomMargin-15 {
		d.AddPage()
		totalsY = margin
	}
	totalsX := right - totalsWidth

	d.SetFillColor(primaryOrange.r, primaryOrange.g, primaryOrange.b)
	d.Rect(totalsX, totalsY, totalsWidth, rowHeight*boxRows, "F")
	d.font("", 10)
	d.color(darkText)
	d.text(totalsX+5, totalsY+5, "Totale Imponibile")
	d.textRight(right-2, totalsY+5, money(q.Subtotal))
	totalY := totalsY + rowHeight + 5
	if q.IncludeVAT {
		d.text(totalsX+5, totalsY+rowHeight+5, "Totale I.V.A.")
		d.textRight(right-2, totalsY+rowHeight+5, money(q.Tax))
		totalY += rowHeight
	}
	d.font("B", 10)
	d.text(totalsX+5, totalY, "Totale Preventivo")
	d.textRight(right-2, totalY, money(q.Total))

	if q.Notes != "" {
		limit := d.pageH - footerSpace
		notesY := totalsY + rowHeight*3 + 20
		if notesY+7 > limit {
			d.AddPage()
			notesY = margin + 5
		}
		d.color(darkText)
		d.font("B", 10)
		d.text(margin, notesY, "Note:")
		d.font("", 10)
		d.paragraph(notesY+2, 5, limit, q.Notes)
	}

	footerY := d.pageH - 25
	d.rule(footerY-5, 0.2)
	d.font("", 8)
	d.color(mutedText)
	d.text(margin, footerY, "Condizioni di pagamento: "+shop.PaymentConditions)
	d.text(margin, footerY+4, fmt.Sprintf("IBAN: %s - %s", shop.IBAN, shop.CompanyName))
	d.text(margin, footerY+10, "Grazie per la vostra fiducia.")
	return d
}
