package pdf

import (
	"io"
	"time"

	"gestionale/internal/models"

	"github.com/google/uuid"
)

// Checklist renders the materials still to buy for a site. products resolves
// material ids; unknown ids are printed as missing.
func Checklist(w io.Writer, site *models.ConstructionSite, c *models.Customer, shop *models.ShopInfo, products map[uuid.UUID]models.Product, printedAt time.Time) error {
	d := newDocument("Lista materiali " + site.Name)
	right := d.pageW - margin

	d.font("B", 18)
	d.color(primaryBlue)
	d.text(margin, 20, shop.Name)

	d.font("B", 22)
	d.textRight(right, 25, "LISTA MATERIALI CANTIERE")
	d.font("", 10)
	d.textRight(right, 32, "Data: "+printedAt.Format("02/01/2006"))

	d.rule(45, 0.5)

	d.color(darkText)
	d.font("B", 10)
	d.text(margin, 55, "CLIENTE:")
	d.font("", 10)
	d.text(margin+20, 55, c.BusinessName)
	d.font("B", 10)
	d.text(margin, 62, "CANTIERE:")
	d.font("", 10)
	d.text(margin+22, 62, site.Name)
	d.text(margin, 68, site.Address)

	cols := []column{
		{header: "Stato", width: 15, align: "C"},
		{header: "Codice", width: 30},
		{header: "Prodotto"},
		{header: "Qtà", width: 15, align: "C"},
		{header: "Note", width: 40},
	}
	rows := make([][]cell, 0, len(site.Materials))
	for _, m := range site.Materials {
		state := "[ ]"
		if m.Purchased {
			state = "[X]"
		}
		code, name := "N/D", "Prodotto non trovato"
		if p, ok := products[m.ProductID]; ok {
			if p.Code != "" {
				code = p.Code
			}
			if p.Name != "" {
				name = p.Name
			}
		}
		rows = append(rows, []cell{
			{text: state},
			{text: code},
			{text: name},
			{text: quantity(m.Quantity)},
			{text: ""},
		})
	}
	if len(rows) == 0 {
		rows = append(rows, []cell{{
			text:  "Nessun materiale da ordinare specificato.",
			style: "I",
			align: "C",
			span:  len(cols),
		}})
	}
	d.table(80, cols, rows, tableStyle{fontSize: 10, padding: 3, firstSize: 12})

	footerY := d.pageH - 15
	d.rule(footerY-5, 0.2)
	d.font("", 8)
	d.color(mutedText)
	d.text(margin, footerY, "Lista d'ordine generata da "+shop.Name)

	return d.finish(w)
}
