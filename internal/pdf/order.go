package pdf

import (
	"io"

	"gestionale/internal/models"
)

// Order renders a material order ("ORDINE MATERIALI"). Goods are addressed
// to the site when given, otherwise to the customer.
func Order(w io.Writer, o *models.Order, c *models.Customer, site *models.ConstructionSite, shop *models.ShopInfo) error {
	d := newDocument("Ordine materiali " + o.Date)
	right := d.pageW - margin

	d.font("B", 18)
	d.color(primaryBlue)
	d.text(margin, 20, shop.Name)
	d.font("", 10)
	d.color(darkText)
	d.text(margin, 27, shop.Description)

	d.font("B", 22)
	d.textRight(right, 25, "ORDINE MATERIALI")
	d.font("", 10)
	d.textRight(right, 32, "Data: "+italianDate(o.Date))

	d.rule(45, 0.5)

	d.font("B", 10)
	d.text(margin, 55, "DESTINAZIONE MERCE")
	d.font("", 10)
	switch {
	case site != nil:
		d.text(margin, 60, "Cantiere: "+site.Name)
		d.text(margin, 65, site.Address)
	case c != nil:
		d.text(margin, 60, "Cliente: "+c.BusinessName)
		d.text(margin, 65, c.Address)
	}

	cols := []column{
		{header: "Codice", width: 30},
		{header: "Descrizione"},
		{header: "Qtà", width: 15, align: "C"},
		{header: "Prezzo Unit.", width: 30, align: "R"},
		{header: "Totale", width: 30, align: "R"},
	}
	rows := make([][]cell, len(o.Items))
	for i, item := range o.Items {
		rows[i] = []cell{
			{text: item.Product.Code},
			{text: item.Product.Name},
			{text: quantity(item.Quantity)},
			{text: money(item.Product.PurchasePrice)},
			{text: money(item.Product.PurchasePrice * item.Quantity)},
		}
	}
	finalY := d.table(80, cols, rows, tableStyle{fontSize: 9, padding: 2.5})

	totalY := finalY + 15
	if totalY > d.pageH-bottomMargin {
		d.AddPage()
		totalY = margin + 10
	}
	d.font("B", 12)
	d.color(darkText)
	d.text(right-50, totalY, "Totale Ordine:")
	d.textRight(right, totalY, money(o.Total))

	return d.finish(w)
}
