// Package pdf renders the local graphic representation of an e-Factura
// invoice with Maroto v2.
//
// A4 page layout:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: supplier name + CUI   │  invoice number + dates     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FURNIZOR: address / VAT number                             │
//	│  CLIENT: name + CUI + address                               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLE: Cant | Descriere | Preț unitar | TVA% | Valoare     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALS: per VAT rate / total fără TVA / TVA / de plată     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: IBAN + legal note                                  │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/efactura-api/internal/domain/efactura"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// MarotoPDFGenerator implements invoicing.InvoicePDFGenerator using Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator builds the generator.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateInvoicePDF renders the invoice and returns the PDF bytes. The
// input must already be validated and defaulted.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(_ context.Context, in *efactura.InvoiceInput) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Factura "+in.InvoiceNumber, true).
		WithAuthor(in.Supplier.RegistrationName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(in))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(partyRow("FURNIZOR", in.Supplier))
	m.AddRows(partyRow("CLIENT", in.Customer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableLineRows(in.Lines, in.Currency) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRows(in)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRows(in)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generate document: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: supplier name + CUI (left), invoice number + dates (right).
func headerRow(in *efactura.InvoiceInput) core.Row {
	issue := in.IssueDate.Format("02.01.2006")
	due := issue
	if in.DueDate != nil {
		due = in.DueDate.Format("02.01.2006")
	}

	return row.New(20).Add(
		col.New(7).Add(
			text.New(in.Supplier.RegistrationName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("CUI: "+in.Supplier.CompanyID, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("FACTURĂ", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(in.InvoiceNumber, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Data: "+issue+"   Scadența: "+due, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// partyRow: one block per invoice party.
func partyRow(label string, p *efactura.Party) core.Row {
	contact := p.Address.Street + ", " + p.Address.City
	if p.Address.County != "" {
		contact += ", jud. " + p.Address.County
	}
	contact += ", " + p.Address.CountryCode
	if p.VatNumber != "" {
		contact += "   |   TVA: " + p.VatNumber
	}

	return row.New(14).Add(
		col.New(12).Add(
			text.New(label, props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(p.RegistrationName+" ("+p.CompanyID+")", props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(contact, props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Descriere", 5, align.Left),
		h("Preț unitar", 2, align.Right),
		h("TVA%", 1, align.Center),
		h("Valoare", 3, align.Right),
	)
}

// tableLineRows: one row per invoice line, amounts rounded the same way the
// XML rounds them.
func tableLineRows(lines []efactura.InvoiceLine, currency string) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				l.Quantity.String(),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(5).Add(text.New(
				l.Description,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				l.UnitPrice.Round(2).StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(
				l.TaxPercent.StringFixed(0)+"%",
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(3).Add(text.New(
				efactura.LineExtension(l).StringFixed(2)+" "+currency,
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRows: one row per VAT rate plus the grand totals block.
func totalsRows(in *efactura.InvoiceInput) []core.Row {
	groups := efactura.GroupByTax(in.Lines, in.IsSupplierVatPayer == nil || *in.IsSupplierVatPayer)
	taxable := efactura.TotalTaxable(groups)
	tax := efactura.TotalTax(groups)
	payable := taxable.Add(tax)

	rows := make([]core.Row, 0, len(groups)+1)
	for _, g := range groups {
		rows = append(rows, row.New(5).Add(
			col.New(6),
			col.New(3).Add(text.New(
				fmt.Sprintf("TVA %s%% (%s):", g.Percent.StringFixed(0), g.Category),
				props.Text{Size: 8, Align: align.Right, Right: 2, Color: colorGray},
			)),
			col.New(3).Add(text.New(
				money(g.TaxAmount, in.Currency),
				props.Text{Size: 8, Align: align.Right, Right: 1, Color: colorGray},
			)),
		))
	}

	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grand := func(s string, isLabel bool) core.Component {
		right := 1.0
		if isLabel {
			right = 2.0
		}
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: right,
		})
	}

	rows = append(rows, row.New(26).Add(
		col.New(3),
		col.New(4).Add(
			label("Total fără TVA:"),
			label("Total TVA:"),
			grand("TOTAL DE PLATĂ:", true),
		),
		col.New(5).Add(
			value(money(taxable, in.Currency)),
			value(money(tax, in.Currency)),
			grand(money(payable, in.Currency), false),
		),
	))
	return rows
}

// footerRows: payment details + legal note.
func footerRows(in *efactura.InvoiceInput) []core.Row {
	var rows []core.Row

	if in.PaymentIBAN != "" {
		rows = append(rows, row.New(6).Add(col.New(12).Add(
			text.New("Plată prin virament bancar   |   IBAN: "+in.PaymentIBAN, props.Text{
				Style: fontstyle.Bold, Size: 8, Top: 1,
			}),
		)))
	}

	rows = append(rows, row.New(8).Add(col.New(12).Add(
		text.New(
			"Reprezentare grafică neoficială. Exemplarul original al facturii "+
				"electronice este documentul XML transmis prin sistemul național RO e-Factura.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	)))

	return rows
}

func money(v decimal.Decimal, currency string) string {
	return v.StringFixed(2) + " " + currency
}
