// Package ubl assembles the UBL 2.1 / CIUS-RO invoice document from a
// validated, computed invoice. Element order follows the UBL Invoice schema;
// every amount and percent is emitted with exactly 2 decimals.
package ubl

import (
	"fmt"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/efactura-api/internal/domain/efactura"
	"github.com/jhoicas/efactura-api/pkg/ciusro"
)

const dateLayout = "2006-01-02"

// GenerateInvoiceXML validates the input, computes line amounts and tax
// groups, and returns the complete invoice document as a pretty-printed,
// UTF-8 declared XML string. It never returns a partially built document:
// the first violated constraint aborts with an error wrapping
// efactura.ErrValidation.
func GenerateInvoiceXML(in *efactura.InvoiceInput) (xmlOut string, err error) {
	if err := efactura.Validate(in); err != nil {
		return "", err
	}

	// Tree assembly works on computed values only; anything unexpected at
	// this point (a nil slipped past validation) surfaces as a validation
	// error naming the build step, never as a panic to the caller.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: build invoice xml: %v", efactura.ErrValidation, r)
		}
	}()

	inv := in.WithDefaults()
	groups := efactura.GroupByTax(inv.Lines, *inv.IsSupplierVatPayer)

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("Invoice")
	root.CreateAttr("xmlns", ciusro.NsInvoice)
	root.CreateAttr("xmlns:cac", ciusro.NsCac)
	root.CreateAttr("xmlns:cbc", ciusro.NsCbc)

	writeHeader(root, inv)
	writeParty(root, "cac:AccountingSupplierParty", inv.Supplier)
	writeParty(root, "cac:AccountingCustomerParty", inv.Customer)
	writePaymentMeans(root, inv)
	writeTaxTotal(root, groups, inv.Currency)
	writeLegalMonetaryTotal(root, groups, inv.Currency)
	for _, line := range inv.Lines {
		writeInvoiceLine(root, line, *inv.IsSupplierVatPayer, inv.Currency)
	}

	doc.Indent(2)
	out, werr := doc.WriteToString()
	if werr != nil {
		return "", fmt.Errorf("%w: build invoice xml: %v", efactura.ErrValidation, werr)
	}
	return out, nil
}

func writeHeader(root *etree.Element, inv efactura.InvoiceInput) {
	cbc(root, "cbc:CustomizationID", ciusro.CustomizationID)
	cbc(root, "cbc:ID", inv.InvoiceNumber)
	cbc(root, "cbc:IssueDate", inv.IssueDate.Format(dateLayout))
	cbc(root, "cbc:DueDate", inv.DueDate.Format(dateLayout))
	cbc(root, "cbc:InvoiceTypeCode", ciusro.InvoiceTypeCode)
	cbc(root, "cbc:DocumentCurrencyCode", inv.Currency)
}

func writeParty(root *etree.Element, wrapper string, p *efactura.Party) {
	party := root.CreateElement(wrapper).CreateElement("cac:Party")

	addr := party.CreateElement("cac:PostalAddress")
	cbc(addr, "cbc:StreetName", p.Address.Street)
	cbc(addr, "cbc:CityName", p.Address.City)
	cbc(addr, "cbc:PostalZone", p.Address.PostalZone)
	cbc(addr, "cbc:CountrySubentity", p.Address.County)
	addrCountry := addr.CreateElement("cac:Country")
	cbc(addrCountry, "cbc:IdentificationCode", p.Address.CountryCode)

	if p.VatNumber != "" {
		taxScheme := party.CreateElement("cac:PartyTaxScheme")
		cbc(taxScheme, "cbc:CompanyID", p.VatNumber)
		cbc(taxScheme.CreateElement("cac:TaxScheme"), "cbc:ID", ciusro.TaxSchemeVAT)
	}

	legal := party.CreateElement("cac:PartyLegalEntity")
	cbc(legal, "cbc:RegistrationName", p.RegistrationName)
	cbc(legal, "cbc:CompanyID", p.CompanyID)
}

func writePaymentMeans(root *etree.Element, inv efactura.InvoiceInput) {
	if inv.PaymentIBAN == "" {
		return
	}
	means := root.CreateElement("cac:PaymentMeans")
	cbc(means, "cbc:PaymentMeansCode", ciusro.PaymentMeansCreditTransfer)
	cbc(means.CreateElement("cac:PayeeFinancialAccount"), "cbc:ID", inv.PaymentIBAN)
}

func writeTaxTotal(root *etree.Element, groups []efactura.TaxGroup, currency string) {
	// A zero-line invoice still carries one well-formed subtotal block.
	if len(groups) == 0 {
		groups = []efactura.TaxGroup{{Category: ciusro.TaxCategoryStandard}}
	}

	taxTotal := root.CreateElement("cac:TaxTotal")
	amount(taxTotal, "cbc:TaxAmount", efactura.TotalTax(groups), currency)

	for _, g := range groups {
		sub := taxTotal.CreateElement("cac:TaxSubtotal")
		amount(sub, "cbc:TaxableAmount", g.TaxableAmount, currency)
		amount(sub, "cbc:TaxAmount", g.TaxAmount, currency)

		category := sub.CreateElement("cac:TaxCategory")
		cbc(category, "cbc:ID", string(g.Category))
		cbc(category, "cbc:Percent", g.Percent.StringFixed(2))
		if g.ExemptionReasonCode != "" {
			cbc(category, "cbc:TaxExemptionReasonCode", g.ExemptionReasonCode)
		}
		cbc(category.CreateElement("cac:TaxScheme"), "cbc:ID", ciusro.TaxSchemeVAT)
	}
}

func writeLegalMonetaryTotal(root *etree.Element, groups []efactura.TaxGroup, currency string) {
	lineTotal := efactura.TotalTaxable(groups)
	taxTotal := efactura.TotalTax(groups)
	withTax := lineTotal.Add(taxTotal).Round(2)

	total := root.CreateElement("cac:LegalMonetaryTotal")
	amount(total, "cbc:LineExtensionAmount", lineTotal, currency)
	amount(total, "cbc:TaxExclusiveAmount", lineTotal, currency)
	amount(total, "cbc:TaxInclusiveAmount", withTax, currency)
	amount(total, "cbc:PayableAmount", withTax, currency)
}

func writeInvoiceLine(root *etree.Element, line efactura.InvoiceLine, supplierVatPayer bool, currency string) {
	el := root.CreateElement("cac:InvoiceLine")
	cbc(el, "cbc:ID", line.ID)

	qty := el.CreateElement("cbc:InvoicedQuantity")
	qty.CreateAttr("unitCode", line.UnitCode)
	qty.SetText(line.Quantity.String())

	amount(el, "cbc:LineExtensionAmount", efactura.LineExtension(line), currency)

	item := el.CreateElement("cac:Item")
	cbc(item, "cbc:Name", line.Description)
	category := item.CreateElement("cac:ClassifiedTaxCategory")
	cbc(category, "cbc:ID", string(efactura.CategoryFor(line.TaxPercent, supplierVatPayer)))
	cbc(category, "cbc:Percent", line.TaxPercent.StringFixed(2))
	cbc(category.CreateElement("cac:TaxScheme"), "cbc:ID", ciusro.TaxSchemeVAT)

	amount(el.CreateElement("cac:Price"), "cbc:PriceAmount", line.UnitPrice.Round(2), currency)
}

func cbc(parent *etree.Element, tag, value string) {
	parent.CreateElement(tag).SetText(value)
}

func amount(parent *etree.Element, tag string, value decimal.Decimal, currency string) {
	el := parent.CreateElement(tag)
	el.CreateAttr("currencyID", currency)
	el.SetText(value.Round(2).StringFixed(2))
}
