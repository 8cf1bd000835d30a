// Package ciusro contains catalogs and fixed identifiers for the Romanian
// e-invoice (RO e-Factura), aligned to UBL 2.1 and the CIUS-RO 1.0.1
// customization published by the Ministry of Finance.
package ciusro

// UBL 2.1 namespaces required on the Invoice root element.
const (
	// Default namespace (UBL Invoice)
	NsInvoice = "urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"
	// Common Aggregate Components
	NsCac = "urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
	// Common Basic Components
	NsCbc = "urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"
)

// Fixed document identifiers (CIUS-RO 1.0.1).
const (
	// CustomizationID identifies the CIUS-RO customization of EN 16931.
	CustomizationID = "urn:cen.eu:en16931:2017#compliant#urn:efactura.mfinante.ro:CIUS-RO:1.0.1"
	// InvoiceTypeCode 380 = commercial invoice (UNCL1001).
	InvoiceTypeCode = "380"
	// TaxSchemeVAT is the fixed tax scheme identifier (UNCL153).
	TaxSchemeVAT = "VAT"
)

// Defaults applied when the caller leaves optional fields empty.
const (
	DefaultCurrency    = "RON"
	DefaultCountryCode = "RO"
	DefaultUnitCode    = UnitOne
)

// TaxCategory is the EN 16931 VAT category code (UNCL5305 subset used by
// CIUS-RO). The domain here is closed: standard, zero-rated and outside-scope.
type TaxCategory string

const (
	// TaxCategoryStandard "S": standard rated line (percent > 0).
	TaxCategoryStandard TaxCategory = "S"
	// TaxCategoryZeroRated "Z": zero rated line (percent = 0).
	TaxCategoryZeroRated TaxCategory = "Z"
	// TaxCategoryOutsideScope "O": supplier is not a VAT payer; the line is
	// outside the scope of VAT and carries an exemption reason code.
	TaxCategoryOutsideScope TaxCategory = "O"
)

// ExemptionReasonNotVatPayer is emitted on category "O" subtotals (VATEX code
// list, "not subject to VAT").
const ExemptionReasonNotVatPayer = "VATEX-EU-O"

// PaymentMeansCreditTransfer is the UNCL4461 code emitted when the invoice
// carries a payee IBAN.
const PaymentMeansCreditTransfer = "30"

// =============================================================================
// Unit of measure codes (UN/ECE Recommendation 20) in common invoicing use.
// =============================================================================

const (
	UnitOne         = "C62" // one (dimensionless unit)
	UnitPiece       = "H87" // piece
	UnitKilogram    = "KGM"
	UnitGram        = "GRM"
	UnitLitre       = "LTR"
	UnitMetre       = "MTR"
	UnitSquareMetre = "MTK"
	UnitCubicMetre  = "MTQ"
	UnitHour        = "HUR"
	UnitDay         = "DAY"
)
