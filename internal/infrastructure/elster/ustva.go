// Package elster renders Umsatzsteuervoranmeldung (UStVA) XML files in the
// format the Elster import expects.
package elster

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"

	"github.com/faktura-pro/faktura-api/internal/application/statistics"
)

// Elster requires ISO-8859-15; Go's xml writer only emits UTF-8 headers, so
// the declaration is written by hand and the body transcoded.
const xmlHeader = `<?xml version="1.0" encoding="ISO-8859-15" standalone="no"?>` + "\n"

const namespacePrefix = "http://finkonsens.de/elster/elsteranmeldung/ustva/v"

var _ statistics.UStVARenderer = (*UStVARenderer)(nil)

// UStVARenderer builds the Anmeldungssteuern document for one filing period.
type UStVARenderer struct {
	clock func() time.Time
}

func NewUStVARenderer() *UStVARenderer {
	return &UStVARenderer{clock: time.Now}
}

// WithClock overrides the creation date clock (tests).
func (r *UStVARenderer) WithClock(clock func() time.Time) *UStVARenderer {
	r.clock = clock
	return r
}

// Render produces the ISO-8859-15 encoded XML document. Tax base figures
// (Kz81, Kz60) are reported in full euros, the tax amount (Kz83) in cents.
func (r *UStVARenderer) Render(export statistics.UStVAExport) ([]byte, error) {
	if export.Year <= 0 {
		return nil, fmt.Errorf("elster: missing year")
	}
	yearStr := strconv.Itoa(export.Year)

	doc := etree.NewDocument()
	root := doc.CreateElement("Anmeldungssteuern")
	root.CreateAttr("xmlns", namespacePrefix+yearStr)
	root.CreateAttr("version", yearStr)
	root.CreateElement("Erstellungsdatum").SetText(r.clock().Format("20060102"))

	lieferant := root.CreateElement("DatenLieferant")
	lieferant.CreateElement("Name").SetText(export.Name)
	lieferant.CreateElement("Strasse").SetText(export.Street)
	lieferant.CreateElement("PLZ").SetText(export.PostalCode)
	lieferant.CreateElement("Ort").SetText(export.City)

	fall := root.CreateElement("Steuerfall")
	unternehmer := fall.CreateElement("Unternehmer")
	unternehmer.CreateElement("Name").SetText(export.Name)
	unternehmer.CreateElement("Str").SetText(export.Street)
	unternehmer.CreateElement("PLZ").SetText(export.PostalCode)
	unternehmer.CreateElement("Ort").SetText(export.City)

	ustva := fall.CreateElement("Umsatzsteuervoranmeldung")
	ustva.CreateElement("Jahr").SetText(yearStr)
	ustva.CreateElement("Zeitraum").SetText(export.Period)
	ustva.CreateElement("Steuernummer").SetText(export.TaxNumber)

	// Only non-zero Kennzahlen are emitted, matching the Elster convention.
	if !export.TaxableNet.IsZero() {
		ustva.CreateElement("Kz81").SetText(fullEuros(export.TaxableNet))
	}
	if !export.ReverseChargeNet.IsZero() {
		ustva.CreateElement("Kz60").SetText(fullEuros(export.ReverseChargeNet))
	}
	if !export.VATDue.IsZero() {
		ustva.CreateElement("Kz83").SetText(export.VATDue.StringFixed(2))
	}

	doc.Indent(4)
	body, err := doc.WriteToString()
	if err != nil {
		return nil, fmt.Errorf("elster: serialize UStVA: %w", err)
	}

	var buf bytes.Buffer
	w := charmap.ISO8859_15.NewEncoder().Writer(&buf)
	if _, err := w.Write([]byte(xmlHeader + body)); err != nil {
		return nil, fmt.Errorf("elster: encode ISO-8859-15: %w", err)
	}
	return buf.Bytes(), nil
}

// fullEuros truncates toward zero to whole euros, as required for tax bases.
func fullEuros(d decimal.Decimal) string {
	return d.Truncate(0).StringFixed(0)
}
