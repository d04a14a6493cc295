package interfaces

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	events "ticketshop/internal/events/domain"
	"ticketshop/internal/orders/application"
	orders "ticketshop/internal/orders/domain"
)

// BuildInvoicePDF renders the invoice with payment instructions for an order.
// Core fonts cover cp1252 only, so all text passes through the translator.
func BuildInvoicePDF(order *orders.Order, tickets []orders.Ticket, event *events.Event, total decimal.Decimal, cfg application.Config) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFont("Arial", "B", 14)
	pdf.AddPage()

	pdf.Cell(0, 8, tr(cfg.OrchestraFullName))
	pdf.Ln(10)
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, tr(fmt.Sprintf("Rechnung %s", order.ReferenceCode)))
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, tr(order.Name))
	pdf.Ln(5)
	pdf.Cell(0, 6, tr(order.Address))
	pdf.Ln(8)

	pdf.Cell(0, 6, tr(fmt.Sprintf("Konzert: %s", event.Program)))
	pdf.Ln(5)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Ort: %s", event.Location)))
	pdf.Ln(5)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Beginn: %s", event.StartsAt.Format("02.01.2006 15:04"))))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(90, 6, tr("Ticket"), "1", 0, "L", false, 0, "")
	pdf.CellFormat(50, 6, tr("Art"), "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, ticket := range tickets {
		pdf.CellFormat(90, 6, tr(ticket.Code), "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 6, tr(ticket.Type.DisplayName()), "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Gesamtbetrag: %s EUR", total.StringFixed(2))))
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	dueDate := order.OrderDate.AddDate(0, 0, cfg.PaymentGraceDays)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Bitte überweisen Sie den Betrag bis zum %s auf folgendes Konto:", dueDate.Format("02.01.2006"))))
	pdf.Ln(6)
	pdf.Cell(0, 6, tr(fmt.Sprintf("IBAN: %s", cfg.IBAN)))
	pdf.Ln(5)
	pdf.Cell(0, 6, tr(fmt.Sprintf("BIC: %s", cfg.BIC)))
	pdf.Ln(5)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Verwendungszweck: Karten %s", order.ReferenceCode)))
	pdf.Ln(8)

	pdf.SetFont("Arial", "I", 9)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Erstellt am %s", time.Now().Format("02.01.2006"))))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
