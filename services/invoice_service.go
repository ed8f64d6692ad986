package services

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/uniquestorebd/unique-store-api/models"
)

// InvoiceService renders order invoices as PDF documents
type InvoiceService struct {
	storeName string
}

// NewInvoiceService creates an InvoiceService
func NewInvoiceService() *InvoiceService {
	return &InvoiceService{storeName: "Unique Store BD"}
}

// Render draws the invoice for an order and returns the PDF bytes.
// Items should be preloaded with their products so names can be printed.
func (s *InvoiceService) Render(order *models.Order) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Invoice #%s", order.OrderNumber), false)
	pdf.AddPage()

	// Header
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(30, 30, 30)
	pdf.Cell(120, 10, s.storeName)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, "INVOICE", "", 1, "R", false, 0, "")
	pdf.Ln(4)

	// Order meta and billing blocks side by side
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(95, 6, "Order", "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Deliver To", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	meta := []string{
		fmt.Sprintf("Order #%s", order.OrderNumber),
		order.CreatedAt.Format("02 Jan 2006"),
		fmt.Sprintf("Status: %s", order.Status),
		fmt.Sprintf("Payment: %s (%s)", order.PaymentMethod, order.PaymentType),
	}
	billing := []string{
		order.FullName,
		order.Phone,
		order.Address,
		order.City,
	}
	for i := 0; i < len(meta); i++ {
		pdf.CellFormat(95, 5, meta[i], "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 5, billing[i], "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	// Items table header
	pdf.SetFillColor(237, 237, 237)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(90, 8, "Product", "1", 0, "L", true, 0, "")
	pdf.CellFormat(25, 8, "Qty", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 8, "Price", "1", 0, "R", true, 0, "")
	pdf.CellFormat(40, 8, "Total", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range order.Items {
		name := "N/A"
		if item.Product != nil {
			name = item.Product.Name
		}
		lineTotal := item.Price * float64(item.Quantity)
		pdf.CellFormat(90, 7, name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 7, fmt.Sprintf("%d", item.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 7, fmt.Sprintf("%.2f", item.Price), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 7, fmt.Sprintf("%.2f", lineTotal), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	// Totals block
	subtotal := order.Subtotal()
	s.totalRow(pdf, "Subtotal", subtotal, false)
	s.totalRow(pdf, "Delivery Charge", order.DeliveryCharge, false)
	s.totalRow(pdf, "Total Payable", order.TotalAmount, true)

	if order.PaymentType == models.PaymentTypePartial {
		due := subtotal + order.DeliveryCharge - order.TotalAmount
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "I", 9)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 5,
			fmt.Sprintf("Partial payment: %.2f due on delivery.", due),
			"", 1, "R", false, 0, "")
	}

	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 5, "Thank you for shopping with us!", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render invoice: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *InvoiceService) totalRow(pdf *gofpdf.Fpdf, label string, amount float64, bold bool) {
	if bold {
		pdf.SetFont("Helvetica", "B", 11)
	} else {
		pdf.SetFont("Helvetica", "", 10)
	}
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(150, 6, label, "", 0, "R", false, 0, "")
	pdf.CellFormat(40, 6, fmt.Sprintf("%.2f", amount), "", 1, "R", false, 0, "")
}
