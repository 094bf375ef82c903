package tasks

import (
	"fmt"
	"strings"
	"time"

	"github.com/IT22091352/wasana-products/internal/config"
	"github.com/IT22091352/wasana-products/internal/models"
)

// BuildInquiryMessage renders the plain-text notification email for a new
// inquiry, returning the subject and the full raw message including headers.
func BuildInquiryMessage(cfg *config.Config, inq *models.Inquiry) (string, []byte) {
	subject := fmt.Sprintf("New envelope inquiry from %s", inq.CustomerName)

	var body strings.Builder
	fmt.Fprintf(&body, "A new inquiry has been submitted.\r\n\r\n")
	fmt.Fprintf(&body, "Inquiry ID:      %s\r\n", inq.ID)
	fmt.Fprintf(&body, "Customer:        %s\r\n", inq.CustomerName)
	fmt.Fprintf(&body, "Phone:           %s\r\n", inq.Phone)
	fmt.Fprintf(&body, "Email:           %s\r\n", inq.Email)
	fmt.Fprintf(&body, "Address:         %s, %s\r\n", inq.Address, inq.City)
	fmt.Fprintf(&body, "Delivery:        %s\r\n", inq.DeliveryMethod)
	fmt.Fprintf(&body, "Product:         %s (%s)\r\n", inq.ProductName, inq.Product)
	fmt.Fprintf(&body, "Size:            %s\r\n", inq.Size)
	fmt.Fprintf(&body, "Quantity:        %d\r\n", inq.Quantity)
	fmt.Fprintf(&body, "Price/bundle:    %.2f\r\n", inq.PricePerBundle)
	fmt.Fprintf(&body, "Total amount:    %.2f\r\n", inq.TotalAmount)
	if inq.Notes != "" {
		fmt.Fprintf(&body, "Notes:           %s\r\n", inq.Notes)
	}

	fromAddress := cfg.SmtpFromAddress
	if fromAddress == "" {
		fromAddress = "noreply@wasana-products.lk"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("To: %s\r\n", cfg.NotifyEmail))
	sb.WriteString(fmt.Sprintf("From: %s\r\n", fromAddress))
	sb.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	sb.WriteString("Date: " + time.Now().Format(time.RFC1123Z) + "\r\n")
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	sb.WriteString("\r\n") // End of headers
	sb.WriteString(body.String())

	return subject, []byte(sb.String())
}
