package invoice

import (
	"context"
	"math"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrintData is the raw denormalized row set behind the print projection.
type PrintData struct {
	InvoiceNo         string
	Date              time.Time
	Status            string
	EBillNo           string
	VehicleNo         string
	Delivery          string
	AssessableValue   float64
	FinalInvoiceValue float64
	PartyName         string
	PartyAddress      string
	PartyGSTNo        string
	Lines             []PrintLine
}

// PrintLine is one detail row joined with its product.
type PrintLine struct {
	TotalKgs    float64
	Rate        float64
	Packs       int
	ProductName string
	HSNCode     string
}

// PrintProjection is the print-ready view consumed by the invoice
// template. Rate, product and HSN come from the first line only; the
// print layout has a single product block and always has.
type PrintProjection struct {
	PartyName         string    `json:"party_name"`
	Address           string    `json:"address"`
	GSTNo             string    `json:"gst_no"`
	InvoiceNo         string    `json:"invoice_no"`
	Date              time.Time `json:"date"`
	EBill             string    `json:"ebill"`
	Vehicle           string    `json:"vehicle"`
	Delivery          string    `json:"delivery"`
	Bags              int       `json:"bags"`
	Weight            float64   `json:"weight"`
	Rate              float64   `json:"rate"`
	ProductName       string    `json:"product_name"`
	HSNCode           string    `json:"hsn_code"`
	Total             float64   `json:"total"`
	GrandTotal        float64   `json:"grand_total"`
	GrandTotalDisplay string    `json:"grand_total_display"`
	TotalInWords      string    `json:"total_in_words"`
}

// inr groups amounts in the Indian numbering system (12,34,567.89).
var inr = message.NewPrinter(language.MustParse("en-IN"))

// Print assembles the print projection for one invoice number.
func (s *Service) Print(ctx context.Context, invoiceNo string) (PrintProjection, error) {
	data, err := s.repo.PrintData(ctx, invoiceNo)
	if err != nil {
		return PrintProjection{}, err
	}
	return buildProjection(data), nil
}

func buildProjection(data PrintData) PrintProjection {
	proj := PrintProjection{
		PartyName:  data.PartyName,
		Address:    data.PartyAddress,
		GSTNo:      data.PartyGSTNo,
		InvoiceNo:  data.InvoiceNo,
		Date:       data.Date,
		EBill:      orDashes(data.EBillNo),
		Vehicle:    orDashes(data.VehicleNo),
		Delivery:   orDashes(data.Delivery),
		Total:      data.AssessableValue,
		GrandTotal: data.FinalInvoiceValue,
	}
	for _, line := range data.Lines {
		proj.Bags += line.Packs
		proj.Weight += line.TotalKgs
	}
	if len(data.Lines) > 0 {
		proj.Rate = data.Lines[0].Rate
		proj.ProductName = data.Lines[0].ProductName
		proj.HSNCode = data.Lines[0].HSNCode
	} else {
		proj.ProductName = "---"
		proj.HSNCode = "---"
	}
	proj.GrandTotalDisplay = inr.Sprintf("%.2f", proj.GrandTotal)
	proj.TotalInWords = AmountInWords(proj.GrandTotal)
	return proj
}

func orDashes(s string) string {
	if s == "" {
		return "---"
	}
	return s
}

var wordsBelowTwenty = []string{
	"Zero", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
	"Seventeen", "Eighteen", "Nineteen",
}

var wordsTens = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}

func wordsBelowHundred(n int) string {
	if n < 20 {
		return wordsBelowTwenty[n]
	}
	out := wordsTens[n/10]
	if n%10 != 0 {
		out += " " + wordsBelowTwenty[n%10]
	}
	return out
}

func wordsBelowThousand(n int) string {
	if n < 100 {
		return wordsBelowHundred(n)
	}
	out := wordsBelowTwenty[n/100] + " Hundred"
	if n%100 != 0 {
		out += " " + wordsBelowHundred(n%100)
	}
	return out
}

// AmountInWords spells a rupee amount in the Indian numbering system
// (crore, lakh, thousand), with paise when present.
func AmountInWords(amount float64) string {
	if amount < 0 {
		return "Minus " + AmountInWords(-amount)
	}
	rupees := int64(amount)
	paise := int(math.Round((amount - float64(rupees)) * 100))
	if paise == 100 {
		rupees++
		paise = 0
	}

	var parts []string
	crore := rupees / 10000000
	lakh := (rupees / 100000) % 100
	thousand := (rupees / 1000) % 100
	rest := rupees % 1000
	if crore > 0 {
		// Crores recurse so amounts beyond 99 crore spell correctly.
		if crore < 100 {
			parts = append(parts, wordsBelowHundred(int(crore))+" Crore")
		} else {
			parts = append(parts, strings.TrimSuffix(AmountInWords(float64(crore)), " Rupees Only")+" Crore")
		}
	}
	if lakh > 0 {
		parts = append(parts, wordsBelowHundred(int(lakh))+" Lakh")
	}
	if thousand > 0 {
		parts = append(parts, wordsBelowHundred(int(thousand))+" Thousand")
	}
	if rest > 0 || len(parts) == 0 {
		parts = append(parts, wordsBelowThousand(int(rest)))
	}

	out := strings.Join(parts, " ") + " Rupees"
	if paise > 0 {
		out += " and " + wordsBelowHundred(paise) + " Paise"
	}
	return out + " Only"
}
