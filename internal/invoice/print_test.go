package invoice

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBuildProjection(t *testing.T) {
	data := PrintData{
		InvoiceNo:         "INV-042",
		Date:              time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC),
		EBillNo:           "EB123",
		VehicleNo:         "",
		Delivery:          "Tirupur",
		AssessableValue:   118000,
		FinalInvoiceValue: 123456.78,
		PartyName:         "Sri Ganesh Textiles",
		PartyAddress:      "12 Mill Road",
		PartyGSTNo:        "33AAACS1234F1Z5",
		Lines: []PrintLine{
			{TotalKgs: 200, Rate: 50, Packs: 4, ProductName: "2/40s Cotton Yarn", HSNCode: "5205"},
			{TotalKgs: 150, Rate: 48, Packs: 3, ProductName: "2/60s Cotton Yarn", HSNCode: "5206"},
		},
	}

	proj := buildProjection(data)
	require.Equal(t, 7, proj.Bags)
	require.InDelta(t, 350, proj.Weight, 0.0001)
	// The print layout carries a single product block: first line wins.
	require.InDelta(t, 50, proj.Rate, 0.0001)
	require.Equal(t, "2/40s Cotton Yarn", proj.ProductName)
	require.Equal(t, "5205", proj.HSNCode)
	require.Equal(t, "---", proj.Vehicle)
	require.Equal(t, "EB123", proj.EBill)
	require.Equal(t, "1,23,456.78", proj.GrandTotalDisplay)
}

func TestBuildProjectionNoLines(t *testing.T) {
	proj := buildProjection(PrintData{InvoiceNo: "INV-001"})
	require.Zero(t, proj.Bags)
	require.Equal(t, "---", proj.ProductName)
	require.Equal(t, "---", proj.HSNCode)
}

func TestAmountInWords(t *testing.T) {
	cases := map[float64]string{
		0:          "Zero Rupees Only",
		5:          "Five Rupees Only",
		19:         "Nineteen Rupees Only",
		40:         "Forty Rupees Only",
		105:        "One Hundred Five Rupees Only",
		999:        "Nine Hundred Ninety Nine Rupees Only",
		1000:       "One Thousand Rupees Only",
		123456:     "One Lakh Twenty Three Thousand Four Hundred Fifty Six Rupees Only",
		10000000:   "One Crore Rupees Only",
		12345678.5: "One Crore Twenty Three Lakh Forty Five Thousand Six Hundred Seventy Eight Rupees and Fifty Paise Only",
	}
	for amount, want := range cases {
		require.Equal(t, want, AmountInWords(amount), "amount %v", amount)
	}
}
