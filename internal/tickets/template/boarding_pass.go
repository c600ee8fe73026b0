package template

import (
	"bytes"
	"fmt"
	"image/png"
	"time"

	"github.com/signintech/gopdf"
	"golang.org/x/image/font/gofont/goregular"
)

const fontFamily = "goregular"

// PassDetails is the printable content of a boarding pass.
type PassDetails struct {
	TicketID      int64
	OrderID       int64
	Passenger     string
	FlightID      int64
	From          string
	To            string
	Airplane      string
	DepartureTime time.Time
	ArrivalTime   time.Time
	Row           int
	Seat          int
}

type BoardingPassPDFGenerator struct{}

func NewBoardingPassPDFGenerator() *BoardingPassPDFGenerator {
	return &BoardingPassPDFGenerator{}
}

// Generate lays out an A4 boarding pass with the QR code PNG below the details.
func (g *BoardingPassPDFGenerator) Generate(details PassDetails, qrCode []byte) ([]byte, error) {
	pdf := &gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	pdf.AddPage()

	if err := pdf.AddTTFFontData(fontFamily, goregular.TTF); err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}
	if err := pdf.SetFont(fontFamily, "", 14); err != nil {
		return nil, fmt.Errorf("failed to set font: %w", err)
	}

	addHeader(pdf)

	pdf.SetX(40)
	pdf.SetY(80)
	addPassInfo(pdf, details)

	if len(qrCode) > 0 {
		pdf.SetY(pdf.GetY() + 20)
		if err := addQRCode(pdf, qrCode); err != nil {
			return nil, err
		}
	}

	pdf.SetX(40)
	pdf.SetY(780)
	pdf.Cell(nil, "Boarding closes 20 minutes before departure.")

	var buf bytes.Buffer
	if err := pdf.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func addHeader(pdf *gopdf.GoPdf) {
	pdf.SetX(40)
	pdf.SetY(40)
	pdf.Cell(nil, "BOARDING PASS")
}

func addPassInfo(pdf *gopdf.GoPdf, d PassDetails) {
	info := []struct {
		Label string
		Value string
	}{
		{"Passenger", d.Passenger},
		{"Flight", fmt.Sprintf("%d", d.FlightID)},
		{"From", d.From},
		{"To", d.To},
		{"Airplane", d.Airplane},
		{"Departure", d.DepartureTime.UTC().Format("2006-01-02 15:04 MST")},
		{"Arrival", d.ArrivalTime.UTC().Format("2006-01-02 15:04 MST")},
		{"Row / Seat", fmt.Sprintf("%d / %d", d.Row, d.Seat)},
		{"Order", fmt.Sprintf("%d", d.OrderID)},
		{"Ticket", fmt.Sprintf("%d", d.TicketID)},
	}

	for _, item := range info {
		pdf.SetX(40)
		pdf.Cell(nil, item.Label+": "+item.Value)
		pdf.Br(22)
	}
}

func addQRCode(pdf *gopdf.GoPdf, qrCode []byte) error {
	img, err := png.Decode(bytes.NewReader(qrCode))
	if err != nil {
		return fmt.Errorf("failed to decode QR code: %w", err)
	}
	if err := pdf.ImageFrom(img, 40, pdf.GetY(), &gopdf.Rect{W: 160, H: 160}); err != nil {
		return fmt.Errorf("failed to draw QR code: %w", err)
	}
	return nil
}
