package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"tsharaki/internal/repositories"
	"tsharaki/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// DocsService renders the booking receipt PDF handed to passengers.
type DocsService struct {
	BookingRepo repositories.BookingRepository
	TripRepo    repositories.TripRepository
	UserRepo    repositories.UserRepository
	RequestID   string
	Loader      func(ctx context.Context, bookingID string) (bookingDocData, error)
}

type bookingDocData struct {
	BookingID     string
	Status        string
	PassengerName string
	DriverName    string
	RouteFrom     string
	RouteTo       string
	TripDate      string
	TripTime      string
	Seats         int
	PricePerSeat  int64
	CarModel      string
	CarPlate      string
}

func (s DocsService) GenerateReceipt(ctx context.Context, bookingID string) ([]byte, string, error) {
	data, err := s.loadBookingDocData(ctx, bookingID)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_receipt", "booking_id="+bookingID)
	return buildReceiptPDF(data)
}

func (s DocsService) loadBookingDocData(ctx context.Context, bookingID string) (bookingDocData, error) {
	if s.Loader != nil {
		return s.Loader(ctx, bookingID)
	}

	var out bookingDocData
	booking, err := s.BookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return out, err
	}
	trip, err := s.TripRepo.GetByID(ctx, booking.TripID)
	if err != nil {
		return out, err
	}

	out.BookingID = booking.ID
	out.Status = string(booking.Status)
	out.Seats = booking.SeatsBooked
	out.RouteFrom = trip.FromLocation
	out.RouteTo = trip.ToLocation
	out.TripDate = utils.FormatDate(trip.DepartureTime)
	out.TripTime = trip.DepartureTime.UTC().Format("15:04")
	out.PricePerSeat = trip.PricePerSeat
	out.CarModel = trip.CarModel
	out.CarPlate = trip.CarPlate

	if passenger, err := s.UserRepo.GetByID(ctx, booking.PassengerID); err == nil {
		out.PassengerName = passenger.Name
	}
	if driver, err := s.UserRepo.GetByID(ctx, trip.DriverID); err == nil {
		out.DriverName = driver.Name
	}
	return out, nil
}

func buildReceiptPDF(d bookingDocData) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Booking Receipt", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "BOOKING RECEIPT")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Booking        : %s", safe(shortID(d.BookingID), "-")),
		fmt.Sprintf("Status         : %s", safe(d.Status, "-")),
		fmt.Sprintf("Passenger      : %s", safe(d.PassengerName, "-")),
		fmt.Sprintf("Driver         : %s", safe(d.DriverName, "-")),
		fmt.Sprintf("Route          : %s -> %s", safe(d.RouteFrom, "-"), safe(d.RouteTo, "-")),
		fmt.Sprintf("Date/Time      : %s %s", safe(d.TripDate, "-"), safe(d.TripTime, "-")),
		fmt.Sprintf("Seats          : %d", d.Seats),
		fmt.Sprintf("Price per seat : %d MAD", d.PricePerSeat),
		fmt.Sprintf("Total          : %d MAD", d.PricePerSeat*int64(d.Seats)),
		fmt.Sprintf("Vehicle        : %s %s", safe(d.CarModel, "-"), safe(d.CarPlate, "")),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Note: a pending booking is only reserved once the driver confirms it. Show this receipt at departure.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("receipt-%s.pdf", shortID(d.BookingID))
	return buf.Bytes(), filename, nil
}

func safe(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
