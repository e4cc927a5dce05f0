package confirmation

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"skylane/db"
	"skylane/middleware"
	"skylane/models"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson"
)

func hmacSecret() []byte {
	if s := os.Getenv("CONFIRMATION_HMAC_SECRET"); s != "" {
		return []byte(s)
	}
	return []byte("dev-only-confirmation-secret")
}

// QRPayload builds the signed payload encoded into the confirmation QR:
// reference|checkoutId|timestamp|signature.
func QRPayload(reference, checkoutID string) string {
	data := fmt.Sprintf("%s|%s|%d", reference, checkoutID, time.Now().Unix())

	h := hmac.New(sha256.New, hmacSecret())
	h.Write([]byte(data))
	sig := base64.StdEncoding.EncodeToString(h.Sum(nil))

	return fmt.Sprintf("%s|%s", data, sig)
}

// PrintOrder serves GET /api/bookings/:reference/pdf: a printable booking
// confirmation with the itinerary, passengers, and a QR-coded signed
// reference. The caller's checkout token must belong to the order.
func PrintOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	reference := ps.ByName("reference")

	claims, err := middleware.ValidateJWT(r.Header.Get("Authorization"))
	if err != nil {
		log.Printf("JWT validation error: %v", err)
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var order models.BookingOrder
	err = db.BookingsCollection.FindOne(ctx, bson.M{"reference": reference}).Decode(&order)
	if err != nil {
		http.Error(w, "Booking not found", http.StatusNotFound)
		return
	}
	if order.CheckoutID != claims.CheckoutID {
		http.Error(w, "Token does not match this booking", http.StatusForbidden)
		return
	}

	qrPNG, err := qrcode.Encode(QRPayload(order.Reference, order.CheckoutID), qrcode.Medium, 256)
	if err != nil {
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Booking Confirmation")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Reference: %s", order.Reference))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Total: %.2f %s", order.TotalPrice, order.Currency))
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, "Passengers")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 11)
	for _, p := range order.Passengers {
		pdf.Cell(0, 7, fmt.Sprintf("%s %s %s (%s)", p.Title, p.FirstName, p.LastName, p.Type))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	writeLeg(pdf, "Outbound", order.Offer.Itinerary.Outbound)
	if len(order.Offer.Itinerary.Inbound) > 0 {
		writeLeg(pdf, "Return", order.Offer.Itinerary.Inbound)
	}

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 20, 40, 40, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		http.Error(w, "Failed to generate PDF", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=booking-"+order.Reference+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func writeLeg(pdf *gofpdf.Fpdf, label string, segments []models.FlightSegment) {
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, label)
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 11)
	for _, s := range segments {
		pdf.Cell(0, 7, fmt.Sprintf("%s  %s -> %s  %s", s.FlightNumber,
			s.Departure.Airport, s.Arrival.Airport, s.Departure.Time.Format("02 Jan 15:04")))
		pdf.Ln(6)
	}
	pdf.Ln(4)
}
