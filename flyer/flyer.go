// Package flyer renders printable artifacts for job postings and applications.
package flyer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"

	"zayro/models"
)

// QRCode encodes link as a size x size PNG surrounded by a white margin.
func QRCode(link string, size, margin int) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("qr size must be positive, got %d", size)
	}
	margin = max(margin, 0)

	q, err := qrcode.New(link, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	q.DisableBorder = true

	canvas := imaging.New(size+2*margin, size+2*margin, color.White)
	canvas = imaging.Paste(canvas, q.Image(size), image.Pt(margin, margin))

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, canvas, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// JobFlyer is a one page A4 flyer for job with a QR code pointing at link.
func JobFlyer(job models.Job, link string) ([]byte, error) {
	qrPNG, err := QRCode(link, 256, 16)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr(job.Title), false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 22)
	pdf.MultiCell(0, 10, tr(job.Title), "", "L", false)
	pdf.Ln(2)

	pdf.SetFont("Arial", "", 12)
	pdf.SetTextColor(90, 90, 90)
	pdf.Cell(0, 8, tr(fmt.Sprintf("%s  |  %s  |  %s", job.Department, job.Location, job.Type)))
	pdf.Ln(8)
	if job.HasDuration && job.StartDate != nil && job.EndDate != nil {
		pdf.Cell(0, 8, fmt.Sprintf("Open %s to %s", job.StartDate.Format("2 Jan 2006"), job.EndDate.Format("2 Jan 2006")))
		pdf.Ln(8)
	}
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	for _, para := range paragraphs(job.Description) {
		pdf.MultiCell(120, 6, tr(para), "", "L", false)
		pdf.Ln(3)
	}

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", opts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 40, 45, 45, false, opts, 0, link)
	pdf.SetXY(150, 87)
	pdf.SetFont("Arial", "", 9)
	pdf.MultiCell(45, 4, "Scan to apply", "", "C", false)

	return output(pdf)
}

// ApplicationsReport lists apps in a landscape table for the admin export.
func ApplicationsReport(apps []models.Application, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Applications", false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Applications")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("%d received, generated %s", len(apps), generatedAt.UTC().Format("2006-01-02 15:04 MST")))
	pdf.Ln(10)

	widths := []float64{32, 55, 45, 60, 20, 65}
	headers := []string{"Received", "Position", "Name", "Email", "Level", "Resume"}
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(235, 235, 235)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, a := range apps {
		level := string(a.Experience)
		if level == "" {
			level = "-"
		}
		row := []string{
			a.CreatedAt.UTC().Format("2006-01-02 15:04"),
			a.JobTitle,
			a.FullName,
			a.Email,
			level,
			a.ResumeURL,
		}
		for i, cell := range row {
			pdf.CellFormat(widths[i], 7, tr(fit(pdf, cell, widths[i]-2)), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	return output(pdf)
}

func output(pdf *gofpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func paragraphs(text string) []string {
	var out []string
	for _, p := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// fit truncates s with an ellipsis so it renders within width.
func fit(pdf *gofpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(string(r)+"...") > width {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}
