package flyer

import (
	"bytes"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zayro/models"
)

func TestQRCode(t *testing.T) {
	data, err := QRCode("https://zayro.studio/careers/abc", 200, 20)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 240, img.Bounds().Dx())
	assert.Equal(t, 240, img.Bounds().Dy())

	r, g, b, _ := img.At(2, 2).RGBA()
	assert.Equal(t, [3]uint32{0xffff, 0xffff, 0xffff}, [3]uint32{r, g, b})

	_, err = QRCode("x", 0, 0)
	assert.Error(t, err)
}

func TestJobFlyer(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 2, 0)
	job := models.Job{
		ID:          "abc",
		Title:       "Motion Designer",
		Department:  models.DeptDesign,
		Location:    "Lisboa",
		Type:        models.TypeFullTime,
		Description: "Make things move.\n\nWork with the brand team.",
		HasDuration: true,
		StartDate:   &start,
		EndDate:     &end,
	}

	data, err := JobFlyer(job, "https://zayro.studio/careers/abc")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestApplicationsReport(t *testing.T) {
	apps := []models.Application{{
		JobTitle:   "Motion Designer",
		FullName:   "Ana Sousa",
		Email:      "ana@example.com",
		Experience: models.ExperienceMid,
		ResumeURL:  "https://cv.example.com/ana-sousa-with-a-rather-long-file-name-that-needs-truncating.pdf",
		CreatedAt:  time.Now(),
	}}

	data, err := ApplicationsReport(apps, time.Now())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))

	empty, err := ApplicationsReport(nil, time.Now())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(empty, []byte("%PDF")))
}

func TestParagraphs(t *testing.T) {
	assert.Equal(t, []string{"one", "two\nlines"}, paragraphs("one\r\n\r\n\n two\nlines \n\n"))
	assert.Empty(t, paragraphs("   "))
}
