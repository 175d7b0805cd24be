package pdftext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasStructuredHeader(t *testing.T) {
	cases := []struct {
		name     string
		text     string
		expected bool
	}{
		{
			"court header with aktenzeichen",
			"Verwaltungsgericht Berlin\nBeschluss\n5 K 1234/23\nIn der Verwaltungsstreitsache",
			true,
		},
		{
			"keyword without aktenzeichen",
			"Beschluss des Gerichts ohne Zeichen",
			false,
		},
		{
			"aktenzeichen without keyword",
			"Vorgang 5 K 1234/23",
			false,
		},
		{"empty", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, HasStructuredHeader(tc.text, 1200))
		})
	}
}

func TestHasStructuredHeaderProbeWindow(t *testing.T) {
	padding := make([]byte, 1300)
	for i := range padding {
		padding[i] = 'x'
	}
	// Signals beyond the probe window must not count.
	text := string(padding) + "\nVerwaltungsgericht Beschluss 5 K 1234/23"
	assert.False(t, HasStructuredHeader(text, 1200))
	assert.True(t, HasStructuredHeader(text, len(text)))
}

func TestPlausibleLength(t *testing.T) {
	assert.False(t, plausibleLength("kurz", 80))
	long := ""
	for i := 0; i < 30; i++ {
		long += "wort "
	}
	assert.True(t, plausibleLength(long, 80))
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, 80, opts.MinContentChars)
	assert.Equal(t, 1200, opts.HeaderProbeChars)
	assert.Equal(t, 220, opts.OCRDPI)
	assert.Equal(t, "deu+eng", opts.OCRLang)
	assert.Equal(t, 1, opts.OCRPages)
}
