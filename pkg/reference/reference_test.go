package reference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractRefsSingleLine(t *testing.T) {
	text := "VG Berlin, B. v. 12.03.2024 - 5 K 1234/23 (Dokument Nr. 4077)\n"
	refs := ExtractRefs(text)
	require.Len(t, refs, 1)

	ref := refs[0]
	assert.Equal(t, "4077", ref.DocNumber)
	assert.Equal(t, "", ref.DocSuffix)
	assert.Equal(t, "4077", ref.DocID())
	assert.Equal(t, 1, ref.LineNo)
	assert.Equal(t, "VG Berlin, B. v. 12.03.2024 - 5 K 1234/23", ref.Citation)
}

func TestExtractRefsSuffixLowercased(t *testing.T) {
	refs := ExtractRefs("OVG Hamburg, U. v. 01.02.2023 - 3 Bf 22/21 (Dokument Nr. 4224 b)")
	require.Len(t, refs, 1)
	assert.Equal(t, "4224", refs[0].DocNumber)
	assert.Equal(t, "b", refs[0].DocSuffix)
	assert.Equal(t, "4224b", refs[0].DocID())
}

func TestExtractRefsMultiLineCitation(t *testing.T) {
	text := "OVG Berlin-Brandenburg, B. v. 05.06.2024 und\n" +
		"VG Cottbus, U. v. 07.08.2024 - 8 K 910/22 (Dokument Nr. 4100)"
	refs := ExtractRefs(text)
	require.Len(t, refs, 1)
	// The previous line ends with "und", so the window grows backwards.
	assert.Contains(t, refs[0].Citation, "OVG Berlin-Brandenburg")
	assert.Contains(t, refs[0].Citation, "VG Cottbus")
}

func TestExtractRefsMarkerAtLineStart(t *testing.T) {
	text := "VG Gelsenkirchen, B. v. 11.12.2023 und\n" +
		"weiterer Beschluss - 9a L 100/23\n" +
		"(Dokument Nr. 4051)"
	refs := ExtractRefs(text)
	require.Len(t, refs, 1)
	assert.Contains(t, refs[0].Citation, "VG Gelsenkirchen")
	assert.Equal(t, 3, refs[0].LineNo)
}

func TestExtractRefsFirstLineNoContext(t *testing.T) {
	refs := ExtractRefs("(Dokument Nr. 4001)")
	require.Len(t, refs, 1)
	assert.Equal(t, "", refs[0].Citation)
}

func TestExtractRefsSkipsLinesWithoutMarker(t *testing.T) {
	text := "Einleitung ohne Verweis\nDokument Nr. 4002 ohne Klammern\nVG Halle (Dokument Nr. 4003)"
	refs := ExtractRefs(text)
	require.Len(t, refs, 1)
	assert.Equal(t, "4003", refs[0].DocNumber)
}

func TestExtractRefsDuplicateDocIDsAllowed(t *testing.T) {
	text := "VG Berlin, B. v. 12.03.2024 - 5 K 1234/23 (Dokument Nr. 4077)\n" +
		"siehe auch oben (Dokument Nr. 4077)"
	refs := ExtractRefs(text)
	require.Len(t, refs, 2)
	assert.Equal(t, refs[0].DocID(), refs[1].DocID())
}

func TestExtractRefsStripsEmbeddedMarkers(t *testing.T) {
	text := "VG Mainz, U. v. 02.02.2024 - 1 K 55/23 (Dokument Nr. 4010) sowie (Dokument Nr. 4011)"
	refs := ExtractRefs(text)
	require.Len(t, refs, 1)
	assert.NotContains(t, refs[0].Citation, "Dokument Nr.")
}

func TestAktenzeichenRawCascade(t *testing.T) {
	cases := []struct {
		name     string
		citation string
		expected string
	}{
		{"eu case", "EuGH, U. v. 01.03.2023, Rs. C-123/22", "Rs. C-123/22"},
		{"admin ref", "BAMF, Schreiben vom 03.04.2024, Az21.117/22", "Az21.117/22"},
		{"year slash", "EU-Ratsdokument 2024/10455", "2024/10455"},
		{"german slash", "VG Berlin, B. v. 12.03.2024 - 5 K 1234/23", "5 K 1234/23"},
		{"german dot", "OVG Magdeburg - 2 L 75.22", "2 L 75.22"},
		{"german dash", "VG Wiesbaden, U. v. 04.05.2023 - 6 K 1170-22", "6 K 1170-22"},
		{"last match wins", "zunaechst 1 K 11/21, spaeter 2 K 22/22", "2 K 22/22"},
		{"dotted numeric fallback", "Vermerk zum Vorgang 7.10234", "7.10234"},
		{"dotted rejects year", "Bericht 12.2023 ohne Zeichen", ""},
		{"dotted rejects date-like", "Stand 31.12 des Jahres", ""},
		{"bare four digits too short", "Ratsdokument 1544 zur Asylverfahrensrichtlinie", ""},
		{"bare five digit number", "Ratsdokument 15442 zur Asylverfahrensrichtlinie", "15442"},
		{"none", "Pressemitteilung des Ministeriums", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, AktenzeichenRaw(tc.citation))
		})
	}
}

func TestAktenzeichenTokens(t *testing.T) {
	tokens := AktenzeichenTokens("VG Berlin, B. v. 12.03.2024 - 5 K 1234/23")
	assert.Equal(t, []string{"5", "k", "1234", "23"}, tokens)
	assert.Nil(t, AktenzeichenTokens("Pressemitteilung"))
}

func TestIsEUCase(t *testing.T) {
	assert.True(t, IsEUCase("Rs. C-123/22"))
	assert.True(t, IsEUCase("C-123/22"))
	assert.False(t, IsEUCase("5 K 1234/23"))
	assert.False(t, IsEUCase(""))
}

func TestEUCasePhrase(t *testing.T) {
	assert.Equal(t, "c 123 22", EUCasePhrase("Rs. C-123/22"))
	assert.Equal(t, "c 123 22", EUCasePhrase("C-123/22"))
}

func TestCourtTokens(t *testing.T) {
	tokens := CourtTokens("VG Berlin, B. v. 12.03.2024 - 5 K 1234/23")
	assert.Equal(t, []string{"vg", "berlin"}, tokens)

	tokens = CourtTokens("OVG Berlin Brandenburg Senat, B. v. 01.01.2024")
	assert.Equal(t, []string{"ovg", "berlin", "brandenburg"}, tokens)
}

func TestDateVariants(t *testing.T) {
	variants := DateVariants("B. v. 12.03.2024 - 5 K 1234/23")
	assert.Equal(t, []string{"12 03 2024", "2024 03 12"}, variants)
	assert.Nil(t, DateVariants("ohne Datum"))
}

func TestDecisionType(t *testing.T) {
	assert.Equal(t, DecisionBeschluss, DecisionType("VG Berlin, B. v. 12.03.2024"))
	assert.Equal(t, DecisionUrteil, DecisionType("VG Berlin, U. v. 12.03.2024"))
	assert.Equal(t, DecisionUrteil, DecisionType("VG Berlin, U.v. 12.03.2024"))
	assert.Equal(t, "", DecisionType("EUAA-Bericht zur Lage"))
}

func TestTitleMatchPhrase(t *testing.T) {
	phrase := TitleMatchPhrase("Einsender: RA Meier, Bericht zur Aufnahmesituation in Italien")
	assert.NotContains(t, phrase, "einsender")
	assert.Contains(t, phrase, "aufnahmesituation")
	assert.Contains(t, phrase, "italien")
}

func TestSpecificTitlePhraseRequiresFourTokens(t *testing.T) {
	assert.Equal(t, "", SpecificTitlePhrase("VG Berlin, B. v."))
	phrase := SpecificTitlePhrase("Stellungnahme des Deutschen Anwaltvereins zur geplanten Reform des Asylprozessrechts")
	assert.Equal(t, "anwaltvereins geplanten reform asylprozessrechts", phrase)
}

func TestLiteralTailPhrase(t *testing.T) {
	assert.Equal(t, "", LiteralTailPhrase("zu kurz"))
	phrase := LiteralTailPhrase("Bericht der Kommission zur Lage der Aufnahme in Griechenland")
	assert.Equal(t, "zur lage der aufnahme in griechenland", phrase)
}

func TestTitleFallbackWords(t *testing.T) {
	words := TitleFallbackWords("VG Berlin, U. v. 12.03.2024 - 5 K 1234/23, Überstellung nach Italien (Dokument Nr. 4077)")
	assert.Contains(t, words, "Berlin")
	assert.Contains(t, words, "Ueberstellung")
	assert.Contains(t, words, "Italien")
	assert.NotContains(t, words, "12")
	assert.LessOrEqual(t, len(words), 6)
}
