package match

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coolbeans/dokmatch/pkg/candidate"
	"github.com/coolbeans/dokmatch/pkg/reference"
	"github.com/coolbeans/dokmatch/pkg/textnorm"
)

// buildIndex creates an in-memory candidate index from filename -> content.
func buildIndex(entries map[string]string) *candidate.Index {
	var docs []*candidate.Doc
	for name, content := range entries {
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		docs = append(docs, &candidate.Doc{
			ID:          "/docs/" + name,
			Name:        name,
			Stem:        stem,
			NormContent: textnorm.Normalize(content),
		})
	}
	return candidate.NewIndexFromDocs(docs)
}

func ref(docNumber, citation string) reference.Ref {
	return reference.Ref{DocNumber: docNumber, Citation: citation}
}

func TestMatchDocIDPrefixWithDate(t *testing.T) {
	ix := buildIndex(map[string]string{
		"4077_VG_Berlin_12_03_2024.pdf": "",
		"Beschluss_VG_Koeln.pdf":        "",
	})
	m := NewMatcher(DefaultThresholds())

	result := m.Match(ref("4077", "VG Berlin, B. v. 12.03.2024 - 5 K 1234/23"), ix)

	require.Equal(t, []string{"/docs/4077_VG_Berlin_12_03_2024.pdf"}, result.Matches)
	assert.Equal(t, "Dokumentnummer im Dateinamen: 4077_VG_Berlin_12_03_2024.pdf", result.Reason)
}

func TestMatchDocIDPrefixWithoutAktenzeichen(t *testing.T) {
	ix := buildIndex(map[string]string{
		"5001_Bericht.pdf": "",
		"Vermerk.pdf":      "",
	})
	m := NewMatcher(DefaultThresholds())

	result := m.Match(ref("5001", "Einsender: Bericht über die Lage"), ix)

	require.Equal(t, []string{"/docs/5001_Bericht.pdf"}, result.Matches)
	assert.Equal(t, "Dokumentnummer im Dateinamen: 5001_Bericht.pdf", result.Reason)
}

func TestMatchTitlePhrase(t *testing.T) {
	ix := buildIndex(map[string]string{
		"Anlage_7.pdf": "Schreiben der Ausländerbehörde zur Wohnsitzauflage vom Januar",
		"Anlage_8.pdf": "Vermerk zu einem anderen Vorgang",
	})
	m := NewMatcher(DefaultThresholds())

	result := m.Match(ref("4150", "Einsender: Schreiben der Ausländerbehörde zur Wohnsitzauflage"), ix)

	require.Equal(t, []string{"/docs/Anlage_7.pdf"}, result.Matches)
	assert.Equal(t, "Titelphrase: schreiben der auslanderbehorde zur wohnsitzauflage", result.Reason)
}

func TestMatchAzTokensInFilename(t *testing.T) {
	ix := buildIndex(map[string]string{
		"VG_Berlin_5_K_1234_23.pdf":  "",
		"OVG_Muenster_2_A_99_21.pdf": "",
	})
	m := NewMatcher(DefaultThresholds())

	result := m.Match(ref("4077", "VG Berlin, B. v. 12.03.2024 - 5 K 1234/23"), ix)

	require.Equal(t, []string{"/docs/VG_Berlin_5_K_1234_23.pdf"}, result.Matches)
	assert.Equal(t, "AZ-Tokens: 5 k 1234 23", result.Reason)
}

func TestMatchUrteilNarrowingDropsMarkedBeschluss(t *testing.T) {
	ix := buildIndex(map[string]string{
		"LG_Hamburg_Beschluss_3_O_100_22.pdf": "",
		"LG_Hamburg_3_O_100_22.pdf":           "",
	})
	m := NewMatcher(DefaultThresholds())

	result := m.Match(ref("4120", "LG Hamburg, U. v. 01.02.2023 - 3 O 100/22"), ix)

	require.Equal(t, []string{"/docs/LG_Hamburg_3_O_100_22.pdf"}, result.Matches)
}

func TestMatchBeschlussRequiresExplicitMarking(t *testing.T) {
	// Neither filename marks a Beschluss, so narrowing keeps both and the
	// ambiguity is reported instead of guessed away.
	ix := buildIndex(map[string]string{
		"VG_Kassel_4_L_77_23_Anonym.pdf": "",
		"VG_Kassel_4_L_77_23_Presse.pdf": "",
	})
	m := NewMatcher(DefaultThresholds())

	result := m.Match(ref("4400", "VG Kassel, B. v. 03.03.2023 - 4 L 77/23"), ix)

	assert.Len(t, result.Matches, 2)
}

func TestMatchEUCaseExactHit(t *testing.T) {
	ix := buildIndex(map[string]string{
		"Urteil_EuGH.pdf": "Urteil des Gerichtshofs in der Rechtssache C-123/19 vom 14. Mai 2020",
		"Vermerk.pdf":     "Interner Vermerk ohne Bezug",
	})
	m := NewMatcher(DefaultThresholds())

	result := m.Match(ref("4500", "EuGH, U. v. 14.05.2020 - Rs. C-123/19"), ix)

	require.Equal(t, []string{"/docs/Urteil_EuGH.pdf"}, result.Matches)
	assert.Equal(t, "EU-Aktenzeichen: Rs. C-123/19", result.Reason)
}

func TestMatchEUCaseHardNegative(t *testing.T) {
	ix := buildIndex(map[string]string{
		"Vermerk.pdf": "Interner Vermerk ohne Bezug",
		"Notiz.pdf":   "Weitere Notiz",
	})
	m := NewMatcher(DefaultThresholds())

	result := m.Match(ref("4500", "EuGH, U. v. 14.05.2020 - Rs. C-123/19"), ix)

	assert.Empty(t, result.Matches)
	assert.Equal(t, "EU-Aktenzeichen ohne exakten Treffer: Rs. C-123/19", result.Reason)
}

func TestMatchContentAzTokens(t *testing.T) {
	ix := buildIndex(map[string]string{
		"Anlage_1.pdf": "Verwaltungsgericht Köln Urteil vom 05.06.2021 1 A 100/20 In dem Verfahren",
		"Anlage_2.pdf": "Etwas anderes",
	})
	m := NewMatcher(DefaultThresholds())

	result := m.Match(ref("4250", "VG Köln, U. v. 05.06.2021 - 1 A 100/20"), ix)

	require.Equal(t, []string{"/docs/Anlage_1.pdf"}, result.Matches)
	assert.Equal(t, "Inhalt-AZ-Tokens: 1 a 100 20, AZ-Phrase: 1 a 100 20", result.Reason)
}

func TestMatchEarliestPhraseWins(t *testing.T) {
	// The true decision states its Aktenzeichen in the header; a document
	// that merely cites it does so much later.
	filler := strings.Repeat("x ", 150)
	ix := buildIndex(map[string]string{
		"Anlage_1.pdf": "11 B 456/22 Beschluss des Oberverwaltungsgerichts",
		"Anlage_2.pdf": filler + "11 B 456/22",
	})
	m := NewMatcher(DefaultThresholds())

	result := m.Match(ref("4310", "OVG Münster, B. v. 10.10.2022 - 11 B 456/22"), ix)

	require.Equal(t, []string{"/docs/Anlage_1.pdf"}, result.Matches)
}

func TestMatchNumericFilenameFallback(t *testing.T) {
	ix := buildIndex(map[string]string{
		"1234.pdf":    "",
		"Vermerk.pdf": "",
	})
	m := NewMatcher(DefaultThresholds())

	result := m.Match(ref("4300", "BVerfG, B. v. 12.03.2024 - 2 BvR 1234/20"), ix)

	require.Equal(t, []string{"/docs/1234.pdf"}, result.Matches)
	assert.Equal(t, "Numerischer Dateiname: 1234", result.Reason)
}

func TestMatchRejectsSingleConflictingPrefix(t *testing.T) {
	// The only token match carries a foreign document number prefix, so it
	// must be rejected rather than renamed over.
	ix := buildIndex(map[string]string{
		"4099_VG_Berlin_5_K_1234_23.pdf": "",
	})
	m := NewMatcher(DefaultThresholds())

	result := m.Match(ref("4077", "VG Berlin, B. v. 12.03.2024 - 5 K 1234/23"), ix)

	assert.Empty(t, result.Matches)
}

func TestMatchTitleTokensNameDominance(t *testing.T) {
	ix := buildIndex(map[string]string{
		"Gutachten_Rückführung_Asylbewerber.pdf": "",
		"Vermerk_Asylbewerber.pdf":               "",
	})
	m := NewMatcher(DefaultThresholds())

	result := m.Match(ref("4200", "Gutachten zur Rückführung abgelehnter Asylbewerber"), ix)

	require.Equal(t, []string{"/docs/Gutachten_Rückführung_Asylbewerber.pdf"}, result.Matches)
	assert.Equal(t, "Titel-Score: top=9, second=3, name=3, content=0, tokens=5", result.Reason)
}

func TestMatchTitleTokensNoRobustSignal(t *testing.T) {
	ix := buildIndex(map[string]string{
		"Anlage_1.pdf": "",
	})
	m := NewMatcher(DefaultThresholds())

	result := m.Match(ref("4600", "Der die das"), ix)

	assert.Empty(t, result.Matches)
	assert.Equal(t, "Kein robustes Aktenzeichen extrahiert", result.Reason)
}

func TestMatchDeterministic(t *testing.T) {
	ix := buildIndex(map[string]string{
		"VG_Berlin_5_K_1234_23.pdf":  "",
		"OVG_Muenster_2_A_99_21.pdf": "",
	})
	m := NewMatcher(DefaultThresholds())
	r := ref("4077", "VG Berlin, B. v. 12.03.2024 - 5 K 1234/23")

	first := m.Match(r, ix)
	for i := 0; i < 5; i++ {
		again := m.Match(r, ix)
		assert.Equal(t, first.Matches, again.Matches)
		assert.Equal(t, first.Reason, again.Reason)
	}
}

func TestDefaultThresholds(t *testing.T) {
	thresholds := DefaultThresholds()
	assert.Equal(t, 200, thresholds.EarliestPhraseGap)
	assert.Equal(t, 2, thresholds.ScoreMargin)
	assert.Equal(t, 2, thresholds.MinNameHits)
}
