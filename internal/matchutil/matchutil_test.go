package matchutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/JanVogt06/dfb-spesen-generator/internal/matchutil"
	"github.com/JanVogt06/dfb-spesen-generator/internal/models"
)

func match(heim, gast, anpfiff string) *models.MatchData {
	return &models.MatchData{
		SpielInfo: models.SpielInfo{HeimTeam: heim, GastTeam: gast, Anpfiff: anpfiff},
	}
}

func TestFilenameFromMatch(t *testing.T) {
	m := match("SV Jena", "FC Erfurt", "Samstag · 08.11.2025 · 13:00 Uhr")
	assert.Equal(t, "Spesen_SV Jena_vs_FC Erfurt_08-11-2025.docx", matchutil.FilenameFromMatch(m))
}

func TestFilenameFromMatch_SanitizesTeams(t *testing.T) {
	m := match("SG A/B", `FC "Sturm"`, "08.11.2025")
	assert.Equal(t, "Spesen_SG A-B_vs_FC Sturm_08-11-2025.docx", matchutil.FilenameFromMatch(m))
}

func TestFilenameFromMatch_Fallbacks(t *testing.T) {
	m := match("", "", "kein Datum")
	assert.Equal(t, "Spesen_Unbekannt_vs_Unbekannt_01-01-2000.docx", matchutil.FilenameFromMatch(m))
}

func TestParseAnpfiff(t *testing.T) {
	k := matchutil.ParseAnpfiff("Samstag · 08.11.2025 · 13:00 Uhr")
	assert.True(t, k.Parsed)
	assert.Equal(t, "08.11.2025", k.Datum)
	assert.Equal(t, "13:00", k.Uhrzeit)
}

func TestParseAnpfiff_RawFallback(t *testing.T) {
	k := matchutil.ParseAnpfiff("08.11.2025 13:00")
	assert.False(t, k.Parsed)
	assert.Equal(t, "08.11.2025 13:00", k.Datum)
	assert.Equal(t, "", k.Uhrzeit)
}

func TestISODateFromAnpfiff(t *testing.T) {
	tests := []struct {
		anpfiff string
		want    string
	}{
		{"Samstag · 08.11.2025 · 13:00 Uhr", "2025-11-08"},
		{"01.03.2024", "2024-03-01"},
		{"kein Datum", "1900-01-01"},
		{"", "1900-01-01"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, matchutil.ISODateFromAnpfiff(tt.anpfiff), tt.anpfiff)
	}
}

func TestSanitizeTeamName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"SV Jena", "SV Jena"},
		{"SG A/B", "SG A-B"},
		{`FC "Sturm"`, "FC Sturm"},
		{"Wer?*", "Wer"},
		{"A|B:C", "A-B-C"},
		{"", "Unbekannt"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, matchutil.SanitizeTeamName(tt.in), tt.in)
	}
}
