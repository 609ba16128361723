// Package matchutil holds the shared helpers for match data: document
// filenames, kickoff ("Anpfiff") parsing and team name sanitizing. It is the
// single source for filename generation, so the API and the document
// generator always agree on names.
package matchutil

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/JanVogt06/dfb-spesen-generator/internal/models"
)

var germanDateRe = regexp.MustCompile(`(\d{2})\.(\d{2})\.(\d{4})`)

const fallbackISODate = "1900-01-01"

// FilenameFromMatch builds the document filename for a match:
// Spesen_{heim}_vs_{gast}_{DD-MM-YYYY}.docx.
func FilenameFromMatch(match *models.MatchData) string {
	heim := match.SpielInfo.HeimTeam
	if heim == "" {
		heim = "Unbekannt"
	}
	gast := match.SpielInfo.GastTeam
	if gast == "" {
		gast = "Unbekannt"
	}

	datum := "01-01-2000"
	if m := germanDateRe.FindString(match.SpielInfo.Anpfiff); m != "" {
		datum = strings.ReplaceAll(m, ".", "-")
	}

	return fmt.Sprintf("Spesen_%s_vs_%s_%s.docx",
		SanitizeTeamName(heim), SanitizeTeamName(gast), datum)
}

// Kickoff is the parsed form of an Anpfiff string. When the string does not
// match the expected "Wochentag · DD.MM.YYYY · HH:MM Uhr" layout, Parsed is
// false and Datum carries the raw input.
type Kickoff struct {
	Datum   string
	Uhrzeit string
	Parsed  bool
}

// ParseAnpfiff splits "Samstag · 08.11.2025 · 13:00 Uhr" into date and time.
func ParseAnpfiff(anpfiff string) Kickoff {
	parts := strings.Split(anpfiff, "·")
	if len(parts) >= 3 {
		return Kickoff{
			Datum:   strings.TrimSpace(parts[1]),
			Uhrzeit: strings.TrimSpace(strings.ReplaceAll(parts[2], "Uhr", "")),
			Parsed:  true,
		}
	}
	return Kickoff{Datum: anpfiff}
}

// ISODateFromAnpfiff extracts the date as YYYY-MM-DD so dates sort
// lexicographically. Unparseable input yields "1900-01-01".
func ISODateFromAnpfiff(anpfiff string) string {
	m := germanDateRe.FindStringSubmatch(anpfiff)
	if m == nil {
		return fallbackISODate
	}
	return fmt.Sprintf("%s-%s-%s", m[3], m[2], m[1])
}

var teamNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "",
	"?", "",
	`"`, "",
	"<", "",
	">", "",
	"|", "-",
)

// SanitizeTeamName strips characters that are unsafe in filenames.
func SanitizeTeamName(name string) string {
	if name == "" {
		return "Unbekannt"
	}
	return strings.TrimSpace(teamNameReplacer.Replace(name))
}
