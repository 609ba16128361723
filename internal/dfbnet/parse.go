package dfbnet

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/JanVogt06/dfb-spesen-generator/internal/models"
)

// Assignment is one scraped match with all details attached.
type Assignment = models.MatchData

// loginSucceeded inspects the post-login page: if a password field is still
// present, the portal re-rendered the login form and the credentials were
// rejected.
func loginSucceeded(resp *http.Response) (bool, error) {
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return false, fmt.Errorf("failed to parse login response: %w", err)
	}
	return doc.Find(`input[type="password"]`).Length() == 0, nil
}

// ParseAssignments extracts every match from the assignment list page. Each
// match lives in its own <sria-matches-match-list-item> container with the
// detail, referee-contact and venue sections inline.
func ParseAssignments(r io.Reader) ([]Assignment, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse assignments page: %w", err)
	}

	var assignments []Assignment
	doc.Find("sria-matches-match-list-item").Each(func(_ int, item *goquery.Selection) {
		assignments = append(assignments, Assignment{
			SpielInfo:      parseSpielInfo(item),
			Schiedsrichter: parseReferees(item),
			Spielstaette:   parseVenue(item),
		})
	})

	return assignments, nil
}

// labelValue finds the bold value next to a label like "Mannschaftsart" or
// "Heim". The portal renders each pair as a label element followed by a
// .fw-700 sibling within the same row.
func labelValue(item *goquery.Selection, label string) string {
	var value string
	item.Find("*").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.TrimSpace(s.Text()) != label {
			return true
		}
		value = strings.TrimSpace(s.Parent().Find(".fw-700").First().Text())
		return value == ""
	})
	return value
}

func parseSpielInfo(item *goquery.Selection) models.SpielInfo {
	return models.SpielInfo{
		HeimTeam:       labelValue(item, "Heim"),
		GastTeam:       labelValue(item, "Gast"),
		Anpfiff:        strings.TrimSpace(item.Find(".match-kickoff").First().Text()),
		Mannschaftsart: labelValue(item, "Mannschaftsart"),
		Spielklasse:    labelValue(item, "Spielklasse"),
		Staffel:        labelValue(item, "Staffel"),
		Spieltag:       labelValue(item, "Spieltag"),
	}
}

func parseReferees(item *goquery.Selection) []models.Schiedsrichter {
	var referees []models.Schiedsrichter

	item.Find("sria-matches-referee-contact-details-list-item").Each(func(_ int, ref *goquery.Selection) {
		header := strings.TrimSpace(ref.Find(".mb-2.fw-700").First().Text())
		rolle, name := splitRefereeHeader(header)
		if rolle == "" {
			return
		}

		referees = append(referees, models.Schiedsrichter{
			Rolle:   rolle,
			Name:    name,
			Telefon: contactValue(ref, "Telefon (mobil)", "Telefon (privat)"),
			Email:   contactValue(ref, "E-Mail"),
			Strasse: contactValue(ref, "Straße, Nr."),
			PLZOrt:  contactValue(ref, "PLZ, Ort"),
		})
	})

	return referees
}

// splitRefereeHeader parses headers like "SR Louis Gaudes" or "SRA 1 Jan
// Vogt" into role and name. Assistant roles carry their number ("SRA 1").
func splitRefereeHeader(header string) (rolle, name string) {
	parts := strings.Fields(header)
	if len(parts) < 2 {
		return "", ""
	}

	switch parts[0] {
	case "SRA":
		if len(parts) >= 3 {
			return parts[0] + " " + parts[1], strings.Join(parts[2:], " ")
		}
		return "", ""
	case "SR", "Beo":
		return parts[0], strings.Join(parts[1:], " ")
	}
	return "", ""
}

// contactValue reads the value column of a contact row, trying each label in
// order. Linked values (tel:, mailto:) live inside an <a>.
func contactValue(ref *goquery.Selection, labels ...string) string {
	for _, label := range labels {
		var value string
		ref.Find("*").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if strings.TrimSpace(s.Text()) != label {
				return true
			}
			col := s.Parent().Find(".col-7, .col-sm-6").Last()
			if link := col.Find("a").First(); link.Length() > 0 {
				value = strings.TrimSpace(link.Text())
			} else {
				value = strings.TrimSpace(col.Text())
			}
			return value == ""
		})
		if value != "" {
			return value
		}
	}
	return ""
}

func parseVenue(item *goquery.Selection) models.Spielstaette {
	venue := item.Find("sria-matches-venue-details-modal").First()

	staette := models.Spielstaette{
		Name:    strings.TrimSpace(venue.Find(".venue-name, #modal-subtitle, .subtitle").First().Text()),
		Adresse: strings.TrimSpace(venue.Find(".venue-address").First().Text()),
	}

	for _, typ := range []string{"Rasenplatz", "Kunstrasen", "Hartplatz"} {
		if strings.Contains(venue.Text(), typ) {
			staette.PlatzTyp = typ
			break
		}
	}

	return staette
}
