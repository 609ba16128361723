package models

// SpielInfo holds the core facts about one match as shown on the DFBnet
// assignment list. Field names mirror the portal's German labels because the
// generated documents and the stored JSON use them verbatim.
type SpielInfo struct {
	HeimTeam       string `json:"heim_team"`
	GastTeam       string `json:"gast_team"`
	Anpfiff        string `json:"anpfiff"`
	Mannschaftsart string `json:"mannschaftsart"`
	Spielklasse    string `json:"spielklasse"`
	Staffel        string `json:"staffel,omitempty"`
	Spieltag       string `json:"spieltag,omitempty"`
}

// Schiedsrichter is one referee contact record attached to a match.
type Schiedsrichter struct {
	Rolle   string `json:"rolle"`
	Name    string `json:"name"`
	Telefon string `json:"telefon,omitempty"`
	Email   string `json:"email,omitempty"`
	Strasse string `json:"strasse,omitempty"`
	PLZOrt  string `json:"plz_ort,omitempty"`
}

// Spielstaette is the venue record of a match.
type Spielstaette struct {
	Name     string `json:"name"`
	Adresse  string `json:"adresse,omitempty"`
	PlatzTyp string `json:"platz_typ,omitempty"`
}

// MatchData is the immutable snapshot of one scraped match. The underscore
// fields are attached by the API when serving match lists; they are not part
// of the scraped data itself.
type MatchData struct {
	SpielInfo      SpielInfo        `json:"spiel_info"`
	Schiedsrichter []Schiedsrichter `json:"schiedsrichter"`
	Spielstaette   Spielstaette     `json:"spielstaette"`

	SessionID string `json:"_session_id,omitempty"`
	Datum     string `json:"_datum,omitempty"`
	CreatedAt string `json:"_created_at,omitempty"`
	Filename  string `json:"_filename,omitempty"`
}

// RefereeByRole returns the referee with the given role, or nil.
func (m *MatchData) RefereeByRole(role string) *Schiedsrichter {
	for i := range m.Schiedsrichter {
		if m.Schiedsrichter[i].Rolle == role {
			return &m.Schiedsrichter[i]
		}
	}
	return nil
}
