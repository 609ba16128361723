package dfbnet_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JanVogt06/dfb-spesen-generator/internal/dfbnet"
)

const assignmentsHTML = `
<html><body>
<sria-matches-match-list-item>
  <div class="match-kickoff">Samstag · 08.11.2025 · 13:00 Uhr</div>
  <div class="row"><div class="col-5">Heim</div><div class="col-7 fw-700">SV Jena</div></div>
  <div class="row"><div class="col-5">Gast</div><div class="col-7 fw-700">FC Erfurt</div></div>
  <div class="row"><div class="col-5">Mannschaftsart</div><div class="col-7 fw-700">Herren</div></div>
  <div class="row"><div class="col-5">Spielklasse</div><div class="col-7 fw-700">Kreisoberliga</div></div>
  <div class="row"><div class="col-5">Staffel</div><div class="col-7 fw-700">Staffel 1</div></div>
  <div class="row"><div class="col-5">Spieltag</div><div class="col-7 fw-700">11</div></div>

  <sria-matches-referee-contact-details-list-item>
    <div class="mb-2 fw-700">SR Max Mustermann</div>
    <div class="row"><div class="col-5">Telefon (mobil)</div><div class="col-7"><a href="tel:+49151234">0151 234</a></div></div>
    <div class="row"><div class="col-5">E-Mail</div><div class="col-7"><a href="mailto:max@example.com">max@example.com</a></div></div>
    <div class="row"><div class="col-5">Straße, Nr.</div><div class="col-7">Hauptstr. 1</div></div>
    <div class="row"><div class="col-5">PLZ, Ort</div><div class="col-7">07743 Jena</div></div>
  </sria-matches-referee-contact-details-list-item>
  <sria-matches-referee-contact-details-list-item>
    <div class="mb-2 fw-700">SRA 1 Erika Musterfrau</div>
    <div class="row"><div class="col-5">Telefon (privat)</div><div class="col-7">03641 999</div></div>
  </sria-matches-referee-contact-details-list-item>
  <sria-matches-referee-contact-details-list-item>
    <div class="mb-2 fw-700">Beo Hans Beispiel</div>
  </sria-matches-referee-contact-details-list-item>

  <sria-matches-venue-details-modal>
    <div id="modal-subtitle">Sportplatz Jena</div>
    <div class="venue-address">Sportweg 1, 07743 Jena</div>
    <div>Rasenplatz</div>
  </sria-matches-venue-details-modal>
</sria-matches-match-list-item>

<sria-matches-match-list-item>
  <div class="match-kickoff">Sonntag · 09.11.2025 · 10:30 Uhr</div>
  <div class="row"><div class="col-5">Heim</div><div class="col-7 fw-700">SG A/B</div></div>
  <div class="row"><div class="col-5">Gast</div><div class="col-7 fw-700">VfB Pößneck</div></div>
  <div class="row"><div class="col-5">Mannschaftsart</div><div class="col-7 fw-700">B-Junioren</div></div>
  <div class="row"><div class="col-5">Spielklasse</div><div class="col-7 fw-700">Kreisliga</div></div>
</sria-matches-match-list-item>
</body></html>`

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestParseAssignments(t *testing.T) {
	assignments, err := dfbnet.ParseAssignments(strings.NewReader(assignmentsHTML))
	require.NoError(t, err)
	require.Len(t, assignments, 2)

	first := assignments[0]
	assert.Equal(t, "SV Jena", first.SpielInfo.HeimTeam)
	assert.Equal(t, "FC Erfurt", first.SpielInfo.GastTeam)
	assert.Equal(t, "Samstag · 08.11.2025 · 13:00 Uhr", first.SpielInfo.Anpfiff)
	assert.Equal(t, "Herren", first.SpielInfo.Mannschaftsart)
	assert.Equal(t, "Kreisoberliga", first.SpielInfo.Spielklasse)
	assert.Equal(t, "Staffel 1", first.SpielInfo.Staffel)
	assert.Equal(t, "11", first.SpielInfo.Spieltag)

	require.Len(t, first.Schiedsrichter, 3)
	sr := first.RefereeByRole("SR")
	require.NotNil(t, sr)
	assert.Equal(t, "Max Mustermann", sr.Name)
	assert.Equal(t, "0151 234", sr.Telefon)
	assert.Equal(t, "max@example.com", sr.Email)
	assert.Equal(t, "Hauptstr. 1", sr.Strasse)
	assert.Equal(t, "07743 Jena", sr.PLZOrt)

	sra := first.RefereeByRole("SRA 1")
	require.NotNil(t, sra)
	assert.Equal(t, "Erika Musterfrau", sra.Name)
	assert.Equal(t, "03641 999", sra.Telefon)

	beo := first.RefereeByRole("Beo")
	require.NotNil(t, beo)
	assert.Equal(t, "Hans Beispiel", beo.Name)

	assert.Equal(t, "Sportplatz Jena", first.Spielstaette.Name)
	assert.Equal(t, "Sportweg 1, 07743 Jena", first.Spielstaette.Adresse)
	assert.Equal(t, "Rasenplatz", first.Spielstaette.PlatzTyp)

	second := assignments[1]
	assert.Equal(t, "SG A/B", second.SpielInfo.HeimTeam)
	assert.Empty(t, second.Schiedsrichter)
	assert.Empty(t, second.Spielstaette.Name)
}

func TestParseAssignments_EmptyPage(t *testing.T) {
	assignments, err := dfbnet.ParseAssignments(strings.NewReader("<html><body></body></html>"))
	require.NoError(t, err)
	assert.Empty(t, assignments)
}

func TestLogin_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login", r.URL.Path)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "schiri", r.FormValue("username"))
		io.WriteString(w, "<html><body>Willkommen</body></html>")
	}))
	defer server.Close()

	client := dfbnet.NewClient(server.URL, discard)
	assert.NoError(t, client.Login(context.Background(), "schiri", "geheim"))
}

func TestLogin_WrongCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `<html><body><form><input type="password" name="password"></form></body></html>`)
	}))
	defer server.Close()

	client := dfbnet.NewClient(server.URL, discard)
	assert.ErrorIs(t, client.Login(context.Background(), "schiri", "falsch"), dfbnet.ErrLoginFailed)
}

func TestLogin_EmptyCredentials(t *testing.T) {
	client := dfbnet.NewClient("http://unused", discard)
	assert.ErrorIs(t, client.Login(context.Background(), "", ""), dfbnet.ErrLoginFailed)
}

func TestLogin_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := dfbnet.NewClient(server.URL, discard)
	assert.ErrorIs(t, client.Login(context.Background(), "schiri", "geheim"), dfbnet.ErrLoginFailed)
}

func TestFetchAssignments(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sria/matches", r.URL.Path)
		io.WriteString(w, assignmentsHTML)
	}))
	defer server.Close()

	client := dfbnet.NewClient(server.URL, discard)
	assignments, err := client.FetchAssignments(context.Background())
	require.NoError(t, err)
	assert.Len(t, assignments, 2)
}

func TestFetchAssignments_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := dfbnet.NewClient(server.URL, discard)
	_, err := client.FetchAssignments(context.Background())
	assert.Error(t, err)
}

func TestPortalSource_LoginFailurePropagates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `<html><body><input type="password"></body></html>`)
	}))
	defer server.Close()

	source := dfbnet.NewPortalSource(server.URL, discard)
	_, err := source.Scrape(context.Background(), "schiri", "falsch")
	assert.ErrorIs(t, err, dfbnet.ErrLoginFailed)
}
