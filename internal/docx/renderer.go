// Package docx fills the Spesenabrechnung template. A .docx file is a zip
// container; the renderer rewrites the XML parts, replacing {{PLACEHOLDER}}
// tokens, and copies every other entry verbatim.
package docx

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/JanVogt06/dfb-spesen-generator/internal/matchutil"
	"github.com/JanVogt06/dfb-spesen-generator/internal/models"
	"github.com/JanVogt06/dfb-spesen-generator/internal/spesen"
)

const (
	checked   = "☑"
	unchecked = "☐"
)

type Renderer struct {
	templatePath string
}

func NewRenderer(templatePath string) (*Renderer, error) {
	if _, err := os.Stat(templatePath); err != nil {
		return nil, fmt.Errorf("template not found: %w", err)
	}
	return &Renderer{templatePath: templatePath}, nil
}

// Render fills the template for one match and writes the document into
// outputDir. It returns the generated filename.
func (r *Renderer) Render(match *models.MatchData, outputDir string) (string, error) {
	replacements := Replacements(match)

	filename := matchutil.FilenameFromMatch(match)
	outputPath := filepath.Join(outputDir, filename)

	if err := r.renderFile(outputPath, replacements); err != nil {
		return "", err
	}
	return filename, nil
}

func (r *Renderer) renderFile(outputPath string, replacements map[string]string) error {
	reader, err := zip.OpenReader(r.templatePath)
	if err != nil {
		return fmt.Errorf("failed to open template: %w", err)
	}
	defer reader.Close()

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}
	defer out.Close()

	writer := zip.NewWriter(out)
	defer writer.Close()

	for _, file := range reader.File {
		if err := copyEntry(writer, file, replacements); err != nil {
			return fmt.Errorf("failed to write %s: %w", file.Name, err)
		}
	}

	return writer.Close()
}

func copyEntry(writer *zip.Writer, file *zip.File, replacements map[string]string) error {
	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	header := file.FileHeader
	dst, err := writer.CreateHeader(&header)
	if err != nil {
		return err
	}

	// Placeholders only occur in the word-processing XML parts.
	if strings.HasSuffix(file.Name, ".xml") {
		data, err := io.ReadAll(src)
		if err != nil {
			return err
		}
		content := string(data)
		for key, value := range replacements {
			content = strings.ReplaceAll(content, "{{"+key+"}}", xmlEscape(value))
		}
		_, err = io.WriteString(dst, content)
		return err
	}

	_, err = io.Copy(dst, src)
	return err
}

func xmlEscape(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
	)
	return replacer.Replace(s)
}

// Replacements maps every template placeholder to its value for one match.
func Replacements(match *models.MatchData) map[string]string {
	info := match.SpielInfo
	kickoff := matchutil.ParseAnpfiff(info.Anpfiff)

	replacements := map[string]string{
		"HEIM_TEAM":   info.HeimTeam,
		"GAST_TEAM":   info.GastTeam,
		"SPIELKLASSE": info.Spielklasse,
		"SPIELNUMMER": "",
		"DATUM":       kickoff.Datum,
		"ANSTOSS":     kickoff.Uhrzeit,
		"SPIELORT":    match.Spielstaette.Name,
	}

	for key, value := range checkboxes(&info) {
		replacements[key] = value
	}

	addReferee(replacements, "SR", match.RefereeByRole("SR"))
	addReferee(replacements, "SRA1", match.RefereeByRole("SRA 1"))
	addReferee(replacements, "SRA2", match.RefereeByRole("SRA 2"))

	fee := spesen.Calculate(info.Spielklasse, info.Mannschaftsart)
	if fee != nil {
		replacements["SR_Spesen"] = spesen.Format(&fee.SR)
		replacements["SR1_Spesen"] = spesen.Format(fee.SRA)
		replacements["SR2_Spesen"] = spesen.Format(fee.SRA)
	} else {
		replacements["SR_Spesen"] = ""
		replacements["SR1_Spesen"] = ""
		replacements["SR2_Spesen"] = ""
	}

	return replacements
}

func addReferee(replacements map[string]string, prefix string, ref *models.Schiedsrichter) {
	var name, strasse, plzOrt string
	if ref != nil {
		name, strasse, plzOrt = ref.Name, ref.Strasse, ref.PLZOrt
	}
	replacements[prefix+"_NAME"] = name
	replacements[prefix+"_STRASSE"] = strasse
	replacements[prefix+"_PLZ_ORT"] = plzOrt
}

func checkboxes(info *models.SpielInfo) map[string]string {
	boxes := map[string]string{
		"CHECKBOX_PUNKTSPIEL":   unchecked,
		"CHECKBOX_POKALSPIEL":   unchecked,
		"CHECKBOX_ENTSCHEIDUNG": unchecked,
		"CHECKBOX_FREUNDSCHAFT": unchecked,
		"CHECKBOX_MAENNER":      unchecked,
		"CHECKBOX_FRAUEN":       unchecked,
		"CHECKBOX_MAEDCHEN":     unchecked,
		"CHECKBOX_ALTE_HERREN":  unchecked,
		"CHECKBOX_SONSTIGE":     unchecked,
		"CHECKBOX_A_JUN":        unchecked,
		"CHECKBOX_B_JUN":        unchecked,
		"CHECKBOX_C_JUN":        unchecked,
		"CHECKBOX_D_JUN":        unchecked,
		"CHECKBOX_E_JUN":        unchecked,
		"CHECKBOX_F_JUN":        unchecked,
	}

	klasse := strings.ToLower(info.Spielklasse)
	switch {
	case strings.Contains(klasse, "pokal"):
		boxes["CHECKBOX_POKALSPIEL"] = checked
	case strings.Contains(klasse, "freundschaft"):
		boxes["CHECKBOX_FREUNDSCHAFT"] = checked
	default:
		boxes["CHECKBOX_PUNKTSPIEL"] = checked
	}

	art := strings.ToLower(info.Mannschaftsart)
	switch {
	case strings.Contains(art, "herren") || strings.Contains(art, "männer"):
		if strings.Contains(art, "alte") {
			boxes["CHECKBOX_ALTE_HERREN"] = checked
		} else {
			boxes["CHECKBOX_MAENNER"] = checked
		}
	case strings.Contains(art, "frauen"):
		boxes["CHECKBOX_FRAUEN"] = checked
	case strings.Contains(art, "mädchen"):
		boxes["CHECKBOX_MAEDCHEN"] = checked
	case strings.Contains(art, "a-junioren"):
		boxes["CHECKBOX_A_JUN"] = checked
	case strings.Contains(art, "b-junioren"):
		boxes["CHECKBOX_B_JUN"] = checked
	case strings.Contains(art, "c-junioren"):
		boxes["CHECKBOX_C_JUN"] = checked
	case strings.Contains(art, "d-junioren"):
		boxes["CHECKBOX_D_JUN"] = checked
	case strings.Contains(art, "e-junioren"):
		boxes["CHECKBOX_E_JUN"] = checked
	case strings.Contains(art, "f-junioren"):
		boxes["CHECKBOX_F_JUN"] = checked
	default:
		boxes["CHECKBOX_SONSTIGE"] = checked
	}

	return boxes
}
