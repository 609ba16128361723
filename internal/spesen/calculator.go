// Package spesen computes referee fees for league matches according to the
// TFV Spesenordnung (Stand 01.07.2025), §2 Abs. 2. Cup and friendly matches
// have different rules and are not covered.
package spesen

import "strings"

// Amount is a fee pair for the referee (SR) and the assistant (SRA). A nil
// SRA means no assistant is assigned at that level.
type Amount struct {
	SR  float64
	SRA *float64
}

func amount(sr float64, sra float64) *Amount {
	return &Amount{SR: sr, SRA: &sra}
}

func amountNoSRA(sr float64) *Amount {
	return &Amount{SR: sr}
}

// §2 Abs. 2a: Männer / Alte Herren, Punkt-, Entscheidungs- und
// Qualifikationsspiele. Keys match on substring of the Spielklasse.
var maennerTable = []struct {
	key string
	fee *Amount
}{
	{"verbandsliga", amount(50, 40)},
	{"landesklasse", amount(40, 30)},
	{"landesmeisterschaft", amount(40, 30)},
	{"kreisoberliga", amount(30, 25)},
	{"kreisliga", amount(25, 23)},
	{"kreisklasse", amount(25, 23)},
}

// §2 Abs. 2b: Frauen.
var frauenTable = []struct {
	key string
	fee *Amount
}{
	{"verbandsliga", amount(25, 20)},
	{"landesklasse", amount(25, 20)},
	{"kreisoberliga", amountNoSRA(20)},
}

// Calculate returns the SR/SRA fees for a league match, or nil when the
// match is not covered by the TFV fee schedule (überregional leagues,
// unknown team categories).
func Calculate(spielklasse, mannschaftsart string) *Amount {
	if spielklasse == "" || mannschaftsart == "" {
		return nil
	}

	klasse := strings.ToLower(spielklasse)
	art := strings.ToLower(mannschaftsart)

	if isUeberregional(klasse) {
		return nil
	}

	switch {
	case isMaenner(art):
		return calcMaenner(klasse, art)
	case isFrauenOrJuniorinnen(art):
		return calcFrauen(klasse, art)
	case isJunioren(art):
		return calcJunioren(klasse, art)
	}
	return nil
}

func isUeberregional(klasse string) bool {
	for _, keyword := range []string{"bundesliga", "regionalliga", "oberliga", "dfb", "nachwuchsliga"} {
		if strings.Contains(klasse, keyword) {
			return true
		}
	}
	return false
}

func isMaenner(art string) bool {
	return strings.Contains(art, "herren") || strings.Contains(art, "männer")
}

func isFrauenOrJuniorinnen(art string) bool {
	for _, keyword := range []string{"frauen", "damen", "juniorinnen", "mädchen"} {
		if strings.Contains(art, keyword) {
			return true
		}
	}
	return false
}

func isJunioren(art string) bool {
	return strings.Contains(art, "junioren") && !strings.Contains(art, "juniorinnen")
}

func isKreisebene(klasse string) bool {
	return strings.Contains(klasse, "kreis")
}

func calcMaenner(klasse, art string) *Amount {
	// Alte Herren Kleinfeld: 20 €, kein SRA.
	if strings.Contains(art, "alte") && strings.Contains(klasse, "kleinfeld") {
		return amountNoSRA(20)
	}

	for _, entry := range maennerTable {
		if strings.Contains(klasse, entry.key) {
			return entry.fee
		}
	}

	if isKreisebene(klasse) {
		return amount(25, 23)
	}
	return nil
}

func calcFrauen(klasse, art string) *Amount {
	// Juniorinnen: 20 € in allen Spiel- und Altersklassen, kein SRA.
	if strings.Contains(art, "juniorinnen") || strings.Contains(art, "mädchen") {
		return amountNoSRA(20)
	}

	for _, entry := range frauenTable {
		if strings.Contains(klasse, entry.key) {
			return entry.fee
		}
	}

	if isKreisebene(klasse) {
		return amountNoSRA(20)
	}
	return nil
}

func calcJunioren(klasse, art string) *Amount {
	dOrYounger := false
	for _, keyword := range []string{"d-junioren", "e-junioren", "f-junioren", "g-junioren"} {
		if strings.Contains(art, keyword) {
			dOrYounger = true
			break
		}
	}
	cOrYounger := dOrYounger || strings.Contains(art, "c-junioren")

	if isKreisebene(klasse) {
		if cOrYounger {
			return amount(20, 15)
		}
		return amount(23, 18)
	}

	// Landesebene.
	if dOrYounger || strings.Contains(klasse, "talenteliga") || strings.Contains(klasse, "kleinfeld") {
		return amountNoSRA(20)
	}
	return amount(25, 20)
}
