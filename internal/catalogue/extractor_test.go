package catalogue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursemap/internal/domain"
)

const sampleCatalogue = `Catalogue des UV
Table des matières
Automne
CS
Crédits 6
MT12 Techniques mathématiques
pour l'ingénieur
Description brève : Outils fondamentaux d'analyse
et d'algèbre linéaire.
Diplômant
Mots clés : analyse, algèbre,
équations différentielles
Printemps
TM
Crédits 5
IF05 Bases de données
Description brève : Conception et exploitation de bases de données relationnelles. Niveau 2
Mots clés : SQL, modèle relationnel
Automne
TSH
Crédits 4
SP01 Activités sportives
Description brève : Pratique sportive encadrée.
Niveau 1
Mots clés : sport
`

func TestExtract_WellFormedBlocks(t *testing.T) {
	records, skipped := Extract(sampleCatalogue)
	require.Len(t, records, 3)
	// Only the table-of-contents preamble fails the anchors.
	assert.Equal(t, 1, skipped)

	mt12 := records[0]
	assert.Equal(t, "MT12", mt12.Code)
	assert.Equal(t, "Techniques mathématiques pour l'ingénieur", mt12.Name)
	assert.Equal(t, "CS", mt12.Kind)
	assert.Equal(t, 6, mt12.Credits)
	assert.Equal(t, domain.TermAutumn, mt12.Term)
	assert.Equal(t, "Outils fondamentaux d'analyse et d'algèbre linéaire.", mt12.Description)
	assert.Equal(t, "analyse, algèbre, équations différentielles", mt12.Keywords)

	if05 := records[1]
	assert.Equal(t, "IF05", if05.Code)
	assert.Equal(t, "Bases de données", if05.Name)
	assert.Equal(t, "TM", if05.Kind)
	assert.Equal(t, 5, if05.Credits)
	assert.Equal(t, domain.TermSpring, if05.Term)
	assert.Equal(t, "Conception et exploitation de bases de données relationnelles.", if05.Description)
	assert.Equal(t, "SQL, modèle relationnel", if05.Keywords)

	sp01 := records[2]
	assert.Equal(t, "SP01", sp01.Code)
	assert.Equal(t, domain.TermAutumn, sp01.Term)
	assert.Equal(t, "TSH", sp01.Kind)
	assert.Equal(t, "Pratique sportive encadrée.", sp01.Description)
	assert.Equal(t, "sport", sp01.Keywords)
}

func TestExtract_MalformedBlocksOnlyAffectCount(t *testing.T) {
	text := sampleCatalogue +
		// Term section without any code line.
		"Automne\nInformations pratiques du semestre\nsans aucun code\n" +
		// Code mention without the short-description anchor: a cross
		// reference, not a record.
		"Printemps\nGE21 Gestion de projet\nVoir le livret pour le détail.\n"
	records, skipped := Extract(text)
	require.Len(t, records, 3)
	assert.Equal(t, 3, skipped)
	for _, r := range records {
		assert.NotEqual(t, "GE21", r.Code)
	}
}

func TestExtract_Idempotent(t *testing.T) {
	first, firstSkipped := Extract(sampleCatalogue)
	second, secondSkipped := Extract(sampleCatalogue)
	assert.Equal(t, first, second)
	assert.Equal(t, firstSkipped, secondSkipped)
}

func TestExtract_DeduplicatesByCode(t *testing.T) {
	text := sampleCatalogue +
		"Automne\nSP\nCrédits 2\nMT12 Un intitulé différent\nDescription brève : Reprise en annexe.\nNiveau 1\n"
	records, _ := Extract(text)
	require.Len(t, records, 3)
	var mt12 domain.CourseRecord
	for _, r := range records {
		if r.Code == "MT12" {
			mt12 = r
		}
	}
	// First occurrence wins.
	assert.Equal(t, "Techniques mathématiques pour l'ingénieur", mt12.Name)
	assert.Equal(t, 6, mt12.Credits)
}

func TestExtract_EmptyInput(t *testing.T) {
	records, skipped := Extract("")
	assert.Empty(t, records)
	assert.Zero(t, skipped)
}

func TestDetectCode(t *testing.T) {
	code, name, ok := detectCode("Automne\nLO21 Programmation orientée objet\n")
	require.True(t, ok)
	assert.Equal(t, "LO21", code)
	assert.Equal(t, "Programmation orientée objet", name)

	// A name must open with an uppercase letter.
	_, _, ok = detectCode("Automne\nLO21 12 crédits\n")
	assert.False(t, ok)

	_, _, ok = detectCode("Automne\nrien ici\n")
	assert.False(t, ok)
}

func TestDetectKind_RequiresStandaloneLine(t *testing.T) {
	assert.Equal(t, "TM", detectKind("Automne\nTM\nLO21 Titre\n"))
	assert.Empty(t, detectKind("Automne\nTM avancé\nLO21 Titre\n"))
}

func TestDetectCredits(t *testing.T) {
	assert.Equal(t, 6, detectCredits("Crédits 6\n"))
	assert.Equal(t, 12, detectCredits("Crédits   12\n"))
	assert.Zero(t, detectCredits("aucun crédit mentionné"))
}

func TestDetectDescription_StopsAtKeywords(t *testing.T) {
	block := "Description brève : Une introduction.\nSuite de la description.\nDiplômant\nreste"
	assert.Equal(t, "Une introduction. Suite de la description.", detectDescription(block))

	assert.Empty(t, detectDescription("aucune description ici"))
}

func TestDetectKeywords_StopsAtCodeLine(t *testing.T) {
	block := "Mots clés : réseaux, protocoles\ncouches OSI\nRE14 Autre UV\n"
	assert.Equal(t, "réseaux, protocoles couches OSI", detectKeywords(block))
}
