package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gradeufla/planner-api/internal/models"
	"github.com/gradeufla/planner-api/pkg/errors"
)

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "GCC100", NormalizeCode(" gcc100. "))
	assert.Equal(t, "GEX_101", NormalizeCode("gex_101"))
	assert.Equal(t, "", NormalizeCode(" ?? "))
}

func TestParsePrerequisitesLabeledGrammar(t *testing.T) {
	p := ParsePrerequisites("strong: GCC100, GCC101; minimum: GEX101; coreq: GAC124")
	assert.Equal(t, []string{"GCC100", "GCC101"}, p.Strong)
	assert.Equal(t, []string{"GEX101"}, p.Minimum)
	assert.Equal(t, []string{"GAC124"}, p.Coreq)
}

func TestParsePrerequisitesPortugueseLabels(t *testing.T) {
	p := ParsePrerequisites("Forte: GCC100; Minimo: GEX101; Co-requisito: GAC124")
	assert.Equal(t, []string{"GCC100"}, p.Strong)
	assert.Equal(t, []string{"GEX101"}, p.Minimum)
	assert.Equal(t, []string{"GAC124"}, p.Coreq)
}

func TestParsePrerequisitesUnlabeledDefaultsToStrong(t *testing.T) {
	p := ParsePrerequisites("GCC100, gcc101 / GEX101")
	assert.Equal(t, []string{"GCC100", "GCC101", "GEX101"}, p.Strong)
	assert.Empty(t, p.Minimum)
	assert.Empty(t, p.Coreq)

	assert.True(t, ParsePrerequisites("").Empty())
	assert.True(t, ParsePrerequisites("  ").Empty())
}

const validCSV = `codigo,nome,creditos,tipo,semestre,subgrupo,prerequisitos,turmas
GCC100,Algoritmos,4,obrigatoria,1,,,"[{""id"":""01A"",""horarios"":[{""dia"":2,""inicio"":""08:00"",""fim"":""10:00""}]}]"
GAC124,Circuitos,4,obrigatoria,3,,"strong: GCC100","[{""id"":""01A"",""slots"":[{""weekday"":""Seg"",""start"":10,""end"":12}]}]"
GAN001,Topicos ANP,2,eletiva,,grupo-a,,"[{""id"":""10A"",""horarios"":[{""dia"":7,""inicio"":8,""fim"":10}]}]"
`

func TestImportNormalizesRows(t *testing.T) {
	importer := NewImporter(100, nil)
	subjects, report, err := importer.Import(strings.NewReader(validCSV))
	require.NoError(t, err)
	require.Len(t, subjects, 3)
	assert.Equal(t, 3, report.Imported)
	assert.Empty(t, report.Errors)

	first := subjects[0]
	assert.Equal(t, "GCC100", first.Code)
	assert.Equal(t, models.SubjectRequired, first.Kind)
	assert.Equal(t, 1, first.TermIndex)
	require.Len(t, first.Sections, 1)
	require.Len(t, first.Sections[0].TimeSlots, 1)
	assert.Equal(t, models.TimeSlot{Weekday: models.Tuesday, StartHour: 8, EndHour: 10},
		first.Sections[0].TimeSlots[0], "numeric day and HH:MM hours normalize at load")

	second := subjects[1]
	assert.Equal(t, []string{"GCC100"}, second.Prerequisites.Strong)
	assert.Equal(t, models.TimeSlot{Weekday: models.Monday, StartHour: 10, EndHour: 12},
		second.Sections[0].TimeSlots[0], "day names resolve too")

	third := subjects[2]
	assert.Equal(t, models.SubjectElective, third.Kind)
	assert.Equal(t, "grupo-a", third.Subgroup)
	assert.Equal(t, models.Saturday, third.Sections[0].TimeSlots[0].Weekday, "7 maps to Saturday")
	assert.True(t, third.Sections[0].SaturdayOnly())
}

func TestImportRejectsOverlappingSeverities(t *testing.T) {
	csv := "codigo,nome,creditos,prerequisitos\n" +
		"GCC200,Estruturas,4,\"strong: GCC100; minimum: GCC100\"\n"
	importer := NewImporter(100, nil)
	subjects, report, err := importer.Import(strings.NewReader(csv))
	require.Error(t, err)
	assert.Nil(t, subjects)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, "GCC200", report.Errors[0].Code)
	assert.Equal(t, errors.ErrImportRejected.Code, errors.FromError(err).Code)
}

func TestImportRejectsDuplicatesAndBadRows(t *testing.T) {
	csv := "codigo,nome,creditos\n" +
		"GCC100,Algoritmos,4\n" +
		"GCC100,Algoritmos de novo,4\n" +
		",Sem codigo,2\n" +
		"GCC300,Creditos ruins,abc\n"
	importer := NewImporter(100, nil)
	subjects, report, err := importer.Import(strings.NewReader(csv))
	require.Error(t, err)
	assert.Nil(t, subjects)
	assert.Equal(t, 4, report.Rows)
	assert.Len(t, report.Errors, 3)
}

func TestImportEnforcesRowLimit(t *testing.T) {
	var b strings.Builder
	b.WriteString("codigo,nome,creditos\n")
	b.WriteString("GCC001,Um,4\n")
	b.WriteString("GCC002,Dois,4\n")
	b.WriteString("GCC003,Tres,4\n")

	importer := NewImporter(2, nil)
	_, _, err := importer.Import(strings.NewReader(b.String()))
	require.Error(t, err)
	assert.Equal(t, errors.ErrValidation.Code, errors.FromError(err).Code)
}

func TestImportRejectsMissingCodeColumn(t *testing.T) {
	importer := NewImporter(100, nil)
	_, _, err := importer.Import(strings.NewReader("nome,creditos\nAlgoritmos,4\n"))
	require.Error(t, err)
	assert.Equal(t, errors.ErrValidation.Code, errors.FromError(err).Code)
}
