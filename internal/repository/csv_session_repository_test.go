package repository

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `ciclo,dia,hora_inicio,hora_fin,asignatura_nombre,profesor_nombre,grupo_nombre,aula_nombre
1,LUNES,08:00,09:30,Cálculo,Ruiz,A,101
2, martes ,10:00,11:30,Física,Paz,B,102
1,Miércoles,11:00,12:30,Química,Soto,A,201
`

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "horario.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCSVSessionRepositoryListByCycle(t *testing.T) {
	repo := NewCSVSessionRepository(writeCSV(t, sampleCSV))

	records, err := repo.ListByCycle(context.Background(), "1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 0, records[0].Position)
	assert.Equal(t, 2, records[1].Position)
	assert.Equal(t, "Miércoles", records[1].DayOfWeek)
	assert.Equal(t, "Química - Soto - A - 201", records[1].Label())

	other, err := repo.ListByCycle(context.Background(), "2")
	require.NoError(t, err)
	require.Len(t, other, 1)
	assert.Equal(t, "martes", other[0].DayOfWeek)

	none, err := repo.ListByCycle(context.Background(), "9")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCSVSessionRepositoryListCycles(t *testing.T) {
	repo := NewCSVSessionRepository(writeCSV(t, sampleCSV))
	cycles, err := repo.ListCycles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, cycles)
}

func TestReadSessionsCSVEnglishHeader(t *testing.T) {
	records, err := ReadSessionsCSV(context.Background(), strings.NewReader(
		"\ufeffCycle,Day,Start_Time,End_Time,Subject,Room\n3,FRIDAY,09:00,09:45,Art,7\n"))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "3", records[0].Cycle)
	assert.Equal(t, "Art - 7", records[0].Label())
}

func TestReadSessionsCSVMissingColumns(t *testing.T) {
	_, err := ReadSessionsCSV(context.Background(), strings.NewReader("ciclo,dia\n1,LUNES\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hora_inicio")
	assert.Contains(t, err.Error(), "hora_fin")

	_, err = ReadSessionsCSV(context.Background(), strings.NewReader(""))
	require.Error(t, err)
}

func TestCSVSessionRepositoryMissingFile(t *testing.T) {
	repo := NewCSVSessionRepository(filepath.Join(t.TempDir(), "absent.csv"))
	_, err := repo.ListCycles(context.Background())
	require.Error(t, err)
}
