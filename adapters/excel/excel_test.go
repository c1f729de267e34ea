package excel

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"mincerdash/adapters/stats/describe"
	"mincerdash/domain/wage"
	"mincerdash/internal/generator"
	"mincerdash/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeWorkbook_Sheets(t *testing.T) {
	view := testkit.View(testkit.Observations(37, 2, testkit.DefaultParams()))
	data, err := ComposeWorkbook(view, describe.Summarize(view))
	require.NoError(t, err)

	sheets, err := ReadWorkbook(data)
	require.NoError(t, err)
	require.Contains(t, sheets, SheetCoreData)
	require.Contains(t, sheets, SheetDescriptive)
	assert.Len(t, sheets, 2)

	core := sheets[SheetCoreData]
	require.Len(t, core, 38)
	assert.Equal(t, CoreDataHeaders, core[0])

	first := view.At(0)
	assert.Equal(t, first.Gender.Label(), core[1][0])
	edu, err := strconv.ParseFloat(core[1][1], 64)
	require.NoError(t, err)
	assert.InDelta(t, first.Education, edu, 0.005)

	desc := sheets[SheetDescriptive]
	require.Len(t, desc, 9)
	assert.Equal(t, []string{"", "education", "experience", "wage", "log_wage"}, desc[0])
	assert.Equal(t, []string{"count", "37", "37", "37", "37"}, desc[1])
	assert.Equal(t, "max", desc[8][0])
}

func TestComposeWorkbook_RoundingAndNaN(t *testing.T) {
	rows := []wage.Observation{
		{Gender: wage.Female, Education: 12.3456, Experience: 3.999, ExperienceSq: 15.992, LogWage: 2.71828, Wage: 15.15426},
	}
	view := testkit.View(rows)
	data, err := ComposeWorkbook(view, describe.Summarize(view))
	require.NoError(t, err)

	sheets, err := ReadWorkbook(data)
	require.NoError(t, err)

	assert.Equal(t, []string{"Female", "12.35", "4", "15.15", "2.72"}, sheets[SheetCoreData][1])

	std := sheets[SheetDescriptive][3]
	assert.Equal(t, []string{"std", "NaN", "NaN", "NaN", "NaN"}, std)
}

func TestComposeWorkbook_EmptyView(t *testing.T) {
	view := testkit.View(nil)
	data, err := ComposeWorkbook(view, describe.Summarize(view))
	require.NoError(t, err)

	sheets, err := ReadWorkbook(data)
	require.NoError(t, err)
	assert.Len(t, sheets[SheetCoreData], 1)
	assert.Equal(t, []string{"mean", "NaN", "NaN", "NaN", "NaN"}, sheets[SheetDescriptive][2])
}

func TestDataReader_RoundTripsGeneratedDataset(t *testing.T) {
	ds, err := generator.Generate(generator.Config{
		Seed: 5, Size: 40, MaleShare: 0.5,
		EducationMean: 12, EducationSD: 2, EducationMin: 6, EducationMax: 20,
		ExperienceMean: 10, ExperienceSD: 5, ExperienceMin: 0, ExperienceMax: 40,
		LogWageLow: 1, LogWageHigh: 5,
	})
	require.NoError(t, err)
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "data.csv")
	f, err := os.Create(csvPath)
	require.NoError(t, err)
	require.NoError(t, generator.WriteCSV(f, ds))
	require.NoError(t, f.Close())

	xlsxPath := filepath.Join(dir, "data.xlsx")
	f, err = os.Create(xlsxPath)
	require.NoError(t, err)
	require.NoError(t, generator.WriteXLSX(f, ds))
	require.NoError(t, f.Close())

	for _, path := range []string{csvPath, xlsxPath} {
		loaded, err := NewDataReader(path).ReadDataset(5)
		require.NoError(t, err, path)
		require.Equal(t, ds.Len(), loaded.Len(), path)

		for i := 0; i < ds.Len(); i++ {
			want, got := ds.At(i), loaded.At(i)
			assert.Equal(t, want.ID, got.ID)
			assert.Equal(t, want.Gender, got.Gender)
			assert.InDelta(t, want.Education, got.Education, 1e-4)
			assert.InDelta(t, want.LogWage, got.LogWage, 1e-4)
		}
	}
}

func TestDataReader_Errors(t *testing.T) {
	_, err := NewDataReader(filepath.Join(t.TempDir(), "missing.csv")).ReadDataset(0)
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(path, []byte("gender,education\nmale,12\n"), 0o644))
	_, err = NewDataReader(path).ReadDataset(0)
	assert.ErrorContains(t, err, "experience")

	require.NoError(t, os.WriteFile(path, []byte("gender,education,experience,log_wage\nother,12,3,2.5\n"), 0o644))
	_, err = NewDataReader(path).ReadDataset(0)
	assert.ErrorContains(t, err, "row 2")
}
