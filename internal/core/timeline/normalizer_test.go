package timeline

import (
	"testing"
	"time"

	"github.com/penwyp/go-career-timeline/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords() model.RecordSet {
	return model.RecordSet{
		Experiences: []model.WorkRecord{
			{
				Company:      "Acme",
				Logo:         " https://cdn.example.com/acme.png ",
				Description:  "Widgets",
				Technologies: model.FlexibleList{"Go", "SQL"},
				Positions: []model.WorkPosition{
					{Title: "Junior", StartDate: "2019-01", EndDate: strPtr("2020-06")},
					{Title: "Mid", StartDate: "2020-07", EndDate: strPtr("2022-02")},
					{Title: "Senior", StartDate: "2022-03"},
				},
			},
			{
				Company: "Broken Corp",
				Positions: []model.WorkPosition{
					{Title: "Ghost", StartDate: "sometime"},
					{Title: "Empty", StartDate: ""},
				},
			},
		},
		Volunteering: []model.VolunteerRecord{
			{
				Organisation: "Food Bank",
				Skills:       model.FlexibleList{"logistics"},
				Roles: []model.VolunteerRole{
					{Role: "Driver", StartDate: "2021-05-10", EndDate: strPtr("Present")},
				},
			},
		},
	}
}

func TestNormalizeOneEntryPerPosition(t *testing.T) {
	entries := NewNormalizer().Normalize(sampleRecords())

	require.Len(t, entries, 4, "three Acme roles plus one volunteer role; Broken Corp dropped")

	titles := make([]string, len(entries))
	for i, e := range entries {
		titles[i] = e.PositionTitle
	}
	assert.Equal(t, []string{"Senior", "Driver", "Mid", "Junior"}, titles, "sorted by start date, most recent first")
}

func TestNormalizeFields(t *testing.T) {
	entries := NewNormalizer().Normalize(sampleRecords())

	var senior, driver, junior model.TimelineEntry
	for _, e := range entries {
		switch e.PositionTitle {
		case "Senior":
			senior = e
		case "Driver":
			driver = e
		case "Junior":
			junior = e
		}
	}

	assert.Equal(t, model.CategoryWork, senior.Category)
	assert.Equal(t, "Acme", senior.EntityName)
	assert.Equal(t, "https://cdn.example.com/acme.png", senior.LogoRef)
	assert.Equal(t, []string{"Go", "SQL"}, senior.Technologies)
	assert.Equal(t, "Widgets", senior.Description)
	assert.Nil(t, senior.EndDate, "missing end date means ongoing")
	assert.True(t, senior.IsOngoing())

	assert.Equal(t, model.CategoryVolunteer, driver.Category)
	assert.Equal(t, "Food Bank", driver.EntityName)
	assert.Empty(t, driver.LogoRef)
	assert.Nil(t, driver.EndDate, "'Present' end date means ongoing")
	assert.Equal(t, date(2021, time.May, 10), driver.StartDate)

	require.NotNil(t, junior.EndDate)
	assert.Equal(t, date(2020, time.June, 1), *junior.EndDate)
}

func TestNormalizeUnparsableEndIsOngoing(t *testing.T) {
	set := model.RecordSet{Experiences: []model.WorkRecord{{
		Company:   "Acme",
		Positions: []model.WorkPosition{{Title: "Dev", StartDate: "2022-01", EndDate: strPtr("soon")}},
	}}}

	entries := NewNormalizer().Normalize(set)
	require.Len(t, entries, 1)
	assert.Nil(t, entries[0].EndDate)
}

func TestNormalizeStableIDs(t *testing.T) {
	first := NewNormalizer().Normalize(sampleRecords())
	second := NewNormalizer().Normalize(sampleRecords())

	require.Equal(t, len(first), len(second))
	seen := make(map[string]bool)
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.NotEmpty(t, first[i].ID)
		assert.False(t, seen[first[i].ID], "duplicate ID %s", first[i].ID)
		seen[first[i].ID] = true
	}
}

func TestNormalizeDuplicatePositionsKeepDistinctIDs(t *testing.T) {
	pos := model.WorkPosition{Title: "Dev", StartDate: "2022-01"}
	set := model.RecordSet{Experiences: []model.WorkRecord{{Company: "Twin", Positions: []model.WorkPosition{pos, pos}}}}

	entries := NewNormalizer().Normalize(set)
	require.Len(t, entries, 2)
	assert.NotEqual(t, entries[0].ID, entries[1].ID)
}

func TestNormalizeDoesNotAliasTechnologies(t *testing.T) {
	set := sampleRecords()
	entries := NewNormalizer().Normalize(set)

	set.Experiences[0].Technologies[0] = "Rust"
	for _, e := range entries {
		if e.EntityName == "Acme" {
			assert.Equal(t, "Go", e.Technologies[0])
		}
	}
}

func TestNormalizeEmpty(t *testing.T) {
	assert.Empty(t, NewNormalizer().Normalize(model.RecordSet{}))
}

func TestFilterByCategory(t *testing.T) {
	entries := NewNormalizer().Normalize(sampleRecords())

	assert.Len(t, FilterByCategory(entries), 4)
	assert.Len(t, FilterByCategory(entries, model.CategoryWork), 3)

	vol := FilterByCategory(entries, model.CategoryVolunteer)
	require.Len(t, vol, 1)
	assert.Equal(t, "Driver", vol[0].PositionTitle)

	assert.Len(t, FilterByCategory(entries, model.CategoryWork, model.CategoryVolunteer), 4)
}
