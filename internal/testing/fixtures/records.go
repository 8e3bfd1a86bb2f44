package fixtures

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-career-timeline/internal/core/model"
	"gopkg.in/yaml.v3"
)

// TestDataGenerator writes record sets to disk for tests
type TestDataGenerator struct {
	baseDir string
}

// NewTestDataGenerator creates a new test data generator
func NewTestDataGenerator(baseDir string) *TestDataGenerator {
	return &TestDataGenerator{
		baseDir: baseDir,
	}
}

// SampleRecordSet has one ongoing role, one finished role at the same
// company, and a short volunteer role
func SampleRecordSet() model.RecordSet {
	return model.RecordSet{
		Experiences: []model.WorkRecord{{
			Company:      "Acme",
			Technologies: model.FlexibleList{"Go", "Postgres"},
			Positions: []model.WorkPosition{
				{Title: "Engineer", StartDate: "2023-01", EndDate: ptr("2023-12")},
				{Title: "Lead", StartDate: "2024-01", EndDate: ptr("present")},
			},
		}},
		Volunteering: []model.VolunteerRecord{{
			Organisation: "Code Club",
			Roles: []model.VolunteerRole{
				{Role: "Mentor", StartDate: "2023-06", EndDate: ptr("2023-08")},
			},
		}},
	}
}

// LargeRecordSet builds companies back to back from start, each with a
// one-year role. The last role is ongoing.
func LargeRecordSet(start time.Time, companies int) model.RecordSet {
	var set model.RecordSet
	for i := 0; i < companies; i++ {
		from := start.AddDate(i, 0, 0)
		pos := model.WorkPosition{Title: "Engineer", StartDate: from.Format("2006-01")}
		if i < companies-1 {
			pos.EndDate = ptr(from.AddDate(0, 11, 0).Format("2006-01"))
		}
		set.Experiences = append(set.Experiences, model.WorkRecord{
			Company:   fmt.Sprintf("Company %02d", i+1),
			Positions: []model.WorkPosition{pos},
		})
	}
	return set
}

// WriteJSON writes set as JSON and returns the file path
func (g *TestDataGenerator) WriteJSON(filename string, set model.RecordSet) (string, error) {
	data, err := sonic.ConfigStd.MarshalIndent(set, "", "  ")
	if err != nil {
		return "", err
	}
	return g.write(filename, data)
}

// WriteYAML writes set as YAML and returns the file path
func (g *TestDataGenerator) WriteYAML(filename string, set model.RecordSet) (string, error) {
	data, err := yaml.Marshal(set)
	if err != nil {
		return "", err
	}
	return g.write(filename, data)
}

// WriteRaw writes arbitrary content, for malformed input cases
func (g *TestDataGenerator) WriteRaw(filename, content string) (string, error) {
	return g.write(filename, []byte(content))
}

func (g *TestDataGenerator) write(filename string, data []byte) (string, error) {
	path := filepath.Join(g.baseDir, filename)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

// GetBaseDir returns the directory files are written to
func (g *TestDataGenerator) GetBaseDir() string {
	return g.baseDir
}

func ptr(s string) *string { return &s }
