package watch

import (
	"fmt"
	"os"
	"time"

	"github.com/penwyp/go-career-timeline/internal/core/model"
	"gopkg.in/yaml.v3"
)

// Config controls a rendering session
type Config struct {
	// Record sources: files, directories, "-" for stdin or http(s) URLs
	Inputs []string `yaml:"inputs"`

	// Categories to keep; empty keeps all
	Categories []string `yaml:"categories"`

	// Display settings
	Timezone       string  `yaml:"timezone"`
	ColumnWidth    float64 `yaml:"column_width"` // 0 picks by viewport
	ViewportWidth  float64 `yaml:"viewport_width"` // 0 uses the terminal width
	LeadingPadding float64 `yaml:"leading_padding"`
	Output         string  `yaml:"output"`

	// Refresh settings
	MonthCheckInterval time.Duration `yaml:"month_check_interval"`
	FetchInterval      time.Duration `yaml:"fetch_interval"` // 0 disables periodic re-fetch

	// Performance settings
	Concurrency int `yaml:"concurrency"`
}

// Validate fills defaults and rejects unusable values
func (c *Config) Validate() error {
	if c.Timezone == "" {
		c.Timezone = "Local"
	}
	if c.Output == "" {
		c.Output = "chart"
	}
	if c.MonthCheckInterval == 0 {
		c.MonthCheckInterval = time.Minute
	}
	if c.Concurrency == 0 {
		c.Concurrency = 4
	}
	if c.ColumnWidth < 0 {
		return fmt.Errorf("column width must not be negative: %v", c.ColumnWidth)
	}
	if c.ViewportWidth < 0 {
		return fmt.Errorf("viewport width must not be negative: %v", c.ViewportWidth)
	}
	if c.LeadingPadding < 0 {
		return fmt.Errorf("leading padding must not be negative: %v", c.LeadingPadding)
	}
	if c.MonthCheckInterval < 0 || c.FetchInterval < 0 {
		return fmt.Errorf("refresh intervals must not be negative")
	}
	if _, err := c.ParsedCategories(); err != nil {
		return err
	}
	return nil
}

// ParsedCategories converts the category names. "all" keeps every category.
func (c *Config) ParsedCategories() ([]model.Category, error) {
	var cats []model.Category
	for _, name := range c.Categories {
		if name == "" || name == "all" {
			return nil, nil
		}
		cat, err := model.ParseCategory(name)
		if err != nil {
			return nil, err
		}
		cats = append(cats, cat)
	}
	return cats, nil
}

// LoadConfigFile overlays the YAML file at path onto cfg. Fields absent from
// the file keep their current values.
func LoadConfigFile(path string, cfg *Config) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("error parsing config file: %w", err)
	}
	return nil
}
