package model

import (
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"gopkg.in/yaml.v3"
)

// RecordSet is one fetch result from the content service
type RecordSet struct {
	Experiences  []WorkRecord      `json:"experiences" yaml:"experiences"`
	Volunteering []VolunteerRecord `json:"volunteering" yaml:"volunteering"`
}

// Len returns the number of top-level records
func (rs RecordSet) Len() int {
	return len(rs.Experiences) + len(rs.Volunteering)
}

// Merge appends the records of other, keeping order
func (rs RecordSet) Merge(other RecordSet) RecordSet {
	return RecordSet{
		Experiences:  append(append([]WorkRecord{}, rs.Experiences...), other.Experiences...),
		Volunteering: append(append([]VolunteerRecord{}, rs.Volunteering...), other.Volunteering...),
	}
}

// WorkRecord is a company with one or more roles held there
type WorkRecord struct {
	Company      string         `json:"company" yaml:"company"`
	Logo         string         `json:"logo,omitempty" yaml:"logo,omitempty"`
	Description  string         `json:"description,omitempty" yaml:"description,omitempty"`
	Technologies FlexibleList   `json:"technologies,omitempty" yaml:"technologies,omitempty"`
	Positions    []WorkPosition `json:"positions" yaml:"positions"`
}

// WorkPosition is one role held at a company. A nil EndDate means ongoing.
type WorkPosition struct {
	Title     string  `json:"title" yaml:"title"`
	StartDate string  `json:"start_date" yaml:"start_date"`
	EndDate   *string `json:"end_date,omitempty" yaml:"end_date,omitempty"`
}

// VolunteerRecord is an organisation with one or more volunteer roles
type VolunteerRecord struct {
	Organisation     string          `json:"organisation" yaml:"organisation"`
	OrganisationLogo string          `json:"organisation_logo,omitempty" yaml:"organisation_logo,omitempty"`
	Description      string          `json:"description,omitempty" yaml:"description,omitempty"`
	Skills           FlexibleList    `json:"skills,omitempty" yaml:"skills,omitempty"`
	Roles            []VolunteerRole `json:"roles" yaml:"roles"`
}

// VolunteerRole is one role held at an organisation. A nil EndDate means ongoing.
type VolunteerRole struct {
	Role      string  `json:"role" yaml:"role"`
	StartDate string  `json:"start_date" yaml:"start_date"`
	EndDate   *string `json:"end_date,omitempty" yaml:"end_date,omitempty"`
}

// FlexibleList accepts either a list of strings or a single comma-separated string
type FlexibleList []string

func (fl *FlexibleList) UnmarshalJSON(data []byte) error {
	var items []string
	if err := sonic.Unmarshal(data, &items); err == nil {
		*fl = cleanList(items)
		return nil
	}

	var str string
	if err := sonic.Unmarshal(data, &str); err == nil {
		*fl = splitList(str)
		return nil
	}

	return fmt.Errorf("list must be either a string or an array of strings")
}

func (fl *FlexibleList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var items []string
		if err := node.Decode(&items); err != nil {
			return err
		}
		*fl = cleanList(items)
		return nil
	case yaml.ScalarNode:
		*fl = splitList(node.Value)
		return nil
	default:
		return fmt.Errorf("line %d: list must be either a string or a sequence of strings", node.Line)
	}
}

func splitList(s string) FlexibleList {
	return cleanList(strings.Split(s, ","))
}

func cleanList(items []string) FlexibleList {
	out := make(FlexibleList, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
