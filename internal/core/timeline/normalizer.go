package timeline

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/penwyp/go-career-timeline/internal/core/model"
	"github.com/penwyp/go-career-timeline/internal/util"
)

// entryNamespace seeds the name-based UUIDs that identify entries across fetches
var entryNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("go-career-timeline/entry"))

// End-date literals that mean "still going"
var ongoingLiterals = map[string]bool{
	"present": true,
	"current": true,
	"now":     true,
	"ongoing": true,
}

// Normalizer flattens work and volunteer records into TimelineEntry values
type Normalizer struct{}

// NewNormalizer creates a new normalizer
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// rawPosition is the shape both record kinds reduce to before date parsing
type rawPosition struct {
	title string
	start string
	end   *string
}

type rawEntity struct {
	category     model.Category
	name         string
	logo         string
	description  string
	technologies []string
	positions    []rawPosition
}

// Normalize emits one entry per nested position, most recent start first.
// Positions with a missing or unparsable start date are logged and skipped.
func (n *Normalizer) Normalize(set model.RecordSet) []model.TimelineEntry {
	entities := make([]rawEntity, 0, set.Len())

	for _, rec := range set.Experiences {
		positions := make([]rawPosition, 0, len(rec.Positions))
		for _, p := range rec.Positions {
			positions = append(positions, rawPosition{title: p.Title, start: p.StartDate, end: p.EndDate})
		}
		entities = append(entities, rawEntity{
			category:     model.CategoryWork,
			name:         rec.Company,
			logo:         rec.Logo,
			description:  rec.Description,
			technologies: rec.Technologies,
			positions:    positions,
		})
	}

	for _, rec := range set.Volunteering {
		positions := make([]rawPosition, 0, len(rec.Roles))
		for _, r := range rec.Roles {
			positions = append(positions, rawPosition{title: r.Role, start: r.StartDate, end: r.EndDate})
		}
		entities = append(entities, rawEntity{
			category:     model.CategoryVolunteer,
			name:         rec.Organisation,
			logo:         rec.OrganisationLogo,
			description:  rec.Description,
			technologies: rec.Skills,
			positions:    positions,
		})
	}

	var entries []model.TimelineEntry
	dropped := 0

	for ei, ent := range entities {
		for pi, pos := range ent.positions {
			start, err := util.ParseCalendarDate(pos.start)
			if err != nil {
				dropped++
				util.LogWarn("Dropping timeline position with invalid start date",
					util.F("category", ent.category),
					util.F("entity", ent.name),
					util.F("title", pos.title),
					util.F("start_date", pos.start),
					util.F("error", err))
				continue
			}

			entries = append(entries, model.TimelineEntry{
				ID:            entryID(ent.category, ent.name, pos.title, start, ei, pi),
				Category:      ent.category,
				EntityName:    ent.name,
				LogoRef:       strings.TrimSpace(ent.logo),
				PositionTitle: pos.title,
				StartDate:     start,
				EndDate:       parseEndDate(ent, pos),
				Description:   ent.description,
				Technologies:  copyStrings(ent.technologies),
			})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].StartDate.After(entries[j].StartDate)
	})

	util.LogDebugf("Normalized %d records into %d timeline entries (%d dropped)", len(entities), len(entries), dropped)
	return entries
}

// parseEndDate maps a missing, blank or "present" end to nil (ongoing).
// An unparsable end is logged and also treated as ongoing; clamping happens at layout time.
func parseEndDate(ent rawEntity, pos rawPosition) *time.Time {
	if pos.end == nil {
		return nil
	}
	raw := strings.TrimSpace(*pos.end)
	if raw == "" || ongoingLiterals[strings.ToLower(raw)] {
		return nil
	}

	end, err := util.ParseCalendarDate(raw)
	if err != nil {
		util.LogWarn("Treating unparsable end date as ongoing",
			util.F("entity", ent.name),
			util.F("title", pos.title),
			util.F("end_date", raw))
		return nil
	}
	return &end
}

func entryID(category model.Category, entity, title string, start time.Time, entityIdx, positionIdx int) string {
	name := fmt.Sprintf("%s|%s|%s|%s|%d|%d", category, entity, title, start.Format("2006-01-02"), entityIdx, positionIdx)
	return uuid.NewSHA1(entryNamespace, []byte(name)).String()
}

func copyStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// FilterByCategory keeps entries whose category is in categories. No categories keeps all.
func FilterByCategory(entries []model.TimelineEntry, categories ...model.Category) []model.TimelineEntry {
	if len(categories) == 0 {
		return entries
	}
	keep := make(map[model.Category]bool, len(categories))
	for _, c := range categories {
		keep[c] = true
	}

	filtered := make([]model.TimelineEntry, 0, len(entries))
	for _, e := range entries {
		if keep[e.Category] {
			filtered = append(filtered, e)
		}
	}
	return filtered
}
