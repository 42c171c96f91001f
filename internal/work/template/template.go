// Package template expands an asset type's markdown maintenance template into
// work areas and work items. The grammar is two levels deep: a heading line
// carrying the "Area:" label opens a group, bullet lines below it become the
// group's items. Everything else is ignored.
package template

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/chrisstorey/community-building-manager/internal/work/models"
)

// MalformedTemplateError reports a structural defect in the template text. It
// indicates a content problem, not a transient fault, so callers surface it as
// a validation failure rather than retrying.
type MalformedTemplateError struct {
	Line   int
	Reason string
}

func (e *MalformedTemplateError) Error() string {
	return fmt.Sprintf("malformed template at line %d: %s", e.Line, e.Reason)
}

// AreaGroup is one expanded work area together with its ordered items.
type AreaGroup struct {
	Area  models.WorkArea
	Items []models.WorkItem
}

// areaLabel is the literal that distinguishes an area heading from ordinary
// markdown headings, as in "## Area: Roof".
const areaLabel = "Area:"

type parsedArea struct {
	statement string
	items     []string
}

// parse splits the template into (area statement, item statements) groups.
//
// Grammar, line by line after trimming surrounding whitespace:
//   - one or more '#' then optional whitespace then "Area:" opens a group;
//     the remainder is the area statement
//   - '-', '*' or '+' followed by whitespace and non-empty text appends an
//     item to the open group
//   - blank lines and anything else are ignored
//
// An item line with no open group is the single structural error. A template
// with no recognizable headings at all parses to zero groups; an asset type
// may legitimately have no maintenance checklist.
func parse(text string) ([]parsedArea, error) {
	var areas []parsedArea

	for i, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if statement, ok := matchAreaHeading(line); ok {
			areas = append(areas, parsedArea{statement: statement})
			continue
		}

		if statement, ok := matchItem(line); ok {
			if len(areas) == 0 {
				return nil, &MalformedTemplateError{
					Line:   i + 1,
					Reason: "item line appears before any area heading",
				}
			}
			current := &areas[len(areas)-1]
			current.items = append(current.items, statement)
		}
		// Neither pattern: tolerated and skipped.
	}

	return areas, nil
}

// matchAreaHeading reports whether line is an area heading and returns the
// trimmed statement text after the "Area:" label.
func matchAreaHeading(line string) (string, bool) {
	if !strings.HasPrefix(line, "#") {
		return "", false
	}
	rest := strings.TrimLeft(line, "#")
	rest = strings.TrimLeft(rest, " \t")
	if !strings.HasPrefix(rest, areaLabel) {
		return "", false
	}
	return strings.TrimSpace(rest[len(areaLabel):]), true
}

// matchItem reports whether line is a bullet item and returns the trimmed
// statement text. The marker must be followed by whitespace and non-empty
// text; "---" or "*emphasis*" are not items.
func matchItem(line string) (string, bool) {
	if len(line) < 2 {
		return "", false
	}
	switch line[0] {
	case '-', '*', '+':
	default:
		return "", false
	}
	if line[1] != ' ' && line[1] != '\t' {
		return "", false
	}
	statement := strings.TrimSpace(line[2:])
	if statement == "" {
		return "", false
	}
	return statement, true
}

// Validate checks templateText for structural defects without materializing
// anything. Used when an asset type is defined so bad templates are rejected
// before they are ever attached.
func Validate(templateText string) error {
	_, err := parse(templateText)
	return err
}

// Expand parses templateText and materializes one WorkArea per area heading
// and one WorkItem per bullet line, bound to the given asset instance.
//
// Expansion is a pure function of the text apart from identity: the same
// template always yields the same statements in the same order, but every
// invocation mints fresh ids. Positions are 1-based and follow source order.
// Persisting the result is the caller's job; it should happen in a single
// transaction so a failure leaves no partial areas or items behind.
func Expand(templateText string, assetID uuid.UUID, now time.Time) ([]AreaGroup, error) {
	parsed, err := parse(templateText)
	if err != nil {
		return nil, err
	}

	groups := make([]AreaGroup, 0, len(parsed))
	for areaIdx, pa := range parsed {
		area := models.WorkArea{
			ID:         uuid.New(),
			AssetID:    assetID,
			Statement:  pa.statement,
			IsRelevant: true,
			Position:   areaIdx + 1,
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		items := make([]models.WorkItem, 0, len(pa.items))
		for itemIdx, statement := range pa.items {
			items = append(items, models.WorkItem{
				ID:         uuid.New(),
				WorkAreaID: area.ID,
				Statement:  statement,
				Position:   itemIdx + 1,
				CreatedAt:  now,
				UpdatedAt:  now,
			})
		}

		groups = append(groups, AreaGroup{Area: area, Items: items})
	}

	return groups, nil
}
