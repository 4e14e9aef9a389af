package tasks

import (
	"strconv"
	"strings"
)

// sortColumns maps the public sort field names to their table columns.
var sortColumns = map[string]string{
	"description": "description",
	"completed":   "completed",
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
}

// ListQuery is the translated form of the task list query parameters:
// an optional completed filter, an optional ORDER BY clause and offset
// pagination. Owner scoping is applied by the repository on top of it.
type ListQuery struct {
	Completed *bool
	OrderBy   string
	Skip      int
	Limit     int
}

// ParseListQuery translates raw query parameters into a ListQuery.
//
// completed: when present, the literal value "true" selects completed tasks
// and any other value selects incomplete ones, matching the behavior the
// API has always had. sortBy: "field_direction" split on the last
// underscore; an unrecognized field silently falls back to unspecified
// order. skip/limit: unparsable or negative values are ignored.
func ParseListQuery(completed, sortBy, skip, limit string) ListQuery {
	var q ListQuery

	if completed != "" {
		value := completed == "true"
		q.Completed = &value
	}

	if sortBy != "" {
		field := sortBy
		direction := "asc"
		if i := strings.LastIndex(sortBy, "_"); i >= 0 {
			field = sortBy[:i]
			if sortBy[i+1:] == "desc" {
				direction = "desc"
			}
		}
		if column, ok := sortColumns[field]; ok {
			q.OrderBy = column + " " + direction
		}
	}

	if n, err := strconv.Atoi(skip); err == nil && n > 0 {
		q.Skip = n
	}

	if n, err := strconv.Atoi(limit); err == nil && n > 0 {
		q.Limit = n
	}

	return q
}
