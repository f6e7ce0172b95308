package domain

import (
	"fmt"
	"strings"
)

// SortOrder is a validated sort direction
type SortOrder string

const (
	SortAsc  SortOrder = "ASC"
	SortDesc SortOrder = "DESC"
)

// ParseSortOrder parses "asc"/"desc" case-insensitively.
// An empty value defaults to ascending; anything else is ErrInvalidInput.
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc":
		return SortAsc, nil
	case "desc":
		return SortDesc, nil
	default:
		return "", fmt.Errorf("%w: unknown sort direction %q", ErrInvalidInput, s)
	}
}

// sortableColumns whitelists the columns a Filter may sort by
var sortableColumns = map[string]string{
	"id":                "id",
	"name":              "name",
	"description":       "description",
	"quantity":          "quantity",
	"minimal_threshold": "minimal_threshold",
	"minimalThreshold":  "minimal_threshold",
	"category_id":       "category_id",
	"categoryId":        "category_id",
	"user_id":           "user_id",
	"userId":            "user_id",
	"created_at":        "created_at",
	"updated_at":        "updated_at",
}

// SortColumn resolves a caller-supplied sort key to a column name.
// An empty key defaults to id; unknown keys are ErrInvalidInput.
func SortColumn(key string) (string, error) {
	if key == "" {
		return "id", nil
	}
	column, ok := sortableColumns[key]
	if !ok {
		return "", fmt.Errorf("%w: unknown sort field %q", ErrInvalidInput, key)
	}
	return column, nil
}

// Filter describes an optional conjunction of product predicates plus a sort key.
// Empty string fields and nil pointers are omitted from the query entirely.
type Filter struct {
	Name        string
	Description string
	Quantity    *int
	CategoryID  *int64
	UserID      *int64
	SortBy      string
	Order       SortOrder
}
