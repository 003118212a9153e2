package inventory

import (
	"math"
	"strings"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100

	// MaxPage keeps (page-1)*size well inside an int32 offset.
	MaxPage = math.MaxInt32 / MaxPageSize
)

type PageRequest struct {
	Page      int
	Size      int
	SortBy    string
	SortOrder string
}

func (p PageRequest) normalized() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	if p.Size < 1 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

func (p PageRequest) offset() int {
	return (p.Page - 1) * p.Size
}

type Page[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Size  int   `json:"size"`
}

// sortSpec is an allow-list of sortable columns keyed by the public field name.
type sortSpec struct {
	columns  map[string]string
	fallback string
}

// order builds an ORDER BY clause. Unknown fields fall back to the default
// column; anything but "asc" sorts descending. id breaks ties.
func (s sortSpec) order(by, direction string) string {
	col, ok := s.columns[strings.ToLower(strings.TrimSpace(by))]
	if !ok {
		col = s.columns[s.fallback]
	}
	dir := "DESC"
	if strings.EqualFold(strings.TrimSpace(direction), "asc") {
		dir = "ASC"
	}
	return col + " " + dir + ", id " + dir
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// searchClause ORs a case-insensitive literal substring match across cols.
func searchClause(term string, cols ...string) (string, []any) {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(term))) + "%"
	parts := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, c := range cols {
		parts[i] = "LOWER(" + c + `) LIKE ? ESCAPE '\'`
		args[i] = pattern
	}
	return "(" + strings.Join(parts, " OR ") + ")", args
}
