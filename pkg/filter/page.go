package filter

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Order sorts by one field.
type Order struct {
	Field string
	Desc  bool
}

// Page selects a zero-based page. A Size of zero or less disables paging.
type Page struct {
	Page int
	Size int
	Sort []Order
}

func (p Page) Offset() int {
	if p.Size <= 0 || p.Page <= 0 {
		return 0
	}
	return p.Page * p.Size
}

func (p Page) Paged() bool {
	return p.Size > 0
}

// ParsePage reads page, size and repeated sort=field[,asc|desc] parameters.
func ParsePage(q url.Values, defaultSize, maxSize int) (Page, error) {
	p := Page{Size: defaultSize}

	if raw := q.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return Page{}, fmt.Errorf("%w: page=%q", ErrInvalidParam, raw)
		}
		p.Page = n
	}
	if raw := q.Get("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return Page{}, fmt.Errorf("%w: size=%q", ErrInvalidParam, raw)
		}
		p.Size = min(n, maxSize)
	}

	for _, raw := range q["sort"] {
		parts := strings.Split(raw, ",")
		field := strings.TrimSpace(parts[0])
		if field == "" {
			return Page{}, fmt.Errorf("%w: sort=%q", ErrInvalidParam, raw)
		}
		o := Order{Field: field}
		if len(parts) > 1 {
			switch strings.ToLower(strings.TrimSpace(parts[1])) {
			case "asc":
			case "desc":
				o.Desc = true
			default:
				return Page{}, fmt.Errorf("%w: sort=%q", ErrInvalidParam, raw)
			}
		}
		p.Sort = append(p.Sort, o)
	}
	return p, nil
}

// OrderBy renders an ORDER BY clause. tieBreak is appended so that paging is
// stable; an empty sort orders by tieBreak alone.
func OrderBy(sort []Order, cols Columns, tieBreak string) (string, error) {
	terms := make([]string, 0, len(sort)+1)
	for _, o := range sort {
		col, ok := cols[o.Field]
		if !ok || col.Join != "" {
			return "", fmt.Errorf("%w: cannot sort by %s", ErrUnknownField, o.Field)
		}
		dir := "ASC"
		if o.Desc {
			dir = "DESC"
		}
		terms = append(terms, col.Expr+" "+dir)
	}
	if tieBreak != "" {
		terms = append(terms, tieBreak+" ASC")
	}
	if len(terms) == 0 {
		return "", nil
	}
	return " ORDER BY " + strings.Join(terms, ", "), nil
}

// Limit renders LIMIT/OFFSET for a paged request.
func Limit(p Page) string {
	if !p.Paged() {
		return ""
	}
	return fmt.Sprintf(" LIMIT %d OFFSET %d", p.Size, p.Offset())
}
