package base

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/Tunhoclaptrinh/Sen-App/pkg/resource"
)

// FlagSet wraps flag.FlagSet with help text rendering.
type FlagSet struct {
	*flag.FlagSet
}

// NewFlagSet wraps f. Parse errors are returned rather than printed.
func NewFlagSet(f *flag.FlagSet) *FlagSet {
	f.SetOutput(io.Discard)
	return &FlagSet{FlagSet: f}
}

// Help renders the flags as an indented options list.
func (f *FlagSet) Help() string {
	var buf bytes.Buffer
	buf.WriteString("\n\nOptions:\n")
	f.VisitAll(func(fl *flag.Flag) {
		name, usage := flag.UnquoteUsage(fl)
		fmt.Fprintf(&buf, "\n  -%s", fl.Name)
		if name != "" {
			fmt.Fprintf(&buf, "=<%s>", name)
		}
		fmt.Fprintf(&buf, "\n      %s", usage)
		if fl.DefValue != "" && fl.DefValue != "0" && fl.DefValue != "false" {
			fmt.Fprintf(&buf, " Default: %s.", fl.DefValue)
		}
		buf.WriteString("\n")
	})
	return buf.String()
}

// StringSlice is a repeatable string flag. Values may also be comma
// separated.
type StringSlice []string

func (s *StringSlice) String() string {
	return strings.Join(*s, ",")
}

func (s *StringSlice) Set(value string) error {
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			*s = append(*s, v)
		}
	}
	return nil
}

// KeyValues is a repeatable key=value flag.
type KeyValues []string

func (kv *KeyValues) String() string {
	return strings.Join(*kv, " ")
}

func (kv *KeyValues) Set(value string) error {
	if !strings.Contains(value, "=") {
		return fmt.Errorf("expected key=value, got %q", value)
	}
	*kv = append(*kv, value)
	return nil
}

// Map returns the pairs as a map. Later pairs win.
func (kv KeyValues) Map() map[string]any {
	out := make(map[string]any, len(kv))
	for _, pair := range kv {
		key, value, _ := strings.Cut(pair, "=")
		out[strings.TrimSpace(key)] = value
	}
	return out
}

// QueryFlags holds the list options shared by list, search and count.
type QueryFlags struct {
	Page    int
	Limit   int
	Sort    string
	Order   string
	Filters KeyValues
}

// Register adds the query flags to f.
func (q *QueryFlags) Register(f *FlagSet) {
	f.IntVar(&q.Page, "page", 0, "Page number, starting at 1")
	f.IntVar(&q.Limit, "limit", 0, "Items per page")
	f.StringVar(&q.Sort, "sort", "", "Field to sort by")
	f.StringVar(&q.Order, "order", "", "Sort order: asc or desc")
	f.Var(&q.Filters, "filter",
		"Filter as key=value, e.g. price_gte=50000. Can be repeated")
}

// Query builds a resource.Query from the flags. Unset options are omitted.
func (q *QueryFlags) Query() (resource.Query, error) {
	query := resource.NewQuery()
	if q.Page > 0 {
		query.Page(q.Page)
	}
	if q.Limit > 0 {
		query.Limit(q.Limit)
	}
	if q.Sort != "" {
		query.Sort(q.Sort)
	}
	switch strings.ToLower(q.Order) {
	case "":
	case resource.OrderAsc, resource.OrderDesc:
		query.Order(strings.ToLower(q.Order))
	default:
		return nil, fmt.Errorf("order must be asc or desc, got %q", q.Order)
	}
	return query.Merge(q.Filters.Map()), nil
}
