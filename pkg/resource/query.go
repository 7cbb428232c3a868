package resource

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/mitchellh/mapstructure"
)

// Recognized query keys and the backend parameters they are renamed to.
const (
	KeyPage  = "page"
	KeyLimit = "limit"
	KeySort  = "sort"
	KeyOrder = "order"

	ParamPage   = "_page"
	ParamLimit  = "_limit"
	ParamSort   = "_sort"
	ParamOrder  = "_order"
	ParamEmbed  = "_embed"
	ParamExpand = "_expand"
	ParamSearch = "q"
)

// Sort orders accepted by the backend.
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// FilterOperator is a comparison suffix appended to a field name. The backend
// interprets it; this package only builds the composite key.
type FilterOperator string

const (
	OpGte  FilterOperator = "gte"
	OpLte  FilterOperator = "lte"
	OpNe   FilterOperator = "ne"
	OpLike FilterOperator = "like"
	OpIn   FilterOperator = "in"
)

// FilterKey returns the composite filter key, e.g. FilterKey("price", OpGte)
// is "price_gte".
func FilterKey(field string, op FilterOperator) string {
	return field + "_" + string(op)
}

var renames = map[string]string{
	KeyPage:  ParamPage,
	KeyLimit: ParamLimit,
	KeySort:  ParamSort,
	KeyOrder: ParamOrder,
}

// Query is the caller-facing query: page, limit, sort and order plus any
// number of filter, search or relation keys.
type Query map[string]any

// NormalizedQuery is the flat parameter map sent to the backend.
type NormalizedQuery map[string]any

// NewQuery returns an empty query ready for chaining.
func NewQuery() Query {
	return Query{}
}

// Page sets the 1-based page number.
func (q Query) Page(page int) Query {
	q[KeyPage] = page
	return q
}

// Limit sets the page size.
func (q Query) Limit(limit int) Query {
	q[KeyLimit] = limit
	return q
}

// Sort sets the sort field.
func (q Query) Sort(field string) Query {
	q[KeySort] = field
	return q
}

// Order sets the sort direction, OrderAsc or OrderDesc.
func (q Query) Order(order string) Query {
	q[KeyOrder] = order
	return q
}

// Where sets an arbitrary filter key.
func (q Query) Where(key string, value any) Query {
	q[key] = value
	return q
}

// WhereOp sets a filter key built from a field and an operator.
func (q Query) WhereOp(field string, op FilterOperator, value any) Query {
	q[FilterKey(field, op)] = value
	return q
}

// Clone returns a shallow copy of q. Cloning a nil query yields an empty one.
func (q Query) Clone() Query {
	out := make(Query, len(q))
	for k, v := range q {
		out[k] = v
	}
	return out
}

// Merge returns a new query holding the keys of q overlaid with the keys of
// each other query in order. Later maps win on collision.
func (q Query) Merge(others ...map[string]any) Query {
	out := q.Clone()
	for _, o := range others {
		for k, v := range o {
			out[k] = v
		}
	}
	return out
}

// Normalize converts a query into the backend's parameter vocabulary. The
// recognized keys are renamed, every other key is copied through, and nil
// values are dropped. A nil query yields an empty map.
func Normalize(q Query) NormalizedQuery {
	normalized := NormalizedQuery{}
	if q == nil {
		return normalized
	}

	for key, wire := range renames {
		if v, ok := q[key]; ok && !isNil(v) {
			normalized[wire] = v
		}
	}

	// Pass-through keys are applied after the renames, so an explicit wire
	// key such as "_page" overrides "page".
	for key, v := range q {
		if _, recognized := renames[key]; recognized {
			continue
		}
		if isNil(v) {
			continue
		}
		normalized[key] = v
	}

	return normalized
}

// isNil reports whether v is nil or a typed nil pointer, map, slice,
// interface, func or channel.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// Relations lists the related sub-resources to inline into a response.
type Relations struct {
	// Embed inlines child collections (e.g. "reviews").
	Embed []string
	// Expand resolves foreign keys into their parent resource (e.g. "heritage").
	Expand []string
}

// Params returns the _embed and _expand parameters, comma-joined. Empty lists
// produce no parameter.
func (r Relations) Params() NormalizedQuery {
	params := NormalizedQuery{}
	if embed := joinNonEmpty(r.Embed); embed != "" {
		params[ParamEmbed] = embed
	}
	if expand := joinNonEmpty(r.Expand); expand != "" {
		params[ParamExpand] = expand
	}
	return params
}

func joinNonEmpty(values []string) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, ",")
}

// QueryFromStruct converts a typed filter struct into a Query. Field names
// are taken from the `query` struct tag; untagged fields use the lowerCamel
// form of the Go field name. Nil pointer fields are kept as nil values and
// therefore dropped by Normalize.
//
//	type productFilter struct {
//	    MinPrice *int   `query:"price_gte"`
//	    Name     string `query:"name_like,omitempty"`
//	}
func QueryFromStruct(v any) (Query, error) {
	if v == nil {
		return Query{}, nil
	}

	rv := reflect.Indirect(reflect.ValueOf(v))
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("query source must be a struct, got %s", rv.Kind())
	}

	raw := map[string]any{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "query",
		Result:  &raw,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create query decoder: %w", err)
	}
	if err := decoder.Decode(rv.Interface()); err != nil {
		return nil, fmt.Errorf("failed to decode query struct: %w", err)
	}

	// mapstructure keeps Go field names for untagged fields.
	tagged := taggedNames(rv.Type())
	q := make(Query, len(raw))
	for k, val := range raw {
		if !tagged[k] {
			k = strcase.ToLowerCamel(k)
		}
		q[k] = val
	}
	return q, nil
}

func taggedNames(t reflect.Type) map[string]bool {
	names := map[string]bool{}
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("query")
		if name, _, _ := strings.Cut(tag, ","); name != "" && name != "-" {
			names[name] = true
		}
	}
	return names
}
