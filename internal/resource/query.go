package resource

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Query describes one collection search. Where is serialized as a JSON
// filter in the `where` query parameter; Embedded and Projection control
// which related documents and fields the service returns.
type Query struct {
	Where      map[string]any
	Embedded   map[string]int
	Projection map[string]int
	MaxResults int
	Page       int
	Extra      map[string]string
}

// PrefixQuery builds a case-insensitive, prefix-anchored filter on one field.
func PrefixQuery(field, value string) Query {
	return Query{
		Where: map[string]any{
			field: map[string]any{
				"$regex":   "^" + escapeRegex(value),
				"$options": "i",
			},
		},
	}
}

// Encode renders the query as URL parameters.
func (q Query) Encode() (string, error) {
	params := url.Values{}

	if len(q.Where) > 0 {
		where, err := json.Marshal(q.Where)
		if err != nil {
			return "", fmt.Errorf("failed to encode where filter: %w", err)
		}
		params.Set("where", string(where))
	}
	if len(q.Embedded) > 0 {
		embedded, err := json.Marshal(q.Embedded)
		if err != nil {
			return "", fmt.Errorf("failed to encode embedded spec: %w", err)
		}
		params.Set("embedded", string(embedded))
	}
	if len(q.Projection) > 0 {
		projection, err := json.Marshal(q.Projection)
		if err != nil {
			return "", fmt.Errorf("failed to encode projection: %w", err)
		}
		params.Set("projection", string(projection))
	}
	if q.MaxResults > 0 {
		params.Set("max_results", strconv.Itoa(q.MaxResults))
	}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	for k, v := range q.Extra {
		params.Set(k, v)
	}

	return params.Encode(), nil
}

// canonical returns a deterministic representation of the query for use as a
// cache key. Map iteration order must not leak into the key.
func (q Query) canonical() string {
	var b strings.Builder

	writeSorted := func(prefix string, m map[string]any) {
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			v, _ := json.Marshal(m[k])
			fmt.Fprintf(&b, "%s.%s=%s;", prefix, k, v)
		}
	}

	writeSorted("where", q.Where)

	intKeys := func(prefix string, m map[string]int) {
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "%s.%s=%d;", prefix, k, m[k])
		}
	}
	intKeys("embedded", q.Embedded)
	intKeys("projection", q.Projection)

	fmt.Fprintf(&b, "max=%d;page=%d;", q.MaxResults, q.Page)

	extraKeys := make([]string, 0, len(q.Extra))
	for k := range q.Extra {
		extraKeys = append(extraKeys, k)
	}
	sort.Strings(extraKeys)
	for _, k := range extraKeys {
		fmt.Fprintf(&b, "extra.%s=%s;", k, q.Extra[k])
	}

	return b.String()
}

// escapeRegex neutralizes regex metacharacters in user-supplied text so a
// name like "C++ pipes" cannot break the prefix filter.
func escapeRegex(s string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(`\.+*?()|[]{}^$`, r) {
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
