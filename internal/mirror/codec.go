package mirror

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"github.com/acadcentral/acportal_backend/internal/collections"
)

// Record is the application-visible shape of a collection entry.
type Record = map[string]any

var (
	isoDateTimeRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}`)
	sqlDateTimeRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}$`)
)

// Encode turns a record into a durable row: nested fields are serialized to
// JSON text, booleans become 0/1, aliased fields are renamed to their column
// names, ISO 8601 timestamps are rewritten to DATETIME literals, and any field
// outside the collection's column set is dropped.
func Encode(spec collections.Spec, record Record) Record {
	r := make(Record, len(record))
	for k, v := range record {
		r[k] = v
	}

	for _, f := range spec.JSONFields {
		if v, ok := r[f]; ok && v != nil {
			if _, isStr := v.(string); !isStr {
				if raw, err := json.Marshal(v); err == nil {
					r[f] = string(raw)
				}
			}
		}
	}

	for local, col := range spec.Aliases {
		if v, ok := r[local]; ok {
			r[col] = v
			delete(r, local)
		}
	}

	for _, col := range spec.BoolFields {
		if v, ok := r[col]; ok {
			if truthy(v) {
				r[col] = 1
			} else {
				r[col] = 0
			}
		}
	}

	for k, v := range r {
		if s, ok := v.(string); ok && isoDateTimeRe.MatchString(s) {
			r[k] = isoToSQL(s)
		}
	}

	row := make(Record, len(r))
	for k, v := range r {
		if k == collections.CreatedAtColumn || !spec.HasColumn(k) {
			continue
		}
		row[k] = v
	}
	return row
}

// Decode is the inverse of Encode. The mirror-only created_at column never
// leaks back into records, and a nested field whose stored text fails to parse
// is passed through as the raw string.
func Decode(spec collections.Spec, row Record) Record {
	r := make(Record, len(row))
	for k, v := range row {
		if k == collections.CreatedAtColumn {
			continue
		}
		r[k] = v
	}

	for _, col := range spec.BoolFields {
		if v, ok := r[col]; ok {
			local := col
			for l, c := range spec.Aliases {
				if c == col {
					local = l
					break
				}
			}
			delete(r, col)
			r[local] = truthy(v)
		}
	}

	for _, f := range spec.JSONFields {
		if s, ok := r[f].(string); ok {
			var parsed any
			if err := json.Unmarshal([]byte(s), &parsed); err == nil {
				r[f] = parsed
			}
		}
	}

	for k, v := range r {
		switch t := v.(type) {
		case time.Time:
			r[k] = timeToISO(t)
		case string:
			if sqlDateTimeRe.MatchString(t) {
				r[k] = strings.Replace(t, " ", "T", 1) + ".000Z"
			}
		}
	}
	return r
}

// isoToSQL rewrites "2026-02-20T17:38:44.124Z" to "2026-02-20 17:38:44".
func isoToSQL(s string) string {
	s = strings.Replace(s, "T", " ", 1)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSuffix(s, "Z")
}

func timeToISO(t time.Time) string {
	u := t.UTC()
	if u.Hour() == 0 && u.Minute() == 0 && u.Second() == 0 && u.Nanosecond() == 0 {
		return u.Format("2006-01-02")
	}
	return u.Format("2006-01-02T15:04:05.000Z")
}

func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case int:
		return t != 0
	case int32:
		return t != 0
	case int64:
		return t != 0
	case float64:
		return t != 0
	case string:
		return t != "" && t != "0" && t != "false"
	default:
		return v != nil
	}
}
