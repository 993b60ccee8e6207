package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
)

// StringList is a text[] column on Postgres and a JSON text column on
// sqlite. Scan accepts both encodings.
type StringList []string

func (StringList) GormDataType() string {
	return "text"
}

func (l *StringList) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		s = string(v)
	case string:
		s = v
	default:
		return fmt.Errorf("scan string list: unsupported type %T", src)
	}

	s = strings.TrimSpace(s)
	switch {
	case s == "" || s == "null":
		*l = nil
	case strings.HasPrefix(s, "{") || hasArrayBounds(s):
		out, err := parsePgArray(s)
		if err != nil {
			return err
		}
		*l = out
	case strings.HasPrefix(s, "["):
		var out []string
		if err := json.Unmarshal([]byte(s), &out); err != nil {
			return fmt.Errorf("scan string list: %w", err)
		}
		*l = out
	default:
		*l = StringList{s}
	}
	return nil
}

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// hasArrayBounds reports a Postgres array literal with explicit bounds, such
// as [0:1]={KR,US}.
func hasArrayBounds(s string) bool {
	return len(s) > 1 && s[0] == '[' && (s[1] == '-' || (s[1] >= '0' && s[1] <= '9'))
}

// parsePgArray decodes a Postgres text array literal such as
// {KR,"New York",NULL}. NULL elements are dropped and multi-dimensional
// arrays are flattened.
func parsePgArray(s string) (StringList, error) {
	var elems []*string
	if err := pgtype.NewMap().SQLScanner(&elems).Scan(s); err != nil {
		return nil, fmt.Errorf("scan string list: %w", err)
	}
	out := make(StringList, 0, len(elems))
	for _, e := range elems {
		if e != nil {
			out = append(out, *e)
		}
	}
	return out, nil
}
