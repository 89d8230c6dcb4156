package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// StringList is an ordered list of strings persisted as a JSON text blob.
// Decoding never fails: a corrupt or non-list blob reads back as an empty list.
type StringList []string

// DecodeStringList parses a stored blob, falling back to an empty list.
func DecodeStringList(raw string) StringList {
	if raw == "" {
		return StringList{}
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil || out == nil {
		return StringList{}
	}
	return out
}

// IsValidStringList reports whether raw decodes cleanly to a JSON string array.
func IsValidStringList(raw string) bool {
	var out []string
	return json.Unmarshal([]byte(raw), &out) == nil && out != nil
}

// Encode returns the canonical JSON form ("[]" for an empty list).
func (l StringList) Encode() string {
	if len(l) == 0 {
		return "[]"
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return "[]"
	}
	return string(b)
}

// First returns the first element or "".
func (l StringList) First() string {
	if len(l) == 0 {
		return ""
	}
	return l[0]
}

// Head returns at most n leading elements.
func (l StringList) Head(n int) StringList {
	if len(l) <= n {
		return l
	}
	return l[:n]
}

// Value implements driver.Valuer for the SQL store.
func (l StringList) Value() (driver.Value, error) {
	return l.Encode(), nil
}

// Scan implements sql.Scanner for the SQL store.
func (l *StringList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*l = StringList{}
	case string:
		*l = DecodeStringList(v)
	case []byte:
		*l = DecodeStringList(string(v))
	default:
		return fmt.Errorf("unsupported StringList source %T", src)
	}
	return nil
}

// MarshalBSONValue stores the list as a JSON string in MongoDB, mirroring the SQL column.
func (l StringList) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(l.Encode())
}

// UnmarshalBSONValue accepts the JSON string form, a native BSON array of strings, or anything
// else (which decodes to an empty list).
func (l *StringList) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	if s, ok := raw.StringValueOK(); ok {
		*l = DecodeStringList(s)
		return nil
	}
	if t == bsontype.Array {
		var arr []string
		if err := raw.Unmarshal(&arr); err == nil {
			*l = arr
			return nil
		}
	}
	*l = StringList{}
	return nil
}
