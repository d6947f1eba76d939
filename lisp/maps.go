package lisp

import (
	"bytes"
	"sort"
)

// Objects map arbitrary keys to values with host-native key equality: scalar
// keys compare by value while lists, objects, and functions compare by
// reference.  Keywords and strings canonicalize to the same key, matching the
// host's stringification of object keys.

type mapNull struct{}
type mapUndefined struct{}

func objectKey(v *LVal) interface{} {
	switch v.Type {
	case LString, LKeyword:
		return v.Str
	case LSymbol:
		return v.Str
	case LNumber:
		return v.Num
	case LBool:
		return v.Bool
	case LNull:
		return mapNull{}
	case LUndefined:
		return mapUndefined{}
	default:
		// reference identity
		return v
	}
}

func keyLVal(k interface{}) *LVal {
	switch v := k.(type) {
	case string:
		return String(v)
	case float64:
		return Number(v)
	case bool:
		return Bool(v)
	case mapNull:
		return Null()
	case mapUndefined:
		return Undefined()
	case *LVal:
		return v
	}
	return Errorf("invalid key type: %T", k)
}

func objectGet(m *LVal, key *LVal) *LVal {
	v := m.Map[objectKey(key)]
	if v != nil {
		return v
	}
	return Undefined()
}

func objectSet(m *LVal, key *LVal, val *LVal) {
	m.Map[objectKey(key)] = val
}

func objectString(m *LVal) string {
	var buf bytes.Buffer
	buf.WriteString("(object")
	for _, key := range objectKeys(m) {
		buf.WriteString(" ")
		buf.WriteString(key.String())
		buf.WriteString(" ")
		buf.WriteString(objectGet(m, key).String())
	}
	buf.WriteString(")")
	return buf.String()
}

// objectKeys returns the keys of m sorted by type and then by value.
// Reference keys (lists, objects, functions) sort by their printed form, and
// those that print alike come out in no fixed order.
func objectKeys(m *LVal) []*LVal {
	ks := make([]*LVal, 0, len(m.Map))
	for k := range m.Map {
		ks = append(ks, keyLVal(k))
	}
	sort.Slice(ks, func(i, j int) bool {
		if ks[i].Type != ks[j].Type {
			return ks[i].Type < ks[j].Type
		}
		switch ks[i].Type {
		case LString, LKeyword:
			return ks[i].Str < ks[j].Str
		case LNumber:
			return ks[i].Num < ks[j].Num
		case LBool:
			return !ks[i].Bool && ks[j].Bool
		}
		return ks[i].String() < ks[j].String()
	})
	return ks
}
