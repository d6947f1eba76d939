package lisp

import (
	"encoding/json"
	"fmt"
)

// jsonObject returns the host JSON global with parse and stringify bound as
// functions bridging the host's serializer.
func jsonObject() *LVal {
	obj := Object()
	objectSet(obj, String("parse"), Fun("<host-function ``JSON.parse''>", hostJSONParse))
	objectSet(obj, String("stringify"), Fun("<host-function ``JSON.stringify''>", hostJSONStringify))
	return obj
}

func hostJSONParse(env *LEnv, args *LVal) *LVal {
	if len(args.Cells) != 1 {
		return berrf(env, "JSON.parse", "one argument expected (got %d)", len(args.Cells))
	}
	if args.Cells[0].Type != LString {
		return berrf(env, "JSON.parse", "first argument is not a string: %s", args.Cells[0].Type)
	}
	var x interface{}
	err := json.Unmarshal([]byte(args.Cells[0].Str), &x)
	if err != nil {
		return env.Error(err)
	}
	return jsonLoadInterface(x)
}

func jsonLoadInterface(x interface{}) *LVal {
	if x == nil {
		return Null()
	}
	switch x := x.(type) {
	case bool:
		return Bool(x)
	case string:
		return String(x)
	case float64:
		return Number(x)
	case map[string]interface{}:
		m := Object()
		for k, v := range x {
			objectSet(m, String(k), jsonLoadInterface(v))
		}
		return m
	case []interface{}:
		lis := SExpr(make([]*LVal, len(x)))
		for i, v := range x {
			lis.Cells[i] = jsonLoadInterface(v)
		}
		return lis
	default:
		return Errorf("unexpected json value: %T", x)
	}
}

func hostJSONStringify(env *LEnv, args *LVal) *LVal {
	if len(args.Cells) < 1 {
		return berrf(env, "JSON.stringify", "at least one argument expected (got %d)", len(args.Cells))
	}
	x, err := jsonDumpLVal(args.Cells[0])
	if err != nil {
		return env.Error(err)
	}
	var b []byte
	if len(args.Cells) > 1 && Truthy(args.Cells[1]) {
		b, err = json.MarshalIndent(x, "", "  ")
	} else {
		b, err = json.Marshal(x)
	}
	if err != nil {
		return env.Error(err)
	}
	return String(string(b))
}

func jsonDumpLVal(v *LVal) (interface{}, error) {
	switch v.Type {
	case LNull, LUndefined:
		return nil, nil
	case LBool:
		return v.Bool, nil
	case LNumber:
		return v.Num, nil
	case LString, LKeyword:
		return v.Str, nil
	case LSExpr:
		lis := make([]interface{}, len(v.Cells))
		for i, c := range v.Cells {
			x, err := jsonDumpLVal(c)
			if err != nil {
				return nil, err
			}
			lis[i] = x
		}
		return lis, nil
	case LObject:
		m := make(map[string]interface{}, len(v.Map))
		for _, k := range objectKeys(v) {
			x, err := jsonDumpLVal(objectGet(v, k))
			if err != nil {
				return nil, err
			}
			m[ToString(k)] = x
		}
		return m, nil
	default:
		return nil, fmt.Errorf("value cannot be serialized: %s", v.Type)
	}
}
