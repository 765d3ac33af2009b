package domain

import (
	"fmt"
	"math/big"
	"reflect"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// JSONValue converts a value unpacked by the go-ethereum abi package into a JSON friendly value.
// Addresses and hashes become hex strings, integers become decimal strings and byte arrays become 0x-prefixed hex.
func JSONValue(v interface{}) interface{} {
	switch val := v.(type) {
	case nil:
		return nil
	case common.Address:
		return val.Hex()
	case common.Hash:
		return val.Hex()
	case *big.Int:
		if val == nil {
			return nil
		}
		return val.String()
	case []byte:
		return hexutil.Encode(val)
	case string, bool:
		return val
	case uint8, uint16, uint32, uint64, int8, int16, int32, int64:
		return fmt.Sprint(val)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Array:
		// bytesN
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			b := make([]byte, rv.Len())
			reflect.Copy(reflect.ValueOf(b), rv)
			return hexutil.Encode(b)
		}
		return sliceValue(rv)
	case reflect.Slice:
		return sliceValue(rv)
	case reflect.Struct:
		out := make(map[string]interface{}, rv.NumField())
		for i := 0; i < rv.NumField(); i++ {
			field := rv.Type().Field(i)
			if !field.IsExported() {
				continue
			}
			out[field.Name] = JSONValue(rv.Field(i).Interface())
		}
		return out
	case reflect.Ptr:
		if rv.IsNil() {
			return nil
		}
		return JSONValue(rv.Elem().Interface())
	}
	return v
}

func sliceValue(rv reflect.Value) []interface{} {
	out := make([]interface{}, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out[i] = JSONValue(rv.Index(i).Interface())
	}
	return out
}
