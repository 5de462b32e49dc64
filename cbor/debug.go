// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cbor

import (
	"bytes"
	"fmt"
)

// DumpValue generates an indented string representing a decoded value tree
// for debugging purposes
func DumpValue(v Value, prefix string) string {
	var ret bytes.Buffer
	switch v := v.(type) {
	case Uint:
		return fmt.Sprintf("%s0x%x (%d),\n", prefix, uint64(v), uint64(v))
	case NInt:
		n, _ := BigInt(v)
		return fmt.Sprintf("%s%s,\n", prefix, n.String())
	case Bytes:
		return fmt.Sprintf("%s<bytes> (length %d),\n", prefix, len(v))
	case Text:
		return fmt.Sprintf("%s%q,\n", prefix, string(v))
	case Array:
		marker := ""
		if v.Mode == LengthIndefinite {
			marker = " (indefinite)"
		}
		ret.WriteString(prefix + "[" + marker + "\n")
		for _, item := range v.Items {
			ret.WriteString(DumpValue(item, prefix+"  "))
		}
		ret.WriteString(prefix + "],\n")
	case Map:
		marker := ""
		if v.Mode == LengthIndefinite {
			marker = " (indefinite)"
		}
		ret.WriteString(prefix + "{" + marker + "\n")
		for _, pair := range v.Pairs {
			ret.WriteString(DumpValue(pair.Key, prefix+"  "))
			ret.WriteString(DumpValue(pair.Value, prefix+"    => "))
		}
		ret.WriteString(prefix + "},\n")
	case Tagged:
		ret.WriteString(fmt.Sprintf("%stag(%d)(\n", prefix, v.Number))
		ret.WriteString(DumpValue(v.Content, prefix+"  "))
		ret.WriteString(prefix + "),\n")
	case Bool:
		return fmt.Sprintf("%s%v,\n", prefix, bool(v))
	case Null:
		return prefix + "null,\n"
	case Simple:
		return fmt.Sprintf("%ssimple(%d),\n", prefix, uint8(v))
	default:
		return fmt.Sprintf("%s%#v,\n", prefix, v)
	}
	return ret.String()
}
