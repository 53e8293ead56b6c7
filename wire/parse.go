package wire

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var typeTokens = map[string]FieldType{
	"bool":           TypeBool,
	"char":           TypeChar,
	"i8":             TypeInt8,
	"i16":            TypeInt16,
	"i32":            TypeInt32,
	"i64":            TypeInt64,
	"u8":             TypeUInt8,
	"u16":            TypeUInt16,
	"u32":            TypeUInt32,
	"u64":            TypeUInt64,
	"f32":            TypeFloat32,
	"f64":            TypeFloat64,
	"real":           TypeReal,
	"datetime":       TypeDateTime,
	"string":         TypeString,
	"buffer":         TypeBuffer,
	"enum":           TypeEnum,
	"message":        TypeMessage,
	"vector_string":  TypeVectorString,
	"vector_i32":     TypeVectorInt32,
	"vector_message": TypeVectorMessage,
}

var subTypeTokens = map[string]SubType{
	"price": SubTypePrice,
	"int":   SubTypeInteger,
	"text":  SubTypeText,
}

// ParseType resolves a type token from a dictionary or field-map file.
func ParseType(token string) (FieldType, bool) {
	t, ok := typeTokens[strings.ToLower(strings.TrimSpace(token))]
	return t, ok
}

// ParseDictionary reads a vendor field dictionary file.
//
// Each line is "fid|name|type" with an optional fourth "subtype" column for
// real-typed fields. Blank lines and lines starting with '#' are skipped.
// A malformed line aborts the load: the vendor dictionary is authoritative and
// a broken file must not be half-applied.
func ParseDictionary(r io.Reader) (*Dictionary, error) {
	dict := NewDictionary()
	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		cols := strings.Split(line, "|")
		if len(cols) < 3 {
			return nil, fmt.Errorf("wire dictionary line %d: expected fid|name|type, got %q", lineNo, line)
		}

		fid, err := strconv.ParseUint(strings.TrimSpace(cols[0]), 10, 16)
		if err != nil || fid > MaxFID {
			return nil, fmt.Errorf("wire dictionary line %d: bad fid %q", lineNo, cols[0])
		}

		ftype, ok := ParseType(cols[2])
		if !ok {
			return nil, fmt.Errorf("wire dictionary line %d: unknown type %q", lineNo, cols[2])
		}

		def := &FieldDef{
			FID:  uint16(fid),
			Name: strings.TrimSpace(cols[1]),
			Type: ftype,
		}
		if len(cols) > 3 {
			if st, ok := subTypeTokens[strings.ToLower(strings.TrimSpace(cols[3]))]; ok {
				def.SubType = st
			}
		}
		dict.Add(def)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return dict, nil
}
