package wire

import "time"

// Field is one already-framed (id, type, value) unit from the vendor feed.
// The payload slot used is decided by Type; Blank marks fields that arrived
// with no data at all.
type Field struct {
	FID   uint16
	Type  FieldType
	Blank bool

	Int   int64
	UInt  uint64
	Float float64
	Price Price
	Str   string
	Time  time.Time
	Enum  uint16
	Strs  []string
	Ints  []int64
}

// BlankField returns the wire-level blank marker for a field id and type.
func BlankField(fid uint16, t FieldType) Field {
	return Field{FID: fid, Type: t, Blank: true}
}

// EnumEntry is one row of an enumeration table.
type EnumEntry struct {
	Code    uint16
	Display string
}

// EnumTable maps enumeration codes to display strings for one field.
type EnumTable struct {
	entries []EnumEntry
	byCode  map[uint16]string
}

// NewEnumTable builds an enumeration table from its entries.
func NewEnumTable(entries ...EnumEntry) *EnumTable {
	t := &EnumTable{
		entries: entries,
		byCode:  make(map[uint16]string, len(entries)),
	}
	for _, e := range entries {
		t.byCode[e.Code] = e.Display
	}
	return t
}

// Display returns the display string for a code.
func (t *EnumTable) Display(code uint16) (string, bool) {
	s, ok := t.byCode[code]
	return s, ok
}

// Code scans for an exact, case-sensitive, exact-length display match.
// Case sensitivity matters: some enumerations differ only by case.
func (t *EnumTable) Code(display string) (uint16, bool) {
	for _, e := range t.entries {
		if e.Display == display {
			return e.Code, true
		}
	}
	return 0, false
}

// Valid reports whether a numeric code exists in the table.
func (t *EnumTable) Valid(code uint16) bool {
	_, ok := t.byCode[code]
	return ok
}

// FieldDef describes one field of the vendor protocol dictionary.
type FieldDef struct {
	FID     uint16
	Name    string
	Type    FieldType
	SubType SubType
	Enum    *EnumTable
}

// MaxFID bounds the protocol's field id space. The dictionary is a dense
// array sized to it.
const MaxFID = 16383

// Dictionary is the vendor protocol's field dictionary: a dense FID-indexed
// lookup built once per subscription context and read-only afterward.
type Dictionary struct {
	fields [MaxFID + 1]*FieldDef
}

// NewDictionary creates an empty dictionary.
func NewDictionary() *Dictionary {
	return &Dictionary{}
}

// Add registers a field definition. Definitions outside the id space are
// ignored.
func (d *Dictionary) Add(def *FieldDef) {
	if def == nil || def.FID > MaxFID {
		return
	}
	d.fields[def.FID] = def
}

// Lookup returns the definition for a field id, or nil.
func (d *Dictionary) Lookup(fid uint16) *FieldDef {
	if fid > MaxFID {
		return nil
	}
	return d.fields[fid]
}

// SetEnum attaches an enumeration table to an existing field definition.
func (d *Dictionary) SetEnum(fid uint16, table *EnumTable) {
	if def := d.Lookup(fid); def != nil {
		def.Enum = table
	}
}

// Range calls fn for every registered definition in ascending FID order.
func (d *Dictionary) Range(fn func(*FieldDef) bool) {
	for fid := 0; fid <= MaxFID; fid++ {
		if d.fields[fid] != nil {
			if !fn(d.fields[fid]) {
				return
			}
		}
	}
}
