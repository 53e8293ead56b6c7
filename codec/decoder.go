package codec

import (
	"github.com/feedmill/mdbridge/dict"
	"github.com/feedmill/mdbridge/wire"
)

// Decoder translates wire fields into normalized values using the shared
// field dictionary. It owns its warning dedup state, so one noisy field warns
// once per decoder, not once per event, and never bleeds into other sessions.
//
// A decoder serves a single-threaded processing path and is not safe for
// concurrent use.
type Decoder struct {
	dict   *dict.FieldDictionary
	warned *warnSet
}

// NewDecoder creates a decoder over a built field dictionary.
func NewDecoder(fd *dict.FieldDictionary) *Decoder {
	return &Decoder{
		dict:   fd,
		warned: newWarnSet(),
	}
}

// Decode translates one wire field. The returned descriptor identifies the
// normalized field. ok is false when the field is dropped: unmapped wire ids
// (silent unless pass-through populated the dictionary) and composite types
// the bridge does not translate.
func (d *Decoder) Decode(f wire.Field) (Value, *dict.FieldDescriptor, bool) {
	desc := d.dict.Resolve(f.FID)
	if desc == nil {
		// Not representable: drop silently.
		return Value{}, nil, false
	}

	def := d.dict.WireDef(f.FID)
	if def == nil {
		return Value{}, nil, false
	}

	co, ok := coercions[f.Type]
	if !ok {
		// Composite vectors and nested messages are not decoded.
		logger.Debug("unsupported wire type dropped", "fid", f.FID, "type", f.Type.String())
		return Value{}, nil, false
	}

	v, ok := co.decode(d.warned, f, def, desc.Type)
	if !ok {
		return Value{}, nil, false
	}
	return v, desc, true
}

// DecodeAll translates a framed field list into normalized fields, dropping
// whatever cannot be represented.
func (d *Decoder) DecodeAll(fields []wire.Field) []NormField {
	out := make([]NormField, 0, len(fields))
	for _, f := range fields {
		v, desc, ok := d.Decode(f)
		if !ok {
			continue
		}
		out = append(out, NormField{NormID: desc.NormID, Value: v})
	}
	return out
}
