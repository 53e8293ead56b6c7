package codec

import (
	"github.com/feedmill/mdbridge/dict"
	"github.com/feedmill/mdbridge/wire"
)

// Encoder translates normalized fields back into wire fields for
// republication onto the wire. Like the decoder it owns its warning dedup
// state and serves one single-threaded path.
type Encoder struct {
	dict   *dict.FieldDictionary
	warned *warnSet
}

// NewEncoder creates an encoder over a built field dictionary.
func NewEncoder(fd *dict.FieldDictionary) *Encoder {
	return &Encoder{
		dict:   fd,
		warned: newWarnSet(),
	}
}

// Encode translates a normalized message's fields into a wire field list.
//
// Fields with no reverse mapping are skipped, never failed. A single field's
// structural encode failure flags the whole result (ok == false) but does not
// stop the remaining fields; callers must check ok before treating the output
// as usable.
func (e *Encoder) Encode(fields []NormField) ([]wire.Field, bool) {
	out := make([]wire.Field, 0, len(fields))
	ok := true

	for _, nf := range fields {
		wireFid, found := e.dict.ResolveNorm(nf.NormID)
		if !found {
			// Unmapped normalized field: drop silently.
			continue
		}

		def := e.dict.WireDef(wireFid)
		if def == nil {
			continue
		}

		co, supported := coercions[def.Type]
		if !supported || co.encode == nil {
			ok = false
			logger.Warn("no wire encoding for field", "fid", wireFid, "type", def.Type.String())
			continue
		}

		f, res := co.encode(e.warned, nf.Value, def)
		switch res {
		case encodeOK:
			out = append(out, f)
		case encodeSkip:
			// Dropped with its own warning; the message is still usable.
		case encodeFail:
			ok = false
		}
	}

	return out, ok
}
