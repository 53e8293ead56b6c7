package dict

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/feedmill/mdbridge/wire"
)

// MapRow is one parsed row of the user-supplied field-map table.
type MapRow struct {
	WireID     uint16
	NormID     uint16
	HasNormID  bool // false: resolve the id by name against the normalized schema
	Name       string
	Type       Type
}

// ParseMapTable reads the field-map table.
//
// Each line is "wireFid|normId|name|type"; an empty normId column means the
// normalized id is resolved by name against the pre-existing normalized
// schema. Rows that fail to parse are skipped with a warning; the parse never
// fails as a whole.
func ParseMapTable(r io.Reader) []MapRow {
	var rows []MapRow
	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		cols := strings.Split(line, "|")
		if len(cols) < 4 {
			logger.Warn("field map row skipped: expected wireFid|normId|name|type", "line", lineNo)
			continue
		}

		fid, err := strconv.ParseUint(strings.TrimSpace(cols[0]), 10, 16)
		if err != nil || fid > wire.MaxFID {
			logger.Warn("field map row skipped: bad wire fid", "line", lineNo, "fid", cols[0])
			continue
		}

		row := MapRow{WireID: uint16(fid), Name: strings.TrimSpace(cols[2])}

		if normCol := strings.TrimSpace(cols[1]); normCol != "" {
			normID, err := strconv.ParseUint(normCol, 10, 16)
			if err != nil {
				logger.Warn("field map row skipped: bad normalized id", "line", lineNo, "norm_id", normCol)
				continue
			}
			row.NormID = uint16(normID)
			row.HasNormID = true
		}

		ftype, ok := ParseFieldType(cols[3])
		if !ok {
			logger.Warn("field map row skipped: unknown type token", "line", lineNo, "type", cols[3])
			continue
		}
		row.Type = ftype

		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		logger.Warn("field map read aborted", "error", err)
	}

	return rows
}

// Options controls dictionary merging.
type Options struct {
	// PassThrough auto-assigns normalized ids to wire fields absent from the
	// map table.
	PassThrough bool

	// PassThroughOffset is the first auto-assigned normalized id.
	PassThroughOffset uint16
}

// Build merges the wire dictionary with the field-map table.
//
// schema is the pre-existing normalized schema (name -> normalized id) used to
// resolve rows that carry no explicit id. When the map table and the schema
// disagree on the id for a name, the map table wins and the name lands in a
// conflict set that suppresses duplicate pass-through entries later.
func Build(wireDict *wire.Dictionary, rows []MapRow, schema map[string]uint16, opts Options) *FieldDictionary {
	fd := &FieldDictionary{
		byNorm: make(map[uint16]uint16, len(rows)),
		wire:   wireDict,
	}

	conflicts := make(map[string]struct{})
	var maxExplicit uint16

	for _, row := range rows {
		def := wireDict.Lookup(row.WireID)
		if def == nil {
			logger.Warn("field map row skipped: wire fid not in dictionary", "fid", row.WireID, "name", row.Name)
			continue
		}

		normID := row.NormID
		explicit := row.HasNormID
		if !explicit {
			id, ok := schema[row.Name]
			if !ok {
				logger.Warn("field map row skipped: name not in normalized schema", "fid", row.WireID, "name", row.Name)
				continue
			}
			normID = id
		} else if schemaID, ok := schema[row.Name]; ok && schemaID != normID {
			// Map table wins; remember the name so the schema's entry does not
			// sneak back in through pass-through.
			conflicts[row.Name] = struct{}{}
		}

		fd.add(&FieldDescriptor{
			WireID:     row.WireID,
			NormID:     normID,
			Name:       row.Name,
			Type:       row.Type,
			ExplicitID: explicit,
		})
		if normID > maxExplicit {
			maxExplicit = normID
		}
	}

	if opts.PassThrough {
		if opts.PassThroughOffset <= maxExplicit {
			logger.Warn("pass-through offset below explicit id range",
				"offset", opts.PassThroughOffset, "max_explicit", maxExplicit)
		}

		nextID := opts.PassThroughOffset
		if nextID <= maxExplicit {
			nextID = maxExplicit + 1
		}

		wireDict.Range(func(def *wire.FieldDef) bool {
			if fd.byWire[def.FID] != nil {
				return true
			}
			if _, conflicted := conflicts[def.Name]; conflicted {
				return true
			}
			fd.add(&FieldDescriptor{
				WireID: def.FID,
				NormID: nextID,
				Name:   def.Name,
				Type:   TypeForWire(def.Type, def.SubType),
			})
			nextID++
			return true
		})
	}

	return fd
}

func (fd *FieldDictionary) add(desc *FieldDescriptor) {
	fd.byWire[desc.WireID] = desc
	fd.byNorm[desc.NormID] = desc.WireID
}
