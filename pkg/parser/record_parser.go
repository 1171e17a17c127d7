// Package parser reads proof records from JSON and CSV files.
//
// Every record carries hex-encoded public key, signature, challenge and response, and a
// message given either as UTF-8 text or as hex. Decoding the hex into group elements is
// left to the caller, which knows the engine.
package parser

import (
	"encoding/csv"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Record is one proof of possession as found in a file.
type Record struct {
	Index     int
	PublicKey []byte
	Message   []byte
	Signature []byte
	Challenge []byte
	Response  []byte
}

// FieldNames maps record fields to JSON keys or CSV header columns.
type FieldNames struct {
	PublicKey  string
	Message    string
	MessageHex string
	Signature  string
	Challenge  string
	Response   string
}

// DefaultFieldNames returns the field names used by the cpsig tool.
func DefaultFieldNames() FieldNames {
	return FieldNames{
		PublicKey:  "public_key",
		Message:    "message",
		MessageHex: "message_hex",
		Signature:  "signature",
		Challenge:  "challenge",
		Response:   "response",
	}
}

func (f FieldNames) withDefaults() FieldNames {
	d := DefaultFieldNames()
	if f.PublicKey == "" {
		f.PublicKey = d.PublicKey
	}
	if f.Message == "" {
		f.Message = d.Message
	}
	if f.MessageHex == "" {
		f.MessageHex = d.MessageHex
	}
	if f.Signature == "" {
		f.Signature = d.Signature
	}
	if f.Challenge == "" {
		f.Challenge = d.Challenge
	}
	if f.Response == "" {
		f.Response = d.Response
	}
	return f
}

// Parser decodes records from a stream.
type Parser interface {
	Parse(r io.Reader) ([]*Record, error)
}

// JSONParser reads a JSON array of objects.
type JSONParser struct {
	Fields FieldNames
}

// CSVParser reads a CSV file with a header row.
type CSVParser struct {
	Fields FieldNames
}

// ForPath picks a parser from the file extension; anything but .csv is read as JSON.
func ForPath(path string, fields FieldNames) Parser {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return &CSVParser{Fields: fields}
	}
	return &JSONParser{Fields: fields}
}

// ParseFile reads all records from path using the default field names.
func ParseFile(path string) ([]*Record, error) {
	return ParseFileWith(path, DefaultFieldNames())
}

// ParseFileWith reads all records from path using the given field names.
func ParseFileWith(path string, fields FieldNames) ([]*Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()
	return ForPath(path, fields).Parse(file)
}

// Parse decodes records from r.
//
// Expected format:
//
//	[
//	  {"public_key": "0x...", "message": "hello", "signature": "...", "challenge": "...", "response": "..."},
//	  {"public_key": "...", "message_hex": "68656c6c6f", ...}
//	]
func (p *JSONParser) Parse(r io.Reader) ([]*Record, error) {
	fields := p.Fields.withDefaults()

	var items []map[string]interface{}
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	records := make([]*Record, 0, len(items))
	for i, item := range items {
		lookup := func(key string) (string, bool, error) {
			v, ok := item[key]
			if !ok {
				return "", false, nil
			}
			s, ok := v.(string)
			if !ok {
				return "", true, fmt.Errorf("record %d: field %q must be a string, got %T", i, key, v)
			}
			return s, true, nil
		}
		rec, err := buildRecord(i, fields, lookup)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// Parse decodes records from r. The header row names the columns.
func (p *CSVParser) Parse(r io.Reader) ([]*Record, error) {
	fields := p.Fields.withDefaults()

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, col := range header {
		columns[strings.TrimSpace(col)] = i
	}

	records := make([]*Record, 0)
	for i := 0; ; i++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}
		lookup := func(key string) (string, bool, error) {
			idx, ok := columns[key]
			if !ok || idx >= len(row) {
				return "", false, nil
			}
			return row[idx], true, nil
		}
		rec, err := buildRecord(i, fields, lookup)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

type lookupFunc func(key string) (value string, present bool, err error)

func buildRecord(index int, fields FieldNames, lookup lookupFunc) (*Record, error) {
	rec := &Record{Index: index}

	hexFields := []struct {
		name string
		dst  *[]byte
	}{
		{fields.PublicKey, &rec.PublicKey},
		{fields.Signature, &rec.Signature},
		{fields.Challenge, &rec.Challenge},
		{fields.Response, &rec.Response},
	}
	for _, f := range hexFields {
		v, ok, err := lookup(f.name)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("record %d: missing %s field", index, f.name)
		}
		b, err := DecodeHex(v)
		if err != nil {
			return nil, fmt.Errorf("record %d: failed to parse %s: %w", index, f.name, err)
		}
		*f.dst = b
	}

	if v, ok, err := lookup(fields.MessageHex); err != nil {
		return nil, err
	} else if ok {
		msg, err := DecodeHex(v)
		if err != nil {
			return nil, fmt.Errorf("record %d: failed to parse %s: %w", index, fields.MessageHex, err)
		}
		rec.Message = msg
		return rec, nil
	}

	v, ok, err := lookup(fields.Message)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("record %d: missing %s or %s field", index, fields.Message, fields.MessageHex)
	}
	rec.Message = []byte(v)
	return rec, nil
}

// DecodeHex decodes a hex string with an optional 0x prefix.
func DecodeHex(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "0x")
	s = strings.TrimPrefix(s, "0X")
	return hex.DecodeString(s)
}

// WriteJSON encodes records in the format JSONParser reads, with hex messages.
func WriteJSON(w io.Writer, records []*Record) error {
	items := make([]map[string]string, 0, len(records))
	for _, rec := range records {
		items = append(items, map[string]string{
			"public_key":  hex.EncodeToString(rec.PublicKey),
			"message_hex": hex.EncodeToString(rec.Message),
			"signature":   hex.EncodeToString(rec.Signature),
			"challenge":   hex.EncodeToString(rec.Challenge),
			"response":    hex.EncodeToString(rec.Response),
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(items)
}
