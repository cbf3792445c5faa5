package record

import (
	"bytes"
	"encoding/json"

	"github.com/tidwall/sjson"
)

// MarshalLine serializes the record back to one JSONL line, without a
// trailing newline. Unparsed records are wrapped in a {"_raw": ...} object
// so the original text is carried through a rewrite instead of being lost.
func (r *Record) MarshalLine() ([]byte, error) {
	if r.Unparsed() {
		line, err := sjson.Set("{}", "_raw", r.Raw)
		if err != nil {
			return nil, err
		}
		return []byte(line), nil
	}
	return json.Marshal(r.Fields)
}

// WriteAll serializes records as JSONL into buf, one line per record in
// slice order. Record count and ordering are preserved exactly.
func WriteAll(buf *bytes.Buffer, records []Record) error {
	for i := range records {
		line, err := records[i].MarshalLine()
		if err != nil {
			return err
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}
	return nil
}
