package trap

import (
	"encoding/json"
	"io"
)

// DumpFaults writes the fault log accumulated so far as JSON lines, one
// FaultRecord per line, for cmd/ksym to read back later.
func DumpFaults(w io.Writer) error {
	enc := json.NewEncoder(w)
	for _, f := range Faults {
		if err := enc.Encode(f); err != nil {
			return err
		}
	}
	return nil
}

// LoadFaultLog parses the JSON-lines format DumpFaults writes.
func LoadFaultLog(r io.Reader) ([]FaultRecord, error) {
	var out []FaultRecord
	dec := json.NewDecoder(r)
	for dec.More() {
		var rec FaultRecord
		if err := dec.Decode(&rec); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}
