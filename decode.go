package vfs

import "bytes"

// decodeFile runs the archive's filter chain, in stored order, over the encoded payload of f to produce
// plaintext bytes (spec §4.10). Unlike the reference implementation, there is no shared global buffer pair and
// no process-wide "active archive": each call allocates its own ping-pong buffers, and every filter receives the
// configuration blob that was loaded for this specific archive at parse time (archive.go, filterConfigs) - see
// the redesign notes in spec §9.
func decodeFile(a *Archive, f fileEntry, info EntityInfo) ([]byte, error) {
	encoded, err := a.readPayload(f)
	if err != nil {
		return nil, err
	}

	from := encoded
	for i, filter := range a.filters {
		reader := bytes.NewReader(from)
		writer := &bytes.Buffer{}
		if err := filter.Decode(a.filterConfigs[i], reader, writer, info); err != nil {
			return nil, wrapErr(KindGeneric, "filter decode failed: "+filter.Name(), err)
		}
		from = writer.Bytes()
	}
	return from, nil
}
