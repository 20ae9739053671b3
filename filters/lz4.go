package filters

import (
	"io"

	"github.com/dagnvfs/vfs"
	"github.com/pierrec/lz4/v4"
)

// LZ4 is a built-in Filter backed by pierrec/lz4, grounded on mholt/archiver's .lz4 format support. Chaining it
// after Gzip or Zstd in a container's filter table exercises a multi-filter decode chain (spec §3 "Filter
// chain").
type LZ4 struct{}

func (LZ4) Name() string        { return "lz4" }
func (LZ4) Description() string { return "lz4 compression (pierrec/lz4)" }
func (LZ4) ConfigSize() uint32  { return 0 }

func (LZ4) LoadConfig(io.Reader) ([]byte, error) { return nil, nil }
func (LZ4) SaveConfig([]byte, io.Writer) error    { return nil }

func (LZ4) Decode(_ []byte, r io.Reader, w io.Writer, _ vfs.EntityInfo) error {
	_, err := io.Copy(w, lz4.NewReader(r))
	return err
}

func (LZ4) Encode(_ []byte, r io.Reader, w io.Writer, _ vfs.EntityInfo) error {
	lw := lz4.NewWriter(w)
	if _, err := io.Copy(lw, r); err != nil {
		return err
	}
	return lw.Close()
}

var _ vfs.Filter = LZ4{}
