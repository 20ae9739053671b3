package filters

import (
	"io"

	"github.com/dagnvfs/vfs"
	"github.com/klauspost/compress/gzip"
)

// Gzip is a built-in Filter backed by klauspost/compress's drop-in, faster gzip implementation (grounded on
// mholt/archiver's own use of the same package for its .gz format). It carries no per-archive configuration.
type Gzip struct{}

func (Gzip) Name() string        { return "gzip" }
func (Gzip) Description() string { return "gzip compression (klauspost/compress)" }
func (Gzip) ConfigSize() uint32  { return 0 }

func (Gzip) LoadConfig(io.Reader) ([]byte, error)      { return nil, nil }
func (Gzip) SaveConfig([]byte, io.Writer) error        { return nil }

func (Gzip) Decode(_ []byte, r io.Reader, w io.Writer, _ vfs.EntityInfo) error {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return err
	}
	defer gz.Close()
	_, err = io.Copy(w, gz)
	return err
}

func (Gzip) Encode(_ []byte, r io.Reader, w io.Writer, _ vfs.EntityInfo) error {
	gz := gzip.NewWriter(w)
	if _, err := io.Copy(gz, r); err != nil {
		return err
	}
	return gz.Close()
}

var _ vfs.Filter = Gzip{}
