package filters

import (
	"io"

	"github.com/dagnvfs/vfs"
	"github.com/klauspost/compress/zstd"
)

// Zstd is a built-in Filter backed by klauspost/compress/zstd, grounded on mholt/archiver's .zst format support.
// It carries no per-archive configuration; the encoder/decoder are allocated fresh per call so concurrent use of
// the same Zstd value across archives (under the package-wide lock, spec §5) never shares mutable codec state.
type Zstd struct{}

func (Zstd) Name() string        { return "zstd" }
func (Zstd) Description() string { return "zstd compression (klauspost/compress)" }
func (Zstd) ConfigSize() uint32  { return 0 }

func (Zstd) LoadConfig(io.Reader) ([]byte, error) { return nil, nil }
func (Zstd) SaveConfig([]byte, io.Writer) error   { return nil }

func (Zstd) Decode(_ []byte, r io.Reader, w io.Writer, _ vfs.EntityInfo) error {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return err
	}
	defer dec.Close()
	_, err = io.Copy(w, dec)
	return err
}

func (Zstd) Encode(_ []byte, r io.Reader, w io.Writer, _ vfs.EntityInfo) error {
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return err
	}
	if _, err := io.Copy(enc, r); err != nil {
		return err
	}
	return enc.Close()
}

var _ vfs.Filter = Zstd{}
