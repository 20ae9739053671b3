// Package filters provides built-in vfs.Filter implementations. They are kept out of the core package because
// filters are explicitly a pluggable, user-supplied concept (spec §4.2, §6) - the core must not hard-depend on
// any concrete codec, only on the Filter interface.
package filters

import (
	"io"

	"github.com/dagnvfs/vfs"
)

// Identity is the "null-pass" codec used throughout the testable-properties scenarios (spec §8, scenario 1):
// config_size 0, encode and decode both copy bytes through unchanged.
type Identity struct{}

func (Identity) Name() string        { return "null-pass" }
func (Identity) Description() string { return "pass-through codec, no transformation" }
func (Identity) ConfigSize() uint32  { return 0 }

func (Identity) LoadConfig(io.Reader) ([]byte, error)        { return nil, nil }
func (Identity) SaveConfig([]byte, io.Writer) error           { return nil }

func (Identity) Decode(_ []byte, r io.Reader, w io.Writer, _ vfs.EntityInfo) error {
	_, err := io.Copy(w, r)
	return err
}

func (Identity) Encode(_ []byte, r io.Reader, w io.Writer, _ vfs.EntityInfo) error {
	_, err := io.Copy(w, r)
	return err
}

var _ vfs.Filter = Identity{}
