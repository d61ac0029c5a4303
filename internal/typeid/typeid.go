// Package typeid mints prefixed, sortable ids such as
// layer_01h455vb4pex5vsknk084sn02q.
package typeid

import (
	"github.com/pkg/errors"
	"go.jetify.com/typeid/v2"
)

const PrefixLayer = "layer"

func New(prefix string) string {
	return typeid.MustGenerate(prefix).String()
}

// NewLayerID is the default layer id generator of the editor.
func NewLayerID() string { return New(PrefixLayer) }

// Validate checks that id parses and carries expectedPrefix.
func Validate(id, expectedPrefix string) error {
	parsed, err := typeid.Parse(id)
	if err != nil {
		return errors.Wrapf(err, "invalid typeid %q", id)
	}
	if parsed.Prefix() != expectedPrefix {
		return errors.Errorf("expected prefix %q but got %q in id %q", expectedPrefix, parsed.Prefix(), id)
	}
	return nil
}
