package text

import (
	"context"

	"gitlab.com/tozd/go/errors"
)

// ErrStripperUnavailable is returned when the binary was built without the
// tree-sitter bindings (CGO_ENABLED=0)
var ErrStripperUnavailable = errors.Base("comment stripper unavailable")

// Stripper removes comments from source text
type Stripper interface {
	Strip(ctx context.Context, content string) (string, error)
}

var _ Stripper = (*CommentStripper)(nil)
