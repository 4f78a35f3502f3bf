//go:build !cgo

package text

import "context"

// CommentStripper is a placeholder for builds without the tree-sitter
// bindings. Strip always fails with ErrStripperUnavailable.
type CommentStripper struct{}

func NewCommentStripper() *CommentStripper {
	return &CommentStripper{}
}

func (s *CommentStripper) Strip(ctx context.Context, content string) (string, error) {
	return "", ErrStripperUnavailable
}
