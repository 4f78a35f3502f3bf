//go:build cgo

package text

import (
	"context"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"
	"gitlab.com/tozd/go/errors"
)

// CommentStripper drops line and block comments from Java source using the
// tree-sitter grammar, so comment markers inside string literals survive.
type CommentStripper struct{}

// NewCommentStripper returns a stripper backed by tree-sitter
func NewCommentStripper() *CommentStripper {
	return &CommentStripper{}
}

type byteRange struct {
	start, end uint32
}

func (s *CommentStripper) Strip(ctx context.Context, content string) (string, error) {
	if !strings.Contains(content, "/*") && !strings.Contains(content, "//") {
		return content, nil
	}

	// parsers are not safe to share, one per call keeps the stripper stateless
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(java.GetLanguage())

	src := []byte(content)
	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return "", errors.Errorf("parsing java source: %w", err)
	}
	defer tree.Close()

	var ranges []byteRange
	collectComments(tree.RootNode(), &ranges)
	if len(ranges) == 0 {
		return content, nil
	}

	sort.Slice(ranges, func(i, j int) bool { return ranges[i].start < ranges[j].start })

	var b strings.Builder
	b.Grow(len(src))
	var last uint32
	for _, r := range ranges {
		if r.start < last {
			continue
		}
		b.Write(src[last:r.start])
		last = r.end
	}
	b.Write(src[last:])

	return b.String(), nil
}

func collectComments(node *sitter.Node, ranges *[]byteRange) {
	if node == nil {
		return
	}
	if strings.HasSuffix(node.Type(), "comment") {
		*ranges = append(*ranges, byteRange{start: node.StartByte(), end: node.EndByte()})
		return
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		collectComments(node.Child(i), ranges)
	}
}
