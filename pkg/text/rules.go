package text

import (
	"regexp"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// separatorClass matches any of the separators a package name can be
// spelled with: Java source (.), paths (/) and Windows paths (\)
const separatorClass = `[./\\]`

var (
	docTagPattern = regexp.MustCompile(`\{@link(?:plain)?([^}]*)\}|(@throws|@see)[^\r\n]*`)
	headerPattern = regexp.MustCompile(`(?ms)\A.*^[ \t]*(?:package|import)\s+(?:static\s+)?[\w.$]+(?:\.\*)?\s*;\s*`)
)

// RuleSet holds the compiled rewrite rules. It is immutable after
// NewRuleSet and safe to share.
type RuleSet struct {
	prefix   string
	names    []string
	packages *regexp.Regexp
}

// NewRuleSet compiles the package matcher for names. Every name needs at
// least two segments so there is a separator to echo back.
func NewRuleSet(prefix string, names []string) (*RuleSet, error) {
	if prefix == "" {
		return nil, errors.Errorf("prefix is required")
	}
	if len(names) == 0 {
		return nil, errors.Errorf("at least one package name is required")
	}

	alternatives := make([]string, 0, len(names))
	for _, name := range names {
		parts := strings.Split(name, ".")
		if len(parts) < 2 {
			return nil, errors.Errorf("package %q needs at least two segments", name)
		}
		quoted := make([]string, len(parts))
		for i, part := range parts {
			if part == "" {
				return nil, errors.Errorf("package %q has an empty segment", name)
			}
			quoted[i] = regexp.QuoteMeta(part)
		}
		// the first separator is captured, the rest must equal it (checked in Rename)
		alt := quoted[0] + "(" + separatorClass + ")" + strings.Join(quoted[1:], separatorClass)
		alternatives = append(alternatives, alt)
	}

	packages, err := regexp.Compile(`\b(?:` + strings.Join(alternatives, "|") + `)`)
	if err != nil {
		return nil, errors.Errorf("compiling package pattern: %w", err)
	}

	return &RuleSet{
		prefix:   prefix,
		names:    append([]string(nil), names...),
		packages: packages,
	}, nil
}

// Prefix returns the literal inserted before renamed packages
func (r *RuleSet) Prefix() string {
	return r.prefix
}

// Rename prefixes every configured package reference with prefix and the
// separator used by that reference: javax/sound/x becomes
// gervill/javax/sound/x. References mixing separators are left alone.
func (r *RuleSet) Rename(content string) (string, int) {
	matches := r.packages.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return content, 0
	}

	var b strings.Builder
	b.Grow(len(content) + len(matches)*(len(r.prefix)+1))

	count := 0
	last := 0
	for _, m := range matches {
		sep, ok := capturedSeparator(content, m)
		if !ok {
			continue
		}
		matched := content[m[0]:m[1]]
		if strings.Count(matched, ".")+strings.Count(matched, "/")+strings.Count(matched, `\`) != strings.Count(matched, sep) {
			continue
		}
		b.WriteString(content[last:m[0]])
		b.WriteString(r.prefix)
		b.WriteString(sep)
		b.WriteString(matched)
		last = m[1]
		count++
	}
	b.WriteString(content[last:])

	return b.String(), count
}

// capturedSeparator returns the separator of whichever alternative matched
func capturedSeparator(content string, m []int) (string, bool) {
	for g := 1; g*2+1 < len(m); g++ {
		if m[g*2] >= 0 {
			return content[m[g*2]:m[g*2+1]], true
		}
	}
	return "", false
}

// CoalesceDocTags unwraps {@link X} to " X"-style inner text and cuts
// @throws and @see tags down to the bare keyword.
func (r *RuleSet) CoalesceDocTags(content string) (string, int) {
	count := 0
	out := docTagPattern.ReplaceAllStringFunc(content, func(match string) string {
		count++
		groups := docTagPattern.FindStringSubmatch(match)
		for _, g := range groups[1:] {
			if g != "" {
				return g
			}
		}
		return ""
	})
	return out, count
}

// StripHeader removes everything up to and including the last package or
// import statement, plus the whitespace after it. Content without such a
// statement is returned unchanged.
func (r *RuleSet) StripHeader(content string) string {
	loc := headerPattern.FindStringIndex(content)
	if loc == nil {
		return content
	}
	return content[loc[1]:]
}
