package transform

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/kaelzhang/module-walker/pkg/errors"
)

// MatchRule selects the files a stage applies to.
// Construct one with [Regex], [Glob] or [Predicate].
type MatchRule interface {
	compile() (func(filename string) bool, error)
}

type regexRule string

type globRule string

type predicateRule func(filename string) bool

// Regex matches filenames against a regular expression.
func Regex(pattern string) MatchRule { return regexRule(pattern) }

// Glob matches filenames against a doublestar pattern. Patterns without a
// slash match the base name; others match the slash-separated full path.
func Glob(pattern string) MatchRule { return globRule(pattern) }

// Predicate matches filenames with an arbitrary function.
func Predicate(fn func(filename string) bool) MatchRule { return predicateRule(fn) }

func (r regexRule) compile() (func(string) bool, error) {
	re, err := regexp.Compile(string(r))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidOptions, err, "invalid match regex %q", string(r))
	}
	return re.MatchString, nil
}

func (r globRule) compile() (func(string) bool, error) {
	pattern := string(r)
	if !doublestar.ValidatePattern(pattern) {
		return nil, errors.New(errors.ErrCodeInvalidOptions, "invalid match glob %q", pattern)
	}
	base := !strings.Contains(pattern, "/")
	return func(filename string) bool {
		name := filepath.ToSlash(filename)
		if base {
			name = filepath.Base(filename)
		}
		ok, _ := doublestar.Match(pattern, name)
		return ok
	}, nil
}

func (r predicateRule) compile() (func(string) bool, error) {
	if r == nil {
		return nil, errors.New(errors.ErrCodeInvalidOptions, "nil match predicate")
	}
	return r, nil
}
