package containers

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// CollatedLess returns a string ordering that follows the collation
// rules of the given locale, for use with NewTreeMapLess and
// NewTreeSetLess. The returned closure shares one collator and is not
// safe for concurrent use, matching the containers themselves.
func CollatedLess(tag language.Tag, opts ...collate.Option) func(string, string) bool {
	c := collate.New(tag, opts...)
	return func(a, b string) bool {
		return c.CompareString(a, b) < 0
	}
}
