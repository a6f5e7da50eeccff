package router

import (
	"fmt"
	"regexp"
	"strings"
)

// placeholder matches a {name} segment in a route pattern.
var placeholder = regexp.MustCompile(`\{([^{}/]*)\}`)

var paramName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// compiled is a route with its pattern turned into an anchored expression.
type compiled struct {
	route Route
	re    *regexp.Regexp
	names []string
}

// compilePattern translates a route pattern into a regular expression.
// Literal text is matched exactly and every {name} matches one non-empty
// path segment.
func compilePattern(pattern string) (*regexp.Regexp, []string, error) {
	var (
		b     strings.Builder
		names []string
		seen  = make(map[string]bool)
		last  int
	)
	b.WriteByte('^')
	for _, loc := range placeholder.FindAllStringSubmatchIndex(pattern, -1) {
		name := pattern[loc[2]:loc[3]]
		if !paramName.MatchString(name) {
			return nil, nil, fmt.Errorf("router: invalid parameter name %q in %q", name, pattern)
		}
		if seen[name] {
			return nil, nil, fmt.Errorf("router: duplicate parameter %q in %q", name, pattern)
		}
		seen[name] = true
		names = append(names, name)

		b.WriteString(regexp.QuoteMeta(pattern[last:loc[0]]))
		b.WriteString("(?P<" + name + ">[^/]+)")
		last = loc[1]
	}
	b.WriteString(regexp.QuoteMeta(pattern[last:]))
	b.WriteByte('$')

	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, nil, fmt.Errorf("router: compiling %q: %w", pattern, err)
	}
	return re, names, nil
}

// match reports whether path matches and returns its parameters.
func (c *compiled) match(path string) (Params, bool) {
	if c.re == nil {
		return nil, false
	}
	m := c.re.FindStringSubmatch(path)
	if m == nil {
		return nil, false
	}
	params := make(Params, len(c.names))
	for i, name := range c.re.SubexpNames() {
		if name != "" {
			params[name] = m[i]
		}
	}
	return params, true
}
