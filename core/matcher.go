package core

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/huangsam/gitpick/schema"
	"github.com/sahilm/fuzzy"
)

// Matcher filters candidates by an input pattern. Matching is done on the
// displayed text of each candidate.
type Matcher interface {
	Name() schema.MatcherName
	Filter(candidates []schema.Candidate, pattern string) []schema.Candidate
}

// NewMatcher returns the matcher registered under name.
func NewMatcher(name schema.MatcherName) (Matcher, error) {
	switch name {
	case schema.FuzzyMatcher:
		return fuzzyMatcher{}, nil
	case schema.RegexpMatcher:
		return regexpMatcher{}, nil
	default:
		return nil, fmt.Errorf("unknown matcher '%s'", name)
	}
}

// candidateSource exposes candidate display text to the fuzzy package.
type candidateSource []schema.Candidate

func (s candidateSource) String(i int) string { return s[i].Display() }
func (s candidateSource) Len() int            { return len(s) }

// fuzzyMatcher ranks candidates that contain every token as a subsequence.
type fuzzyMatcher struct{}

// Name implements Matcher.
func (fuzzyMatcher) Name() schema.MatcherName { return schema.FuzzyMatcher }

// Filter implements Matcher. A single token ranks by score, several tokens
// narrow the result in candidate order.
func (fuzzyMatcher) Filter(candidates []schema.Candidate, pattern string) []schema.Candidate {
	tokens := strings.Fields(pattern)
	if len(tokens) == 0 {
		return candidates
	}
	if len(tokens) == 1 {
		matches := fuzzy.FindFrom(tokens[0], candidateSource(candidates))
		out := make([]schema.Candidate, 0, len(matches))
		for _, m := range matches {
			out = append(out, candidates[m.Index])
		}
		return out
	}

	out := candidates
	for _, token := range tokens {
		matches := fuzzy.FindFromNoSort(token, candidateSource(out))
		next := make([]schema.Candidate, 0, len(matches))
		for _, m := range matches {
			next = append(next, out[m.Index])
		}
		out = next
	}
	return out
}

// regexpMatcher keeps candidates matching every token as a regular expression.
// Tokens without upper case letters match case-insensitively.
type regexpMatcher struct{}

// Name implements Matcher.
func (regexpMatcher) Name() schema.MatcherName { return schema.RegexpMatcher }

// Filter implements Matcher. Invalid expressions are matched literally.
func (regexpMatcher) Filter(candidates []schema.Candidate, pattern string) []schema.Candidate {
	tokens := strings.Fields(pattern)
	if len(tokens) == 0 {
		return candidates
	}
	res := make([]*regexp.Regexp, 0, len(tokens))
	for _, token := range tokens {
		res = append(res, compileToken(token))
	}

	var out []schema.Candidate
	for _, c := range candidates {
		text := c.Display()
		ok := true
		for _, re := range res {
			if !re.MatchString(text) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, c)
		}
	}
	return out
}

// compileToken compiles one token with smartcase.
func compileToken(token string) *regexp.Regexp {
	prefix := ""
	if !strings.ContainsFunc(token, unicode.IsUpper) {
		prefix = "(?i)"
	}
	re, err := regexp.Compile(prefix + token)
	if err != nil {
		re = regexp.MustCompile(prefix + regexp.QuoteMeta(token))
	}
	return re
}
