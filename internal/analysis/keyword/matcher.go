package keyword

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Chooser picks an index in [0, n). *rand.Rand satisfies it.
type Chooser interface {
	Intn(n int) int
}

// Matcher evaluates an ordered rule table against user text.
type Matcher struct {
	rules    []Rule
	fallback []string
}

// NewMatcher validates the rule table and fallback pool.
func NewMatcher(rules []Rule, fallback []string) (*Matcher, error) {
	if len(fallback) == 0 {
		return nil, errors.New("fallback pool is empty")
	}
	for i, rule := range rules {
		if len(rule.Triggers) == 0 {
			return nil, fmt.Errorf("rule %d (%s) has no triggers", i, rule.Name)
		}
		if rule.Dynamic == nil && len(rule.Responses) == 0 {
			return nil, fmt.Errorf("rule %d (%s) has no responses", i, rule.Name)
		}
	}

	return &Matcher{
		rules:    append([]Rule(nil), rules...),
		fallback: append([]string(nil), fallback...),
	}, nil
}

// Default returns a matcher over DefaultRules and FallbackResponses.
func Default() *Matcher {
	m, err := NewMatcher(DefaultRules, FallbackResponses)
	if err != nil {
		panic(err)
	}
	return m
}

// Match returns the first rule with a trigger contained in the lower-cased
// text.
func (m *Matcher) Match(text string) (Rule, bool) {
	normalized := strings.ToLower(text)
	for _, rule := range m.rules {
		for _, trigger := range rule.Triggers {
			if strings.Contains(normalized, trigger) {
				return rule, true
			}
		}
	}
	return Rule{}, false
}

// Respond produces the reply for text. Dynamic rules are rendered at now;
// canned pools and the fallback pool are sampled with choose.
func (m *Matcher) Respond(text string, now time.Time, choose Chooser) string {
	rule, ok := m.Match(text)
	if !ok {
		return pick(m.fallback, choose)
	}
	if rule.Dynamic != nil {
		return rule.Dynamic(now)
	}
	return pick(rule.Responses, choose)
}

// Fallback exposes the generic filler pool.
func (m *Matcher) Fallback() []string {
	return append([]string(nil), m.fallback...)
}

func pick(pool []string, choose Chooser) string {
	if len(pool) == 1 {
		return pool[0]
	}
	return pool[choose.Intn(len(pool))]
}
