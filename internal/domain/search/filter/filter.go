// Package filter models boolean property filters applied before search.
package filter

import "fmt"

// MaxConditionsPerGroup is the maximum number of conditions per filter group.
const MaxConditionsPerGroup = 32

// Expression is a structured filter with must/should/must_not boolean
// semantics: all must conditions AND (any should condition) AND none of the
// must-not conditions.
type Expression struct {
	must    []Condition
	should  []Condition
	mustNot []Condition
}

// NewExpression validates and creates a filter Expression.
func NewExpression(must, should, mustNot []Condition) (Expression, error) {
	if len(must) > MaxConditionsPerGroup {
		return Expression{}, fmt.Errorf("too many must conditions (max %d)", MaxConditionsPerGroup)
	}
	if len(should) > MaxConditionsPerGroup {
		return Expression{}, fmt.Errorf("too many should conditions (max %d)", MaxConditionsPerGroup)
	}
	if len(mustNot) > MaxConditionsPerGroup {
		return Expression{}, fmt.Errorf("too many must_not conditions (max %d)", MaxConditionsPerGroup)
	}
	return Expression{must: must, should: should, mustNot: mustNot}, nil
}

// Must returns the must conditions.
func (e Expression) Must() []Condition { return e.must }

// Should returns the should conditions.
func (e Expression) Should() []Condition { return e.should }

// MustNot returns the must-not conditions.
func (e Expression) MustNot() []Condition { return e.mustNot }

// IsEmpty reports whether the expression has no conditions.
func (e Expression) IsEmpty() bool {
	return len(e.must) == 0 && len(e.should) == 0 && len(e.mustNot) == 0
}

// Condition is a single filter clause: an exact tag match on a property.
type Condition struct {
	key   string
	match string
}

// NewMatch creates an exact tag match condition.
func NewMatch(key, match string) (Condition, error) {
	if key == "" {
		return Condition{}, fmt.Errorf("filter key is required")
	}
	if match == "" {
		return Condition{}, fmt.Errorf("match value is required for key %q", key)
	}
	return Condition{key: key, match: match}, nil
}

// Key returns the field name.
func (c Condition) Key() string { return c.key }

// Match returns the exact match value.
func (c Condition) Match() string { return c.match }

// TitleFilter builds the include/exclude composition used by document search:
// targetTitles become a should group (match any), excludeTitles become
// must-not conditions. Empty titles are skipped.
func TitleFilter(targetTitles, excludeTitles []string) (Expression, error) {
	var should, mustNot []Condition

	for _, t := range targetTitles {
		if t == "" {
			continue
		}
		c, err := NewMatch("title", t)
		if err != nil {
			return Expression{}, err
		}
		should = append(should, c)
	}

	for _, t := range excludeTitles {
		if t == "" {
			continue
		}
		c, err := NewMatch("title", t)
		if err != nil {
			return Expression{}, err
		}
		mustNot = append(mustNot, c)
	}

	return NewExpression(nil, should, mustNot)
}
