package analysis

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidRuleFormat is returned when a rule condition does not follow
// the "<op> <number>" grammar. It is fatal at table load time.
var ErrInvalidRuleFormat = errors.New("invalid rule condition format")

// Operator is a comparison operator of a rule condition.
type Operator int

const (
	OpLess Operator = iota
	OpLessEq
	OpGreater
	OpGreaterEq
)

// String returns the condition token for the operator.
func (op Operator) String() string {
	switch op {
	case OpLess:
		return "<"
	case OpLessEq:
		return "<="
	case OpGreater:
		return ">"
	case OpGreaterEq:
		return ">="
	}
	return "?"
}

var comparators = map[Operator]func(value, threshold float64) bool{
	OpLess:      func(v, t float64) bool { return v < t },
	OpLessEq:    func(v, t float64) bool { return v <= t },
	OpGreater:   func(v, t float64) bool { return v > t },
	OpGreaterEq: func(v, t float64) bool { return v >= t },
}

// Rule is one diagnostic rule. Rules are evaluated in declaration order;
// the first match wins.
type Rule struct {
	ID          string
	Feature     string
	Condition   string
	Op          Operator
	Threshold   float64
	Explanation string
	Advice      string
}

// RuleTable is an ordered collection of diagnostic rules, loaded once at
// startup and read-only thereafter.
type RuleTable struct {
	rules []Rule
}

// Rules returns the rules in declaration order.
func (t *RuleTable) Rules() []Rule {
	return t.rules
}

// Len returns the number of rules in the table.
func (t *RuleTable) Len() int {
	return len(t.rules)
}

// LoadRuleTable reads the rule table from a JSON file. A missing or
// malformed file is a startup-fatal condition for the caller.
func LoadRuleTable(path string) (*RuleTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rule table: %w", err)
	}
	defer f.Close()

	table, err := ParseRuleTable(f)
	if err != nil {
		return nil, fmt.Errorf("parse rule table %s: %w", path, err)
	}
	return table, nil
}

type ruleBody struct {
	Feature     string `json:"feature"`
	Condition   string `json:"condition"`
	Explanation string `json:"explanation"`
	Advice      string `json:"advice"`
}

// ParseRuleTable parses the JSON mapping from rule id to rule body. The
// object's key order is preserved by walking the token stream, so rule
// priority is exactly declaration order.
func ParseRuleTable(r io.Reader) (*RuleTable, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("rule table must be a JSON object")
	}

	table := &RuleTable{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		id, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("rule table key is not a string")
		}

		var body ruleBody
		if err := dec.Decode(&body); err != nil {
			return nil, fmt.Errorf("rule %q: %w", id, err)
		}

		op, threshold, err := ParseCondition(body.Condition)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", id, err)
		}

		table.rules = append(table.rules, Rule{
			ID:          id,
			Feature:     body.Feature,
			Condition:   body.Condition,
			Op:          op,
			Threshold:   threshold,
			Explanation: body.Explanation,
			Advice:      body.Advice,
		})
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return table, nil
}

var conditionRe = regexp.MustCompile(`^(<=|>=|<|>)\s*(-?[0-9]+(?:\.[0-9]+)?)$`)

// ParseCondition parses an operator token followed by a signed decimal
// number, e.g. "> 0.15" or "<= 40".
func ParseCondition(condition string) (Operator, float64, error) {
	m := conditionRe.FindStringSubmatch(strings.TrimSpace(condition))
	if m == nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidRuleFormat, condition)
	}

	var op Operator
	switch m[1] {
	case "<":
		op = OpLess
	case "<=":
		op = OpLessEq
	case ">":
		op = OpGreater
	case ">=":
		op = OpGreaterEq
	}

	threshold, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidRuleFormat, condition)
	}
	return op, threshold, nil
}

// percentageCutoff reconciles percentage-authored thresholds with
// fraction-valued features: a fraction in [0, 1] is scaled by 100 before
// comparison when the threshold magnitude exceeds 1.2.
const percentageCutoff = 1.2

// EvalCondition compares a feature value against a rule threshold,
// applying the percentage scaling when appropriate.
func EvalCondition(value float64, op Operator, threshold float64) bool {
	if value <= 1.0 && math.Abs(threshold) > percentageCutoff {
		value *= 100
	}
	cmp, ok := comparators[op]
	if !ok {
		return false
	}
	return cmp(value, threshold)
}

// MatchedRule is the outcome of rule selection, shaped for the result
// schema.
type MatchedRule struct {
	RuleID      string `json:"rule_id"`
	Feature     string `json:"feature"`
	Condition   string `json:"condition"`
	Explanation string `json:"explanation"`
	Advice      string `json:"advice"`
}

// DefaultRule returns the fixed fallback returned when no rule matches.
func DefaultRule() MatchedRule {
	return MatchedRule{
		RuleID:      "default",
		Feature:     "n/a",
		Condition:   "n/a",
		Explanation: "Skin condition looks stable. Keep up your current routine and daily sun protection.",
		Advice:      "Maintain regular sleep, stay hydrated, and stick to gentle cleansing with moisturizer.",
	}
}

// SelectRule scans the table in declaration order and returns the first
// rule whose feature is present in the vector and whose condition holds.
// Missing or unmatched features never fail; the fixed default rule is
// returned when nothing matches.
func (t *RuleTable) SelectRule(features FeatureVector) MatchedRule {
	for _, rule := range t.rules {
		value, ok := features[rule.Feature]
		if !ok {
			continue
		}
		if EvalCondition(value, rule.Op, rule.Threshold) {
			return MatchedRule{
				RuleID:      rule.ID,
				Feature:     rule.Feature,
				Condition:   rule.Condition,
				Explanation: rule.Explanation,
				Advice:      rule.Advice,
			}
		}
	}
	return DefaultRule()
}
