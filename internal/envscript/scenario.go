package envscript

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
	yamlLex "github.com/goccy/go-yaml/lexer"
	yamlParse "github.com/goccy/go-yaml/parser"
	"github.com/goccy/go-yaml/token"
	"github.com/inoxlang/hypenv/internal/hypenv"
	"github.com/inoxlang/hypenv/internal/utils"
)

const (
	OP_BIND          = "bind"
	OP_APPEND        = "append"
	OP_DELETE        = "delete"
	OP_REPLACE       = "replace"
	OP_SPLIT         = "split"
	OP_CLEAR_SPATIAL = "clear-spatial"
	OP_EXPECT        = "expect"
	OP_EXPECT_ENV    = "expect-env"

	KEEP_LEFT  = "left"
	KEEP_RIGHT = "right"
)

var (
	OPS = []string{OP_BIND, OP_APPEND, OP_DELETE, OP_REPLACE, OP_SPLIT, OP_CLEAR_SPATIAL, OP_EXPECT, OP_EXPECT_ENV}

	ErrUnknownOp         = errors.New("unknown operation")
	ErrMissingField      = errors.New("missing field")
	ErrInvalidScenario   = errors.New("invalid scenario")
	ErrUnknownHandle     = errors.New("unknown handle")
	ErrExpectationFailed = errors.New("expectation failed")
	ErrNonStringItem     = errors.New("items should be strings, quote them")
)

// A Scenario describes an initial store of string items and a list of steps applied to it.
// Scenarios are written in YAML, since JSON is a subset of YAML JSON files are also accepted.
// Items are plain or quoted strings: numbers, booleans and nulls are rejected because decoding them
// would not preserve their text (1.50 would become "1.5").
type Scenario struct {
	Intuitionistic []string `yaml:"intuitionistic" json:"intuitionistic"`
	Spatial        []string `yaml:"spatial" json:"spatial"`
	Steps          []Step   `yaml:"steps" json:"steps"`
}

type Step struct {
	Op string `yaml:"op" json:"op"`

	//bind
	Name string `yaml:"name,omitempty" json:"name,omitempty"`

	//delete, replace & expect
	Handle               string `yaml:"handle,omitempty" json:"handle,omitempty"`
	RemoveIntuitionistic bool   `yaml:"removeIntuitionistic,omitempty" json:"removeIntuitionistic,omitempty"`

	Region string  `yaml:"region,omitempty" json:"region,omitempty"`
	Index  *int    `yaml:"index,omitempty" json:"index,omitempty"`
	Item   *string `yaml:"item,omitempty" json:"item,omitempty"`

	//name of the handle bound to the new item (append & replace)
	As string `yaml:"as,omitempty" json:"as,omitempty"`

	//split
	Mask []bool `yaml:"mask,omitempty" json:"mask,omitempty"`
	Keep string `yaml:"keep,omitempty" json:"keep,omitempty"`

	//expect-env
	ExpectedIntuitionistic *[]string `yaml:"intuitionistic,omitempty" json:"intuitionistic,omitempty"`
	ExpectedSpatial        *[]string `yaml:"spatial,omitempty" json:"spatial,omitempty"`
}

func ParseScenario(content []byte) (*Scenario, error) {
	tokens := yamlLex.Tokenize(string(content))
	if err := checkFlowCollections(tokens); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}

	file, err := yamlParse.Parse(tokens, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}

	checker := &itemChecker{}
	for _, doc := range file.Docs {
		ast.Walk(checker, doc)
	}
	if len(checker.errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScenario, utils.CombineErrors(checker.errs...))
	}

	scenario := &Scenario{}
	if err := yaml.Unmarshal(content, scenario); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}
	return scenario, nil
}

// checkFlowCollections returns an error if a flow sequence or mapping is not closed,
// the YAML parser silently accepts unterminated ones ("steps: [").
func checkFlowCollections(tokens token.Tokens) error {
	var open []*token.Token

	for _, tok := range tokens {
		switch tok.Type {
		case token.SequenceStartType, token.MappingStartType:
			open = append(open, tok)
		case token.SequenceEndType, token.MappingEndType:
			if len(open) == 0 || !closes(open[len(open)-1].Type, tok.Type) {
				return fmt.Errorf("unexpected '%s' at line %d", tok.Value, tok.Position.Line)
			}
			open = open[:len(open)-1]
		}
	}

	if len(open) > 0 {
		unclosed := open[len(open)-1]
		return fmt.Errorf("unterminated '%s' (line %d)", unclosed.Value, unclosed.Position.Line)
	}
	return nil
}

func closes(start, end token.Type) bool {
	return (start == token.SequenceStartType && end == token.SequenceEndType) ||
		(start == token.MappingStartType && end == token.MappingEndType)
}

// itemChecker collects the non-string items of a scenario: the elements of intuitionistic & spatial
// sequences and the values of item fields.
type itemChecker struct {
	errs []error
}

func (c *itemChecker) Visit(node ast.Node) ast.Visitor {
	mappingValue, ok := node.(*ast.MappingValueNode)
	if !ok || mappingValue.Key == nil {
		return c
	}

	switch mappingValue.Key.GetToken().Value {
	case "intuitionistic", "spatial":
		if seq, ok := mappingValue.Value.(*ast.SequenceNode); ok {
			for _, value := range seq.Values {
				c.checkItem(value)
			}
		}
	case "item":
		c.checkItem(mappingValue.Value)
	}
	return c
}

func (c *itemChecker) checkItem(node ast.Node) {
	if _, ok := node.(*ast.StringNode); ok {
		return
	}
	if node == nil {
		c.errs = append(c.errs, fmt.Errorf("%w: missing value", ErrNonStringItem))
		return
	}
	line := 0
	if tok := node.GetToken(); tok != nil && tok.Position != nil {
		line = tok.Position.Line
	}
	c.errs = append(c.errs, fmt.Errorf("%w: %s (line %d)", ErrNonStringItem, node.String(), line))
}

func ReadScenarioFile(path string) (*Scenario, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(content)
}

// Validate statically checks the steps of the scenario and returns all the problems found.
// Errors depending on the state of the store (out of bounds indexes, unknown handles, ...)
// are only detected when the scenario is run.
func (s *Scenario) Validate() error {
	var errs []error

	for i, step := range s.Steps {
		if err := step.validate(); err != nil {
			errs = append(errs, fmt.Errorf("step %d (%s): %w", i, step.Op, err))
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidScenario, utils.CombineErrors(errs...))
}

func (step Step) validate() error {
	require := func(present bool, field string) error {
		if !present {
			return fmt.Errorf("%w: %s", ErrMissingField, field)
		}
		return nil
	}

	checkRegion := func() error {
		_, err := hypenv.ParseRegion(step.Region)
		return err
	}

	switch step.Op {
	case OP_BIND:
		if err := require(step.Name != "", "name"); err != nil {
			return err
		}
		if err := require(step.Index != nil, "index"); err != nil {
			return err
		}
		return checkRegion()
	case OP_APPEND:
		if err := require(step.Item != nil, "item"); err != nil {
			return err
		}
		return checkRegion()
	case OP_DELETE:
		return require(step.Handle != "", "handle")
	case OP_REPLACE:
		if err := require(step.Handle != "", "handle"); err != nil {
			return err
		}
		if err := require(step.Item != nil, "item"); err != nil {
			return err
		}
		return checkRegion()
	case OP_SPLIT:
		if step.Keep != KEEP_LEFT && step.Keep != KEEP_RIGHT {
			return fmt.Errorf("keep should be %q or %q", KEEP_LEFT, KEEP_RIGHT)
		}
		return nil
	case OP_CLEAR_SPATIAL:
		return nil
	case OP_EXPECT:
		if err := require(step.Handle != "", "handle"); err != nil {
			return err
		}
		if step.Region != "" {
			return checkRegion()
		}
		return nil
	case OP_EXPECT_ENV:
		return require(step.ExpectedIntuitionistic != nil || step.ExpectedSpatial != nil, "intuitionistic or spatial")
	default:
		return fmt.Errorf("%w %q", ErrUnknownOp, step.Op)
	}
}

func (step Step) side() hypenv.Side {
	if step.Keep == KEEP_LEFT {
		return hypenv.Left
	}
	return hypenv.Right
}
