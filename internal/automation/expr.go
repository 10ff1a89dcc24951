package automation

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// ExprCondition evaluates a boolean expression against the tick.
//
// Variables: Hour, Minute, Weekday ("Monday"...), Armed.
// Functions: IsDark(room), Motion(room), IsOn(device).
//
//	Hour >= 18 && IsDark("Living Room") && !Armed
type ExprCondition struct {
	source  string
	program *vm.Program
}

// NewExprCondition compiles src. Compilation errors are configuration faults.
func NewExprCondition(src string) (*ExprCondition, error) {
	program, err := expr.Compile(src, expr.Env(exprEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("%w: compiling expression %q: %v", ErrInvalidRule, src, err)
	}
	return &ExprCondition{source: src, program: program}, nil
}

func (e *ExprCondition) Evaluate(c Context) (bool, error) {
	t := c.Time()
	env := exprEnv{
		Hour:    t.Hour(),
		Minute:  t.Minute(),
		Weekday: t.Weekday().String(),
		Armed:   c.Environment().IsSecurityArmed(),
		ctx:     c,
	}
	out, err := expr.Run(e.program, env)
	if err != nil {
		return false, fmt.Errorf("evaluating %q: %w", e.source, err)
	}
	ok, _ := out.(bool)
	return ok, nil
}

func (e *ExprCondition) Describe() string { return "expr " + e.source }

// Source returns the expression text.
func (e *ExprCondition) Source() string { return e.source }

type exprEnv struct {
	Hour    int
	Minute  int
	Weekday string
	Armed   bool

	ctx Context
}

func (e exprEnv) IsDark(room string) bool {
	ok, err := RoomDark{Room: room}.Evaluate(e.ctx)
	return err == nil && ok
}

func (e exprEnv) Motion(room string) bool {
	ok, err := MotionIn{Room: room}.Evaluate(e.ctx)
	return err == nil && ok
}

func (e exprEnv) IsOn(device string) bool {
	if e.ctx.env == nil {
		return false
	}
	dev, err := e.ctx.env.DeviceByName(device)
	if err != nil {
		return false
	}
	return dev.IsOn()
}
