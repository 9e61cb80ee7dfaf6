package visibility

// Evaluator decides whether a field is currently visible given its
// dependency rule and the live form values. Implementations are expected to
// fail open: a rule the evaluator cannot make sense of yields true, so a
// misconfigured schema never hides content.
type Evaluator interface {
	Eval(fieldID, rule string, ctx Context) bool
}

// Context carries the inputs an Evaluator reads. Values is the current form
// data snapshot keyed by field id; Extras lets hosts inject additional
// read-only context such as user roles.
type Context struct {
	Values map[string]any
	Extras map[string]any
}

// EvaluatorFunc adapts a plain function into an Evaluator.
type EvaluatorFunc func(fieldID, rule string, ctx Context) bool

// Eval delegates to the underlying function.
func (fn EvaluatorFunc) Eval(fieldID, rule string, ctx Context) bool {
	return fn(fieldID, rule, ctx)
}
