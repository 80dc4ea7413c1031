package internal

// ExecutionContext is the stack of running effects. The top of the stack is
// the active effect that Track attributes reads to.
type ExecutionContext struct {
	stack []*Effect
}

func NewContext() *ExecutionContext {
	return &ExecutionContext{
		stack: make([]*Effect, 0, 8),
	}
}

// RunWithEffect runs fn with e as the active effect. The previous active
// effect is restored when fn returns or panics. A nil e runs fn untracked.
func (ctx *ExecutionContext) RunWithEffect(e *Effect, fn func()) {
	depth := len(ctx.stack)
	ctx.stack = append(ctx.stack, e)
	defer func() {
		clear(ctx.stack[depth:])
		ctx.stack = ctx.stack[:depth]
	}()

	fn()
}

func (ctx *ExecutionContext) Active() *Effect {
	if len(ctx.stack) == 0 {
		return nil
	}

	return ctx.stack[len(ctx.stack)-1]
}

func (ctx *ExecutionContext) Depth() int {
	return len(ctx.stack)
}
