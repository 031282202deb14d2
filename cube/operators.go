package cube

func (exec *Execution) applyPrefix(operator string, right Value, pos Position) (Value, error) {
	switch operator {
	case "!":
		return NewBool(!right.Truthy()), nil
	case "-":
		switch right.Kind() {
		case KindInt:
			return NewInt(-right.Int()), nil
		case KindFloat:
			return NewFloat(-right.Float()), nil
		}
		return NewNil(), exec.errorAt(pos, "cannot negate %s", right.Kind())
	default:
		return NewNil(), exec.errorAt(pos, "unknown operator %s", operator)
	}
}

func (exec *Execution) applyInfix(operator string, left, right Value, pos Position) (Value, error) {
	switch operator {
	case "==":
		return NewBool(left.Equal(right)), nil
	case "!=":
		return NewBool(!left.Equal(right)), nil
	}

	if left.Kind() == KindString || right.Kind() == KindString {
		switch operator {
		case "+":
			return NewString(left.String() + right.String()), nil
		case "<", ">", "<=", ">=":
			if left.Kind() == KindString && right.Kind() == KindString {
				return compareStrings(operator, left.Str(), right.Str()), nil
			}
		}
		return NewNil(), exec.errorAt(pos, "operator %s not defined for %s and %s", operator, left.Kind(), right.Kind())
	}

	if !isNumeric(left) || !isNumeric(right) {
		return NewNil(), exec.errorAt(pos, "operator %s not defined for %s and %s", operator, left.Kind(), right.Kind())
	}

	if left.Kind() == KindFloat || right.Kind() == KindFloat {
		return exec.applyFloatInfix(operator, left.Float(), right.Float(), pos)
	}
	return exec.applyIntInfix(operator, left.Int(), right.Int(), pos)
}

func (exec *Execution) applyIntInfix(operator string, left, right int64, pos Position) (Value, error) {
	switch operator {
	case "+":
		return NewInt(left + right), nil
	case "-":
		return NewInt(left - right), nil
	case "*":
		return NewInt(left * right), nil
	case "/":
		if right == 0 {
			return NewNil(), exec.errorAt(pos, "division by zero")
		}
		if left%right != 0 {
			return NewFloat(float64(left) / float64(right)), nil
		}
		return NewInt(left / right), nil
	case "%":
		if right == 0 {
			return NewNil(), exec.errorAt(pos, "division by zero")
		}
		return NewInt(left % right), nil
	case "<":
		return NewBool(left < right), nil
	case ">":
		return NewBool(left > right), nil
	case "<=":
		return NewBool(left <= right), nil
	case ">=":
		return NewBool(left >= right), nil
	default:
		return NewNil(), exec.errorAt(pos, "unknown operator %s", operator)
	}
}

func (exec *Execution) applyFloatInfix(operator string, left, right float64, pos Position) (Value, error) {
	switch operator {
	case "+":
		return NewFloat(left + right), nil
	case "-":
		return NewFloat(left - right), nil
	case "*":
		return NewFloat(left * right), nil
	case "/":
		if right == 0 {
			return NewNil(), exec.errorAt(pos, "division by zero")
		}
		return NewFloat(left / right), nil
	case "%":
		return NewNil(), exec.errorAt(pos, "operator %% not defined for floats")
	case "<":
		return NewBool(left < right), nil
	case ">":
		return NewBool(left > right), nil
	case "<=":
		return NewBool(left <= right), nil
	case ">=":
		return NewBool(left >= right), nil
	default:
		return NewNil(), exec.errorAt(pos, "unknown operator %s", operator)
	}
}

func compareStrings(operator, left, right string) Value {
	switch operator {
	case "<":
		return NewBool(left < right)
	case ">":
		return NewBool(left > right)
	case "<=":
		return NewBool(left <= right)
	default:
		return NewBool(left >= right)
	}
}
