package envfile

import (
	"fmt"
	"regexp"
	"strings"
)

var varPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// Lookup resolves a variable name. ok is false when the variable is unset.
type Lookup func(name string) (value string, ok bool)

// MapLookup resolves variables from a map
func MapLookup(vars map[string]string) Lookup {
	return func(name string) (string, bool) {
		v, ok := vars[name]
		return v, ok
	}
}

// Substitute performs compose-style variable substitution on input:
//
//	${VAR}          value, or empty when unset
//	${VAR:-default} default when VAR is unset or empty
//	${VAR-default}  default when VAR is unset
//	${VAR:?err}     error when VAR is unset or empty
//	${VAR?err}      error when VAR is unset
func Substitute(input string, lookup Lookup) (string, error) {
	indices := varPattern.FindAllStringSubmatchIndex(input, -1)
	if len(indices) == 0 {
		return input, nil
	}

	var builder strings.Builder
	builder.Grow(len(input))

	lastPos := 0
	for _, idx := range indices {
		builder.WriteString(input[lastPos:idx[0]])

		substitution, err := evaluate(input[idx[2]:idx[3]], lookup)
		if err != nil {
			return "", err
		}
		builder.WriteString(substitution)

		lastPos = idx[1]
	}
	builder.WriteString(input[lastPos:])

	return builder.String(), nil
}

// splitExpression separates the variable name from its operator and operand.
// The name ends at the first character that cannot appear in a variable name.
func splitExpression(expr string) (name, op, operand string) {
	end := strings.IndexFunc(expr, func(r rune) bool {
		return !(r == '_' || r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	if end == -1 {
		return expr, "", ""
	}
	name, rest := expr[:end], expr[end:]
	for _, token := range []string{":-", ":?", "-", "?"} {
		if strings.HasPrefix(rest, token) {
			return name, token, rest[len(token):]
		}
	}
	return name, rest, ""
}

func evaluate(expr string, lookup Lookup) (string, error) {
	name, op, operand := splitExpression(strings.TrimSpace(expr))
	value, exists := lookup(name)

	switch op {
	case "":
		return value, nil
	case "-":
		if exists {
			return value, nil
		}
		return operand, nil
	case ":-":
		if exists && value != "" {
			return value, nil
		}
		return operand, nil
	case "?":
		if exists {
			return value, nil
		}
		return "", fmt.Errorf("variable %s is not set: %s", name, operand)
	case ":?":
		if exists && value != "" {
			return value, nil
		}
		return "", fmt.Errorf("variable %s is not set or empty: %s", name, operand)
	default:
		return "", fmt.Errorf("invalid variable expression: ${%s}", expr)
	}
}
