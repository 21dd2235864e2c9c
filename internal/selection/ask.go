package selection

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Ask walks the user through every feature not already present in raw,
// using numbered menus for enumerations and y/N questions for booleans.
// Answers are added to a copy of raw; an empty answer keeps the default.
func Ask(raw map[string]any, features []Feature, r io.Reader, w io.Writer) (map[string]any, error) {
	reader := bufio.NewReader(r)
	out := make(map[string]any, len(raw)+len(features))
	for k, v := range raw {
		out[k] = v
	}

	for _, f := range features {
		if answered(out, f) {
			continue
		}
		var (
			v   any
			err error
		)
		switch {
		case f.Kind == KindBool:
			v, err = askBool(reader, w, f)
		case len(f.Allowed) > 0:
			v, err = askChoice(reader, w, f)
		default:
			v, err = askString(reader, w, f)
		}
		if err != nil {
			return nil, err
		}
		if v != nil {
			out[f.Name] = v
		}
	}
	return out, nil
}

// answered reports whether raw already has a value for f under its name or
// an alias.
func answered(raw map[string]any, f Feature) bool {
	if v, ok := raw[f.Name]; ok && v != nil {
		return true
	}
	for _, a := range f.Aliases {
		if v, ok := raw[a]; ok && v != nil {
			return true
		}
	}
	return false
}

func askBool(reader *bufio.Reader, w io.Writer, f Feature) (any, error) {
	def, _ := f.Default.(bool)
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	fmt.Fprintf(w, "%s? [%s]: ", label(f), hint)

	line, err := readLine(reader)
	if err != nil {
		return nil, err
	}
	if line == "" {
		return nil, nil
	}
	switch strings.ToLower(line) {
	case "y":
		line = "yes"
	case "n":
		line = "no"
	}
	b, ok := parseBool(line)
	if !ok {
		return nil, &ConfigurationError{Feature: f.Name, Value: line, Reason: "answer yes or no"}
	}
	return b, nil
}

func askChoice(reader *bufio.Reader, w io.Writer, f Feature) (any, error) {
	def, _ := f.Default.(string)
	fmt.Fprintf(w, "\n%s:\n", label(f))
	for i, item := range f.Allowed {
		marker := ""
		if item == def {
			marker = " (default)"
		}
		fmt.Fprintf(w, "  %d) %s%s\n", i+1, item, marker)
	}
	fmt.Fprintf(w, "Enter number [1-%d]: ", len(f.Allowed))

	line, err := readLine(reader)
	if err != nil {
		return nil, err
	}
	if line == "" {
		return nil, nil
	}
	num, err := strconv.Atoi(line)
	if err != nil || num < 1 || num > len(f.Allowed) {
		return nil, &ConfigurationError{Feature: f.Name, Value: line,
			Reason: fmt.Sprintf("choose 1-%d", len(f.Allowed))}
	}
	return f.Allowed[num-1], nil
}

func askString(reader *bufio.Reader, w io.Writer, f Feature) (any, error) {
	def, _ := f.Default.(string)
	if def != "" {
		fmt.Fprintf(w, "%s [%s]: ", label(f), def)
	} else {
		fmt.Fprintf(w, "%s: ", label(f))
	}
	line, err := readLine(reader)
	if err != nil {
		return nil, err
	}
	if line == "" {
		return nil, nil
	}
	return line, nil
}

// readLine reads one trimmed line. EOF after a partial line is accepted.
func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("reading answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func label(f Feature) string {
	if f.Usage != "" {
		return f.Usage
	}
	return f.Name
}
