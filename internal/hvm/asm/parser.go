// Package asm tokenises the textual source program into the Operation
// stream vm.Compile pads and hashes (spec §6).
package asm

import (
	"strconv"
	"strings"

	"github.com/vybium/hvm-stark/internal/hvm/vm"
)

const commentSymbol = "#"

// Parse tokenises source, strips comments, and parses every token into an
// Operation. Line numbers in errors are 1-based token positions, matching
// the reference loader's step numbering.
func Parse(source string) ([]vm.Operation, error) {
	tokens := tokenize(source)
	if len(tokens) == 0 {
		return nil, &vm.ProgramError{Kind: vm.EmptyProgram}
	}

	ops := make([]vm.Operation, 0, len(tokens))
	for i, token := range tokens {
		op, err := parseToken(token, i+1)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}

func tokenize(source string) []string {
	var tokens []string
	for _, line := range strings.Split(source, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, commentSymbol) {
			continue
		}
		if idx := strings.Index(line, commentSymbol); idx >= 0 {
			line = line[:idx]
		}
		for _, tok := range strings.Fields(line) {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

func parseToken(token string, step int) (vm.Operation, error) {
	parts := strings.Split(token, ".")

	switch parts[0] {
	case "noop":
		return parseNoArg(parts, step, vm.Noop)
	case "read":
		return parseNoArg(parts, step, vm.Read)
	case "read2":
		return parseNoArg(parts, step, vm.Read2)
	case "add":
		return parseNoArg(parts, step, vm.Add)
	case "mul":
		return parseNoArg(parts, step, vm.Mul)
	case "sadd":
		return parseNoArg(parts, step, vm.SAdd)
	case "smul":
		return parseNoArg(parts, step, vm.SMul)
	case "add2":
		return parseNoArg(parts, step, vm.Add2)
	case "push":
		return parsePush(parts, step)
	default:
		return vm.Operation{}, &vm.ProgramError{Kind: vm.InvalidOp, Line: step, Tokens: parts}
	}
}

func parseNoArg(parts []string, step int, op vm.Opcode) (vm.Operation, error) {
	if len(parts) > 1 {
		return vm.Operation{}, &vm.ProgramError{Kind: vm.ExtraParam, Line: step, Tokens: parts}
	}
	return vm.Operation{Op: op}, nil
}

func parsePush(parts []string, step int) (vm.Operation, error) {
	if len(parts) == 1 {
		return vm.Operation{}, &vm.ProgramError{Kind: vm.MissingParam, Line: step, Tokens: parts}
	}
	if len(parts) > 2 {
		return vm.Operation{}, &vm.ProgramError{Kind: vm.ExtraParam, Line: step, Tokens: parts}
	}
	value, err := strconv.ParseUint(parts[1], 10, 8)
	if err != nil {
		return vm.Operation{}, &vm.ProgramError{Kind: vm.InvalidParam, Line: step, Tokens: parts}
	}
	return vm.Operation{Op: vm.Push, Immediate: uint8(value)}, nil
}
