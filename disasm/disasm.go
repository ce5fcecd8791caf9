// Package disasm decodes raw EVM bytecode into an ordered instruction stream
// and derives simple syntactic metrics from it.
package disasm

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedInput reports bytecode that cannot be framed as a hex byte
// string: missing 0x prefix, empty payload, or non-hex digits.
var ErrMalformedInput = errors.New("malformed bytecode input")

// Instruction is a single decoded EVM instruction. Immediate is nil for
// everything except PUSH1..PUSH32.
type Instruction struct {
	Offset    int
	Mnemonic  string
	Immediate []byte
}

// IsPush reports whether the instruction is any PUSH variant, PUSH0 included.
func (i Instruction) IsPush() bool {
	return strings.HasPrefix(i.Mnemonic, "PUSH")
}

func (i Instruction) String() string {
	if len(i.Immediate) == 0 {
		return i.Mnemonic
	}
	return fmt.Sprintf("%s 0x%s", i.Mnemonic, hex.EncodeToString(i.Immediate))
}

// Disassemble decodes a 0x-prefixed hex bytecode string into its instruction
// sequence. PUSH1..PUSH32 consume their immediate bytes; a PUSH truncated by
// the end of the code keeps the short immediate rather than failing, so the
// decode is total over any well-framed input.
func Disassemble(bytecode string) ([]Instruction, error) {
	if !strings.HasPrefix(bytecode, "0x") {
		return nil, fmt.Errorf("missing 0x prefix: %w", ErrMalformedInput)
	}
	payload := bytecode[2:]
	if len(payload) < 2 {
		return nil, fmt.Errorf("need at least one bytecode byte after the prefix: %w",
			ErrMalformedInput)
	}

	code, err := hex.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decoding bytecode hex: %v: %w", err, ErrMalformedInput)
	}

	instructions := make([]Instruction, 0, len(code))
	for pc := 0; pc < len(code); {
		op := code[pc]
		width := PushWidth(op)
		if width == 0 {
			instructions = append(instructions, Instruction{
				Offset:   pc,
				Mnemonic: Mnemonic(op),
			})
			pc++
			continue
		}

		end := pc + 1 + width
		if end > len(code) {
			end = len(code)
		}
		immediate := append([]byte(nil), code[pc+1:end]...)
		instructions = append(instructions, Instruction{
			Offset:    pc,
			Mnemonic:  Mnemonic(op),
			Immediate: immediate,
		})
		pc = end
	}
	return instructions, nil
}
