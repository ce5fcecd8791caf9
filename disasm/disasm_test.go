package disasm

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisassemblePush(t *testing.T) {
	instructions, err := Disassemble("0x6001")
	if err != nil {
		t.Fatalf("failed to disassemble: %v", err)
	}

	require.Len(t, instructions, 1)
	assert.Equal(t, "PUSH1", instructions[0].Mnemonic)
	assert.Equal(t, []byte{0x01}, instructions[0].Immediate)
	assert.Equal(t, 0, instructions[0].Offset)
	assert.Equal(t, "PUSH1 0x01", instructions[0].String())
	assert.True(t, instructions[0].IsPush())
}

func TestDisassembleSingleOpcode(t *testing.T) {
	instructions, err := Disassemble("0x00")
	if err != nil {
		t.Fatalf("failed to disassemble: %v", err)
	}

	require.Len(t, instructions, 1)
	assert.Equal(t, "STOP", instructions[0].Mnemonic)
	assert.Nil(t, instructions[0].Immediate)
}

func TestDisassembleMalformedInput(t *testing.T) {
	cases := []struct {
		name     string
		bytecode string
	}{
		{"empty", ""},
		{"prefix only", "0x"},
		{"missing prefix", "600100"},
		{"odd hex digits", "0x600"},
		{"non-hex payload", "0xzz01"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Disassemble(tc.bytecode)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedInput), "expected ErrMalformedInput, got %v", err)
		})
	}
}

func TestDisassembleOffsets(t *testing.T) {
	// PUSH1 0x80, PUSH1 0x40, MSTORE, JUMPDEST
	instructions, err := Disassemble("0x6080604052" + "5b")
	require.NoError(t, err)
	require.Len(t, instructions, 4)

	assert.Equal(t, 0, instructions[0].Offset)
	assert.Equal(t, 2, instructions[1].Offset)
	assert.Equal(t, 4, instructions[2].Offset)
	assert.Equal(t, "MSTORE", instructions[2].Mnemonic)
	assert.Equal(t, 5, instructions[3].Offset)
	assert.Equal(t, "JUMPDEST", instructions[3].Mnemonic)
}

func TestDisassembleTruncatedPush(t *testing.T) {
	// PUSH2 with only one immediate byte left keeps the short immediate.
	instructions, err := Disassemble("0x6101")
	require.NoError(t, err)
	require.Len(t, instructions, 1)
	assert.Equal(t, "PUSH2", instructions[0].Mnemonic)
	assert.Equal(t, []byte{0x01}, instructions[0].Immediate)
}

func TestDisassembleUnknownByte(t *testing.T) {
	instructions, err := Disassemble("0xab")
	require.NoError(t, err)
	require.Len(t, instructions, 1)
	assert.Equal(t, "'ab'(Unknown Opcode)", instructions[0].Mnemonic)
}

// TestMnemonicTableRoundTrip decodes every non-PUSH byte value as a one-byte
// program and checks the table lookup is reproduced exactly.
func TestMnemonicTableRoundTrip(t *testing.T) {
	for b := 0; b < 256; b++ {
		if PushWidth(byte(b)) != 0 {
			continue
		}
		instructions, err := Disassemble(fmt.Sprintf("0x%02x", b))
		require.NoError(t, err)
		require.Len(t, instructions, 1)
		assert.Equal(t, Mnemonic(byte(b)), instructions[0].Mnemonic)
		assert.Nil(t, instructions[0].Immediate)
	}
}

func TestMnemonicSpotChecks(t *testing.T) {
	assert.Equal(t, "STOP", Mnemonic(0x00))
	assert.Equal(t, "JUMP", Mnemonic(0x56))
	assert.Equal(t, "JUMPI", Mnemonic(0x57))
	assert.Equal(t, "JUMPDEST", Mnemonic(0x5b))
	assert.Equal(t, "PUSH0", Mnemonic(0x5f))
	assert.Equal(t, "INVALID", Mnemonic(0x49))
	assert.Equal(t, "INVALID", Mnemonic(0x4f))
	assert.Equal(t, "INVALID", Mnemonic(0xfe))
	assert.Equal(t, "SELFDESTRUCT", Mnemonic(0xff))
	assert.Equal(t, "'4a'(Unknown Opcode)", Mnemonic(0x4a))
}

func TestPushWidth(t *testing.T) {
	assert.Equal(t, 1, PushWidth(0x60))
	assert.Equal(t, 32, PushWidth(0x7f))
	assert.Equal(t, 0, PushWidth(0x5f)) // PUSH0 carries no immediate
	assert.Equal(t, 0, PushWidth(0x56))
}

func TestClass(t *testing.T) {
	assert.Equal(t, ClassJump, Class("JUMP"))
	assert.Equal(t, ClassJumpI, Class(" jumpi "))
	assert.Equal(t, ClassJumpDest, Class("JUMPDEST"))
	assert.Equal(t, ClassOther, Class("PUSH1"))
	assert.Equal(t, ClassOther, Class(""))
}
