package disasm

// Metrics are the purely syntactic counters over one contract's instruction
// stream, computed without any CFG knowledge.
type Metrics struct {
	TotalInstructions int
	TotalJumps        int
	OrphanJumps       int
}

// CountMetrics scans the instruction stream once. A JUMP counts as orphan
// when the instruction immediately before it, in program order, is not a PUSH
// of any size; JUMPI never counts. Orphan jumps flag dynamically computed
// targets that are harder to resolve statically.
func CountMetrics(instructions []Instruction) Metrics {
	var m Metrics
	lastWasPush := false

	for _, instr := range instructions {
		m.TotalInstructions++

		switch {
		case instr.IsPush():
			lastWasPush = true
		case instr.Mnemonic == "JUMP":
			m.TotalJumps++
			if !lastWasPush {
				m.OrphanJumps++
			}
			lastWasPush = false
		case instr.Mnemonic == "JUMPI":
			m.TotalJumps++
			lastWasPush = false
		default:
			lastWasPush = false
		}
	}
	return m
}
