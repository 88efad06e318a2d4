/*
 * v9emu - Opcode dispatch table.
 *
 * Grounded on the teacher's createTable/sysCPU.table pattern
 * (emu/cpu/cpu.go): a dense [256]func array built once, indexed
 * directly by the low 8 bits of the instruction word instead of a
 * switch statement.
 */

package cpu

import "github.com/paged32/v9emu/internal/state"

func opIllegal(m *Machine, step *stepInfo) uint32 {
	return state.FINST
}

// createTable builds Machine.table. Opcode families that repeat a
// shape across addressing modes or operand forms are filled by
// looping over the const blocks in the same declaration order
// opcodes.go lists them in.
func (m *Machine) createTable() {
	for i := range m.table {
		m.table[i] = opIllegal
	}

	t := &m.table

	t[OpNOP] = opNOP
	t[OpHALT] = opHALT
	t[OpIDLE] = opIDLE
	t[OpJMP] = opJMP
	t[OpJMPI] = opJMPI
	t[OpJSR] = opJSR
	t[OpRET] = opRET
	t[OpENT] = opENT
	t[OpLEV] = opLEV

	t[OpBZ] = opBZ
	t[OpBNZ] = opBNZ
	t[OpBLT] = opBLT
	t[OpBGE] = opBGE
	t[OpBLTU] = opBLTU
	t[OpBGEU] = opBGEU
	t[OpBFLT] = opBFLT
	t[OpBFGE] = opBFGE

	t[OpPUSHA] = opPUSHA
	t[OpPUSHB] = opPUSHB
	t[OpPUSHC] = opPUSHC
	t[OpPUSHF] = opPUSHF
	t[OpPUSHG] = opPUSHG
	t[OpPOPA] = opPOPA
	t[OpPOPB] = opPOPB
	t[OpPOPC] = opPOPC
	t[OpPOPF] = opPOPF
	t[OpPOPG] = opPOPG

	loadMakers := []func(addrFunc) opcodeFunc{makeLoadB8, makeLoadH16, makeLoadW32, makeLoadD64, makeLoadF32}
	storeMakers := []func(addrFunc) opcodeFunc{makeStoreB8, makeStoreH16, makeStoreW32, makeStoreD64, makeStoreF32}

	loadBase := uint8(OpLDB8_L)
	for w, maker := range loadMakers {
		for f, form := range addrForms {
			t[loadBase+uint8(w*4+f)] = maker(form)
		}
	}
	t[OpLI] = opLI

	storeBase := uint8(OpSTB8_L)
	for w, maker := range storeMakers {
		for f, form := range addrForms {
			t[storeBase+uint8(w*4+f)] = maker(form)
		}
	}

	aluBase := uint8(OpADD_R)
	for i, op := range aluOps {
		base := aluBase + uint8(i*3)
		t[base+0] = makeAluR(op)
		t[base+1] = makeAluI(op)
		t[base+2] = makeAluM(op)
	}

	t[OpFADD] = opFADD
	t[OpFSUB] = opFSUB
	t[OpFMUL] = opFMUL
	t[OpFDIV] = opFDIV
	t[OpFLIB] = opFLIB

	t[OpCEQ] = opCEQ
	t[OpCNE] = opCNE
	t[OpCLT] = opCLT
	t[OpCGE] = opCGE
	t[OpCLTU] = opCLTU
	t[OpCGEU] = opCGEU
	t[OpCFEQ] = opCFEQ
	t[OpCFNE] = opCFNE
	t[OpCFLT] = opCFLT
	t[OpCFGE] = opCFGE

	t[OpCVTID] = opCVTID
	t[OpCVTUD] = opCVTUD
	t[OpCVTDI] = opCVTDI
	t[OpCVTDU] = opCVTDU

	t[OpMCPY] = opMCPY
	t[OpMCMP] = opMCMP
	t[OpMCHR] = opMCHR
	t[OpMSET] = opMSET

	t[OpBIN] = opBIN
	t[OpBOUT] = opBOUT

	t[OpIVEC] = opIVEC
	t[OpPDIR] = opPDIR
	t[OpSPAGON] = opSPAGON
	t[OpSPAGOFF] = opSPAGOFF
	t[OpLUSP] = opLUSP
	t[OpSUSP] = opSUSP
	t[OpLSSP] = opLSSP
	t[OpSSSP] = opSSSP
	t[OpLVAD] = opLVAD
	t[OpTIME] = opTIME
	t[OpRCYC] = opRCYC
	t[OpMSIZ] = opMSIZ
	t[OpCLI] = opCLI
	t[OpSTI] = opSTI
	t[OpRTI] = opRTI
	t[OpTRAP] = opTRAP
}
