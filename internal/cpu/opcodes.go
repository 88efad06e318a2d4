/*
 * v9emu - Opcode constants.
 *
 * Grouped by instruction family in declaration order, matching the
 * teacher's grouped-constant-block style (emu/cpu/cpudefs.go's irc*
 * and PSW-bit blocks).
 */

package cpu

// Opcode values. The low 8 bits of every instruction word select one of
// these; the upper 24 bits are a signed immediate (sign-extended, per
// Design Notes, by an arithmetic right shift of the whole signed word).
const (
	OpNOP uint8 = iota
	OpHALT
	OpIDLE
	OpJMP
	OpJMPI
	OpJSR
	OpRET
	OpENT
	OpLEV

	// Branches: relative displacement in the immediate.
	OpBZ
	OpBNZ
	OpBLT
	OpBGE
	OpBLTU
	OpBGEU
	OpBFLT
	OpBFGE

	// Stack push/pop fast path.
	OpPUSHA
	OpPUSHB
	OpPUSHC
	OpPUSHF
	OpPUSHG
	OpPOPA
	OpPOPB
	OpPOPC
	OpPOPF
	OpPOPG

	// Loads: width x {local SP offset, global PC offset, indexed A, indexed B}.
	OpLDB8_L
	OpLDB8_G
	OpLDB8_IA
	OpLDB8_IB
	OpLDH16_L
	OpLDH16_G
	OpLDH16_IA
	OpLDH16_IB
	OpLDW32_L
	OpLDW32_G
	OpLDW32_IA
	OpLDW32_IB
	OpLDD64_L
	OpLDD64_G
	OpLDD64_IA
	OpLDD64_IB
	OpLDF32_L
	OpLDF32_G
	OpLDF32_IA
	OpLDF32_IB
	OpLI // Load sign-extended 24-bit immediate into A

	// Stores: width x {local, global, indexed A, indexed B}.
	OpSTB8_L
	OpSTB8_G
	OpSTB8_IA
	OpSTB8_IB
	OpSTH16_L
	OpSTH16_G
	OpSTH16_IA
	OpSTH16_IB
	OpSTW32_L
	OpSTW32_G
	OpSTW32_IA
	OpSTW32_IB
	OpSTD64_L
	OpSTD64_G
	OpSTD64_IA
	OpSTD64_IB
	OpSTF32_L
	OpSTF32_G
	OpSTF32_IA
	OpSTF32_IB

	// Integer ALU: op x {register (B), immediate, local memory [SP+off]}.
	OpADD_R
	OpADD_I
	OpADD_M
	OpSUB_R
	OpSUB_I
	OpSUB_M
	OpMUL_R
	OpMUL_I
	OpMUL_M
	OpDIVS_R
	OpDIVS_I
	OpDIVS_M
	OpDIVU_R
	OpDIVU_I
	OpDIVU_M
	OpMODS_R
	OpMODS_I
	OpMODS_M
	OpMODU_R
	OpMODU_I
	OpMODU_M
	OpAND_R
	OpAND_I
	OpAND_M
	OpOR_R
	OpOR_I
	OpOR_M
	OpXOR_R
	OpXOR_I
	OpXOR_M
	OpSHL_R
	OpSHL_I
	OpSHL_M
	OpSHR_R
	OpSHR_I
	OpSHR_M
	OpSAR_R
	OpSAR_I
	OpSAR_M

	// Float ALU: F op= G, result in F.
	OpFADD
	OpFSUB
	OpFMUL
	OpFDIV
	OpFLIB // Float library call; sub-function selected by the immediate

	// Comparisons: set A to 0/1.
	OpCEQ
	OpCNE
	OpCLT
	OpCGE
	OpCLTU
	OpCGEU
	OpCFEQ
	OpCFNE
	OpCFLT
	OpCFGE

	// Conversions.
	OpCVTID
	OpCVTUD
	OpCVTDI
	OpCVTDU

	// Bulk memory, restartable.
	OpMCPY
	OpMCMP
	OpMCHR
	OpMSET

	// Console, privileged.
	OpBIN
	OpBOUT

	// System control, privileged.
	OpIVEC
	OpPDIR
	OpSPAGON
	OpSPAGOFF
	OpLUSP
	OpSUSP
	OpLSSP
	OpSSSP
	OpLVAD
	OpTIME
	OpRCYC
	OpMSIZ
	OpCLI
	OpSTI
	OpRTI
	OpTRAP
)

// FlibFunc indexes the float library function family (spec section 4.2).
const (
	FlPow = iota
	FlAtan2
	FlExp
	FlLog
	FlLog10
	FlSqrt
	FlSin
	FlCos
	FlTan
	FlAsin
	FlAcos
	FlSinh
	FlCosh
	FlTanh
	FlAtan
	FlFabs
	FlFloor
	FlCeil
	FlHypot
	FlFmod
)
