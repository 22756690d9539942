//go:build amd64

package regs

// Context is the amd64 register save area. Layout (all fields accessed only
// from assembly, by offset):
//
//	sp        saved stack pointer                              offset 0
//	regs[0:6] callee-saved GP registers: BX, BP, R12, R13, R14, R15
//	regs[6:8] callee-saved GP registers used only by the Windows ABI: DI, SI
//	regs[8:28] callee-saved XMM6-XMM15 (Windows ABI only), 2 words each
//	regs[28:31] Windows TIB stack descriptor: StackBase, StackLimit,
//	            DeallocationStack
//
// Non-Windows targets leave regs[6:31] unused; the single layout is shared
// across GOOS so amd64 code need not duplicate the struct per platform.
type Context struct {
	sp   uintptr
	regs [31]uint64
}
