package ctrl

// AutoPrechargeBit is the address bit that, when high on a column command,
// requests per-access auto precharge, and, when high on a PRECHARGE command,
// selects all banks. The controller never uses auto precharge and always
// precharges all banks explicitly.
const AutoPrechargeBit = 1 << 10

// ModeRegisterBits is the pattern programmed into the device mode register
// during initialization: burst length 1, sequential addressing, CAS latency
// 2, single-word writes.
const ModeRegisterBits = (1 << 9) | (2 << 4)

// DecodeAddress splits a 24-bit linear word address into the bank, row, and
// column that locate the word on the device.
func DecodeAddress(address uint32) (bank uint8, row, col uint16) {
	bank = uint8((address >> 22) & 0x3)
	row = uint16((address >> 9) & 0x1fff)
	col = uint16(address & 0x1ff)
	return
}
