package ctrl

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("DecodeAddress", func() {
	It("should split the linear address into bank, row, and column", func() {
		bank, row, col := DecodeAddress(0xffffff)
		Expect(bank).To(Equal(uint8(3)))
		Expect(row).To(Equal(uint16(0x1fff)))
		Expect(col).To(Equal(uint16(0x1ff)))

		bank, row, col = DecodeAddress(0)
		Expect(bank).To(Equal(uint8(0)))
		Expect(row).To(Equal(uint16(0)))
		Expect(col).To(Equal(uint16(0)))

		bank, row, col = DecodeAddress(1<<22 | 0x0a5a<<9 | 0x0f3)
		Expect(bank).To(Equal(uint8(1)))
		Expect(row).To(Equal(uint16(0x0a5a)))
		Expect(col).To(Equal(uint16(0x0f3)))
	})

	It("should never set the auto-precharge bit in the column", func() {
		for addr := uint32(0); addr < 1<<24; addr += 97 {
			_, _, col := DecodeAddress(addr)
			Expect(col & AutoPrechargeBit).To(BeZero())
		}
	})
})

var _ = Describe("Command encoding", func() {
	It("should encode each command on the four control lines", func() {
		Expect(CommandNop.WireBits()).To(Equal(uint8(0b0111)))
		Expect(CommandActive.WireBits()).To(Equal(uint8(0b0011)))
		Expect(CommandRead.WireBits()).To(Equal(uint8(0b0101)))
		Expect(CommandWrite.WireBits()).To(Equal(uint8(0b0100)))
		Expect(CommandPrecharge.WireBits()).To(Equal(uint8(0b0010)))
		Expect(CommandRefresh.WireBits()).To(Equal(uint8(0b0001)))
		Expect(CommandLoadMode.WireBits()).To(Equal(uint8(0b0000)))
		Expect(CommandInhibit.WireBits()).To(Equal(uint8(0b1111)))
	})
})
