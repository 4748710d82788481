package ctrl

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func testTiming() Timing {
	return Timing{
		PowerUpCycles: 10,
		TRP:           2,
		TRFC:          8,
		TMRD:          2,
		TRCD:          1,
		CASLatency:    2,
	}
}

// runToReady drives the controller with quiet inputs until initialization
// completes.
func runToReady(c *Controller) []BusOut {
	var outs []BusOut

	for i := 0; i < 1000000 && !c.Ready(); i++ {
		outs = append(outs, c.Tick(HostIn{}))
	}

	Expect(c.Ready()).To(BeTrue())

	return outs
}

var _ = Describe("Controller initialization", func() {
	var c *Controller

	BeforeEach(func() {
		c = NewController(testTiming())
	})

	It("should issue the full initialization sequence in order", func() {
		outs := runToReady(c)

		Expect(outs).To(HaveLen(10 + 2 + 8*8 + 2 + 8*8))

		var cmds []Command
		for _, out := range outs {
			if out.Command != CommandNop {
				cmds = append(cmds, out.Command)
			}
		}

		expected := []Command{CommandPrecharge}
		for i := 0; i < 8; i++ {
			expected = append(expected, CommandRefresh)
		}
		expected = append(expected, CommandLoadMode)
		for i := 0; i < 8; i++ {
			expected = append(expected, CommandRefresh)
		}
		Expect(cmds).To(Equal(expected))
	})

	It("should keep the bus quiet with bytes masked during power-up", func() {
		outs := runToReady(c)

		for i := 0; i < 10; i++ {
			Expect(outs[i].Command).To(Equal(CommandNop))
			Expect(outs[i].DQMHigh).To(BeTrue())
			Expect(outs[i].DQMLow).To(BeTrue())
		}
	})

	It("should precharge all banks before the first refresh", func() {
		outs := runToReady(c)

		Expect(outs[10].Command).To(Equal(CommandPrecharge))
		Expect(outs[10].Addr & AutoPrechargeBit).NotTo(BeZero())
	})

	It("should program the mode register with bank zero", func() {
		outs := runToReady(c)

		modeSet := outs[10+2+8*8]
		Expect(modeSet.Command).To(Equal(CommandLoadMode))
		Expect(modeSet.Bank).To(Equal(uint8(0)))
		Expect(modeSet.Addr).To(Equal(uint16(ModeRegisterBits)))
	})

	It("should not report ready before the sequence completes", func() {
		outs := runToReady(c)

		for _, out := range outs {
			Expect(out.Ready).To(BeFalse())
		}

		out := c.Tick(HostIn{})
		Expect(out.Ready).To(BeTrue())
		Expect(c.State()).To(Equal(StateIdle))
		Expect(out.Command).To(Equal(CommandNop))
	})
})

var _ = Describe("Controller steady state", func() {
	var c *Controller

	BeforeEach(func() {
		c = NewController(testTiming())
		runToReady(c)
	})

	readReq := func(address uint32) HostIn {
		return HostIn{
			ReadWriteRequest: true,
			WriteEnable:      true,
			Address:          address,
			ByteEnableHigh:   true,
			ByteEnableLow:    true,
		}
	}

	writeReq := func(address uint32, data uint16) HostIn {
		return HostIn{
			ReadWriteRequest: true,
			WriteEnable:      false,
			Address:          address,
			WriteData:        data,
			ByteEnableHigh:   true,
			ByteEnableLow:    true,
		}
	}

	It("should run a read access through the fixed command sequence", func() {
		address := uint32(2)<<22 | uint32(0x1234)<<9 | uint32(0x155)
		in := readReq(address)

		t0 := c.Tick(in)
		Expect(t0.Command).To(Equal(CommandActive))
		Expect(t0.Bank).To(Equal(uint8(2)))
		Expect(t0.Addr).To(Equal(uint16(0x1234)))

		t1 := c.Tick(in)
		Expect(t1.Command).To(Equal(CommandNop))

		t2 := c.Tick(in)
		Expect(t2.Command).To(Equal(CommandRead))
		Expect(t2.Addr).To(Equal(uint16(0x155)))
		Expect(t2.Addr & AutoPrechargeBit).To(BeZero())
		Expect(t2.DataDriven).To(BeFalse())

		t3 := c.Tick(in)
		Expect(t3.Command).To(Equal(CommandNop))

		t4 := c.Tick(in)
		Expect(t4.Command).To(Equal(CommandPrecharge))
		Expect(t4.Addr & AutoPrechargeBit).NotTo(BeZero())

		t5 := c.Tick(in)
		Expect(t5.Command).To(Equal(CommandNop))
		Expect(t5.Done).To(BeTrue())

		t6 := c.Tick(HostIn{})
		Expect(t6.Done).To(BeFalse())
		Expect(c.State()).To(Equal(StateIdle))
	})

	It("should drive the data bus only on the write command tick", func() {
		in := writeReq(0x000200, 0xbeef)

		var outs []BusOut
		for i := 0; i < 6; i++ {
			outs = append(outs, c.Tick(in))
		}

		Expect(outs[2].Command).To(Equal(CommandWrite))
		Expect(outs[2].DataDriven).To(BeTrue())
		Expect(outs[2].Data).To(Equal(uint16(0xbeef)))
		Expect(outs[2].DQMHigh).To(BeFalse())
		Expect(outs[2].DQMLow).To(BeFalse())

		for i, out := range outs {
			if i == 2 {
				continue
			}
			Expect(out.DataDriven).To(BeFalse())
		}
		Expect(outs[5].Done).To(BeTrue())
	})

	It("should run a refresh cycle and pulse done once", func() {
		in := HostIn{RefreshRequest: true}

		var outs []BusOut
		for i := 0; i < 8; i++ {
			outs = append(outs, c.Tick(in))
		}

		Expect(outs[0].Command).To(Equal(CommandRefresh))
		for i := 1; i < 8; i++ {
			Expect(outs[i].Command).To(Equal(CommandNop))
		}
		for i := 0; i < 7; i++ {
			Expect(outs[i].Done).To(BeFalse())
		}
		Expect(outs[7].Done).To(BeTrue())

		out := c.Tick(HostIn{})
		Expect(out.Done).To(BeFalse())
		Expect(c.State()).To(Equal(StateIdle))
	})

	It("should prioritize read/write over refresh", func() {
		in := readReq(0x000001)
		in.RefreshRequest = true

		out := c.Tick(in)

		Expect(out.Command).To(Equal(CommandActive))
	})

	It("should drop a refresh request asserted while busy", func() {
		in := readReq(0x000001)
		in.RefreshRequest = false

		c.Tick(in)

		busy := in
		busy.RefreshRequest = true
		for i := 0; i < 5; i++ {
			c.Tick(busy)
		}

		out := c.Tick(HostIn{})
		Expect(out.Command).To(Equal(CommandNop))
		Expect(c.State()).To(Equal(StateIdle))
	})

	It("should preempt an in-flight access on reset", func() {
		in := writeReq(0x000200, 0xbeef)
		c.Tick(in)
		c.Tick(in)

		out := c.Tick(HostIn{Reset: true})

		Expect(out.Command).To(Equal(CommandNop))
		Expect(out.ClockEnable).To(BeFalse())
		Expect(out.Ready).To(BeFalse())
		Expect(c.State()).To(Equal(StateInitPowerUp))
		Expect(c.Ready()).To(BeFalse())
	})

	It("should rerun initialization after reset", func() {
		c.Tick(HostIn{Reset: true})

		outs := runToReady(c)

		Expect(outs[10].Command).To(Equal(CommandPrecharge))
	})
})
