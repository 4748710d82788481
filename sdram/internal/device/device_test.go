package device

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/sdramctrl/mem"
	"github.com/sarchlab/sdramctrl/sdram/internal/ctrl"
)

func nop() ctrl.BusOut {
	return ctrl.BusOut{ClockEnable: true, Command: ctrl.CommandNop}
}

func loadMode() ctrl.BusOut {
	return ctrl.BusOut{
		ClockEnable: true,
		Command:     ctrl.CommandLoadMode,
		Addr:        ctrl.ModeRegisterBits,
	}
}

func activate(bank uint8, row uint16) ctrl.BusOut {
	return ctrl.BusOut{
		ClockEnable: true,
		Command:     ctrl.CommandActive,
		Bank:        bank,
		Addr:        row,
	}
}

func read(bank uint8, col uint16) ctrl.BusOut {
	return ctrl.BusOut{
		ClockEnable: true,
		Command:     ctrl.CommandRead,
		Bank:        bank,
		Addr:        col,
	}
}

func write(bank uint8, col, data uint16) ctrl.BusOut {
	return ctrl.BusOut{
		ClockEnable: true,
		Command:     ctrl.CommandWrite,
		Bank:        bank,
		Addr:        col,
		Data:        data,
		DataDriven:  true,
	}
}

func prechargeAll() ctrl.BusOut {
	return ctrl.BusOut{
		ClockEnable: true,
		Command:     ctrl.CommandPrecharge,
		Addr:        ctrl.AutoPrechargeBit,
	}
}

var _ = Describe("Device", func() {
	var d *Device

	BeforeEach(func() {
		d = NewDevice(mem.NewStorage(1 << 25))
		d.Tick(loadMode())
	})

	It("should track open rows per bank", func() {
		d.Tick(activate(1, 0x123))

		open, row := d.RowIsOpen(1)
		Expect(open).To(BeTrue())
		Expect(row).To(Equal(uint16(0x123)))

		open, _ = d.RowIsOpen(0)
		Expect(open).To(BeFalse())

		d.Tick(prechargeAll())
		open, _ = d.RowIsOpen(1)
		Expect(open).To(BeFalse())
	})

	It("should store a write and return it on a read", func() {
		d.Tick(activate(1, 0x123))
		d.Tick(write(1, 0x45, 0xbeef))
		d.Tick(prechargeAll())

		d.Tick(activate(1, 0x123))
		d.Tick(read(1, 0x45))

		_, driving := d.Tick(nop())
		Expect(driving).To(BeFalse())

		data, driving := d.Tick(nop())
		Expect(driving).To(BeTrue())
		Expect(data).To(Equal(uint16(0xbeef)))
	})

	It("should hold read data for one extra cycle", func() {
		d.Tick(activate(0, 1))
		d.Tick(read(0, 1))

		d.Tick(nop())

		_, driving := d.Tick(nop())
		Expect(driving).To(BeTrue())

		_, driving = d.Tick(nop())
		Expect(driving).To(BeTrue())

		_, driving = d.Tick(nop())
		Expect(driving).To(BeFalse())
	})

	It("should honor byte masks on writes", func() {
		d.Tick(activate(0, 1))
		d.Tick(write(0, 2, 0xaabb))
		d.Tick(prechargeAll())

		d.Tick(activate(0, 1))
		masked := write(0, 2, 0x1122)
		masked.DQMHigh = true
		d.Tick(masked)
		d.Tick(prechargeAll())

		d.Tick(activate(0, 1))
		d.Tick(read(0, 2))
		d.Tick(nop())
		data, driving := d.Tick(nop())

		Expect(driving).To(BeTrue())
		Expect(data).To(Equal(uint16(0xaa22)))
	})

	It("should count refresh cycles", func() {
		d.Tick(ctrl.BusOut{ClockEnable: true, Command: ctrl.CommandRefresh})
		d.Tick(ctrl.BusOut{ClockEnable: true, Command: ctrl.CommandRefresh})

		Expect(d.RefreshCount()).To(Equal(2))
	})

	It("should ignore cycles with the clock disabled", func() {
		d.Tick(ctrl.BusOut{Command: ctrl.CommandActive, Bank: 0, Addr: 1})

		open, _ := d.RowIsOpen(0)
		Expect(open).To(BeFalse())
	})

	It("should panic on a refresh with an open row", func() {
		d.Tick(activate(0, 1))

		Expect(func() {
			d.Tick(ctrl.BusOut{ClockEnable: true, Command: ctrl.CommandRefresh})
		}).To(Panic())
	})

	It("should panic on an activate to an already open bank", func() {
		d.Tick(activate(0, 1))

		Expect(func() { d.Tick(activate(0, 2)) }).To(Panic())
	})

	It("should panic on a column command with no open row", func() {
		Expect(func() { d.Tick(read(0, 1)) }).To(Panic())
	})

	It("should panic on a write with a released bus", func() {
		d.Tick(activate(0, 1))
		released := write(0, 1, 0xbeef)
		released.DataDriven = false

		Expect(func() { d.Tick(released) }).To(Panic())
	})

	It("should panic on bus contention", func() {
		d.Tick(activate(0, 1))
		d.Tick(read(0, 1))
		d.Tick(nop())

		Expect(func() { d.Tick(write(0, 2, 1)) }).To(Panic())
	})
})
