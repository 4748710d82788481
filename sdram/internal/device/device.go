// Package device provides a behavioral model of an SDRAM device. It obeys
// the command bus cycle by cycle, keeps data in a backing storage, and
// panics on protocol violations so that controller bugs surface immediately
// instead of corrupting data.
package device

import (
	"encoding/binary"
	"fmt"

	"github.com/sarchlab/sdramctrl/mem"
	"github.com/sarchlab/sdramctrl/sdram/internal/ctrl"
)

const numBanks = 4

type bankState struct {
	open bool
	row  uint16
}

type pendingRead struct {
	delay int
	data  uint16
}

// A Device models one SDRAM chip with a 16-bit data bus and four banks.
type Device struct {
	storage *mem.Storage

	banks      [numBanks]bankState
	modeLoaded bool
	casLatency int
	burstLen   int

	reads        []pendingRead
	refreshCount int
}

// NewDevice creates a device backed by the given storage. The storage holds
// two bytes per word address.
func NewDevice(storage *mem.Storage) *Device {
	return &Device{storage: storage}
}

// RefreshCount returns the number of refresh cycles the device has seen.
func (d *Device) RefreshCount() int {
	return d.refreshCount
}

// RowIsOpen returns whether the given bank has an open row, and which one.
func (d *Device) RowIsOpen(bank uint8) (bool, uint16) {
	return d.banks[bank].open, d.banks[bank].row
}

// Tick observes one cycle of the command bus and returns the data the
// device drives on the shared bus this cycle, if any.
func (d *Device) Tick(bus ctrl.BusOut) (data uint16, driving bool) {
	if !bus.ClockEnable {
		return 0, false
	}

	data, driving = d.advanceReads()
	d.execute(bus)

	if driving && bus.DataDriven {
		panic("data bus contention: controller and device driving together")
	}

	return data, driving
}

func (d *Device) execute(bus ctrl.BusOut) {
	switch bus.Command {
	case ctrl.CommandNop, ctrl.CommandInhibit:
	case ctrl.CommandPrecharge:
		d.precharge(bus)
	case ctrl.CommandRefresh:
		d.refresh()
	case ctrl.CommandLoadMode:
		d.loadMode(bus)
	case ctrl.CommandActive:
		d.activate(bus)
	case ctrl.CommandRead:
		d.read(bus)
	case ctrl.CommandWrite:
		d.write(bus)
	default:
		panic(fmt.Sprintf("device cannot execute command %s", bus.Command))
	}
}

func (d *Device) precharge(bus ctrl.BusOut) {
	if bus.Addr&ctrl.AutoPrechargeBit != 0 {
		for i := range d.banks {
			d.banks[i].open = false
		}

		return
	}

	d.banks[bus.Bank].open = false
}

func (d *Device) refresh() {
	for i := range d.banks {
		if d.banks[i].open {
			panic(fmt.Sprintf("refresh issued while bank %d has an open row", i))
		}
	}

	d.refreshCount++
}

func (d *Device) loadMode(bus ctrl.BusOut) {
	burstCode := int(bus.Addr & 0x7)
	if burstCode > 3 {
		panic(fmt.Sprintf("unsupported burst code %d", burstCode))
	}

	d.burstLen = 1 << burstCode
	d.casLatency = int(bus.Addr>>4) & 0x7
	if d.casLatency < 1 || d.casLatency > 3 {
		panic(fmt.Sprintf("unsupported CAS latency %d", d.casLatency))
	}

	d.modeLoaded = true
}

func (d *Device) activate(bus ctrl.BusOut) {
	bank := &d.banks[bus.Bank]
	if bank.open {
		panic(fmt.Sprintf(
			"activate on bank %d while row %d is open", bus.Bank, bank.row))
	}

	bank.open = true
	bank.row = bus.Addr
}

func (d *Device) read(bus ctrl.BusOut) {
	addr := d.byteAddress(bus)

	raw, err := d.storage.Read(addr, 2)
	if err != nil {
		panic(err)
	}

	d.reads = append(d.reads, pendingRead{
		delay: d.casLatency,
		data:  binary.LittleEndian.Uint16(raw),
	})
}

func (d *Device) write(bus ctrl.BusOut) {
	if !bus.DataDriven {
		panic("write command with a released data bus")
	}

	addr := d.byteAddress(bus)

	raw, err := d.storage.Read(addr, 2)
	if err != nil {
		panic(err)
	}

	if !bus.DQMLow {
		raw[0] = byte(bus.Data)
	}
	if !bus.DQMHigh {
		raw[1] = byte(bus.Data >> 8)
	}

	err = d.storage.Write(addr, raw)
	if err != nil {
		panic(err)
	}
}

// byteAddress recombines the open row and the column on the bus into the
// linear word address and doubles it, since each word holds two bytes.
func (d *Device) byteAddress(bus ctrl.BusOut) uint64 {
	if !d.modeLoaded {
		panic("column command before the mode register is programmed")
	}

	if bus.Addr&ctrl.AutoPrechargeBit != 0 {
		panic("auto precharge is not supported")
	}

	bank := &d.banks[bus.Bank]
	if !bank.open {
		panic(fmt.Sprintf("column command on bank %d with no open row", bus.Bank))
	}

	col := uint32(bus.Addr & 0x1ff)
	wordAddr := uint32(bus.Bank)<<22 | uint32(bank.row)<<9 | col

	return uint64(wordAddr) << 1
}

// advanceReads ages the read pipeline by one cycle. Data appears on the bus
// CAS-latency cycles after the READ command and is held for one extra cycle.
func (d *Device) advanceReads() (data uint16, driving bool) {
	remaining := d.reads[:0]
	for _, r := range d.reads {
		r.delay--
		if r.delay <= 0 {
			data = r.data
			driving = true
		}
		if r.delay > -1 {
			remaining = append(remaining, r)
		}
	}
	d.reads = remaining

	return data, driving
}
