// Package sdram provides an SDRAM memory controller component. The
// component accepts single-word read and write requests on its top port,
// sequences the attached device model through the full command protocol,
// and injects refresh cycles at the configured interval.
package sdram

import (
	"encoding/binary"
	"fmt"

	"github.com/sarchlab/sdramctrl/mem"
	"github.com/sarchlab/sdramctrl/sdram/internal/ctrl"
	"github.com/sarchlab/sdramctrl/sdram/internal/device"
	"github.com/sarchlab/sdramctrl/sim"
	"github.com/sarchlab/sdramctrl/tracing"
)

// HookPosCommandIssue marks when the controller drives a command other than
// NOP on the device bus. The hook item is the ctrl.BusOut of that cycle.
var HookPosCommandIssue = &sim.HookPos{Name: "SDRAM Command Issue"}

// A Comp is an SDRAM memory controller. It serves one request at a time.
type Comp struct {
	*sim.TickingComponent
	sim.MiddlewareHolder

	topPort    sim.Port
	controller *ctrl.Controller
	device     *device.Device
	storage    *mem.Storage

	refreshInterval  uint64
	lastRefreshCycle uint64
	initDone         bool

	trans       *transaction
	refreshing  bool
	pendingRsps []sim.Msg
}

type transaction struct {
	req      mem.AccessReq
	write    bool
	data     uint16
	byteEnHi bool
	byteEnLo bool
}

// Tick updates the component state.
func (c *Comp) Tick() bool {
	return c.MiddlewareHolder.Tick()
}

// TopPort returns the port that accepts read and write requests.
func (c *Comp) TopPort() sim.Port {
	return c.topPort
}

// Storage returns the backing storage of the attached device.
func (c *Comp) Storage() *mem.Storage {
	return c.storage
}

type middleware struct {
	*Comp
}

func (m *middleware) Tick() bool {
	madeProgress := false

	madeProgress = m.sendRsps() || madeProgress
	madeProgress = m.startNextOp() || madeProgress
	madeProgress = m.cycleHardware() || madeProgress

	return madeProgress
}

// sendRsps pushes queued responses out of the top port.
func (m *middleware) sendRsps() bool {
	madeProgress := false

	for len(m.pendingRsps) > 0 {
		rsp := m.pendingRsps[0]
		err := m.topPort.Send(rsp)
		if err != nil {
			break
		}

		m.pendingRsps = m.pendingRsps[1:]
		madeProgress = true
	}

	return madeProgress
}

// startNextOp decides what the controller works on next. An overdue refresh
// wins over a waiting request, so a steady request stream cannot starve
// refresh.
func (m *middleware) startNextOp() bool {
	if m.trans != nil || m.refreshing {
		return false
	}

	if m.initDone && m.refreshDue() {
		m.refreshing = true
		return true
	}

	msg := m.topPort.RetrieveIncoming()
	if msg == nil {
		return false
	}

	m.trans = m.parseReq(msg)
	tracing.TraceReqReceive(msg, m.Comp)

	return true
}

func (m *middleware) parseReq(msg sim.Msg) *transaction {
	switch req := msg.(type) {
	case *mem.ReadReq:
		if req.AccessByteSize != 2 || req.Address%2 != 0 {
			panic(fmt.Sprintf(
				"only aligned 2-byte accesses are supported, "+
					"addr 0x%x, size %d", req.Address, req.AccessByteSize))
		}

		return &transaction{
			req:      req,
			byteEnHi: true,
			byteEnLo: true,
		}
	case *mem.WriteReq:
		if len(req.Data) != 2 || req.Address%2 != 0 {
			panic(fmt.Sprintf(
				"only aligned 2-byte accesses are supported, "+
					"addr 0x%x, size %d", req.Address, len(req.Data)))
		}

		t := &transaction{
			req:      req,
			write:    true,
			data:     binary.LittleEndian.Uint16(req.Data),
			byteEnHi: true,
			byteEnLo: true,
		}
		if req.DirtyMask != nil {
			t.byteEnLo = req.DirtyMask[0]
			t.byteEnHi = req.DirtyMask[1]
		}

		return t
	}

	panic(fmt.Sprintf("message %T is not supported", msg))
}

// cycleHardware advances the controller and the device by one clock cycle.
func (m *middleware) cycleHardware() bool {
	if !m.anythingToDo() {
		return false
	}

	busOut := m.controller.Tick(m.hostIn())
	data, driving := m.device.Tick(busOut)

	if busOut.Command != ctrl.CommandNop && m.NumHooks() > 0 {
		m.InvokeHook(sim.HookCtx{
			Domain: m.Comp,
			Pos:    HookPosCommandIssue,
			Item:   busOut,
		})
	}

	if !m.initDone && m.controller.Ready() {
		m.initDone = true
		m.lastRefreshCycle = m.currentCycle()
	}

	if busOut.Done {
		m.completeOp(data, driving)
	}

	return true
}

func (m *middleware) anythingToDo() bool {
	if m.trans != nil || m.refreshing {
		return true
	}

	// Initialization keeps running once the first request wakes the
	// component up.
	return !m.initDone
}

func (m *middleware) hostIn() ctrl.HostIn {
	if m.refreshing {
		return ctrl.HostIn{RefreshRequest: true}
	}

	if m.trans == nil {
		return ctrl.HostIn{}
	}

	wordAddr := uint32(m.trans.req.GetAddress() >> 1)

	return ctrl.HostIn{
		ReadWriteRequest: true,
		WriteEnable:      !m.trans.write,
		Address:          wordAddr,
		WriteData:        m.trans.data,
		ByteEnableHigh:   m.trans.byteEnHi,
		ByteEnableLow:    m.trans.byteEnLo,
	}
}

// completeOp reacts to the done pulse. For reads, the device presents the
// data on the shared bus coincident with the pulse.
func (m *middleware) completeOp(data uint16, driving bool) {
	if m.refreshing {
		m.refreshing = false
		m.lastRefreshCycle = m.currentCycle()

		return
	}

	trans := m.trans
	m.trans = nil

	var rsp sim.Msg
	if trans.write {
		rsp = mem.WriteDoneRspBuilder{}.
			WithSrc(m.topPort).
			WithDst(trans.req.Meta().Src).
			WithRspTo(trans.req.Meta().ID).
			Build()
	} else {
		if !driving {
			panic("read completed without the device driving the bus")
		}

		rspData := make([]byte, 2)
		binary.LittleEndian.PutUint16(rspData, data)
		rsp = mem.DataReadyRspBuilder{}.
			WithSrc(m.topPort).
			WithDst(trans.req.Meta().Src).
			WithRspTo(trans.req.Meta().ID).
			WithData(rspData).
			Build()
	}

	m.pendingRsps = append(m.pendingRsps, rsp)
	tracing.TraceReqComplete(trans.req, m.Comp)
}

func (m *middleware) refreshDue() bool {
	return m.currentCycle()-m.lastRefreshCycle >= m.refreshInterval
}

func (m *middleware) currentCycle() uint64 {
	return m.Freq.Cycle(m.CurrentTime())
}
