// Package memaccessagent provides a component that exercises memory
// controllers by generating a large number of single-word read and write
// requests and verifying the data that comes back.
package memaccessagent

import (
	"encoding/binary"
	"log"
	"math/rand"
	"reflect"

	"github.com/sarchlab/sdramctrl/mem"
	"github.com/sarchlab/sdramctrl/sim"
)

var dumpLog = false

// A MemAccessAgent is a Component that can help test memory controllers by
// generating a large number of read and write requests.
type MemAccessAgent struct {
	*sim.TickingComponent

	LowModule  sim.Port
	MaxAddress uint64

	WriteLeft       int
	ReadLeft        int
	KnownMemValue   map[uint64]uint16
	PendingReadReq  map[string]*mem.ReadReq
	PendingWriteReq map[string]*mem.WriteReq

	memPort sim.Port
}

// NewMemAccessAgent creates a new MemAccessAgent.
func NewMemAccessAgent(engine sim.Engine) *MemAccessAgent {
	agent := new(MemAccessAgent)
	agent.TickingComponent = sim.NewTickingComponent(
		"Agent", engine, 1*sim.GHz, agent)

	agent.memPort = sim.NewPort(agent, 1, 1, "Agent.MemPort")
	agent.AddPort("Mem", agent.memPort)

	agent.ReadLeft = 10000
	agent.WriteLeft = 10000
	agent.KnownMemValue = make(map[uint64]uint16)
	agent.PendingWriteReq = make(map[string]*mem.WriteReq)
	agent.PendingReadReq = make(map[string]*mem.ReadReq)

	return agent
}

// MemPort returns the port that the agent uses to access memory.
func (a *MemAccessAgent) MemPort() sim.Port {
	return a.memPort
}

// Tick updates the states of the agent and issues new read and write
// requests.
func (a *MemAccessAgent) Tick() bool {
	madeProgress := false

	madeProgress = a.processMsgRsp() || madeProgress

	if a.ReadLeft == 0 && a.WriteLeft == 0 {
		return madeProgress
	}

	if a.shouldRead() {
		madeProgress = a.doRead() || madeProgress
	} else {
		madeProgress = a.doWrite() || madeProgress
	}

	return madeProgress
}

func (a *MemAccessAgent) processMsgRsp() bool {
	msg := a.memPort.RetrieveIncoming()
	if msg == nil {
		return false
	}

	switch msg := msg.(type) {
	case *mem.WriteDoneRsp:
		if dumpLog {
			write := a.PendingWriteReq[msg.RespondTo]
			log.Printf("%.10f, agent, write complete, 0x%X\n",
				a.CurrentTime(), write.Address)
		}

		delete(a.PendingWriteReq, msg.RespondTo)

		return true
	case *mem.DataReadyRsp:
		req := a.PendingReadReq[msg.RespondTo]
		delete(a.PendingReadReq, msg.RespondTo)

		if dumpLog {
			log.Printf("%.10f, agent, read complete, 0x%X, %v\n",
				a.CurrentTime(), req.Address, msg.Data)
		}

		a.checkReadResult(req, msg)

		return true
	default:
		log.Panicf("cannot process message of type %s", reflect.TypeOf(msg))
	}

	return false
}

func (a *MemAccessAgent) checkReadResult(
	req *mem.ReadReq,
	rsp *mem.DataReadyRsp,
) {
	expected, known := a.KnownMemValue[req.Address]
	if !known {
		log.Panicf("read from address 0x%X that was never written", req.Address)
	}

	got := binary.LittleEndian.Uint16(rsp.Data)
	if got != expected {
		log.Panicf("read at 0x%X returned 0x%04X, expected 0x%04X",
			req.Address, got, expected)
	}
}

func (a *MemAccessAgent) shouldRead() bool {
	if len(a.KnownMemValue) == 0 {
		return false
	}

	if a.ReadLeft == 0 {
		return false
	}

	if a.WriteLeft == 0 {
		return true
	}

	dice := rand.Float64()

	return dice > 0.5
}

func (a *MemAccessAgent) doRead() bool {
	address := a.randomReadAddress()

	if a.isAddressInPendingReq(address) {
		return false
	}

	readReq := mem.ReadReqBuilder{}.
		WithSrc(a.memPort).
		WithDst(a.LowModule).
		WithAddress(address).
		WithByteSize(2).
		Build()

	err := a.memPort.Send(readReq)
	if err == nil {
		a.PendingReadReq[readReq.ID] = readReq
		a.ReadLeft--

		if dumpLog {
			log.Printf("%.10f, agent, read, 0x%X\n", a.CurrentTime(), address)
		}

		return true
	}

	return false
}

func (a *MemAccessAgent) randomReadAddress() uint64 {
	for {
		addr := rand.Uint64() % (a.MaxAddress / 2) * 2
		if _, written := a.KnownMemValue[addr]; written {
			return addr
		}
	}
}

func (a *MemAccessAgent) doWrite() bool {
	address := rand.Uint64() % (a.MaxAddress / 2) * 2
	data := uint16(rand.Uint32())

	if a.isAddressInPendingReq(address) {
		return false
	}

	writeReq := mem.WriteReqBuilder{}.
		WithSrc(a.memPort).
		WithDst(a.LowModule).
		WithAddress(address).
		WithData(uint16ToBytes(data)).
		Build()

	err := a.memPort.Send(writeReq)
	if err == nil {
		a.WriteLeft--
		a.KnownMemValue[address] = data
		a.PendingWriteReq[writeReq.ID] = writeReq

		if dumpLog {
			log.Printf("%.10f, agent, write, 0x%X, %v\n",
				a.CurrentTime(), address, writeReq.Data)
		}

		return true
	}

	return false
}

func (a *MemAccessAgent) isAddressInPendingReq(addr uint64) bool {
	return a.isAddressInPendingWrite(addr) || a.isAddressInPendingRead(addr)
}

func (a *MemAccessAgent) isAddressInPendingWrite(addr uint64) bool {
	for _, write := range a.PendingWriteReq {
		if write.Address == addr {
			return true
		}
	}

	return false
}

func (a *MemAccessAgent) isAddressInPendingRead(addr uint64) bool {
	for _, read := range a.PendingReadReq {
		if read.Address == addr {
			return true
		}
	}

	return false
}

func uint16ToBytes(data uint16) []byte {
	bytes := make([]byte, 2)
	binary.LittleEndian.PutUint16(bytes, data)

	return bytes
}
