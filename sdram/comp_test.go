package sdram

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/sdramctrl/memaccessagent"
	"github.com/sarchlab/sdramctrl/sdram/internal/ctrl"
	"github.com/sarchlab/sdramctrl/sim"
	"github.com/sarchlab/sdramctrl/sim/directconnection"
)

func fastTiming() ctrl.Timing {
	return ctrl.Timing{
		PowerUpCycles: 20,
		TRP:           2,
		TRFC:          8,
		TMRD:          2,
		TRCD:          1,
		CASLatency:    2,
	}
}

type commandRecorder struct {
	cmds []ctrl.Command
}

func (r *commandRecorder) Func(ctx sim.HookCtx) {
	if ctx.Pos == HookPosCommandIssue {
		r.cmds = append(r.cmds, ctx.Item.(ctrl.BusOut).Command)
	}
}

var _ = Describe("SDRAM Controller", func() {
	var (
		engine *sim.SerialEngine
		comp   *Comp
		agent  *memaccessagent.MemAccessAgent
	)

	BeforeEach(func() {
		engine = sim.NewSerialEngine()

		comp = MakeBuilder().
			WithEngine(engine).
			WithFreq(1 * sim.GHz).
			WithTiming(fastTiming()).
			WithRefreshInterval(2000).
			Build("SDRAM")

		agent = memaccessagent.NewMemAccessAgent(engine)
		agent.MaxAddress = 1 << 20
		agent.LowModule = comp.TopPort()

		conn := directconnection.MakeBuilder().
			WithEngine(engine).
			WithFreq(1 * sim.GHz).
			Build("Conn")
		conn.PlugIn(agent.MemPort())
		conn.PlugIn(comp.TopPort())
	})

	It("should complete a write and store the data", func() {
		agent.WriteLeft = 1
		agent.ReadLeft = 0

		agent.TickLater()
		err := engine.Run()

		Expect(err).To(BeNil())
		Expect(agent.PendingWriteReq).To(BeEmpty())

		for addr, value := range agent.KnownMemValue {
			data, readErr := comp.Storage().Read(addr, 2)
			Expect(readErr).To(BeNil())
			Expect(uint16(data[0]) | uint16(data[1])<<8).To(Equal(value))
		}
	})

	It("should serve read and write round trips", func() {
		agent.WriteLeft = 100
		agent.ReadLeft = 100

		agent.TickLater()
		err := engine.Run()

		Expect(err).To(BeNil())
		Expect(agent.WriteLeft).To(Equal(0))
		Expect(agent.ReadLeft).To(Equal(0))
		Expect(agent.PendingReadReq).To(BeEmpty())
		Expect(agent.PendingWriteReq).To(BeEmpty())
	})

	It("should issue the initialization sequence before serving", func() {
		recorder := &commandRecorder{}
		comp.AcceptHook(recorder)

		agent.WriteLeft = 1
		agent.ReadLeft = 0

		agent.TickLater()
		err := engine.Run()
		Expect(err).To(BeNil())

		expected := []ctrl.Command{ctrl.CommandPrecharge}
		for i := 0; i < 8; i++ {
			expected = append(expected, ctrl.CommandRefresh)
		}
		expected = append(expected, ctrl.CommandLoadMode)
		for i := 0; i < 8; i++ {
			expected = append(expected, ctrl.CommandRefresh)
		}

		Expect(len(recorder.cmds)).To(BeNumerically(">", len(expected)))
		Expect(recorder.cmds[:len(expected)]).To(Equal(expected))
	})

	It("should inject refresh cycles during long workloads", func() {
		recorder := &commandRecorder{}
		comp.AcceptHook(recorder)

		agent.WriteLeft = 500
		agent.ReadLeft = 500

		agent.TickLater()
		err := engine.Run()
		Expect(err).To(BeNil())

		refreshes := 0
		for _, cmd := range recorder.cmds {
			if cmd == ctrl.CommandRefresh {
				refreshes++
			}
		}

		// 16 warm-up refreshes plus at least one injected by the interval.
		Expect(refreshes).To(BeNumerically(">", 16))
	})
})
