package sdram

import (
	"github.com/sarchlab/sdramctrl/datarecording"
	"github.com/sarchlab/sdramctrl/sdram/internal/ctrl"
	"github.com/sarchlab/sdramctrl/sim"
)

type commandTableEntry struct {
	Time    float64
	Command string
	Wire    uint8
	Bank    uint8
	Addr    uint16
}

// A CommandTracer is a hook that records every non-NOP command the
// controller drives on the device bus into a data recorder.
type CommandTracer struct {
	timeTeller sim.TimeTeller
	backend    datarecording.DataRecorder
}

// NewCommandTracer creates a CommandTracer that writes into the
// "sdram_commands" table of the given recorder.
func NewCommandTracer(
	timeTeller sim.TimeTeller,
	backend datarecording.DataRecorder,
) *CommandTracer {
	backend.CreateTable("sdram_commands", commandTableEntry{})

	return &CommandTracer{
		timeTeller: timeTeller,
		backend:    backend,
	}
}

// Func records the command carried by the hook context.
func (t *CommandTracer) Func(ctx sim.HookCtx) {
	if ctx.Pos != HookPosCommandIssue {
		return
	}

	bus := ctx.Item.(ctrl.BusOut)
	t.backend.InsertData("sdram_commands", commandTableEntry{
		Time:    float64(t.timeTeller.CurrentTime()),
		Command: bus.Command.String(),
		Wire:    bus.Command.WireBits(),
		Bank:    bus.Bank,
		Addr:    bus.Addr,
	})
}
