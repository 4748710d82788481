package ctrl

// A Controller is the state machine that turns host-level read, write, and
// refresh requests into the command sequence an SDRAM device requires. It
// advances exactly one tick per call to Tick.
//
// Each state occupies at least one tick. A state whose minimum interval
// spans multiple cycles loads a countdown timer on entry and holds the
// state, issuing NOPs, until the timer drains.
type Controller struct {
	timing Timing

	state          State
	timer          int
	entered        bool
	refreshCounter int
	ready          bool

	bank      uint8
	row       uint16
	col       uint16
	writeData uint16
	isWrite   bool
	byteEnHi  bool
	byteEnLo  bool
}

// NewController creates a controller that honors the given device timing.
// The controller starts at the beginning of initialization, as if reset had
// just been released.
func NewController(timing Timing) *Controller {
	c := &Controller{timing: timing}
	c.Reset()

	return c
}

// Reset unconditionally returns the controller to the start of
// initialization, discarding any in-flight operation.
func (c *Controller) Reset() {
	c.enter(StateInitPowerUp)
	c.refreshCounter = 0
	c.ready = false
	c.bank = 0
	c.row = 0
	c.col = 0
	c.writeData = 0
	c.isWrite = false
	c.byteEnHi = false
	c.byteEnLo = false
}

// State returns the state the controller is currently in.
func (c *Controller) State() State {
	return c.state
}

// Ready returns true once initialization has completed.
func (c *Controller) Ready() bool {
	return c.ready
}

// Tick advances the controller by one clock cycle and returns the outputs
// it drives during that cycle.
func (c *Controller) Tick(in HostIn) BusOut {
	if in.Reset {
		c.Reset()

		return BusOut{Command: CommandNop}
	}

	if c.state == StateIdle && c.ready {
		c.acceptRequest(in)
	}

	out := c.defaultOut()
	c.drive(&out)
	c.advance()

	return out
}

// acceptRequest moves the controller out of idle when the host asserts a
// request. Read/write wins over refresh when both are asserted. A refresh
// asserted while the controller is busy is dropped, not queued.
func (c *Controller) acceptRequest(in HostIn) {
	switch {
	case in.ReadWriteRequest:
		c.bank, c.row, c.col = DecodeAddress(in.Address)
		c.writeData = in.WriteData
		c.isWrite = !in.WriteEnable
		c.byteEnHi = in.ByteEnableHigh
		c.byteEnLo = in.ByteEnableLow
		c.enter(StateRowActivate)
	case in.RefreshRequest:
		c.enter(StateRefreshing)
	}
}

// defaultOut fills every output with its quiescent value before the active
// state overrides its own. The address bus defaults to the latched column
// with the auto-precharge bit forced low, so explicit PRECHARGE commands
// alone control row closure.
func (c *Controller) defaultOut() BusOut {
	return BusOut{
		ClockEnable: true,
		Command:     CommandNop,
		Bank:        c.bank,
		Addr:        c.col &^ AutoPrechargeBit,
		DQMHigh:     !c.byteEnHi,
		DQMLow:      !c.byteEnLo,
		Ready:       c.ready,
	}
}

//nolint:gocyclo
func (c *Controller) drive(out *BusOut) {
	switch c.state {
	case StateInitPowerUp:
		out.DQMHigh = true
		out.DQMLow = true
	case StateInitPrechargeAll:
		if c.entered {
			out.Command = CommandPrecharge
			out.Addr = AutoPrechargeBit
			c.refreshCounter = 8
		}
	case StateInitRefresh1, StateInitRefresh2:
		if c.entered {
			out.Command = CommandRefresh
			c.refreshCounter--
		}
	case StateInitModeSet:
		if c.entered {
			out.Command = CommandLoadMode
			out.Bank = 0
			out.Addr = ModeRegisterBits
		}
	case StateIdle:
		// NOP until the host asks for something.
	case StateRefreshing:
		if c.entered {
			out.Command = CommandRefresh
		}
		out.Done = c.timer == 0
	case StateRowActivate:
		out.Command = CommandActive
		out.Addr = c.row
	case StateRowToColumn:
		// NOP while the active-to-column minimum elapses.
	case StateColumnAccess:
		out.Addr = c.col &^ AutoPrechargeBit
		if c.isWrite {
			out.Command = CommandWrite
			out.Data = c.writeData
			out.DataDriven = true
		} else {
			out.Command = CommandRead
		}
	case StateDataPhase1:
		// Bus ownership is back with the device.
	case StateDataPhase2:
		out.Command = CommandPrecharge
		out.Addr = AutoPrechargeBit
	case StatePrechargeDone:
		out.Done = true
	}
}

// advance consumes one tick of the current state's dwell and transitions
// when the countdown reaches zero.
func (c *Controller) advance() {
	if c.timer > 0 {
		c.timer--
		c.entered = false

		return
	}

	switch c.state {
	case StateInitPowerUp:
		c.enter(StateInitPrechargeAll)
	case StateInitPrechargeAll:
		c.enter(StateInitRefresh1)
	case StateInitRefresh1:
		if c.refreshCounter > 0 {
			c.enter(StateInitRefresh1)
		} else {
			c.enter(StateInitModeSet)
		}
	case StateInitModeSet:
		c.refreshCounter = 8
		c.enter(StateInitRefresh2)
	case StateInitRefresh2:
		if c.refreshCounter > 0 {
			c.enter(StateInitRefresh2)
		} else {
			c.ready = true
			c.enter(StateIdle)
		}
	case StateIdle:
		// Stay. Requests are accepted at the top of the next tick.
	case StateRefreshing:
		c.enter(StateIdle)
	case StateRowActivate:
		c.enter(StateRowToColumn)
	case StateRowToColumn:
		c.enter(StateColumnAccess)
	case StateColumnAccess:
		c.enter(StateDataPhase1)
	case StateDataPhase1:
		c.enter(StateDataPhase2)
	case StateDataPhase2:
		c.enter(StatePrechargeDone)
	case StatePrechargeDone:
		c.enter(StateIdle)
	}
}

func (c *Controller) enter(s State) {
	c.state = s
	c.timer = c.occupancy(s) - 1
	c.entered = true
}

// occupancy returns the number of ticks a state holds the machine. States
// with no device-imposed minimum still take one tick.
func (c *Controller) occupancy(s State) int {
	dwell := 1

	switch s {
	case StateInitPowerUp:
		dwell = c.timing.PowerUpCycles
	case StateInitPrechargeAll:
		dwell = c.timing.TRP
	case StateInitRefresh1, StateInitRefresh2, StateRefreshing:
		dwell = c.timing.TRFC
	case StateInitModeSet:
		dwell = c.timing.TMRD
	case StateRowToColumn:
		dwell = c.timing.TRCD
	}

	if dwell < 1 {
		dwell = 1
	}

	return dwell
}
