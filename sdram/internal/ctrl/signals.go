package ctrl

// HostIn carries the request signals that the host presents to the
// controller. All signals are sampled once per tick. The payload fields must
// stay stable from the tick the request is asserted until the tick the done
// pulse fires.
type HostIn struct {
	// Reset returns the controller to the start of initialization. It
	// overrides everything else.
	Reset bool

	// RefreshRequest asks for one refresh cycle. It is honored only while
	// the controller is idle and ready, and is not queued otherwise.
	RefreshRequest bool

	// ReadWriteRequest asks for one single-word access. It takes priority
	// over RefreshRequest when both are asserted.
	ReadWriteRequest bool

	// WriteEnable selects the access direction, matching the active-low
	// write line: false requests a write, true a read.
	WriteEnable bool

	// Address is the 24-bit linear word address of the access.
	Address uint32

	// WriteData is the word to store on a write.
	WriteData uint16

	// ByteEnableHigh and ByteEnableLow select which bytes of the word take
	// part in the access.
	ByteEnableHigh bool
	ByteEnableLow  bool
}

// BusOut carries the registered outputs that the controller drives to the
// device and back to the host. The controller produces one BusOut per tick.
type BusOut struct {
	// ClockEnable is the device clock enable line.
	ClockEnable bool

	// Command is the operation the device observes this tick.
	Command Command

	// Bank is the 2-bit bank select.
	Bank uint8

	// Addr is the 13-bit multiplexed address bus. It carries the row on
	// ACTIVE, the column on READ and WRITE, the mode pattern on LOADMODE,
	// and the all-banks flag on PRECHARGE.
	Addr uint16

	// Data is the word the controller drives on the shared data bus.
	// Meaningful only while DataDriven is true.
	Data uint16

	// DataDriven reports that the controller owns the shared data bus this
	// tick. At all other times the device is free to drive it.
	DataDriven bool

	// DQMHigh and DQMLow are the byte mask lines. A high mask disables the
	// corresponding byte.
	DQMHigh bool
	DQMLow  bool

	// Ready is true once initialization has completed.
	Ready bool

	// Done is a single-tick pulse marking the completion of a refresh or
	// read/write operation. For reads, the device presents valid data on
	// the shared bus coincident with this pulse.
	Done bool
}
