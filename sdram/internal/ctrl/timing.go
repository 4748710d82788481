package ctrl

// Timing holds the minimum intervals, in clock cycles, that the memory
// device requires between commands.
type Timing struct {
	// PowerUpCycles is the number of cycles to hold the bus quiet after
	// power-up before the first command.
	PowerUpCycles int

	// TRP is the precharge-to-active minimum.
	TRP int

	// TRFC is the refresh cycle minimum.
	TRFC int

	// TMRD is the mode-register-set-to-command minimum.
	TMRD int

	// TRCD is the active-to-column-command minimum.
	TRCD int

	// CASLatency is the number of cycles between a READ command and valid
	// data on the bus. It is programmed into the device mode register.
	CASLatency int
}

// DefaultTiming returns the timing of a typical 166 MHz device, with the
// power-up wait covering roughly 200 microseconds.
func DefaultTiming() Timing {
	return Timing{
		PowerUpCycles: 20000,
		TRP:           2,
		TRFC:          8,
		TMRD:          2,
		TRCD:          1,
		CASLatency:    2,
	}
}
