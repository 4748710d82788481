package sdram

import (
	"github.com/sarchlab/sdramctrl/mem"
	"github.com/sarchlab/sdramctrl/sdram/internal/ctrl"
	"github.com/sarchlab/sdramctrl/sdram/internal/device"
	"github.com/sarchlab/sdramctrl/sim"
)

// Timing re-exports the device timing parameters so that builder users can
// override them.
type Timing = ctrl.Timing

// DefaultTiming returns the default device timing parameters.
func DefaultTiming() Timing {
	return ctrl.DefaultTiming()
}

// A Builder can build SDRAM memory controllers.
type Builder struct {
	engine          sim.Engine
	freq            sim.Freq
	timing          ctrl.Timing
	refreshInterval uint64
	storage         *mem.Storage
}

// MakeBuilder returns a builder with default parameters. The defaults model
// a 166 MHz device with a refresh interval that covers the whole array
// within the standard 64 ms window.
func MakeBuilder() Builder {
	return Builder{
		freq:            166 * sim.MHz,
		timing:          ctrl.DefaultTiming(),
		refreshInterval: 1560,
	}
}

// WithEngine sets the engine that drives the controller.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the clock frequency of the controller and the device.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithTiming sets the device timing parameters.
func (b Builder) WithTiming(timing Timing) Builder {
	b.timing = timing
	return b
}

// WithRefreshInterval sets the number of cycles between injected refresh
// cycles.
func (b Builder) WithRefreshInterval(cycles uint64) Builder {
	b.refreshInterval = cycles
	return b
}

// WithStorage sets the storage that backs the device. Without it, the
// builder allocates a storage that covers the full 24-bit word address
// space.
func (b Builder) WithStorage(storage *mem.Storage) Builder {
	b.storage = storage
	return b
}

// Build creates an SDRAM memory controller with the given name.
func (b Builder) Build(name string) *Comp {
	c := &Comp{}
	c.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, c)

	storage := b.storage
	if storage == nil {
		storage = mem.NewStorage(1 << 25)
	}

	c.storage = storage
	c.controller = ctrl.NewController(b.timing)
	c.device = device.NewDevice(storage)
	c.refreshInterval = b.refreshInterval

	c.topPort = sim.NewPort(c, 4, 4, name+".TopPort")
	c.AddPort("Top", c.topPort)

	m := &middleware{Comp: c}
	c.AddMiddleware(m)

	return c
}
