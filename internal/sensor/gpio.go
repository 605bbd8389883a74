package sensor

import (
	"errors"
	"fmt"
	"sync"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/oshokin/freezer-monitor/internal/domain/freezer"
)

// DefaultPin is the BCM name of physical header pin 11, where the freezer
// contact is wired.
const DefaultPin = "GPIO17"

// Reader reads the current level of the monitored contact.
// Reads are expected to be fast and non-blocking.
type Reader interface {
	ReadLevel() (freezer.Level, error)
}

var (
	// errPinNotFound is returned when the host has no pin with the requested name.
	errPinNotFound = errors.New("gpio pin not found")

	// hostInit guards the one-time periph driver initialisation.
	//nolint:gochecknoglobals // periph drivers are process-wide.
	hostInit = sync.OnceValue(func() error {
		_, err := host.Init()

		return err
	})
)

// GPIOReader reads a GPIO input pin configured without pull resistors;
// the contact circuit provides its own.
type GPIOReader struct {
	pin gpio.PinIO
}

// OpenGPIO initialises the host drivers and configures the named pin as an input.
func OpenGPIO(name string) (*GPIOReader, error) {
	if err := hostInit(); err != nil {
		return nil, fmt.Errorf("initialise gpio host: %w", err)
	}

	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, fmt.Errorf("%w: %s", errPinNotFound, name)
	}

	if err := pin.In(gpio.Float, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("configure %s as input: %w", name, err)
	}

	return &GPIOReader{pin: pin}, nil
}

// Name returns the pin name.
func (r *GPIOReader) Name() string {
	return r.pin.Name()
}

// ReadLevel samples the pin.
func (r *GPIOReader) ReadLevel() (freezer.Level, error) {
	return freezer.Level(r.pin.Read() == gpio.High), nil
}
