// Package pin manages single GPIO lines on Linux hosts through the
// character device interface. A Pin owns exactly one line on one controller,
// fixed to an input or output direction for its whole lifetime, and is safe
// to share between goroutines.
package pin

import (
	"errors"
	"fmt"
	"sync"
)

// Direction is the configured direction of a Pin, fixed at construction.
type Direction int

const (
	Input Direction = iota
	Output
)

func (d Direction) String() string {
	if d == Output {
		return "output"
	}
	return "input"
}

var (
	// ErrControllerUnavailable means the GPIO controller could not be opened.
	ErrControllerUnavailable = errors.New("gpio controller unavailable")
	// ErrLineUnavailable means the requested line does not exist on the controller.
	ErrLineUnavailable = errors.New("gpio line unavailable")
	// ErrConfigurationFailed means the direction-scoped line request was rejected,
	// typically because another consumer already holds the line.
	ErrConfigurationFailed = errors.New("gpio line configuration failed")
	// ErrWrongDirection means Read was called on an output pin or Write on an
	// input pin. The pin stays valid for its configured direction.
	ErrWrongDirection = errors.New("wrong pin direction")
)

// DefaultChip is the controller index used when WithChip is not given.
const DefaultChip = 0

type options struct {
	chip     int
	label    string
	provider Provider
}

// Option adjusts pin construction.
type Option func(*options)

// WithLabel sets a human-readable name for the pin. When absent the label
// defaults to "Pin" followed by the line number.
func WithLabel(label string) Option {
	return func(o *options) { o.label = label }
}

// WithChip selects the controller index instead of DefaultChip.
func WithChip(index int) Option {
	return func(o *options) { o.chip = index }
}

// WithProvider selects the hardware line provider. The default is the
// character device on Linux builds and the shared simulator elsewhere or
// under the nogpio build tag.
func WithProvider(p Provider) Option {
	return func(o *options) { o.provider = p }
}

// Pin is exclusive ownership of one GPIO line. All hardware access through
// a Pin is serialized by a per-instance mutex.
type Pin struct {
	number    int
	direction Direction
	label     string

	mu   sync.Mutex
	chip Chip
	line Line
}

// New reserves line number on a controller, configured for dir. The line is
// held exclusively until Close; a second request for the same line, from
// this or any other process, fails until then.
func New(number int, dir Direction, opts ...Option) (*Pin, error) {
	o := options{chip: DefaultChip}
	for _, opt := range opts {
		opt(&o)
	}
	if o.provider == nil {
		o.provider = defaultProvider()
	}
	label := o.label
	if label == "" {
		label = fmt.Sprintf("Pin%d", number)
	}

	chip, err := o.provider.OpenChip(o.chip)
	if err != nil {
		return nil, fmt.Errorf("%w: opening gpiochip%d: %v", ErrControllerUnavailable, o.chip, err)
	}
	if number < 0 || number >= chip.Lines() {
		chip.Close()
		return nil, fmt.Errorf("%w: gpiochip%d has no line %d", ErrLineUnavailable, o.chip, number)
	}
	line, err := chip.RequestLine(number, dir, label)
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("%w: requesting line %d as %s: %v", ErrConfigurationFailed, number, dir, err)
	}

	return &Pin{
		number:    number,
		direction: dir,
		label:     label,
		chip:      chip,
		line:      line,
	}, nil
}

// Read reports whether the line is high. It fails with ErrWrongDirection,
// without touching the hardware, unless the pin was constructed as Input.
func (p *Pin) Read() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.direction != Input {
		return false, fmt.Errorf("%w: attempted read on output-configured pin %s", ErrWrongDirection, p.label)
	}
	if p.line == nil {
		return false, fmt.Errorf("pin %s is closed", p.label)
	}
	v, err := p.line.Value()
	if err != nil {
		return false, fmt.Errorf("reading line %d: %w", p.number, err)
	}
	return v > 0, nil
}

// Write drives the line high when value is true, low otherwise. It fails
// with ErrWrongDirection, without touching the hardware, unless the pin was
// constructed as Output.
func (p *Pin) Write(value bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.direction != Output {
		return fmt.Errorf("%w: attempted write on input-configured pin %s", ErrWrongDirection, p.label)
	}
	if p.line == nil {
		return fmt.Errorf("pin %s is closed", p.label)
	}
	v := 0
	if value {
		v = 1
	}
	if err := p.line.SetValue(v); err != nil {
		return fmt.Errorf("writing line %d: %w", p.number, err)
	}
	return nil
}

// Label returns the pin's name. Immutable after construction.
func (p *Pin) Label() string {
	return p.label
}

// Number returns the line number on the controller.
func (p *Pin) Number() int {
	return p.number
}

// Direction returns the pin's configured direction.
func (p *Pin) Direction() Direction {
	return p.direction
}

// Close releases the line and then the controller connection. It is
// idempotent and best-effort: release errors are dropped, and calling any
// operation after Close is not supported.
func (p *Pin) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.line != nil {
		_ = p.line.Close()
		p.line = nil
	}
	if p.chip != nil {
		_ = p.chip.Close()
		p.chip = nil
	}
}
