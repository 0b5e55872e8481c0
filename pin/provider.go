package pin

// Provider opens GPIO controllers by index. The platform implementation is
// picked by build tags; tests and off-target builds substitute a Simulator.
type Provider interface {
	OpenChip(index int) (Chip, error)
}

// Chip is an open connection to one GPIO controller.
type Chip interface {
	// Lines returns the number of lines the controller exposes.
	Lines() int
	// RequestLine takes exclusive ownership of a line, configured for dir.
	// The consumer string is recorded by the platform so tools like gpioinfo
	// can report who holds the line.
	RequestLine(offset int, dir Direction, consumer string) (Line, error)
	Close() error
}

// Line is a reserved line on an open controller.
type Line interface {
	// Value returns the raw electrical state, any value above zero meaning high.
	Value() (int, error)
	SetValue(value int) error
	// Close releases the reservation, making the line requestable again.
	Close() error
}
