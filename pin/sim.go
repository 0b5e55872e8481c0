package pin

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

// Simulator is an in-memory Provider backing a single controller (chip 0).
// It keeps the reservation semantics of the real character device: a line
// can be held by one consumer at a time and becomes requestable again once
// released. Drive and Level stand in for the external world, letting tests
// and hardware-less demo runs set inputs and observe outputs.
type Simulator struct {
	mu    sync.Mutex
	lines []simLine
}

type simLine struct {
	level    int
	reserved bool
	consumer string
}

// NewSimulator returns a Simulator whose controller has numLines lines,
// all low and unreserved.
func NewSimulator(numLines int) *Simulator {
	return &Simulator{lines: make([]simLine, numLines)}
}

// Drive sets the electrical level of a line from outside, the way a button
// or an external circuit would. It works regardless of reservations.
func (s *Simulator) Drive(offset int, high bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if offset < 0 || offset >= len(s.lines) {
		return
	}
	s.lines[offset].level = levelOf(high)
}

// Level reports the raw electrical state of a line.
func (s *Simulator) Level(offset int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if offset < 0 || offset >= len(s.lines) {
		return false
	}
	return s.lines[offset].level > 0
}

// Reserved reports whether a line is currently held by a consumer.
func (s *Simulator) Reserved(offset int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if offset < 0 || offset >= len(s.lines) {
		return false
	}
	return s.lines[offset].reserved
}

func (s *Simulator) OpenChip(index int) (Chip, error) {
	if index != 0 {
		return nil, fmt.Errorf("no such chip: gpiochip%d", index)
	}
	return &simChip{sim: s}, nil
}

type simChip struct {
	sim    *Simulator
	closed bool
}

func (c *simChip) Lines() int {
	return len(c.sim.lines)
}

func (c *simChip) RequestLine(offset int, dir Direction, consumer string) (Line, error) {
	c.sim.mu.Lock()
	defer c.sim.mu.Unlock()
	if c.closed {
		return nil, fmt.Errorf("chip is closed")
	}
	if offset < 0 || offset >= len(c.sim.lines) {
		return nil, fmt.Errorf("no such line: %d", offset)
	}
	l := &c.sim.lines[offset]
	if l.reserved {
		return nil, fmt.Errorf("line %d is busy (held by %s)", offset, l.consumer)
	}
	l.reserved = true
	l.consumer = consumer
	if dir == Output {
		l.level = 0
	}
	log.Debug().Int("line", offset).Stringer("direction", dir).Str("consumer", consumer).
		Msg("Simulated line requested")
	return &simRequestedLine{sim: c.sim, offset: offset, dir: dir}, nil
}

func (c *simChip) Close() error {
	c.sim.mu.Lock()
	defer c.sim.mu.Unlock()
	c.closed = true
	return nil
}

type simRequestedLine struct {
	sim    *Simulator
	offset int
	dir    Direction
	closed bool
}

func (l *simRequestedLine) Value() (int, error) {
	l.sim.mu.Lock()
	defer l.sim.mu.Unlock()
	if l.closed {
		return 0, fmt.Errorf("line %d is released", l.offset)
	}
	return l.sim.lines[l.offset].level, nil
}

func (l *simRequestedLine) SetValue(value int) error {
	l.sim.mu.Lock()
	defer l.sim.mu.Unlock()
	if l.closed {
		return fmt.Errorf("line %d is released", l.offset)
	}
	l.sim.lines[l.offset].level = value
	log.Debug().Int("line", l.offset).Int("value", value).Msg("Simulated line set")
	return nil
}

func (l *simRequestedLine) Close() error {
	l.sim.mu.Lock()
	defer l.sim.mu.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	l.sim.lines[l.offset].reserved = false
	l.sim.lines[l.offset].consumer = ""
	return nil
}

func levelOf(high bool) int {
	if high {
		return 1
	}
	return 0
}
