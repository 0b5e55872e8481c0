package main

import (
	"fmt"
	"sync"

	"kpf5297/digitalpin/pin"
	"kpf5297/digitalpin/pubsub"
)

// PinState is the externally visible state of one pin, as reported by the
// HTTP API and the live event stream.
type PinState struct {
	Label     string `json:"label"`
	Line      int    `json:"line"`
	Direction string `json:"direction"`
	State     bool   `json:"state"`
}

// Board owns the demo's two pins: one output (the LED) and one input (the
// button). Writes go through SetOutput so the last driven state is known and
// every change is published to subscribers.
type Board struct {
	output *pin.Pin
	input  *pin.Pin

	mu         sync.Mutex
	lastOutput bool

	events *pubsub.Pubsub[PinState]
}

// NewBoard reserves both demo pins. Extra options (for example a simulator
// provider in tests) apply to both. Either reservation failing releases
// anything already acquired.
func NewBoard(config *Config, opts ...pin.Option) (*Board, error) {
	chip := pin.WithChip(config.Chip())

	output, err := pin.New(config.OutputPin(), pin.Output,
		append([]pin.Option{chip, pin.WithLabel(config.OutputLabel())}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("output pin: %w", err)
	}

	input, err := pin.New(config.InputPin(), pin.Input,
		append([]pin.Option{chip, pin.WithLabel(config.InputLabel())}, opts...)...)
	if err != nil {
		output.Close()
		return nil, fmt.Errorf("input pin: %w", err)
	}

	return &Board{
		output: output,
		input:  input,
		events: pubsub.New[PinState](),
	}, nil
}

// SetOutput drives the output pin and publishes the new state.
func (b *Board) SetOutput(state bool) error {
	if err := b.output.Write(state); err != nil {
		return err
	}

	b.mu.Lock()
	b.lastOutput = state
	b.mu.Unlock()

	b.events.Publish(b.outputState(state))
	return nil
}

// ReadInput samples the input pin.
func (b *Board) ReadInput() (bool, error) {
	return b.input.Read()
}

// States reports both pins: the output's last driven state and a fresh
// sample of the input.
func (b *Board) States() ([]PinState, error) {
	in, err := b.ReadInput()
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	out := b.lastOutput
	b.mu.Unlock()

	return []PinState{
		b.outputState(out),
		{
			Label:     b.input.Label(),
			Line:      b.input.Number(),
			Direction: b.input.Direction().String(),
			State:     in,
		},
	}, nil
}

func (b *Board) outputState(state bool) PinState {
	return PinState{
		Label:     b.output.Label(),
		Line:      b.output.Number(),
		Direction: b.output.Direction().String(),
		State:     state,
	}
}

func (b *Board) OutputLabel() string {
	return b.output.Label()
}

func (b *Board) InputLabel() string {
	return b.input.Label()
}

// Subscribe returns a feed of state-change events. Callers must Unsubscribe.
func (b *Board) Subscribe() (pubsub.SubscriptionID, <-chan PinState) {
	return b.events.Subscribe()
}

func (b *Board) Unsubscribe(id pubsub.SubscriptionID) {
	b.events.Unsubscribe(id)
}

// Close releases both pin reservations.
func (b *Board) Close() {
	b.output.Close()
	b.input.Close()
}
