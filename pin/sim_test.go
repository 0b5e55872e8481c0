package pin_test

import (
	"testing"

	"kpf5297/digitalpin/pin"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulatorWriteRoundTrip(t *testing.T) {
	sim := pin.NewSimulator(32)

	led, err := pin.New(17, pin.Output, pin.WithProvider(sim), pin.WithLabel("LED"))
	require.NoError(t, err)
	defer led.Close()

	require.NoError(t, led.Write(true))
	assert.True(t, sim.Level(17), "line must observe the written high state")

	require.NoError(t, led.Write(false))
	assert.False(t, sim.Level(17), "line must observe the written low state")
}

func TestSimulatorExternallyDrivenInput(t *testing.T) {
	sim := pin.NewSimulator(32)

	button, err := pin.New(27, pin.Input, pin.WithProvider(sim), pin.WithLabel("Button"))
	require.NoError(t, err)
	defer button.Close()

	state, err := button.Read()
	require.NoError(t, err)
	assert.False(t, state)

	sim.Drive(27, true)
	state, err = button.Read()
	require.NoError(t, err)
	assert.True(t, state)
}

func TestSimulatorEnforcesReservation(t *testing.T) {
	sim := pin.NewSimulator(32)

	led, err := pin.New(17, pin.Output, pin.WithProvider(sim))
	require.NoError(t, err)
	assert.True(t, sim.Reserved(17))

	_, err = pin.New(17, pin.Input, pin.WithProvider(sim))
	assert.ErrorIs(t, err, pin.ErrConfigurationFailed)

	// Closing releases the reservation so the line can be taken again.
	led.Close()
	assert.False(t, sim.Reserved(17))

	again, err := pin.New(17, pin.Output, pin.WithProvider(sim))
	require.NoError(t, err)
	again.Close()
}

func TestSimulatorLineUnavailable(t *testing.T) {
	sim := pin.NewSimulator(32)

	_, err := pin.New(99, pin.Output, pin.WithProvider(sim))
	assert.ErrorIs(t, err, pin.ErrLineUnavailable)
}

func TestSimulatorChipIndex(t *testing.T) {
	sim := pin.NewSimulator(32)

	_, err := pin.New(17, pin.Output, pin.WithProvider(sim), pin.WithChip(1))
	assert.ErrorIs(t, err, pin.ErrControllerUnavailable)
}

func TestSimulatorOutputRequestResetsLevel(t *testing.T) {
	sim := pin.NewSimulator(32)
	sim.Drive(17, true)

	led, err := pin.New(17, pin.Output, pin.WithProvider(sim))
	require.NoError(t, err)
	defer led.Close()

	assert.False(t, sim.Level(17), "output request must start the line low")
}
