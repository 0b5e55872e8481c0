package pin_test

import (
	"errors"
	"sync"
	"testing"

	"kpf5297/digitalpin/pin"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider records every provider call so tests can check cleanup
// behavior on the construction failure paths.
type fakeProvider struct {
	openErr    error
	requestErr error
	lines      int

	chip *fakeChip
}

func (f *fakeProvider) OpenChip(index int) (pin.Chip, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	f.chip = &fakeChip{provider: f, lines: f.lines}
	return f.chip, nil
}

type fakeChip struct {
	provider *fakeProvider
	lines    int
	closed   bool

	line *fakeLine
}

func (c *fakeChip) Lines() int { return c.lines }

func (c *fakeChip) RequestLine(offset int, dir pin.Direction, consumer string) (pin.Line, error) {
	if c.provider.requestErr != nil {
		return nil, c.provider.requestErr
	}
	c.line = &fakeLine{chip: c}
	return c.line, nil
}

func (c *fakeChip) Close() error {
	c.closed = true
	return nil
}

type fakeLine struct {
	chip   *fakeChip
	closed bool
	level  int

	// true when the line was released before its chip was closed
	closedBeforeChip bool

	reads  int
	writes int

	// set by the concurrency test to detect overlapping critical sections
	mu     sync.Mutex
	inCall bool
	racy   bool
}

func (l *fakeLine) Value() (int, error) {
	l.enter()
	defer l.leave()
	l.reads++
	return l.level, nil
}

func (l *fakeLine) SetValue(value int) error {
	l.enter()
	defer l.leave()
	l.writes++
	l.level = value
	return nil
}

func (l *fakeLine) Close() error {
	l.closed = true
	l.closedBeforeChip = !l.chip.closed
	return nil
}

func (l *fakeLine) enter() {
	l.mu.Lock()
	if l.inCall {
		l.racy = true
	}
	l.inCall = true
	l.mu.Unlock()
}

func (l *fakeLine) leave() {
	l.mu.Lock()
	l.inCall = false
	l.mu.Unlock()
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{lines: 32}
}

func TestNewDefaultsLabel(t *testing.T) {
	fp := newFakeProvider()

	led, err := pin.New(17, pin.Output, pin.WithProvider(fp))
	require.NoError(t, err)
	defer led.Close()

	assert.Equal(t, "Pin17", led.Label())
	assert.Equal(t, 17, led.Number())
	assert.Equal(t, pin.Output, led.Direction())
}

func TestNewKeepsSuppliedLabel(t *testing.T) {
	fp := newFakeProvider()

	led, err := pin.New(17, pin.Output, pin.WithProvider(fp), pin.WithLabel("LED"))
	require.NoError(t, err)
	defer led.Close()

	assert.Equal(t, "LED", led.Label())
}

func TestNewControllerUnavailable(t *testing.T) {
	fp := newFakeProvider()
	fp.openErr = errors.New("permission denied")

	_, err := pin.New(17, pin.Output, pin.WithProvider(fp))
	assert.ErrorIs(t, err, pin.ErrControllerUnavailable)
	assert.Nil(t, fp.chip)
}

func TestNewLineUnavailableClosesChip(t *testing.T) {
	tests := []struct {
		name   string
		number int
	}{
		{name: "beyond line count", number: 99},
		{name: "negative", number: -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fp := newFakeProvider()

			_, err := pin.New(tt.number, pin.Output, pin.WithProvider(fp))
			assert.ErrorIs(t, err, pin.ErrLineUnavailable)
			require.NotNil(t, fp.chip)
			assert.True(t, fp.chip.closed, "chip must be closed when the line does not exist")
			assert.Nil(t, fp.chip.line, "no line may be requested")
		})
	}
}

func TestNewConfigurationFailedClosesChip(t *testing.T) {
	fp := newFakeProvider()
	fp.requestErr = errors.New("device or resource busy")

	_, err := pin.New(17, pin.Output, pin.WithProvider(fp))
	assert.ErrorIs(t, err, pin.ErrConfigurationFailed)
	require.NotNil(t, fp.chip)
	assert.True(t, fp.chip.closed, "chip must be closed when the request is rejected")
}

func TestReadOnOutputPin(t *testing.T) {
	fp := newFakeProvider()

	led, err := pin.New(17, pin.Output, pin.WithProvider(fp))
	require.NoError(t, err)
	defer led.Close()

	_, err = led.Read()
	assert.ErrorIs(t, err, pin.ErrWrongDirection)
	assert.Zero(t, fp.chip.line.reads, "wrong-direction read must not touch hardware")
}

func TestWriteOnInputPin(t *testing.T) {
	fp := newFakeProvider()

	button, err := pin.New(27, pin.Input, pin.WithProvider(fp))
	require.NoError(t, err)
	defer button.Close()

	err = button.Write(true)
	assert.ErrorIs(t, err, pin.ErrWrongDirection)
	assert.Zero(t, fp.chip.line.writes, "wrong-direction write must not touch hardware")
}

func TestWrongDirectionLeavesPinUsable(t *testing.T) {
	fp := newFakeProvider()

	led, err := pin.New(17, pin.Output, pin.WithProvider(fp))
	require.NoError(t, err)
	defer led.Close()

	_, err = led.Read()
	require.ErrorIs(t, err, pin.ErrWrongDirection)

	assert.NoError(t, led.Write(true))
	assert.Equal(t, 1, fp.chip.line.level)
}

func TestCloseReleasesLineThenChip(t *testing.T) {
	fp := newFakeProvider()

	led, err := pin.New(17, pin.Output, pin.WithProvider(fp))
	require.NoError(t, err)

	led.Close()

	assert.True(t, fp.chip.line.closed)
	assert.True(t, fp.chip.closed)
	assert.True(t, fp.chip.line.closedBeforeChip, "line must be released before the chip is closed")

	// A second Close is a no-op.
	led.Close()
}

func TestConcurrentWritesDoNotInterleave(t *testing.T) {
	fp := newFakeProvider()

	led, err := pin.New(17, pin.Output, pin.WithProvider(fp))
	require.NoError(t, err)
	defer led.Close()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(v bool) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				assert.NoError(t, led.Write(v))
			}
		}(i%2 == 0)
	}
	wg.Wait()

	assert.False(t, fp.chip.line.racy, "hardware accesses overlapped")
	assert.Equal(t, 8*200, fp.chip.line.writes)
	assert.Contains(t, []int{0, 1}, fp.chip.line.level, "final state must be one of the written values")
}
