//go:build linux && !nogpio

package pin

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// cdevProvider talks to /dev/gpiochip* through the kernel's GPIO character
// device interface.
type cdevProvider struct{}

func defaultProvider() Provider {
	return cdevProvider{}
}

func (cdevProvider) OpenChip(index int) (Chip, error) {
	c, err := gpiocdev.NewChip(fmt.Sprintf("gpiochip%d", index))
	if err != nil {
		return nil, err
	}
	return &cdevChip{chip: c}, nil
}

type cdevChip struct {
	chip *gpiocdev.Chip
}

func (c *cdevChip) Lines() int {
	return c.chip.Lines()
}

func (c *cdevChip) RequestLine(offset int, dir Direction, consumer string) (Line, error) {
	opts := []gpiocdev.LineReqOption{gpiocdev.WithConsumer(consumer)}
	if dir == Output {
		opts = append(opts, gpiocdev.AsOutput(0))
	} else {
		opts = append(opts, gpiocdev.AsInput)
	}
	return c.chip.RequestLine(offset, opts...)
}

func (c *cdevChip) Close() error {
	return c.chip.Close()
}

// *gpiocdev.Line already satisfies Line.
var _ Line = (*gpiocdev.Line)(nil)
