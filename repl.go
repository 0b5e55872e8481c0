package main

import (
	"bufio"
	"fmt"
	"io"
)

// RunCommandLoop reads single-character commands from in until 'q' or EOF:
// '1' and '0' drive the output pin, 'r' reads the input pin. Pin errors are
// reported to out and the loop keeps going.
func RunCommandLoop(board *Board, in io.Reader, out io.Writer) error {
	fmt.Fprintf(out, "Press '1' to turn on the %s, '0' to turn off, 'r' to read the %s state. Press 'q' to quit.\n",
		board.OutputLabel(), board.InputLabel())

	scanner := bufio.NewScanner(in)
	scanner.Split(bufio.ScanWords)

	for scanner.Scan() {
		switch scanner.Text() {
		case "1":
			if err := board.SetOutput(true); err != nil {
				fmt.Fprintf(out, "Error: %v\n", err)
				continue
			}
			fmt.Fprintf(out, "%s turned ON.\n", board.OutputLabel())
		case "0":
			if err := board.SetOutput(false); err != nil {
				fmt.Fprintf(out, "Error: %v\n", err)
				continue
			}
			fmt.Fprintf(out, "%s turned OFF.\n", board.OutputLabel())
		case "r":
			state, err := board.ReadInput()
			if err != nil {
				fmt.Fprintf(out, "Error: %v\n", err)
				continue
			}
			pressed := "Not pressed"
			if state {
				pressed = "Pressed"
			}
			fmt.Fprintf(out, "%s state: %s\n", board.InputLabel(), pressed)
		case "q":
			return nil
		default:
			fmt.Fprintln(out, "Invalid command.")
		}
	}

	return scanner.Err()
}
