// Command soft65c02-disasm disassembles a raw 65C02 binary image loaded at
// the address given by --start-address.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"soft65c02/disasm"
	"soft65c02/mem"
)

func main() {
	app := &cli.App{
		Name:  "soft65c02-disasm",
		Usage: "disassemble a 65C02 binary image",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "filename",
				Required: true,
				Usage:    "raw binary to load and disassemble",
			},
			&cli.StringFlag{
				Name:  "start-address",
				Value: "0x0800",
				Usage: "address to load the image at, and to start disassembling from",
			},
			&cli.IntFlag{
				Name:  "commands",
				Value: 0,
				Usage: "number of instructions to print, 0 for the whole image",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	data, err := os.ReadFile(c.String("filename"))
	if err != nil {
		return err
	}

	start, err := parseAddress(c.String("start-address"))
	if err != nil {
		return fmt.Errorf("start-address: %w", err)
	}

	m := mem.NewStackWithRAM()
	if err := m.Write(uint32(start), data); err != nil {
		return err
	}

	lines, err := disasm.Disassemble(m, start, start+uint16(len(data)))
	if err != nil {
		return err
	}
	if count := c.Int("commands"); count > 0 && count < len(lines) {
		lines = lines[:count]
	}
	for _, line := range lines {
		fmt.Println(line.String())
	}
	return nil
}

func parseAddress(s string) (uint16, error) {
	var v uint64
	var err error
	if len(s) > 2 && s[:2] == "0x" {
		_, err = fmt.Sscanf(s[2:], "%x", &v)
	} else {
		_, err = fmt.Sscanf(s, "%d", &v)
	}
	return uint16(v), err
}
