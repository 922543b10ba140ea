package ui

import (
	"fmt"
	"strings"
)

var logo = []string{
	`  _   _ _                            `,
	` | \ | (_)                           `,
	` |  \| |___  _____  _ __  _   _ ___  `,
	` | . ` + "`" + ` | \ \/ / _ \| '_ \| | | / __| `,
	` | |\  | |>  < (_) | |_) | |_| \__ \ `,
	` |_| \_|_/_/\_\___/| .__/ \__,_|___/ `,
	`                   | |               `,
	`                   |_|               `,
}

// Banner prints the Nixopus logo and the wizard welcome text
func (u *UI) Banner() {
	for _, line := range logo {
		u.colorCyan.Fprintln(u.output, line)
	}
	fmt.Fprintln(u.output)
	u.Bold("Welcome to Nixopus Installation Wizard")
	u.Print("This wizard will guide you through the installation process of Nixopus.")
	u.Print("Please follow the prompts carefully to complete the setup.")
	fmt.Fprintln(u.output)
}

// KeyValue prints an aligned "key: value" bullet line
func (u *UI) KeyValue(key, value string) {
	fmt.Fprintf(u.output, "  • %-16s %s\n", key+":", value)
}

// Table prints rows with every column but the last padded to its widest cell
func (u *UI) Table(headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	format := func(cells []string) string {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			if i == len(cells)-1 || i >= len(widths) {
				parts[i] = cell
				continue
			}
			parts[i] = cell + strings.Repeat(" ", widths[i]-len(cell))
		}
		return "  " + strings.TrimRight(strings.Join(parts, "  "), " ")
	}

	u.colorBold.Fprintln(u.output, format(headers))
	for _, row := range rows {
		fmt.Fprintln(u.output, format(row))
	}
}
