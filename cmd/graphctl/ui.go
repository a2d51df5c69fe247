package main

import (
	"fmt"

	"github.com/fatih/color"
)

var (
	brand  = color.New(color.FgHiGreen, color.Bold)
	subtle = color.New(color.FgHiBlack)
	warn   = color.New(color.FgYellow)
	info   = color.New(color.FgCyan)
	bad    = color.New(color.FgRed)
)

func banner(title string) {
	brand.Printf("graphctl")
	subtle.Printf(" %s\n\n", title)
}

func field(name string, value any) {
	fmt.Printf("  %-18s %v\n", name+":", value)
}
