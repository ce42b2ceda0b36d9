// Package viz renders climate results for the terminal.
//
// Time series and sweeps are drawn with asciigraph, text is styled with
// lipgloss, and [Canvas] offers a Braille sub-pixel plot for smooth curves
// such as the potential landscape.
package viz
