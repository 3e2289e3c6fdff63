// Package viz renders flights: the shared grid geometry, a Braille canvas
// for the terminal, and the bubbletea front end.
//
// The grid spans 11 m horizontally and 6 m vertically with one line per
// metre, which covers every valid launch (speed 5-10 m/s, angle 1-90°).
package viz
