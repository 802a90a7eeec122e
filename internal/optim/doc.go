// Package optim searches configuration grids for the cheapest settings that
// keep a run within a conservation tolerance.
package optim
