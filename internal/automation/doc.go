// Package automation runs scripted batches of simulations from YAML and
// sweeps the step size of a single configuration.
package automation
