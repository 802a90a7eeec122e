// Package viz draws running simulations in the terminal.
//
// The live view is a Bubble Tea model that steps a [sim.Simulation] a few
// times per frame and projects the bodies onto a Braille [Canvas] through a
// [Camera]. Trails are the bodies' own trajectory buffers, so the view keeps
// no position history of its own.
//
// # Key Bindings
//
//	Space   pause/resume
//	+/-     zoom in/out
//	arrows  pan (hjkl also work)
//	x/X     tilt, z/Z spin
//	[/]     halve/double steps per frame
//	f       follow next massive body
//	c       re-fit the camera
//	i       switch integrator
//	t/T     toggle trails, cycle theme
//	v       toggle velocity arrows
//	r       clear trails
//	?       help
//	q       quit
//
// [RunInteractive] adds a scenario picker in front of the live view.
package viz
