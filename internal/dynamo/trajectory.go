package dynamo

// TrajectoryCapacity is the number of past positions kept per body.
const TrajectoryCapacity = 500

// Point is a planar position sample, in meters.
type Point struct {
	X, Y float64
}

// Trajectory is a fixed-capacity ring buffer. Once full, pushing drops the
// oldest sample; iteration order is always insertion order.
type Trajectory struct {
	buf   []Point
	head  int // index of the oldest sample
	count int
}

func NewTrajectory(capacity int) *Trajectory {
	if capacity < 1 {
		capacity = 1
	}
	return &Trajectory{buf: make([]Point, capacity)}
}

func (t *Trajectory) Push(p Point) {
	n := t.Cap()
	if t.count < n {
		t.buf[(t.head+t.count)%n] = p
		t.count++
		return
	}
	t.buf[t.head] = p
	t.head = (t.head + 1) % n
}

func (t *Trajectory) Len() int { return t.count }
func (t *Trajectory) Cap() int { return len(t.buf) }

// At returns the i-th retained sample, 0 being the oldest.
func (t *Trajectory) At(i int) Point {
	return t.buf[(t.head+i)%t.Cap()]
}

func (t *Trajectory) Oldest() (Point, bool) {
	if t.count == 0 {
		return Point{}, false
	}
	return t.At(0), true
}

func (t *Trajectory) Latest() (Point, bool) {
	if t.count == 0 {
		return Point{}, false
	}
	return t.At(t.count - 1), true
}

// Points copies the retained samples, oldest first.
func (t *Trajectory) Points() []Point {
	out := make([]Point, t.count)
	for i := range out {
		out[i] = t.At(i)
	}
	return out
}

// Reset forgets every sample but keeps the capacity.
func (t *Trajectory) Reset() {
	t.head = 0
	t.count = 0
}
