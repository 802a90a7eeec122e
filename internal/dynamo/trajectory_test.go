package dynamo

import "testing"

func TestTrajectory_FillsInOrder(t *testing.T) {
	tr := NewTrajectory(4)
	for i := 0; i < 3; i++ {
		tr.Push(Point{X: float64(i)})
	}

	if tr.Len() != 3 {
		t.Fatalf("expected len 3, got %d", tr.Len())
	}
	for i, p := range tr.Points() {
		if p.X != float64(i) {
			t.Errorf("point %d = %v, want X=%d", i, p, i)
		}
	}
}

func TestTrajectory_EvictsOldest(t *testing.T) {
	tr := NewTrajectory(TrajectoryCapacity)
	total := 1234
	for step := 1; step <= total; step++ {
		tr.Push(Point{X: float64(step)})
	}

	if tr.Len() != TrajectoryCapacity {
		t.Fatalf("expected len %d, got %d", TrajectoryCapacity, tr.Len())
	}

	oldest, ok := tr.Oldest()
	if !ok || oldest.X != float64(total-TrajectoryCapacity+1) {
		t.Errorf("oldest = %v, want step %d", oldest, total-TrajectoryCapacity+1)
	}
	latest, _ := tr.Latest()
	if latest.X != float64(total) {
		t.Errorf("latest = %v, want step %d", latest, total)
	}

	pts := tr.Points()
	for i := 1; i < len(pts); i++ {
		if pts[i].X != pts[i-1].X+1 {
			t.Fatalf("insertion order broken at %d: %v after %v", i, pts[i], pts[i-1])
		}
	}
}

func TestTrajectory_EmptyAndReset(t *testing.T) {
	tr := NewTrajectory(0)
	if tr.Cap() != 1 {
		t.Errorf("expected capacity clamped to 1, got %d", tr.Cap())
	}
	if _, ok := tr.Oldest(); ok {
		t.Error("empty trajectory reported an oldest point")
	}

	tr.Push(Point{X: 1})
	tr.Push(Point{X: 2})
	if p, _ := tr.Oldest(); p.X != 2 {
		t.Errorf("capacity-1 trajectory kept %v", p)
	}

	tr.Reset()
	if tr.Len() != 0 || len(tr.Points()) != 0 {
		t.Error("Reset did not clear trajectory")
	}
}
