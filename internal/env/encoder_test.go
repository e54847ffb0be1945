package env

import (
	"errors"
	"testing"

	"pitchcraft.ai/internal/engine"
)

// testFrame builds a frame with distinct, deterministic values in every
// field so ordering mistakes show up as value mismatches.
func testFrame(n1, n2 int, active []int) *engine.Frame {
	f := &engine.Frame{
		Left:   make([]engine.Player, n1),
		Right:  make([]engine.Player, n2),
		Active: active,
		Mode:   engine.ModeFreeKick,
	}
	for i := range f.Left {
		f.Left[i] = engine.Player{
			Pos:       engine.Vec2{X: 0.1 * float64(i+1), Y: -0.01 * float64(i+1)},
			Dir:       engine.Vec2{X: 0.001 * float64(i+1), Y: 0.002 * float64(i+1)},
			Sprinting: i%2 == 0,
			Dribbling: i%3 == 0,
		}
	}
	for i := range f.Right {
		f.Right[i] = engine.Player{
			Pos: engine.Vec2{X: -0.1 * float64(i+1), Y: 0.01 * float64(i+1)},
			Dir: engine.Vec2{X: -0.001 * float64(i+1), Y: -0.002 * float64(i+1)},
		}
	}
	f.Ball = engine.Ball{
		Pos:        engine.Vec3{X: 0.3, Y: -0.2, Z: 0.1},
		Dir:        engine.Vec3{X: 0.01, Y: 0.02, Z: 0.03},
		Owner:      engine.OwnerLeft,
		OwnerIndex: 0,
	}
	return f
}

func TestEncodeAgent_Lengths(t *testing.T) {
	cases := []struct{ n1, n2, n0 int }{
		{4, 5, 2}, // the documented academy example: 76 / 60
		{2, 1, 1},
		{3, 2, 3},
		{11, 11, 1},
		{5, 0, 2},
	}
	for _, tc := range cases {
		enc, err := NewEncoder(EncoderConfig{LeftCount: tc.n1, RightCount: tc.n2, Controlled: tc.n0})
		if err != nil {
			t.Fatalf("n1=%d n2=%d n0=%d: %v", tc.n1, tc.n2, tc.n0, err)
		}
		active := make([]int, tc.n0)
		for i := range active {
			active[i] = i
		}
		f := testFrame(tc.n1, tc.n2, active)

		v, err := enc.EncodeAgent(f, 0)
		if err != nil {
			t.Fatalf("EncodeAgent: %v", err)
		}
		if want := 7*tc.n1 + 6*tc.n2 + 18; len(v) != want {
			t.Fatalf("agent dim: got %d want %d (n1=%d n2=%d)", len(v), want, tc.n1, tc.n2)
		}
		if len(v) != enc.Config().AgentDim() {
			t.Fatalf("AgentDim disagrees with encoder output")
		}

		s, err := enc.EncodeState(f, active)
		if err != nil {
			t.Fatalf("EncodeState: %v", err)
		}
		if want := 4*(tc.n1+tc.n2) + tc.n0*tc.n1 + 16; len(s) != want {
			t.Fatalf("state dim: got %d want %d", len(s), want)
		}
	}
}

func TestEncodeAgent_SpecExample(t *testing.T) {
	enc, err := NewEncoder(EncoderConfig{LeftCount: 4, RightCount: 5, Controlled: 2})
	if err != nil {
		t.Fatalf("encoder: %v", err)
	}
	f := testFrame(4, 5, []int{1, 2})
	v, err := enc.EncodeAgent(f, 1)
	if err != nil {
		t.Fatalf("EncodeAgent: %v", err)
	}
	if len(v) != 76 {
		t.Fatalf("agent dim: got %d want 76", len(v))
	}
	s, err := enc.EncodeState(f, []int{1, 2})
	if err != nil {
		t.Fatalf("EncodeState: %v", err)
	}
	if len(s) != 60 {
		t.Fatalf("state dim: got %d want 60", len(s))
	}
}

func TestEncodeAgent_FieldOrder(t *testing.T) {
	n1, n2 := 3, 2
	enc, _ := NewEncoder(EncoderConfig{LeftCount: n1, RightCount: n2, Controlled: 1})
	f := testFrame(n1, n2, []int{1})
	subject := 1
	me := f.Left[subject]

	v, err := enc.EncodeAgent(f, subject)
	if err != nil {
		t.Fatalf("EncodeAgent: %v", err)
	}

	// Head: pos, dir, status pair.
	if v[0] != float32(me.Pos.X) || v[1] != float32(me.Pos.Y) {
		t.Fatalf("subject pos misplaced: %v", v[:2])
	}
	if v[2] != float32(me.Dir.X) || v[3] != float32(me.Dir.Y) {
		t.Fatalf("subject dir misplaced: %v", v[2:4])
	}
	if v[4] != 0 || v[5] != 0 { // left[1] is neither sprinting nor dribbling
		t.Fatalf("status flags misplaced: %v", v[4:6])
	}

	// First delta is to left[0] (self excluded).
	if v[6] != float32(f.Left[0].Pos.X-me.Pos.X) || v[7] != float32(f.Left[0].Pos.Y-me.Pos.Y) {
		t.Fatalf("left delta misplaced: %v", v[6:8])
	}
	// Deltas to right start after the (n1-1) left deltas.
	off := 6 + 2*(n1-1)
	if v[off] != float32(f.Right[0].Pos.X-me.Pos.X) {
		t.Fatalf("right delta misplaced at %d: %v", off, v[off])
	}
	// Ball delta follows the right deltas.
	off += 2 * n2
	if v[off] != float32(f.Ball.Pos.X-me.Pos.X) || v[off+1] != float32(f.Ball.Pos.Y-me.Pos.Y) {
		t.Fatalf("ball delta misplaced at %d", off)
	}

	// Tail: ownership one-hot, mode one-hot, subject one-hot.
	tail := len(v) - n1
	for i := 0; i < n1; i++ {
		want := float32(0)
		if i == subject {
			want = 1
		}
		if v[tail+i] != want {
			t.Fatalf("subject one-hot wrong at %d: %v", i, v[tail:])
		}
	}
	modeBlock := v[tail-engine.ModeCount : tail]
	if modeBlock[int(engine.ModeFreeKick)] != 1 {
		t.Fatalf("mode one-hot wrong: %v", modeBlock)
	}
	ownBlock := v[tail-engine.ModeCount-3 : tail-engine.ModeCount]
	if ownBlock[0] != 0 || ownBlock[1] != 1 || ownBlock[2] != 0 {
		t.Fatalf("ownership one-hot wrong: %v", ownBlock)
	}
}

func TestEncodeAgent_Deterministic(t *testing.T) {
	enc, _ := NewEncoder(EncoderConfig{LeftCount: 4, RightCount: 3, Controlled: 2})
	f := testFrame(4, 3, []int{0, 1})
	a, err := enc.EncodeAgent(f, 0)
	if err != nil {
		t.Fatalf("EncodeAgent: %v", err)
	}
	b, err := enc.EncodeAgent(f, 0)
	if err != nil {
		t.Fatalf("EncodeAgent: %v", err)
	}
	if len(a) != len(b) {
		t.Fatalf("length changed between calls")
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("output differs at %d: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestEncodeAgent_OneHotSums(t *testing.T) {
	n1, n2 := 4, 5
	enc, _ := NewEncoder(EncoderConfig{LeftCount: n1, RightCount: n2, Controlled: 2})

	for _, owner := range []engine.Ownership{engine.OwnerNone, engine.OwnerLeft, engine.OwnerRight} {
		for mode := 0; mode < engine.ModeCount; mode++ {
			f := testFrame(n1, n2, []int{0, 3})
			f.Ball.Owner = owner
			f.Mode = engine.GameMode(mode)

			v, err := enc.EncodeAgent(f, 3)
			if err != nil {
				t.Fatalf("EncodeAgent: %v", err)
			}
			tail := len(v) - n1
			if got := sum(v[tail:]); got != 1 {
				t.Fatalf("subject one-hot sum %v", got)
			}
			if got := sum(v[tail-engine.ModeCount : tail]); got != 1 {
				t.Fatalf("mode one-hot sum %v (mode=%d)", got, mode)
			}
			if got := sum(v[tail-engine.ModeCount-3 : tail-engine.ModeCount]); got != 1 {
				t.Fatalf("ownership one-hot sum %v (owner=%d)", got, owner)
			}
		}
	}
}

func TestEncodeState_ActiveBlockSums(t *testing.T) {
	n1, n2, n0 := 4, 5, 2
	enc, _ := NewEncoder(EncoderConfig{LeftCount: n1, RightCount: n2, Controlled: n0})
	f := testFrame(n1, n2, []int{1, 3})

	s, err := enc.EncodeState(f, []int{1, 3})
	if err != nil {
		t.Fatalf("EncodeState: %v", err)
	}
	block := s[len(s)-n0*n1:]
	if got := sum(block); got != float32(n0) {
		t.Fatalf("active block sum: got %v want %d", got, n0)
	}
	// Each n1-sized sub-block is a one-hot of the controlled index.
	if block[1] != 1 || block[n1+3] != 1 {
		t.Fatalf("active block layout wrong: %v", block)
	}
}

func TestEncodeAgent_InvalidSubject(t *testing.T) {
	enc, _ := NewEncoder(EncoderConfig{LeftCount: 3, RightCount: 2, Controlled: 1})
	f := testFrame(3, 2, []int{0})
	for _, idx := range []int{-1, 3, 99} {
		if _, err := enc.EncodeAgent(f, idx); !isInvalidAgent(err) {
			t.Fatalf("subject %d: got %v, want ErrInvalidAgentIndex", idx, err)
		}
	}
}

func TestEncoder_RejectsBadConfig(t *testing.T) {
	bad := []EncoderConfig{
		{LeftCount: 0, RightCount: 2, Controlled: 1},
		{LeftCount: 3, RightCount: -1, Controlled: 1},
		{LeftCount: 3, RightCount: 2, Controlled: 0},
		{LeftCount: 3, RightCount: 2, Controlled: 4},
	}
	for _, cfg := range bad {
		if _, err := NewEncoder(cfg); err == nil {
			t.Fatalf("config %+v accepted", cfg)
		}
	}
}

func isInvalidAgent(err error) bool { return errors.Is(err, ErrInvalidAgentIndex) }

func sum(v []float32) float32 {
	var s float32
	for _, x := range v {
		s += x
	}
	return s
}
