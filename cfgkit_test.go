package cfgkit

import "testing"

func TestSpanExtend(t *testing.T) {
	s := Span{3, 5}
	if x := s.Extend(Span{1, 4}); x != (Span{1, 5}) {
		t.Errorf("expected (1…5), have %v", x)
	}
	if x := s.Extend(Span{4, 9}); x != (Span{3, 9}) {
		t.Errorf("expected (3…9), have %v", x)
	}
	if x := s.Extend(Span{4, 4}); x != s {
		t.Errorf("expected span to cover its sub-span unchanged, have %v", x)
	}
	if s != (Span{3, 5}) || s.Len() != 2 {
		t.Errorf("expected receiver to be unchanged, is %v", s)
	}
}
