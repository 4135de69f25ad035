package disaster

import "testing"

func TestDamageAtScalesWithHistory(t *testing.T) {
	d := New("Flood", Formula{Base: 2, Mult: 1}, Formula{Base: 0, Mult: 0}, Formula{Base: 0, Mult: 0})
	cases := []struct {
		historyLen int
		want       int
	}{
		{0, 2},
		{1, 3},
		{4, 6},
	}
	for _, tc := range cases {
		if got := d.DamageAt(tc.historyLen, Diamond); got != tc.want {
			t.Errorf("DamageAt(%d, Diamond) = %d, want %d", tc.historyLen, got, tc.want)
		}
	}
}

func TestDamageAtNeverNegative(t *testing.T) {
	d := New("Receding Tide", Formula{Base: 5, Mult: -2}, Formula{Base: 0, Mult: 0}, Formula{Base: 0, Mult: 0})
	got := d.DamageAt(10, Diamond)
	if got != 0 {
		t.Errorf("DamageAt(10, Diamond) = %d, want 0 (floored, never negative)", got)
	}
}

func TestDamages(t *testing.T) {
	d := New("Quake", Formula{Base: 1, Mult: 1}, Formula{Base: 2, Mult: 0}, Formula{Base: 0, Mult: 1})
	diamond, cross, moon := d.Damages(2)
	if diamond != 3 || cross != 2 || moon != 2 {
		t.Errorf("Damages(2) = (%d,%d,%d), want (3,2,2)", diamond, cross, moon)
	}
}
