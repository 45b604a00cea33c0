package valve

import (
	"errors"
	"reflect"
	"testing"
)

func TestAddValve(t *testing.T) {
	tests := []struct {
		name    string
		valves  []Valve
		wantErr error
	}{
		{
			name:   "Single",
			valves: []Valve{{ID: "AA"}},
		},
		{
			name:    "EmptyID",
			valves:  []Valve{{ID: ""}},
			wantErr: ErrInvalidValveID,
		},
		{
			name:    "Duplicate",
			valves:  []Valve{{ID: "AA"}, {ID: "AA", Rate: 3}},
			wantErr: ErrDuplicateValve,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New()
			var err error
			for _, v := range tt.valves {
				if err = g.AddValve(v); err != nil {
					break
				}
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("AddValve() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAddValveCopiesTunnels(t *testing.T) {
	g := New()
	tunnels := []string{"BB"}
	if err := g.AddValve(Valve{ID: "AA", Tunnels: tunnels}); err != nil {
		t.Fatal(err)
	}
	tunnels[0] = "ZZ"
	if got := g.Tunnels("AA"); got[0] != "BB" {
		t.Errorf("Tunnels(AA) = %v, caller mutation leaked into graph", got)
	}
}

func TestValidate(t *testing.T) {
	g := New()
	_ = g.AddValve(Valve{ID: "AA", Tunnels: []string{"BB"}})
	_ = g.AddValve(Valve{ID: "BB", Rate: 4, Tunnels: []string{"AA", "CC"}})

	err := g.Validate()
	if !errors.Is(err, ErrUnknownValve) {
		t.Fatalf("Validate() error = %v, want ErrUnknownValve", err)
	}

	_ = g.AddValve(Valve{ID: "CC", Tunnels: []string{"BB"}})
	if err := g.Validate(); err != nil {
		t.Errorf("Validate() after adding CC = %v, want nil", err)
	}
}

func TestInteresting(t *testing.T) {
	g := New()
	_ = g.AddValve(Valve{ID: "BB", Rate: 13})
	_ = g.AddValve(Valve{ID: "AA", Rate: 0})
	_ = g.AddValve(Valve{ID: "CC", Rate: 0})
	_ = g.AddValve(Valve{ID: "DD", Rate: 20})

	if got, want := g.Interesting("AA"), []string{"AA", "BB", "DD"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Interesting(AA) = %v, want %v", got, want)
	}
	// A nonzero start is listed once, first.
	if got, want := g.Interesting("DD"), []string{"DD", "BB"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Interesting(DD) = %v, want %v", got, want)
	}
	if got, want := g.Openable("AA"), []string{"BB", "DD"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Openable(AA) = %v, want %v", got, want)
	}
}

func TestAccessors(t *testing.T) {
	g := New()
	_ = g.AddValve(Valve{ID: "AA", Tunnels: []string{"BB"}})
	_ = g.AddValve(Valve{ID: "BB", Rate: 7, Tunnels: []string{"AA"}})

	if g.Len() != 2 {
		t.Errorf("Len() = %d, want 2", g.Len())
	}
	if g.TunnelCount() != 2 {
		t.Errorf("TunnelCount() = %d, want 2", g.TunnelCount())
	}
	if g.Rate("BB") != 7 || g.Rate("missing") != 0 {
		t.Errorf("Rate() mismatch")
	}
	if !g.Has("AA") || g.Has("ZZ") {
		t.Errorf("Has() mismatch")
	}
	if v, ok := g.Valve("BB"); !ok || v.Rate != 7 {
		t.Errorf("Valve(BB) = %+v, %v", v, ok)
	}
	if got := g.IDs(); !reflect.DeepEqual(got, []string{"AA", "BB"}) {
		t.Errorf("IDs() = %v", got)
	}
}
