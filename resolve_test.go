package verger

import (
	"reflect"
	"testing"
)

func TestOverlay(t *testing.T) {
	tests := []struct {
		name   string
		base   []string
		add    []string
		remove []string
		want   []string
	}{
		{
			name: "base only",
			base: []string{"b", "a"},
			want: []string{"a", "b"},
		},
		{
			name: "add grants",
			base: []string{"a"},
			add:  []string{"c", "b"},
			want: []string{"a", "b", "c"},
		},
		{
			name:   "remove revokes",
			base:   []string{"a", "b", "c"},
			remove: []string{"b"},
			want:   []string{"a", "c"},
		},
		{
			name:   "remove wins over add",
			base:   []string{"a"},
			add:    []string{"b"},
			remove: []string{"b"},
			want:   []string{"a"},
		},
		{
			name:   "remove wins over base and add",
			base:   []string{"a", "b"},
			add:    []string{"b", "c"},
			remove: []string{"b", "c"},
			want:   []string{"a"},
		},
		{
			name: "duplicates collapse",
			base: []string{"a", "a"},
			add:  []string{"a", "b", "b"},
			want: []string{"a", "b"},
		},
		{
			name:   "removing absent entries is harmless",
			base:   []string{"a"},
			remove: []string{"zz"},
			want:   []string{"a"},
		},
		{
			name: "empty base with additions",
			add:  []string{"x"},
			want: []string{"x"},
		},
		{
			name: "all empty",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := overlay(tt.base, tt.add, tt.remove)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("overlay(%v, %v, %v) = %v, want %v",
					tt.base, tt.add, tt.remove, got, tt.want)
			}
		})
	}
}

func TestOverlayDoesNotMutateInputs(t *testing.T) {
	base := []string{"c", "a", "b"}
	add := []string{"d"}
	overlay(base, add, []string{"a"})
	if base[0] != "c" || base[1] != "a" || base[2] != "b" {
		t.Error("overlay mutated its base input")
	}
}
