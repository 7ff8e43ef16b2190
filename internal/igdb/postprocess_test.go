package igdb

import (
	"reflect"
	"testing"
)

func TestPostProcess(t *testing.T) {
	tests := []struct {
		name string
		in   Record
		want Record
	}{
		{
			name: "converts unix date fields",
			in:   Record{"first_release_date": float64(749516400)},
			want: Record{"first_release_date": "1993-10-01"},
		},
		{
			name: "converts numeric country to alpha-3",
			in:   Record{"country": float64(392)},
			want: Record{"country": "JPN"},
		},
		{
			name: "unknown country left untouched",
			in:   Record{"country": float64(999)},
			want: Record{"country": float64(999)},
		},
		{
			name: "non-positive dates left untouched",
			in:   Record{"release_date": float64(0)},
			want: Record{"release_date": float64(0)},
		},
		{
			name: "recurses into nested objects and arrays",
			in: Record{
				"name": "Chrono Trigger",
				"involved_companies": []any{
					map[string]any{
						"company": map[string]any{"name": "Square", "country": float64(392)},
					},
				},
			},
			want: Record{
				"name": "Chrono Trigger",
				"involved_companies": []any{
					Record{
						"company": Record{"name": "Square", "country": "JPN"},
					},
				},
			},
		},
		{
			name: "string dates untouched",
			in:   Record{"release_date": "already-formatted"},
			want: Record{"release_date": "already-formatted"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PostProcess(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("PostProcess() = %v, want %v", got, tt.want)
			}
		})
	}
}
