package dreams

import "testing"

func TestSearch(t *testing.T) {
	dreams := sampleDreams()

	tests := []struct {
		name  string
		query string
		want  []int
	}{
		{"blank query", "   ", nil},
		{"case insensitive title", "FLY", []int{1}},
		{"description", "chasing", []int{2}},
		{"tag", "sea", []int{1}},
		{"matches all", "i", []int{1, 2}},
		{"no match", "volcano", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Search(dreams, tt.query)
			if got == nil {
				t.Fatalf("Search must return a non-nil slice")
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Expected %d results, got %d", len(tt.want), len(got))
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Errorf("Result %d: expected id %d, got %d", i, id, got[i].ID)
				}
			}
		})
	}
}
