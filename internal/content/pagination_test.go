package content

import "testing"

func TestPageRequestNormalize(t *testing.T) {
	cases := []struct {
		name    string
		in      PageRequest
		allowed []string
		want    PageRequest
	}{
		{
			name:    "zero value gets defaults",
			in:      PageRequest{},
			allowed: []string{SortFieldCreatedAt},
			want:    PageRequest{Page: 1, Limit: 10, SortBy: SortFieldCreatedAt, SortDir: SortDesc},
		},
		{
			name:    "negative page clamps to one",
			in:      PageRequest{Page: -3, Limit: 20},
			allowed: []string{SortFieldCreatedAt},
			want:    PageRequest{Page: 1, Limit: 20, SortBy: SortFieldCreatedAt, SortDir: SortDesc},
		},
		{
			name:    "limit clamps to the maximum",
			in:      PageRequest{Page: 2, Limit: 5000},
			allowed: []string{SortFieldCreatedAt},
			want:    PageRequest{Page: 2, Limit: 100, SortBy: SortFieldCreatedAt, SortDir: SortDesc},
		},
		{
			name:    "allowed sort field passes through",
			in:      PageRequest{SortBy: SortFieldViews, SortDir: SortAsc},
			allowed: []string{SortFieldCreatedAt, SortFieldViews},
			want:    PageRequest{Page: 1, Limit: 10, SortBy: SortFieldViews, SortDir: SortAsc},
		},
		{
			name:    "unknown sort field falls back to createdAt",
			in:      PageRequest{SortBy: "passwordHash"},
			allowed: []string{SortFieldCreatedAt, SortFieldViews},
			want:    PageRequest{Page: 1, Limit: 10, SortBy: SortFieldCreatedAt, SortDir: SortDesc},
		},
		{
			name:    "field allowed for another view is rejected here",
			in:      PageRequest{SortBy: SortFieldViews},
			allowed: []string{SortFieldCreatedAt},
			want:    PageRequest{Page: 1, Limit: 10, SortBy: SortFieldCreatedAt, SortDir: SortDesc},
		},
		{
			name:    "unknown direction falls back to descending",
			in:      PageRequest{SortDir: "sideways"},
			allowed: []string{SortFieldCreatedAt},
			want:    PageRequest{Page: 1, Limit: 10, SortBy: SortFieldCreatedAt, SortDir: SortDesc},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.in.Normalize(tc.allowed...)
			if got != tc.want {
				t.Fatalf("Normalize() = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestPageRequestOffset(t *testing.T) {
	cases := []struct {
		page, limit, want int
	}{
		{1, 10, 0},
		{2, 10, 10},
		{3, 25, 50},
	}
	for _, tc := range cases {
		p := PageRequest{Page: tc.page, Limit: tc.limit}
		if got := p.Offset(); got != tc.want {
			t.Fatalf("Offset(page=%d, limit=%d) = %d, want %d", tc.page, tc.limit, got, tc.want)
		}
	}
}
