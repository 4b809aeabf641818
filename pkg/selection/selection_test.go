package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		count int
		want  []int
	}{
		{name: "all", raw: "All", count: 4, want: []int{1, 2, 3, 4}},
		{name: "all with no packages", raw: "All", count: 0, want: []int{}},
		{name: "single", raw: "2", count: 10, want: []int{2}},
		{name: "list keeps order", raw: "2,4,7", count: 10, want: []int{2, 4, 7}},
		{name: "range", raw: "3-5", count: 10, want: []int{3, 4, 5}},
		{name: "single element range", raw: "4-4", count: 10, want: []int{4}},
		{name: "range inside list", raw: "1,3-5,9", count: 10, want: []int{1, 3, 4, 5, 9}},
		{name: "duplicates are kept", raw: "2,1-3", count: 10, want: []int{2, 1, 2, 3}},
		{name: "out of range is not the parser's concern", raw: "99", count: 5, want: []int{99}},
		{name: "whitespace tolerated", raw: " 1, 2 - 3 ", count: 5, want: []int{1, 2, 3}},
		{name: "whitespace around every separator", raw: "10 ,\t2-  4", count: 12, want: []int{10, 2, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.raw, tt.count)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, raw := range []string{
		"",
		"0",
		"abc",
		"01",
		"all",
		"ALL",
		"1,",
		",1",
		"1,,2",
		"-3",
		"1-",
		"1-2-3",
		"1,0",
		"2.5",
		"5-3",
		"1-100000",
		"99999999999999999999",
		"1 2",
		"1 0",
		"2 - 3 4",
		"1 ,2 3",
		"1-2 3",
	} {
		t.Run(raw, func(t *testing.T) {
			got, err := Parse(raw, 10)
			require.ErrorIs(t, err, ErrInvalidSelector)
			assert.Nil(t, got)
			assert.False(t, Valid(raw))
		})
	}
}

func TestIsAll(t *testing.T) {
	assert.True(t, IsAll("All"))
	assert.True(t, IsAll(" All "))
	assert.False(t, IsAll("all"))
	assert.False(t, IsAll("1-3"))
}
