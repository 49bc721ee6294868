package data

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Clean(t *testing.T) {
	c := loadTestdata(t)
	assert.Empty(t, Validate(c))
}

func TestValidate_Broken(t *testing.T) {
	c, err := Load(context.Background(), filepath.Join("testdata", "broken"))
	require.NoError(t, err)

	var got []string
	for _, issue := range Validate(c) {
		got = append(got, issue.String())
	}
	assert.Equal(t, []string{
		`typo: unknown result item type "rop"; did you mean "rope"?`,
		`typo tool#0/0: unknown quality "HAMER"; did you mean "HAMMER"?`,
		`typo tool#1/0: no item type provides HAMMER at level 5`,
		`typo component#0/0: unknown item type "plant_fibre"; did you mean "plant_fiber"?`,
		`typo component#1/0: component count must not be zero`,
		`typo component#2/0: 3 charges uses charges but knife has no max charges`,
		`typo component#3/0: charges percent must be in (0, 100], got 150`,
		`typo component#4/0: needs 250 charges per use, soldering_iron holds at most 100`,
	}, got)
}

func TestSuggestion(t *testing.T) {
	known := []string{"hammer", "rock", "plant_fiber"}

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "one typo", in: "hamer", want: `; did you mean "hammer"?`},
		{name: "short name tight limit", in: "rick", want: `; did you mean "rock"?`},
		{name: "short name too far", in: "rkcc", want: ""},
		{name: "long name looser limit", in: "plant_fibre", want: `; did you mean "plant_fiber"?`},
		{name: "nothing close", in: "welding_mask", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, suggestion(tt.in, known))
		})
	}
}
