package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDuration(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int64
	}{
		{name: "hours minutes seconds", raw: "PT1H2M3S", want: 3723},
		{name: "minutes only", raw: "PT5M", want: 300},
		{name: "seconds only", raw: "PT45S", want: 45},
		{name: "hours only", raw: "PT2H", want: 7200},
		{name: "hours and seconds", raw: "PT1H30S", want: 3630},
		{name: "large component", raw: "PT123M", want: 7380},
		{name: "plain integer passes through", raw: "90", want: 90},
		{name: "zero", raw: "PT0S", want: 0},
		{name: "garbage degrades to zero", raw: "garbage", want: 0},
		{name: "empty string", raw: "", want: 0},
		{name: "bare PT", raw: "PT", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDuration(tt.raw))
		})
	}
}
