package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultPage(t *testing.T) {
	cases := []struct {
		in   PageRequest
		want PageRequest
	}{
		{PageRequest{}, PageRequest{Limit: DefaultPageLimit}},
		{PageRequest{Limit: 500, Offset: 40}, PageRequest{Limit: MaxPageLimit, Offset: 40}},
		{PageRequest{Limit: 5, Offset: -3}, PageRequest{Limit: 5}},
	}
	for _, tc := range cases {
		p := tc.in
		p.DefaultPage()
		assert.Equal(t, tc.want, p)
	}
}
