package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/vela-social/vela/pkg/domain/model"
)

func TestComposeFullName(t *testing.T) {
	cases := []struct {
		name      string
		firstName string
		lastName  string
		expected  string
	}{
		{name: "both parts", firstName: "Ada", lastName: "Lovelace", expected: "Ada Lovelace"},
		{name: "first only", firstName: "Ada", lastName: "", expected: "Ada"},
		{name: "last only", firstName: "", lastName: "Lovelace", expected: "Lovelace"},
		{name: "neither", firstName: "", lastName: "", expected: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gt.Value(t, model.ComposeFullName(tc.firstName, tc.lastName)).Equal(tc.expected)
		})
	}
}
