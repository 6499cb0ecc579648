package main

import (
	"testing"

	"github.com/webaverse-studios/raid-party-app-sub002/test"
)

func TestFailures(t *testing.T) {
	tests := []struct {
		name    string
		results []test.TestResult
		want    int
	}{
		{"no scenarios", nil, 0},
		{"all passed", []test.TestResult{{Name: "a", Passed: true}, {Name: "b", Passed: true}}, 0},
		{"one failed", []test.TestResult{{Name: "a", Passed: true}, {Name: "b", Message: "timeout"}}, 1},
	}
	for _, tc := range tests {
		if got := failures(tc.results); got != tc.want {
			t.Errorf("failures(%s) = %d, want %d", tc.name, got, tc.want)
		}
	}
}
