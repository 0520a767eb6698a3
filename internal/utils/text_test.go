package utils_test

import (
	"reflect"
	"testing"

	"github.com/temirov/scraper/internal/utils"
)

func TestDecodeUTF8(t *testing.T) {
	testCases := []struct {
		name        string
		data        []byte
		expected    string
		expectError bool
	}{
		{name: "ascii", data: []byte("package main\n"), expected: "package main\n"},
		{name: "multibyte", data: []byte("héllo 世界"), expected: "héllo 世界"},
		{name: "empty", data: []byte{}, expected: ""},
		{name: "latin1 byte", data: []byte{'c', 'a', 'f', 0xe9}, expectError: true},
		{name: "truncated sequence", data: []byte{0xe4, 0xb8}, expectError: true},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			decoded, decodeError := utils.DecodeUTF8(testCase.data)
			if testCase.expectError {
				if decodeError == nil {
					t.Fatalf("expected decode error for %v", testCase.data)
				}
				return
			}
			if decodeError != nil {
				t.Fatalf("unexpected decode error: %v", decodeError)
			}
			if decoded != testCase.expected {
				t.Fatalf("expected %q, got %q", testCase.expected, decoded)
			}
		})
	}
}

func TestSplitLines(t *testing.T) {
	testCases := []struct {
		name     string
		text     string
		expected []string
	}{
		{name: "empty", text: "", expected: nil},
		{name: "trailing newline", text: "a\nb\n", expected: []string{"a", "b"}},
		{name: "no trailing newline", text: "a\nb", expected: []string{"a", "b"}},
		{name: "windows endings", text: "a\r\nb\r\n", expected: []string{"a", "b"}},
		{name: "old mac endings", text: "a\rb", expected: []string{"a", "b"}},
		{name: "blank lines kept", text: "a\n\nb\n", expected: []string{"a", "", "b"}},
		{name: "single newline", text: "\n", expected: []string{""}},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			actual := utils.SplitLines(testCase.text)
			if !reflect.DeepEqual(actual, testCase.expected) {
				t.Fatalf("expected %q, got %q", testCase.expected, actual)
			}
		})
	}
}
