package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/chenjie199234/Dictionary/dict"
)

func Test_Run(t *testing.T) {
	d := dict.New()
	defer d.Close()
	in := strings.Join([]string{
		"add hamburger",
		"add Hamster",
		"add a1b",
		"",
		"check hamster",
		"check ham",
		"prefix hams",
		"prefix x",
		"list",
		"list hamb",
		"suggest hamsters",
		"len",
		"quit",
		"add never",
	}, "\n")
	out := &bytes.Buffer{}
	run(d, strings.NewReader(in), out)
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	want := []string{
		"ok",
		"ok",
		"",
		"true",
		"false",
		"true",
		"false",
		"hamburger",
		"hamster",
		"hamburger",
		"hamster 1",
		"2",
	}
	if len(lines) != len(want) {
		t.Fatalf("output wrong: %q", lines)
	}
	for i := range want {
		if i == 2 {
			if !strings.HasPrefix(lines[i], "error:") {
				t.Fatalf("line %d should be an error: %q", i, lines[i])
			}
			continue
		}
		if lines[i] != want[i] {
			t.Fatalf("line %d wrong: %q want %q", i, lines[i], want[i])
		}
	}
	if ok, _ := d.Contains("never"); ok {
		t.Fatal("commands after quit should not run")
	}
}

func Test_Usage(t *testing.T) {
	d := dict.New()
	defer d.Close()
	out := &bytes.Buffer{}
	if !exec(d, "help", nil, out) {
		t.Fatal("unknown command should not quit")
	}
	if out.String() != usage+"\n" {
		t.Fatal("unknown command should print usage")
	}
}
