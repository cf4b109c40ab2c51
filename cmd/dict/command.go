package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chenjie199234/Dictionary/config"
	"github.com/chenjie199234/Dictionary/dict"
)

const usage = `commands:
  add <word>       insert a word
  check <word>     exact match
  prefix <prefix>  is there any word starting with prefix
  list [prefix]    words in alphabetical order
  suggest <word>   nearest words
  len              number of words
  quit`

// run answers the commands line by line until quit or EOF
func run(d *dict.Dictionary, r io.Reader, w io.Writer) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if !exec(d, fields[0], fields[1:], w) {
			return
		}
	}
}

func exec(d *dict.Dictionary, cmd string, args []string, w io.Writer) bool {
	arg := ""
	if len(args) > 0 {
		arg = args[0]
	}
	switch strings.ToLower(cmd) {
	case "add":
		if e := d.Insert(arg); e != nil {
			fmt.Fprintln(w, "error:", e)
			break
		}
		fmt.Fprintln(w, "ok")
	case "check":
		ok, e := d.Contains(arg)
		if e != nil {
			fmt.Fprintln(w, "error:", e)
			break
		}
		fmt.Fprintln(w, ok)
	case "prefix":
		ok, e := d.HasPrefix(arg)
		if e != nil {
			fmt.Fprintln(w, "error:", e)
			break
		}
		fmt.Fprintln(w, ok)
	case "list":
		words, e := d.WordsWithPrefix(arg)
		if e != nil {
			fmt.Fprintln(w, "error:", e)
			break
		}
		for word := range words {
			fmt.Fprintln(w, word)
		}
	case "suggest":
		maxDistance, limit := 2, 10
		if c := config.AC(); c != nil {
			maxDistance, limit = c.SuggestMaxDistance, c.SuggestLimit
		}
		suggestions, e := d.Suggest(arg, maxDistance, limit)
		if e != nil {
			fmt.Fprintln(w, "error:", e)
			break
		}
		if len(suggestions) == 0 {
			fmt.Fprintln(w, "no suggestion")
			break
		}
		for _, s := range suggestions {
			fmt.Fprintln(w, s.Word+" "+strconv.Itoa(s.Distance))
		}
	case "len":
		fmt.Fprintln(w, d.Len())
	case "quit", "exit":
		return false
	default:
		fmt.Fprintln(w, usage)
	}
	return true
}
