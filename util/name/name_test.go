package name

import "testing"

func Test_Name(t *testing.T) {
	if _, e := MakeFullName("dictionary", "tool", "dict"); e != nil {
		t.Fatal(e)
	}
	for _, bad := range []string{"", "Dict", "1dict", "dict-", "di_ct"} {
		if e := SingleCheck(bad, true); e == nil {
			t.Fatalf("%q should be invalid", bad)
		}
	}
	if e := SingleCheck("a-b", false); e == nil {
		t.Fatal("dash should be invalid when dash is not allowed")
	}
	if e := SingleCheck("a-b", true); e != nil {
		t.Fatal(e)
	}
	if HasSelfFullName() == nil {
		t.Fatal("self name should not be setted")
	}
	if e := SetSelfFullName("dictionary", "tool", "dict"); e != nil {
		t.Fatal(e)
	}
	if GetSelfFullName() != "dictionary-tool.dict" || GetSelfApp() != "dict" {
		t.Fatal("self name wrong")
	}
	if e := SetSelfFullName("dictionary", "tool", "dict"); e == nil {
		t.Fatal("set twice should fail")
	}
}
