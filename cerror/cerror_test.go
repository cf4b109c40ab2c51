package cerror

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func Test_Error(t *testing.T) {
	me := MakeError(100, "test")
	ee := toerror(me)
	if code := GetCodeFromStdError(ee); code != 100 {
		t.Fatal("code error")
	}
	if code := GetCodeFromErrorstr(ee.Error()); code != 100 {
		t.Fatal("code error")
	}
	if msg := GetMsgFromStdError(ee); msg != "test" {
		t.Fatal("msg error")
	}
	if msg := GetMsgFromErrorstr(ee.Error()); msg != "test" {
		t.Fatal("msg error")
	}
	if temp := ConvertErrorstr(ee.Error()); temp.Code != me.Code || temp.Msg != me.Msg {
		t.Fatal("translate error")
	}
	eee := fmt.Errorf("test")
	if code := GetCodeFromStdError(eee); code != -1 {
		t.Fatal("code error")
	}
	if msg := GetMsgFromStdError(eee); msg != "test" {
		t.Fatal("msg error")
	}
	if !Equal(nil, nil) || Equal(me, nil) || !Equal(me, MakeError(100, "test")) {
		t.Fatal("equal error")
	}
}
func Test_Quote(t *testing.T) {
	e := MakeError(1, "a \"quoted\" msg")
	if back := ConvertErrorstr(e.Error()); back.Code != 1 || back.Msg != e.Msg {
		t.Fatal("quoted msg should survive the json text format")
	}
}
func Test_Is(t *testing.T) {
	a := Annotate(ErrSourceUnavailable, "open words.txt: no such file")
	if !errors.Is(a, ErrSourceUnavailable) {
		t.Fatal("annotated error should match its sentinel")
	}
	if errors.Is(a, ErrInvalidWord) {
		t.Fatal("different code should not match")
	}
	wrapped := fmt.Errorf("[source] load: %w", a)
	if !errors.Is(wrapped, ErrSourceUnavailable) {
		t.Fatal("wrapped error should match its sentinel")
	}
	if ConvertStdError(wrapped) != a {
		t.Fatal("convert should unwrap to the inner error")
	}
	if ConvertStdError(fmt.Errorf("x: %w", context.Canceled)) != ErrCanceled {
		t.Fatal("context canceled should be converted")
	}
}
func toerror(e *Error) error {
	return e
}
