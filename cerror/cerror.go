package cerror

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/chenjie199234/Dictionary/util/common"
)

//if error was not in this error's format,code will return -1,msg will use the origin error.Error()

type Error struct {
	Code int32  `json:"code"`
	Msg  string `json:"msg"`
}

func MakeError(code int32, msg string) *Error {
	return &Error{Code: code, Msg: msg}
}

// Annotate returns a copy of e with detail appended to the msg,the code is kept
// so errors.Is(Annotate(e,...),e) is true
func Annotate(e *Error, detail string) *Error {
	if e == nil {
		return nil
	}
	if detail == "" {
		return &Error{Code: e.Code, Msg: e.Msg}
	}
	return &Error{Code: e.Code, Msg: e.Msg + ": " + detail}
}
func GetCodeFromErrorstr(e string) int32 {
	ee := ConvertErrorstr(e)
	if ee == nil {
		return 0
	}
	return ee.Code
}
func GetCodeFromStdError(e error) int32 {
	ee := ConvertStdError(e)
	if ee == nil {
		return 0
	}
	return ee.Code
}
func GetMsgFromErrorstr(e string) string {
	ee := ConvertErrorstr(e)
	if ee == nil {
		return ""
	}
	return ee.Msg
}
func GetMsgFromStdError(e error) string {
	ee := ConvertStdError(e)
	if ee == nil {
		return ""
	}
	return ee.Msg
}
func ConvertErrorstr(e string) *Error {
	if e == "" {
		return nil
	}
	result := &Error{}
	if e[0] == '{' {
		//json format
		if ee := json.Unmarshal(common.STB(e), result); ee != nil {
			result.Code = -1
			result.Msg = e
		}
	} else {
		//text format
		result.Code = -1
		result.Msg = e
	}
	return result
}
func ConvertStdError(e error) *Error {
	if e == nil {
		return nil
	}
	if errors.Is(e, context.DeadlineExceeded) {
		return ErrDeadlineExceeded
	} else if errors.Is(e, context.Canceled) {
		return ErrCanceled
	}
	var result *Error
	if errors.As(e, &result) {
		return result
	}
	return ConvertErrorstr(e.Error())
}
func Equal(a, b error) bool {
	aa := ConvertStdError(a)
	bb := ConvertStdError(b)
	if aa == nil && bb == nil {
		return true
	} else if (aa == nil && bb != nil) || (aa != nil && bb == nil) {
		return false
	}
	return aa.Code == bb.Code && aa.Msg == bb.Msg
}

// Is makes errors.Is match by code,so annotated copies match their sentinel
func (this *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || this == nil || t == nil {
		return false
	}
	if this.Code == -1 || t.Code == -1 {
		//std errors converted into this format only match the same msg
		return this.Code == t.Code && this.Msg == t.Msg
	}
	return this.Code == t.Code
}
func (this *Error) Error() string {
	if this == nil {
		return ""
	}
	d, _ := json.Marshal(this.Msg)
	return "{\"code\":" + strconv.FormatInt(int64(this.Code), 10) + ",\"msg\":" + common.BTS(d) + "}"
}
