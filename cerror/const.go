package cerror

import "context"

// business,start from 10000
var (
	ErrUnknown  = &Error{Code: 10000, Msg: "unknown"}
	ErrReq      = &Error{Code: 10001, Msg: "request error"}
	ErrSystem   = &Error{Code: 10003, Msg: "system error"}
	ErrNotExist = &Error{Code: 10007, Msg: "not exist"}
	ErrConfig   = &Error{Code: 10008, Msg: "config error"}
)

// dictionary,start from 20000
var (
	ErrInvalidWord       = &Error{Code: 20001, Msg: "invalid word,must be non-empty and only contain [a-z][A-Z]"}
	ErrSourceUnavailable = &Error{Code: 20002, Msg: "word source unavailable"}
	ErrFrozen            = &Error{Code: 20003, Msg: "dictionary is frozen"}
)

// convert std error,always -1
var (
	ErrDeadlineExceeded = &Error{Code: -1, Msg: context.DeadlineExceeded.Error()}
	ErrCanceled         = &Error{Code: -1, Msg: context.Canceled.Error()}
)
