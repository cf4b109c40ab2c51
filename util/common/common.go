package common

import (
	"unsafe"
)

// STB converts string to []byte without copy,the result must not be modified
func STB(data string) []byte {
	return unsafe.Slice(unsafe.StringData(data), len(data))
}

// BTS converts []byte to string without copy,the data must not be modified after this
func BTS(data []byte) string {
	return unsafe.String(unsafe.SliceData(data), len(data))
}
