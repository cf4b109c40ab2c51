package version

import "fmt"

var major = 0
var minor = 1
var patch = 0
var status = ""

func String() string {
	if status != "" {
		return fmt.Sprintf("v%d.%d.%d-%s", major, minor, patch, status)
	}
	return fmt.Sprintf("v%d.%d.%d", major, minor, patch)
}
