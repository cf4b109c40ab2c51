package name

import (
	"errors"
	"sync"
)

// [a-z][0-9][-],first character must in [a-z],last character must in [a-z][0-9]
func SingleCheck(name string, dash bool) error {
	if len(name) == 0 {
		return errors.New("[name] empty")
	}
	if len(name) > 63 {
		return errors.New("[name] too long")
	}
	if name[0] < 'a' || name[0] > 'z' {
		return errors.New("[name] first character must in [a-z]")
	}
	if last := name[len(name)-1]; !isdigit(last) && !islower(last) {
		return errors.New("[name] last character must in [a-z][0-9]")
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if isdigit(c) || islower(c) || (dash && c == '-') {
			continue
		}
		if dash {
			return errors.New("[name] character must in [a-z][0-9][-]")
		}
		return errors.New("[name] character must in [a-z][0-9]")
	}
	return nil
}
func isdigit(c byte) bool {
	return c >= '0' && c <= '9'
}
func islower(c byte) bool {
	return c >= 'a' && c <= 'z'
}
func MakeFullName(project, group, app string) (string, error) {
	if e := SingleCheck(project, false); e != nil {
		return "", e
	}
	if e := SingleCheck(group, false); e != nil {
		return "", e
	}
	if e := SingleCheck(app, false); e != nil {
		return "", e
	}
	return project + "-" + group + "." + app, nil
}

var lker sync.RWMutex
var fullname string
var app string

func SetSelfFullName(p, g, a string) error {
	lker.Lock()
	defer lker.Unlock()
	if fullname != "" {
		return errors.New("[name] self full name already setted")
	}
	str, e := MakeFullName(p, g, a)
	if e != nil {
		return e
	}
	fullname = str
	app = a
	return nil
}
func GetSelfFullName() string {
	lker.RLock()
	defer lker.RUnlock()
	return fullname
}
func HasSelfFullName() error {
	lker.RLock()
	defer lker.RUnlock()
	if fullname == "" {
		return errors.New("[name] missing self full name")
	}
	return nil
}
func GetSelfApp() string {
	lker.RLock()
	defer lker.RUnlock()
	return app
}
