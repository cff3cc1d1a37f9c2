package sample

import "errors"

var errEmpty = errors.New("empty")

//throws error
func Head(items []string) string {
	if len(items) == 0 {
		return ""
	}
	return items[0]
}
