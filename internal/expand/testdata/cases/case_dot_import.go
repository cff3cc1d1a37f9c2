package sample

import (
	"strconv"

	. "github.com/sirkon/throws"
)

//throws error
func Twice(s string) int {
	n := Try(strconv.Atoi(s))
	return n * 2
}
