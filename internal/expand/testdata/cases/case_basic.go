package sample

import (
	"os"
	"strconv"

	"github.com/sirkon/throws"
)

// ParseAll parses numbers.
//
//throws error
func ParseAll(items []string) []int {
	res := make([]int, 0, len(items))
	for _, item := range items {
		n := throws.Try(strconv.Atoi(item))
		res = append(res, n)
	}
	return res
}

//throws error
func WriteAll(path string, data []byte) {
	throws.Check(os.WriteFile(path, data, 0o644))
}
