package sample

import thr "github.com/sirkon/throws"

//throws as Option
func Has(m map[string]int, k string) {
	thr.Check(ok(m, k))
}

func ok(m map[string]int, k string) bool {
	_, found := m[k]
	return found
}
