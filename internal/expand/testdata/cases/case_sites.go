package sample

import (
	"strconv"

	"github.com/sirkon/throws"
)

type Error = error

type Source interface {
	//throws error
	Read(key string) string
	Close() error
}

type Store struct {
	src Source
}

//throws error
func (s *Store) Number(key string) int {
	raw := throws.Try(s.src.Read(key))
	parse := throws.ExprAs("error", func(v string) int {
		return throws.Try(strconv.Atoi(v))
	})
	return throws.Try(parse(raw))
}

func (s *Store) Later(key string) *throws.Future[throws.Result[string, Error]] {
	return throws.Expr(throws.Async(func() string {
		return throws.Try(s.src.Read(key))
	}))
}

//throws:try
func (s *Store) Close() error {
	throws.Check(s.src.Close())
}
