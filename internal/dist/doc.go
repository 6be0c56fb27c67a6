// Package dist builds and composes finite discrete probability distributions.
//
// A Distribution[T] is an exact probability mass function over outcomes that only
// need equality. Comparable outcomes use the plain constructors (New, Uniform,
// Map, AndThen, ...), which are backed by a hashed index. Any other outcome type,
// nested distributions included, goes through the *Func variants with a caller
// supplied equality, backed by a linear scan.
//
// Every operation returns a new value; entries keep first-occurrence order.
//
//	coin, _ := dist.Uniform(Heads, Tails)
//	reflip := dist.AndThen(coin, func(c Coin) dist.Distribution[Coin] {
//		if c == Heads {
//			return dist.Always(Heads)
//		}
//		return coin
//	})
//	reflip.Pmf(Heads) // 0.75
package dist
