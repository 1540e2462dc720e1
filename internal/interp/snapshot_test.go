package interp

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/thorscript/thor/internal/builtin"
)

// TestStringifyOutputSnapshots pins the rendered output of a handful of
// representative programs with go-snaps, the way the teacher's fixture
// suite snapshots each test program's printed output instead of hardcoding
// an expected string inline.
func TestStringifyOutputSnapshots(t *testing.T) {
	programs := map[string]string{
		"arithmetic": `return 2 + 3 * 4;`,
		"array":      `return (1 to 5) step 2;`,
		"object": `
			let obj;
			obj.a = 1;
			obj.b = "two";
			return obj;
		`,
		"closure": `
			fn adder(n) {
				fn add(x) {
					return x + n;
				}
				return add;
			}
			let add5 = adder(5);
			return add5(10);
		`,
	}

	for name, src := range programs {
		t.Run(name, func(t *testing.T) {
			v := run(t, src)
			snaps.MatchSnapshot(t, builtin.Stringify(v))
		})
	}
}
