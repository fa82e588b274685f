package geom_test

import (
	"fmt"

	"github.com/matzehuels/topiccloud/pkg/geom"
)

func ExampleIntersects() {
	a := geom.Box{X: 10, Y: 20, W: 10, H: 10}
	b := geom.Box{X: 20, Y: 20, W: 10, H: 10} // shares a's right edge
	c := geom.Box{X: 50, Y: 50, W: 10, H: 10}

	fmt.Println(geom.Intersects(a, b))
	fmt.Println(geom.Intersects(a, c))
	// Output:
	// true
	// false
}

func ExampleUnion() {
	v := geom.Union(
		geom.Box{X: -25, Y: -2.5, W: 50, H: 5},
		geom.Box{X: 30, Y: 4, W: 20, H: 10},
	)
	fmt.Printf("%.1f %.1f %.1f %.1f\n", v.X, v.Y, v.W, v.H)
	// Output:
	// -25.0 -2.5 75.0 16.5
}
