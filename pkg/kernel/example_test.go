package kernel_test

import (
	"fmt"

	"github.com/matzehuels/lamina/pkg/kernel"
)

func ExampleLamination_EncodeTwist() {
	// The once-punctured torus: two triangles glued along three edges.
	t, _ := kernel.NewTriangulation([][3]int{{0, 1, 2}, {-1, -2, -3}})
	a, _ := t.Lamination([]int{1, 0, 1})
	b, _ := t.Lamination([]int{1, 1, 0})

	twist, _ := a.EncodeTwist(1)
	img, _ := twist.Apply(b)
	n, _ := a.Intersection(b)

	fmt.Println("a:", a.Kind())
	fmt.Println("T_a(b):", img)
	fmt.Println("i(a, b):", n)
	// Output:
	// a: curve
	// T_a(b): [2,1,1]
	// i(a, b): 1
}

func ExampleLamination_Components() {
	t, _ := kernel.NewTriangulation([][3]int{{0, 1, 2}, {-1, -2, -3}})
	l, _ := t.Lamination([]int{2, -1, 2})

	comps, _ := l.Components()
	for _, c := range comps {
		fmt.Printf("%d x %s %s\n", c.Multiplicity, c.Lamination.Kind(), c.Lamination)
	}
	fmt.Println("kind:", l.Kind())
	// Output:
	// 2 x curve [1,0,1]
	// 1 x arc [0,-1,0]
	// kind: lamination
}

func ExampleEncoding_Order() {
	t, _ := kernel.NewTriangulation([][3]int{{0, 1, 2}, {-1, -2, -3}})
	rotation, _ := t.EncodeIsometry(map[int]int{0: 1, 1: 2, 2: 0})

	order, _ := rotation.Order()
	nt, _ := rotation.NielsenThurstonType()
	fmt.Println("order:", order)
	fmt.Println("type:", nt)
	// Output:
	// order: 3
	// type: Periodic
}

func ExampleFormatLabel() {
	fmt.Println(kernel.FormatLabel(2), kernel.FormatLabel(kernel.Tilde(2)))
	// Output:
	// 2 ~2
}
