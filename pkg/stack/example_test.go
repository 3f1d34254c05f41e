package stack_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/dpvgen/pkg/stack"
)

func ExampleParse() {
	// Part name, stack, then optional feed, head and rotation offset
	src := `# part, stack, feed, head, rotation
100nF,1
TPS65400,27,8,2,90
`
	cat, err := stack.Parse(strings.NewReader(src), "stack.csv", stack.DefaultLimits())
	if err != nil {
		panic(err)
	}
	for _, e := range cat.Entries() {
		fmt.Printf("%s: stack %d, feed %d, head %d\n", e.Name, e.Stack, e.FeedOr(4), e.HeadOr(1))
	}
	// Output:
	// 100nF: stack 1, feed 4, head 1
	// TPS65400: stack 27, feed 8, head 2
}

func ExampleCatalog_Apply() {
	cat, _ := stack.Parse(strings.NewReader("100nF,1\n"), "stack.csv", stack.DefaultLimits())

	// --stack LED:12 adds a part, --feed 100nF:2 changes one
	overrides := []stack.Override{
		{Kind: stack.OverrideStack, Part: "LED", Value: "12"},
		{Kind: stack.OverrideFeed, Part: "100nF", Value: "2"},
	}
	cat, err := cat.Apply(overrides, stack.DefaultLimits())
	if err != nil {
		panic(err)
	}
	fmt.Println(cat.Names())
	e, _ := cat.Lookup("100nF")
	fmt.Println("100nF feed:", e.FeedOr(4))
	// Output:
	// [100nF LED]
	// 100nF feed: 2
}
