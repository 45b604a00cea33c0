package release_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/flowplan/internal/testutil"
	"github.com/matzehuels/flowplan/pkg/network"
	"github.com/matzehuels/flowplan/pkg/release"
)

func ExampleSingle() {
	net, _ := network.Compile(testutil.SampleGraph(), "AA")

	res, _ := release.Single(context.Background(), net, 30)
	fmt.Println("Pressure:", res.Pressure)
	// Output:
	// Pressure: 1651
}

func ExampleDualPlanner() {
	net, _ := network.Compile(testutil.SampleGraph(), "AA")

	p := release.DualPlanner{Strategy: release.StrategyHalf, Workers: 4}
	res, _ := p.Plan(context.Background(), net, 26)
	fmt.Println("Pressure:", res.Pressure)
	fmt.Println("Masks scored:", res.Masks)
	// Output:
	// Pressure: 1707
	// Masks scored: 32
}
