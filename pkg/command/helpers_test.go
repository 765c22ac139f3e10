package command

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-drift/motion/pkg/action"
	"github.com/go-drift/motion/pkg/clock"
	"github.com/go-drift/motion/pkg/component"
	"github.com/go-drift/motion/pkg/errors"
)

type testContext struct {
	clk      *clock.Virtual
	arb      *action.Arbiter
	reg      *component.Registry
	settings Settings
	host     ViewHost
	rec      *errors.Recorder
}

func (c *testContext) Clock() clock.Clock              { return c.clk }
func (c *testContext) Arbiter() *action.Arbiter        { return c.arb }
func (c *testContext) Components() *component.Registry { return c.reg }
func (c *testContext) Settings() Settings              { return c.settings }
func (c *testContext) ViewHost() ViewHost              { return c.host }
func (c *testContext) Metrics() *action.Metrics        { return nil }

func newTestContext(t *testing.T) *testContext {
	t.Helper()
	rec := &errors.Recorder{}
	t.Cleanup(rec.Install())
	return &testContext{
		clk:      clock.NewVirtual(),
		arb:      action.NewArbiter(nil),
		reg:      component.NewRegistry(),
		settings: Settings{AnimationQuality: QualityNormal},
		rec:      rec,
	}
}

func (c *testContext) box(id string) *component.Component {
	return c.reg.Create(id, "Frame", component.Handle{})
}

// scroller creates a ScrollView with n children of the given height stacked
// vertically.
func (c *testContext) scroller(id string, viewport float64, n int, height float64) *component.Component {
	sv := c.reg.Create(id, "ScrollView", component.Handle{})
	for i := 0; i < n; i++ {
		child := c.reg.Create("", "Frame", sv.Handle())
		child.Set(component.PropBounds, component.Rect{Y: float64(i) * height, Width: 100, Height: height})
	}
	sv.Set(component.PropViewport, viewport)
	sv.Set(component.PropScrollExtent, float64(n)*height)
	sv.Set(component.PropScrollPosition, 0.0)
	return sv
}

func (c *testContext) run(t *testing.T, cmd *Command, fast bool) *action.Action {
	t.Helper()
	a, err := Make(c, cmd, fast)
	require.NoError(t, err)
	require.NotNil(t, a)
	return a
}

func ms(n int) *int { return &n }

func opacityAnim(id string, duration int, from, to float64) *Command {
	return &Command{
		Type:        TypeAnimateItem,
		ComponentID: id,
		Duration:    ms(duration),
		Easing:      "linear",
		Value:       []AnimatedValue{{Property: "opacity", From: from, To: to}},
	}
}
