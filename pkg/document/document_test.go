package document

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/motion/pkg/animation"
	"github.com/go-drift/motion/pkg/command"
	"github.com/go-drift/motion/pkg/component"
	"github.com/go-drift/motion/pkg/errors"
)

const sample = `
version: "1.2"
resources:
  fade: 300
  accent: blue
mainTemplate:
  id: root
  type: Frame
  width: 320
  height: 600
  children:
    - id: header
      type: Text
      height: 80
      opacity: 0.5
      transform: [{translateX: 4}]
      properties:
        color: ${accent}
    - id: list
      type: ScrollView
      height: 400
      scroll: {viewport: 400, position: 50}
      children:
        - {id: row0, type: Frame, height: 150}
        - {id: row1, type: Frame, height: 150}
        - {id: row2, type: Frame, height: 150}
        - {id: row3, type: Frame, height: 150}
onMount:
  - type: FadeIn
    target: header
  - type: Sequential
    repeatCount: 1
    commands:
      - {type: SetValue, componentId: list, property: scrollPosition, value: "${fade / 2}"}
      - {type: FadeIn, target: list, delay: 10}
commands:
  FadeIn:
    parameters:
      - name: target
      - name: speed
        default: 1
    commands:
      - type: AnimateItem
        componentId: ${target}
        duration: ${fade * speed}
        easing: ease-out
        value: [{property: opacity, from: 0, to: 1}]
`

func mustParse(t *testing.T, src string) *Document {
	t.Helper()
	doc, err := Parse([]byte(src))
	require.NoError(t, err)
	return doc
}

func TestParseAndBuild(t *testing.T) {
	doc := mustParse(t, sample)
	reg := component.NewRegistry()

	root, err := doc.Build(reg)
	require.NoError(t, err)
	assert.Equal(t, "root", root.ID())
	assert.Equal(t, 7, reg.Len())

	header, ok := reg.Find("header")
	require.True(t, ok)
	assert.Equal(t, 0.5, header.Float(component.PropOpacity))
	assert.Equal(t, "blue", header.Get("color"))
	assert.Equal(t, animation.Transform{{Kind: animation.TranslateX, Value: 4}}, header.Get(component.PropTransform))
	assert.Equal(t, component.Rect{Width: 320, Height: 80}, header.Bounds())

	list, ok := reg.Find("list")
	require.True(t, ok)
	assert.Equal(t, component.Rect{Y: 80, Width: 320, Height: 400}, list.Bounds())
	assert.True(t, list.Scrollable())
	assert.Equal(t, 600.0, list.Float(component.PropScrollExtent))
	assert.Equal(t, 200.0, list.MaxScroll())
	assert.Equal(t, 50.0, list.ScrollPosition())

	row2, _ := reg.Find("row2")
	assert.Equal(t, component.Rect{Y: 300, Width: 320, Height: 150}, row2.Bounds())
	assert.Equal(t, list.Handle(), row2.Parent())
}

func TestValidate(t *testing.T) {
	cases := map[string]string{
		"missing version":  "mainTemplate: {type: Frame}",
		"bad version":      "version: banana\nmainTemplate: {type: Frame}",
		"missing template": `version: "1.0"`,
		"duplicate id": `
version: "1.0"
mainTemplate:
  type: Frame
  children: [{id: a, type: Frame}, {id: a, type: Frame}]`,
		"untyped child": `
version: "1.0"
mainTemplate: {type: Frame, children: [{id: a}]}`,
		"bad parameter": `
version: "1.0"
mainTemplate: {type: Frame}
commands:
  Go: {parameters: [{name: "not ok"}], commands: []}`,
		"not yaml": "version: [",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(src))
			var e *errors.Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, errors.KindDocument, e.Kind)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	doc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "1.2", doc.Version)
	assert.Len(t, doc.OnMount, 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestCheckVersion(t *testing.T) {
	cases := []struct {
		version, minimum string
		ok               bool
	}{
		{"1.0", "", true},
		{"1.2", "1.1", true},
		{"v1.2.0", "1.2", true},
		{"1.0", "1.1", false},
		{CurrentVersion, CurrentVersion, true},
		{"1.99", "", false},
		{"2.0", "", false},
		{"0.9", "", false},
		{"abc", "", false},
	}
	for _, tc := range cases {
		err := CheckVersion(tc.version, tc.minimum)
		if tc.ok {
			assert.NoError(t, err, "%s >= %s", tc.version, tc.minimum)
			continue
		}
		assert.Error(t, err, "%s >= %s", tc.version, tc.minimum)
	}
	assert.ErrorIs(t, CheckVersion("1.0", "1.1"), errors.ErrUnsupportedVersion)
	assert.Error(t, CheckVersion("1.0", "nope"))
}

func TestEvaluator(t *testing.T) {
	ev := NewEvaluator(map[string]any{
		"fade":   300,
		"name":   "card",
		"offset": 10,
		"sizes":  []any{1, 2, 3},
		"bad-id": 1,
	})

	cases := []struct {
		in   string
		want any
	}{
		{"plain", "plain"},
		{"${fade}", int64(300)},
		{"${fade * 2}", int64(600)},
		{"${name + \"-1\"}", "card-1"},
		{"${len(sizes)}", int64(3)},
		{"${len({a: 1, b: 2})}", int64(2)},
		{"${import(\"math\").floor(offset / 3)}", float64(3)},
		{"#${name}: ${fade}ms", "#card: 300ms"},
		{"${\"}\"}", "}"},
	}
	for _, tc := range cases {
		got, err := ev.Expand(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	for _, bad := range []string{"${missing}", "${fade +}", "${fade"} {
		_, err := ev.Expand(bad)
		var e *errors.Error
		require.ErrorAs(t, err, &e, bad)
		assert.Equal(t, errors.KindBinding, e.Kind)
	}
}

func TestEvaluatorAbortsRunawayExpressions(t *testing.T) {
	ev := NewEvaluator(nil)

	start := time.Now()
	_, err := ev.Eval("(func(){ for {} })()")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
	var e *errors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, errors.KindBinding, e.Kind)

	_, err = ev.Eval("(func(){ a := []; for { a = append(a, [1]) } })()")
	require.Error(t, err)
	assert.ErrorIs(t, err, tengo.ErrObjectAllocLimit)
}

func TestEvaluatorWithShadows(t *testing.T) {
	base := NewEvaluator(map[string]any{"x": 1})
	child := base.With(map[string]any{"x": 2, "y": 3})

	got, err := child.Eval("x + y")
	require.NoError(t, err)
	assert.Equal(t, int64(5), got)

	got, err = base.Eval("x")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got, "parent is untouched")
}

func TestResolveExpandsMacros(t *testing.T) {
	doc := mustParse(t, sample)
	rec := &errors.Recorder{}
	t.Cleanup(rec.Install())

	cmds := doc.Resolve(doc.OnMount, nil)
	require.Empty(t, rec.Errors())
	require.Len(t, cmds, 2)

	fade := cmds[0]
	assert.Equal(t, command.TypeSequential, fade.Type)
	require.Len(t, fade.Commands, 1)
	anim := fade.Commands[0]
	assert.Equal(t, command.TypeAnimateItem, anim.Type)
	assert.Equal(t, "header", anim.ComponentID)
	require.NotNil(t, anim.Duration)
	assert.Equal(t, 300, *anim.Duration)
	assert.Equal(t, "ease-out", anim.Easing)
	assert.Equal(t, []any{map[string]any{"property": "opacity", "from": 0, "to": 1}}, anim.Value)

	seq := cmds[1]
	assert.Equal(t, command.TypeSequential, seq.Type)
	assert.Equal(t, 1, seq.RepeatCount)
	require.Len(t, seq.Commands, 2)
	assert.Equal(t, "scrollPosition", seq.Commands[0].Property)
	assert.Equal(t, 150, seq.Commands[0].Value)
	assert.Equal(t, 10, seq.Commands[1].Delay)
	assert.Equal(t, "list", seq.Commands[1].Commands[0].ComponentID)
}

func TestResolveArguments(t *testing.T) {
	doc := mustParse(t, sample)
	cmds := doc.Resolve([]Raw{{"type": "FadeIn", "target": "row1", "speed": 2}}, nil)
	require.Len(t, cmds, 1)
	anim := cmds[0].Commands[0]
	assert.Equal(t, "row1", anim.ComponentID)
	assert.Equal(t, 600, *anim.Duration)
}

func TestResolveReportsAndSkips(t *testing.T) {
	doc := mustParse(t, `
version: "1.0"
mainTemplate: {type: Frame}
commands:
  Loop:
    commands: [{type: Loop}]
`)
	rec := &errors.Recorder{}
	t.Cleanup(rec.Install())

	cmds := doc.Resolve([]Raw{
		{"type": "Idle", "duration": "${nope}"},
		{"type": "Idle", "duration": "soon"},
		{"type": "Sequential", "commands": "many"},
		{"type": "Idle", "duration": 5},
		{"type": "Loop"},
	}, nil)

	require.Len(t, cmds, 2)
	assert.Equal(t, command.TypeIdle, cmds[0].Type)
	assert.Equal(t, 5, *cmds[0].Duration)
	assert.Len(t, rec.Errors(), 4, "three bad commands and the expansion limit")
}
