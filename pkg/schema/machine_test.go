package schema_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/dsl"
	"github.com/aretw0/turing/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const incrementYAML = `
name: unary-increment
tape_alphabet: "01_"
states:
  - {id: 3, name: scan}
transitions:
  - {from: 1, read: 0, to: 3, move: R}
  - {from: 3, read: 0, to: 3, move: right}
  - {from: 3, read: _, to: 2, write: 1}
`

func TestLoad_YAML(t *testing.T) {
	m, err := schema.Load([]byte(incrementYAML), schema.FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, "unary-increment", m.Name())
	scan, ok := m.State(3)
	require.True(t, ok)
	assert.Equal(t, "scan", scan.Name)

	tr, ok := m.Transition(scan, domain.Blank)
	require.True(t, ok)
	assert.Equal(t, domain.Symbol('1'), tr.Write)
	assert.Equal(t, domain.None, tr.Move)

	tr, ok = m.Transition(domain.Start, '0')
	require.True(t, ok)
	assert.Equal(t, domain.Symbol('0'), tr.Write, "write defaults to the read symbol")

	res, err := turing.New().RunMachine(context.Background(), m, "000")
	require.NoError(t, err)
	assert.Equal(t, "0001", res.Content)
}

func TestLoad_JSON(t *testing.T) {
	doc := `{
		"name": "flip",
		"transitions": [
			{"from": 1, "read": 0, "to": 1, "write": "1", "move": "R"},
			{"from": 1, "read": "_", "to": 2}
		]
	}`
	m, err := schema.Load([]byte(doc), schema.FormatJSON)
	require.NoError(t, err)

	res, err := turing.New().RunMachine(context.Background(), m, "00")
	require.NoError(t, err)
	assert.True(t, res.Accepted)
	assert.Equal(t, "11", res.Content)
	assert.ElementsMatch(t, []domain.Symbol{'0', '1'}, m.InputAlphabet())
}

func TestParse_ReportsEveryProblem(t *testing.T) {
	doc := `
name: broken
colour: red
transitions:
  - {from: 0, read: ab, to: 2, move: up}
  - {read: 1, to: 2}
`
	_, err := schema.Parse([]byte(doc), schema.FormatYAML)
	require.Error(t, err)

	errs := schema.ValidationErrors(err)
	keys := map[string]bool{}
	for _, e := range errs {
		var ve *schema.ValidationError
		require.ErrorAs(t, e, &ve)
		keys[ve.Key] = true
	}
	assert.True(t, keys["colour"], "unknown field")
	assert.True(t, keys["transitions[0].from"])
	assert.True(t, keys["transitions[0].read"])
	assert.True(t, keys["transitions[0].move"])
	assert.True(t, keys["transitions[1].from"], "required")
	assert.Len(t, errs, 5)
}

func TestParse_MissingTransitions(t *testing.T) {
	_, err := schema.Parse([]byte("name: empty\n"), schema.FormatYAML)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"transitions": required`)
}

func TestLoad_Nondeterministic(t *testing.T) {
	doc := `
transitions:
  - {from: 1, read: 0, to: 2}
  - {from: 1, read: 0, to: 1, move: L}
`
	_, err := schema.Load([]byte(doc), schema.FormatYAML)
	assert.ErrorIs(t, err, domain.ErrNondeterministic)
}

func TestMarshal_RoundTrip(t *testing.T) {
	b := dsl.New("custom-blank").Blank('B').TapeAlphabet("01B").Name(3, "scan")
	b.State(dsl.Start).On('0').Right().Go(3)
	b.State(3).On('B').Write('1').Left().Go(dsl.Accept)
	m := b.MustBuild()

	for _, format := range []schema.Format{schema.FormatYAML, schema.FormatJSON} {
		data, err := schema.Marshal(m, format)
		require.NoError(t, err, format)

		back, err := schema.Load(data, format)
		require.NoError(t, err, format)
		assert.Equal(t, m.Blank(), back.Blank())
		assert.ElementsMatch(t, m.Transitions(), back.Transitions(), format)
		assert.Equal(t, m.States(), back.States(), format)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "inc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(incrementYAML), 0o644))

	m, err := schema.LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, m.Transitions(), 3)

	_, err = schema.LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestFormats(t *testing.T) {
	assert.Equal(t, schema.FormatJSON, schema.FormatFromPath("a/b.JSON"))
	assert.Equal(t, schema.FormatYAML, schema.FormatFromPath("a/b.yml"))

	f, err := schema.ParseFormat("yml")
	require.NoError(t, err)
	assert.Equal(t, schema.FormatYAML, f)
	_, err = schema.ParseFormat("toml")
	assert.Error(t, err)
}
