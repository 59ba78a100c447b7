package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

const testSchema = `
type: struct
schema-id: 1
fields:
  - {id: 1, name: id, required: true, type: long}
  - {id: 2, name: binaryData, required: false, type: binary}
  - id: 3
    name: structData
    required: false
    type:
      type: struct
      fields:
        - {id: 100, name: structInnerData, required: true, type: string}
`

const testRows = `
- id: 1
  binaryData: YmluYXJ5RGF0YV8w
  structData: {structInnerData: structInnerData_1}
- id: 2
`

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSchemaCmd(t *testing.T) {
	dir := t.TempDir()
	s := writeFile(t, dir, "schema.yaml", testSchema)

	out, err := run(t, "schema", s)
	require.NoError(t, err)
	require.Contains(t, out, `"name": "structInnerData"`)

	_, err = run(t, "schema", writeFile(t, dir, "bad.yaml", "fields: [{id: 1, name: a, type: nope}]"))
	require.Error(t, err)
}

func TestInspectCmd(t *testing.T) {
	dir := t.TempDir()
	s := writeFile(t, dir, "schema.yaml", testSchema)
	rows := writeFile(t, dir, "rows.yaml", testRows)

	out, err := run(t, "inspect", "--schema", s, "--rows", rows)
	require.NoError(t, err)
	require.Equal(t,
		"Record(1, 0x62696E617279446174615F30, Record(structInnerData_1))\nRecord(2, null, null)\n",
		out)

	_, err = run(t, "inspect", "--schema", s, "--rows", writeFile(t, dir, "bad.yaml", "- {nope: 1}\n"))
	require.Error(t, err)
}

func TestEncodeDecodeCmd(t *testing.T) {
	dir := t.TempDir()
	s := writeFile(t, dir, "schema.yaml", testSchema)
	rows := writeFile(t, dir, "rows.yaml", testRows)
	bin := filepath.Join(dir, "rows.bin")

	_, err := run(t, "encode", "--schema", s, "--rows", rows, "--out", bin)
	require.NoError(t, err)

	out, err := run(t, "decode", "--schema", s, "--in", bin)
	require.NoError(t, err)
	require.Contains(t, out, "binaryData: YmluYXJ5RGF0YV8w")
	require.Contains(t, out, "structInnerData: structInnerData_1")

	// required id missing
	_, err = run(t, "encode", "--schema", s, "--rows", writeFile(t, dir, "noid.yaml", "- {binaryData: AA==}\n"), "--out", bin)
	require.Error(t, err)

	// truncated row file
	require.NoError(t, os.WriteFile(bin, []byte{0x10, 0x00, 0x00, 0x00, 0x01}, 0o644))
	_, err = run(t, "decode", "--schema", s, "--in", bin)
	require.Error(t, err)
}

func TestPutGetCmd(t *testing.T) {
	mr := miniredis.RunT(t)
	t.Setenv("NOVARECORD_REDIS_ADDR", mr.Addr())

	dir := t.TempDir()
	s := writeFile(t, dir, "schema.yaml", testSchema)
	rows := writeFile(t, dir, "rows.yaml", testRows)

	out, err := run(t, "put", "--schema", s, "--rows", rows)
	require.NoError(t, err)
	require.Equal(t, "1\n2\n", out)
	require.True(t, mr.Exists("novarecord:1"))

	out, err = run(t, "get", "--schema", s, "1")
	require.NoError(t, err)
	require.Contains(t, out, "structInnerData: structInnerData_1")
	require.NotContains(t, out, "id: 2")

	out, err = run(t, "get", "--schema", s)
	require.NoError(t, err)
	require.Contains(t, out, "id: 2")

	_, err = run(t, "get", "--schema", s, "missing")
	require.Error(t, err)

	_, err = run(t, "put", "--schema", s, "--rows", rows, "--key", "nope")
	require.Error(t, err)
}

func TestPutWritesMetricsFile(t *testing.T) {
	mr := miniredis.RunT(t)
	t.Setenv("NOVARECORD_REDIS_ADDR", mr.Addr())

	dir := t.TempDir()
	s := writeFile(t, dir, "schema.yaml", testSchema)
	rows := writeFile(t, dir, "rows.yaml", testRows)
	metrics := filepath.Join(dir, "novarecord.prom")

	_, err := run(t, "put", "--schema", s, "--rows", rows, "--metrics-file", metrics)
	require.NoError(t, err)
	text, err := os.ReadFile(metrics)
	require.NoError(t, err)
	require.Contains(t, string(text), `novarecord_codec_records_total{op="encode"} 2`)

	_, err = run(t, "get", "--schema", s, "--metrics-file", metrics, "1")
	require.NoError(t, err)
	text, err = os.ReadFile(metrics)
	require.NoError(t, err)
	require.Contains(t, string(text), `novarecord_codec_records_total{op="decode"} 1`)
	require.NotContains(t, string(text), `op="encode"`)
}
