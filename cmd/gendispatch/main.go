// Copyright 2025 coclust Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command gendispatch regenerates internal/topology/zz_backends_generated.go
// from the kernel.Backend enum, mirroring the role the teacher's hwygen tool
// plays for its own generated dispatch tables.
package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"golang.org/x/tools/imports"

	"github.com/kjsanger/coclust/kernel"
)

var backendDescriptions = map[kernel.Backend]string{
	kernel.BackendGoroutinePool: "parallelize blocks across a goroutine pool sized to GOMAXPROCS",
	kernel.BackendScalar:        "run every block on the calling goroutine; useful for debugging and tiny inputs",
}

// backendOrder fixes generation order, since map iteration is randomized and
// the generated file should be stable across re-runs.
var backendOrder = []kernel.Backend{kernel.BackendGoroutinePool, kernel.BackendScalar}

const tmplSrc = `// Code generated by cmd/gendispatch. DO NOT EDIT.

package topology

// BackendInfo describes one kernel.Backend value for diagnostic reporting.
type BackendInfo struct {
	Name        string
	Description string
}

// Backends lists every kernel.Backend value gendispatch found registered at
// generation time, in declaration order.
var Backends = []BackendInfo{
{{- range . }}
	{Name: "{{ .Name }}", Description: "{{ .Description }}"},
{{- end }}
}
`

type backendEntry struct {
	Name        string
	Description string
}

func main() {
	if err := generate("internal/topology/zz_backends_generated.go"); err != nil {
		fmt.Fprintln(os.Stderr, "gendispatch:", err)
		os.Exit(1)
	}
}

func generate(outPath string) error {
	entries := make([]backendEntry, 0, len(backendOrder))
	for _, b := range backendOrder {
		entries = append(entries, backendEntry{Name: b.String(), Description: backendDescriptions[b]})
	}

	tmpl, err := template.New("backends").Parse(tmplSrc)
	if err != nil {
		return fmt.Errorf("parse template: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, entries); err != nil {
		return fmt.Errorf("execute template: %w", err)
	}

	formatted, err := imports.Process(outPath, buf.Bytes(), nil)
	if err != nil {
		return fmt.Errorf("goimports: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	return os.WriteFile(outPath, formatted, 0o644)
}
