// # internal/output/writer.go
package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/hanmindev/blastfurnace-workspaces/internal/errors"
	"github.com/hanmindev/blastfurnace-workspaces/internal/mcf"
)

// Writer lays compiled functions out as a datapack directory:
// <dir>/pack.mcmeta and <dir>/data/<ns>/function/<module...>/<fn>.mcfunction.
type Writer struct {
	dir         string
	namespace   string
	description string
	format      int
}

func NewWriter(dir, namespace, description string, format int) *Writer {
	return &Writer{dir: dir, namespace: namespace, description: description, format: format}
}

type packMeta struct {
	Pack packMetaInner `json:"pack"`
}

type packMetaInner struct {
	PackFormat  int    `json:"pack_format"`
	Description string `json:"description"`
}

// WritePackMeta writes pack.mcmeta at the datapack root.
func (w *Writer) WritePackMeta() error {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return errors.Wrap(err, errors.CodeIOError, "cannot create output directory")
	}

	meta := packMeta{Pack: packMetaInner{PackFormat: w.format, Description: w.description}}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.CodeIOError, "cannot encode pack.mcmeta")
	}

	path := filepath.Join(w.dir, "pack.mcmeta")
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return errors.Wrap(err, errors.CodeIOError, "cannot write pack.mcmeta")
	}
	return nil
}

// WriteFile writes every function of a compiled file and returns the paths
// it created.
func (w *Writer) WriteFile(file *mcf.File) ([]string, error) {
	segments := file.Path.Segments()
	for i, seg := range segments {
		segments[i] = strings.ToLower(seg)
	}

	dir := filepath.Join(w.dir, "data", w.namespace, "function", filepath.Join(segments...))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(err, errors.CodeIOError, "cannot create function directory")
	}

	var written []string
	for _, function := range file.Functions {
		path := filepath.Join(dir, function.Name+".mcfunction")
		body := strings.Join(flatten(function.Block), "\n") + "\n"
		if err := os.WriteFile(path, []byte(body), 0644); err != nil {
			return nil, errors.Wrap(err, errors.CodeIOError, "cannot write mcfunction").
				WithContext(errors.CtxFunction, function.Name)
		}
		written = append(written, path)
	}
	return written, nil
}

// flatten renders instructions as mcfunction lines. Nested blocks have no
// file-level syntax, so their instructions are spliced in order.
func flatten(block mcf.Block) []string {
	var lines []string
	for _, instruction := range block.Instructions {
		if sub, ok := instruction.Kind.(mcf.SubBlock); ok {
			lines = append(lines, flatten(sub.Block)...)
			continue
		}
		lines = append(lines, strings.TrimRight(instruction.String(), " "))
	}
	return lines
}
