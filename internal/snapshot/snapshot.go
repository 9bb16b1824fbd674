// Package snapshot decodes frozen result sets into database.ResultSet
// cursors, so that the named-column accessors work the same over a
// captured document as over a live query.
//
// A snapshot document has two fields, in YAML:
//
//	columns: [name, age, photo]
//	rows:
//	  - [Ann, 7, !!binary AQIDBA==]
//
// or the same map encoded as MessagePack.
package snapshot

import (
	"context"
	"io"
	"path"
	"strings"

	"github.com/koustreak/cursorkit/internal/database"
	"github.com/koustreak/cursorkit/internal/errs"
	"github.com/koustreak/cursorkit/internal/filestore"
	"github.com/koustreak/cursorkit/internal/logger"
	"github.com/vmihailenco/msgpack/v5"
	"go.yaml.in/yaml/v3"
)

// Format is a snapshot encoding.
type Format int

const (
	FormatYAML Format = iota + 1
	FormatMsgpack
)

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatMsgpack:
		return "msgpack"
	default:
		return "unknown"
	}
}

// Document is the decoded form of a snapshot.
type Document struct {
	Columns []string `yaml:"columns" msgpack:"columns"`
	Rows    [][]any  `yaml:"rows" msgpack:"rows"`
}

// FormatFor picks the format from the key's extension, falling back to the
// object's content type.
func FormatFor(key, contentType string) (Format, error) {
	switch strings.ToLower(path.Ext(key)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".msgpack", ".mpk":
		return FormatMsgpack, nil
	}

	mediaType, _, _ := strings.Cut(contentType, ";")
	switch strings.TrimSpace(strings.ToLower(mediaType)) {
	case "application/yaml", "application/x-yaml", "text/yaml":
		return FormatYAML, nil
	case "application/msgpack", "application/x-msgpack", "application/vnd.msgpack":
		return FormatMsgpack, nil
	}

	return 0, errs.Newf(errs.ErrKindInvalidInput, "cannot tell snapshot format of %q (content type %q)", key, contentType)
}

// Decode reads a snapshot document from r and returns it as a ResultSet
// positioned before the first row.
func Decode(r io.Reader, f Format) (*database.ResultSet, error) {
	doc, err := DecodeDocument(r, f)
	if err != nil {
		return nil, err
	}
	return doc.ResultSet()
}

// DecodeDocument reads and validates a snapshot document.
func DecodeDocument(r io.Reader, f Format) (*Document, error) {
	var doc Document

	switch f {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
			return nil, errs.Wrap(errs.ErrKindInvalidInput, "malformed yaml snapshot", err)
		}
	case FormatMsgpack:
		if err := msgpack.NewDecoder(r).Decode(&doc); err != nil {
			return nil, errs.Wrap(errs.ErrKindInvalidInput, "malformed msgpack snapshot", err)
		}
	default:
		return nil, errs.Newf(errs.ErrKindInvalidInput, "unsupported snapshot format %s", f)
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate checks that every row has one cell per column.
func (d *Document) Validate() error {
	if len(d.Columns) == 0 {
		return errs.New(errs.ErrKindInvalidInput, "snapshot has no columns")
	}
	for i, row := range d.Rows {
		if len(row) != len(d.Columns) {
			return errs.Newf(errs.ErrKindInvalidInput, "snapshot row %d has %d cells, want %d", i, len(row), len(d.Columns))
		}
	}
	return nil
}

// ResultSet returns a cursor over the document's rows.
func (d *Document) ResultSet() (*database.ResultSet, error) {
	return database.NewResultSet(database.StaticRows(d.Columns, d.Rows))
}

// Encode writes the document to w in format f.
func (d *Document) Encode(w io.Writer, f Format) error {
	switch f {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(d.yamlSafe()); err != nil {
			return errs.Wrap(errs.ErrKindQueryFailed, "failed to encode yaml snapshot", err)
		}
		return enc.Close()
	case FormatMsgpack:
		if err := msgpack.NewEncoder(w).Encode(d); err != nil {
			return errs.Wrap(errs.ErrKindQueryFailed, "failed to encode msgpack snapshot", err)
		}
		return nil
	default:
		return errs.Newf(errs.ErrKindInvalidInput, "unsupported snapshot format %s", f)
	}
}

// yamlSafe returns a copy whose []byte cells are strings: the YAML encoder
// writes byte slices as integer sequences, but emits !!binary for strings
// that are not valid UTF-8.
func (d *Document) yamlSafe() *Document {
	out := &Document{Columns: d.Columns, Rows: make([][]any, len(d.Rows))}
	for i, row := range d.Rows {
		cells := make([]any, len(row))
		for j, v := range row {
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			cells[j] = v
		}
		out.Rows[i] = cells
	}
	return out
}

// Load fetches the snapshot stored at bucket/key and decodes it.
func Load(ctx context.Context, store filestore.Store, bucket, key string) (*database.ResultSet, error) {
	obj, err := store.GetObject(ctx, bucket, key)
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	var contentType string
	if info := obj.Info(); info != nil {
		contentType = info.ContentType
	}
	f, err := FormatFor(key, contentType)
	if err != nil {
		return nil, err
	}

	doc, err := DecodeDocument(obj, f)
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).With().
		Str("format", f.String()).
		Str("object", bucket+"/"+key).
		Int("columns", len(doc.Columns)).
		Int("rows", len(doc.Rows)).
		Logger().
		Debug("snapshot loaded")

	return doc.ResultSet()
}

// List returns the keys of snapshot objects under prefix, in store order.
// Directories and objects of unknown format are skipped.
func List(ctx context.Context, store filestore.Store, bucket, prefix string) ([]string, error) {
	objects, err := store.ListObjects(ctx, bucket, filestore.ListOptions{Prefix: prefix, Recursive: true})
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(objects))
	for _, obj := range objects {
		if obj.IsDir {
			continue
		}
		if _, err := FormatFor(obj.Key, obj.ContentType); err != nil {
			continue
		}
		keys = append(keys, obj.Key)
	}
	return keys, nil
}
