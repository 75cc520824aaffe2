package remap

import (
	"bytes"
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/reglet-dev/reglet-natives/domain/entities"
	"github.com/reglet-dev/reglet-natives/domain/errors"
	"github.com/reglet-dev/reglet-natives/log"
)

// validate is shared by every Parse call.
var validate = validator.New()

// Format selects the document encoding.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return 0, fmt.Errorf("unsupported remap file extension %q", filepath.Ext(path))
	}
}

// loaderConfig holds configuration for Load.
type loaderConfig struct {
	logger *slog.Logger
	strict bool
}

func defaultLoaderConfig() loaderConfig {
	return loaderConfig{
		strict: true,
	}
}

// LoaderOption configures Load.
type LoaderOption func(*loaderConfig)

// WithStrict enables or disables strict mode. In strict mode (the default)
// a stable hash listed twice fails the load; otherwise the first entry is
// kept and the repeat is logged and dropped.
func WithStrict(enabled bool) LoaderOption {
	return func(c *loaderConfig) {
		c.strict = enabled
	}
}

// WithLogger sets the logger used for load diagnostics.
func WithLogger(l *slog.Logger) LoaderOption {
	return func(c *loaderConfig) {
		c.logger = l
	}
}

// Load reads a remap document from r.
// JSON documents are checked against Schema before decoding.
func Load(r io.Reader, format Format, opts ...LoaderOption) (entities.RemapTable, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read remap document: %w", err)
	}
	return Parse(data, format, opts...)
}

// LoadFile reads a remap document from path, choosing the format from the
// file extension.
func LoadFile(path string, opts ...LoaderOption) (entities.RemapTable, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read remap file: %w", err)
	}
	return Parse(data, format, opts...)
}

// Parse decodes and validates a remap document.
func Parse(data []byte, format Format, opts ...LoaderOption) (entities.RemapTable, error) {
	cfg := defaultLoaderConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	logger := log.OrDefault(cfg.logger)

	var doc Document
	switch format {
	case FormatJSON:
		if err := ValidateJSON(data); err != nil {
			return nil, err
		}
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, &errors.ConfigError{Err: fmt.Errorf("failed to decode JSON: %w", err)}
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil && !stdErrors.Is(err, io.EOF) {
			return nil, &errors.ConfigError{Err: fmt.Errorf("failed to decode YAML: %w", err)}
		}
	default:
		return nil, fmt.Errorf("unsupported remap format %s", format)
	}

	if err := validate.Struct(doc); err != nil {
		return nil, structError(err)
	}

	table := entities.RemapTable(doc.Entries)
	dups := table.Duplicates()
	if len(dups) == 0 {
		logger.Debug("loaded remap table", slog.String("version", doc.Version), slog.Int("entries", len(table)))
		return table, nil
	}
	if cfg.strict {
		return nil, &errors.DuplicateRemapError{Stable: dups[0]}
	}

	deduped := dedupe(table)
	logger.Warn("dropped duplicate remap entries",
		slog.String("version", doc.Version),
		slog.Int("dropped", len(table)-len(deduped)),
		log.Hash("first", dups[0]),
	)
	return deduped, nil
}

// Marshal encodes table as a remap document.
func Marshal(table entities.RemapTable, version string, format Format) ([]byte, error) {
	doc := Document{Version: version, Entries: table}
	if doc.Entries == nil {
		doc.Entries = entities.RemapTable{}
	}
	switch format {
	case FormatJSON:
		return json.MarshalIndent(doc, "", "  ")
	case FormatYAML:
		return yaml.Marshal(doc)
	default:
		return nil, fmt.Errorf("unsupported remap format %s", format)
	}
}

// dedupe keeps the first entry for every stable hash.
func dedupe(table entities.RemapTable) entities.RemapTable {
	seen := make(map[entities.NativeHash]struct{}, len(table))
	out := make(entities.RemapTable, 0, len(table))
	for _, e := range table {
		if _, ok := seen[e.Stable]; ok {
			continue
		}
		seen[e.Stable] = struct{}{}
		out = append(out, e)
	}
	return out
}

func structError(err error) error {
	var verrs validator.ValidationErrors
	if stdErrors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &errors.ConfigError{
			Field: fe.Namespace(),
			Err:   fmt.Errorf("failed on '%s' rule", fe.Tag()),
		}
	}
	return &errors.ConfigError{Err: err}
}
