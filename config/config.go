// Package config reads reactor parameter files and validates parameter
// structs. The decoder is picked by file extension: .yaml and .yml for
// YAML, .toml for TOML and .json for JSON. Fields not present in the
// destination struct are rejected.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/pelletier/go-toml/v2"
	"github.com/soypat/fusion"
	"gopkg.in/yaml.v3"
)

// Format is a parameter file encoding.
type Format int

const (
	YAML Format = iota
	TOML
	JSON
)

func (f Format) String() string {
	switch f {
	case YAML:
		return "yaml"
	case TOML:
		return "toml"
	case JSON:
		return "json"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// FormatOf returns the format of a file by its extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	case ".json":
		return JSON, nil
	}
	return 0, fusion.Errorf(fusion.ErrUnsupported, "%s: unknown parameter file extension", path)
}

// Load decodes the file at path into v, which must be a pointer to a
// struct, and validates the result.
func Load(path string, v interface{}) error {
	f, err := FormatOf(path)
	if err != nil {
		return err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := Decode(bytes.NewReader(b), f, v); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Decode reads parameters in format f from r into v and validates them.
func Decode(r io.Reader, f Format, v interface{}) error {
	var err error
	switch f {
	case YAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		err = dec.Decode(v)
		if errors.Is(err, io.EOF) {
			err = fusion.Errorf(fusion.ErrConfig, "empty yaml document")
		}
	case TOML:
		err = toml.NewDecoder(r).DisallowUnknownFields().Decode(v)
		var missing *toml.StrictMissingError
		if errors.As(err, &missing) {
			err = unknownTOMLFields(missing)
		}
	case JSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		err = dec.Decode(v)
	default:
		return fusion.Errorf(fusion.ErrUnsupported, "decoding %v", f)
	}
	if err != nil {
		if errors.Is(err, fusion.ErrConfig) {
			return err
		}
		return fusion.Errorf(fusion.ErrConfig, "decoding %v: %v", f, err)
	}
	return Validate(v)
}

func unknownTOMLFields(missing *toml.StrictMissingError) error {
	fields := make([]string, len(missing.Errors))
	for i, e := range missing.Errors {
		row, _ := e.Position()
		fields[i] = fmt.Sprintf("%s (line %d)", strings.Join(e.Key(), "."), row)
	}
	return fusion.Errorf(fusion.ErrConfig, "unknown toml fields: %s", strings.Join(fields, ", "))
}

// Encode writes v to w in format f.
func Encode(w io.Writer, f Format, v interface{}) error {
	switch f {
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case TOML:
		return toml.NewEncoder(w).Encode(v)
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	return fusion.Errorf(fusion.ErrUnsupported, "encoding %v", f)
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		// Report fields by the name they carry in parameter files.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// Validate checks v against its validate struct tags. Failures are
// returned as a single ErrConfig error listing every failing field.
func Validate(v interface{}) error {
	err := structValidator().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fusion.Errorf(fusion.ErrConfig, "validating %T: %v", v, err)
	}
	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		msgs[i] = fieldMessage(fe)
	}
	return fusion.Errorf(fusion.ErrConfig, "%s", strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.IndexByte(field, '.'); i >= 0 {
		// Drop the top level struct name.
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "gtfield", "ltfield", "gtefield", "ltefield":
		return fmt.Sprintf("%s=%v must be %s %s", field, fe.Value(), fe.Tag(), fe.Param())
	}
	if fe.Param() != "" {
		return fmt.Sprintf("%s=%v failed %s=%s", field, fe.Value(), fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("%s=%v failed %s", field, fe.Value(), fe.Tag())
}
