package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/soypat/fusion"
)

type coil struct {
	Inner float64 `yaml:"inner" toml:"inner" json:"inner" validate:"gt=0"`
	Outer float64 `yaml:"outer" toml:"outer" json:"outer" validate:"gtfield=Inner"`
	Count int     `yaml:"count" toml:"count" json:"count" validate:"gte=1"`
}

func TestLoadFormats(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"c.yaml": "inner: 10\nouter: 20\ncount: 4\n",
		"c.yml":  "inner: 10\nouter: 20\ncount: 4\n",
		"c.toml": "inner = 10.0\nouter = 20.0\ncount = 4\n",
		"c.json": `{"inner": 10, "outer": 20, "count": 4}`,
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		var got coil
		if err := Load(path, &got); err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		if got != (coil{Inner: 10, Outer: 20, Count: 4}) {
			t.Errorf("%s: got %+v", name, got)
		}
	}
}

func TestDecodeRejects(t *testing.T) {
	for _, test := range []struct {
		name    string
		format  Format
		content string
		want    string
	}{
		{"unknown yaml field", YAML, "inner: 10\nouter: 20\ncount: 4\nheight: 3\n", "height"},
		{"unknown toml field", TOML, "inner = 10.0\nouter = 20.0\ncount = 4\nheight = 3.0\n", "height (line 4)"},
		{"unknown toml table", TOML, "inner = 10.0\nouter = 20.0\ncount = 4\n[coil]\nwidth = 2.0\n", "coil"},
		{"unknown json field", JSON, `{"inner": 10, "outer": 20, "count": 4, "height": 3}`, "height"},
		{"empty yaml", YAML, "", "empty"},
		{"outer below inner", YAML, "inner: 10\nouter: 5\ncount: 4\n", "outer"},
		{"zero count", TOML, "inner = 10.0\nouter = 20.0\ncount = 0\n", "count"},
		{"bad type", YAML, "inner: ten\nouter: 20\ncount: 4\n", "yaml"},
	} {
		var got coil
		err := Decode(strings.NewReader(test.content), test.format, &got)
		if !errors.Is(err, fusion.ErrConfig) {
			t.Errorf("%s: want ErrConfig, got %v", test.name, err)
			continue
		}
		if !strings.Contains(err.Error(), test.want) {
			t.Errorf("%s: error %q does not mention %q", test.name, err, test.want)
		}
	}
}

func TestValidateListsFields(t *testing.T) {
	err := Validate(coil{Inner: -1, Outer: -2, Count: 0})
	if !errors.Is(err, fusion.ErrConfig) {
		t.Fatalf("want ErrConfig, got %v", err)
	}
	for _, field := range []string{"inner", "count"} {
		if !strings.Contains(err.Error(), field) {
			t.Errorf("error %q does not mention %s", err, field)
		}
	}
	if err := Validate(&coil{Inner: 1, Outer: 2, Count: 1}); err != nil {
		t.Error(err)
	}
}

func TestFormatOf(t *testing.T) {
	if _, err := FormatOf("reactor.ini"); !errors.Is(err, fusion.ErrUnsupported) {
		t.Errorf("want ErrUnsupported, got %v", err)
	}
	if f, err := FormatOf("REACTOR.YML"); err != nil || f != YAML {
		t.Errorf("got %v, %v", f, err)
	}
}

func TestEncodeDecode(t *testing.T) {
	want := coil{Inner: 1.5, Outer: 3, Count: 2}
	for _, f := range []Format{YAML, TOML, JSON} {
		var buf bytes.Buffer
		if err := Encode(&buf, f, want); err != nil {
			t.Fatalf("%v: %v", f, err)
		}
		var got coil
		if err := Decode(&buf, f, &got); err != nil {
			t.Fatalf("%v: %v\n%s", f, err, buf.String())
		}
		if got != want {
			t.Errorf("%v: got %+v", f, got)
		}
	}
}
