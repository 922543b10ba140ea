package envfile

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestSubstitute(t *testing.T) {
	vars := map[string]string{
		"API_PORT": "8443",
		"EMPTY":    "",
	}

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"plain", "port=${API_PORT}", "port=8443", false},
		{"unset plain", "x${MISSING}y", "xy", false},
		{"colon default on empty", "${EMPTY:-fallback}", "fallback", false},
		{"dash default keeps empty", "${EMPTY-fallback}", "", false},
		{"dash default on unset", "${MISSING-fallback}", "fallback", false},
		{"default with url", "${DB_URL:-postgres://db:5432/app}", "postgres://db:5432/app", false},
		{"required set", "${API_PORT:?port required}", "8443", false},
		{"required empty", "${EMPTY:?must not be empty}", "", true},
		{"required unset", "${MISSING?must be set}", "", true},
		{"no variables", "nothing to do", "nothing to do", false},
		{"multiple", "${API_PORT}/${MISSING:-api}", "8443/api", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Substitute(tt.input, MapLookup(vars))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Substitute(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("Substitute(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	input := `# database
DB_NAME=postgres
export USERNAME=nixopus

PASSWORD="with space \"quoted\""
SINGLE='literal $value'
EMPTY=
`
	got, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	want := map[string]string{
		"DB_NAME":  "postgres",
		"USERNAME": "nixopus",
		"PASSWORD": `with space "quoted"`,
		"SINGLE":   "literal $value",
		"EMPTY":    "",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Parse() = %v, want %v", got, want)
	}
}

func TestParseInlineComments(t *testing.T) {
	input := "API_PORT=8443 # host port of the api\nHASH=abc#def\nQUOTED=\"x # y\" # trailing\n"

	got, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	want := map[string]string{
		"API_PORT": "8443",
		"HASH":     "abc#def",
		"QUOTED":   "x # y",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Parse() = %v, want %v", got, want)
	}
}

func TestRender(t *testing.T) {
	input := `# ${NOT_SUBSTITUTED:?ignored in comments}
API_PORT=${API_PORT:-9000} # host port
API_URL=https://${API_DOMAIN}/api
`
	lookup := MapLookup(map[string]string{"API_DOMAIN": "api.example.com"})

	got, err := Render(strings.NewReader(input), lookup)
	if err != nil {
		t.Fatalf("Render() failed: %v", err)
	}

	want := map[string]string{
		"API_PORT": "9000",
		"API_URL":  "https://api.example.com/api",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Render() = %v, want %v", got, want)
	}

	_, err = Render(strings.NewReader("A=1\nSMTP=${SMTP:?required}\n"), lookup)
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("Render() error = %v, want error on line 2", err)
	}
}

func TestRenderFileMissing(t *testing.T) {
	_, err := RenderFile(filepath.Join(t.TempDir(), ".env.sample"), MapLookup(nil))
	if !os.IsNotExist(err) {
		t.Errorf("RenderFile() error = %v, want not-exist", err)
	}
}

func TestEncodeSortedAndQuoted(t *testing.T) {
	got, err := Encode(map[string]string{
		"ZETA":     "plain",
		"ALPHA":    "value with spaces",
		"API_PORT": "8443",
	})
	if err != nil {
		t.Fatalf("Encode() failed: %v", err)
	}

	want := "ALPHA=\"value with spaces\"\nAPI_PORT=8443\nZETA=\"plain\"\n"
	if got != want {
		t.Errorf("Encode() = %q, want %q", got, want)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "source", ".env")
	vars := map[string]string{
		"API_PORT": "8443",
		"PASSWORD": `p@ss "word" \ #1`,
	}

	if err := Save(path, vars); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() failed: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("file mode = %o, want 600", perm)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if !reflect.DeepEqual(loaded, vars) {
		t.Errorf("Load() = %v, want %v", loaded, vars)
	}
}
