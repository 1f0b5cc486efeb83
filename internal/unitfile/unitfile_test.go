package unitfile

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"jvmlower/internal/ir"
	"jvmlower/internal/testkit"
	"jvmlower/internal/types"
)

func loadSample(t *testing.T) *Loaded {
	t.Helper()
	u, _, err := Read(filepath.Join("testdata", "shapes.unit.toml"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	loaded, err := Build(u)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if err := testkit.CheckModule(loaded.Module); err != nil {
		t.Fatalf("invariants: %v", err)
	}
	return loaded
}

func findClass(t *testing.T, root ir.Declaration, name string) *ir.Class {
	t.Helper()
	var found *ir.Class
	ir.WalkDeclarations(root, func(d ir.Declaration) bool {
		if c, ok := d.(*ir.Class); ok && c.Name == name && found == nil {
			found = c
		}
		return true
	})
	if found == nil {
		t.Fatalf("class %s not found", name)
	}
	return found
}

func TestBuildSample(t *testing.T) {
	loaded := loadSample(t)
	m := loaded.Module
	if m.Name != "shapes" || len(m.Files) != 2 {
		t.Fatalf("module = %s with %d files", m.Name, len(m.Files))
	}
	if len(loaded.Companions) != 1 || loaded.Companions[0] != "app.Money" {
		t.Fatalf("companions = %v", loaded.Companions)
	}
	main := m.Files[0]

	color := findClass(t, main, "Color")
	entries := color.EnumEntries()
	if len(entries) != 2 {
		t.Fatalf("entries = %d", len(entries))
	}
	red := entries[0]
	if red.Initializer == nil || red.Initializer.Type != color.DefaultType(loaded.Types) {
		t.Fatalf("RED initializer = %+v", red.Initializer)
	}
	if red.Span.Start != 30 || red.Span.End != 43 {
		t.Fatalf("RED span = %s", red.Span)
	}
	if !entries[1].Span.IsUndefined() {
		t.Fatalf("GREEN span = %s", entries[1].Span)
	}

	inner := findClass(t, main, "Inner")
	if !inner.IsInner {
		t.Fatal("Inner should be inner")
	}
	ctor := inner.Constructors()[0]
	if len(ctor.Params) != 2 || ctor.Params[0].Default == nil || !ctor.Params[1].IsVararg() {
		t.Fatalf("Inner ctor params = %s", ir.DumpString(ctor, loaded.Types))
	}
	if got := types.Label(loaded.Types, ctor.Params[1].Type); got != "Array<String>" {
		t.Fatalf("vararg type = %s", got)
	}
	if len(ctor.Body) != 1 || ctor.Body[0].Kind != ir.ExprCall {
		t.Fatalf("Inner body = %v", ctor.Body)
	}

	host := findClass(t, main, "Host")
	companion := findClass(t, host, "Companion")
	if !companion.IsCompanion || !companion.IsObject() {
		t.Fatal("Companion should be a companion object")
	}
	if len(companion.Constructors()) != 1 {
		t.Fatal("objects get an implicit constructor")
	}

	box := findClass(t, main, "Box")
	for _, d := range box.Declarations {
		if p, ok := d.(*ir.Property); ok {
			if got := types.Label(loaded.Types, p.Type); got != "T?" {
				t.Fatalf("Box.value type = %s", got)
			}
		}
	}

	if m.Files[1].JvmName != "Strings" {
		t.Fatalf("jvm name = %q", m.Files[1].JvmName)
	}
}

func TestMsgpackRoundTripBuildsSameTree(t *testing.T) {
	u, _, err := Read(filepath.Join("testdata", "shapes.unit.toml"))
	if err != nil {
		t.Fatal(err)
	}
	data, err := EncodeMsgpack(u)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "shapes"+ExtMsgpack)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
	back, _, err := Read(path)
	if err != nil {
		t.Fatal(err)
	}
	a, err := Build(u)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Build(back)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a.Module.Files {
		want := ir.DumpString(a.Module.Files[i], a.Types)
		got := ir.DumpString(b.Module.Files[i], b.Types)
		if got != want {
			t.Fatalf("file %d differs\n got:\n%s\nwant:\n%s", i, got, want)
		}
	}
}

func TestIdentifiersAreNFC(t *testing.T) {
	// The class name is spelled with a combining acute accent.
	src := "module = \"m\"\n[[files]]\npath = \"a.kt\"\n[[files.classes]]\nname = \"Cafe\u0301\"\n" +
		"[[files.functions]]\nname = \"f\"\nreturns = \"Caf\u00e9\"\n"
	u, err := DecodeTOML([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	if u.Files[0].Classes[0].Name != "Caf\u00e9" {
		t.Fatalf("name not normalized: %q", u.Files[0].Classes[0].Name)
	}
	if _, err := Build(u); err != nil {
		t.Fatalf("precomposed reference should resolve: %v", err)
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{
			name: "unknown type",
			src:  "module = \"m\"\n[[files]]\npath = \"a.kt\"\n[[files.properties]]\nname = \"p\"\ntype = \"Missing\"\n",
			want: ErrUnknownType,
		},
		{
			name: "duplicate class",
			src:  "module = \"m\"\n[[files]]\npath = \"a.kt\"\npackage = \"p\"\n[[files.classes]]\nname = \"A\"\n[[files]]\npath = \"b.kt\"\npackage = \"p\"\n[[files.classes]]\nname = \"A\"\n",
			want: ErrDuplicateClass,
		},
		{
			name: "unknown enum entry",
			src:  "module = \"m\"\n[[files]]\npath = \"a.kt\"\n[[files.classes]]\nname = \"E\"\nkind = \"enum\"\n[[files.functions]]\nname = \"f\"\nbody = [{ kind = \"enum\", ref = \"E.X\" }]\n",
			want: ErrUnresolved,
		},
		{
			name: "entries outside enum",
			src:  "module = \"m\"\n[[files]]\npath = \"a.kt\"\n[[files.classes]]\nname = \"C\"\n[[files.classes.entries]]\nname = \"X\"\n",
			want: ErrInvalid,
		},
		{
			name: "this at top level",
			src:  "module = \"m\"\n[[files]]\npath = \"a.kt\"\n[[files.functions]]\nname = \"f\"\nbody = [{ kind = \"this\" }]\n",
			want: ErrInvalid,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := DecodeTOML([]byte(tt.src))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			_, err = Build(u)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDecodeRejects(t *testing.T) {
	if _, err := Decode("x.json", nil); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("err = %v", err)
	}
	if _, err := Decode("x.unit.toml", []byte("[[files]]\npath = \"a.kt\"\n")); !errors.Is(err, ErrMissingModule) {
		t.Fatalf("err = %v", err)
	}
	_, err := Decode("x.unit.toml", []byte("module = "))
	if err == nil || !strings.Contains(err.Error(), "x.unit.toml") {
		t.Fatalf("parse error should name the file: %v", err)
	}
	if !IsUnitFile("a/b.unit.mp") || IsUnitFile("a/b.toml") {
		t.Fatal("IsUnitFile")
	}
}
