package symbols

import (
	"strings"
	"testing"

	"jvmlower/internal/source"
)

func TestDeclareAndFQName(t *testing.T) {
	tbl := NewTable(0, nil)
	pkg := tbl.Declare("com.example", Symbol{Kind: SymbolPackage})
	outer := tbl.Declare("Outer", Symbol{Kind: SymbolClass, Owner: pkg})
	inner := tbl.Declare("Inner", Symbol{Kind: SymbolClass, Owner: outer})

	if got := tbl.FQName(inner); got != "com.example.Outer.Inner" {
		t.Errorf("FQName = %q", got)
	}
	if got := tbl.Name(inner); got != "Inner" {
		t.Errorf("Name = %q", got)
	}
	if tbl.Symbols.Len() != 3 {
		t.Errorf("Len = %d, want 3", tbl.Symbols.Len())
	}
}

func TestGetInvalidID(t *testing.T) {
	tbl := NewTable(4, source.NewInterner())
	if tbl.Get(NoSymbolID) != nil {
		t.Error("NoSymbolID must resolve to nil")
	}
	if tbl.Get(17) != nil {
		t.Error("out of range id must resolve to nil")
	}
	if tbl.Name(17) != "" {
		t.Error("Name of unknown id must be empty")
	}
}

func TestAccessFlagsStrings(t *testing.T) {
	f := AccPublic | AccStatic | AccFinal | AccSynthetic
	if got := f.String(); got != "public static final synthetic" {
		t.Errorf("String() = %q", got)
	}
	if !f.IsSynthetic() || f.IsEnum() {
		t.Errorf("flag predicates wrong for %v", f)
	}
	if AccessFlags(0).Strings() != nil {
		t.Error("empty flags must have no labels")
	}
}

func TestDumpSymbols(t *testing.T) {
	tbl := NewTable(0, nil)
	cls := tbl.Declare("Box", Symbol{Kind: SymbolClass})
	tbl.Declare("INSTANCE", Symbol{Kind: SymbolField, Owner: cls, Flags: AccStatic | AccFinal, Synthesized: true})

	var all strings.Builder
	if err := tbl.Dump(&all, false); err != nil {
		t.Fatal(err)
	}
	want := "   1 class           Box\n" +
		"   2 field           Box.INSTANCE [static final] synthetic\n"
	if all.String() != want {
		t.Errorf("Dump =\n%s\nwant\n%s", all.String(), want)
	}

	var synth strings.Builder
	if err := tbl.Dump(&synth, true); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(synth.String(), "class") || !strings.Contains(synth.String(), "INSTANCE") {
		t.Errorf("synthetic-only dump = %q", synth.String())
	}

	n := 0
	for id := range tbl.Symbols.All() {
		n++
		if id == NoSymbolID {
			t.Error("All yielded the sentinel")
		}
	}
	if n != tbl.Symbols.Len() {
		t.Errorf("All yielded %d symbols, Len = %d", n, tbl.Symbols.Len())
	}
}
