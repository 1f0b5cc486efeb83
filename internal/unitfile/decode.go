package unitfile

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/text/unicode/norm"
)

const (
	// ExtTOML is the extension of text units.
	ExtTOML = ".unit.toml"
	// ExtMsgpack is the extension of binary units.
	ExtMsgpack = ".unit.mp"
)

var (
	// ErrUnsupportedFormat is returned for files that are not units.
	ErrUnsupportedFormat = errors.New("unsupported unit format")
	// ErrMissingModule is returned when a unit has no module name.
	ErrMissingModule = errors.New("missing module name")
)

// IsUnitFile reports whether path has a unit extension.
func IsUnitFile(path string) bool {
	return strings.HasSuffix(path, ExtTOML) || strings.HasSuffix(path, ExtMsgpack)
}

// Read loads and decodes the unit at path.
func Read(path string) (*Unit, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	u, err := Decode(path, data)
	if err != nil {
		return nil, nil, err
	}
	return u, data, nil
}

// Decode picks the format from name's extension.
func Decode(name string, data []byte) (*Unit, error) {
	var (
		u   *Unit
		err error
	)
	switch {
	case strings.HasSuffix(name, ExtTOML):
		u, err = DecodeTOML(data)
	case strings.HasSuffix(name, ExtMsgpack):
		u, err = DecodeMsgpack(data)
	default:
		return nil, fmt.Errorf("%s: %w", name, ErrUnsupportedFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return u, nil
}

// DecodeTOML parses a text unit.
func DecodeTOML(data []byte) (*Unit, error) {
	var u Unit
	meta, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&u)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	if !meta.IsDefined("module") || strings.TrimSpace(u.Module) == "" {
		return nil, ErrMissingModule
	}
	normalize(&u)
	return &u, nil
}

// DecodeMsgpack parses a binary unit.
func DecodeMsgpack(data []byte) (*Unit, error) {
	var u Unit
	if err := msgpack.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("failed to decode msgpack: %w", err)
	}
	if strings.TrimSpace(u.Module) == "" {
		return nil, ErrMissingModule
	}
	normalize(&u)
	return &u, nil
}

// EncodeMsgpack serializes u in the binary unit format.
func EncodeMsgpack(u *Unit) ([]byte, error) {
	return msgpack.Marshal(u)
}

// normalize puts every identifier, reference and type name into NFC so that
// names typed with combining marks match their precomposed spelling.
func normalize(u *Unit) {
	u.Module = nfc(u.Module)
	for i := range u.Companions {
		u.Companions[i] = nfc(u.Companions[i])
	}
	for i := range u.Files {
		f := &u.Files[i]
		f.Package = nfc(f.Package)
		f.JvmName = nfc(f.JvmName)
		normalizeClasses(f.Classes)
		normalizeFunctions(f.Functions)
		normalizeProperties(f.Properties)
	}
}

func normalizeClasses(classes []Class) {
	for i := range classes {
		c := &classes[i]
		c.Name = nfc(c.Name)
		for j := range c.TypeParams {
			c.TypeParams[j] = nfc(c.TypeParams[j])
		}
		for j := range c.Constructors {
			normalizeParams(c.Constructors[j].Params)
			normalizeExprs(c.Constructors[j].Body)
		}
		for j := range c.Entries {
			c.Entries[j].Name = nfc(c.Entries[j].Name)
			normalizeExprs(c.Entries[j].Args)
		}
		normalizeClasses(c.Classes)
		normalizeFunctions(c.Functions)
		normalizeProperties(c.Properties)
	}
}

func normalizeFunctions(fns []Function) {
	for i := range fns {
		fns[i].Name = nfc(fns[i].Name)
		fns[i].Returns = nfc(fns[i].Returns)
		normalizeParams(fns[i].Params)
		normalizeExprs(fns[i].Body)
	}
}

func normalizeProperties(props []Property) {
	for i := range props {
		props[i].Name = nfc(props[i].Name)
		props[i].Type = nfc(props[i].Type)
		normalizeExpr(props[i].Init)
	}
}

func normalizeParams(params []Param) {
	for i := range params {
		params[i].Name = nfc(params[i].Name)
		params[i].Type = nfc(params[i].Type)
		normalizeExpr(params[i].Default)
	}
}

func normalizeExprs(list []Expr) {
	for i := range list {
		normalizeExpr(&list[i])
	}
}

func normalizeExpr(e *Expr) {
	if e == nil {
		return
	}
	e.Kind = strings.ToLower(strings.TrimSpace(e.Kind))
	e.Ref = nfc(e.Ref)
	e.Type = nfc(e.Type)
	if e.Kind == "const" && e.Type == "String" {
		e.Value = norm.NFC.String(e.Value)
	}
	normalizeExpr(e.Outer)
	normalizeExpr(e.Result)
	normalizeExprs(e.Args)
}

func nfc(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
