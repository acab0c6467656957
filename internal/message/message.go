package message

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"slices"
	"unicode/utf8"
)

// A file the receiving instance should open.
type File struct {
	Value string // Absolute or launcher-resolved path.
}

// A named launcher argument, such as a goto-line flag.
type Arg struct {
	Name  string // Argument name. Never empty.
	Value string // Argument value. May be empty.
}

// The request a launcher hands to a running instance.
//
// Both lists may be empty. Order is preserved end to end.
type Command struct {
	Files []File
	Args  []Arg
}

// Returns the value of the first argument with the given name.
func (c Command) Arg(name string) (string, bool) {
	for _, a := range c.Args {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Returns the file paths in order.
func (c Command) Paths() []string {
	paths := make([]string, 0, len(c.Files))
	for _, f := range c.Files {
		paths = append(paths, f.Value)
	}
	return paths
}

// Whether the command carries neither files nor arguments.
func (c Command) Empty() bool {
	return len(c.Files) == 0 && len(c.Args) == 0
}

// Whether two commands carry the same files and arguments in the same order.
//
// Nil and empty lists compare equal.
func (c Command) Equal(o Command) bool {
	return slices.Equal(c.Files, o.Files) && slices.Equal(c.Args, o.Args)
}

// Checks the invariants required for serialisation.
//
// Every value must be valid UTF-8 made only of XML characters, otherwise it
// would not survive the trip through the wire format unchanged.
func (c Command) Validate() error {
	for i, f := range c.Files {
		if f.Value == "" {
			return fmt.Errorf("%w: file %d has an empty value", ErrInvalidCommand, i)
		}
		if !isXMLText(f.Value) {
			return fmt.Errorf("%w: file %d has a value that is not XML text", ErrInvalidCommand, i)
		}
	}
	for i, a := range c.Args {
		if a.Name == "" {
			return fmt.Errorf("%w: arg %d has an empty name", ErrInvalidCommand, i)
		}
		if !isXMLText(a.Name) || !isXMLText(a.Value) {
			return fmt.Errorf("%w: arg %d is not XML text", ErrInvalidCommand, i)
		}
	}
	return nil
}

// Whether s is valid UTF-8 and every rune is in the XML Char production.
func isXMLText(s string) bool {
	if !utf8.ValidString(s) {
		return false
	}
	for _, r := range s {
		if !isXMLChar(r) {
			return false
		}
	}
	return true
}

func isXMLChar(r rune) bool {
	switch {
	case r == 0x09 || r == 0x0A || r == 0x0D:
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= 0x10FFFF:
		return true
	}
	return false
}

// XML shape of a command. Attributes are pointers so that a missing
// attribute can be told apart from an empty one.
type wireCommand struct {
	XMLName  xml.Name     `xml:"edipc"`
	FileList wireFileList `xml:"filelist"`
	ArgList  wireArgList  `xml:"arglist"`
}

type wireFileList struct {
	Files []wireFile `xml:"file"`
}

type wireFile struct {
	Value *string `xml:"value,attr"`
}

type wireArgList struct {
	Args []wireArg `xml:"arg"`
}

type wireArg struct {
	Name  *string `xml:"name,attr"`
	Value *string `xml:"value,attr"`
}

// Serialises a command to UTF-8 XML.
//
// The root element is always edipc with exactly one filelist and one arglist
// child, even when the lists are empty. Attribute order is fixed.
func Marshal(c Command) ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var w wireCommand
	for _, f := range c.Files {
		w.FileList.Files = append(w.FileList.Files, wireFile{Value: &f.Value})
	}
	for _, a := range c.Args {
		w.ArgList.Args = append(w.ArgList.Args, wireArg{Name: &a.Name, Value: &a.Value})
	}

	body, err := xml.Marshal(&w)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCommand, err)
	}

	var buf bytes.Buffer
	buf.Grow(len(xml.Header) + len(body))
	buf.WriteString(xml.Header)
	buf.Write(body)
	return buf.Bytes(), nil
}

// Parses a command from UTF-8 XML.
//
// Fails with [ErrMalformedPayload] if the input is not well-formed, the root
// element is not edipc, or an arg element is missing its name or value
// attribute. File elements without a value are skipped. Unknown elements and
// attributes are ignored.
func Parse(data []byte) (Command, error) {
	var w wireCommand
	if err := xml.Unmarshal(data, &w); err != nil {
		return Command{}, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}

	var c Command
	for _, f := range w.FileList.Files {
		if f.Value == nil {
			continue
		}
		c.Files = append(c.Files, File{Value: *f.Value})
	}
	for i, a := range w.ArgList.Args {
		if a.Name == nil || a.Value == nil {
			return Command{}, fmt.Errorf("%w: arg %d is missing a required attribute", ErrMalformedPayload, i)
		}
		if *a.Name == "" {
			return Command{}, fmt.Errorf("%w: arg %d has an empty name", ErrMalformedPayload, i)
		}
		c.Args = append(c.Args, Arg{Name: *a.Name, Value: *a.Value})
	}

	return c, nil
}
