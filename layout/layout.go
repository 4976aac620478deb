package layout

import "fmt"

// MaxBytes bounds the offsets and sizes accepted from input. Larger
// values would produce diagrams with millions of rows.
const MaxBytes = 1 << 24

// Kind identifies the category of an aggregate.
type Kind uint8

const (
	KindStruct Kind = iota
	KindClass
	KindUnion
)

func (k Kind) String() string {
	switch k {
	case KindStruct:
		return "struct"
	case KindClass:
		return "class"
	case KindUnion:
		return "union"
	default:
		return "unknown"
	}
}

// Field describes one member of an aggregate. A field with an empty
// name is a hole: padding reported between or after members.
type Field struct {
	Type   string
	Name   string
	Offset int
	Size   int
}

// Hole returns a padding field of the given size at offset.
func Hole(offset, size int) Field {
	return Field{Offset: offset, Size: size}
}

// IsHole reports whether f is padding rather than a declared member.
func (f Field) IsHole() bool { return f.Name == "" }

func (f Field) String() string {
	if f.IsHole() {
		return fmt.Sprintf("<hole> @%d+%d", f.Offset, f.Size)
	}
	return fmt.Sprintf("%s %s @%d+%d", f.Type, f.Name, f.Offset, f.Size)
}

// Aggregate is a struct or union record being collected or rendered.
type Aggregate interface {
	// Kind returns the aggregate kind.
	Kind() Kind

	// Name returns the name from the header line.
	Name() string

	// Fields returns the members in declaration order.
	Fields() []Field

	// Size returns the derived size in bytes.
	Size() int

	// AddHole appends padding of the given size at the current running size.
	AddHole(size int)
}

// Struct is a struct or class whose members are laid out back to back.
type Struct struct {
	kind   Kind
	name   string
	fields []Field
	size   int
}

// NewStruct returns an empty struct record.
func NewStruct(name string) *Struct {
	return &Struct{kind: KindStruct, name: name}
}

// NewClass returns an empty struct record introduced by a class header.
func NewClass(name string) *Struct {
	return &Struct{kind: KindClass, name: name}
}

// StructOf returns a struct record holding fields as given. Offsets are
// not checked; use Validate or let the renderer reject them.
func StructOf(name string, fields ...Field) *Struct {
	s := &Struct{kind: KindStruct, name: name, fields: fields}
	for _, f := range fields {
		s.size += f.Size
	}
	return s
}

func (s *Struct) Kind() Kind      { return s.kind }
func (s *Struct) Name() string    { return s.name }
func (s *Struct) Fields() []Field { return s.fields }

// Size returns the sum of all field sizes.
func (s *Struct) Size() int { return s.size }

// Add appends f. The field must start exactly where the previous one
// ended, otherwise an *OffsetError is returned and f is not added.
func (s *Struct) Add(f Field) error {
	if f.Offset != s.size {
		return &OffsetError{Aggregate: s.name, Field: f.Name, Offset: f.Offset, Expected: s.size}
	}
	s.fields = append(s.fields, f)
	s.size += f.Size
	return nil
}

func (s *Struct) AddHole(size int) {
	s.fields = append(s.fields, Hole(s.size, size))
	s.size += size
}

// Validate checks that every field starts at the running sum of the
// sizes before it.
func (s *Struct) Validate() error {
	return CheckContiguous(s.name, s.fields)
}

// CheckContiguous returns an *OffsetError for the first field of
// fields whose offset differs from the running sum of sizes.
func CheckContiguous(name string, fields []Field) error {
	off := 0
	for _, f := range fields {
		if f.Offset != off {
			return &OffsetError{Aggregate: name, Field: f.Name, Offset: f.Offset, Expected: off}
		}
		off += f.Size
	}
	return nil
}

// Union is a union whose members all start at offset 0.
type Union struct {
	name   string
	fields []Field
	size   int
}

// NewUnion returns an empty union record.
func NewUnion(name string) *Union {
	return &Union{name: name}
}

func (u *Union) Kind() Kind      { return KindUnion }
func (u *Union) Name() string    { return u.name }
func (u *Union) Fields() []Field { return u.fields }

// Size returns the largest field size, or 0 for an empty union.
func (u *Union) Size() int { return u.size }

// Add appends f. Offsets are not checked.
func (u *Union) Add(f Field) {
	u.fields = append(u.fields, f)
	u.size = max(u.size, f.Size)
}

func (u *Union) AddHole(size int) {
	u.Add(Hole(u.size, size))
}
