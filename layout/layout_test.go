package layout

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStruct_AddContiguous(t *testing.T) {
	s := NewStruct("foo")
	require.NoError(t, s.Add(Field{Type: "int", Name: "x", Offset: 0, Size: 4}))
	require.NoError(t, s.Add(Field{Type: "char", Name: "y", Offset: 4, Size: 1}))
	s.AddHole(3)

	assert.Equal(t, KindStruct, s.Kind())
	assert.Equal(t, "foo", s.Name())
	assert.Equal(t, 8, s.Size())
	assert.Equal(t, []Field{
		{Type: "int", Name: "x", Offset: 0, Size: 4},
		{Type: "char", Name: "y", Offset: 4, Size: 1},
		{Type: "", Name: "", Offset: 5, Size: 3},
	}, s.Fields())
	assert.True(t, s.Fields()[2].IsHole())
	assert.NoError(t, s.Validate())
}

func TestStruct_AddOffsetMismatch(t *testing.T) {
	s := NewStruct("foo")
	require.NoError(t, s.Add(Field{Type: "char", Name: "a", Offset: 0, Size: 3}))

	err := s.Add(Field{Type: "int", Name: "b", Offset: 4, Size: 4})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOffsetMismatch))

	var oe *OffsetError
	require.True(t, errors.As(err, &oe))
	assert.Equal(t, "foo", oe.Aggregate)
	assert.Equal(t, "b", oe.Field)
	assert.Equal(t, 4, oe.Offset)
	assert.Equal(t, 3, oe.Expected)
	assert.Equal(t, "layout: offset mismatch at field b of foo: declared 4, expected 3", err.Error())

	assert.Len(t, s.Fields(), 1)
	assert.Equal(t, 3, s.Size())
}

func TestStructOf_Validate(t *testing.T) {
	s := StructOf("bad",
		Field{Type: "int", Name: "a", Offset: 0, Size: 4},
		Field{Type: "int", Name: "b", Offset: 8, Size: 4},
	)
	assert.Equal(t, 8, s.Size())

	err := s.Validate()
	require.ErrorIs(t, err, ErrOffsetMismatch)
	assert.Contains(t, err.Error(), "field b of bad")
}

func TestCheckContiguous_Hole(t *testing.T) {
	err := CheckContiguous("s", []Field{
		{Type: "int", Name: "a", Offset: 0, Size: 4},
		Hole(5, 4),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field <hole> of s")
}

func TestNewClass(t *testing.T) {
	c := NewClass("Widget")
	assert.Equal(t, KindClass, c.Kind())
	assert.Equal(t, "class", c.Kind().String())
}

func TestUnion_SizeIsMax(t *testing.T) {
	u := NewUnion("bar")
	assert.Equal(t, 0, u.Size())

	u.Add(Field{Type: "int", Name: "a", Offset: 0, Size: 4})
	u.Add(Field{Type: "char", Name: "b[8]", Offset: 0, Size: 8})
	u.Add(Field{Type: "short", Name: "c", Offset: 0, Size: 2})

	assert.Equal(t, KindUnion, u.Kind())
	assert.Equal(t, 8, u.Size())
	assert.Len(t, u.Fields(), 3)
}

func TestUnion_AddHole(t *testing.T) {
	u := NewUnion("u")
	u.Add(Field{Type: "int", Name: "a", Size: 4})
	u.AddHole(2)

	last := u.Fields()[1]
	assert.True(t, last.IsHole())
	assert.Equal(t, 4, last.Offset)
	assert.Equal(t, 2, last.Size)
	assert.Equal(t, 4, u.Size())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "struct", KindStruct.String())
	assert.Equal(t, "union", KindUnion.String())
	assert.Equal(t, "unknown", Kind(42).String())
}
