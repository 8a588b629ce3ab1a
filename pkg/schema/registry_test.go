package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biyonik/conduit-go/pkg/database"
)

func familyRegistry(t *testing.T) *Registry {
	t.Helper()
	reg := NewRegistry()

	_, err := reg.DefineSchema("Parent", "parents", []Column{
		{Name: "id", Type: database.TypeSerial},
		{Name: "name", Type: database.TypeString},
	})
	require.NoError(t, err)
	_, err = reg.DefineSchema("Child", "children", []Column{
		{Name: "id", Type: database.TypeSerial},
		{Name: "parent_id", Type: database.TypeInt},
		{Name: "name", Type: database.TypeString},
	})
	require.NoError(t, err)
	_, err = reg.DefineSchema("Partner", "partners", []Column{
		{Name: "id", Type: database.TypeSerial},
		{Name: "parent_id", Type: database.TypeInt},
	})
	require.NoError(t, err)
	_, err = reg.DefineSchema("Friendship", "friendships", []Column{
		{Name: "id", Type: database.TypeSerial},
		{Name: "from_parent_id", Type: database.TypeInt},
		{Name: "to_parent_id", Type: database.TypeInt},
	})
	require.NoError(t, err)
	return reg
}

func TestDefineSchema_PrimaryKey(t *testing.T) {
	reg := NewRegistry()

	e, err := reg.DefineSchema("Tag", "tags", []Column{
		{Name: "code", Type: database.TypeString, Primary: true},
		{Name: "label", Type: database.TypeString},
	})
	require.NoError(t, err)
	assert.Equal(t, "code", e.PrimaryKey)

	_, err = reg.DefineSchema("Loose", "loose", []Column{{Name: "label", Type: database.TypeString}})
	assert.ErrorIs(t, err, ErrInvalidSchema)

	_, err = reg.DefineSchema("Tag", "tags2", []Column{{Name: "id", Type: database.TypeSerial}})
	assert.ErrorIs(t, err, ErrDuplicateEntity)

	_, err = reg.DefineSchema("Bad", "bad", []Column{{Name: "id", Type: "blob"}})
	assert.ErrorIs(t, err, ErrInvalidSchema)
}

func TestDefineRelationship_Collisions(t *testing.T) {
	reg := familyRegistry(t)

	_, err := reg.DefineRelationship("Child", "name", "Parent", One, JoinSpec{
		Kind:  OneToOne,
		Pairs: []ColumnPair{{Local: "parent_id", Remote: "id"}},
	})
	require.Error(t, err)
	assert.True(t, IsDuplicateRelationship(err))

	var dup *DuplicateRelationshipError
	require.True(t, errors.As(err, &dup))
	assert.True(t, dup.Column)

	_, err = reg.DefineRelationship("Child", "mother", "Parent", One, JoinSpec{
		Kind:  OneToOne,
		Pairs: []ColumnPair{{Local: "parent_id", Remote: "id"}},
	})
	require.NoError(t, err)

	_, err = reg.DefineRelationship("Child", "mother", "Parent", One, JoinSpec{
		Kind:  OneToOne,
		Pairs: []ColumnPair{{Local: "parent_id", Remote: "id"}},
	})
	assert.ErrorIs(t, err, ErrDuplicateRelationship)

	_, err = reg.DefineRelationship("Child", "ghost", "Ghost", One, JoinSpec{Kind: OneToOne})
	assert.ErrorIs(t, err, ErrUnknownEntity)

	_, err = reg.DefineRelationship("Child", "guardian", "Parent", One, JoinSpec{
		Kind:  OneToOne,
		Pairs: []ColumnPair{{Local: "guardian_id", Remote: "id"}},
	})
	assert.ErrorIs(t, err, ErrInvalidRelationship)
}

func TestJoinsTo_DefaultNames(t *testing.T) {
	reg := familyRegistry(t)

	require.NoError(t, reg.JoinsTo("Child", "Parent", JoinOptions{Multiple: true}))
	require.NoError(t, reg.JoinsTo("Partner", "Parent", JoinOptions{}))

	parentRel, err := reg.RelationshipOf("Child", "parent")
	require.NoError(t, err)
	assert.Equal(t, OneToOne, parentRel.Kind)
	assert.Equal(t, One, parentRel.Cardinality)
	assert.Equal(t, []ColumnPair{{Local: "parent_id", Remote: "id"}}, parentRel.Pairs)
	assert.True(t, parentRel.ForeignKeyIsLocal())

	children, err := reg.RelationshipOf("Parent", "children")
	require.NoError(t, err)
	assert.Equal(t, OneToMany, children.Kind)
	assert.True(t, children.IsMany())
	assert.False(t, children.ForeignKeyIsLocal())

	partner, err := reg.RelationshipOf("Parent", "partner")
	require.NoError(t, err)
	assert.Equal(t, One, partner.Cardinality)

	_, err = reg.RelationshipOf("Parent", "pets")
	assert.ErrorIs(t, err, ErrUnknownRelationship)
}

func TestJoinsTo_Via(t *testing.T) {
	reg := familyRegistry(t)

	require.NoError(t, reg.JoinsTo("Friendship", "Parent", JoinOptions{
		Via:      []string{"from_parent_id", "to_parent_id"},
		Multiple: true,
	}))

	parents, err := reg.RelationshipOf("Friendship", "parents")
	require.NoError(t, err)
	assert.Equal(t, ManyViaJunctionColumns, parents.Kind)
	assert.True(t, parents.IsMany())
	side, left, right, ok := parents.GuardColumns()
	require.True(t, ok)
	assert.Equal(t, GuardLocal, side)
	assert.Equal(t, "from_parent_id", left)
	assert.Equal(t, "to_parent_id", right)

	friendships, err := reg.RelationshipOf("Parent", "friendships")
	require.NoError(t, err)
	side, left, right, ok = friendships.GuardColumns()
	require.True(t, ok)
	assert.Equal(t, GuardRemote, side)
	assert.Equal(t, "from_parent_id", left)
	assert.Equal(t, "to_parent_id", right)
}

func TestJoinsTo_RollsBackOnCollision(t *testing.T) {
	reg := familyRegistry(t)

	err := reg.JoinsTo("Child", "Parent", JoinOptions{As: "name"})
	assert.ErrorIs(t, err, ErrDuplicateRelationship)

	_, err = reg.RelationshipOf("Child", "parent")
	assert.ErrorIs(t, err, ErrUnknownRelationship)
}

func TestEntity_Targeting(t *testing.T) {
	reg := familyRegistry(t)
	require.NoError(t, reg.JoinsTo("Child", "Parent", JoinOptions{Multiple: true}))
	require.NoError(t, reg.JoinsTo("Child", "Parent", JoinOptions{Name: "guardian", As: "wards", Multiple: true}))

	child, err := reg.Entity("Child")
	require.NoError(t, err)
	assert.Len(t, child.Targeting("Parent"), 2)
	assert.Len(t, child.Targeting("parents"), 2)

	parent, err := reg.Entity("Parent")
	require.NoError(t, err)
	assert.Len(t, parent.Targeting("Child"), 2)
	assert.Empty(t, parent.Targeting("Partner"))
}
