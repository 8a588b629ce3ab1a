package orm

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/biyonik/conduit-go/pkg/database"
	"github.com/biyonik/conduit-go/pkg/schema"
	conduittest "github.com/biyonik/conduit-go/pkg/testing"
)

var parentNames = []string{
	"Albert",
	"Derek",
	"Dingleberry",
	"James",
	"Joe",
	"Sally",
	"Samantha",
	"Samuel",
	"Suzy",
	"Zoolander",
}

// familyRegistry registers parents with children, pets, one partner each and
// friendships between parents through two foreign key columns.
func familyRegistry(t testing.TB) *schema.Registry {
	t.Helper()
	reg := schema.NewRegistry()

	id := schema.Column{Name: "id", Type: database.TypeSerial}
	createdAt := schema.Column{Name: "created_at", Type: database.TypeDateTime, Nullable: true}
	parentID := schema.Column{Name: "parent_id", Type: database.TypeInt, Nullable: true}

	define := func(entityType, table string, columns ...schema.Column) {
		_, err := reg.DefineSchema(entityType, table, columns)
		require.NoError(t, err)
	}
	define("Parent", "parents",
		id,
		schema.Column{Name: "name", Type: database.TypeString, Length: 40},
		createdAt,
	)
	define("Friendship", "friendships",
		id,
		schema.Column{Name: "from_parent_id", Type: database.TypeInt, Nullable: true},
		schema.Column{Name: "to_parent_id", Type: database.TypeInt, Nullable: true},
		createdAt,
	)
	define("Child", "children",
		id,
		parentID,
		schema.Column{Name: "name", Type: database.TypeString, Length: 20},
		schema.Column{Name: "age", Type: database.TypeInt, Nullable: true},
		createdAt,
	)
	define("Partner", "partners",
		id,
		parentID,
		schema.Column{Name: "name", Type: database.TypeString},
		schema.Column{Name: "job", Type: database.TypeString, Nullable: true},
		createdAt,
	)
	define("Pet", "pets",
		id,
		parentID,
		schema.Column{Name: "name", Type: database.TypeString},
		schema.Column{Name: "animal", Type: database.TypeString, Nullable: true},
		createdAt,
	)

	require.NoError(t, reg.JoinsTo("Friendship", "Parent", schema.JoinOptions{
		Via:      []string{"from_parent_id", "to_parent_id"},
		Multiple: true,
	}))
	require.NoError(t, reg.JoinsTo("Child", "Parent", schema.JoinOptions{Multiple: true}))
	require.NoError(t, reg.JoinsTo("Partner", "Parent", schema.JoinOptions{}))
	require.NoError(t, reg.JoinsTo("Pet", "Parent", schema.JoinOptions{Multiple: true}))
	return reg
}

// openFamily returns a store over a fresh SQLite database with empty tables.
func openFamily(t *testing.T, opts ...Option) *Store {
	t.Helper()
	reg := familyRegistry(t)
	db := conduittest.OpenSQLite(t)
	conduittest.RefreshDatabase(t, db, reg)
	return NewStore(db, reg, opts...)
}

func mustNew(t testing.TB, s *Store, entityType string, fields Fields) *Model {
	t.Helper()
	m, err := s.New(entityType, fields)
	require.NoError(t, err)
	return m
}

func mustArray(t testing.TB, s *Store, entityType string, models ...*Model) *ModelArray {
	t.Helper()
	arr, err := s.NewArray(entityType, models...)
	require.NoError(t, err)
	return arr
}

// seedFamily saves 10 parents. Parent i (0-based) gets children ChildA..ChildJ,
// three pets, partner "Partner<i>" and friendships to parents 1..i.
// Children are saved parent by parent, so parent n owns child ids 10n-9..10n.
func seedFamily(t *testing.T, s *Store) {
	t.Helper()
	ctx := context.Background()

	childFactory := conduittest.NewFactory(map[string]any{"age": 7})
	jobs := []string{"Plumber", "Engineer", "Nurse"}
	animals := []string{"Cat", "Dog", "Cat"}

	parents := mustArray(t, s, "Parent")
	for i, name := range parentNames {
		p := mustNew(t, s, "Parent", Fields{"name": name})

		children := mustArray(t, s, "Child")
		for j, letter := range "ABCDEFGHIJ" {
			fields := childFactory.Make(map[string]any{
				"name": "Child" + string(letter),
				"age":  (i*7 + j*3) % 30,
			})
			require.NoError(t, children.Push(mustNew(t, s, "Child", Fields(fields))))
		}
		require.NoError(t, p.Set("children", children))

		pets := mustArray(t, s, "Pet")
		for j, petName := range []string{"Oliver", "Ruby", "Pascal"} {
			require.NoError(t, pets.Push(mustNew(t, s, "Pet", Fields{"name": petName, "animal": animals[j]})))
		}
		require.NoError(t, p.Set("pets", pets))

		partner := mustNew(t, s, "Partner", Fields{"name": fmt.Sprintf("Partner%d", i), "job": jobs[i%3]})
		require.NoError(t, p.Set("partner", partner))

		if i > 0 {
			friendships := mustArray(t, s, "Friendship")
			for k := i; k > 0; k-- {
				require.NoError(t, friendships.Push(mustNew(t, s, "Friendship", Fields{"to_parent_id": k})))
			}
			require.NoError(t, p.Set("friendships", friendships))
		}

		require.NoError(t, parents.Push(p))
	}

	require.NoError(t, parents.SaveAll(ctx))

	for _, p := range parents.Items() {
		require.NoError(t, p.Many("children").SaveAll(ctx))
	}
	for _, p := range parents.Items() {
		require.NoError(t, p.Many("pets").SaveAll(ctx))
	}
	for _, p := range parents.Items() {
		require.NoError(t, p.One("partner").Save(ctx))
	}
	for _, p := range parents.Items() {
		if friendships := p.Many("friendships"); friendships != nil {
			require.NoError(t, friendships.SaveAll(ctx))
		}
	}
}
