package orm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biyonik/conduit-go/pkg/database"
	"github.com/biyonik/conduit-go/pkg/schema"
	conduittest "github.com/biyonik/conduit-go/pkg/testing"
	"github.com/biyonik/conduit-go/pkg/validation"
)

var fixedNow = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

const fixedStamp = "2026-01-02 03:04:05.000000"

type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *recordingLogger) Printf(format string, v ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, fmt.Sprintf(format, v...))
}

func (l *recordingLogger) Println(v ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, strings.TrimSuffix(fmt.Sprintln(v...), "\n"))
}

func (l *recordingLogger) contains(part string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, line := range l.lines {
		if strings.Contains(line, part) {
			return true
		}
	}
	return false
}

func newMockStore(t *testing.T, opts ...Option) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	pool, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	db, err := database.Open("sqlite", pool, database.NopLogger)
	require.NoError(t, err)

	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewStore(db, familyRegistry(t), opts...), mock
}

func countRows(t *testing.T, s *Store, entityType string) int {
	t.Helper()
	arr, err := s.Query(entityType).End(context.Background())
	require.NoError(t, err)
	return arr.Len()
}

func TestComposer_SQLWithExists(t *testing.T) {
	s, _ := newMockStore(t)

	query, args, err := s.Query("Parent").
		Join("children").
		Filter(Where{"children__id__lte": 15}).
		Limit(5).
		SQL()
	require.NoError(t, err)

	expected := `SELECT "parents"."id", "parents"."name", "parents"."created_at", ` +
		`"children"."id", "children"."parent_id", "children"."name", "children"."age", "children"."created_at" ` +
		`FROM (SELECT "parents".* FROM "parents" AS "parents" ` +
		`WHERE EXISTS (SELECT 1 FROM "children" AS "f0_children" WHERE "parents"."id" = "f0_children"."parent_id" AND "f0_children"."id" <= ?) ` +
		`ORDER BY "parents"."id" ASC LIMIT 5) AS "parents" ` +
		`LEFT JOIN "children" AS "children" ON "parents"."id" = "children"."parent_id" ` +
		`ORDER BY "parents"."id" ASC, "children"."id" ASC`
	assert.Equal(t, expected, query)
	assert.Equal(t, []any{int64(15)}, args)
}

func TestComposer_HydratesJoinedRows(t *testing.T) {
	s, mock := newMockStore(t)
	query, _, err := s.Query("Parent").Join("children").SQL()
	require.NoError(t, err)

	columns := []string{"id", "name", "created_at", "id", "parent_id", "name", "age", "created_at"}
	mock.ExpectQuery(query).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(int64(1), "Albert", fixedStamp, int64(1), int64(1), "ChildA", int64(3), fixedStamp).
			AddRow(int64(1), "Albert", fixedStamp, int64(2), int64(1), "ChildB", nil, fixedStamp).
			AddRow(int64(1), "Albert", fixedStamp, int64(2), int64(1), "ChildB", nil, fixedStamp).
			AddRow(int64(2), "Derek", fixedStamp, nil, nil, nil, nil, nil))

	arr, err := s.Query("Parent").Join("children").End(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, arr.Len())

	albert := arr.At(0)
	assert.Equal(t, "Albert", albert.Get("name"))
	assert.Equal(t, fixedNow, albert.Get("created_at"))
	assert.True(t, albert.Persisted())
	assert.False(t, albert.IsDirty())

	children := albert.Many("children")
	require.Equal(t, 2, children.Len())
	assert.Equal(t, []any{int64(1), int64(2)}, children.Keys())
	assert.Nil(t, children.At(1).Get("age"))
	assert.Equal(t, Unloaded, children.At(0).Relation("parent").State)

	derek := arr.At(1)
	assert.Equal(t, LoadedEmpty, derek.Relation("children").State)
	assert.Equal(t, 0, derek.Many("children").Len())
	assert.Equal(t, Unloaded, derek.Relation("partner").State)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestComposer_BackendErrorIsPassedThrough(t *testing.T) {
	s, mock := newMockStore(t)
	query, _, err := s.Query("Parent").SQL()
	require.NoError(t, err)

	mock.ExpectQuery(query).WillReturnError(errors.New("disk I/O error"))

	_, err = s.Query("Parent").End(context.Background())
	require.Error(t, err)
	assert.True(t, database.IsBackendError(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestModel_SaveInsertsThenUpdatesDirtyColumns(t *testing.T) {
	s, mock := newMockStore(t)
	ctx := context.Background()

	mock.ExpectExec(`INSERT INTO "parents" ("name", "created_at") VALUES (?, ?)`).
		WithArgs("Ada", fixedStamp).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec(`UPDATE "parents" SET "name" = ? WHERE "id" = ?`).
		WithArgs("Bea", int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	p := mustNew(t, s, "Parent", Fields{"name": "Ada"})
	assert.False(t, p.HasKey())
	assert.True(t, p.IsDirty("name"))

	require.NoError(t, p.Save(ctx))
	assert.Equal(t, int64(7), p.Key())
	assert.Equal(t, fixedNow, p.Get("created_at"))
	assert.True(t, p.Persisted())
	assert.False(t, p.IsDirty())

	require.NoError(t, p.Set("name", "Bea"))
	assert.True(t, p.IsDirty("name"))
	assert.False(t, p.IsDirty("created_at"))
	require.NoError(t, p.Save(ctx))

	// Clean model: no statement.
	require.NoError(t, p.Save(ctx))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestModel_SaveValidationFailsWithoutStatement(t *testing.T) {
	s, mock := newMockStore(t, WithValidator("Parent", func(f Fields) error {
		if name, _ := f["name"].(string); name == "admin" {
			return validation.NewFieldError("name", "reserved")
		}
		return nil
	}))
	ctx := context.Background()

	missing := mustNew(t, s, "Parent", Fields{})
	err := missing.Save(ctx)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.Equal(t, -1, verr.Index)
	assert.Contains(t, verr.Errors, "name")
	assert.Nil(t, missing.Get("created_at"))
	assert.False(t, missing.IsDirty())

	long := mustNew(t, s, "Child", Fields{"name": strings.Repeat("x", 21)})
	err = long.Save(ctx)
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Errors, "name")

	reserved := mustNew(t, s, "Parent", Fields{"name": "admin"})
	err = reserved.Save(ctx)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"reserved"}, verr.Errors["name"])

	wrongType := mustNew(t, s, "Child", Fields{"name": "ChildA", "age": "seven"})
	err = wrongType.Save(ctx)
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Errors, "age")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestModelArray_SaveAllRollsBackOnWriteError(t *testing.T) {
	logger := &recordingLogger{}
	s, mock := newMockStore(t, WithLogger(logger))
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "parents" ("name", "created_at") VALUES (?, ?)`).
		WithArgs("Ada", fixedStamp).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO "parents" ("name", "created_at") VALUES (?, ?)`).
		WithArgs("Bea", fixedStamp).
		WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	ada := mustNew(t, s, "Parent", Fields{"name": "Ada"})
	child := mustNew(t, s, "Child", Fields{"name": "ChildA"})
	require.NoError(t, ada.Set("children", mustArray(t, s, "Child", child)))
	bea := mustNew(t, s, "Parent", Fields{"name": "Bea"})

	err := mustArray(t, s, "Parent", ada, bea).SaveAll(ctx)
	var serr *SaveError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, 1, serr.Index)
	assert.Equal(t, "Parent", serr.Entity)
	assert.True(t, database.IsBackendError(err))

	assert.False(t, ada.HasKey())
	assert.False(t, ada.Persisted())
	assert.True(t, ada.IsDirty("name"))
	assert.Nil(t, ada.Get("created_at"))
	assert.Nil(t, child.Get("parent_id"))
	assert.False(t, child.IsDirty("parent_id"))
	assert.True(t, logger.contains("geri alındı"))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestModelArray_SaveAllWiresForeignKeys(t *testing.T) {
	logger := &recordingLogger{}
	s, mock := newMockStore(t, WithLogger(logger))
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "parents" ("name", "created_at") VALUES (?, ?)`).
		WithArgs("Ada", fixedStamp).
		WillReturnResult(sqlmock.NewResult(4, 1))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "children" ("parent_id", "name", "created_at") VALUES (?, ?, ?)`).
		WithArgs(int64(4), "ChildA", fixedStamp).
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectCommit()

	ada := mustNew(t, s, "Parent", Fields{"name": "Ada"})
	child := mustNew(t, s, "Child", Fields{"name": "ChildA"})
	children := mustArray(t, s, "Child", child)
	require.NoError(t, ada.Set("children", children))

	require.NoError(t, mustArray(t, s, "Parent", ada).SaveAll(ctx))
	assert.Equal(t, int64(4), child.Get("parent_id"))
	assert.True(t, child.IsDirty("parent_id"))

	require.NoError(t, children.SaveAll(ctx))
	assert.Equal(t, int64(9), child.Key())
	assert.True(t, logger.contains("1 Parent kaydedildi"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestModel_SetRelationValues(t *testing.T) {
	s := NewStore(nil, familyRegistry(t))

	p := mustNew(t, s, "Parent", Fields{"name": "Ada"})
	child := mustNew(t, s, "Child", Fields{"name": "ChildA"})
	pet := mustNew(t, s, "Pet", Fields{"name": "Ruby"})

	assert.ErrorIs(t, p.Set("children", child), ErrInvalidValue)
	assert.ErrorIs(t, p.Set("children", mustArray(t, s, "Pet", pet)), ErrInvalidValue)
	assert.ErrorIs(t, p.Set("partner", pet), ErrInvalidValue)
	assert.ErrorIs(t, p.Set("cousins", 1), ErrUnknownPath)
	assert.Equal(t, Unloaded, p.Relation("children").State)

	require.NoError(t, p.Set("children", mustArray(t, s, "Child")))
	assert.Equal(t, LoadedEmpty, p.Relation("children").State)

	require.NoError(t, p.Set("partner", nil))
	assert.Equal(t, LoadedEmpty, p.Relation("partner").State)
	assert.Nil(t, p.One("partner"))

	require.NoError(t, child.Set("parent", p))
	assert.Equal(t, LoadedPresent, child.Relation("parent").State)
	assert.Same(t, p, child.One("parent"))

	arr := mustArray(t, s, "Child")
	assert.Error(t, arr.Push(child, pet))
	assert.Equal(t, 0, arr.Len())
	assert.Error(t, arr.Push(nil))
	assert.Nil(t, arr.At(3))

	var nilArr *ModelArray
	assert.Equal(t, 0, nilArr.Len())
}

func TestModelArray_SaveAllValidationNamesIndex(t *testing.T) {
	s := openFamily(t)
	ctx := context.Background()

	arr := mustArray(t, s, "Parent",
		mustNew(t, s, "Parent", Fields{"name": "Ada"}),
		mustNew(t, s, "Parent", Fields{}),
		mustNew(t, s, "Parent", Fields{"name": "Cem"}),
	)
	err := arr.SaveAll(ctx)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 1, verr.Index)
	assert.Contains(t, err.Error(), "index 1")
	assert.Equal(t, 0, countRows(t, s, "Parent"))
	for _, m := range arr.Items() {
		assert.False(t, m.HasKey())
	}

	require.NoError(t, arr.At(1).Set("name", "Bea"))
	require.NoError(t, arr.SaveAll(ctx))
	assert.Equal(t, []any{int64(1), int64(2), int64(3)}, arr.Keys())
	assert.Equal(t, 3, countRows(t, s, "Parent"))
}

func tagStore(t *testing.T) *Store {
	t.Helper()
	reg := familyRegistry(t)
	_, err := reg.DefineSchema("Tag", "tags", []schema.Column{
		{Name: "id", Type: database.TypeSerial},
		{Name: "label", Type: database.TypeString, Unique: true},
	})
	require.NoError(t, err)

	db := conduittest.OpenSQLite(t)
	conduittest.RefreshDatabase(t, db, reg)
	return NewStore(db, reg)
}

func TestModelArray_SaveAllConstraintViolation(t *testing.T) {
	s := tagStore(t)
	ctx := context.Background()

	first := mustNew(t, s, "Tag", Fields{"label": "go"})
	dup := mustNew(t, s, "Tag", Fields{"label": "go"})
	err := mustArray(t, s, "Tag", first, dup).SaveAll(ctx)

	var serr *SaveError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, 1, serr.Index)
	assert.True(t, database.IsConstraintViolation(err))
	assert.False(t, first.HasKey())
	assert.Equal(t, 0, countRows(t, s, "Tag"))

	require.NoError(t, first.Save(ctx))
	err = dup.Save(ctx)
	assert.True(t, database.IsConstraintViolation(err))
	assert.False(t, dup.HasKey())
	assert.Equal(t, 1, countRows(t, s, "Tag"))
}

func TestDatabaseTransaction_RollsBack(t *testing.T) {
	s := tagStore(t)
	ctx := context.Background()

	conduittest.DatabaseTransaction(t, s.DB(), func(tx *database.Transaction) {
		insert := `INSERT INTO "tags" ("label") VALUES (?)`
		_, err := tx.Exec(ctx, insert, []any{"go"})
		require.NoError(t, err)

		_, err = tx.Exec(ctx, insert, []any{"go"})
		assert.True(t, database.IsConstraintViolation(err))
	})
	assert.Equal(t, 0, countRows(t, s, "Tag"))
}

func TestModel_Destroy(t *testing.T) {
	logger := &recordingLogger{}
	s := openFamily(t, WithLogger(logger))
	ctx := context.Background()

	assert.ErrorIs(t, mustNew(t, s, "Parent", Fields{"name": "Ada"}).Destroy(ctx), ErrMissingKey)

	p := mustNew(t, s, "Parent", Fields{"name": "Ada"})
	require.NoError(t, p.Save(ctx))
	key := p.Key()

	require.NoError(t, p.Destroy(ctx))
	assert.False(t, p.Persisted())
	assert.Equal(t, "Ada", p.Get("name"))
	assert.Equal(t, 0, countRows(t, s, "Parent"))

	require.NoError(t, p.Save(ctx))
	assert.Equal(t, key, p.Key())
	assert.Equal(t, 1, countRows(t, s, "Parent"))

	arr := mustArray(t, s, "Parent",
		mustNew(t, s, "Parent", Fields{"name": "Bea"}),
		mustNew(t, s, "Parent", Fields{"name": "Cem"}),
	)
	require.NoError(t, arr.SaveAll(ctx))
	require.NoError(t, arr.Push(p))

	unsaved := mustArray(t, s, "Parent", p, mustNew(t, s, "Parent", Fields{"name": "Dax"}))
	err := unsaved.DestroyAll(ctx)
	assert.ErrorIs(t, err, ErrMissingKey)
	assert.Contains(t, err.Error(), "index 1")
	assert.Equal(t, 3, countRows(t, s, "Parent"))

	require.NoError(t, arr.DestroyAll(ctx))
	assert.Equal(t, 0, countRows(t, s, "Parent"))
	assert.True(t, logger.contains("3 Parent silindi"))
}

func TestModel_SaveWiresOwnedForeignKey(t *testing.T) {
	s := openFamily(t)
	ctx := context.Background()

	p := mustNew(t, s, "Parent", Fields{"name": "Ada"})
	require.NoError(t, p.Save(ctx))

	partner := mustNew(t, s, "Partner", Fields{"name": "Partner0"})
	require.NoError(t, partner.Set("parent", p))
	require.NoError(t, partner.Save(ctx))
	assert.Equal(t, p.Key(), partner.Get("parent_id"))

	loaded, err := s.Query("Parent").Join("partner").First(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded.One("partner"))
	assert.Equal(t, partner.Key(), loaded.One("partner").Key())

	require.NoError(t, loaded.Set("name", "Ada Lovelace"))
	require.NoError(t, loaded.Save(ctx))
	again, err := s.Query("Parent").Filter(Where{"name__startswith": "Ada L"}).First(ctx)
	require.NoError(t, err)
	assert.Equal(t, p.Key(), again.Key())
}
