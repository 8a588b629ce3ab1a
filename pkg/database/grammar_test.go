// -----------------------------------------------------------------------------
// Grammar Tests
// -----------------------------------------------------------------------------
// Bu testler, üç lehçenin SelectPlan'dan ürettiği SQL metnini ve parametre
// sırasını doğrular. Kullanıcı değerleri hiçbir zaman SQL metnine girmez.
// -----------------------------------------------------------------------------

package database

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

func parentsRoot(columns ...string) TableRef {
	return TableRef{Table: "parents", Alias: "parents", PrimaryKey: "id", Columns: columns}
}

func intPtr(n int) *int { return &n }

// TestCompileSelect_Flat tests a select without joins.
func TestCompileSelect_Flat(t *testing.T) {
	plan := &SelectPlan{
		Root: parentsRoot("id", "name"),
		Filters: []FilterGroup{{Any: []Conjunction{{
			Predicates: []Predicate{{Alias: "parents", Column: "name", Type: TypeString, Operator: OpIs, Value: "Joe"}},
		}}}},
		RootOrders: []Order{{Alias: "parents", Column: "name", Direction: OrderDesc}},
		Limit:      intPtr(5),
	}

	sql, args, err := NewSQLiteGrammar().CompileSelect(plan)
	if err != nil {
		t.Fatalf("Failed to compile SQL: %v", err)
	}

	expected := `SELECT "parents"."id", "parents"."name" FROM "parents" AS "parents" WHERE "parents"."name" = ? ORDER BY "parents"."name" DESC, "parents"."id" ASC LIMIT 5`
	if sql != expected {
		t.Errorf("Expected:\n%s\nGot:\n%s", expected, sql)
	}
	if !reflect.DeepEqual(args, []any{"Joe"}) {
		t.Errorf("Unexpected args: %v", args)
	}
}

// TestCompileSelect_JoinUsesDerivedTable tests that LIMIT bounds root rows only.
func TestCompileSelect_JoinUsesDerivedTable(t *testing.T) {
	plan := &SelectPlan{
		Root: parentsRoot("id", "name"),
		Joins: []JoinNode{{
			TableRef: TableRef{Table: "children", Alias: "children", PrimaryKey: "id", Columns: []string{"id", "parent_id"}},
			Path:     "children",
			Parent:   "parents",
			Many:     true,
			Condition: JoinCondition{Pairs: []ConditionPair{
				{LeftAlias: "parents", LeftColumn: "id", RightAlias: "children", RightColumn: "parent_id"},
			}},
		}},
		Limit:  intPtr(2),
		Offset: 4,
	}

	sql, _, err := NewMySQLGrammar().CompileSelect(plan)
	if err != nil {
		t.Fatalf("Failed to compile SQL: %v", err)
	}

	expected := "SELECT `parents`.`id`, `parents`.`name`, `children`.`id`, `children`.`parent_id` " +
		"FROM (SELECT `parents`.* FROM `parents` AS `parents` ORDER BY `parents`.`id` ASC LIMIT 2 OFFSET 4) AS `parents` " +
		"LEFT JOIN `children` AS `children` ON `parents`.`id` = `children`.`parent_id` " +
		"ORDER BY `parents`.`id` ASC, `children`.`id` ASC"
	if sql != expected {
		t.Errorf("Expected:\n%s\nGot:\n%s", expected, sql)
	}
}

// TestCompileSelect_ExistsAndPlaceholders tests OR/AND grouping and $n numbering.
func TestCompileSelect_ExistsAndPlaceholders(t *testing.T) {
	plan := &SelectPlan{
		Root: parentsRoot("id"),
		Filters: []FilterGroup{
			{Any: []Conjunction{
				{Predicates: []Predicate{{Alias: "parents", Column: "name", Type: TypeString, Operator: OpIs, Value: "A"}}},
				{Exists: []ExistsClause{{
					Steps: []JoinStep{{
						Table: "children",
						Alias: "f0_children",
						Condition: JoinCondition{Pairs: []ConditionPair{
							{LeftAlias: "parents", LeftColumn: "id", RightAlias: "f0_children", RightColumn: "parent_id"},
						}},
					}},
					Predicates: []Predicate{
						{Alias: "f0_children", Column: "id", Type: TypeSerial, Operator: OpLte, Value: 15},
						{Alias: "f0_children", Column: "name", Type: TypeString, Operator: OpStartsWith, Value: "B"},
					},
				}}},
			}},
			{Any: []Conjunction{
				{Predicates: []Predicate{{Alias: "parents", Column: "id", Type: TypeSerial, Operator: OpGt, Value: 0}}},
			}},
		},
	}

	sql, args, err := NewPostgresGrammar().CompileSelect(plan)
	if err != nil {
		t.Fatalf("Failed to compile SQL: %v", err)
	}

	expected := `SELECT "parents"."id" FROM "parents" AS "parents" WHERE ("parents"."name" = $1 OR ` +
		`EXISTS (SELECT 1 FROM "children" AS "f0_children" WHERE "parents"."id" = "f0_children"."parent_id" ` +
		`AND "f0_children"."id" <= $2 AND "f0_children"."name" LIKE $3)) AND "parents"."id" > $4 ` +
		`ORDER BY "parents"."id" ASC`
	if sql != expected {
		t.Errorf("Expected:\n%s\nGot:\n%s", expected, sql)
	}

	expectedArgs := []any{"A", int64(15), "B%", int64(0)}
	if !reflect.DeepEqual(args, expectedArgs) {
		t.Errorf("Expected args %v, got %v", expectedArgs, args)
	}
}

// TestCompileSelect_ExistsOrMissing tests that a NULL test also matches roots without a related row.
func TestCompileSelect_ExistsOrMissing(t *testing.T) {
	partner := JoinStep{
		Table: "partners",
		Alias: "f0_partner",
		Condition: JoinCondition{Pairs: []ConditionPair{
			{LeftAlias: "parents", LeftColumn: "id", RightAlias: "f0_partner", RightColumn: "parent_id"},
		}},
	}
	plan := &SelectPlan{
		Root: parentsRoot("id"),
		Filters: []FilterGroup{{Any: []Conjunction{{Exists: []ExistsClause{{
			Steps:      []JoinStep{partner},
			Predicates: []Predicate{{Alias: "f0_partner", Column: "id", Type: TypeSerial, Operator: OpIs, Value: nil}},
			OrMissing:  true,
		}}}}}},
	}

	sql, args, err := NewSQLiteGrammar().CompileSelect(plan)
	if err != nil {
		t.Fatalf("Failed to compile SQL: %v", err)
	}

	expected := `SELECT "parents"."id" FROM "parents" AS "parents" WHERE (` +
		`EXISTS (SELECT 1 FROM "partners" AS "f0_partner" WHERE "parents"."id" = "f0_partner"."parent_id" ` +
		`AND "f0_partner"."id" IS NULL) OR ` +
		`NOT EXISTS (SELECT 1 FROM "partners" AS "f0_partner" WHERE "parents"."id" = "f0_partner"."parent_id")) ` +
		`ORDER BY "parents"."id" ASC`
	if sql != expected {
		t.Errorf("Expected:\n%s\nGot:\n%s", expected, sql)
	}
	if len(args) != 0 {
		t.Errorf("Expected no args, got %v", args)
	}
}

// TestPredicate_MatchesNull tests which predicates hold for a NULL column.
func TestPredicate_MatchesNull(t *testing.T) {
	tests := []struct {
		operator Operator
		value    any
		want     bool
	}{
		{OpIs, nil, true},
		{"", nil, true},
		{OpIs, 3, false},
		{OpNot, nil, false},
		{OpIsNull, true, true},
		{OpIsNull, false, false},
		{OpNotNull, false, true},
		{OpNotNull, true, false},
		{OpLt, 5, false},
		{OpIn, []int{1}, false},
	}
	for _, tt := range tests {
		p := Predicate{Column: "id", Operator: tt.operator, Value: tt.value}
		if got := p.MatchesNull(); got != tt.want {
			t.Errorf("%s %v: expected %t, got %t", tt.operator, tt.value, tt.want, got)
		}
	}
}

// TestCompileSelect_JunctionCondition tests the OR of pairs plus the guard.
func TestCompileSelect_JunctionCondition(t *testing.T) {
	plan := &SelectPlan{
		Root: parentsRoot("id"),
		Joins: []JoinNode{{
			TableRef: TableRef{Table: "friendships", Alias: "friendships", PrimaryKey: "id", Columns: []string{"id"}},
			Parent:   "parents",
			Many:     true,
			Condition: JoinCondition{
				Pairs: []ConditionPair{
					{LeftAlias: "parents", LeftColumn: "id", RightAlias: "friendships", RightColumn: "from_parent_id"},
					{LeftAlias: "parents", LeftColumn: "id", RightAlias: "friendships", RightColumn: "to_parent_id"},
				},
				Guard: &ColumnGuard{Alias: "friendships", Left: "from_parent_id", Right: "to_parent_id"},
			},
		}},
	}

	sql, _, err := NewSQLiteGrammar().CompileSelect(plan)
	if err != nil {
		t.Fatalf("Failed to compile SQL: %v", err)
	}

	expected := `ON ("parents"."id" = "friendships"."from_parent_id" OR "parents"."id" = "friendships"."to_parent_id") ` +
		`AND "friendships"."from_parent_id" <> "friendships"."to_parent_id"`
	if !strings.Contains(sql, expected) {
		t.Errorf("Expected junction condition %s in:\n%s", expected, sql)
	}
}

// TestCompileSelect_LookupOrder tests ordering through a one relationship.
func TestCompileSelect_LookupOrder(t *testing.T) {
	plan := &SelectPlan{
		Root: TableRef{Table: "children", Alias: "children", PrimaryKey: "id", Columns: []string{"id"}},
		RootOrders: []Order{{
			Alias:     "o0_parent",
			Column:    "name",
			Direction: OrderDesc,
			Lookup: []JoinStep{{
				Table: "parents",
				Alias: "o0_parent",
				Condition: JoinCondition{Pairs: []ConditionPair{
					{LeftAlias: "children", LeftColumn: "parent_id", RightAlias: "o0_parent", RightColumn: "id"},
				}},
			}},
		}},
	}

	sql, _, err := NewSQLiteGrammar().CompileSelect(plan)
	if err != nil {
		t.Fatalf("Failed to compile SQL: %v", err)
	}

	expected := `ORDER BY (SELECT "o0_parent"."name" FROM "parents" AS "o0_parent" WHERE "children"."parent_id" = "o0_parent"."id" LIMIT 1) DESC, "children"."id" ASC`
	if !strings.HasSuffix(sql, expected) {
		t.Errorf("Expected suffix:\n%s\nGot:\n%s", expected, sql)
	}
}

// TestPatternOperators tests LIKE family rendering and escaping per dialect.
func TestPatternOperators(t *testing.T) {
	tests := []struct {
		name    string
		grammar Grammar
		op      Operator
		value   string
		sql     string
		arg     string
	}{
		{"sqlite like uses glob", NewSQLiteGrammar(), OpLike, "a_*", `"parents"."name" GLOB ?`, "*a_[*]*"},
		{"sqlite ilike", NewSQLiteGrammar(), OpILike, "50%", `LOWER("parents"."name") LIKE LOWER(?) ESCAPE '\'`, `%50\%%`},
		{"sqlite startswith", NewSQLiteGrammar(), OpStartsWith, "Sam", `"parents"."name" GLOB ?`, "Sam*"},
		{"sqlite iendswith", NewSQLiteGrammar(), OpIEndsWith, "Y", `LOWER("parents"."name") LIKE LOWER(?) ESCAPE '\'`, "%Y"},
		{"mysql like binary", NewMySQLGrammar(), OpLike, "am", "`parents`.`name` LIKE BINARY ?", "%am%"},
		{"mysql istartswith", NewMySQLGrammar(), OpIStartsWith, "s_", "LOWER(`parents`.`name`) LIKE LOWER(?)", `s\_%`},
		{"postgres ilike", NewPostgresGrammar(), OpILike, "z", `"parents"."name" ILIKE $1`, "%z%"},
		{"postgres endswith", NewPostgresGrammar(), OpEndsWith, "y", `"parents"."name" LIKE $1`, "%y"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := &SelectPlan{
				Root: parentsRoot("id"),
				Filters: []FilterGroup{{Any: []Conjunction{{Predicates: []Predicate{
					{Alias: "parents", Column: "name", Type: TypeString, Operator: tt.op, Value: tt.value},
				}}}}},
			}
			sql, args, err := tt.grammar.CompileSelect(plan)
			if err != nil {
				t.Fatalf("Failed to compile SQL: %v", err)
			}
			if !strings.Contains(sql, "WHERE "+tt.sql+" ORDER BY") {
				t.Errorf("Expected fragment %s in:\n%s", tt.sql, sql)
			}
			if len(args) != 1 || args[0] != tt.arg {
				t.Errorf("Expected arg %q, got %v", tt.arg, args)
			}
		})
	}
}

// TestNullAndListOperators tests IS NULL, IN and empty IN handling.
func TestNullAndListOperators(t *testing.T) {
	g := NewSQLiteGrammar()
	tests := []struct {
		name  string
		op    Operator
		value any
		sql   string
		args  int
	}{
		{"is nil", OpIs, nil, `"parents"."id" IS NULL`, 0},
		{"not nil", OpNot, nil, `"parents"."id" IS NOT NULL`, 0},
		{"in", OpIn, []int{1, 2, 3}, `"parents"."id" IN (?, ?, ?)`, 3},
		{"not in", OpNotIn, []any{4}, `"parents"."id" NOT IN (?)`, 1},
		{"empty in", OpIn, []int{}, `1 = 0`, 0},
		{"is_null false", OpIsNull, false, `"parents"."id" IS NOT NULL`, 0},
		{"not_null", OpNotNull, true, `"parents"."id" IS NOT NULL`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := &SelectPlan{
				Root: parentsRoot("id"),
				Filters: []FilterGroup{{Any: []Conjunction{{Predicates: []Predicate{
					{Alias: "parents", Column: "id", Type: TypeSerial, Operator: tt.op, Value: tt.value},
				}}}}},
			}
			sql, args, err := g.CompileSelect(plan)
			if err != nil {
				t.Fatalf("Failed to compile SQL: %v", err)
			}
			if !strings.Contains(sql, "WHERE "+tt.sql) {
				t.Errorf("Expected %s in:\n%s", tt.sql, sql)
			}
			if len(args) != tt.args {
				t.Errorf("Expected %d args, got %d", tt.args, len(args))
			}
		})
	}
}

// TestOffsetWithoutLimit tests per-dialect offset rendering.
func TestOffsetWithoutLimit(t *testing.T) {
	plan := &SelectPlan{Root: parentsRoot("id"), Offset: 10}

	expected := map[string]string{
		"mysql":    " LIMIT 18446744073709551615 OFFSET 10",
		"postgres": " OFFSET 10",
		"sqlite":   " LIMIT -1 OFFSET 10",
	}
	for _, g := range []Grammar{NewMySQLGrammar(), NewPostgresGrammar(), NewSQLiteGrammar()} {
		sql, _, err := g.CompileSelect(plan)
		if err != nil {
			t.Fatalf("%s: failed to compile SQL: %v", g.Name(), err)
		}
		if !strings.HasSuffix(sql, expected[g.Name()]) {
			t.Errorf("%s: expected suffix %q, got %s", g.Name(), expected[g.Name()], sql)
		}
	}
}

// TestWrap_SQLInjectionPrevention tests identifier validation.
func TestWrap_SQLInjectionPrevention(t *testing.T) {
	g := NewMySQLGrammar()

	malicious := []string{
		"users; DROP TABLE users--",
		"name`",
		"id OR 1=1",
		"",
	}
	for _, ident := range malicious {
		if _, err := g.Wrap(ident); err == nil {
			t.Errorf("Expected error for identifier %q", ident)
		}
	}

	wrapped, err := g.Wrap("users.id")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if wrapped != "`users`.`id`" {
		t.Errorf("Expected `users`.`id`, got %s", wrapped)
	}

	plan := &SelectPlan{Root: TableRef{Table: "users", Columns: []string{"id; DROP"}}}
	if _, _, err := g.CompileSelect(plan); err == nil {
		t.Error("Expected compile error for unsafe column")
	}
}

// TestCompileSelect_InvalidDirection tests direction validation.
func TestCompileSelect_InvalidDirection(t *testing.T) {
	plan := &SelectPlan{
		Root:       parentsRoot("id"),
		RootOrders: []Order{{Alias: "parents", Column: "id", Direction: "SIDEWAYS"}},
	}
	if _, _, err := NewSQLiteGrammar().CompileSelect(plan); err == nil {
		t.Error("Expected error for invalid direction")
	}
}

// TestCompileInsert tests insert rendering and RETURNING.
func TestCompileInsert(t *testing.T) {
	cols := []string{"name", "created_at"}
	vals := []any{"A", "2024-01-01"}

	sql, args, err := NewSQLiteGrammar().CompileInsert("parents", "id", cols, vals)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if sql != `INSERT INTO "parents" ("name", "created_at") VALUES (?, ?)` {
		t.Errorf("Unexpected sqlite insert: %s", sql)
	}
	if len(args) != 2 {
		t.Errorf("Expected 2 args, got %d", len(args))
	}

	sql, _, err = NewPostgresGrammar().CompileInsert("parents", "id", cols, vals)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if sql != `INSERT INTO "parents" ("name", "created_at") VALUES ($1, $2) RETURNING "id"` {
		t.Errorf("Unexpected postgres insert: %s", sql)
	}

	sql, _, _ = NewPostgresGrammar().CompileInsert("parents", "id", nil, nil)
	if sql != `INSERT INTO "parents" DEFAULT VALUES RETURNING "id"` {
		t.Errorf("Unexpected empty insert: %s", sql)
	}

	sql, _, _ = NewMySQLGrammar().CompileInsert("parents", "id", nil, nil)
	if sql != "INSERT INTO `parents` () VALUES ()" {
		t.Errorf("Unexpected mysql empty insert: %s", sql)
	}

	if _, _, err := NewSQLiteGrammar().CompileInsert("parents", "id", cols, vals[:1]); err == nil {
		t.Error("Expected error for column/value mismatch")
	}
}

// TestCompileUpdateAndDelete tests keyed update and delete rendering.
func TestCompileUpdateAndDelete(t *testing.T) {
	sql, args, err := NewMySQLGrammar().CompileUpdate("parents", "id", int64(3), []string{"name"}, []any{"B"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if sql != "UPDATE `parents` SET `name` = ? WHERE `id` = ?" {
		t.Errorf("Unexpected update: %s", sql)
	}
	if !reflect.DeepEqual(args, []any{"B", int64(3)}) {
		t.Errorf("Unexpected args: %v", args)
	}

	sql, _, _ = NewPostgresGrammar().CompileUpdate("parents", "id", int64(3), []string{"name", "age"}, []any{"B", 4})
	if sql != `UPDATE "parents" SET "name" = $1, "age" = $2 WHERE "id" = $3` {
		t.Errorf("Unexpected postgres update: %s", sql)
	}

	if _, _, err := NewMySQLGrammar().CompileUpdate("parents", "id", int64(3), nil, nil); err == nil {
		t.Error("Expected error for empty update")
	}

	sql, args, _ = NewSQLiteGrammar().CompileDelete("parents", "id", []any{int64(1), int64(2)})
	if sql != `DELETE FROM "parents" WHERE "id" IN (?, ?)` || len(args) != 2 {
		t.Errorf("Unexpected delete: %s %v", sql, args)
	}
	sql, _, _ = NewSQLiteGrammar().CompileDelete("parents", "id", []any{int64(1)})
	if sql != `DELETE FROM "parents" WHERE "id" = ?` {
		t.Errorf("Unexpected single delete: %s", sql)
	}
}

// TestCompileCreateTable tests DDL rendering.
func TestCompileCreateTable(t *testing.T) {
	cols := []ColumnDefinition{
		{Name: "id", Type: TypeSerial},
		{Name: "name", Type: TypeString},
		{Name: "age", Type: TypeInt, Nullable: true},
		{Name: "code", Type: TypeUUID, Unique: true},
	}

	sql, err := NewSQLiteGrammar().CompileCreateTable("parents", cols)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	expected := `CREATE TABLE "parents" ("id" INTEGER PRIMARY KEY AUTOINCREMENT, "name" VARCHAR(255) NOT NULL, "age" INTEGER, "code" TEXT NOT NULL UNIQUE)`
	if sql != expected {
		t.Errorf("Expected:\n%s\nGot:\n%s", expected, sql)
	}

	sql, _ = NewPostgresGrammar().CompileCreateTable("parents", cols[:2])
	if sql != `CREATE TABLE "parents" ("id" BIGSERIAL PRIMARY KEY, "name" VARCHAR(255) NOT NULL)` {
		t.Errorf("Unexpected postgres DDL: %s", sql)
	}

	sql, _ = NewMySQLGrammar().CompileDropTable("parents", true)
	if sql != "DROP TABLE IF EXISTS `parents`" {
		t.Errorf("Unexpected drop: %s", sql)
	}

	if _, err := NewSQLiteGrammar().CompileCreateTable("parents", []ColumnDefinition{{Name: "x", Type: "blob"}}); err == nil {
		t.Error("Expected error for unsupported type")
	}
}

// TestClassifyError tests driver error classification.
func TestClassifyError(t *testing.T) {
	err := NewMySQLGrammar().ClassifyError("INSERT", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
	if !errors.Is(err, ErrConstraintViolation) {
		t.Errorf("Expected constraint violation, got %v", err)
	}

	err = NewPostgresGrammar().ClassifyError("INSERT", &pq.Error{Code: "23502", Constraint: "parents_name"})
	var cv *ConstraintViolationError
	if !errors.As(err, &cv) {
		t.Fatalf("Expected ConstraintViolationError, got %T", err)
	}
	if cv.Kind != "not_null_violation" || cv.Constraint != "parents_name" {
		t.Errorf("Unexpected classification: %+v", cv)
	}

	err = NewPostgresGrammar().ClassifyError("SELECT", &pq.Error{Code: "42P01"})
	if !errors.Is(err, ErrBackend) || errors.Is(err, ErrConstraintViolation) {
		t.Errorf("Expected backend error, got %v", err)
	}

	plain := errors.New("connection reset")
	err = NewSQLiteGrammar().ClassifyError("SELECT 1", plain)
	if !errors.Is(err, ErrBackend) || !errors.Is(err, plain) {
		t.Errorf("Expected wrapped backend error, got %v", err)
	}

	if NewSQLiteGrammar().ClassifyError("SELECT 1", nil) != nil {
		t.Error("Expected nil for nil error")
	}
}

// TestValueCoercion tests FormatValue and ParseValue round trips per type.
func TestValueCoercion(t *testing.T) {
	g := NewSQLiteGrammar()

	v, err := g.ParseValue(TypeInt, []byte("42"))
	if err != nil || v != int64(42) {
		t.Errorf("Expected int64(42), got %v (%v)", v, err)
	}

	v, err = g.ParseValue(TypeBoolean, int64(1))
	if err != nil || v != true {
		t.Errorf("Expected true, got %v (%v)", v, err)
	}

	v, err = g.ParseValue(TypeDateTime, "2024-03-01 10:20:30.000000")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if tm := v.(time.Time); tm.Year() != 2024 || tm.Hour() != 10 {
		t.Errorf("Unexpected time: %v", tm)
	}

	v, err = g.ParseValue(TypeJSON, `{"a":1}`)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if m, ok := v.(map[string]any); !ok || m["a"] != float64(1) {
		t.Errorf("Unexpected json value: %v", v)
	}

	f, err := g.FormatValue(TypeDateTime, time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC))
	if err != nil || f != "2024-03-01 10:20:30.000000" {
		t.Errorf("Unexpected formatted time: %v (%v)", f, err)
	}

	if _, err := g.FormatValue(TypeInt, "abc"); err == nil {
		t.Error("Expected error for non-numeric int value")
	}
	for _, big := range []any{^uint(0), ^uint64(0), float64(1 << 63)} {
		if f, err := g.FormatValue(TypeInt, big); err == nil {
			t.Errorf("Expected overflow error for %T, got %v", big, f)
		}
	}
	if f, err := g.FormatValue(TypeInt, uint(7)); err != nil || f != int64(7) {
		t.Errorf("Expected int64(7), got %v (%v)", f, err)
	}
	if _, err := g.FormatValue(TypeUUID, "not-a-uuid"); err == nil {
		t.Error("Expected error for invalid uuid")
	}
	if f, _ := NewPostgresGrammar().FormatValue(TypeJSON, map[string]any{"k": "v"}); f != `{"k":"v"}` {
		t.Errorf("Unexpected json encoding: %v", f)
	}
}
