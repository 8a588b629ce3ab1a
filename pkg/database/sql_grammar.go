package database

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
)

// -----------------------------------------------------------------------------
// Ortak SQL Derleyicisi
// -----------------------------------------------------------------------------
// sqlGrammar, üç lehçenin paylaştığı derleme mantığını içerir. Lehçeye özgü
// kısımlar (quoting, placeholder, LIKE karşılıkları, LIMIT yazımı, DDL tipleri)
// dialect arayüzü üzerinden çözülür.
// -----------------------------------------------------------------------------

var validIdentifierPattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

type sqlGrammar struct {
	d          dialect
	returning  bool
	timeLayout string
}

// statement, derleme sırasında SQL metnini ve parametreleri biriktirir.
// İlk hata saklanır, sonraki yazımlar yok sayılır.
type statement struct {
	g    *sqlGrammar
	args []any
	err  error
}

func (g *sqlGrammar) newStatement() *statement {
	return &statement{g: g}
}

func (s *statement) fail(err error) {
	if s.err == nil {
		s.err = err
	}
}

func (s *statement) bind(value any) string {
	s.args = append(s.args, value)
	return s.g.d.placeholder(len(s.args))
}

func (s *statement) ident(value string) string {
	wrapped, err := s.g.Wrap(value)
	if err != nil {
		s.fail(err)
		return ""
	}
	return wrapped
}

func (s *statement) column(alias, column string) string {
	return s.ident(alias) + "." + s.ident(column)
}

func (s *statement) table(table, alias string) string {
	if alias == "" || alias == table {
		return s.ident(table) + " AS " + s.ident(table)
	}
	return s.ident(table) + " AS " + s.ident(alias)
}

// Name, lehçe adını döndürür.
func (g *sqlGrammar) Name() string {
	return g.d.name()
}

// Wrap, identifier'ı doğrular ve lehçenin quoting karakteriyle sarmalar.
// "tablo.kolon" biçimi desteklenir; her parça ayrı doğrulanır.
func (g *sqlGrammar) Wrap(value string) (string, error) {
	if value == "*" {
		return value, nil
	}
	parts := strings.Split(value, ".")
	for i, part := range parts {
		if part == "*" && i == len(parts)-1 && i > 0 {
			continue
		}
		if !validIdentifierPattern.MatchString(part) {
			return "", fmt.Errorf("invalid SQL identifier: %s (contains unsafe characters)", value)
		}
		parts[i] = g.d.quote(part)
	}
	return strings.Join(parts, "."), nil
}

// WrapMultiple, birden fazla identifier'ı wrap eder.
func (g *sqlGrammar) WrapMultiple(values []string) ([]string, error) {
	wrapped := make([]string, len(values))
	for i, value := range values {
		w, err := g.Wrap(value)
		if err != nil {
			return nil, fmt.Errorf("failed to wrap '%s': %w", value, err)
		}
		wrapped[i] = w
	}
	return wrapped, nil
}

// ReturnsInsertedKey, INSERT ... RETURNING desteğini bildirir.
func (g *sqlGrammar) ReturnsInsertedKey() bool {
	return g.returning
}

// -----------------------------------------------------------------------------
// SELECT
// -----------------------------------------------------------------------------

// CompileSelect, SelectPlan'ı tek bir SELECT ifadesine çevirir.
//
// Join yoksa düz bir sorgu üretilir:
//
//	SELECT ... FROM "parents" AS "parents" WHERE ... ORDER BY ... LIMIT 10
//
// Join varsa kök tablo türetilmiş tabloya alınır; böylece LIMIT/OFFSET
// join çarpımından etkilenmeden yalnızca kök satırları sınırlar:
//
//	SELECT ... FROM (SELECT "parents".* FROM "parents" AS "parents" WHERE ... LIMIT 10) AS "parents"
//	LEFT JOIN "children" AS "children" ON "parents"."id" = "children"."parent_id"
//	ORDER BY "parents"."id" ASC, "children"."id" ASC
func (g *sqlGrammar) CompileSelect(plan *SelectPlan) (string, []any, error) {
	if plan == nil || plan.Root.Table == "" {
		return "", nil, fmt.Errorf("select plan has no root table")
	}
	root := plan.Root
	if root.Alias == "" {
		root.Alias = root.Table
	}

	st := g.newStatement()
	var sql strings.Builder

	sql.WriteString("SELECT ")
	sql.WriteString(g.selectList(st, root, plan.Joins))
	sql.WriteString(" FROM ")

	if len(plan.Joins) == 0 {
		sql.WriteString(st.table(root.Table, root.Alias))
		sql.WriteString(g.where(st, plan.Filters))
		sql.WriteString(g.orderBy(st, root, plan.RootOrders, nil, nil))
		sql.WriteString(g.d.limit(plan.Limit, plan.Offset))
		if st.err != nil {
			return "", nil, st.err
		}
		return sql.String(), st.args, nil
	}

	sql.WriteString("(SELECT ")
	sql.WriteString(st.ident(root.Alias) + ".*")
	sql.WriteString(" FROM ")
	sql.WriteString(st.table(root.Table, root.Alias))
	sql.WriteString(g.where(st, plan.Filters))
	sql.WriteString(g.orderBy(st, root, plan.RootOrders, nil, nil))
	sql.WriteString(g.d.limit(plan.Limit, plan.Offset))
	sql.WriteString(") AS ")
	sql.WriteString(st.ident(root.Alias))

	for _, join := range plan.Joins {
		sql.WriteString(" LEFT JOIN ")
		sql.WriteString(st.table(join.Table, join.Alias))
		sql.WriteString(" ON ")
		sql.WriteString(g.condition(st, join.Condition))
	}

	sql.WriteString(g.orderBy(st, root, plan.RootOrders, plan.JoinOrders, plan.Joins))

	if st.err != nil {
		return "", nil, st.err
	}
	return sql.String(), st.args, nil
}

// selectList, kök ve join kolonlarını plan sırasıyla listeler.
func (g *sqlGrammar) selectList(st *statement, root TableRef, joins []JoinNode) string {
	cols := make([]string, 0, len(root.Columns))
	for _, c := range root.Columns {
		cols = append(cols, st.column(root.Alias, c))
	}
	for _, j := range joins {
		for _, c := range j.Columns {
			cols = append(cols, st.column(j.Alias, c))
		}
	}
	if len(cols) == 0 {
		st.fail(fmt.Errorf("select plan has no columns"))
	}
	return strings.Join(cols, ", ")
}

// where, filtre gruplarını WHERE ifadesine çevirir.
// Gruplar AND, grup içindeki argümanlar OR ile bağlanır.
func (g *sqlGrammar) where(st *statement, groups []FilterGroup) string {
	rendered := make([]string, 0, len(groups))
	for _, group := range groups {
		if len(group.Any) == 0 {
			continue
		}
		conjs := make([]string, 0, len(group.Any))
		for _, conj := range group.Any {
			terms := g.conjunction(st, conj)
			if len(terms) > 1 && len(group.Any) > 1 {
				conjs = append(conjs, "("+strings.Join(terms, " AND ")+")")
				continue
			}
			conjs = append(conjs, strings.Join(terms, " AND "))
		}
		text := strings.Join(conjs, " OR ")
		if len(conjs) > 1 && len(groups) > 1 {
			text = "(" + text + ")"
		}
		rendered = append(rendered, text)
	}
	if len(rendered) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(rendered, " AND ")
}

func (g *sqlGrammar) conjunction(st *statement, conj Conjunction) []string {
	terms := make([]string, 0, len(conj.Predicates)+len(conj.Exists))
	for _, p := range conj.Predicates {
		terms = append(terms, g.predicate(st, p))
	}
	for _, e := range conj.Exists {
		terms = append(terms, g.exists(st, e))
	}
	if len(terms) == 0 {
		terms = append(terms, "1 = 1")
	}
	return terms
}

// exists, ilişki zincirini korelasyonlu EXISTS alt sorgusu olarak yazar.
func (g *sqlGrammar) exists(st *statement, e ExistsClause) string {
	if len(e.Steps) == 0 {
		st.fail(fmt.Errorf("exists clause has no steps"))
		return ""
	}
	text := g.subquery(st, "EXISTS", e.Steps, e.Predicates)
	if !e.OrMissing {
		return text
	}
	return "(" + text + " OR " + g.subquery(st, "NOT EXISTS", e.Steps, nil) + ")"
}

func (g *sqlGrammar) subquery(st *statement, keyword string, steps []JoinStep, predicates []Predicate) string {
	var sql strings.Builder
	sql.WriteString(keyword)
	sql.WriteString(" (SELECT 1 FROM ")
	sql.WriteString(g.chain(st, steps))
	sql.WriteString(" WHERE ")
	sql.WriteString(g.condition(st, steps[0].Condition))
	for _, p := range predicates {
		sql.WriteString(" AND ")
		sql.WriteString(g.predicate(st, p))
	}
	sql.WriteString(")")
	return sql.String()
}

// chain, adımları FROM ... INNER JOIN ... biçiminde yazar. İlk adımın
// koşulu çağıran tarafından WHERE içine eklenir.
func (g *sqlGrammar) chain(st *statement, steps []JoinStep) string {
	var sql strings.Builder
	sql.WriteString(st.table(steps[0].Table, steps[0].Alias))
	for _, step := range steps[1:] {
		sql.WriteString(" INNER JOIN ")
		sql.WriteString(st.table(step.Table, step.Alias))
		sql.WriteString(" ON ")
		sql.WriteString(g.condition(st, step.Condition))
	}
	return sql.String()
}

// condition, JoinCondition'ı ON/WHERE parçasına çevirir.
func (g *sqlGrammar) condition(st *statement, c JoinCondition) string {
	if len(c.Pairs) == 0 {
		st.fail(fmt.Errorf("join condition has no column pairs"))
		return ""
	}
	pairs := make([]string, len(c.Pairs))
	for i, p := range c.Pairs {
		pairs[i] = st.column(p.LeftAlias, p.LeftColumn) + " = " + st.column(p.RightAlias, p.RightColumn)
	}
	text := strings.Join(pairs, " OR ")
	if len(pairs) > 1 {
		text = "(" + text + ")"
	}
	if c.Guard != nil {
		text += " AND " + st.column(c.Guard.Alias, c.Guard.Left) + " <> " + st.column(c.Guard.Alias, c.Guard.Right)
	}
	return text
}

// predicate, tek bir karşılaştırmayı yazar; değerler placeholder ile bağlanır.
func (g *sqlGrammar) predicate(st *statement, p Predicate) string {
	col := st.column(p.Alias, p.Column)

	if p.Operator.isPattern() {
		if p.Value == nil {
			st.fail(fmt.Errorf("operator %s on %s requires a value", p.Operator, p.Column))
			return ""
		}
		str, ok := p.Value.(string)
		if !ok {
			str = fmt.Sprint(p.Value)
		}
		return g.d.match(col, st.bind(g.d.pattern(str, p.Operator)), p.Operator)
	}

	switch p.Operator {
	case OpIs, "":
		if p.Value == nil {
			return col + " IS NULL"
		}
		return col + " = " + st.bind(g.formatted(st, p.Type, p.Value))
	case OpNot:
		if p.Value == nil {
			return col + " IS NOT NULL"
		}
		return col + " <> " + st.bind(g.formatted(st, p.Type, p.Value))
	case OpLt:
		return col + " < " + st.bind(g.formatted(st, p.Type, p.Value))
	case OpLte:
		return col + " <= " + st.bind(g.formatted(st, p.Type, p.Value))
	case OpGt:
		return col + " > " + st.bind(g.formatted(st, p.Type, p.Value))
	case OpGte:
		return col + " >= " + st.bind(g.formatted(st, p.Type, p.Value))
	case OpIn, OpNotIn:
		values := valueList(p.Value)
		if len(values) == 0 {
			if p.Operator == OpIn {
				return "1 = 0"
			}
			return "1 = 1"
		}
		placeholders := make([]string, len(values))
		for i, v := range values {
			placeholders[i] = st.bind(g.formatted(st, p.Type, v))
		}
		keyword := " IN ("
		if p.Operator == OpNotIn {
			keyword = " NOT IN ("
		}
		return col + keyword + strings.Join(placeholders, ", ") + ")"
	case OpIsNull, OpNotNull:
		null := truthy(p.Value)
		if p.Operator == OpNotNull {
			null = !null
		}
		if null {
			return col + " IS NULL"
		}
		return col + " IS NOT NULL"
	}

	st.fail(fmt.Errorf("invalid SQL operator: %s (not supported)", p.Operator))
	return ""
}

func (g *sqlGrammar) formatted(st *statement, t ColumnType, value any) any {
	v, err := g.FormatValue(t, value)
	if err != nil {
		st.fail(err)
	}
	return v
}

// orderBy, ORDER BY ifadesini yazar. joins nil ise sadece kök sıralaması
// (türetilmiş tablo veya düz sorgu) üretilir.
func (g *sqlGrammar) orderBy(st *statement, root TableRef, rootOrders, joinOrders []Order, joins []JoinNode) string {
	parts := make([]string, 0, len(rootOrders)+len(joinOrders)+len(joins)+1)
	for _, o := range rootOrders {
		parts = append(parts, g.order(st, o))
	}
	if root.PrimaryKey != "" {
		parts = append(parts, st.column(root.Alias, root.PrimaryKey)+" "+string(OrderAsc))
	}
	for _, o := range joinOrders {
		parts = append(parts, g.order(st, o))
	}
	for _, j := range joins {
		if j.PrimaryKey != "" {
			parts = append(parts, st.column(j.Alias, j.PrimaryKey)+" "+string(OrderAsc))
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}

func (g *sqlGrammar) order(st *statement, o Order) string {
	dir, err := ParseDirection(string(o.Direction))
	if err != nil {
		st.fail(err)
		return ""
	}
	if len(o.Lookup) == 0 {
		return st.column(o.Alias, o.Column) + " " + string(dir)
	}
	one := 1
	return "(SELECT " + st.column(o.Alias, o.Column) + " FROM " + g.chain(st, o.Lookup) +
		" WHERE " + g.condition(st, o.Lookup[0].Condition) + g.d.limit(&one, 0) + ") " + string(dir)
}

// -----------------------------------------------------------------------------
// INSERT / UPDATE / DELETE
// -----------------------------------------------------------------------------

// CompileInsert, INSERT sorgusu üretir.
func (g *sqlGrammar) CompileInsert(table, primaryKey string, columns []string, values []any) (string, []any, error) {
	if len(columns) != len(values) {
		return "", nil, fmt.Errorf("insert into %s: %d columns but %d values", table, len(columns), len(values))
	}
	st := g.newStatement()
	wrappedTable := st.ident(table)

	var sql string
	if len(columns) == 0 {
		sql = g.d.emptyInsert(wrappedTable)
	} else {
		cols := make([]string, len(columns))
		placeholders := make([]string, len(columns))
		for i, c := range columns {
			cols[i] = st.ident(c)
			placeholders[i] = st.bind(values[i])
		}
		sql = fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
			wrappedTable,
			strings.Join(cols, ", "),
			strings.Join(placeholders, ", "),
		)
	}
	if g.returning && primaryKey != "" {
		sql += " RETURNING " + st.ident(primaryKey)
	}
	if st.err != nil {
		return "", nil, fmt.Errorf("insert into %s: %w", table, st.err)
	}
	return sql, st.args, nil
}

// CompileUpdate, UPDATE sorgusu üretir.
func (g *sqlGrammar) CompileUpdate(table, keyColumn string, key any, columns []string, values []any) (string, []any, error) {
	if len(columns) == 0 {
		return "", nil, fmt.Errorf("update %s: no columns to update", table)
	}
	if len(columns) != len(values) {
		return "", nil, fmt.Errorf("update %s: %d columns but %d values", table, len(columns), len(values))
	}
	if key == nil {
		return "", nil, fmt.Errorf("update %s: missing key value", table)
	}
	st := g.newStatement()
	wrappedTable := st.ident(table)
	sets := make([]string, len(columns))
	for i, c := range columns {
		sets[i] = st.ident(c) + " = " + st.bind(values[i])
	}
	sql := fmt.Sprintf("UPDATE %s SET %s WHERE %s = %s",
		wrappedTable,
		strings.Join(sets, ", "),
		st.ident(keyColumn),
		st.bind(key),
	)
	if st.err != nil {
		return "", nil, fmt.Errorf("update %s: %w", table, st.err)
	}
	return sql, st.args, nil
}

// CompileDelete, DELETE sorgusu üretir.
func (g *sqlGrammar) CompileDelete(table, keyColumn string, keys []any) (string, []any, error) {
	if len(keys) == 0 {
		return "", nil, fmt.Errorf("delete from %s: no keys", table)
	}
	st := g.newStatement()
	sql := "DELETE FROM " + st.ident(table) + " WHERE " + st.ident(keyColumn)
	if len(keys) == 1 {
		sql += " = " + st.bind(keys[0])
	} else {
		placeholders := make([]string, len(keys))
		for i, k := range keys {
			placeholders[i] = st.bind(k)
		}
		sql += " IN (" + strings.Join(placeholders, ", ") + ")"
	}
	if st.err != nil {
		return "", nil, fmt.Errorf("delete from %s: %w", table, st.err)
	}
	return sql, st.args, nil
}

// -----------------------------------------------------------------------------
// DDL
// -----------------------------------------------------------------------------

// CompileCreateTable, CREATE TABLE ifadesi üretir.
func (g *sqlGrammar) CompileCreateTable(table string, columns []ColumnDefinition) (string, error) {
	if len(columns) == 0 {
		return "", fmt.Errorf("create table %s: no columns", table)
	}
	st := g.newStatement()
	defs := make([]string, len(columns))
	for i, col := range columns {
		typ, err := g.d.columnType(col)
		if err != nil {
			return "", fmt.Errorf("create table %s: %w", table, err)
		}
		def := st.ident(col.Name) + " " + typ
		if col.Primary && col.Type != TypeSerial {
			def += " PRIMARY KEY"
		}
		if !col.Nullable && !col.IsPrimary() {
			def += " NOT NULL"
		}
		if col.Unique && !col.IsPrimary() {
			def += " UNIQUE"
		}
		defs[i] = def
	}
	sql := fmt.Sprintf("CREATE TABLE %s (%s)", st.ident(table), strings.Join(defs, ", "))
	if st.err != nil {
		return "", fmt.Errorf("create table %s: %w", table, st.err)
	}
	return sql, nil
}

// CompileDropTable, DROP TABLE ifadesi üretir.
func (g *sqlGrammar) CompileDropTable(table string, ifExists bool) (string, error) {
	wrapped, err := g.Wrap(table)
	if err != nil {
		return "", fmt.Errorf("drop table: %w", err)
	}
	if ifExists {
		return "DROP TABLE IF EXISTS " + wrapped, nil
	}
	return "DROP TABLE " + wrapped, nil
}

// -----------------------------------------------------------------------------
// Hata sınıflandırma
// -----------------------------------------------------------------------------

// ClassifyError, sürücü hatasını taksonomiye çevirir.
func (g *sqlGrammar) ClassifyError(statement string, err error) error {
	if err == nil {
		return nil
	}
	var cv *ConstraintViolationError
	if errors.As(err, &cv) {
		return err
	}
	var be *BackendError
	if errors.As(err, &be) {
		return err
	}
	if kind, constraint, ok := g.d.classify(err); ok {
		return &ConstraintViolationError{
			Dialect:    g.d.name(),
			Kind:       kind,
			Constraint: constraint,
			Statement:  statement,
			Err:        err,
		}
	}
	return &BackendError{Dialect: g.d.name(), Statement: statement, Err: err}
}

// -----------------------------------------------------------------------------
// Yardımcılar
// -----------------------------------------------------------------------------

// valueList, IN operatörü için değeri düz listeye açar.
// []byte tek değer kabul edilir.
func valueList(value any) []any {
	if value == nil {
		return nil
	}
	if list, ok := value.([]any); ok {
		return list
	}
	if _, ok := value.([]byte); ok {
		return []any{value}
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return []any{value}
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

// truthy, is_null / not_null için değeri yorumlar; nil true sayılır.
func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case bool:
		return v
	case string:
		return v != "" && v != "0" && !strings.EqualFold(v, "false")
	case int:
		return v != 0
	case int64:
		return v != 0
	}
	return true
}

// likeEscaper, LIKE desenlerindeki meta karakterleri ters bölü ile kaçışlar.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern, operatöre göre % joker karakterlerini ekler.
func likePattern(value string, op Operator) string {
	escaped := likeEscaper.Replace(value)
	switch op {
	case OpStartsWith, OpIStartsWith:
		return escaped + "%"
	case OpEndsWith, OpIEndsWith:
		return "%" + escaped
	}
	return "%" + escaped + "%"
}
