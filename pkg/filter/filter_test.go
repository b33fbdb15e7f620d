package filter

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type status string

var testColumns = Columns{
	"id":             {Expr: "a.id", Type: TypeOf[int64]()},
	"title":          {Expr: "a.title", Type: TypeOf[string]()},
	"status":         {Expr: "a.status", Type: TypeOf[status]()},
	"date":           {Expr: "a.date", Type: TypeOf[time.Time]()},
	"participantsId": {Expr: "p.user_id", Join: "LEFT JOIN participants p ON p.appointment_id = a.id", Type: TypeOf[int64]()},
}

type record struct {
	id           int64
	title        *string
	status       status
	date         time.Time
	participants []int64
}

func (r record) get(field string) (any, bool) {
	switch field {
	case "id":
		return r.id, true
	case "title":
		if r.title == nil {
			return nil, false
		}
		return *r.title, true
	case "status":
		return r.status, true
	case "date":
		return r.date, true
	case "participantsId":
		out := make([]any, len(r.participants))
		for i, p := range r.participants {
			out[i] = p
		}
		return out, true
	}
	return nil, false
}

func matchAll(t *testing.T, spec Spec, records []record) []int64 {
	t.Helper()
	var ids []int64
	for _, r := range records {
		ok, err := Match(spec, r.get)
		require.NoError(t, err)
		if ok {
			ids = append(ids, r.id)
		}
	}
	return ids
}

var now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

var sample = []record{
	{id: 1, title: Ptr("John Doe"), status: "PENDING", date: now.Add(time.Hour), participants: []int64{10, 11}},
	{id: 2, title: Ptr("Jane Roe"), status: "CONFIRMED", date: now.Add(-time.Hour)},
	{id: 3, title: nil, status: "CANCELLED", date: now.Add(48 * time.Hour), participants: []int64{11}},
}

func TestUnsetFiltersMatchEverything(t *testing.T) {
	var spec Spec
	AddRange(&spec, "id", &LongFilter{})
	AddString(&spec, "title", nil)
	AddFilter(&spec, "status", &Filter[status]{In: []status{}})

	assert.True(t, spec.IsEmpty())
	assert.Equal(t, []int64{1, 2, 3}, matchAll(t, spec, sample))

	q, err := Compile(spec, testColumns, 1)
	require.NoError(t, err)
	assert.Equal(t, "", q.Clause())
	assert.Empty(t, q.Args)
}

func TestInAndNotIn(t *testing.T) {
	var spec Spec
	AddFilter(&spec, "status", &Filter[status]{In: []status{"PENDING", "CANCELLED"}})
	assert.Equal(t, []int64{1, 3}, matchAll(t, spec, sample))

	spec = Spec{}
	AddFilter(&spec, "status", &Filter[status]{NotIn: []status{"PENDING"}})
	assert.Equal(t, []int64{2, 3}, matchAll(t, spec, sample))
}

func TestEmptyInConditionIsIgnored(t *testing.T) {
	spec := Spec{}.And(In[status]("status"))
	assert.Equal(t, []int64{1, 2, 3}, matchAll(t, spec, sample))

	q, err := Compile(spec, testColumns, 1)
	require.NoError(t, err)
	assert.Equal(t, "", q.Where)
}

func TestContainsIsCaseSensitiveAndSkipsNull(t *testing.T) {
	var spec Spec
	AddString(&spec, "title", &StringFilter{Contains: Ptr("Doe")})
	assert.Equal(t, []int64{1}, matchAll(t, spec, sample))

	spec = Spec{}
	AddString(&spec, "title", &StringFilter{Contains: Ptr("doe")})
	assert.Empty(t, matchAll(t, spec, sample))

	spec = Spec{}
	AddString(&spec, "title", &StringFilter{DoesNotContain: Ptr("Doe")})
	assert.Equal(t, []int64{2}, matchAll(t, spec, sample))
}

func TestSpecified(t *testing.T) {
	var spec Spec
	AddString(&spec, "title", &StringFilter{Filter: Filter[string]{Specified: Ptr(false)}})
	assert.Equal(t, []int64{3}, matchAll(t, spec, sample))

	spec = Spec{}
	AddRange(&spec, "participantsId", &LongFilter{Filter: Filter[int64]{Specified: Ptr(true)}})
	assert.Equal(t, []int64{1, 3}, matchAll(t, spec, sample))
}

func TestRangeAndJoinedField(t *testing.T) {
	var spec Spec
	AddRange(&spec, "date", &InstantFilter{GreaterThan: Ptr(now)})
	AddRange(&spec, "participantsId", &LongFilter{Filter: Filter[int64]{Equals: Ptr(int64(11))}})
	assert.Equal(t, []int64{1, 3}, matchAll(t, spec, sample))

	spec = spec.And(Lte("date", now.Add(24*time.Hour)))
	assert.Equal(t, []int64{1}, matchAll(t, spec, sample))
}

func TestCompileRendersPlaceholdersAndJoins(t *testing.T) {
	var spec Spec
	AddString(&spec, "title", &StringFilter{Contains: Ptr("50%_off")})
	AddFilter(&spec, "status", &Filter[status]{In: []status{"PENDING", "CONFIRMED"}})
	AddRange(&spec, "participantsId", &LongFilter{Filter: Filter[int64]{Equals: Ptr(int64(4))}})
	AddRange(&spec, "participantsId", &LongFilter{Filter: Filter[int64]{NotEquals: Ptr(int64(5))}})
	spec.Distinct = true

	q, err := Compile(spec, testColumns, 3)
	require.NoError(t, err)

	assert.Equal(t, []string{"LEFT JOIN participants p ON p.appointment_id = a.id"}, q.Joins)
	assert.Equal(t,
		`a.title LIKE $3 ESCAPE '\' AND a.status IN ($4, $5) AND p.user_id = $6 AND p.user_id <> $7`,
		q.Where)
	assert.Equal(t, []any{`%50\%\_off%`, status("PENDING"), status("CONFIRMED"), int64(4), int64(5)}, q.Args)
	assert.Equal(t, 8, q.NextArg())
	assert.True(t, q.Distinct)
}

func TestCompileFailsFast(t *testing.T) {
	_, err := Compile(Spec{}.And(Eq("unknown", 1)), testColumns, 1)
	assert.ErrorIs(t, err, ErrUnknownField)

	_, err = Compile(Spec{}.And(Eq("id", 7)), testColumns, 1)
	assert.ErrorIs(t, err, ErrTypeMismatch)

	_, err = Match(Spec{}.And(Eq("id", "7")), sample[0].get)
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestAndDoesNotModifyReceiver(t *testing.T) {
	base := Spec{}.And(Eq("id", int64(1)))
	extended := base.And(Eq("status", status("PENDING")))

	assert.Len(t, base.Conditions, 1)
	assert.Len(t, extended.Conditions, 2)
}

func TestFilterCopyAndEqual(t *testing.T) {
	orig := &InstantFilter{
		Filter:      Filter[time.Time]{In: []time.Time{now}},
		GreaterThan: Ptr(now),
	}
	cp := orig.Copy()
	assert.True(t, orig.Equal(cp))

	cp.In[0] = now.Add(time.Hour)
	*cp.GreaterThan = now.Add(time.Minute)
	assert.Equal(t, now, orig.In[0])
	assert.Equal(t, now, *orig.GreaterThan)
	assert.False(t, orig.Equal(cp))

	var unset *StringFilter
	assert.True(t, unset.Equal(&StringFilter{}))
}

func TestParseFilters(t *testing.T) {
	q := url.Values{
		"id.greaterThan":   {"3"},
		"id.in":            {"1,2", "5"},
		"title.contains":   {"Doe"},
		"status.equals":    {"PENDING"},
		"date.lessThan":    {"2025-03-01T12:00:00Z"},
		"title.specified":  {"true"},
		"ignored.whatever": {"x"},
	}

	id, err := ParseRange(q, "id", Int64)
	require.NoError(t, err)
	assert.Equal(t, int64(3), *id.GreaterThan)
	assert.Equal(t, []int64{1, 2, 5}, id.In)

	title, err := ParseString(q, "title")
	require.NoError(t, err)
	assert.Equal(t, "Doe", *title.Contains)
	assert.True(t, *title.Specified)

	st, err := ParseFilter(q, "status", Enum[status]("PENDING", "CONFIRMED"))
	require.NoError(t, err)
	assert.Equal(t, status("PENDING"), *st.Equals)

	date, err := ParseRange(q, "date", Time)
	require.NoError(t, err)
	assert.True(t, now.Equal(*date.LessThan))

	missing, err := ParseRange(q, "duration", Int)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestParseFilterRejectsMalformedValues(t *testing.T) {
	_, err := ParseRange(url.Values{"id.equals": {"abc"}}, "id", Int64)
	assert.ErrorIs(t, err, ErrInvalidParam)

	_, err = ParseFilter(url.Values{"status.in": {"PENDING,NOPE"}}, "status", Enum[status]("PENDING"))
	assert.ErrorIs(t, err, ErrInvalidParam)
}

func TestParsePageAndOrderBy(t *testing.T) {
	p, err := ParsePage(url.Values{"page": {"2"}, "size": {"500"}, "sort": {"date,desc", "title"}}, 20, 100)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 100, p.Size)
	assert.Equal(t, 200, p.Offset())
	assert.Equal(t, []Order{{Field: "date", Desc: true}, {Field: "title"}}, p.Sort)

	clause, err := OrderBy(p.Sort, testColumns, "a.id")
	require.NoError(t, err)
	assert.Equal(t, " ORDER BY a.date DESC, a.title ASC, a.id ASC", clause)
	assert.Equal(t, " LIMIT 100 OFFSET 200", Limit(p))

	_, err = OrderBy([]Order{{Field: "participantsId"}}, testColumns, "a.id")
	assert.ErrorIs(t, err, ErrUnknownField)

	_, err = ParsePage(url.Values{"size": {"0"}}, 20, 100)
	assert.ErrorIs(t, err, ErrInvalidParam)
}
