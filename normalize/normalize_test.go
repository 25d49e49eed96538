package normalize

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDUnwrapsWrappers(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"plain string", "abc", "abc"},
		{"oid wrapper non-hex", map[string]any{"$oid": "abc"}, "abc"},
		{"oid wrapper valid", map[string]any{"$oid": "507F1F77BCF86CD799439011"}, "507f1f77bcf86cd799439011"},
		{"nil", nil, ""},
		{"empty map", map[string]any{}, ""},
		{"wrong wrapper payload", map[string]any{"$oid": []any{"x"}}, ""},
		{"number", float64(42), "42"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ID(tc.in))
		})
	}
}

func TestDateCanonicalizes(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"rfc3339", "2024-01-01T00:00:00Z", "2024-01-01T00:00:00.000Z"},
		{"date wrapper", map[string]any{"$date": "2024-01-01T00:00:00Z"}, "2024-01-01T00:00:00.000Z"},
		{"already canonical", "2024-01-01T00:00:00.000Z", "2024-01-01T00:00:00.000Z"},
		{"date only", "2024-06-15", "2024-06-15T00:00:00.000Z"},
		{"epoch millis wrapper", map[string]any{"$date": map[string]any{"$numberLong": "1704067200000"}}, "2024-01-01T00:00:00.000Z"},
		{"offset converted to utc", "2024-01-01T05:30:00+05:30", "2024-01-01T00:00:00.000Z"},
		{"garbage", "not-a-date", ""},
		{"nil", nil, ""},
		{"empty", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Date(tc.in))
		})
	}
}

func TestLeaveScenario(t *testing.T) {
	raw := map[string]any{
		"_id":       map[string]any{"$oid": "abc"},
		"startDate": map[string]any{"$date": "2024-01-01T00:00:00Z"},
		"status":    "PENDING",
	}

	rec := Leave(raw)
	assert.Equal(t, "abc", rec.ID)
	assert.Equal(t, "2024-01-01T00:00:00.000Z", rec.StartDate)
	assert.Equal(t, "pending", rec.Status)
}

func TestLeaveDisplayNameFallbacks(t *testing.T) {
	nested := Leave(map[string]any{
		"user": map[string]any{"firstName": "Ada", "lastName": "Lovelace", "_id": map[string]any{"$oid": "507f1f77bcf86cd799439011"}},
	})
	assert.Equal(t, "Ada Lovelace", nested.EmployeeName)
	assert.Equal(t, "507f1f77bcf86cd799439011", nested.EmployeeID)

	flat := Leave(map[string]any{"employeeName": "Ada Lovelace"})
	assert.Equal(t, "Ada Lovelace", flat.EmployeeName)

	neither := Leave(map[string]any{})
	assert.Equal(t, "", neither.EmployeeName)
}

func TestNormalizersNeverPanic(t *testing.T) {
	inputs := []map[string]any{
		nil,
		{},
		{"_id": nil, "startDate": nil, "user": nil},
		{"_id": []any{"x"}, "startDate": 3.14, "status": 7},
		{"user": map[string]any{"firstName": nil}},
		{"startDate": "31/12/2024"},
	}

	for _, in := range inputs {
		assert.NotPanics(t, func() {
			_ = Leave(in)
			_ = Attendance(in)
			_ = Handover(in)
		})
	}
}

func TestNormalizationIdempotent(t *testing.T) {
	raw := map[string]any{
		"_id":       map[string]any{"$oid": "507f1f77bcf86cd799439011"},
		"user":      map[string]any{"firstName": "Ada", "lastName": "Lovelace", "_id": "u1"},
		"teamLead":  map[string]any{"firstName": "Grace", "lastName": "Hopper"},
		"type":      "Annual",
		"startDate": map[string]any{"$date": "2024-01-01T00:00:00Z"},
		"endDate":   "2024-01-05",
		"reason":    "family visit",
		"status":    "PENDING",
		"createdAt": "2023-12-20T09:15:00+02:00",
	}

	once := Leave(raw)
	twice := Leave(AsMap(once))
	require.Equal(t, once, twice)
}

func TestAttendanceIdempotent(t *testing.T) {
	raw := map[string]any{
		"_id":     "att-1",
		"user":    map[string]any{"firstName": "Ada", "lastName": "Lovelace", "_id": "u1"},
		"date":    "2024-03-01",
		"clockIn": map[string]any{"$date": "2024-03-01T08:59:12Z"},
		"status":  "Present",
		"shift":   "morning",
	}

	once := Attendance(raw)
	twice := Attendance(AsMap(once))
	require.Equal(t, once, twice)
	assert.Equal(t, "present", once.Status)
	assert.Equal(t, "2024-03-01T08:59:12.000Z", once.ClockIn)
}

func TestLooseDecodesAllShapes(t *testing.T) {
	var doc struct {
		ID      Loose `json:"id"`
		Start   Loose `json:"start"`
		Plain   Loose `json:"plain"`
		Garbage Loose `json:"garbage"`
	}

	blob := []byte(`{
		"id": {"$oid": "507f1f77bcf86cd799439011"},
		"start": {"$date": "2024-01-01T00:00:00Z"},
		"plain": "x",
		"garbage": [1, 2]
	}`)
	require.NoError(t, json.Unmarshal(blob, &doc))

	assert.Equal(t, "507f1f77bcf86cd799439011", doc.ID.String())
	assert.Equal(t, "2024-01-01T00:00:00Z", doc.Start.String())
	assert.Equal(t, "x", doc.Plain.String())
	assert.Equal(t, "", doc.Garbage.String())

	// Round trip: Loose marshals to a plain string, so decoding its own
	// output yields the same value.
	out, err := json.Marshal(doc.ID)
	require.NoError(t, err)
	var again Loose
	require.NoError(t, json.Unmarshal(out, &again))
	assert.Equal(t, doc.ID.String(), again.String())
}
