package entity

import (
	"reflect"
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }

func TestConditionRoundTrip(t *testing.T) {
	encoded := EncodeConditions([]string{"DM", "HTN"})
	if encoded == nil || *encoded != `["DM","HTN"]` {
		t.Fatalf("unexpected encoding %v", encoded)
	}
	if got := DecodeConditions(encoded); !reflect.DeepEqual(got, []string{"DM", "HTN"}) {
		t.Errorf("strict decode mismatch: %v", got)
	}
	if got := CoerceConditions(encoded); !reflect.DeepEqual(got, []string{"DM", "HTN"}) {
		t.Errorf("lenient decode mismatch: %v", got)
	}
}

func TestEncodeConditionsNilAndEmpty(t *testing.T) {
	if EncodeConditions(nil) != nil {
		t.Error("nil list should encode to NULL")
	}
	if got := EncodeConditions([]string{}); got == nil || *got != "[]" {
		t.Errorf("empty list should encode to [], got %v", got)
	}
}

func TestDecodeConditionsStrict(t *testing.T) {
	tests := []struct {
		name string
		raw  *string
	}{
		{"null", nil},
		{"blank", strPtr("  ")},
		{"legacy scalar", strPtr("DM")},
		{"json string", strPtr(`"DM"`)},
	}
	for _, tt := range tests {
		got := DecodeConditions(tt.raw)
		if got == nil || len(got) != 0 {
			t.Errorf("%s: expected empty list, got %v", tt.name, got)
		}
	}
}

func TestCoerceConditionsLegacy(t *testing.T) {
	tests := []struct {
		name string
		raw  *string
		want []string
	}{
		{"null", nil, []string{}},
		{"plain text", strPtr("DM"), []string{"DM"}},
		{"json string", strPtr(`"HTN"`), []string{"HTN"}},
		{"json number", strPtr(`5`), []string{"5"}},
		{"json null", strPtr(`null`), []string{}},
		{"mixed array", strPtr(`["DM", 3]`), []string{"DM", "3"}},
	}
	for _, tt := range tests {
		if got := CoerceConditions(tt.raw); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, got)
		}
	}
}

func TestSiblingsHistoryFallback(t *testing.T) {
	legacy := &MedicalRecord{FamilyHistorySibling: strPtr(`["CA"]`)}
	if got := CoerceConditions(legacy.SiblingsHistory()); !reflect.DeepEqual(got, []string{"CA"}) {
		t.Errorf("expected fallback to legacy column, got %v", got)
	}

	current := &MedicalRecord{FamilyHistorySiblings: strPtr(`[]`), FamilyHistorySibling: strPtr(`["CA"]`)}
	if got := CoerceConditions(current.SiblingsHistory()); len(got) != 0 {
		t.Errorf("expected current column to win, got %v", got)
	}
}

func TestCalculateBMI(t *testing.T) {
	tests := []struct {
		weight, height float64
		want           float64
		ok             bool
	}{
		{70, 175, 22.9, true},
		{85.5, 160, 33.4, true},
		{60, 0, 0, false},
		{0, 170, 0, false},
	}
	for _, tt := range tests {
		got, ok := CalculateBMI(tt.weight, tt.height)
		if ok != tt.ok || got != tt.want {
			t.Errorf("BMI(%v, %v) = %v, %v; want %v, %v", tt.weight, tt.height, got, ok, tt.want, tt.ok)
		}
	}
}

func TestAgeAt(t *testing.T) {
	dob := time.Date(1990, time.June, 15, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		at   time.Time
		want int
	}{
		{time.Date(2026, time.June, 14, 0, 0, 0, 0, time.UTC), 35},
		{time.Date(2026, time.June, 15, 0, 0, 0, 0, time.UTC), 36},
		{time.Date(1989, time.January, 1, 0, 0, 0, 0, time.UTC), 0},
	}
	for _, tt := range tests {
		if got := AgeAt(dob, tt.at); got != tt.want {
			t.Errorf("AgeAt(%s) = %d, want %d", tt.at.Format("2006-01-02"), got, tt.want)
		}
	}
}

func TestDateScan(t *testing.T) {
	var d Date
	if err := d.Scan(time.Date(1990, time.May, 4, 0, 0, 0, 0, time.FixedZone("x", -5*3600))); err != nil {
		t.Fatal(err)
	}
	if d.String() != "1990-05-04" {
		t.Errorf("unexpected date %s", d)
	}
	if err := d.Scan([]byte("2001-12-31")); err != nil || d.String() != "2001-12-31" {
		t.Errorf("unexpected result %s, %v", d, err)
	}
	if v, _ := d.Value(); v != "2001-12-31" {
		t.Errorf("unexpected driver value %v", v)
	}
	if err := d.Scan(42); err == nil {
		t.Error("expected error for unsupported type")
	}
}
