package service

import (
	"errors"
	"testing"
	"time"

	"go-medical-scheduling/internal/domain/availability"
)

const testRule = "FREQ=WEEKLY;BYDAY=MO,TU,WE,TH,FR;DTSTART=20261026T090000;UNTIL=20261030T170000"

func TestRuleCache_ParseCachesByScheduleVersion(t *testing.T) {
	cache, err := NewRuleCache(8, time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	updatedAt := time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)

	first, err := cache.Parse(1, updatedAt, testRule)
	if err != nil {
		t.Fatal(err)
	}
	second, err := cache.Parse(1, updatedAt, "garbage that is never parsed")
	if err != nil {
		t.Fatalf("cached entry should be returned without parsing: %v", err)
	}
	if first != second {
		t.Fatal("expected the cached pointer to be reused")
	}

	if _, err := cache.Parse(1, updatedAt.Add(time.Second), "FREQ=DAILY"); !errors.Is(err, availability.ErrMalformedRule) {
		t.Fatalf("edited schedule should be re-parsed, got %v", err)
	}
	if cache.Len() != 1 {
		t.Fatalf("parse errors must not be cached, len = %d", cache.Len())
	}
}

func TestRuleCache_EvictsLeastRecentlyUsed(t *testing.T) {
	cache, err := NewRuleCache(2, time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	now := time.Now()
	for id := 1; id <= 3; id++ {
		if _, err := cache.Parse(id, now, testRule); err != nil {
			t.Fatal(err)
		}
	}
	if cache.Len() != 2 {
		t.Fatalf("len = %d, want 2", cache.Len())
	}
}

func TestNewRuleCache_RejectsNonPositiveSize(t *testing.T) {
	if _, err := NewRuleCache(0, time.UTC); err == nil {
		t.Fatal("expected error for size 0")
	}
}
