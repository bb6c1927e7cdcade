package careplan

import (
	"testing"
	"time"
)

// TestBucketFor_Cutoffs tests the bucket boundaries
func TestBucketFor_Cutoffs(t *testing.T) {
	cases := []struct {
		hour   int
		minute int
		want   Bucket
	}{
		{hour: 5, minute: 59, want: BucketNight},
		{hour: 6, minute: 0, want: BucketMorning},
		{hour: 11, minute: 59, want: BucketMorning},
		{hour: 12, minute: 0, want: BucketAfternoon},
		{hour: 16, minute: 59, want: BucketAfternoon},
		{hour: 17, minute: 0, want: BucketEvening},
		{hour: 20, minute: 59, want: BucketEvening},
		{hour: 21, minute: 0, want: BucketNight},
		{hour: 0, minute: 0, want: BucketNight},
	}

	for _, tc := range cases {
		ts := time.Date(2026, 1, 15, tc.hour, tc.minute, 0, 0, time.UTC)
		got := BucketFor(ts)
		if got != tc.want {
			t.Errorf("%02d:%02d: expected %s, got %s", tc.hour, tc.minute, tc.want, got)
		}
	}
}

// TestAppliesAt tests restriction matching
func TestAppliesAt(t *testing.T) {
	if !appliesAt(nil, BucketMorning) {
		t.Error("Expected no restriction to always apply")
	}
	if !appliesAt([]string{"morning", "night"}, BucketNight) {
		t.Error("Expected night restriction to match night bucket")
	}
	if appliesAt([]string{"morning"}, BucketEvening) {
		t.Error("Expected morning restriction not to match evening bucket")
	}
}
