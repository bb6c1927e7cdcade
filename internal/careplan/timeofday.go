package careplan

import "time"

// Bucket is the time-of-day segment a booking's scheduled start falls into.
// Stored medication restrictions use the same lowercase names.
type Bucket string

const (
	BucketMorning   Bucket = "morning"   // 06:00-11:59
	BucketAfternoon Bucket = "afternoon" // 12:00-16:59
	BucketEvening   Bucket = "evening"   // 17:00-20:59
	BucketNight     Bucket = "night"     // 21:00-05:59
)

// BucketFor maps a timestamp to its time-of-day bucket.
func BucketFor(t time.Time) Bucket {
	hour := t.Hour()
	switch {
	case hour >= 6 && hour < 12:
		return BucketMorning
	case hour >= 12 && hour < 17:
		return BucketAfternoon
	case hour >= 17 && hour < 21:
		return BucketEvening
	default:
		return BucketNight
	}
}

// appliesAt reports whether a medication with the given time-of-day
// restrictions is due in the bucket. No restriction means always due.
func appliesAt(timesOfDay []string, bucket Bucket) bool {
	if len(timesOfDay) == 0 {
		return true
	}
	for _, tod := range timesOfDay {
		if Bucket(tod) == bucket {
			return true
		}
	}
	return false
}
