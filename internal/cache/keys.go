package cache

// Tag keys for views that depend on visit-level rows. A successful report
// submit invalidates all of them for the affected visit record and client.

func VisitTasksKey(visitID string) string {
	return "visit-tasks:" + visitID
}

func VisitMedicationsKey(visitID string) string {
	return "visit-medications:" + visitID
}

func VisitVitalsKey(visitID string) string {
	return "visit-vitals:" + visitID
}

func VisitEventsKey(visitID string) string {
	return "visit-events:" + visitID
}

func VisitRecordDetailsKey(visitID string) string {
	return "visit-record-details:" + visitID
}

func CarePlanGoalsKey(clientID string) string {
	return "care-plan-goals:" + clientID
}

func ClientActivitiesKey(clientID string) string {
	return "client-activities:" + clientID
}
