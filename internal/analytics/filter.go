package analytics

// Partition keeps the records whose day falls inside window, in input order.
// The result is never nil.
func Partition(records []DailyRecord, window DateWindow) []DailyRecord {
	out := make([]DailyRecord, 0, len(records))
	if window.Empty() {
		return out
	}
	for _, r := range records {
		if window.Contains(r.Date) {
			out = append(out, r)
		}
	}
	return out
}
