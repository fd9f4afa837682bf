// Package attrs reads slog-style key/value lists so the same arguments can
// feed both a log line and a structured record.
package attrs

// Strings collects the string-valued pairs of list, formatted as
// [key1, value1, key2, value2, ...]. Non-string keys or values are skipped;
// a later duplicate key wins. A trailing key without a value is ignored.
func Strings(list []any) map[string]string {
	out := make(map[string]string, len(list)/2)
	for i := 0; i+1 < len(list); i += 2 {
		k, ok := list[i].(string)
		if !ok {
			continue
		}
		if v, ok := list[i+1].(string); ok {
			out[k] = v
		}
	}
	return out
}
