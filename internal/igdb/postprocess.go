package igdb

import (
	"strings"
	"time"

	"github.com/biter777/countries"
)

// PostProcess converts raw IGDB values into their human-readable forms:
// unix timestamps in date fields become YYYY-MM-DD strings and numeric
// ISO 3166-1 country codes become alpha-3. Values it cannot convert are
// left untouched. The walk is recursive so nested objects (covers,
// release dates, company records) get the same treatment.
func PostProcess(record Record) Record {
	processed, _ := processValue("", record).(Record)
	return processed
}

func PostProcessAll(records []Record) []Record {
	processed := make([]Record, 0, len(records))
	for _, record := range records {
		processed = append(processed, PostProcess(record))
	}
	return processed
}

func processValue(key string, value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(Record, len(v))
		for k, nested := range v {
			out[k] = processValue(k, nested)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = processValue(key, item)
		}
		return out
	case float64:
		// JSON numbers decode as float64
		if isDateField(key) && v > 0 {
			return unixToDate(v)
		}
		if key == "country" {
			return countryAlpha3(v)
		}
		return v
	default:
		return v
	}
}

func isDateField(key string) bool {
	lower := strings.ToLower(key)
	return strings.Contains(lower, "date")
}

func unixToDate(value float64) any {
	ts := int64(value)
	return time.Unix(ts, 0).UTC().Format("2006-01-02")
}

func countryAlpha3(value float64) any {
	code := countries.ByNumeric(int(value))
	if code == countries.Unknown {
		return value
	}
	return code.Alpha3()
}
