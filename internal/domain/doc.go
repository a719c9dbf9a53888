// Package domain models the readings exported by a field temperature/humidity
// data logger and the monthly report built from them.
//
// # Log Format
//
// The logger writes one reading per line as whitespace-separated tokens:
//
//	<date> <time> <logger_id> <temperature> <humidity> [ignored...]
//	2024-03-01 00:15:00 LOG42 4.8 61.2 OK
//
// Date is "YYYY-MM-DD" and time is "HH:MM:SS" (24-hour, zero-padded). The pair
// is parsed strictly as "2006-01-02 15:04:05" in UTC. Temperature is degrees
// Celsius and humidity is relative humidity in percent; both are decimals.
//
// Files exported from some loggers carry NUL bytes between characters and a
// header or footer block. NUL bytes are stripped before tokenizing and any
// line with fewer than six tokens is treated as noise.
//
// Logger identity:
//
//	The third token of the first line with at least six tokens names the
//	logger for the whole file. Later lines never change it, even when they
//	carry a different id.
//
// Month keys:
//
//	Readings are grouped by "YYYY-MM", the first two dash-separated parts of
//	the date token. Because the format is zero-padded, lexicographic order is
//	chronological order.
//
// # Alarm Thresholds
//
// Stored goods must stay between 2.0 °C and 10.0 °C. A value counts as out of
// bounds only when it is strictly below [AlarmLower] or strictly above
// [AlarmUpper]; the thresholds themselves are in bounds.
//
// # Report Layout
//
// A report covers one month. Page one holds the summary statistics and two
// time-series charts. The remaining pages tabulate every reading in two
// columns of a fixed number of rows each; see [PlanPages]. Sequence numbers
// start at 1 for the first reading of the month regardless of how many rows
// fit on a page.
package domain
