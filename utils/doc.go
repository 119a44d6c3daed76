// Package utils provides time-of-day helpers shared by the schedule store,
// the realtime client and the formatters.
//
// Schedule times are kept as raw seconds past midnight of the service day.
// Values of 86400 and above are post-midnight trips belonging to the previous
// service day and are never wrapped before comparison.
package utils
