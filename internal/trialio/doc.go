// Package trialio discovers trial file pairs and parses them into the series
// types of package pressure.
//
// A trial is a file name present in both the reference-pressure directory
// and the sensor directory. Reference files carry one header row followed by
// index, time, pressure columns; sensor files carry five header rows followed
// by time and 256 cell columns.
package trialio
